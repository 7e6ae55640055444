package conversation

import "sync"

// Store holds every live conversation, keyed by id. All state is in-process
// memory; nothing survives a restart.
type Store struct {
	mu    sync.Mutex
	convs map[string]*Conversation
}

func NewStore() *Store {
	return &Store{convs: make(map[string]*Conversation)}
}

// GetOrCreate returns the conversation for id, initializing it with the
// seed history and an empty chunk pool if it does not exist yet. The store
// mutex makes initialization atomic: under concurrent requests for the same
// new id exactly one seed wins and the rest see it.
func (s *Store) GetOrCreate(id string, seed []Message) *Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.convs[id]; ok {
		return c
	}
	c := &Conversation{
		history: append([]Message(nil), seed...),
		chunks:  make(ChunkPool),
	}
	s.convs[id] = c
	return c
}

// Get returns the conversation for id, or ErrNotFound.
func (s *Store) Get(id string) (*Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.convs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

// Delete removes the conversation for id, history and chunk pool together,
// or returns ErrNotFound.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.convs[id]; !ok {
		return ErrNotFound
	}
	delete(s.convs, id)
	return nil
}
