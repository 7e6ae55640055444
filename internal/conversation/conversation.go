package conversation

import (
	"errors"
	"sync"
)

// ErrNotFound is returned by Get and Delete for an unknown conversation id.
var ErrNotFound = errors.New("conversation not found")

// Role tags a message with its author.
type Role string

const (
	RoleSystem    Role = "system"
	RoleAssistant Role = "assistant"
	RoleUser      Role = "user"
)

// Message is one entry in a conversation history. Messages are immutable
// once appended; only the system prompt at index 0 is ever replaced.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChunkPool maps retrieved chunk ids to their text. It only grows for the
// life of a conversation: a merge overwrites by id and never removes, so
// chunks retrieved for earlier topics stay visible to the model on later
// turns.
type ChunkPool map[string]string

// Conversation holds one conversation's history and its chunk pool. The two
// live and die together; the store never tracks one without the other.
//
// Callers serialize access through Lock/Unlock. A turn holds the lock for
// its whole read-modify-write span, so concurrent turns on one conversation
// cannot interleave. The mutating and reading methods below assume the
// caller holds the lock.
type Conversation struct {
	mu      sync.Mutex
	history []Message
	chunks  ChunkPool
}

func (c *Conversation) Lock()   { c.mu.Lock() }
func (c *Conversation) Unlock() { c.mu.Unlock() }

// History returns a copy of the message history.
func (c *Conversation) History() []Message {
	out := make([]Message, len(c.history))
	copy(out, c.history)
	return out
}

// Len returns the number of messages in the history.
func (c *Conversation) Len() int { return len(c.history) }

// ReplaceSystemPrompt overwrites the reserved slot 0. The system prompt is
// a computed message, not a recorded one: it is rebuilt from the chunk pool
// every turn while the rest of the history is append-only.
func (c *Conversation) ReplaceSystemPrompt(m Message) {
	c.history[0] = m
}

// Append adds a message to the end of the history.
func (c *Conversation) Append(m Message) {
	c.history = append(c.history, m)
}

// DropLast removes the most recent message. It exists so a turn can roll
// back its user append when the completion call fails, keeping every user
// message paired with an assistant reply.
func (c *Conversation) DropLast() {
	if len(c.history) > 0 {
		c.history = c.history[:len(c.history)-1]
	}
}

// MergeChunk records a retrieved chunk, overwriting any previous text for
// the same id. The source index returns the same text for a given id, so
// re-merging is idempotent.
func (c *Conversation) MergeChunk(id, text string) {
	c.chunks[id] = text
}

// Chunks returns a copy of the chunk pool.
func (c *Conversation) Chunks() ChunkPool {
	out := make(ChunkPool, len(c.chunks))
	for id, text := range c.chunks {
		out[id] = text
	}
	return out
}

// ChunkCount returns the number of chunks in the pool.
func (c *Conversation) ChunkCount() int { return len(c.chunks) }
