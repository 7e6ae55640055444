package chat

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gross-labs/supportbot/internal/conversation"
	"github.com/gross-labs/supportbot/internal/events"
)

// Hit is one retrieved documentation chunk.
type Hit struct {
	ID   string
	Text string
}

// Searcher retrieves documentation chunks relevant to a query. Both the
// Pinecone client and the Postgres index implement it.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Hit, error)
}

// Completer generates the assistant reply for a full conversation history.
type Completer interface {
	Complete(ctx context.Context, messages []conversation.Message) (string, error)
}

// Service runs the per-request chat turn pipeline.
type Service struct {
	store  *conversation.Store
	search Searcher
	llm    Completer
	events *events.Publisher // optional — nil means no event bus
	logger *slog.Logger
}

func New(store *conversation.Store, search Searcher, llm Completer, ev *events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		search: search,
		llm:    llm,
		events: ev,
		logger: logger,
	}
}

// SeedHistory is the initial history for a new conversation: the system
// prompt over an empty chunk pool, then the canned greeting.
func SeedHistory() []conversation.Message {
	return []conversation.Message{
		SystemPrompt(nil),
		{Role: conversation.RoleAssistant, Content: Greeting},
	}
}

// Respond runs one turn: retrieve chunks for the user message, merge them
// into the conversation's pool, rebuild the system prompt, append the user
// turn, call the model, append the raw reply, and return the reply with
// citation markers stripped.
//
// The conversation lock is held for the whole span, so turns on one
// conversation serialize while different conversations proceed
// independently. A retrieval failure aborts the turn before the user
// message is appended; a completion failure rolls the append back, so
// history never holds a user message without its paired assistant reply.
func (s *Service) Respond(ctx context.Context, conversationID, userMessage string) (string, error) {
	conv := s.store.GetOrCreate(conversationID, SeedHistory())
	conv.Lock()
	defer conv.Unlock()

	start := time.Now()

	hits, err := s.search.Search(ctx, userMessage)
	if err != nil {
		return "", fmt.Errorf("search documentation: %w", err)
	}
	for _, h := range hits {
		conv.MergeChunk(h.ID, h.Text)
	}
	conv.ReplaceSystemPrompt(SystemPrompt(conv.Chunks()))

	conv.Append(conversation.Message{Role: conversation.RoleUser, Content: userMessage})

	reply, err := s.llm.Complete(ctx, conv.History())
	if err != nil {
		conv.DropLast()
		return "", fmt.Errorf("complete turn: %w", err)
	}
	conv.Append(conversation.Message{Role: conversation.RoleAssistant, Content: reply})

	if s.events != nil {
		if err := s.events.PublishTurn(conversationID, conv.ChunkCount(), time.Since(start)); err != nil {
			s.logger.Warn("failed to publish turn event", "conversation_id", conversationID, "error", err)
		}
	}
	s.logger.Info("turn completed",
		"conversation_id", conversationID,
		"retrieved", len(hits),
		"pool_size", conv.ChunkCount(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return StripCitations(reply), nil
}
