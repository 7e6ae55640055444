package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

const (
	// SubjectRegistered announces the service coming online.
	SubjectRegistered = "support.chatbot.registered"
	// SubjectTurn is emitted after every completed chat turn.
	SubjectTurn = "support.chat.turn"
)

// TurnEvent describes one completed chat turn for downstream analytics.
type TurnEvent struct {
	EventID        string `json:"event_id"`
	ConversationID string `json:"conversation_id"`
	ChunkCount     int    `json:"chunk_count"`
	DurationMS     int64  `json:"duration_ms"`
	Timestamp      string `json:"timestamp"`
}

// Publisher emits service events over NATS. It is an optional collaborator:
// the service runs fine without one, and publish failures are never fatal to
// a turn.
type Publisher struct {
	conn   *nats.Conn
	logger *slog.Logger
}

func Connect(url string, logger *slog.Logger) (*Publisher, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &Publisher{conn: nc, logger: logger}, nil
}

func (p *Publisher) Close() {
	p.conn.Close()
}

// PublishRegistered announces the service and the port it listens on.
func (p *Publisher) PublishRegistered(port int) error {
	return p.publish(SubjectRegistered, map[string]any{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"port":      port,
	})
}

// PublishTurn emits a TurnEvent for one completed turn.
func (p *Publisher) PublishTurn(conversationID string, chunkCount int, elapsed time.Duration) error {
	return p.publish(SubjectTurn, TurnEvent{
		EventID:        uuid.NewString(),
		ConversationID: conversationID,
		ChunkCount:     chunkCount,
		DurationMS:     elapsed.Milliseconds(),
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	})
}

func (p *Publisher) publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return p.conn.Publish(subject, payload)
}
