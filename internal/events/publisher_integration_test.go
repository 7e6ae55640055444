//go:build integration

package events

import (
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
)

func skipWithoutNATS(t *testing.T) string {
	t.Helper()
	url := os.Getenv("NATS_URL")
	if url == "" {
		t.Skip("NATS_URL not set, skipping integration test")
	}
	return url
}

func TestIntegration_PublishTurn(t *testing.T) {
	natsURL := skipWithoutNATS(t)
	logger := slog.Default()

	pub, err := Connect(natsURL, logger)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer pub.Close()

	nc, err := nats.Connect(natsURL)
	if err != nil {
		t.Fatalf("failed to connect subscriber: %v", err)
	}
	defer nc.Close()

	received := make(chan TurnEvent, 1)
	_, err = nc.Subscribe(SubjectTurn, func(msg *nats.Msg) {
		var evt TurnEvent
		json.Unmarshal(msg.Data, &evt)
		received <- evt
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	// Give subscription time to propagate
	time.Sleep(100 * time.Millisecond)

	if err := pub.PublishTurn("c1", 3, 250*time.Millisecond); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case evt := <-received:
		if evt.ConversationID != "c1" {
			t.Errorf("expected conversation c1, got %q", evt.ConversationID)
		}
		if evt.ChunkCount != 3 {
			t.Errorf("expected chunk count 3, got %d", evt.ChunkCount)
		}
		if evt.EventID == "" {
			t.Error("expected event id to be set")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for turn event")
	}
}
