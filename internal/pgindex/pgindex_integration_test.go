//go:build integration

package pgindex

import (
	"context"
	"os"
	"testing"
)

// staticEmbedder avoids a live embeddings API; the test fixture rows must
// carry vectors of the same dimension.
type staticEmbedder struct {
	vec []float32
}

func (e *staticEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.vec, nil
}

func setupTestIndex(t *testing.T) *Index {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	ix, err := New(ctx, dbURL, &staticEmbedder{vec: []float32{1, 0, 0}}, "integration-test", 3)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(func() {
		ix.Close()
	})
	return ix
}

func TestIntegration_Search(t *testing.T) {
	ix := setupTestIndex(t)
	ctx := context.Background()

	// Seed three chunks in the test namespace, nearest first.
	_, err := ix.pool.Exec(ctx, `DELETE FROM chunks WHERE namespace = 'integration-test'`)
	if err != nil {
		t.Fatalf("failed to clear fixture rows: %v", err)
	}
	for _, row := range []struct {
		id, text, embedding string
	}{
		{"chunk-near", "closest chunk", "[1,0,0]"},
		{"chunk-mid", "middle chunk", "[0.7,0.7,0]"},
		{"chunk-far", "distant chunk", "[0,0,1]"},
	} {
		_, err := ix.pool.Exec(ctx,
			`INSERT INTO chunks (namespace, id, chunk_text, embedding) VALUES ('integration-test', $1, $2, $3)`,
			row.id, row.text, row.embedding,
		)
		if err != nil {
			t.Fatalf("failed to insert fixture row %s: %v", row.id, err)
		}
	}

	hits, err := ix.Search(ctx, "anything")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 3 {
		t.Fatalf("expected 3 hits, got %d", len(hits))
	}
	if hits[0].ID != "chunk-near" {
		t.Errorf("expected chunk-near first, got %q", hits[0].ID)
	}
	if hits[0].Text != "closest chunk" {
		t.Errorf("unexpected hit text %q", hits[0].Text)
	}
	if hits[2].ID != "chunk-far" {
		t.Errorf("expected chunk-far last, got %q", hits[2].ID)
	}
}
