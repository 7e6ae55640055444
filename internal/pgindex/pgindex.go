package pgindex

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	pgxvector "github.com/pgvector/pgvector-go/pgx"

	"github.com/gross-labs/supportbot/internal/chat"
)

// Embedder turns query text into a vector. The OpenAI client implements it.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Index is a search backend over an externally populated pgvector table:
//
//	chunks(namespace text, id text, chunk_text text, embedding vector)
//
// It only reads; indexing the documentation corpus happens out of band.
type Index struct {
	pool      *pgxpool.Pool
	embedder  Embedder
	namespace string
	topK      int
}

func New(ctx context.Context, databaseURL string, embedder Embedder, namespace string, topK int) (*Index, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvector.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Index{pool: pool, embedder: embedder, namespace: namespace, topK: topK}, nil
}

func (ix *Index) Close() {
	ix.pool.Close()
}

// Search embeds the query and returns the topK nearest chunks in the
// configured namespace by cosine distance.
func (ix *Index) Search(ctx context.Context, query string) ([]chat.Hit, error) {
	vec, err := ix.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	rows, err := ix.pool.Query(ctx, `
		SELECT id, chunk_text
		FROM chunks
		WHERE namespace = $1
		ORDER BY embedding <=> $2
		LIMIT $3`,
		ix.namespace, pgvector.NewVector(vec), ix.topK,
	)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	var hits []chat.Hit
	for rows.Next() {
		var h chat.Hit
		if err := rows.Scan(&h.ID, &h.Text); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read chunks: %w", err)
	}
	return hits, nil
}
