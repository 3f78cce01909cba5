package rag

import (
	"context"
	"fmt"

	"swf-translator/internal/textutil"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
	"github.com/rs/zerolog/log"
)

// VectorStore keeps past translations with the embedding of their source
// text in PostgreSQL (pgvector) for similarity search.
type VectorStore struct {
	pool       *pgxpool.Pool
	dimensions int
}

// NewVectorStore creates a store for vectors of the given size.
func NewVectorStore(pool *pgxpool.Pool, dimensions int) *VectorStore {
	return &VectorStore{pool: pool, dimensions: dimensions}
}

// MemoryRecord is one translated string and its embedding.
type MemoryRecord struct {
	Source     string
	Translated string
	Vector     []float32
}

// SearchResult is a similarity search match.
type SearchResult struct {
	Source     string
	Translated string
	Score      float64
}

// EnsureSchema creates the vector extension, table and index.
func (vs *VectorStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS translation_memory (
				hash       TEXT PRIMARY KEY,
				source     TEXT NOT NULL,
				translated TEXT NOT NULL,
				embedding  vector(%d) NOT NULL
			)`, vs.dimensions),
		`CREATE INDEX IF NOT EXISTS translation_memory_embedding_idx
			ON translation_memory USING hnsw (embedding vector_cosine_ops)`,
	}
	for _, s := range stmts {
		if _, err := vs.pool.Exec(ctx, s); err != nil {
			return fmt.Errorf("ensure translation memory schema: %w", err)
		}
	}
	log.Debug().Msg("Translation memory schema ensured")
	return nil
}

// Store upserts records in one batch.
func (vs *VectorStore) Store(ctx context.Context, records []MemoryRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(`
			INSERT INTO translation_memory (hash, source, translated, embedding)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (hash) DO UPDATE
			SET translated = EXCLUDED.translated, embedding = EXCLUDED.embedding
		`, textutil.Hash(r.Source), r.Source, r.Translated, pgvector.NewVector(r.Vector))
	}

	if err := vs.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("store translation memory: %w", err)
	}

	log.Info().Int("count", len(records)).Msg("Stored translation memory")
	return nil
}

// Search returns the topK stored translations closest to queryVector by
// cosine similarity.
func (vs *VectorStore) Search(ctx context.Context, queryVector []float32, topK int) ([]SearchResult, error) {
	rows, err := vs.pool.Query(ctx, `
		SELECT source, translated, 1 - (embedding <=> $1) AS similarity
		FROM translation_memory
		ORDER BY embedding <=> $1
		LIMIT $2
	`, pgvector.NewVector(queryVector), topK)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Source, &r.Translated, &r.Score); err != nil {
			return nil, fmt.Errorf("scan search result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	return results, nil
}
