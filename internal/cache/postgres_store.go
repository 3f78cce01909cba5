package cache

import (
	"context"
	"errors"
	"fmt"

	"swf-translator/internal/textutil"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const createCacheTable = `
CREATE TABLE IF NOT EXISTS translation_cache (
	hash       TEXT PRIMARY KEY,
	provider   TEXT NOT NULL,
	source     TEXT NOT NULL,
	translated TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore keeps cached translations in PostgreSQL, one namespace per
// translation provider.
type PostgresStore struct {
	pool     *pgxpool.Pool
	provider string
}

// NewPostgresStore creates a store for provider's translations.
func NewPostgresStore(pool *pgxpool.Pool, provider string) *PostgresStore {
	return &PostgresStore{pool: pool, provider: provider}
}

// EnsureSchema creates the cache table.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createCacheTable); err != nil {
		return fmt.Errorf("create cache table: %w", err)
	}
	log.Debug().Msg("Cache schema ensured")
	return nil
}

func (s *PostgresStore) key(source string) string {
	return textutil.Hash(s.provider + "\x00" + source)
}

func (s *PostgresStore) Lookup(ctx context.Context, source string) (string, bool, error) {
	var translated string
	err := s.pool.QueryRow(ctx,
		`SELECT translated FROM translation_cache WHERE hash = $1`,
		s.key(source),
	).Scan(&translated)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query cached translation: %w", err)
	}
	return translated, true, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, source, translated string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO translation_cache (hash, provider, source, translated)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (hash) DO UPDATE
		SET translated = EXCLUDED.translated, updated_at = now()
	`, s.key(source), s.provider, source, translated)
	if err != nil {
		return fmt.Errorf("upsert cached translation: %w", err)
	}
	return nil
}

func (s *PostgresStore) All(ctx context.Context) (map[string]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT source, translated FROM translation_cache WHERE provider = $1`,
		s.provider,
	)
	if err != nil {
		return nil, fmt.Errorf("list cached translations: %w", err)
	}
	defer rows.Close()

	all := make(map[string]string)
	for rows.Next() {
		var source, translated string
		if err := rows.Scan(&source, &translated); err != nil {
			return nil, fmt.Errorf("scan cached translation: %w", err)
		}
		all[source] = translated
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cached translations: %w", err)
	}
	return all, nil
}

// Flush is a no-op: every Upsert is already committed.
func (s *PostgresStore) Flush(context.Context) error {
	return nil
}
