package cli

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"
)

// resources holds the optional back-end connections of a command.
type resources struct {
	pool  *pgxpool.Pool
	neo4j neo4j.DriverWithContext
}

func (r *resources) close(ctx context.Context) {
	if r.pool != nil {
		r.pool.Close()
	}
	if r.neo4j != nil {
		if err := r.neo4j.Close(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to close Neo4j driver")
		}
	}
}
