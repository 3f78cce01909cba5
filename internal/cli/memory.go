package cli

import (
	"context"
	"errors"
	"fmt"

	"swf-translator/internal/config"
	"swf-translator/internal/corpus"
	"swf-translator/internal/rag"
	"swf-translator/internal/textutil"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func memoryIngestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "memory-ingest",
		Short: "Store the corpus translations as translation memory in pgvector",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()
			return runMemoryIngest(ctx, loadConfig(cmd))
		},
	}
}

// memoryPairs returns the corpus pairs worth remembering: translated and
// not blank.
func memoryPairs(c *corpus.Corpus) []corpus.Pair {
	var pairs []corpus.Pair
	for _, p := range c.Pairs() {
		if p.Orig == p.Tran || textutil.IsBlank(p.Orig) || textutil.IsBlank(p.Tran) {
			continue
		}
		pairs = append(pairs, p)
	}
	return pairs
}

func runMemoryIngest(ctx context.Context, cfg *config.Config) error {
	if cfg.DatabaseURL == "" || cfg.EmbeddingAPIKey == "" {
		return errors.New("DATABASE_URL and EMBEDDING_API_KEY are required for memory-ingest")
	}

	c, err := corpus.Load(cfg.CorpusPath)
	if err != nil {
		return err
	}
	pairs := memoryPairs(c)
	if len(pairs) == 0 {
		log.Warn().Msg("No translated strings in corpus")
		return nil
	}

	pool, err := connectPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	store := rag.NewVectorStore(pool, cfg.EmbeddingDimensions)
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	sources := make([]string, len(pairs))
	for i, p := range pairs {
		sources[i] = p.Orig
	}

	embedder := rag.NewEmbeddingClient(cfg.EmbeddingAPIKey, cfg.EmbeddingModel, cfg.EmbeddingBaseURL, cfg.EmbeddingDimensions)
	vectors, err := embedder.EmbedBatch(ctx, sources, cfg.BatchSize)
	if err != nil {
		return fmt.Errorf("generate embeddings: %w", err)
	}

	records := make([]rag.MemoryRecord, len(pairs))
	for i, p := range pairs {
		records[i] = rag.MemoryRecord{Source: p.Orig, Translated: p.Tran, Vector: vectors[i]}
	}
	if err := store.Store(ctx, records); err != nil {
		return err
	}

	log.Info().Int("pairs", len(records)).Msg("Translation memory ingest complete")
	return nil
}
