package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"swf-translator/internal/cache"
	"swf-translator/internal/config"
	"swf-translator/internal/corpus"
	"swf-translator/internal/graph"
	"swf-translator/internal/rag"
	"swf-translator/internal/translation"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Providers lists the translation back-ends.
var Providers = []string{"azure", "gemini"}

// ErrUnknownProvider is returned for a provider not in Providers.
var ErrUnknownProvider = errors.New("unknown translation provider")

func translateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "translate <azure|gemini>",
		Short:     "Translate every corpus string with a machine translation provider",
		Args:      cobra.ExactArgs(1),
		ValidArgs: Providers,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()

			cfg := loadConfig(cmd)
			for flag, dst := range map[string]*string{
				"azure-subscription-key":    &cfg.AzureSubscriptionKey,
				"azure-endpoint-url":        &cfg.AzureEndpointURL,
				"azure-subscription-region": &cfg.AzureSubscriptionRegion,
				"cache-dir":                 &cfg.CacheDir,
			} {
				if v, _ := cmd.Flags().GetString(flag); v != "" {
					*dst = v
				}
			}
			return runTranslate(ctx, cfg, args[0])
		},
	}

	cmd.Flags().String("azure-subscription-key", "", "Azure Translator subscription key")
	cmd.Flags().String("azure-endpoint-url", "", "Azure Translator endpoint")
	cmd.Flags().String("azure-subscription-region", "", "Azure Translator resource region")
	cmd.Flags().String("cache-dir", "", "Directory for file-backed translation caches")
	return cmd
}

// cacheFileName is the file-backed cache of a provider.
func cacheFileName(provider string) string {
	return "swf-translator-cache-" + provider + ".json"
}

func runTranslate(ctx context.Context, cfg *config.Config, provider string) error {
	provider = strings.ToLower(provider)

	c, err := corpus.Load(cfg.CorpusPath)
	if err != nil {
		return err
	}

	r := &resources{}
	defer r.close(ctx)

	if cfg.DatabaseURL != "" {
		if r.pool, err = connectPostgres(ctx, cfg.DatabaseURL); err != nil {
			return err
		}
	}

	tr, err := newTranslator(ctx, cfg, provider, r)
	if err != nil {
		return err
	}

	var store cache.Store
	if r.pool != nil {
		pgStore := cache.NewPostgresStore(r.pool, provider)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			return err
		}
		store = pgStore
	} else {
		fileStore, err := cache.OpenFileStore(filepath.Join(cfg.CacheDir, cacheFileName(provider)))
		if err != nil {
			return fmt.Errorf("open translation cache: %w", err)
		}
		store = fileStore
	}

	translationCache := cache.NewTranslationCache(store)
	if err := translationCache.Preload(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to preload cache")
	}

	batcher := translation.NewBatcher(tr, translationCache, cfg.BatchSize, cfg.MaxConcurrentAPICalls)
	if err := translateCorpus(ctx, c, batcher); err != nil {
		return err
	}

	if err := c.Save(cfg.CorpusPath); err != nil {
		return fmt.Errorf("save corpus: %w", err)
	}

	log.Info().
		Str("provider", provider).
		Int("strings", c.Len()).
		Str("corpus", cfg.CorpusPath).
		Msg("Translation complete")
	return nil
}

// translateCorpus replaces every corpus translation with the batcher's
// translation of the original string.
func translateCorpus(ctx context.Context, c *corpus.Corpus, b *translation.Batcher) error {
	originals := c.Originals()
	translated, err := b.TranslateAll(ctx, originals)
	if err != nil {
		return fmt.Errorf("translate corpus: %w", err)
	}
	for i, orig := range originals {
		c.Set(orig, translated[i])
	}
	return nil
}

func newTranslator(ctx context.Context, cfg *config.Config, provider string, r *resources) (translation.Translator, error) {
	switch provider {
	case "azure":
		return translation.NewAzureClient(translation.AzureOptions{
			SubscriptionKey:    cfg.AzureSubscriptionKey,
			EndpointURL:        cfg.AzureEndpointURL,
			SubscriptionRegion: cfg.AzureSubscriptionRegion,
			From:               cfg.SourceLanguage,
			To:                 cfg.TargetLanguage,
		})

	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, errors.New("GEMINI_API_KEY is required for the gemini provider")
		}
		retriever, err := newRetriever(ctx, cfg, r)
		if err != nil {
			return nil, err
		}
		return translation.NewGeminiClient(translation.GeminiOptions{
			APIKey:    cfg.GeminiAPIKey,
			Model:     cfg.TranslationModel,
			Source:    cfg.SourceLanguage,
			Target:    cfg.TargetLanguage,
			Retriever: retriever,
		}), nil

	default:
		return nil, fmt.Errorf("%w %q (want one of %s)", ErrUnknownProvider, provider, strings.Join(Providers, ", "))
	}
}

// newRetriever wires the glossary and translation memory that are
// configured. It returns nil when neither is.
func newRetriever(ctx context.Context, cfg *config.Config, r *resources) (translation.ContextRetriever, error) {
	var terms rag.TermFinder
	driver, err := connectNeo4j(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if driver != nil {
		r.neo4j = driver
		terms = graph.NewGlossary(driver)
	}

	var memory rag.MemorySearcher
	var embedder rag.Embedder
	if r.pool != nil && cfg.EmbeddingAPIKey != "" {
		memory = rag.NewVectorStore(r.pool, cfg.EmbeddingDimensions)
		embedder = rag.NewEmbeddingClient(cfg.EmbeddingAPIKey, cfg.EmbeddingModel, cfg.EmbeddingBaseURL, cfg.EmbeddingDimensions)
	}

	if terms == nil && memory == nil {
		log.Debug().Msg("No glossary or translation memory configured")
		return nil, nil
	}
	return rag.NewRetriever(terms, memory, embedder), nil
}
