package translation

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"swf-translator/internal/cache"
	"swf-translator/internal/textutil"
	"swf-translator/internal/worker"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// ErrLengthMismatch is returned when a backend answers a batch with a
// different number of strings than it was given.
var ErrLengthMismatch = errors.New("translation count mismatch")

// Translator is a translation backend. TranslateBatch returns one
// translation per input, in the same order.
type Translator interface {
	Name() string
	TranslateBatch(ctx context.Context, texts []string) ([]string, error)
}

// ContextRetriever supplies extra prompt context (terminology, similar past
// translations) for a batch of source texts.
type ContextRetriever interface {
	BuildContext(ctx context.Context, texts []string) string
}

// Batcher translates arbitrary numbers of strings through a Translator in
// bounded batches, sending only strings the cache does not know yet.
type Batcher struct {
	translator  Translator
	cache       *cache.TranslationCache
	batchSize   int
	concurrency int
}

// NewBatcher creates a batcher. batchSize and concurrency below 1 mean 1.
func NewBatcher(t Translator, c *cache.TranslationCache, batchSize, concurrency int) *Batcher {
	return &Batcher{
		translator:  t,
		cache:       c,
		batchSize:   max(batchSize, 1),
		concurrency: max(concurrency, 1),
	}
}

// TranslateAll returns a translation for every input, in input order.
// Blank inputs translate to themselves without reaching the backend. New
// translations are cached and the cache is flushed before returning, also
// when a batch failed, so finished batches are not lost.
func (b *Batcher) TranslateAll(ctx context.Context, inputs []string) ([]string, error) {
	var unknown []string
	seen := make(map[string]bool)
	for _, s := range inputs {
		if textutil.IsBlank(s) || seen[s] {
			continue
		}
		seen[s] = true
		if _, ok := b.cache.Get(ctx, s); !ok {
			unknown = append(unknown, s)
		}
	}

	batches := worker.Batch(unknown, b.batchSize)
	log.Info().
		Str("provider", b.translator.Name()).
		Int("unique", len(seen)).
		Int("to_translate", len(unknown)).
		Int("batches", len(batches)).
		Msg("Translation plan")

	var done atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for batchIdx, batch := range batches {
		batchIdx, batch := batchIdx, batch
		g.Go(func() error {
			translated, err := b.translator.TranslateBatch(gctx, batch)
			if err != nil {
				return fmt.Errorf("translate batch %d: %w", batchIdx+1, err)
			}
			if len(translated) != len(batch) {
				return fmt.Errorf("translate batch %d: %w: sent %d, got %d",
					batchIdx+1, ErrLengthMismatch, len(batch), len(translated))
			}

			for i, src := range batch {
				if err := b.cache.Set(gctx, src, translated[i]); err != nil {
					log.Warn().Err(err).Str("text", textutil.Truncate(src, 30)).Msg("Failed to cache translation")
				}
			}

			log.Info().
				Int64("progress", done.Add(int64(len(batch)))).
				Int("total", len(unknown)).
				Msg("Translated batch")
			return nil
		})
	}

	runErr := g.Wait()
	if err := b.cache.Flush(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to flush translation cache")
		if runErr == nil {
			runErr = err
		}
	}
	if runErr != nil {
		return nil, runErr
	}

	outputs := make([]string, len(inputs))
	for i, s := range inputs {
		if textutil.IsBlank(s) {
			outputs[i] = s
			continue
		}
		translated, ok := b.cache.Get(ctx, s)
		if !ok {
			return nil, fmt.Errorf("no translation cached for %q", textutil.Truncate(s, 30))
		}
		outputs[i] = translated
	}
	return outputs, nil
}
