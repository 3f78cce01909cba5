package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Store is the persistent side of the translation cache, keyed by exact
// source string.
type Store interface {
	// Lookup returns the stored translation of source, if any.
	Lookup(ctx context.Context, source string) (string, bool, error)
	// Upsert stores or replaces the translation of source.
	Upsert(ctx context.Context, source, translated string) error
	// All returns every stored pair.
	All(ctx context.Context) (map[string]string, error)
	// Flush persists buffered writes.
	Flush(ctx context.Context) error
}

// TranslationCache provides in-memory caching in front of a Store.
type TranslationCache struct {
	store  Store
	mu     sync.RWMutex
	memory map[string]string // source text → translated text
}

// NewTranslationCache creates a new cache backed by store.
func NewTranslationCache(store Store) *TranslationCache {
	return &TranslationCache{
		store:  store,
		memory: make(map[string]string),
	}
}

// Get retrieves a cached translation. Returns empty string and false if not found.
func (c *TranslationCache) Get(ctx context.Context, sourceText string) (string, bool) {
	c.mu.RLock()
	if v, ok := c.memory[sourceText]; ok {
		c.mu.RUnlock()
		return v, true
	}
	c.mu.RUnlock()

	translated, ok, err := c.store.Lookup(ctx, sourceText)
	if err != nil {
		log.Debug().Err(err).Msg("Cache store lookup failed")
		return "", false
	}
	if !ok {
		return "", false
	}

	c.mu.Lock()
	c.memory[sourceText] = translated
	c.mu.Unlock()

	return translated, true
}

// Set stores a translation in memory and in the store.
func (c *TranslationCache) Set(ctx context.Context, sourceText, translated string) error {
	c.mu.Lock()
	c.memory[sourceText] = translated
	c.mu.Unlock()

	if err := c.store.Upsert(ctx, sourceText, translated); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// SetBatch stores multiple translations.
func (c *TranslationCache) SetBatch(ctx context.Context, pairs map[string]string) error {
	for source, translated := range pairs {
		if err := c.Set(ctx, source, translated); err != nil {
			return err
		}
	}
	return nil
}

// Preload loads all stored translations into memory.
func (c *TranslationCache) Preload(ctx context.Context) error {
	all, err := c.store.All(ctx)
	if err != nil {
		return fmt.Errorf("preload cache: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for source, translated := range all {
		c.memory[source] = translated
	}

	log.Info().Int("count", len(all)).Msg("Preloaded translation cache")
	return nil
}

// Flush persists the store.
func (c *TranslationCache) Flush(ctx context.Context) error {
	if err := c.store.Flush(ctx); err != nil {
		return fmt.Errorf("flush cache: %w", err)
	}
	return nil
}
