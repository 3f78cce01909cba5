package translation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"swf-translator/internal/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	retryBackoff = func(int) time.Duration { return 0 }
}

type memStore struct {
	mu      sync.Mutex
	data    map[string]string
	flushed int
}

func newMemStore() *memStore { return &memStore{data: map[string]string{}} }

func (m *memStore) Lookup(_ context.Context, source string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[source]
	return v, ok, nil
}

func (m *memStore) Upsert(_ context.Context, source, translated string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[source] = translated
	return nil
}

func (m *memStore) All(context.Context) (map[string]string, error) { return m.data, nil }

func (m *memStore) Flush(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushed++
	return nil
}

// upperTranslator "translates" by upper-casing and records every batch.
type upperTranslator struct {
	mu      sync.Mutex
	batches [][]string
	failOn  string
	short   bool
}

func (u *upperTranslator) Name() string { return "upper" }

func (u *upperTranslator) TranslateBatch(_ context.Context, texts []string) ([]string, error) {
	u.mu.Lock()
	u.batches = append(u.batches, append([]string(nil), texts...))
	u.mu.Unlock()

	out := make([]string, 0, len(texts))
	for _, t := range texts {
		if t == u.failOn {
			return nil, errors.New("backend down")
		}
		out = append(out, strings.ToUpper(t))
	}
	if u.short {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (u *upperTranslator) sent() []string {
	var all []string
	for _, b := range u.batches {
		all = append(all, b...)
	}
	return all
}

func TestBatcher_TranslateAll(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.data["cached"] = "FROM CACHE"
	tr := &upperTranslator{}
	b := NewBatcher(tr, cache.NewTranslationCache(store), 2, 2)

	inputs := []string{"a", "", "b", "cached", "a", "  ", "c"}
	out, err := b.TranslateAll(ctx, inputs)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "", "B", "FROM CACHE", "A", "  ", "C"}, out)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, tr.sent())
	for _, batch := range tr.batches {
		assert.LessOrEqual(t, len(batch), 2)
	}
	assert.Equal(t, "B", store.data["b"])
	assert.Equal(t, 1, store.flushed)

	// Everything is cached now.
	tr.batches = nil
	out2, err := b.TranslateAll(ctx, inputs)
	require.NoError(t, err)
	assert.Equal(t, out, out2)
	assert.Empty(t, tr.batches)
}

func TestBatcher_Empty(t *testing.T) {
	tr := &upperTranslator{}
	b := NewBatcher(tr, cache.NewTranslationCache(newMemStore()), 0, 0)

	out, err := b.TranslateAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Empty(t, tr.batches)
}

func TestBatcher_FailureStillFlushes(t *testing.T) {
	store := newMemStore()
	tr := &upperTranslator{failOn: "bad"}
	b := NewBatcher(tr, cache.NewTranslationCache(store), 1, 1)

	_, err := b.TranslateAll(context.Background(), []string{"good", "bad"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend down")
	assert.Equal(t, 1, store.flushed)
	assert.Equal(t, "GOOD", store.data["good"])
}

func TestBatcher_LengthMismatch(t *testing.T) {
	b := NewBatcher(&upperTranslator{short: true}, cache.NewTranslationCache(newMemStore()), 10, 1)

	_, err := b.TranslateAll(context.Background(), []string{"x", "y"})
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestWithRetry(t *testing.T) {
	ctx := context.Background()

	calls := 0
	v, err := withRetry(ctx, "flaky", func() (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("try again")
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 3, calls)

	calls = 0
	errStop := errors.New("stop")
	_, err = withRetry(ctx, "permanent", func() (int, error) {
		calls++
		return 0, permanent(errStop)
	})
	assert.ErrorIs(t, err, errStop)
	assert.Equal(t, 1, calls)

	calls = 0
	_, err = withRetry(ctx, "always", func() (int, error) {
		calls++
		return 0, errors.New("nope")
	})
	require.Error(t, err)
	assert.Equal(t, maxRetries, calls)
	assert.Contains(t, err.Error(), "always failed after 3 attempts")
}
