// Package corpus stores (original, translated) string pairs as JSON.
//
// The file layout is {"strings": [{"orig": ..., "tran": ...}, ...]} sorted
// by original string. It is the hand-off between gather, translate and
// export, and doubles as a translator's on-disk cache.
package corpus

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"sync"
)

// DefaultFileName is the corpus written by gather and read by export.
const DefaultFileName = "swf-translator-all-strings.json"

// Pair is one serialized corpus entry.
type Pair struct {
	Orig string `json:"orig"`
	Tran string `json:"tran"`
}

type document struct {
	Strings []Pair `json:"strings"`
}

// Corpus maps original strings to translations by exact string equality.
type Corpus struct {
	mu                sync.RWMutex
	origToTranslation map[string]string
}

// New returns an empty corpus.
func New() *Corpus {
	return &Corpus{origToTranslation: make(map[string]string)}
}

// FromStrings returns a corpus mapping every string to itself.
func FromStrings(strs []string) *Corpus {
	c := New()
	for _, s := range strs {
		c.origToTranslation[s] = s
	}
	return c
}

// Get returns the translation of orig.
func (c *Corpus) Get(orig string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.origToTranslation[orig]
	return v, ok
}

// Set records a translation.
func (c *Corpus) Set(orig, tran string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.origToTranslation[orig] = tran
}

// Len returns the number of entries.
func (c *Corpus) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.origToTranslation)
}

// Originals returns all original strings, sorted.
func (c *Corpus) Originals() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.origToTranslation))
	for k := range c.origToTranslation {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Pairs returns all entries sorted by original string.
func (c *Corpus) Pairs() []Pair {
	keys := c.Originals()
	c.mu.RLock()
	defer c.mu.RUnlock()
	pairs := make([]Pair, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, Pair{Orig: k, Tran: c.origToTranslation[k]})
	}
	return pairs
}

// MarshalJSON encodes the corpus in its file layout.
func (c *Corpus) MarshalJSON() ([]byte, error) {
	return json.Marshal(document{Strings: c.Pairs()})
}

// UnmarshalJSON decodes the file layout. Later duplicates win.
func (c *Corpus) UnmarshalJSON(data []byte) error {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.origToTranslation = make(map[string]string, len(doc.Strings))
	for _, p := range doc.Strings {
		c.origToTranslation[p.Orig] = p.Tran
	}
	return nil
}

// Load reads a corpus file.
func Load(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	c := New()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("decode corpus %s: %w", path, err)
	}
	return c, nil
}

// LoadOrNew reads a corpus file, returning an empty corpus if it does not exist.
func LoadOrNew(path string) (*Corpus, error) {
	c, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}
	return c, err
}

// Save writes the corpus with two-space indentation and without escaping
// HTML characters, so markup stays readable for manual editing.
func (c *Corpus) Save(path string) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(document{Strings: c.Pairs()}); err != nil {
		return fmt.Errorf("encode corpus: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write corpus: %w", err)
	}
	return nil
}
