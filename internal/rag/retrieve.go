// Package rag supplies translation context from past translations
// (translation memory in pgvector) and the Neo4j glossary.
package rag

import (
	"context"
	"fmt"
	"strings"

	"swf-translator/internal/graph"
	"swf-translator/internal/textutil"

	"github.com/rs/zerolog/log"
)

const defaultTopK = 3

// TermFinder looks up glossary terms occurring in a text.
type TermFinder interface {
	FindTerms(ctx context.Context, text string) (*graph.Match, error)
}

// MemorySearcher finds stored translations close to a query vector.
type MemorySearcher interface {
	Search(ctx context.Context, queryVector []float32, topK int) ([]SearchResult, error)
}

// Embedder embeds texts.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Retriever builds prompt context from the glossary and translation
// memory. Either source may be nil. Failures are logged and skipped: a
// translation without context is better than no translation.
type Retriever struct {
	terms    TermFinder
	memory   MemorySearcher
	embedder Embedder
	topK     int
}

// NewRetriever creates a retriever. memory is only queried when embedder
// is also set.
func NewRetriever(terms TermFinder, memory MemorySearcher, embedder Embedder) *Retriever {
	return &Retriever{terms: terms, memory: memory, embedder: embedder, topK: defaultTopK}
}

// BuildContext returns terminology and similar past translations for the
// batch, or "" when nothing relevant is found.
func (r *Retriever) BuildContext(ctx context.Context, texts []string) string {
	var sb strings.Builder

	if r.terms != nil {
		m, err := r.terms.FindTerms(ctx, strings.Join(texts, "\n"))
		if err != nil {
			log.Warn().Err(err).Msg("Glossary query failed")
		} else {
			sb.WriteString(graph.FormatMatch(m))
		}
	}

	if r.memory != nil && r.embedder != nil {
		sb.WriteString(r.similar(ctx, texts))
	}

	return sb.String()
}

func (r *Retriever) similar(ctx context.Context, texts []string) string {
	vectors, err := r.embedder.Embed(ctx, texts)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to embed batch, skipping translation memory")
		return ""
	}

	seen := make(map[string]bool)
	var lines []string
	for i, v := range vectors {
		results, err := r.memory.Search(ctx, v, r.topK)
		if err != nil {
			log.Warn().Err(err).Str("text", textutil.Truncate(texts[i], 30)).Msg("Vector search failed")
			continue
		}
		for _, res := range results {
			if seen[res.Source] {
				continue
			}
			seen[res.Source] = true
			lines = append(lines, fmt.Sprintf("• [%.2f] %s → %s\n", res.Score, res.Source, res.Translated))
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return "=== Similar Past Translations ===\n" + strings.Join(lines, "") + "\n"
}
