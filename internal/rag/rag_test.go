package rag

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"swf-translator/internal/graph"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddingClient_Embed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "embed-model", req.Model)
		assert.Equal(t, 2, req.Dimensions)

		// Reverse order to check reordering by index.
		var resp embeddingResponse
		for i := len(req.Input) - 1; i >= 0; i-- {
			resp.Data = append(resp.Data, embeddingData{Index: i, Embedding: []float32{float32(i), 1}})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	ec := NewEmbeddingClient("key", "embed-model", srv.URL+"/", 2)

	got, err := ec.EmbedBatch(context.Background(), []string{"a", "b", "c"}, 2)
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{0, 1}, {1, 1}, {0, 1}}, got)

	q, err := ec.EmbedQuery(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1}, q)
}

func TestEmbeddingClient_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer bad" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	_, err := NewEmbeddingClient("bad", "m", srv.URL, 0).Embed(context.Background(), []string{"a"})
	assert.ErrorContains(t, err, "status 401")

	_, err = NewEmbeddingClient("ok", "m", srv.URL, 0).Embed(context.Background(), []string{"a"})
	assert.ErrorContains(t, err, "no embedding returned")
}

type fakeTerms struct {
	match *graph.Match
	err   error
}

func (f fakeTerms) FindTerms(context.Context, string) (*graph.Match, error) { return f.match, f.err }

type fakeMemory struct{ results []SearchResult }

func (f fakeMemory) Search(context.Context, []float32, int) ([]SearchResult, error) {
	return f.results, nil
}

type fakeEmbedder struct{ err error }

func (f fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = []float32{1}
	}
	return out, nil
}

func TestRetriever_BuildContext(t *testing.T) {
	ctx := context.Background()
	terms := fakeTerms{match: &graph.Match{Terms: []graph.Term{{Source: "勇者", Target: "Hero"}}}}
	memory := fakeMemory{results: []SearchResult{{Source: "勇者の剣", Translated: "Hero's Sword", Score: 0.91}}}

	got := NewRetriever(terms, memory, fakeEmbedder{}).BuildContext(ctx, []string{"勇者よ", "勇者だ"})
	assert.Equal(t,
		"=== Terminology (ALWAYS USE THESE) ===\n• 勇者 → Hero\n\n"+
			"=== Similar Past Translations ===\n• [0.91] 勇者の剣 → Hero's Sword\n\n",
		got)

	assert.Empty(t, NewRetriever(nil, nil, nil).BuildContext(ctx, []string{"x"}))
	assert.Empty(t, NewRetriever(fakeTerms{err: errors.New("down")}, memory, fakeEmbedder{err: errors.New("down")}).BuildContext(ctx, []string{"x"}))
}
