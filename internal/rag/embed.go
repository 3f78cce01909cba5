package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"swf-translator/internal/worker"

	"github.com/rs/zerolog/log"
)

// EmbeddingClient generates text embeddings via an OpenAI-compatible
// /embeddings endpoint.
type EmbeddingClient struct {
	apiKey     string
	model      string
	baseURL    string
	dimensions int
	httpClient *http.Client
}

// NewEmbeddingClient creates an embedding client. dimensions <= 0 leaves
// the vector size to the model.
func NewEmbeddingClient(apiKey, model, baseURL string, dimensions int) *EmbeddingClient {
	return &EmbeddingClient{
		apiKey:     apiKey,
		model:      model,
		baseURL:    strings.TrimRight(baseURL, "/"),
		dimensions: max(dimensions, 0),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type embeddingRequest struct {
	Input      []string `json:"input"`
	Model      string   `json:"model"`
	Dimensions int      `json:"dimensions,omitempty"`
}

type embeddingResponse struct {
	Data  []embeddingData `json:"data"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

type embeddingData struct {
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}

// Embed generates embeddings for texts, in input order.
func (ec *EmbeddingClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	bodyBytes, err := json.Marshal(embeddingRequest{
		Input:      texts,
		Model:      ec.model,
		Dimensions: ec.dimensions,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ec.baseURL+"/embeddings", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("create embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+ec.apiKey)

	resp, err := ec.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding API call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read embedding response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var embedResp embeddingResponse
	if err := json.Unmarshal(respBody, &embedResp); err != nil {
		return nil, fmt.Errorf("unmarshal embedding response: %w", err)
	}

	results := make([][]float32, len(texts))
	for _, d := range embedResp.Data {
		if d.Index >= 0 && d.Index < len(results) {
			results[d.Index] = d.Embedding
		}
	}
	for i, v := range results {
		if v == nil {
			return nil, fmt.Errorf("no embedding returned for input %d", i)
		}
	}

	log.Debug().
		Int("texts", len(texts)).
		Int("tokens", embedResp.Usage.TotalTokens).
		Msg("Generated embeddings")

	return results, nil
}

// EmbedBatch embeds texts batchSize at a time.
func (ec *EmbeddingClient) EmbedBatch(ctx context.Context, texts []string, batchSize int) ([][]float32, error) {
	if batchSize <= 0 {
		batchSize = 32
	}

	all := make([][]float32, 0, len(texts))
	for i, batch := range worker.Batch(texts, batchSize) {
		embeddings, err := ec.Embed(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("embed batch %d: %w", i+1, err)
		}
		all = append(all, embeddings...)

		log.Info().
			Int("processed", len(all)).
			Int("total", len(texts)).
			Msg("Embedding progress")
	}
	return all, nil
}

// EmbedQuery generates the embedding of a single search text.
func (ec *EmbeddingClient) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	results, err := ec.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("query embedding: %w", err)
	}
	return results[0], nil
}
