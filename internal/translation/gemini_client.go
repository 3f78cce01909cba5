package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"swf-translator/internal/interpolation"
	"swf-translator/internal/textutil"

	"github.com/rs/zerolog/log"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// GeminiOptions configures a GeminiClient.
type GeminiOptions struct {
	APIKey  string
	Model   string
	BaseURL string
	Source  string
	Target  string
	// Retriever is optional.
	Retriever ContextRetriever
}

// GeminiClient handles translation requests via the Google Gemini API.
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	prompts    *PromptBuilder
	retriever  ContextRetriever
	httpClient *http.Client
}

// NewGeminiClient creates a new Gemini translation client.
func NewGeminiClient(opts GeminiOptions) *GeminiClient {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = geminiBaseURL
	}
	return &GeminiClient{
		apiKey:    opts.APIKey,
		model:     opts.Model,
		baseURL:   strings.TrimRight(baseURL, "/"),
		prompts:   NewPromptBuilder(opts.Source, opts.Target),
		retriever: opts.Retriever,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

func (gc *GeminiClient) Name() string { return "gemini" }

// --- Gemini API request/response types ---

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  *genConfig      `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type genConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature,omitempty"`
}

type geminiResponse struct {
	Candidates    []geminiCandidate `json:"candidates"`
	UsageMetadata *geminiUsage      `json:"usageMetadata,omitempty"`
	Error         *geminiError      `json:"error,omitempty"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

type geminiUsage struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
}

type geminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Translate sends one prompt to Gemini and returns the generated text.
func (gc *GeminiClient) Translate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	reqBody := geminiRequest{
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: systemPrompt}},
		},
		Contents: []geminiContent{
			{
				Role:  "user",
				Parts: []geminiPart{{Text: userPrompt}},
			},
		},
		GenerationConfig: &genConfig{
			MaxOutputTokens: 8192,
			Temperature:     0.3,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal translation request: %w", err)
	}

	return withRetry(ctx, "gemini translate", func() (string, error) {
		return gc.doRequest(ctx, bodyBytes)
	})
}

func (gc *GeminiClient) doRequest(ctx context.Context, bodyBytes []byte) (string, error) {
	url := fmt.Sprintf("%s/%s:generateContent?key=%s", gc.baseURL, gc.model, gc.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := gc.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("API call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", fmt.Errorf("retryable error (status %d): %s", resp.StatusCode, string(respBody))
	}
	if resp.StatusCode != http.StatusOK {
		return "", permanent(fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody)))
	}

	var apiResp geminiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if apiResp.Error != nil {
		return "", fmt.Errorf("API error [%s]: %s", apiResp.Error.Status, apiResp.Error.Message)
	}
	if len(apiResp.Candidates) == 0 {
		return "", fmt.Errorf("empty response: no candidates")
	}

	var result strings.Builder
	for _, p := range apiResp.Candidates[0].Content.Parts {
		result.WriteString(p.Text)
	}

	if apiResp.UsageMetadata != nil {
		log.Debug().
			Int("prompt_tokens", apiResp.UsageMetadata.PromptTokenCount).
			Int("output_tokens", apiResp.UsageMetadata.CandidatesTokenCount).
			Msg("Gemini call complete")
	}

	return strings.TrimSpace(result.String()), nil
}

// TranslateBatch translates texts with a single call, protecting
// interpolation variables. Items missing from the response are translated
// one by one.
func (gc *GeminiClient) TranslateBatch(ctx context.Context, texts []string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	protected := make([]string, len(texts))
	mappings := make([][]interpolation.Mapping, len(texts))
	for i, text := range texts {
		protected[i], mappings[i] = interpolation.Protect(text)
	}

	var extra string
	if gc.retriever != nil {
		extra = gc.retriever.BuildContext(ctx, texts)
	}

	systemPrompt := gc.prompts.GetSystemPrompt()
	response, err := gc.Translate(ctx, systemPrompt, gc.prompts.BuildBatchUserPrompt(protected, extra))
	if err != nil {
		return nil, err
	}
	parts := splitBatchResponse(response)

	results := make([]string, len(texts))
	for i, text := range texts {
		if i < len(parts) && parts[i] != "" {
			results[i] = interpolation.Restore(parts[i], mappings[i])
			continue
		}

		log.Warn().Str("text", textutil.Truncate(text, 30)).Msg("Missing translation in batch response, translating individually")
		single, err := gc.Translate(ctx, systemPrompt, gc.prompts.BuildUserPrompt(protected[i], extra))
		if err != nil {
			return nil, fmt.Errorf("translate %q: %w", textutil.Truncate(text, 30), err)
		}
		results[i] = interpolation.Restore(single, mappings[i])
	}

	return results, nil
}

// itemNumber matches the "[n] " prefix models sometimes echo back.
var itemNumber = regexp.MustCompile(`^\[\d+\]\s*`)

func splitBatchResponse(response string) []string {
	parts := strings.Split(response, BatchDelimiter)
	for i, p := range parts {
		parts[i] = itemNumber.ReplaceAllString(strings.TrimSpace(p), "")
	}
	return parts
}
