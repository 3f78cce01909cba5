package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DefaultAzureEndpoint is the global Microsoft Translator endpoint.
const DefaultAzureEndpoint = "https://api.cognitive.microsofttranslator.com"

// Untranslated replaces entries the Azure response did not carry.
const Untranslated = "[UNTRANSLATED]"

// ErrMissingSubscriptionKey is returned by NewAzureClient without a key.
var ErrMissingSubscriptionKey = errors.New("azure subscription key is required")

// AzureOptions configures an AzureClient.
type AzureOptions struct {
	SubscriptionKey    string
	EndpointURL        string
	SubscriptionRegion string
	From               string
	To                 string
}

// AzureClient translates via the Microsoft Translator v3 REST API.
type AzureClient struct {
	url        string
	headers    http.Header
	httpClient *http.Client
}

// NewAzureClient creates a client. The subscription key is required; the
// region header is only sent when set.
func NewAzureClient(opts AzureOptions) (*AzureClient, error) {
	if opts.SubscriptionKey == "" {
		return nil, ErrMissingSubscriptionKey
	}
	endpoint := opts.EndpointURL
	if endpoint == "" {
		endpoint = DefaultAzureEndpoint
	}

	q := url.Values{}
	q.Set("api-version", "3.0")
	q.Set("from", opts.From)
	q.Set("to", opts.To)

	headers := http.Header{}
	headers.Set("Ocp-Apim-Subscription-Key", opts.SubscriptionKey)
	headers.Set("Content-Type", "application/json")
	headers.Set("X-ClientTraceId", uuid.NewString())
	if opts.SubscriptionRegion != "" {
		headers.Set("Ocp-Apim-Subscription-Region", opts.SubscriptionRegion)
	}

	return &AzureClient{
		url:     strings.TrimRight(endpoint, "/") + "/translate?" + q.Encode(),
		headers: headers,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

func (ac *AzureClient) Name() string { return "azure" }

type azureRequestItem struct {
	Text string `json:"Text"`
}

type azureResponseItem struct {
	Translations []struct {
		Text string `json:"text"`
	} `json:"translations"`
}

// TranslateBatch sends texts in one request. Entries whose translation is
// missing from the response become Untranslated; a response with a
// different number of entries is an error.
func (ac *AzureClient) TranslateBatch(ctx context.Context, texts []string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	body := make([]azureRequestItem, len(texts))
	for i, t := range texts {
		body[i] = azureRequestItem{Text: t}
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal azure request: %w", err)
	}

	items, err := withRetry(ctx, "azure translate", func() ([]azureResponseItem, error) {
		return ac.doRequest(ctx, bodyBytes)
	})
	if err != nil {
		return nil, err
	}

	outputs := make([]string, 0, len(items))
	for _, item := range items {
		if len(item.Translations) == 0 {
			log.Error().Msg("Azure response entry has no translation")
			outputs = append(outputs, Untranslated)
			continue
		}
		outputs = append(outputs, item.Translations[0].Text)
	}

	if len(outputs) != len(texts) {
		return nil, fmt.Errorf("azure response: %w: sent %d, got %d", ErrLengthMismatch, len(texts), len(outputs))
	}
	return outputs, nil
}

func (ac *AzureClient) doRequest(ctx context.Context, bodyBytes []byte) ([]azureResponseItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ac.url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header = ac.headers.Clone()

	resp, err := ac.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, fmt.Errorf("retryable error (status %d): %s", resp.StatusCode, string(respBody))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, permanent(fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody)))
	}

	var items []azureResponseItem
	if err := json.Unmarshal(respBody, &items); err != nil {
		return nil, permanent(fmt.Errorf("unmarshal azure response: %w", err))
	}
	return items, nil
}
