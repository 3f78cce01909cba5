package translation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticRetriever string

func (s staticRetriever) BuildContext(context.Context, []string) string { return string(s) }

func geminiReply(text string) []byte {
	b, _ := json.Marshal(geminiResponse{
		Candidates: []geminiCandidate{{Content: geminiContent{Parts: []geminiPart{{Text: text}}}}},
	})
	return b
}

func decodeGemini(t *testing.T, r *http.Request) geminiRequest {
	t.Helper()
	var req geminiRequest
	require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
	return req
}

func TestGeminiClient_TranslateBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/test-model:generateContent", r.URL.Path)
		assert.Equal(t, "key", r.URL.Query().Get("key"))

		req := decodeGemini(t, r)
		require.NotNil(t, req.SystemInstruction)
		assert.Contains(t, req.SystemInstruction.Parts[0].Text, "from Japanese to English")

		prompt := req.Contents[0].Parts[0].Text
		assert.Contains(t, prompt, "勇者 → Hero")
		assert.Contains(t, prompt, "[1] 残り{{var_1}}回")
		assert.Contains(t, prompt, "[2] はい")

		_, _ = w.Write(geminiReply("[1] {{var_1}} left ||| [2] Yes"))
	}))
	defer srv.Close()

	gc := NewGeminiClient(GeminiOptions{
		APIKey:    "key",
		Model:     "test-model",
		BaseURL:   srv.URL,
		Source:    "ja",
		Target:    "en",
		Retriever: staticRetriever("勇者 → Hero\n"),
	})
	assert.Equal(t, "gemini", gc.Name())

	out, err := gc.TranslateBatch(context.Background(), []string{"残り%d回", "はい"})
	require.NoError(t, err)
	assert.Equal(t, []string{"%d left", "Yes"}, out)
}

func TestGeminiClient_MissingItemFallsBackToSingle(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := decodeGemini(t, r)
		if calls.Add(1) == 1 {
			_, _ = w.Write(geminiReply("Yes"))
			return
		}
		assert.True(t, strings.HasSuffix(req.Contents[0].Parts[0].Text, "Text to translate:\nいいえ"))
		_, _ = w.Write(geminiReply("No"))
	}))
	defer srv.Close()

	gc := NewGeminiClient(GeminiOptions{APIKey: "k", Model: "m", BaseURL: srv.URL, Source: "ja", Target: "en"})
	out, err := gc.TranslateBatch(context.Background(), []string{"はい", "いいえ"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Yes", "No"}, out)
	assert.EqualValues(t, 2, calls.Load())
}

func TestGeminiClient_APIError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"error":{"message":"bad"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	gc := NewGeminiClient(GeminiOptions{APIKey: "k", Model: "m", BaseURL: srv.URL})
	_, err := gc.TranslateBatch(context.Background(), []string{"はい"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.EqualValues(t, 1, calls.Load())
}

func TestSplitBatchResponse(t *testing.T) {
	assert.Equal(t, []string{"One", "Two", "Three"}, splitBatchResponse("[1] One|||[2]Two ||| Three"))
	assert.Equal(t, []string{""}, splitBatchResponse(""))
}

func TestPromptBuilder(t *testing.T) {
	pb := NewPromptBuilder("ja", "xx")
	assert.Contains(t, pb.GetSystemPrompt(), "from Japanese to xx")

	p := pb.BuildBatchUserPrompt([]string{"a", "b"}, "CTX\n")
	assert.True(t, strings.HasPrefix(p, "CTX\n"))
	assert.Contains(t, p, BatchDelimiter)
	assert.Contains(t, p, "[1] a\n[2] b\n")
}
