package openaiEmbedding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akolanti/ContractRAG/internal/rag/embedding"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *client {
	return &client{
		api: openai.NewClient(
			option.WithAPIKey("test"),
			option.WithBaseURL(url),
			option.WithMaxRetries(0),
		),
		model:     "text-embedding-3-small",
		dimension: 3,
		logger:    logger_i.NewLogger("openai_embedding_test"),
	}
}

func TestEmbed_ConvertsVector(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "text-embedding-3-small", body["model"])
		assert.EqualValues(t, 3, body["dimensions"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","model":"text-embedding-3-small",
			"data":[{"object":"embedding","index":0,"embedding":[0.25,0.5,1]}],
			"usage":{"prompt_tokens":1,"total_tokens":1}}`))
	}))
	defer srv.Close()

	vec, err := newTestClient(srv.URL).Embed(context.Background(), "governing law")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.25, 0.5, 1}, vec)
}

func TestEmbed_TooManyRequestsIsQuota(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"requests","code":"rate_limit_exceeded"}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Embed(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, embedding.ErrQuotaExceeded))
}
