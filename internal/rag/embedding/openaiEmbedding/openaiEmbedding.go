package openaiEmbedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/akolanti/ContractRAG/internal/customHttpClient"
	"github.com/akolanti/ContractRAG/internal/rag/embedding"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type client struct {
	api       openai.Client
	model     string
	dimension int64
	logger    *logger_i.Logger
}

func NewOpenAIEmbedder(apiKey, model string, dimension int) embedding.Embedder {
	return &client{
		api: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithHTTPClient(customHttpClient.GetHttpClient()),
			option.WithMaxRetries(0),
		),
		model:     model,
		dimension: int64(dimension),
		logger:    logger_i.NewLogger("openai_embedding"),
	}
}

func (c *client) Embed(ctx context.Context, text string) ([]float32, error) {
	params := openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model: openai.EmbeddingModel(c.model),
	}
	if c.dimension > 0 {
		params.Dimensions = openai.Int(c.dimension)
	}

	resp, err := c.api.Embeddings.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
			return nil, fmt.Errorf("%w: %v", embedding.ErrQuotaExceeded, err)
		}
		c.logger.WithTrace(ctx).Debug("Embedding call to OpenAI failed", "error", err)
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("openai embedding response was empty")
	}
	return toFloat32(resp.Data[0].Embedding), nil
}

func toFloat32(values []float64) []float32 {
	out := make([]float32, len(values))
	for i, v := range values {
		out[i] = float32(v)
	}
	return out
}
