package googleEmbedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/akolanti/ContractRAG/internal/customHttpClient"
	"github.com/akolanti/ContractRAG/internal/rag/embedding"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	taskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	taskRetrievalQuery    = "RETRIEVAL_QUERY"
)

var _ embedding.QueryEmbedder = (*client)(nil)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client

type client struct {
	genAi     *genai.Client
	model     string
	dimension int32
}

func newGoogleEmbedder(ctx context.Context, modelName string, apikey string, dimension int32) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apikey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: customHttpClient.GetHttpClient(),
	})
	if err != nil {
		logger.Error("Error creating Google Embedding client", "error", err)
		return
	}
	embeddingClient = &client{
		genAi:     c,
		model:     modelName,
		dimension: dimension,
	}
	logger.Debug("Google Embedding model name: " + modelName)
	logger.Info("Google Embedding client created")
}

// GetGoogleEmbeddingClient returns the process-wide embedder, or nil when the
// client could not be created.
func GetGoogleEmbeddingClient(ctx context.Context, modelName string, apikey string, dimension int32) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("google_embedding")
		newGoogleEmbedder(ctx, modelName, apikey, dimension)
	})

	if embeddingClient == nil {
		return nil
	}
	return embeddingClient
}

// Embed embeds contract text for indexing.
func (c *client) Embed(ctx context.Context, text string) ([]float32, error) {
	return c.embed(ctx, text, taskRetrievalDocument)
}

// EmbedQuery embeds a question to be matched against indexed chunks.
func (c *client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return c.embed(ctx, text, taskRetrievalQuery)
}

func embedConfig(taskType string, dimension int32) *genai.EmbedContentConfig {
	cfg := &genai.EmbedContentConfig{TaskType: taskType}
	if dimension > 0 {
		cfg.OutputDimensionality = &dimension
	}
	return cfg
}

func (c *client) embed(ctx context.Context, text, taskType string) ([]float32, error) {
	log := logger.WithTrace(ctx)

	result, err := c.genAi.Models.EmbedContent(ctx, c.model, genai.Text(text), embedConfig(taskType, c.dimension))
	if err != nil {
		if isResourceExhausted(err) {
			return nil, fmt.Errorf("%w: %v", embedding.ErrQuotaExceeded, err)
		}
		log.Debug("Embedding call to Google failed", "error", err)
		return nil, err
	}
	if result == nil || len(result.Embeddings) == 0 || result.Embeddings[0] == nil {
		return nil, errors.New("google embedding response was empty")
	}
	return result.Embeddings[0].Values, nil
}

func isResourceExhausted(err error) bool {
	if s, ok := status.FromError(err); ok && s.Code() == codes.ResourceExhausted {
		return true
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED"
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code == http.StatusTooManyRequests || apiErrPtr.Status == "RESOURCE_EXHAUSTED"
	}
	return false
}
