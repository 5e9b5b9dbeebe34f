package gemini

import (
	"context"
	"errors"
	"sync"

	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/customHttpClient"
	"github.com/akolanti/ContractRAG/internal/rag/llm"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
	"google.golang.org/genai"
)

type llmClient struct {
	client    *genai.Client
	modelName string
}

var logger *logger_i.Logger
var geminiClient *llmClient
var once sync.Once

// GetGeminiClient returns the process-wide Gemini provider, or nil when the
// client could not be created.
func GetGeminiClient(ctx context.Context, modelName string, apikey string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_gemini")
		newGeminiClient(ctx, modelName, apikey)
	})

	if geminiClient == nil {
		return nil
	}
	return geminiClient
}

func newGeminiClient(ctx context.Context, modelName string, apikey string) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apikey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: customHttpClient.GetHttpClient(),
	})
	if err != nil {
		logger.Error("Error creating Gemini client", "error", err)
		return
	}
	geminiClient = &llmClient{client: c, modelName: modelName}
	logger.Debug("Gemini client created", "model", modelName)
	logger.Info("Gemini client created")
}

func (c *llmClient) Generate(ctx context.Context, prompt string) (string, error) {
	log := logger.WithTrace(ctx)

	result, err := c.client.Models.GenerateContent(
		ctx,
		c.modelName,
		genai.Text(prompt),
		&genai.GenerateContentConfig{Temperature: genai.Ptr[float32](config.ModelTemperature)},
	)
	if err != nil {
		log.Error("Gemini generation failed", "error", err)
		return "", err
	}
	text := result.Text()
	if text == "" {
		return "", errors.New("gemini returned no text")
	}
	return text, nil
}
