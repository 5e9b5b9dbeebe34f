package openaiLLM

import (
	"context"
	"errors"

	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/customHttpClient"
	"github.com/akolanti/ContractRAG/internal/rag/llm"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type llmClient struct {
	api       openai.Client
	modelName string
	logger    *logger_i.Logger
}

// NewOpenAIClient builds a provider that sends each prompt exactly once.
// Generation failures are reported to the caller, never retried.
func NewOpenAIClient(apiKey, modelName string, opts ...option.RequestOption) llm.Provider {
	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(customHttpClient.GetHttpClient()),
		option.WithMaxRetries(0),
	}
	return &llmClient{
		api:       openai.NewClient(append(base, opts...)...),
		modelName: modelName,
		logger:    logger_i.NewLogger("llm_openai"),
	}
}

func (c *llmClient) Generate(ctx context.Context, prompt string) (string, error) {
	completion, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:       openai.ChatModel(c.modelName),
		Temperature: openai.Float(float64(config.ModelTemperature)),
	})
	if err != nil {
		c.logger.WithTrace(ctx).Error("OpenAI generation failed", "error", err)
		return "", err
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", errors.New("openai returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}
