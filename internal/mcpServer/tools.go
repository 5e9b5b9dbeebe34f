package mcpServer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/domain/commonModels"
	"github.com/akolanti/ContractRAG/internal/domain/errorModel"
	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type AskInput struct {
	DocumentId string `json:"document_id" jsonschema:"UUID of the ingested contract"`
	Query      string `json:"query" jsonschema:"question about the contract, at most 1000 characters"`
	TopK       int    `json:"top_k,omitempty" jsonschema:"number of excerpts to ground the answer on, 1-20 (default 5)"`
}

type AskOutput struct {
	Answer    string                         `json:"answer"`
	Citations []commonModels.Citation        `json:"citations"`
	Strategy  commonModels.RetrievalStrategy `json:"strategy"`
	Cached    bool                           `json:"cached,omitempty"`
}

type ListInput struct{}

type ContractSummary struct {
	DocumentId string                 `json:"document_id"`
	Filename   string                 `json:"filename"`
	Status     commonModels.DocStatus `json:"status"`
	ChunkCount int                    `json:"chunk_count"`
}

type ListOutput struct {
	Contracts []ContractSummary `json:"contracts"`
	Count     int               `json:"count"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_contract",
		Description: "Answer a question about one ingested contract, with citations to the excerpts used",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_contracts",
		Description: "List ingested contracts and their status",
	}, s.handleList)
}

func (s *Server) handleAsk(ctx context.Context, _ *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, AskOutput, error) {
	if uuid.Validate(input.DocumentId) != nil {
		return nil, AskOutput{}, errors.New("document_id must be a UUID")
	}
	if strings.TrimSpace(input.Query) == "" || utf8.RuneCountInString(input.Query) > config.MaxQueryLength {
		return nil, AskOutput{}, fmt.Errorf("query must be 1-%d characters", config.MaxQueryLength)
	}
	topK := input.TopK
	if topK == 0 {
		topK = config.DefaultTopK
	}
	if topK < config.MinTopK || topK > config.MaxTopK {
		return nil, AskOutput{}, fmt.Errorf("top_k must be between %d and %d", config.MinTopK, config.MaxTopK)
	}

	answer, err := s.rag.Ask(ctx, input.DocumentId, input.Query, topK)
	if err != nil {
		s.logger.WithTrace(ctx).Warn("ask_contract failed", "error", err)
		return nil, AskOutput{}, errors.New(errorModel.DetailOf(err))
	}
	return nil, AskOutput{
		Answer:    answer.Text,
		Citations: answer.Citations,
		Strategy:  answer.Strategy,
		Cached:    answer.Cached,
	}, nil
}

func (s *Server) handleList(ctx context.Context, _ *mcp.CallToolRequest, _ ListInput) (*mcp.CallToolResult, ListOutput, error) {
	docs, err := s.rag.ListDocuments(ctx)
	if err != nil {
		return nil, ListOutput{}, errors.New(errorModel.DetailOf(err))
	}
	out := ListOutput{Contracts: make([]ContractSummary, len(docs)), Count: len(docs)}
	for i, d := range docs {
		out.Contracts[i] = ContractSummary{
			DocumentId: d.Id,
			Filename:   d.Filename,
			Status:     d.Status,
			ChunkCount: d.ChunkCount,
		}
	}
	return nil, out, nil
}
