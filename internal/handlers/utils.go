package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/akolanti/ContractRAG/internal/adapter"
	"github.com/akolanti/ContractRAG/internal/adapter/utils"
	"github.com/akolanti/ContractRAG/internal/api"
	"github.com/akolanti/ContractRAG/internal/config"
)

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// headers are gone, nothing left to tell the client
		logRH.Error("Error encoding response", "error", err)
	}
}

func traceIdFrom(ctx context.Context) string {
	trace, _ := ctx.Value(config.TRACE_ID_KEY).(string)
	return trace
}

func validateContext(ctx context.Context) bool {
	if ctx.Err() != nil {
		logRH.Warn("context error", "traceId", traceIdFrom(ctx), "error", ctx.Err())
		return false
	}
	return handlerInstance != nil
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, id string, error string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(id, error, httpCode))
}

// writeServiceError maps a service error to its status code and detail.
func writeServiceError(w http.ResponseWriter, id string, err error) {
	res, code := adapter.FromError(id, err)
	writeJsonResponse(w, code, res)
}

func getTargetDirectory(dir string) (string, error) {
	if !filepath.IsAbs(dir) {
		root, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(root, dir)
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", err
	}
	return dir, nil
}

const invalidDocumentId = "Invalid document_id format. Must be a valid UUID"

// validateAskRequest applies the request limits and returns the effective
// top_k, or a message describing the first violation.
func validateAskRequest(req api.AskRequest) (int, string) {
	if !utils.IsValidUUID(req.DocumentId) {
		return 0, invalidDocumentId
	}
	if strings.TrimSpace(req.Query) == "" {
		return 0, "query is required"
	}
	if utf8.RuneCountInString(req.Query) > config.MaxQueryLength {
		return 0, fmt.Sprintf("query must be at most %d characters", config.MaxQueryLength)
	}
	topK := config.DefaultTopK
	if req.TopK != nil {
		topK = *req.TopK
	}
	if topK < config.MinTopK || topK > config.MaxTopK {
		return 0, fmt.Sprintf("top_k must be between %d and %d", config.MinTopK, config.MaxTopK)
	}
	return topK, ""
}
