package rag

import (
	"fmt"
	"strings"

	"github.com/akolanti/ContractRAG/internal/domain/commonModels"
)

const answerTemplate = `You are a legal AI assistant specialized in contract analysis.
Answer the user's question based ONLY on the contract excerpts provided below.

Important guidelines:
1. Only use information from the provided contract context
2. If the answer is not in the context, say "This information is not found in the provided contract"
3. Cite specific clauses or sections when possible
4. Be precise and concise
5. If multiple interpretations exist, mention them

Contract Context:
%s

User Question: %s

Provide a clear, well-structured answer:`

// buildContext renders ranked chunks as "[Chunk N]: text" blocks in rank order.
func buildContext(result commonModels.RetrievalResult) string {
	parts := make([]string, len(result))
	for i, sc := range result {
		parts[i] = fmt.Sprintf("[Chunk %d]: %s", sc.Chunk.Index, sc.Chunk.Text)
	}
	return strings.Join(parts, "\n\n")
}

func answerPrompt(result commonModels.RetrievalResult, query string) string {
	return fmt.Sprintf(answerTemplate, buildContext(result), query)
}
