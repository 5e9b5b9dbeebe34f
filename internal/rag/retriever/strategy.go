// Package retriever ranks a document's chunks against a query.
package retriever

import (
	"sort"

	"github.com/akolanti/ContractRAG/internal/domain/commonModels"
)

// Strategy scores chunks and returns at most topK of them, best first.
type Strategy interface {
	Name() commonModels.RetrievalStrategy
	Rank(chunks []commonModels.Chunk, topK int) commonModels.RetrievalResult
}

// Retrieve runs s over chunks. Empty input or a non-positive topK yields an
// empty result.
func Retrieve(s Strategy, chunks []commonModels.Chunk, topK int) commonModels.RetrievalResult {
	if len(chunks) == 0 || topK <= 0 {
		return commonModels.RetrievalResult{}
	}
	return s.Rank(chunks, topK)
}

// topK orders scored by descending score, then ascending chunk index, and
// truncates to k.
func topK(scored commonModels.RetrievalResult, k int) commonModels.RetrievalResult {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Chunk.Index < scored[j].Chunk.Index
	})
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}
