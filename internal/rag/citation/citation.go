// Package citation turns ranked chunks into user-facing provenance.
package citation

import (
	"math"

	"github.com/akolanti/ContractRAG/internal/domain/commonModels"
)

const scorePrecision = 1e4

// Build returns one citation per entry of result, in the same order.
func Build(result commonModels.RetrievalResult, documentId string) []commonModels.Citation {
	citations := make([]commonModels.Citation, 0, len(result))
	for _, sc := range result {
		c := sc.Chunk
		citations = append(citations, commonModels.Citation{
			DocumentId:     documentId,
			ChunkId:        c.Id,
			ChunkIndex:     c.Index,
			Page:           c.Page,
			CharRange:      [2]int{valueOrZero(c.CharStart), valueOrZero(c.CharEnd)},
			RelevanceScore: Round(sc.Score),
		})
	}
	return citations
}

// Round keeps four decimal digits.
func Round(score float64) float64 {
	return math.Round(score*scorePrecision) / scorePrecision
}

func valueOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
