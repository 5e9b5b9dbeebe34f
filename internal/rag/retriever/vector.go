package retriever

import (
	"math"

	"github.com/akolanti/ContractRAG/internal/domain/commonModels"
)

type vectorStrategy struct {
	query []float32
}

// Vector ranks chunks by cosine similarity to query. Chunks without an
// embedding, or with one of a different dimension, are left out.
func Vector(query []float32) Strategy {
	return &vectorStrategy{query: query}
}

func (v *vectorStrategy) Name() commonModels.RetrievalStrategy {
	return commonModels.StrategyVector
}

func (v *vectorStrategy) Rank(chunks []commonModels.Chunk, k int) commonModels.RetrievalResult {
	scored := make(commonModels.RetrievalResult, 0, len(chunks))
	for _, c := range chunks {
		if !c.HasEmbedding() || len(c.Embedding) != len(v.query) {
			continue
		}
		scored = append(scored, commonModels.ScoredChunk{
			Chunk: c,
			Score: CosineSimilarity(v.query, c.Embedding),
		})
	}
	return topK(scored, k)
}

// CosineSimilarity is 0 when either vector has zero norm or the lengths differ.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
