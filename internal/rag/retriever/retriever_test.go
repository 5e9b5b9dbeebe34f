package retriever

import (
	"math"
	"testing"

	"github.com/akolanti/ContractRAG/internal/domain/commonModels"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chunk(idx int, text string, emb []float32) commonModels.Chunk {
	return commonModels.Chunk{Id: text, Index: idx, Text: text, Embedding: emb}
}

func indexes(r commonModels.RetrievalResult) []int {
	out := make([]int, len(r))
	for i, s := range r {
		out[i] = s.Chunk.Index
	}
	return out
}

func TestCosineSimilarity(t *testing.T) {
	v := []float32{0.3, -1.2, 4}
	assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-9)
	assert.Equal(t, 0.0, CosineSimilarity(v, []float32{0, 0, 0}))
	assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 0}, []float32{-2, 0}), 1e-9)
	assert.Equal(t, 0.0, CosineSimilarity([]float32{1}, []float32{1, 2}))
}

func TestVector_ExcludesChunksWithoutEmbedding(t *testing.T) {
	chunks := []commonModels.Chunk{
		chunk(0, "a", []float32{1, 0}),
		chunk(1, "b", nil),
		chunk(2, "c", []float32{0, 1}),
		chunk(3, "d", []float32{1, 1, 1}),
	}
	res := Retrieve(Vector([]float32{1, 0}), chunks, 10)
	assert.Equal(t, []int{0, 2}, indexes(res))
	assert.InDelta(t, 1.0, res[0].Score, 1e-9)
	assert.InDelta(t, 0.0, res[1].Score, 1e-9)
}

func TestVector_TiesBrokenByIndex(t *testing.T) {
	same := []float32{1, 1}
	chunks := []commonModels.Chunk{
		chunk(2, "c", same),
		chunk(0, "a", same),
		chunk(1, "b", same),
	}
	res := Retrieve(Vector([]float32{1, 1}), chunks, 3)
	assert.Equal(t, []int{0, 1, 2}, indexes(res))
}

func TestVector_TopKTruncatesAndAllowsFewer(t *testing.T) {
	chunks := []commonModels.Chunk{
		chunk(0, "a", []float32{1, 0}),
		chunk(1, "b", []float32{0.9, 0.1}),
		chunk(2, "c", []float32{0, 1}),
	}
	assert.Equal(t, []int{0, 1}, indexes(Retrieve(Vector([]float32{1, 0}), chunks, 2)))
	assert.Len(t, Retrieve(Vector([]float32{1, 0}), chunks, 20), 3)
}

func TestRetrieve_EmptyChunks(t *testing.T) {
	assert.Empty(t, Retrieve(Vector([]float32{1}), nil, 5))
	assert.Empty(t, Retrieve(Lexical("anything"), nil, 5))
}

func TestLexical_RanksOverlappingChunkFirst(t *testing.T) {
	chunks := []commonModels.Chunk{
		chunk(0, "Payment is due within thirty days of invoice.", nil),
		chunk(1, "This Agreement is governed by the laws of the State of Delaware.", nil),
		chunk(2, "Either party may terminate upon ninety days written notice.", nil),
	}
	res := Retrieve(Lexical("Which state's governing law applies?"), chunks, 3)
	require.Len(t, res, 3)
	assert.Equal(t, 1, res[0].Chunk.Index)
	assert.Greater(t, res[0].Score, 0.0)
	for i := 1; i < len(res); i++ {
		assert.GreaterOrEqual(t, res[i-1].Score, res[i].Score)
	}
}

func TestLexical_DegradesOnEmptyVocabulary(t *testing.T) {
	chunks := []commonModels.Chunk{
		chunk(0, "a", nil),
		chunk(1, "the", nil),
		chunk(2, "of", nil),
	}
	res := Retrieve(Lexical("it is"), chunks, 2)
	require.Len(t, res, 2)
	assert.Equal(t, []int{0, 1}, indexes(res))
	for _, s := range res {
		assert.Equal(t, DegradedScore, s.Score)
	}
}

func TestLexical_Deterministic(t *testing.T) {
	chunks := []commonModels.Chunk{
		chunk(0, "confidential information shall not be disclosed", nil),
		chunk(1, "confidential information excludes public data", nil),
		chunk(2, "indemnification obligations survive termination", nil),
	}
	a := Retrieve(Lexical("confidential information"), chunks, 3)
	b := Retrieve(Lexical("confidential information"), chunks, 3)
	assert.Equal(t, a, b)
	assert.False(t, math.IsNaN(a[0].Score))
}
