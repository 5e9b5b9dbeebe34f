package citation

import (
	"testing"

	"github.com/akolanti/ContractRAG/internal/domain/commonModels"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestBuild_PreservesOrderAndFields(t *testing.T) {
	result := commonModels.RetrievalResult{
		{Chunk: commonModels.Chunk{Id: "c7", Index: 7, Page: intPtr(3), CharStart: intPtr(5600), CharEnd: intPtr(6600)}, Score: 0.912345},
		{Chunk: commonModels.Chunk{Id: "c2", Index: 2, CharStart: intPtr(1600), CharEnd: intPtr(2600)}, Score: 0.5},
	}

	got := Build(result, "doc-1")
	require.Len(t, got, 2)

	assert.Equal(t, "c7", got[0].ChunkId)
	assert.Equal(t, 7, got[0].ChunkIndex)
	assert.Equal(t, "doc-1", got[0].DocumentId)
	require.NotNil(t, got[0].Page)
	assert.Equal(t, 3, *got[0].Page)
	assert.Equal(t, [2]int{5600, 6600}, got[0].CharRange)
	assert.Equal(t, 0.9123, got[0].RelevanceScore)

	assert.Equal(t, "c2", got[1].ChunkId)
	assert.Nil(t, got[1].Page)
}

func TestBuild_MissingOffsetsDefaultToZero(t *testing.T) {
	got := Build(commonModels.RetrievalResult{{Chunk: commonModels.Chunk{Id: "x"}, Score: 0.1}}, "d")
	require.Len(t, got, 1)
	assert.Equal(t, [2]int{0, 0}, got[0].CharRange)
	assert.Nil(t, got[0].Page)
}

func TestBuild_Empty(t *testing.T) {
	assert.Empty(t, Build(nil, "d"))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 0.1235, Round(0.12345678))
	assert.Equal(t, 1.0, Round(0.99999))
	assert.Equal(t, -0.25, Round(-0.25))
}
