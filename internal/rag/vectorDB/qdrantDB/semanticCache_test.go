package qdrantDB

import (
	"testing"

	"github.com/akolanti/ContractRAG/internal/domain/commonModels"
	"github.com/akolanti/ContractRAG/internal/rag/citation"
	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerPayloadRoundTripsThroughQdrantValues(t *testing.T) {
	page := 2
	in := commonModels.Answer{
		DocumentId: "doc-1",
		Query:      "who pays?",
		Text:       "The Customer pays within 30 days.",
		Strategy:   commonModels.StrategyVector,
		Citations: []commonModels.Citation{
			{DocumentId: "doc-1", ChunkId: "c1", ChunkIndex: 1, Page: &page, CharRange: [2]int{800, 1800}, RelevanceScore: 0.8123},
		},
	}

	payload, err := answerPayload(in, 5)
	require.NoError(t, err)

	out, err := answerFromPayload(qdrant.NewValueMap(payload))
	require.NoError(t, err)
	assert.True(t, out.Cached)
	assert.Equal(t, in.Text, out.Text)
	assert.Equal(t, in.Strategy, out.Strategy)
	assert.Equal(t, in.Citations, out.Citations)
}

func TestAnswerFromPayload_BadCitations(t *testing.T) {
	_, err := answerFromPayload(qdrant.NewValueMap(map[string]any{citationsField: "{not json"}))
	assert.Error(t, err)
}

func TestDocumentFilter(t *testing.T) {
	f := documentFilter("doc-9")
	require.Len(t, f.Must, 1)
	assert.Equal(t, documentIdField, f.Must[0].GetField().GetKey())
	assert.Equal(t, "doc-9", f.Must[0].GetField().GetMatch().GetKeyword())
}

func TestAnswerPayload_KeepsCitationOrderAndRoundedScores(t *testing.T) {
	intPtr := func(v int) *int { return &v }
	result := commonModels.RetrievalResult{
		{Chunk: commonModels.Chunk{Id: "c7", Index: 7, Page: intPtr(3), CharStart: intPtr(5600), CharEnd: intPtr(6600)}, Score: 0.912345678},
		{Chunk: commonModels.Chunk{Id: "c2", Index: 2, CharStart: intPtr(1600), CharEnd: intPtr(2600)}, Score: 0.50004999},
		{Chunk: commonModels.Chunk{Id: "c0", Index: 0, Page: intPtr(1), CharStart: intPtr(0), CharEnd: intPtr(1000)}, Score: 0.1},
	}
	in := commonModels.Answer{
		DocumentId: "doc-1",
		Query:      "termination notice",
		Text:       "Either party may terminate on notice.",
		Strategy:   commonModels.StrategyVector,
		Citations:  citation.Build(result, "doc-1"),
	}

	payload, err := answerPayload(in, 3)
	require.NoError(t, err)
	values := qdrant.NewValueMap(payload)
	assert.Equal(t, int64(3), values[topKField].GetIntegerValue())

	out, err := answerFromPayload(values)
	require.NoError(t, err)
	assert.Equal(t, commonModels.StrategyVector, out.Strategy)
	assert.Equal(t, in.Query, out.Query)
	require.Len(t, out.Citations, 3)

	var order []string
	for _, c := range out.Citations {
		order = append(order, c.ChunkId)
	}
	assert.Equal(t, []string{"c7", "c2", "c0"}, order)
	assert.Equal(t, 0.9123, out.Citations[0].RelevanceScore)
	assert.Equal(t, 0.5, out.Citations[1].RelevanceScore)
	require.NotNil(t, out.Citations[0].Page)
	assert.Equal(t, 3, *out.Citations[0].Page)
	assert.Nil(t, out.Citations[1].Page)
	assert.Equal(t, [2]int{1600, 2600}, out.Citations[1].CharRange)
	assert.Equal(t, "doc-1", out.Citations[2].DocumentId)
}

func TestLookupFilter_ScopesByDocumentAndTopK(t *testing.T) {
	f := lookupFilter("doc-9", 4)
	require.Len(t, f.Must, 2)
	assert.Equal(t, "doc-9", f.Must[0].GetField().GetMatch().GetKeyword())
	assert.Equal(t, topKField, f.Must[1].GetField().GetKey())
	assert.Equal(t, int64(4), f.Must[1].GetField().GetMatch().GetInteger())
}
