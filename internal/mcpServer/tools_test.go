package mcpServer

import (
	"context"
	"testing"

	"github.com/akolanti/ContractRAG/internal/domain/commonModels"
	"github.com/akolanti/ContractRAG/internal/domain/errorModel"
	"github.com/akolanti/ContractRAG/internal/rag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const docId = "123e4567-e89b-12d3-a456-426614174000"

type mockRag struct {
	rag.Service
	gotTopK int
	askErr  error
	docs    []commonModels.DocumentInfo
}

func (m *mockRag) Ask(ctx context.Context, documentId, query string, topK int) (commonModels.Answer, error) {
	m.gotTopK = topK
	if m.askErr != nil {
		return commonModels.Answer{}, m.askErr
	}
	return commonModels.Answer{
		DocumentId: documentId,
		Text:       "Thirty days.",
		Strategy:   commonModels.StrategyLexical,
		Citations:  []commonModels.Citation{{DocumentId: documentId, ChunkId: "c1"}},
	}, nil
}

func (m *mockRag) ListDocuments(ctx context.Context) ([]commonModels.DocumentInfo, error) {
	return m.docs, nil
}

func TestNewServer_RequiresService(t *testing.T) {
	_, err := NewServer(nil)
	assert.ErrorIs(t, err, ErrMissingService)
}

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("answers with citations and default top_k", func(t *testing.T) {
		m := &mockRag{}
		s, err := NewServer(m)
		require.NoError(t, err)

		_, out, err := s.handleAsk(ctx, nil, AskInput{DocumentId: docId, Query: "When is payment due?"})
		require.NoError(t, err)
		assert.Equal(t, "Thirty days.", out.Answer)
		assert.Equal(t, commonModels.StrategyLexical, out.Strategy)
		assert.Len(t, out.Citations, 1)
		assert.Equal(t, 5, m.gotTopK)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		s, err := NewServer(&mockRag{})
		require.NoError(t, err)

		for _, in := range []AskInput{
			{DocumentId: "not-a-uuid", Query: "q"},
			{DocumentId: docId, Query: "   "},
			{DocumentId: docId, Query: "q", TopK: 21},
		} {
			_, _, err := s.handleAsk(ctx, nil, in)
			assert.Error(t, err, "input %+v", in)
		}
	})

	t.Run("surfaces the user-facing detail only", func(t *testing.T) {
		m := &mockRag{askErr: errorModel.Wrap(errorModel.KindUnavailable, "AI service temporarily unavailable. Please try again later.", assert.AnError)}
		s, err := NewServer(m)
		require.NoError(t, err)

		_, _, err = s.handleAsk(ctx, nil, AskInput{DocumentId: docId, Query: "q"})
		require.Error(t, err)
		assert.Equal(t, "AI service temporarily unavailable. Please try again later.", err.Error())
	})
}

func TestServer_handleList(t *testing.T) {
	m := &mockRag{docs: []commonModels.DocumentInfo{
		{Document: commonModels.Document{Id: docId, Filename: "msa.pdf", Status: commonModels.DocStatusIngested}, ChunkCount: 12},
	}}
	s, err := NewServer(m)
	require.NoError(t, err)

	_, out, err := s.handleList(context.Background(), nil, ListInput{})
	require.NoError(t, err)
	require.Equal(t, 1, out.Count)
	assert.Equal(t, ContractSummary{DocumentId: docId, Filename: "msa.pdf", Status: commonModels.DocStatusIngested, ChunkCount: 12}, out.Contracts[0])
}
