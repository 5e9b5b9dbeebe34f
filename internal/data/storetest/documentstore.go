// Package storetest holds behaviour checks shared by every DocumentStore
// implementation.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/akolanti/ContractRAG/internal/domain/commonModels"
	"github.com/akolanti/ContractRAG/internal/domain/errorModel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func NewDocument(name string, uploaded time.Time) commonModels.Document {
	return commonModels.Document{
		Id:         uuid.NewString(),
		Filename:   name,
		FileSize:   1024,
		Text:       "This Agreement is made between Acme and Globex.",
		Status:     commonModels.DocStatusUploaded,
		UploadedAt: uploaded,
		Metadata: commonModels.DocumentMetadata{
			OriginPath:  "/tmp/" + name,
			UploadedAt:  uploaded,
			NumPages:    2,
			ContentType: commonModels.PDF,
		},
	}
}

func NewChunks(documentId string, n int) []commonModels.Chunk {
	chunks := make([]commonModels.Chunk, n)
	for i := range chunks {
		chunks[i] = commonModels.Chunk{
			Id:         uuid.NewString(),
			DocumentId: documentId,
			Index:      i,
			Text:       "chunk text",
			CharStart:  intPtr(i * 800),
			CharEnd:    intPtr(i*800 + 1000),
		}
		if i%2 == 0 {
			chunks[i].Page = intPtr(i + 1)
			chunks[i].Embedding = []float32{float32(i), 0.5, -1}
		}
	}
	return chunks
}

// RunDocumentStore exercises the DocumentStore contract against a fresh
// store built by newStore for each subtest.
func RunDocumentStore(t *testing.T, newStore func(t *testing.T) commonModels.DocumentStore) {
	ctx := context.Background()
	base := time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)

	t.Run("create and get", func(t *testing.T) {
		s := newStore(t)
		doc := NewDocument("msa.pdf", base)
		require.NoError(t, s.CreateDocument(ctx, doc))

		got, err := s.GetDocument(ctx, doc.Id)
		require.NoError(t, err)
		assert.Equal(t, doc.Filename, got.Filename)
		assert.Equal(t, doc.Text, got.Text)
		assert.Equal(t, doc.Status, got.Status)
		assert.True(t, doc.UploadedAt.Equal(got.UploadedAt))
		assert.Equal(t, 2, got.Metadata.NumPages)
	})

	t.Run("missing document is not found", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetDocument(ctx, uuid.NewString())
		require.Error(t, err)
		assert.Equal(t, errorModel.KindNotFound, errorModel.KindOf(err))
		assert.Equal(t, errorModel.KindNotFound, errorModel.KindOf(s.UpdateStatus(ctx, uuid.NewString(), commonModels.DocStatusFailed)))
	})

	t.Run("list newest first", func(t *testing.T) {
		s := newStore(t)
		older := NewDocument("old.pdf", base)
		newer := NewDocument("new.pdf", base.Add(time.Hour))
		require.NoError(t, s.CreateDocument(ctx, older))
		require.NoError(t, s.CreateDocument(ctx, newer))

		docs, err := s.ListDocuments(ctx)
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, newer.Id, docs[0].Id)
		assert.Equal(t, older.Id, docs[1].Id)
	})

	t.Run("save chunks marks ingested and preserves fields", func(t *testing.T) {
		s := newStore(t)
		doc := NewDocument("nda.pdf", base)
		require.NoError(t, s.CreateDocument(ctx, doc))
		require.NoError(t, s.UpdateStatus(ctx, doc.Id, commonModels.DocStatusProcessing))

		chunks := NewChunks(doc.Id, 3)
		require.NoError(t, s.SaveChunks(ctx, doc.Id, chunks))

		got, err := s.GetDocument(ctx, doc.Id)
		require.NoError(t, err)
		assert.Equal(t, commonModels.DocStatusIngested, got.Status)

		stored, err := s.GetChunks(ctx, doc.Id)
		require.NoError(t, err)
		require.Len(t, stored, 3)
		for i, c := range stored {
			assert.Equal(t, i, c.Index)
			assert.Equal(t, chunks[i].Id, c.Id)
			assert.Equal(t, chunks[i].Page, c.Page)
			assert.Equal(t, chunks[i].CharStart, c.CharStart)
			assert.Equal(t, chunks[i].CharEnd, c.CharEnd)
			assert.Equal(t, chunks[i].HasEmbedding(), c.HasEmbedding())
			if c.HasEmbedding() {
				assert.Equal(t, chunks[i].Embedding, c.Embedding)
			}
		}

		n, err := s.CountChunks(ctx, doc.Id)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})

	t.Run("delete cascades", func(t *testing.T) {
		s := newStore(t)
		doc := NewDocument("lease.pdf", base)
		require.NoError(t, s.CreateDocument(ctx, doc))
		require.NoError(t, s.SaveChunks(ctx, doc.Id, NewChunks(doc.Id, 2)))
		term := "12 months"
		require.NoError(t, s.SaveExtraction(ctx, commonModels.ExtractionResult{
			Id: uuid.NewString(), DocumentId: doc.Id, Term: &term, ConfidenceScore: 0.85, CreatedAt: base,
		}))

		require.NoError(t, s.DeleteDocument(ctx, doc.Id))

		_, err := s.GetDocument(ctx, doc.Id)
		assert.Equal(t, errorModel.KindNotFound, errorModel.KindOf(err))
		n, err := s.CountChunks(ctx, doc.Id)
		require.NoError(t, err)
		assert.Zero(t, n)
		_, found, err := s.GetExtraction(ctx, doc.Id)
		require.NoError(t, err)
		assert.False(t, found)

		assert.Equal(t, errorModel.KindNotFound, errorModel.KindOf(s.DeleteDocument(ctx, doc.Id)))
	})

	t.Run("extraction upsert", func(t *testing.T) {
		s := newStore(t)
		doc := NewDocument("sow.pdf", base)
		require.NoError(t, s.CreateDocument(ctx, doc))

		_, found, err := s.GetExtraction(ctx, doc.Id)
		require.NoError(t, err)
		assert.False(t, found)

		law := "Delaware"
		renew := true
		in := commonModels.ExtractionResult{
			Id:              uuid.NewString(),
			DocumentId:      doc.Id,
			Parties:         []string{"Acme", "Globex"},
			GoverningLaw:    &law,
			AutoRenewal:     &renew,
			Signatories:     []commonModels.Signatory{{Name: "Jane Roe", Title: "CEO"}},
			ConfidenceScore: 0.85,
			CreatedAt:       base,
		}
		require.NoError(t, s.SaveExtraction(ctx, in))

		got, found, err := s.GetExtraction(ctx, doc.Id)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, in.Parties, got.Parties)
		assert.Equal(t, "Delaware", *got.GoverningLaw)
		assert.True(t, *got.AutoRenewal)
		assert.Equal(t, in.Signatories, got.Signatories)
	})
}
