package rag

import (
	"context"
	"strings"
	"time"

	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/domain/commonModels"
	"github.com/akolanti/ContractRAG/internal/domain/errorModel"
	"github.com/akolanti/ContractRAG/internal/metrics"
	"github.com/akolanti/ContractRAG/internal/rag/extraction"
	"github.com/akolanti/ContractRAG/internal/rag/ingest"
	"github.com/google/uuid"
)

func (s *service) Ingest(ctx context.Context, req ingest.Request) (ingest.Result, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()
	return s.pipeline.Run(ctx, req)
}

// Extract returns the stored extraction for the document, asking the model
// only when none exists yet.
func (s *service) Extract(ctx context.Context, documentId string) (commonModels.ExtractionResult, error) {
	log := s.logger.WithTrace(ctx).With("documentId", documentId)

	doc, err := s.documents.GetDocument(ctx, documentId)
	if err != nil {
		return commonModels.ExtractionResult{}, err
	}
	if cached, ok, err := s.documents.GetExtraction(ctx, documentId); err != nil {
		log.Warn("Could not read stored extraction", "error", err)
	} else if ok {
		log.Debug("Returning stored extraction")
		return cached, nil
	}
	if strings.TrimSpace(doc.Text) == "" {
		return commonModels.ExtractionResult{}, errNoText
	}

	raw, err := s.generate(ctx, extraction.ExtractionPrompt(doc.Text))
	if err != nil {
		log.Error("Extraction generation failed", "error", err)
		return commonModels.ExtractionResult{}, generationUnavailable(err)
	}

	result, err := extraction.DecodeExtraction(raw)
	if err != nil {
		log.Error("Could not decode extraction", "error", err)
		return commonModels.ExtractionResult{}, err
	}
	result.Id = uuid.NewString()
	result.DocumentId = documentId
	result.CreatedAt = time.Now().UTC()

	if err := s.documents.SaveExtraction(ctx, result); err != nil {
		return commonModels.ExtractionResult{}, err
	}
	log.Info("Extracted contract fields", "parties", len(result.Parties))
	return result, nil
}

func (s *service) Audit(ctx context.Context, documentId string) (commonModels.AuditReport, error) {
	log := s.logger.WithTrace(ctx).With("documentId", documentId)

	doc, err := s.documents.GetDocument(ctx, documentId)
	if err != nil {
		return commonModels.AuditReport{}, err
	}
	if strings.TrimSpace(doc.Text) == "" {
		return commonModels.AuditReport{}, errNoText
	}

	raw, err := s.generate(ctx, extraction.AuditPrompt(doc.Text))
	if err != nil {
		log.Error("Audit generation failed", "error", err)
		return commonModels.AuditReport{}, generationUnavailable(err)
	}

	findings := extraction.DecodeFindings(raw)
	log.Info("Audited contract", "findings", len(findings))
	return commonModels.AuditReport{
		DocumentId:    documentId,
		TotalFindings: len(findings),
		Findings:      findings,
	}, nil
}

func (s *service) GetDocument(ctx context.Context, documentId string) (commonModels.DocumentInfo, error) {
	doc, err := s.documents.GetDocument(ctx, documentId)
	if err != nil {
		return commonModels.DocumentInfo{}, err
	}
	count, err := s.documents.CountChunks(ctx, documentId)
	if err != nil {
		return commonModels.DocumentInfo{}, err
	}
	return commonModels.DocumentInfo{Document: doc, ChunkCount: count}, nil
}

func (s *service) ListDocuments(ctx context.Context) ([]commonModels.DocumentInfo, error) {
	docs, err := s.documents.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]commonModels.DocumentInfo, len(docs))
	for i, d := range docs {
		count, err := s.documents.CountChunks(ctx, d.Id)
		if err != nil {
			return nil, err
		}
		out[i] = commonModels.DocumentInfo{Document: d, ChunkCount: count}
	}
	return out, nil
}

// DeleteDocument removes the document with its chunks and extraction, then
// forgets its cached answers and question history.
func (s *service) DeleteDocument(ctx context.Context, documentId string) error {
	log := s.logger.WithTrace(ctx).With("documentId", documentId)
	if err := s.documents.DeleteDocument(ctx, documentId); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Purge(ctx, documentId); err != nil {
			log.Warn("Could not purge cached answers", "error", err)
		}
	}
	if s.history != nil {
		if err := s.history.Clear(ctx, documentId); err != nil {
			log.Warn("Could not clear question history", "error", err)
		}
	}
	log.Info("Deleted document")
	return nil
}

func (s *service) History(ctx context.Context, documentId string) ([]commonModels.HistoryEntry, error) {
	if _, err := s.documents.GetDocument(ctx, documentId); err != nil {
		return nil, err
	}
	if s.history == nil {
		return []commonModels.HistoryEntry{}, nil
	}
	entries, err := s.history.Recent(ctx, documentId, config.HistoryWindow)
	if err != nil {
		return nil, errorModel.Wrap(errorModel.KindPersistence, "Could not read question history", err)
	}
	return entries, nil
}
