package api

import (
	"time"

	"github.com/akolanti/ContractRAG/internal/domain/commonModels"
)

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id          string            `json:"id" example:"0b5c2f5e-8a59-4b1e-9f63-3f1a6f0c2d11"`
	JobType     string            `json:"job_type,omitempty" example:"Ask"`
	CurrentStep string            `json:"current_step,omitempty" example:"Complete"`
	Result      Result            `json:"result"`
	Error       *JobOutgoingError `json:"error,omitempty"`
	StartTime   time.Time         `json:"start_time"`
	EndTime     time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Kind    string `json:"kind,omitempty" example:"validation"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

// RAGResponse carries whatever the finished job produced.
type RAGResponse struct {
	DocumentId string                         `json:"document_id,omitempty"`
	Question   string                         `json:"question,omitempty"`
	Answer     string                         `json:"answer,omitempty"`
	Citations  []commonModels.Citation        `json:"citations,omitempty"`
	Strategy   commonModels.RetrievalStrategy `json:"strategy,omitempty" example:"vector"`
	Cached     bool                           `json:"cached,omitempty"`
	ChunkCount int                            `json:"chunk_count,omitempty"`
	Extraction *commonModels.ExtractionResult `json:"extraction,omitempty"`
	Audit      *commonModels.AuditReport      `json:"audit,omitempty"`
}

type Result struct {
	Status              string       `json:"status"`
	RAGExternalResponse *RAGResponse `json:"rag_response,omitempty"`
}

type InitJobResponse struct {
	Id         string `json:"id"`
	StatusURL  string `json:"status_url"`
	DocumentId string `json:"document_id,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

type DocumentListResponse struct {
	Documents []commonModels.DocumentInfo `json:"documents"`
	Total     int                         `json:"total"`
}

type HistoryResponse struct {
	DocumentId string                      `json:"document_id"`
	Entries    []commonModels.HistoryEntry `json:"entries"`
}

type DeleteResponse struct {
	DocumentId string `json:"document_id"`
	Deleted    bool   `json:"deleted"`
}

// requests---------------------

// AskRequest.TopK is a pointer so an explicit 0 is rejected instead of
// silently defaulted.
type AskRequest struct {
	DocumentId string `json:"document_id" validate:"required" example:"123e4567-e89b-12d3-a456-426614174000"`
	Query      string `json:"query" validate:"required" example:"What are the termination terms?"`
	TopK       *int   `json:"top_k,omitempty" example:"5"`
}

type DocumentRequest struct {
	DocumentId string `json:"document_id" validate:"required" example:"123e4567-e89b-12d3-a456-426614174000"`
}
