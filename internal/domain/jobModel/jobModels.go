package jobModel

import (
	"context"
	"time"

	"github.com/akolanti/ContractRAG/internal/domain/commonModels"
)

type JobStatus string
type InternalStatus string

type JobType string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	AskInit          InternalStatus = "Init"
	LoadDocument     InternalStatus = "LoadDocument"
	EmbeddingAPICall InternalStatus = "EmbeddingAPI"
	CacheCall        InternalStatus = "CacheCall"
	RetrievalCall    InternalStatus = "Retrieval"
	LLMCall          InternalStatus = "LLM"
	RedisCall        InternalStatus = "Redis"

	IngestInit       InternalStatus = "IngestInit"
	IngestExtract    InternalStatus = "IngestExtract"
	IngestChunk      InternalStatus = "IngestChunk"
	IngestEmbed      InternalStatus = "IngestEmbed"
	IngestPersist    InternalStatus = "IngestPersist"
	ExtractInit      InternalStatus = "ExtractInit"
	AuditInit        InternalStatus = "AuditInit"
	Error            InternalStatus = "Error"

	Complete InternalStatus = "Complete"

	JobTypeAsk     JobType = "Ask"
	JobTypeIngest  JobType = "Ingest"
	JobTypeExtract JobType = "Extract"
	JobTypeAudit   JobType = "Audit"
)

type Job struct {
	Id          string         `json:"id"`
	TraceId     string         `json:"trace_id"`
	JobType     JobType        `json:"job_type"`
	JobPayload  JobPayload     `json:"job_payload"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobPayload struct {
	DocumentId string `json:"document_id,omitempty"`

	Question  string                         `json:"question,omitempty"`
	TopK      int                            `json:"top_k,omitempty"`
	Answer    string                         `json:"answer,omitempty"`
	Citations []commonModels.Citation        `json:"citations,omitempty"`
	Strategy  commonModels.RetrievalStrategy `json:"strategy,omitempty"`
	Cached    bool                           `json:"cached,omitempty"`

	IngestFileName string `json:"ingest_file_name,omitempty"`
	IngestPath     string `json:"ingest_path,omitempty"`
	IngestFileSize int64  `json:"ingest_file_size,omitempty"`
	ChunkCount     int    `json:"chunk_count,omitempty"`

	Extraction *commonModels.ExtractionResult `json:"extraction,omitempty"`
	Audit      *commonModels.AuditReport      `json:"audit,omitempty"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}
