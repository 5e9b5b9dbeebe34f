package rag

import (
	"context"

	"github.com/akolanti/ContractRAG/internal/domain/commonModels"
	"github.com/akolanti/ContractRAG/internal/domain/jobModel"
	"github.com/akolanti/ContractRAG/internal/rag/chunker"
	"github.com/akolanti/ContractRAG/internal/rag/embedding"
	"github.com/akolanti/ContractRAG/internal/rag/ingest"
	"github.com/akolanti/ContractRAG/internal/rag/llm"
	"github.com/akolanti/ContractRAG/internal/rag/vectorDB"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
)

/*
The worker, the HTTP handlers, the MCP tools and the CLI only see Service.
The private service struct owns the stores and model clients, so tests swap
them for fakes through Deps without touching any caller.
*/

// Service is everything callers can ask of the contract pipeline. The job
// methods never fail: errors are recorded on the returned job.
type Service interface {
	ProcessRequest(ctx context.Context, job jobModel.Job) jobModel.Job
	IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job
	ExtractFields(ctx context.Context, job jobModel.Job) jobModel.Job
	AuditContract(ctx context.Context, job jobModel.Job) jobModel.Job

	Ask(ctx context.Context, documentId, query string, topK int) (commonModels.Answer, error)
	Ingest(ctx context.Context, req ingest.Request) (ingest.Result, error)
	Extract(ctx context.Context, documentId string) (commonModels.ExtractionResult, error)
	Audit(ctx context.Context, documentId string) (commonModels.AuditReport, error)

	GetDocument(ctx context.Context, documentId string) (commonModels.DocumentInfo, error)
	ListDocuments(ctx context.Context) ([]commonModels.DocumentInfo, error)
	DeleteDocument(ctx context.Context, documentId string) error
	History(ctx context.Context, documentId string) ([]commonModels.HistoryEntry, error)
}

// Deps are the collaborators of the service. History and Cache are optional.
type Deps struct {
	Documents  commonModels.DocumentStore
	History    commonModels.HistoryStore
	Cache      vectorDB.AnswerCache
	LLM        llm.Provider
	Embeddings *embedding.Gateway
	Chunker    *chunker.Chunker
}

type service struct {
	documents  commonModels.DocumentStore
	history    commonModels.HistoryStore
	cache      vectorDB.AnswerCache
	llm        llm.Provider
	embeddings *embedding.Gateway
	pipeline   *ingest.Pipeline
	logger     *logger_i.Logger
}

func NewService(deps Deps) Service {
	return &service{
		documents:  deps.Documents,
		history:    deps.History,
		cache:      deps.Cache,
		llm:        deps.LLM,
		embeddings: deps.Embeddings,
		pipeline:   ingest.NewPipeline(deps.Documents, deps.Chunker, deps.Embeddings),
		logger:     logger_i.NewLogger("RAG Service"),
	}
}

func (s *service) ProcessRequest(ctx context.Context, job jobModel.Job) jobModel.Job {
	log := s.logger.WithTrace(ctx).With("JobId", job.Id)
	track := func(step jobModel.InternalStatus) { job = logOutput(job, step, log) }

	track(jobModel.AskInit)
	answer, err := s.ask(ctx, job.JobPayload.DocumentId, job.JobPayload.Question, job.JobPayload.TopK, track)
	if err != nil {
		return s.jobError(job, err, log)
	}

	job.JobPayload.Answer = answer.Text
	job.JobPayload.Citations = answer.Citations
	job.JobPayload.Strategy = answer.Strategy
	job.JobPayload.Cached = answer.Cached
	return complete(job)
}

func (s *service) IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job {
	log := s.logger.WithTrace(ctx).With("JobId", job.Id)
	job = logOutput(job, jobModel.IngestInit, log)

	res, err := s.Ingest(ctx, ingest.Request{
		DocumentId: job.JobPayload.DocumentId,
		Filename:   job.JobPayload.IngestFileName,
		Path:       job.JobPayload.IngestPath,
		Size:       job.JobPayload.IngestFileSize,
	})
	if err != nil {
		return s.jobError(job, err, log)
	}
	job.JobPayload.DocumentId = res.Document.Id
	job.JobPayload.ChunkCount = res.ChunkCount
	return complete(job)
}

func (s *service) ExtractFields(ctx context.Context, job jobModel.Job) jobModel.Job {
	log := s.logger.WithTrace(ctx).With("JobId", job.Id)
	job = logOutput(job, jobModel.ExtractInit, log)

	result, err := s.Extract(ctx, job.JobPayload.DocumentId)
	if err != nil {
		return s.jobError(job, err, log)
	}
	job.JobPayload.Extraction = &result
	return complete(job)
}

func (s *service) AuditContract(ctx context.Context, job jobModel.Job) jobModel.Job {
	log := s.logger.WithTrace(ctx).With("JobId", job.Id)
	job = logOutput(job, jobModel.AuditInit, log)

	report, err := s.Audit(ctx, job.JobPayload.DocumentId)
	if err != nil {
		return s.jobError(job, err, log)
	}
	job.JobPayload.Audit = &report
	return complete(job)
}
