package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/akolanti/ContractRAG/internal/adapter/utils"
	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/domain/jobModel"
	"github.com/akolanti/ContractRAG/internal/job"
	"github.com/akolanti/ContractRAG/internal/rag"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
)

var (
	handlerInstance *JobHandler //private singleton
	once            sync.Once
	logJH           = logger_i.NewLogger("JobHandler")
)

type Config struct {
	JobService     *job.Service
	RagService     rag.Service
	UploadDir      string
	MaxUploadBytes int64
}

type JobHandler struct {
	service        *job.Service
	rag            rag.Service
	uploadDir      string
	maxUploadBytes int64
}

func InitJobHandler(cfg Config) {
	once.Do(func() {
		if cfg.UploadDir == "" {
			cfg.UploadDir = config.UploadDirectory
		}
		if cfg.MaxUploadBytes <= 0 {
			cfg.MaxUploadBytes = config.MaxUploadBytes
		}
		handlerInstance = &JobHandler{
			service:        cfg.JobService,
			rag:            cfg.RagService,
			uploadDir:      cfg.UploadDir,
			maxUploadBytes: cfg.MaxUploadBytes,
		}
		logJH.Info("Starting job handler")
	})
}

type newJobData struct {
	id         string
	traceId    string
	jobType    jobModel.JobType
	documentId string

	question string
	topK     int

	documentName   string
	documentSource string
	fileSize       int64
}

// CreateNewJob queues the job and returns its id.
func CreateNewJob(ctx context.Context, newJob newJobData) (string, error) {
	if newJob.id == "" {
		newJob.id = utils.GetNewUUID()
	}
	log := logJH.With("traceId", newJob.traceId, "JobId", newJob.id, "JobType", newJob.jobType)

	j := jobModel.Job{
		Id:          newJob.id,
		TraceId:     newJob.traceId,
		JobType:     newJob.jobType,
		CreatedTime: time.Now(),
		JobPayload: jobModel.JobPayload{
			DocumentId:     newJob.documentId,
			Question:       newJob.question,
			TopK:           newJob.topK,
			IngestFileName: newJob.documentName,
			IngestPath:     newJob.documentSource,
			IngestFileSize: newJob.fileSize,
		},
	}
	switch newJob.jobType {
	case jobModel.JobTypeIngest:
		j.CurrentStep = jobModel.IngestInit
	case jobModel.JobTypeExtract:
		j.CurrentStep = jobModel.ExtractInit
	case jobModel.JobTypeAudit:
		j.CurrentStep = jobModel.AuditInit
	default:
		j.CurrentStep = jobModel.AskInit
	}

	if err := handlerInstance.service.Enqueue(ctx, j); err != nil {
		log.Error("Could not queue job", "error", err)
		return "", err
	}
	log.Info("Created new job")
	return j.Id, nil
}

func GetJobStatus(ctx context.Context, id string) (result jobModel.Job, isFound bool) {
	if handlerInstance != nil {
		return handlerInstance.service.GetJob(ctx, id)
	}
	return result, false
}
