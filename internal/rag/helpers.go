package rag

import (
	"github.com/akolanti/ContractRAG/internal/domain/errorModel"
	"github.com/akolanti/ContractRAG/internal/domain/jobModel"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
)

func complete(job jobModel.Job) jobModel.Job {
	job.CurrentStep = jobModel.Complete
	return job
}

func logOutput(job jobModel.Job, status jobModel.InternalStatus, log *logger_i.Logger) jobModel.Job {
	job.CurrentStep = status
	log.Debug("ProcessRequest", "Current Status", job.CurrentStep)
	return job
}

func (s *service) jobError(job jobModel.Job, err error, log *logger_i.Logger) jobModel.Job {
	kind := errorModel.KindOf(err)
	log.Error("Job failed", "step", job.CurrentStep, "kind", kind, "error", err)

	job.Error = jobModel.JobError{
		Code:    errorModel.HTTPStatus(kind),
		Kind:    string(kind),
		Message: errorModel.DetailOf(err),
		Retry:   errorModel.CanRetry(kind),
	}
	job.Status = jobModel.JobStatusError
	job.CurrentStep = jobModel.Error
	return job
}
