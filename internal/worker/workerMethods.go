package worker

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/domain/errorModel"
	jobmodel "github.com/akolanti/ContractRAG/internal/domain/jobModel"
	"github.com/akolanti/ContractRAG/internal/metrics"
)

func executeJob(job jobmodel.Job) {
	start := time.Now()
	defer func() {
		metrics.CaptureJobMetrics(string(job.Status), time.Since(start))
	}()
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, jobTimeout)
	defer cancel()
	log := logger.With("traceId", job.TraceId, "JobId", job.Id, "JobType", job.JobType)
	log.Debug("Processing job")

	job.Status = jobmodel.JobStatusRunning
	saveJobState(ctx, job)

	job = runJob(ctx, job)

	job.EndTime = time.Now()
	if job.Status != jobmodel.JobStatusError {
		job.Status = jobmodel.JobStatusComplete
	}
	// the job context may have expired; the final state must still land
	saveJobState(context.WithoutCancel(ctx), job)
	log.Info("Job finished", "status", job.Status, "elapsed", time.Since(start))
}

// runJob dispatches on job type and turns a panic in the pipeline into a
// failed job instead of a dead worker.
func runJob(ctx context.Context, job jobmodel.Job) (result jobmodel.Job) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "JobId", job.Id, "panic", r)
			result = failJob(job, errorModel.New(errorModel.KindInternal, "Internal Server Error"))
		}
	}()

	switch job.JobType {
	case jobmodel.JobTypeIngest:
		return _ragService.IngestDocument(ctx, job)
	case jobmodel.JobTypeAsk:
		return _ragService.ProcessRequest(ctx, job)
	case jobmodel.JobTypeExtract:
		return _ragService.ExtractFields(ctx, job)
	case jobmodel.JobTypeAudit:
		return _ragService.AuditContract(ctx, job)
	default:
		return failJob(job, errorModel.New(errorModel.KindValidation, fmt.Sprintf("unknown job type %q", job.JobType)))
	}
}

func failJob(job jobmodel.Job, err *errorModel.Error) jobmodel.Job {
	job.Error = jobmodel.JobError{
		Code:    errorModel.HTTPStatus(err.Kind),
		Kind:    string(err.Kind),
		Message: err.Detail,
		Retry:   errorModel.CanRetry(err.Kind),
	}
	job.Status = jobmodel.JobStatusError
	job.CurrentStep = jobmodel.Error
	return job
}

// removeWorker releases a worker whose slot was already taken off
// currentWorkerCount.
func removeWorker(reason string) {
	workerWaitGroup.Done()
	logger.Info("Removed worker", "reason", reason, "workerCount", atomic.LoadInt64(&currentWorkerCount))
	metrics.DecrementActiveWorkerCount()
}

func saveJobState(ctx context.Context, job jobmodel.Job) {
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		logger.Error("Failed to update job state", "JobId", job.Id, "err", err)
	}
}
