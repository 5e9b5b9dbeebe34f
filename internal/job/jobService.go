package job

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/domain/jobModel"
	"github.com/akolanti/ContractRAG/internal/metrics"
)

type Service struct {
	JobChannel        chan jobModel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
}

type ServiceConfig struct {
	JobChannel        chan jobModel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
}

func InitJobService(cfg ServiceConfig) *Service {
	return &Service{
		JobChannel:        cfg.JobChannel,
		RequestCount:      cfg.RequestCount,
		DispatcherChannel: cfg.DispatcherChannel,
		JobStore:          cfg.JobStore,
	}
}

// Enqueue records the job as queued and hands it to the worker pool. The
// channel send blocks when the buffer is full, which pushes back on callers.
// Every RequestsPerNewWorkerCount jobs, and for every ingest job, the
// dispatcher is asked for another worker; idle workers retire on their own.
func (s *Service) Enqueue(ctx context.Context, j jobModel.Job) error {
	j.Status = jobModel.JobStatusQueued
	if j.CreatedTime.IsZero() {
		j.CreatedTime = time.Now()
	}
	if err := s.JobStore.SaveJob(ctx, j); err != nil {
		return err
	}

	metrics.IncrementJobsInQueue()
	s.JobChannel <- j

	count := atomic.AddInt64(&s.RequestCount, 1)
	if count%config.RequestsPerNewWorkerCount == 0 || j.JobType == jobModel.JobTypeIngest {
		metrics.StartDispatcherSignalCount()
		select {
		case s.DispatcherChannel <- true:
		default:
			// a signal is already pending
		}
	}
	return nil
}

func (s *Service) GetJob(ctx context.Context, id string) (jobModel.Job, bool) {
	if id == "" {
		return jobModel.Job{}, false
	}
	return s.JobStore.GetJob(ctx, id)
}
