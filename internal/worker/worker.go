package worker

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/job"
	"github.com/akolanti/ContractRAG/internal/metrics"
	"github.com/akolanti/ContractRAG/internal/rag"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
)

var (
	_jobService        *job.Service
	stopWorkerChannel  chan bool
	workerWaitGroup    *sync.WaitGroup
	dispatcherChannel  chan bool
	currentWorkerCount int64
	logger             = logger_i.NewLogger("WorkerPool")
	_ragService        rag.Service
	minWorkerCount     = config.MinWorkerCount
	idleWorkerTimeout  = config.IdleWorkerTimeout
	jobTimeout         = config.JobTimeout
)

func InitServices(jobService *job.Service, ragService rag.Service) {
	_jobService = jobService
	_ragService = ragService
	dispatcherChannel = jobService.DispatcherChannel
}

func InitWorkerPool(stopWorkerChan chan bool, waitGroup *sync.WaitGroup) {
	stopWorkerChannel = stopWorkerChan
	workerWaitGroup = waitGroup
	logger.Info("Initializing worker pool")
	go dispatcher()
}

func dispatcher() {
	createWorker()
	logger.Info("Dispatcher started")
	for {
		select {
		case _, ok := <-dispatcherChannel:
			if !ok {
				return
			}
			if atomic.LoadInt64(&currentWorkerCount) < config.MaxWorkerCount {
				logger.Info("Creating new worker", "WorkerCount", atomic.LoadInt64(&currentWorkerCount))
				createWorker()
			}
		case <-stopWorkerChannel:
			return
		}
	}
}

func createWorker() {
	workerWaitGroup.Add(1)
	atomic.AddInt64(&currentWorkerCount, 1)
	go worker()
	metrics.IncrementActiveWorkerCount()
	logger.Debug("Created new worker")
}

func worker() {
	idle := time.NewTimer(idleWorkerTimeout)
	defer idle.Stop()
	for {
		select {
		case currentJob := <-_jobService.JobChannel:
			metrics.DecrementJobsInQueue()
			executeJob(currentJob)
			idle.Reset(idleWorkerTimeout)

		case <-stopWorkerChannel:
			atomic.AddInt64(&currentWorkerCount, -1)
			removeWorker("Stop worker signal received")
			return

		case <-idle.C:
			if tryRetire() {
				removeWorker("Idle worker timeout")
				return
			}
			idle.Reset(idleWorkerTimeout)
		}
	}
}

// tryRetire claims one slot above the minimum worker count. Idle workers
// race here, so the decrement is a compare-and-swap.
func tryRetire() bool {
	for {
		count := atomic.LoadInt64(&currentWorkerCount)
		if count <= atomic.LoadInt64(&minWorkerCount) {
			return false
		}
		if atomic.CompareAndSwapInt64(&currentWorkerCount, count, count-1) {
			return true
		}
	}
}
