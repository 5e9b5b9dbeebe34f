package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var countJobsInQueue = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "count_jobs_in_queue",
	Help: "Number of jobs in queue",
})

var dispatcherSignalCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "dispatcher_signal_count",
	Help: "How often the dispatcher has signaled to start worker",
})

var activeWorkerCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "active_worker_count",
	Help: "Number of active workers",
})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps streaming responses (MCP over SSE) working behind the recorder.
func (r *HttpStatusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *HttpStatusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func IncrementJobsInQueue() {
	countJobsInQueue.Inc()
}

func DecrementJobsInQueue() {
	countJobsInQueue.Dec()
}

func StartDispatcherSignalCount() {
	dispatcherSignalCount.Inc()
}

func IncrementActiveWorkerCount() {
	activeWorkerCount.Inc()
}
func DecrementActiveWorkerCount() {
	activeWorkerCount.Dec()
}

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "process_request_duration_seconds",
	Help:    "Total time spent executing a job.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30},
}, []string{"status"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"service"})

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureJobMetrics(label string, timeElapsed time.Duration) {
	requestDuration.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

var retrievalStrategyTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "retrieval_strategy_total",
	Help: "Answers served, labelled by the retrieval strategy used",
}, []string{"strategy"})

var embeddingCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "embedding_calls_total",
	Help: "Embedding attempts labelled by outcome",
}, []string{"outcome"})

var documentsIngestedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "documents_ingested_total",
	Help: "Ingestion runs labelled by final document status",
}, []string{"status"})

var answerCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "answer_cache_total",
	Help: "Answer cache lookups labelled by result",
}, []string{"result"})

func CaptureRetrievalStrategy(strategy string) {
	retrievalStrategyTotal.WithLabelValues(strategy).Inc()
}

func CaptureEmbeddingOutcome(outcome string) {
	embeddingCallsTotal.WithLabelValues(outcome).Inc()
}

func CaptureIngestion(status string) {
	documentsIngestedTotal.WithLabelValues(status).Inc()
}

func CaptureCacheLookup(hit bool) {
	if hit {
		answerCacheTotal.WithLabelValues("hit").Inc()
		return
	}
	answerCacheTotal.WithLabelValues("miss").Inc()
}
