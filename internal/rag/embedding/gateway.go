package embedding

import (
	"context"
	"time"

	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/metrics"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
	"golang.org/x/time/rate"
)

type outcome int

const (
	outcomeOK outcome = iota
	outcomeQuota
	outcomeExhausted
)

// Gateway wraps an Embedder with bounded retries and quota short-circuiting.
// It never returns an error: a nil vector means the embedding is absent.
type Gateway struct {
	embedder    Embedder
	policy      RetryPolicy
	limiter     *rate.Limiter
	callTimeout time.Duration
	dimension   int
	logger      *logger_i.Logger
}

type GatewayOption func(*Gateway)

// WithLimiter paces every attempt through limiter.
func WithLimiter(limiter *rate.Limiter) GatewayOption {
	return func(g *Gateway) {
		g.limiter = limiter
	}
}

// WithDimension discards vectors whose length differs from dim.
func WithDimension(dim int) GatewayOption {
	return func(g *Gateway) {
		g.dimension = dim
	}
}

func WithCallTimeout(d time.Duration) GatewayOption {
	return func(g *Gateway) {
		g.callTimeout = d
	}
}

func NewGateway(embedder Embedder, policy RetryPolicy, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		embedder:    embedder,
		policy:      policy.withDefaults(),
		callTimeout: config.EmbeddingCallTimeout,
		logger:      logger_i.NewLogger("EmbeddingGateway"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Embed returns the vector for a search query, or nil if it could not be
// produced. Embedders implementing QueryEmbedder use their query mode.
func (g *Gateway) Embed(ctx context.Context, text string) []float32 {
	if g == nil || g.embedder == nil {
		return nil
	}
	vec, _ := g.embed(ctx, text, true, g.logger.WithTrace(ctx))
	return vec
}

// EmbedMany embeds texts in order. After a quota failure the failing text
// and every later one stay nil and no further calls are made.
func (g *Gateway) EmbedMany(ctx context.Context, texts []string) [][]float32 {
	vectors := make([][]float32, len(texts))
	if g == nil || g.embedder == nil {
		return vectors
	}
	log := g.logger.WithTrace(ctx)

	for i, text := range texts {
		vec, out := g.embed(ctx, text, false, log)
		if out == outcomeQuota {
			log.Warn("Quota exceeded, skipping remaining chunks", "failedAt", i, "skipped", len(texts)-i)
			break
		}
		vectors[i] = vec
	}
	return vectors
}

func (g *Gateway) embed(ctx context.Context, text string, query bool, log *logger_i.Logger) ([]float32, outcome) {
	for attempt := 1; attempt <= g.policy.MaxAttempts; attempt++ {
		vec, err := g.call(ctx, text, query)
		if err == nil {
			if g.dimension > 0 && len(vec) != g.dimension {
				log.Warn("Embedding has unexpected dimension", "got", len(vec), "want", g.dimension)
				metrics.CaptureEmbeddingOutcome("bad_dimension")
				return nil, outcomeExhausted
			}
			metrics.CaptureEmbeddingOutcome("success")
			return vec, outcomeOK
		}

		if g.policy.IsQuota(err) {
			log.Warn("Embedding quota exceeded", "error", err)
			metrics.CaptureEmbeddingOutcome("quota")
			return nil, outcomeQuota
		}
		if attempt == g.policy.MaxAttempts || !g.policy.IsRetryable(err) {
			log.Error("All embedding attempts failed", "attempts", attempt, "error", err)
			metrics.CaptureEmbeddingOutcome("exhausted")
			return nil, outcomeExhausted
		}

		delay := g.policy.Backoff(attempt)
		log.Warn("Embedding attempt failed, retrying", "attempt", attempt, "delay", delay, "error", err)
		metrics.CaptureEmbeddingOutcome("retry")
		if err := g.policy.Sleep(ctx, delay); err != nil {
			log.Warn("Embedding retry abandoned", "error", err)
			metrics.CaptureEmbeddingOutcome("exhausted")
			return nil, outcomeExhausted
		}
	}
	return nil, outcomeExhausted
}

func (g *Gateway) call(ctx context.Context, text string, query bool) ([]float32, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	callCtx := ctx
	if g.callTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.callTimeout)
		defer cancel()
	}

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()
	var vec []float32
	var err error
	if qe, ok := g.embedder.(QueryEmbedder); ok && query {
		vec, err = qe.EmbedQuery(callCtx, text)
	} else {
		vec, err = g.embedder.Embed(callCtx, text)
	}
	if err == nil && len(vec) == 0 {
		return nil, errEmptyVector
	}
	return vec, err
}
