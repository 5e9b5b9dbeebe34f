package embedding

import (
	"context"
	"errors"
	"time"

	"github.com/akolanti/ContractRAG/internal/config"
)

type SleepFunc func(ctx context.Context, d time.Duration) error

// RetryPolicy bounds how often and how patiently a failed call is repeated.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	// IsRetryable decides whether a failed attempt may be repeated.
	IsRetryable func(error) bool
	// IsQuota marks errors that must abandon the whole operation at once.
	IsQuota func(error) bool
	Sleep   SleepFunc
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    config.EmbeddingMaxAttempts,
		InitialBackoff: config.EmbeddingInitialBackoff,
		IsRetryable:    isRetryable,
		IsQuota:        IsQuotaError,
		Sleep:          sleepContext,
	}
}

// Backoff is the wait after the given failed attempt (1-based): the initial
// backoff, doubled for each further attempt.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return p.InitialBackoff << (attempt - 1)
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.IsRetryable == nil {
		p.IsRetryable = isRetryable
	}
	if p.IsQuota == nil {
		p.IsQuota = IsQuotaError
	}
	if p.Sleep == nil {
		p.Sleep = sleepContext
	}
	return p
}

// A cancelled parent context is not worth retrying; a per-call timeout is.
func isRetryable(err error) bool {
	return !errors.Is(err, context.Canceled)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
