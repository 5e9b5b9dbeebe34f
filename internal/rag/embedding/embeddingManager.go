package embedding

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

// Embedder is a single call to an embedding model.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// QueryEmbedder is implemented by embedders whose model embeds search
// queries differently from the documents they are matched against.
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// ErrQuotaExceeded marks provider errors that signal rate or usage limits.
// Providers wrap their native quota errors with it.
var ErrQuotaExceeded = errors.New("embedding quota exceeded")

var errEmptyVector = errors.New("embedding response contained no values")

var statusTooManyRequests = regexp.MustCompile(`\b429\b`)

// IsQuotaError reports whether err is a quota/rate-limit failure. Errors not
// classified by a provider are matched on the word "quota" or a standalone
// 429 status code in their message.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrQuotaExceeded) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "quota") || statusTooManyRequests.MatchString(msg)
}
