package vectorDB

import (
	"context"

	"github.com/akolanti/ContractRAG/internal/domain/commonModels"
)

// AnswerCache remembers answers keyed by query embedding, scoped to one
// document and the top_k the answer was produced with. Lookup reports a
// hit only above the similarity cutoff.
type AnswerCache interface {
	Lookup(ctx context.Context, documentId string, topK int, queryVector []float32) (commonModels.Answer, bool, error)
	Store(ctx context.Context, topK int, queryVector []float32, answer commonModels.Answer) error
	Purge(ctx context.Context, documentId string) error
}
