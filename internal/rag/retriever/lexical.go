package retriever

import (
	"github.com/akolanti/ContractRAG/internal/domain/commonModels"
	"github.com/akolanti/ContractRAG/internal/rag/retriever/tfidf"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
)

// DegradedScore is assigned when the corpus yields no usable vocabulary.
const DegradedScore = 0.5

type lexicalStrategy struct {
	query       string
	maxFeatures int
}

// Lexical ranks chunks by TF-IDF cosine similarity to query. The query is
// fitted as one more document of the corpus.
func Lexical(query string) Strategy {
	return &lexicalStrategy{query: query, maxFeatures: tfidf.DefaultMaxFeatures}
}

func (l *lexicalStrategy) Name() commonModels.RetrievalStrategy {
	return commonModels.StrategyLexical
}

func (l *lexicalStrategy) Rank(chunks []commonModels.Chunk, k int) commonModels.RetrievalResult {
	corpus := make([]string, 0, len(chunks)+1)
	for _, c := range chunks {
		corpus = append(corpus, c.Text)
	}
	corpus = append(corpus, l.query)

	vectorizer := tfidf.NewVectorizer(l.maxFeatures)
	if err := vectorizer.Fit(corpus); err != nil {
		logger_i.NewLogger("retriever").Warn("Lexical vectorization failed, using constant scores", "error", err)
		return degraded(chunks, k)
	}

	queryVec := vectorizer.Transform(l.query)
	scored := make(commonModels.RetrievalResult, 0, len(chunks))
	for _, c := range chunks {
		scored = append(scored, commonModels.ScoredChunk{
			Chunk: c,
			Score: tfidf.Cosine(queryVec, vectorizer.Transform(c.Text)),
		})
	}
	return topK(scored, k)
}

// degraded keeps the first k chunks in their stored order.
func degraded(chunks []commonModels.Chunk, k int) commonModels.RetrievalResult {
	n := min(k, len(chunks))
	out := make(commonModels.RetrievalResult, 0, n)
	for _, c := range chunks[:n] {
		out = append(out, commonModels.ScoredChunk{Chunk: c, Score: DegradedScore})
	}
	return out
}
