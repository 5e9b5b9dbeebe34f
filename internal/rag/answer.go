package rag

import (
	"context"
	"strings"
	"time"

	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/domain/commonModels"
	"github.com/akolanti/ContractRAG/internal/domain/errorModel"
	"github.com/akolanti/ContractRAG/internal/domain/jobModel"
	"github.com/akolanti/ContractRAG/internal/metrics"
	"github.com/akolanti/ContractRAG/internal/rag/citation"
	"github.com/akolanti/ContractRAG/internal/rag/retriever"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
)

const cacheStoreTimeout = 10 * time.Second

var (
	errNoText           = errorModel.New(errorModel.KindDataIntegrity, "Document has no extracted text")
	errNoChunks         = errorModel.New(errorModel.KindDataIntegrity, "No text chunks available for this document. Please re-ingest the document.")
	errNoRelevantChunks = errorModel.New(errorModel.KindDataIntegrity, "No relevant chunks found for your query.")
)

func generationUnavailable(err error) error {
	return errorModel.Wrap(errorModel.KindUnavailable, "AI service temporarily unavailable. Please try again later.", err)
}

func (s *service) Ask(ctx context.Context, documentId, query string, topK int) (commonModels.Answer, error) {
	log := s.logger.WithTrace(ctx)
	return s.ask(ctx, documentId, query, topK, func(step jobModel.InternalStatus) {
		log.Debug("Ask", "Current Status", step)
	})
}

func (s *service) ask(ctx context.Context, documentId, query string, topK int, track func(jobModel.InternalStatus)) (commonModels.Answer, error) {
	log := s.logger.WithTrace(ctx).With("documentId", documentId)

	track(jobModel.LoadDocument)
	doc, err := s.documents.GetDocument(ctx, documentId)
	if err != nil {
		return commonModels.Answer{}, err
	}
	chunks, err := s.documents.GetChunks(ctx, documentId)
	if err != nil {
		return commonModels.Answer{}, err
	}
	return s.answer(ctx, log, doc, chunks, query, topK, track)
}

// answer runs retrieval and generation over an already loaded document.
// A missing query embedding degrades retrieval to lexical ranking; a
// generation failure is reported as unavailable and never retried here.
func (s *service) answer(ctx context.Context, log *logger_i.Logger, doc commonModels.Document, chunks []commonModels.Chunk, query string, topK int, track func(jobModel.InternalStatus)) (commonModels.Answer, error) {
	if strings.TrimSpace(doc.Text) == "" {
		return commonModels.Answer{}, errNoText
	}
	if len(chunks) == 0 {
		return commonModels.Answer{}, errNoChunks
	}
	topK = clampTopK(topK)

	track(jobModel.EmbeddingAPICall)
	queryVector := s.embeddings.Embed(ctx, query)

	strategy := s.chooseStrategy(queryVector, query, chunks)
	log = log.With("strategy", strategy.Name())
	log.Info("Selected retrieval strategy")
	metrics.CaptureRetrievalStrategy(string(strategy.Name()))

	vectorPath := strategy.Name() == commonModels.StrategyVector
	if vectorPath && s.cache != nil {
		track(jobModel.CacheCall)
		if cached, ok := s.lookupCache(ctx, log, doc.Id, topK, queryVector); ok {
			cached.Query = query
			s.remember(ctx, log, cached)
			return cached, nil
		}
	}

	track(jobModel.RetrievalCall)
	start := time.Now()
	result := retriever.Retrieve(strategy, chunks, topK)
	metrics.CaptureExecutionMetrics("retrieval", time.Since(start))
	if len(result) == 0 {
		return commonModels.Answer{}, errNoRelevantChunks
	}

	track(jobModel.LLMCall)
	text, err := s.generate(ctx, answerPrompt(result, query))
	if err != nil {
		log.Error("Generation failed", "error", err)
		return commonModels.Answer{}, generationUnavailable(err)
	}

	answer := commonModels.Answer{
		DocumentId: doc.Id,
		Query:      query,
		Text:       strings.TrimSpace(text),
		Citations:  citation.Build(result, doc.Id),
		Strategy:   strategy.Name(),
	}

	if vectorPath && s.cache != nil {
		go s.storeCache(context.WithoutCancel(ctx), log, topK, queryVector, answer)
	}
	s.remember(ctx, log, answer)
	log.Info("Answered query", "citations", len(answer.Citations))
	return answer, nil
}

// chooseStrategy prefers vector ranking when the query embedded and at
// least one chunk carries an embedding.
func (s *service) chooseStrategy(queryVector []float32, query string, chunks []commonModels.Chunk) retriever.Strategy {
	if len(queryVector) > 0 {
		for _, c := range chunks {
			if c.HasEmbedding() {
				return retriever.Vector(queryVector)
			}
		}
	}
	return retriever.Lexical(query)
}

func clampTopK(topK int) int {
	if topK < config.MinTopK {
		return config.DefaultTopK
	}
	return min(topK, config.MaxTopK)
}

func (s *service) generate(ctx context.Context, prompt string) (string, error) {
	if s.llm == nil {
		return "", errorModel.New(errorModel.KindUnavailable, "no language model configured")
	}
	genCtx, cancel := context.WithTimeout(ctx, config.GenerationTimeout)
	defer cancel()

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()
	return s.llm.Generate(genCtx, prompt)
}

// lookupCache only reuses an entry whose citations fit within topK, so a
// cached answer never cites more chunks than the caller asked for.
func (s *service) lookupCache(ctx context.Context, log *logger_i.Logger, documentId string, topK int, queryVector []float32) (commonModels.Answer, bool) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("cache_lookup", time.Since(start)) }()

	cached, found, err := s.cache.Lookup(ctx, documentId, topK, queryVector)
	if err != nil {
		log.Warn("Answer cache lookup failed", "error", err)
		return commonModels.Answer{}, false
	}
	if found && len(cached.Citations) > topK {
		log.Debug("Cached answer exceeds top_k", "citations", len(cached.Citations), "topK", topK)
		found = false
	}
	metrics.CaptureCacheLookup(found)
	if found {
		log.Info("Answer cache hit")
		cached.Cached = true
		cached.Strategy = commonModels.StrategyVector
	}
	return cached, found
}

func (s *service) storeCache(ctx context.Context, log *logger_i.Logger, topK int, queryVector []float32, answer commonModels.Answer) {
	ctx, cancel := context.WithTimeout(ctx, cacheStoreTimeout)
	defer cancel()
	if err := s.cache.Store(ctx, topK, queryVector, answer); err != nil {
		log.Error("Failed to save to cache", "error", err)
	}
}

func (s *service) remember(ctx context.Context, log *logger_i.Logger, answer commonModels.Answer) {
	if s.history == nil {
		return
	}
	entry := commonModels.HistoryEntry{
		Question: answer.Query,
		Answer:   answer.Text,
		Strategy: answer.Strategy,
		AskedAt:  time.Now().UTC(),
	}
	if err := s.history.Append(ctx, answer.DocumentId, entry); err != nil {
		log.Warn("Could not record question history", "error", err)
	}
}
