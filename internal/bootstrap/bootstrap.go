// Package bootstrap assembles the contract pipeline from Settings. The API
// server and contractctl both start from here.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/data/postgresStore"
	"github.com/akolanti/ContractRAG/internal/data/redisStore"
	"github.com/akolanti/ContractRAG/internal/data/sqliteStore"
	"github.com/akolanti/ContractRAG/internal/data/store"
	"github.com/akolanti/ContractRAG/internal/domain/commonModels"
	"github.com/akolanti/ContractRAG/internal/domain/jobModel"
	"github.com/akolanti/ContractRAG/internal/rag"
	"github.com/akolanti/ContractRAG/internal/rag/chunker"
	"github.com/akolanti/ContractRAG/internal/rag/embedding"
	"github.com/akolanti/ContractRAG/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/ContractRAG/internal/rag/embedding/openaiEmbedding"
	"github.com/akolanti/ContractRAG/internal/rag/llm"
	"github.com/akolanti/ContractRAG/internal/rag/llm/gemini"
	"github.com/akolanti/ContractRAG/internal/rag/llm/openaiLLM"
	"github.com/akolanti/ContractRAG/internal/rag/vectorDB"
	"github.com/akolanti/ContractRAG/internal/rag/vectorDB/qdrantDB"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
	"golang.org/x/time/rate"
)

type App struct {
	Settings  *config.Settings
	Documents commonModels.DocumentStore
	Jobs      jobModel.JobStore
	History   commonModels.HistoryStore
	Rag       rag.Service
}

// New connects every backend named by settings. Redis, Qdrant and the model
// providers are optional: when one is unreachable the app starts without it
// and the pipeline degrades (in-memory jobs, no answer cache, lexical
// retrieval, unavailable generation). A configured Postgres that cannot be
// reached is an error.
func New(ctx context.Context, settings *config.Settings) (*App, error) {
	log := logger_i.NewLogger("bootstrap")

	documents, err := openDocumentStore(ctx, settings, log)
	if err != nil {
		return nil, err
	}

	c, err := chunker.New(chunker.WithChunkSize(settings.ChunkSize), chunker.WithOverlap(settings.ChunkOverlap))
	if err != nil {
		documents.Close()
		return nil, fmt.Errorf("chunker: %w", err)
	}

	app := &App{
		Settings:  settings,
		Documents: documents,
		Jobs:      jobStore(ctx, settings, log),
		History:   historyStore(ctx, settings, log),
	}

	provider, embedder := models(ctx, settings, log)
	gateway := embedding.NewGateway(embedder, embedding.DefaultRetryPolicy(),
		embedding.WithLimiter(rate.NewLimiter(rate.Limit(config.EmbeddingRequestsPerSecond), config.EmbeddingBurst)),
		embedding.WithDimension(settings.EmbeddingDimension),
	)

	app.Rag = rag.NewService(rag.Deps{
		Documents:  documents,
		History:    app.History,
		Cache:      answerCache(ctx, settings, log),
		LLM:        provider,
		Embeddings: gateway,
		Chunker:    c,
	})
	return app, nil
}

func (a *App) Close() error {
	return a.Documents.Close()
}

func openDocumentStore(ctx context.Context, s *config.Settings, log *logger_i.Logger) (commonModels.DocumentStore, error) {
	if s.DatabaseURL != "" {
		pg, err := postgresStore.New(ctx, s.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("postgres document store: %w", err)
		}
		log.Info("Using postgres document store")
		return pg, nil
	}

	lite, err := sqliteStore.Open(s.DataDir, config.SQLiteFileName)
	if err != nil {
		log.Error("SQLite unavailable, documents will not survive a restart", "error", err)
		return store.InitInMemoryDocumentStore(), nil
	}
	log.Info("Using sqlite document store", "path", lite.Path())
	return lite, nil
}

func redisOptions(s *config.Settings) redisStore.Options {
	return redisStore.Options{Addr: s.RedisAddr, Password: s.RedisPassword}
}

func jobStore(ctx context.Context, s *config.Settings, log *logger_i.Logger) jobModel.JobStore {
	if jobs := store.GetRedisJobStore(ctx, redisOptions(s)); jobs != nil {
		return jobs
	}
	log.Warn("Redis job store is offline, using memory")
	return store.InitInMemoryJobStore()
}

func historyStore(ctx context.Context, s *config.Settings, log *logger_i.Logger) commonModels.HistoryStore {
	if history := store.GetRedisHistoryStore(ctx, redisOptions(s)); history != nil {
		return history
	}
	log.Warn("Redis history store is offline, using memory")
	return store.InitInMemoryHistoryStore()
}

func answerCache(ctx context.Context, s *config.Settings, log *logger_i.Logger) vectorDB.AnswerCache {
	if !s.AnswerCache {
		return nil
	}
	holder := qdrantDB.GetQdrantClient(ctx, qdrantDB.Options{
		Host:      s.QdrantHost,
		Port:      s.QdrantPort,
		APIKey:    s.QdrantAPIKey,
		Dimension: s.EmbeddingDimension,
	})
	if holder == nil {
		log.Warn("Qdrant is offline, answers will not be cached")
		return nil
	}
	return holder
}

// models returns the generation provider and embedder for the configured
// vendor. Either may be nil.
func models(ctx context.Context, s *config.Settings, log *logger_i.Logger) (llm.Provider, embedding.Embedder) {
	key := s.APIKey()
	if key == "" {
		log.Warn("No API key for provider, generation and embeddings are disabled", "provider", s.Provider)
		return nil, nil
	}

	var provider llm.Provider
	var embedder embedding.Embedder
	switch s.Provider {
	case config.ProviderOpenAI:
		provider = openaiLLM.NewOpenAIClient(key, s.GenerationModel)
		embedder = openaiEmbedding.NewOpenAIEmbedder(key, s.EmbeddingModel, s.EmbeddingDimension)
	default:
		provider = gemini.GetGeminiClient(ctx, s.GenerationModel, key)
		embedder = googleEmbedding.GetGoogleEmbeddingClient(ctx, s.EmbeddingModel, key, int32(s.EmbeddingDimension))
	}
	log.Debug("Available services", "provider", s.Provider, "LLM", provider != nil, "Embeddings", embedder != nil)
	return provider, embedder
}
