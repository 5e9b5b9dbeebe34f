package config

import (
	"log/slog"
	"time"
)

const (
	LOG_LEVEL_PROD              = slog.LevelInfo
	TRACE_ID_KEY                = "traceId"
	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5
	CacheSimilarityCutoff       = 0.97

	//chunking
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200

	//ask limits
	MaxQueryLength = 1000
	DefaultTopK    = 5
	MinTopK        = 1
	MaxTopK        = 20

	//model prompts only see the head of long contracts
	ExtractionTextLimit = 15000
	AuditTextLimit      = 16000
	UnparsedEvidenceMax = 2000

	//embedding gateway
	EmbeddingMaxAttempts                = 3
	EmbeddingInitialBackoff             = 1 * time.Second
	EmbeddingCallTimeout                = 20 * time.Second
	EmbeddingRequestsPerSecond          = 5
	EmbeddingBurst                      = 5
	EmbeddingOutputDimensionality int32 = 768

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute
	JobTimeout                      = 5 * time.Minute

	//serverTimeouts
	ReadTimeout            = 15 * time.Second
	WriteTimeout           = 30 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//uploads
	MaxUploadBytes  = 32 << 20
	UploadDirectory = "temporary_data"

	//vectorDB
	QdrantHost              = "localhost"
	QdrantGrpcPort          = 6334
	QdrantUseTLS            = false
	QdrantPoolSize          = 1 //2-5 is preferred for prod according to documentation
	AnswerCacheCollection   = "answer-cache"
	QdrantConnectionTimeout = 5 * time.Second

	//llm
	ProviderGemini       = "gemini"
	ProviderOpenAI       = "openai"
	GeminiModelName      = "gemini-2.0-flash"
	GoogleEmbeddingModel = "gemini-embedding-001"
	OpenAIModelName      = "gpt-4o-mini"
	OpenAIEmbeddingModel = "text-embedding-3-small"

	ModelTemperature float32 = 0.2
	GenerationTimeout        = 60 * time.Second

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	//redis has 16 DB we can use
	RedisJobStore     = 0
	RedisHistoryStore = 1

	//redis timeouts
	RedisJobStoreTTL     = 24 * time.Hour
	RedisHistoryStoreTTL = 7 * 24 * time.Hour
	HistoryWindow        = 5

	//documents
	DefaultDataDir      = "data"
	SQLiteFileName      = "contracts.db"
	PostgresMaxConns    = 10
	PostgresPingTimeout = 5 * time.Second
)
