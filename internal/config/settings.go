package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Settings holds everything that can change between deployments.
// Constructors receive it (or parts of it) explicitly.
type Settings struct {
	IsProd     bool   `yaml:"is_prod" toml:"is_prod"`
	ListenAddr string `yaml:"listen_addr" toml:"listen_addr"`

	AuthToken    string `yaml:"auth_token" toml:"auth_token"`
	NoAuthBypass bool   `yaml:"no_auth_bypass" toml:"no_auth_bypass"`

	UploadDir      string `yaml:"upload_dir" toml:"upload_dir"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes" toml:"max_upload_bytes"`

	DatabaseURL string `yaml:"database_url" toml:"database_url"`
	DataDir     string `yaml:"data_dir" toml:"data_dir"`

	RedisAddr     string `yaml:"redis_addr" toml:"redis_addr"`
	RedisPassword string `yaml:"redis_password" toml:"redis_password"`

	QdrantHost   string `yaml:"qdrant_host" toml:"qdrant_host"`
	QdrantPort   int    `yaml:"qdrant_port" toml:"qdrant_port"`
	QdrantAPIKey string `yaml:"qdrant_api_key" toml:"qdrant_api_key"`
	AnswerCache  bool   `yaml:"answer_cache" toml:"answer_cache"`

	Provider           string `yaml:"provider" toml:"provider"`
	GoogleAPIKey       string `yaml:"google_api_key" toml:"google_api_key"`
	OpenAIAPIKey       string `yaml:"openai_api_key" toml:"openai_api_key"`
	GenerationModel    string `yaml:"generation_model" toml:"generation_model"`
	EmbeddingModel     string `yaml:"embedding_model" toml:"embedding_model"`
	EmbeddingDimension int    `yaml:"embedding_dimension" toml:"embedding_dimension"`

	ChunkSize    int `yaml:"chunk_size" toml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap" toml:"chunk_overlap"`
}

func Defaults() *Settings {
	return &Settings{
		ListenAddr:         ServerListenAddr,
		UploadDir:          UploadDirectory,
		MaxUploadBytes:     MaxUploadBytes,
		DataDir:            DefaultDataDir,
		RedisAddr:          RedisAddr,
		QdrantHost:         QdrantHost,
		QdrantPort:         QdrantGrpcPort,
		AnswerCache:        true,
		Provider:           ProviderGemini,
		EmbeddingDimension: int(EmbeddingOutputDimensionality),
		ChunkSize:          DefaultChunkSize,
		ChunkOverlap:       DefaultChunkOverlap,
	}
}

// Load builds Settings from defaults, then the optional file at path
// (.yaml, .yml or .toml), then environment variables. A .env file in the
// working directory is loaded into the environment first when present.
func Load(path string) (*Settings, error) {
	_ = godotenv.Load()

	s := Defaults()
	if path != "" {
		if err := s.mergeFile(path); err != nil {
			return nil, err
		}
	}
	s.mergeEnv()
	s.applyModelDefaults()

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, s)
	case ".toml":
		err = toml.Unmarshal(data, s)
	default:
		return fmt.Errorf("unsupported config file type %q", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (s *Settings) mergeEnv() {
	setString(&s.ListenAddr, "LISTEN_ADDR")
	setString(&s.AuthToken, "AUTH_TOKEN")
	setString(&s.UploadDir, "UPLOAD_DIR")
	setString(&s.DatabaseURL, "DATABASE_URL")
	setString(&s.DataDir, "DATA_DIR")
	setString(&s.RedisAddr, "REDIS_ADDR")
	setString(&s.RedisPassword, "REDIS_PASSWORD")
	setString(&s.QdrantHost, "QDRANT_HOST")
	setString(&s.QdrantAPIKey, "QDRANT_API_KEY")
	setString(&s.Provider, "LLM_PROVIDER")
	setString(&s.GoogleAPIKey, "GEMINI_API_KEY")
	setString(&s.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&s.GenerationModel, "GENERATION_MODEL")
	setString(&s.EmbeddingModel, "EMBEDDING_MODEL")

	setBool(&s.IsProd, "IS_PROD")
	setBool(&s.NoAuthBypass, "NO_AUTH_BYPASS")
	setBool(&s.AnswerCache, "ANSWER_CACHE")

	setInt(&s.QdrantPort, "QDRANT_PORT")
	setInt(&s.EmbeddingDimension, "EMBEDDING_DIMENSION")
	setInt(&s.ChunkSize, "CHUNK_SIZE")
	setInt(&s.ChunkOverlap, "CHUNK_OVERLAP")

	if v, err := strconv.ParseInt(os.Getenv("MAX_UPLOAD_BYTES"), 10, 64); err == nil {
		s.MaxUploadBytes = v
	}
}

func (s *Settings) applyModelDefaults() {
	s.Provider = strings.ToLower(s.Provider)
	switch s.Provider {
	case ProviderOpenAI:
		if s.GenerationModel == "" {
			s.GenerationModel = OpenAIModelName
		}
		if s.EmbeddingModel == "" {
			s.EmbeddingModel = OpenAIEmbeddingModel
		}
	default:
		if s.GenerationModel == "" {
			s.GenerationModel = GeminiModelName
		}
		if s.EmbeddingModel == "" {
			s.EmbeddingModel = GoogleEmbeddingModel
		}
	}
}

func (s *Settings) Validate() error {
	if s.Provider != ProviderGemini && s.Provider != ProviderOpenAI {
		return fmt.Errorf("unknown llm provider %q", s.Provider)
	}
	if s.ChunkOverlap <= 0 || s.ChunkOverlap >= s.ChunkSize {
		return fmt.Errorf("chunk overlap must be in (0, %d), got %d", s.ChunkSize, s.ChunkOverlap)
	}
	if s.EmbeddingDimension <= 0 {
		return errors.New("embedding dimension must be positive")
	}
	if s.MaxUploadBytes <= 0 {
		return errors.New("max upload bytes must be positive")
	}
	return nil
}

// APIKey returns the key for the selected provider.
func (s *Settings) APIKey() string {
	if s.Provider == ProviderOpenAI {
		return s.OpenAIAPIKey
	}
	return s.GoogleAPIKey
}

func setString(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func setBool(target *bool, key string) {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		*target = v
	}
}

func setInt(target *int, key string) {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		*target = v
	}
}
