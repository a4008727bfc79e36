package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Chat     ChatConfig
	Ingest   IngestConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	GoogleGemini string
	IngestTopic  string // Document ingestion topic
}

type AIConfig struct {
	EmbeddingProvider string // "gemini" or "ollama"
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string // "gemini" or "ollama"
	LLMModel          string // e.g. "gemini-2.5-flash", "llama3"
	VectorDim         int
}

type ChatConfig struct {
	SessionExpireHours   int
	HistoryTTLDays       int
	SummaryEveryN        int // History length that triggers compaction
	RewriteHistoryM      int // Turns fed to the query rewriter
	TopK                 int
	CacheTTLHours        int
	LLMTimeoutSeconds    int
	SearchTimeoutSeconds int
}

type IngestConfig struct {
	ChunkSize      int
	ChunkOverlap   int
	EmbedBatchSize int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379/0"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			IngestTopic:  getEnv("INGEST_DOCUMENT_TOPIC_NAME", "INGEST_DOCUMENT"),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:          getEnv("LLM_MODEL", "gemini-2.5-flash"),
			VectorDim:         getEnvAsInt("VECTOR_DIM", 768),
		},
		Chat: ChatConfig{
			SessionExpireHours:   getEnvAsInt("SESSION_EXPIRE_HOURS", 24),
			HistoryTTLDays:       getEnvAsInt("HISTORY_TTL_DAYS", 7),
			SummaryEveryN:        getEnvAsInt("SUMMARY_EVERY_N", 10),
			RewriteHistoryM:      getEnvAsInt("REWRITE_HISTORY_M", 3),
			TopK:                 getEnvAsInt("TOP_K", 3),
			CacheTTLHours:        getEnvAsInt("CACHE_TTL_HOURS", 24),
			LLMTimeoutSeconds:    getEnvAsInt("LLM_TIMEOUT_SECONDS", 60),
			SearchTimeoutSeconds: getEnvAsInt("SEARCH_TIMEOUT_SECONDS", 10),
		},
		Ingest: IngestConfig{
			ChunkSize:      getEnvAsInt("CHUNK_SIZE", 1500),
			ChunkOverlap:   getEnvAsInt("CHUNK_OVERLAP", 200),
			EmbedBatchSize: getEnvAsInt("EMBED_BATCH_SIZE", 64),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
