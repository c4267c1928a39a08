package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Keys      APIKeys
	Ai        AIConfig
	Retrieval RetrievalConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	UserID             string // fixed identity, no per-request resolution
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	GoogleGemini string
	Perplexity   string
	EmbedTopic   string // document-chunk embedding topic
}

type AIConfig struct {
	EmbeddingProvider string // "gemini" or "ollama"
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string // "gemini" or "ollama"
	LLMModel          string
}

type RetrievalConfig struct {
	ArxivBaseURL     string
	ArxivMaxResults  int
	DocumentLimit    int
	WebTimeoutSecs   int
	CacheTTLSecs     int
	ChunkSize        int
	ChunkOverlap     int
	HistoryLimit     int
	MaxUploadSizeMB  int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:8501"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			UserID:             getEnv("USER_ID", "default_user"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_API_KEY", ""),
			Perplexity:   getEnv("PERPLEXITY_API_KEY", ""),
			EmbedTopic:   getEnv("EMBED_DOCUMENT_TOPIC_NAME", "EMBED_DOCUMENT_CHUNKS"),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:          getEnv("LLM_MODEL", "gemini-2.0-flash-exp"),
		},
		Retrieval: RetrievalConfig{
			ArxivBaseURL:    getEnv("ARXIV_BASE_URL", "http://export.arxiv.org/api/query"),
			ArxivMaxResults: getEnvAsInt("ARXIV_MAX_RESULTS", 5),
			DocumentLimit:   getEnvAsInt("DOCUMENT_SEARCH_LIMIT", 5),
			WebTimeoutSecs:  getEnvAsInt("WEB_SEARCH_TIMEOUT_SECONDS", 30),
			CacheTTLSecs:    getEnvAsInt("RETRIEVAL_CACHE_TTL_SECONDS", 300),
			ChunkSize:       getEnvAsInt("CHUNK_SIZE", 1000),
			ChunkOverlap:    getEnvAsInt("CHUNK_OVERLAP", 200),
			HistoryLimit:    getEnvAsInt("CONVERSATION_HISTORY_LIMIT", 10),
			MaxUploadSizeMB: getEnvAsInt("MAX_UPLOAD_SIZE_MB", 10),
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
