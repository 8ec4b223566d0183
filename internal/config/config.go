package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Search   SearchConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JwtSecret          string
	EmbedJobTopic      string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	EmbeddingProvider string // "gemini", "ollama" or "jina"
	GeminiApiKey      string
	JinaApiKey        string
	OllamaBaseURL     string
	OllamaEmbedModel  string
	LLMProvider       string // "ollama" or "huggingface"
	LLMModel          string // e.g. "llama3.1:8b"
	LLMBaseURL        string
	LLMApiKey         string
}

type SearchConfig struct {
	MinRelevant       int
	MinRelevanceScore int
	MaxIterations     int
	TopK              int
	MaxPerUser        int
	MmrLambda         float64
	RelevanceCacheTTL time.Duration
	ChunkSize         int
	ChunkOverlap      int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JwtSecret:          getEnv("JWT_SECRET", ""),
			EmbedJobTopic:      getEnv("EMBED_MESSAGE_TOPIC_NAME", "EMBED_MESSAGE"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			GeminiApiKey:      getEnv("GOOGLE_GEMINI_API_KEY", ""),
			JinaApiKey:        getEnv("JINA_API_KEY", ""),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaEmbedModel:  getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3.1:8b"),
			LLMBaseURL:        getEnv("LLM_BASE_URL", ""),
			LLMApiKey:         getEnv("LLM_API_KEY", ""),
		},
		Search: SearchConfig{
			MinRelevant:       getEnvAsInt("SEARCH_MIN_RELEVANT", 3),
			MinRelevanceScore: getEnvAsInt("SEARCH_MIN_RELEVANCE_SCORE", 5),
			MaxIterations:     getEnvAsInt("SEARCH_MAX_ITERATIONS", 3),
			TopK:              getEnvAsInt("SEARCH_TOP_K", 10),
			MaxPerUser:        getEnvAsInt("SEARCH_MAX_PER_USER", 2),
			MmrLambda:         getEnvAsFloat("SEARCH_MMR_LAMBDA", 0.7),
			RelevanceCacheTTL: time.Duration(getEnvAsInt("RELEVANCE_CACHE_TTL_HOURS", 24)) * time.Hour,
			ChunkSize:         getEnvAsInt("MESSAGE_CHUNK_SIZE", 1000),
			ChunkOverlap:      getEnvAsInt("MESSAGE_CHUNK_OVERLAP", 100),
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

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
