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
	Ai       AIConfig
	Workshop WorkshopConfig
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

type AIConfig struct {
	LLMProvider   string // "ollama" or "huggingface"
	LLMModel      string // e.g. "llama3", "qwen2.5"
	LLMApiKey     string
	OllamaBaseURL string
}

type WorkshopConfig struct {
	ChannelName string
	// SessionTTLHours bounds how long an untouched session stays resumable.
	SessionTTLHours int
	// ReviewJoinTimeoutSec settles an incomplete review round after this
	// many seconds; 0 waits indefinitely.
	ReviewJoinTimeoutSec int
	SuggestionCap        int
	// ReviewStateStore selects where in-flight review rounds live:
	// "memory" or "redis".
	ReviewStateStore string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:      getEnv("LLM_MODEL", "llama3"),
			LLMApiKey:     getEnv("LLM_API_KEY", ""),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		},
		Workshop: WorkshopConfig{
			ChannelName:          getEnv("WORKSHOP_CHANNEL_NAME", "creation-workshop"),
			SessionTTLHours:      getEnvAsInt("SESSION_TTL_HOURS", 2),
			ReviewJoinTimeoutSec: getEnvAsInt("REVIEW_JOIN_TIMEOUT_SEC", 0),
			SuggestionCap:        getEnvAsInt("REVIEW_SUGGESTION_CAP", 5),
			ReviewStateStore:     getEnv("REVIEW_STATE_STORE", "memory"),
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
