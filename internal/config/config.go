package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr  string
	JWTSecret string // empty disables the API guard

	// session persistence
	StoreBackend   string // sqlite | mysql | redis | memory
	SQLitePath     string
	DBDSN          string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	SessionSlotKey string

	// AI provider
	AIProvider            string // gemini | openai | ollama | openrouter | offline
	GeminiAPIKey          string
	GeminiModel           string
	OpenAIAPIKey          string
	OpenAIModel           string
	OllamaBaseURL         string
	OllamaModel           string
	OpenRouterBaseURL     string
	OpenRouterAPIKey      string
	OpenRouterModel       string
	OpenRouterSiteURL     string
	OpenRouterAppName     string
	GenerationTemperature float32
	GenerationMaxTokens   int

	// chat + speech
	DefaultLanguage   string
	GreetingName      string
	SpeechSettleDelay time.Duration
	SpeechMaxChars    int

	// rabbitMQ; empty URL disables risk-event publishing
	RabbitURL         string
	RabbitQueue       string
	WorkerConcurrency int
}

// Load reads the environment, after an optional .env file in the working
// directory.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: .env not loaded: %v", err)
	}

	// DSN demo：
	// app:apppass@tcp(127.0.0.1:3306)/health_triage?charset=utf8mb4&parseTime=true&loc=Local
	return Config{
		HTTPAddr:  getenv("HTTP_ADDR", ":8080"),
		JWTSecret: os.Getenv("JWT_SECRET"),

		StoreBackend:   strings.ToLower(getenv("STORE_BACKEND", "sqlite")),
		SQLitePath:     getenv("SQLITE_PATH", "health_triage.db"),
		DBDSN:          getenv("DB_DSN", "app:apppass@tcp(127.0.0.1:3306)/health_triage?charset=utf8mb4&parseTime=true&loc=Local"),
		RedisAddr:      getenv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        getint("REDIS_DB", 0),
		SessionSlotKey: getenv("SESSION_SLOT_KEY", "health_triage:sessions"),

		AIProvider:            strings.ToLower(getenv("AI_PROVIDER", "offline")),
		GeminiAPIKey:          os.Getenv("GEMINI_API_KEY"),
		GeminiModel:           getenv("GEMINI_MODEL", "gemini-2.0-flash"),
		OpenAIAPIKey:          os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:           getenv("OPENAI_MODEL", "gpt-4o-mini"),
		OllamaBaseURL:         getenv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:           getenv("OLLAMA_MODEL", "llama3:latest"),
		OpenRouterBaseURL:     getenv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		OpenRouterAPIKey:      os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterModel:       getenv("OPENROUTER_MODEL", "openrouter/auto"),
		OpenRouterSiteURL:     os.Getenv("OPENROUTER_SITE_URL"),
		OpenRouterAppName:     os.Getenv("OPENROUTER_APP_NAME"),
		GenerationTemperature: getfloat32("GENERATION_TEMPERATURE", 0.7),
		GenerationMaxTokens:   getint("GENERATION_MAX_OUTPUT_TOKENS", 1024),

		DefaultLanguage:   getenv("DEFAULT_LANGUAGE", "English"),
		GreetingName:      os.Getenv("GREETING_NAME"),
		SpeechSettleDelay: time.Duration(getint("SPEECH_SETTLE_DELAY_MS", 400)) * time.Millisecond,
		SpeechMaxChars:    getint("SPEECH_MAX_CHARS", 500),

		RabbitURL:         os.Getenv("RABBIT_URL"),
		RabbitQueue:       getenv("RABBIT_QUEUE", "risk_events"),
		WorkerConcurrency: clamp(getint("WORKER_CONCURRENCY", 2), 1, 50),
	}
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

func getfloat32(key string, def float32) float32 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 32); err == nil {
			return float32(f)
		}
	}
	return def
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
