package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"HTTP_ADDR", "STORE_BACKEND", "AI_PROVIDER", "GENERATION_TEMPERATURE",
		"GENERATION_MAX_OUTPUT_TOKENS", "SPEECH_SETTLE_DELAY_MS", "RABBIT_URL", "WORKER_CONCURRENCY", "JWT_SECRET"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "sqlite", cfg.StoreBackend)
	assert.Equal(t, "offline", cfg.AIProvider)
	assert.Equal(t, float32(0.7), cfg.GenerationTemperature)
	assert.Equal(t, 1024, cfg.GenerationMaxTokens)
	assert.Equal(t, 400*time.Millisecond, cfg.SpeechSettleDelay)
	assert.Empty(t, cfg.RabbitURL)
	assert.Empty(t, cfg.JWTSecret)
	assert.Equal(t, 2, cfg.WorkerConcurrency)
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("AI_PROVIDER", "GEMINI")
	t.Setenv("GENERATION_TEMPERATURE", "0.2")
	t.Setenv("SPEECH_SETTLE_DELAY_MS", "250")
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("WORKER_CONCURRENCY", "500")

	cfg := Load()
	assert.Equal(t, "redis", cfg.StoreBackend)
	assert.Equal(t, "gemini", cfg.AIProvider)
	assert.Equal(t, float32(0.2), cfg.GenerationTemperature)
	assert.Equal(t, 250*time.Millisecond, cfg.SpeechSettleDelay)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 50, cfg.WorkerConcurrency)
}
