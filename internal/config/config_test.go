// internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/majakthesecond-sys/USA-TANK-V4-5/internal/match"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("MATCH_WINDOW", "")
	t.Setenv("REDIS_ADDR", "")

	cfg := Load()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "public", cfg.StaticDir)
	assert.Equal(t, match.DefaultWindow, cfg.MatchWindow)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MATCH_WINDOW", "2s")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("HISTORY_QUEUE_NAME", "custom_queue")

	cfg := Load()
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 2*time.Second, cfg.MatchWindow)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, "custom_queue", cfg.HistoryQueue)
}

func TestBadDurationFallsBack(t *testing.T) {
	t.Setenv("MATCH_WINDOW", "soon")
	cfg := Load()
	assert.Equal(t, match.DefaultWindow, cfg.MatchWindow)
}

func TestLoadHistorian(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("HISTORIAN_BATCH_SIZE", "50")
	t.Setenv("HISTORIAN_FLUSH_DELAY", "")

	cfg := LoadHistorian()
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.FlushDelay)
}
