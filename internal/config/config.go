// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/majakthesecond-sys/USA-TANK-V4-5/internal/history"
	"github.com/majakthesecond-sys/USA-TANK-V4-5/internal/match"
)

// Config carries the service settings, all sourced from environment
// variables (a .env file is loaded by the mains via godotenv/autoload).
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string
	// StaticDir is the directory served at the site root.
	StaticDir string
	// MatchWindow is the FreeForAll deferred start window.
	MatchWindow time.Duration
	// RedisAddr enables the match history queue when non-empty.
	RedisAddr string
	// HistoryQueue is the Redis list name for match records.
	HistoryQueue string
}

// Load reads the environment and fills in defaults.
func Load() Config {
	return Config{
		Addr:         ":" + getEnv("PORT", "8080"),
		StaticDir:    getEnv("STATIC_DIR", "public"),
		MatchWindow:  getEnvDuration("MATCH_WINDOW", match.DefaultWindow),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		HistoryQueue: getEnv("HISTORY_QUEUE_NAME", history.DefaultQueueName),
	}
}

// HistorianConfig carries the settings for the match-history consumer.
type HistorianConfig struct {
	RedisAddr  string
	Queue      string
	BatchSize  int
	FlushDelay time.Duration
}

// LoadHistorian reads the historian's environment and fills in defaults.
func LoadHistorian() HistorianConfig {
	return HistorianConfig{
		RedisAddr:  getEnv("REDIS_ADDR", "localhost:6379"),
		Queue:      getEnv("HISTORY_QUEUE_NAME", history.DefaultQueueName),
		BatchSize:  getEnvInt("HISTORIAN_BATCH_SIZE", 20),
		FlushDelay: getEnvDuration("HISTORIAN_FLUSH_DELAY", 500*time.Millisecond),
	}
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt parses an environment variable as an integer, else a default.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// getEnvDuration parses an environment variable as a duration, else a default.
func getEnvDuration(key string, def time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
