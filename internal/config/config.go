package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration, loaded from the environment with an
// optional .env file for local development.
type Config struct {
	Environment string
	Port        string
	LogLevel    slog.Level

	// Persistence (key-value blob store)
	RedisURL      string
	KeyPrefix     string
	RedisDB       int
	RedisPassword string

	// Coaching model
	Gemini GeminiConfig

	// Event publishing; empty brokers means the in-process pub/sub.
	KafkaBrokers []string
	EventTopic   string
}

type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

func LoadConfig() (*Config, error) {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg := &Config{
		Environment:   getEnv("ENVIRONMENT", "development"),
		Port:          getEnv("PORT", "8080"),
		LogLevel:      parseLogLevel(getEnv("LOG_LEVEL", "info")),
		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		KeyPrefix:     getEnv("STORE_KEY_PREFIX", "preppal"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		Gemini: GeminiConfig{
			APIKey:      getEnv("GEMINI_API_KEY", ""),
			Model:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			Temperature: 0.7,
			Timeout:     getEnvDuration("GEMINI_TIMEOUT", 60*time.Second),
		},
		EventTopic: getEnv("EVENT_TOPIC", "coaching.events"),
	}

	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	if cfg.Gemini.APIKey == "" && cfg.Environment == "production" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required in production")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
