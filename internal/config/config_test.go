package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Environment != "development" {
		t.Errorf("expected development environment, got %q", cfg.Environment)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %q", cfg.Port)
	}
	if cfg.KeyPrefix != "preppal" {
		t.Errorf("expected key prefix preppal, got %q", cfg.KeyPrefix)
	}
	if cfg.Gemini.Model != "gemini-2.5-flash" {
		t.Errorf("unexpected default model: %q", cfg.Gemini.Model)
	}
	if cfg.Gemini.Temperature != 0.7 {
		t.Errorf("expected temperature 0.7, got %v", cfg.Gemini.Temperature)
	}
	if cfg.Gemini.Timeout != 60*time.Second {
		t.Errorf("expected 60s timeout, got %v", cfg.Gemini.Timeout)
	}
	if len(cfg.KafkaBrokers) != 0 {
		t.Errorf("expected no brokers by default, got %v", cfg.KafkaBrokers)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("GEMINI_TIMEOUT", "15s")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092 ,")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Port != "9999" {
		t.Errorf("expected port override, got %q", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", cfg.LogLevel)
	}
	if cfg.Gemini.Timeout != 15*time.Second {
		t.Errorf("expected 15s timeout, got %v", cfg.Gemini.Timeout)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[0] != "kafka-1:9092" || cfg.KafkaBrokers[1] != "kafka-2:9092" {
		t.Errorf("broker list not parsed: %v", cfg.KafkaBrokers)
	}
}

func TestLoadConfig_ProductionRequiresAPIKey(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("GEMINI_API_KEY", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected an error when the api key is missing in production")
	}

	t.Setenv("GEMINI_API_KEY", "k")
	if _, err := LoadConfig(); err != nil {
		t.Fatalf("LoadConfig failed with an api key set: %v", err)
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"unknown": slog.LevelInfo,
	}
	for input, want := range cases {
		if got := parseLogLevel(input); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", input, got, want)
		}
	}
}
