// Package config loads application configuration from environment and file.
package config

import (
	"os"
	"strconv"
)

// Storage backend names.
const (
	StorageJSON   = "json"
	StorageSQLite = "sqlite"
)

// Config holds application configuration loaded from environment and file.
// Priority: Env vars → config.toml → defaults
type Config struct {
	// Storage selects the ledger backend ("json" or "sqlite").
	Storage string

	// LedgerPath is the JSON ledger file location.
	LedgerPath string

	// MaxTokens is the document token budget after normalization.
	MaxTokens int

	// Encoding is the tiktoken encoding used for counting.
	Encoding string

	// APIBaseURL and Model identify the remote generation API.
	APIBaseURL string
	Model      string

	// APIKey authenticates against the remote API.
	APIKey string

	// Pricing rates per million tokens and spend limits.
	InputPerMillion  float64
	OutputPerMillion float64
	DailyLimit       float64
	MonthlyLimit     float64
}

// Load reads configuration from file and environment variables.
// Environment variables override file config values.
func Load() *Config {
	fileConfig, _ := LoadFile() // Ignore error, use defaults

	apiKey := os.Getenv("CONTENTLENS_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	return &Config{
		Storage:          getEnvOrFile("CONTENTLENS_STORAGE", fileConfig.Storage, StorageJSON),
		LedgerPath:       getEnvOrFile("CONTENTLENS_LEDGER_PATH", fileConfig.LedgerPath, LedgerPath()),
		MaxTokens:        getEnvIntOrFile("CONTENTLENS_MAX_TOKENS", fileConfig.MaxTokens, 3000),
		Encoding:         getEnvOrFile("CONTENTLENS_ENCODING", fileConfig.Encoding, "cl100k_base"),
		APIBaseURL:       getEnvOrFile("CONTENTLENS_API_BASE_URL", fileConfig.APIBaseURL, "https://api.openai.com/v1"),
		Model:            getEnvOrFile("CONTENTLENS_MODEL", fileConfig.Model, "gpt-3.5-turbo-instruct"),
		APIKey:           apiKey,
		InputPerMillion:  getEnvFloatOrFile("CONTENTLENS_INPUT_COST", fileConfig.InputPerMillion, 0.50),
		OutputPerMillion: getEnvFloatOrFile("CONTENTLENS_OUTPUT_COST", fileConfig.OutputPerMillion, 1.50),
		DailyLimit:       getEnvFloatOrFile("CONTENTLENS_DAILY_LIMIT", fileConfig.DailyLimit, 50.0),
		MonthlyLimit:     getEnvFloatOrFile("CONTENTLENS_MONTHLY_LIMIT", fileConfig.MonthlyLimit, 200.0),
	}
}

// getEnvOrFile returns env value, file value, or default (in priority order)
func getEnvOrFile(key, fileValue, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if fileValue != "" {
		return fileValue
	}
	return defaultValue
}

// getEnvIntOrFile returns env int, file int, or default (in priority order)
func getEnvIntOrFile(key string, fileValue *int, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	if fileValue != nil {
		return *fileValue
	}
	return defaultValue
}

// getEnvFloatOrFile returns env float, file float, or default (in priority order)
func getEnvFloatOrFile(key string, fileValue *float64, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	if fileValue != nil {
		return *fileValue
	}
	return defaultValue
}
