package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file structure.
type FileConfig struct {
	Storage          string   `toml:"storage"`
	LedgerPath       string   `toml:"ledger_path"`
	MaxTokens        *int     `toml:"max_tokens"`
	Encoding         string   `toml:"encoding"`
	APIBaseURL       string   `toml:"api_base_url"`
	Model            string   `toml:"model"`
	InputPerMillion  *float64 `toml:"input_cost_per_million"`
	OutputPerMillion *float64 `toml:"output_cost_per_million"`
	DailyLimit       *float64 `toml:"daily_limit"`
	MonthlyLimit     *float64 `toml:"monthly_limit"`
}

// LoadFile loads configuration from the TOML file.
// Returns an empty FileConfig if the file doesn't exist.
func LoadFile() (*FileConfig, error) {
	cfg := &FileConfig{}

	path := ConfigPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// EnsureConfigFile creates a default config file with commented examples
// if none exists.
func EnsureConfigFile() error {
	path := ConfigPath()

	// If config already exists, do nothing
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := EnsureDataDir(); err != nil {
		return err
	}

	defaultConfig := `# Contentlens Configuration
# storage = "json"              # "json" or "sqlite"
# ledger_path = ""              # override the default ledger location
# max_tokens = 3000             # document token budget
# encoding = "cl100k_base"      # tiktoken encoding for counting

# Remote generation API
# api_base_url = "https://api.openai.com/v1"
# model = "gpt-3.5-turbo-instruct"
# The API key is read from the CONTENTLENS_API_KEY or OPENAI_API_KEY env var.

# Pricing, per million tokens
# input_cost_per_million = 0.50
# output_cost_per_million = 1.50

# Spend limits
# daily_limit = 50.0
# monthly_limit = 200.0
`

	return os.WriteFile(path, []byte(defaultConfig), 0644)
}
