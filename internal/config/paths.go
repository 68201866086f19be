package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// DataDir returns the path to the contentlens data directory.
// - Windows: %APPDATA%\contentlens
// - Other OS: ~/.contentlens
func DataDir() string {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "contentlens")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".contentlens"
	}
	return filepath.Join(home, ".contentlens")
}

// LedgerPath returns the path to the JSON usage ledger.
func LedgerPath() string {
	return filepath.Join(DataDir(), "usage_data.json")
}

// DBPath returns the path to the SQLite ledger database.
func DBPath() string {
	return filepath.Join(DataDir(), "contentlens.db")
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.toml")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0700)
}
