package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileStore persists the ledger as a single JSON object mapping ISO dates
// to records. The format is forward-compatible: unknown top-level keys
// are ignored on read.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the JSON file at path. The file
// is created on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the ledger file. A missing or unparsable file yields an
// empty ledger, and top-level keys that are not day records are skipped,
// so a future writer's extra fields never destroy the valid history.
func (f *FileStore) Load() (map[string]Record, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return make(map[string]Record), nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return make(map[string]Record), nil
	}

	ledger := make(map[string]Record, len(raw))
	for key, value := range raw {
		if !isDayKey(key) {
			continue
		}
		var rec Record
		if err := json.Unmarshal(value, &rec); err != nil {
			continue
		}
		ledger[key] = rec
	}
	return ledger, nil
}

// isDayKey reports whether key is an ISO date of the form YYYY-MM-DD.
func isDayKey(key string) bool {
	_, err := time.Parse(dayFormat, key)
	return err == nil
}

// Save writes the full ledger atomically: the JSON is written to a temp
// file in the same directory and renamed over the target, so a reader
// never observes a half-written file.
func (f *FileStore) Save(data map[string]Record) error {
	encoded, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create ledger dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".usage-*.json")
	if err != nil {
		return fmt.Errorf("create temp ledger: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(encoded); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close ledger: %w", err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace ledger: %w", err)
	}
	return nil
}
