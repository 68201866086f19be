// Package ledger tracks token spend against daily and monthly limits.
package ledger

import "sync"

// Record holds cumulative usage for one calendar day. Both fields only
// ever grow within a day.
type Record struct {
	Tokens int     `json:"tokens"`
	Cost   float64 `json:"cost"`
}

// Store persists the full day-keyed usage map. Keys are ISO dates,
// YYYY-MM-DD.
type Store interface {
	// Load reads the persisted ledger. A missing or unreadable store
	// loads as empty; corrupt history is not fatal.
	Load() (map[string]Record, error)

	// Save persists the full ledger. A partial write must never leave
	// the store unparsable.
	Save(data map[string]Record) error
}

// MemStore is an in-memory Store for tests and ephemeral runs.
type MemStore struct {
	mu   sync.Mutex
	data map[string]Record
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string]Record)}
}

// Load returns a copy of the stored map.
func (m *MemStore) Load() (map[string]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]Record, len(m.data))
	for k, v := range m.data {
		out[k] = v
	}
	return out, nil
}

// Save replaces the stored map with a copy of data.
func (m *MemStore) Save(data map[string]Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = make(map[string]Record, len(data))
	for k, v := range data {
		m.data[k] = v
	}
	return nil
}
