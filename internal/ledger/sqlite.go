package ledger

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists the ledger in a usage_daily table, one row per
// calendar day.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.Mutex
	closed bool
}

// NewSQLiteStore opens (or creates) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &SQLiteStore{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) createSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS usage_daily (
		date   TEXT PRIMARY KEY,
		tokens INTEGER NOT NULL DEFAULT 0,
		cost   REAL NOT NULL DEFAULT 0
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load reads every stored day into a map.
func (s *SQLiteStore) Load() (map[string]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`SELECT date, tokens, cost FROM usage_daily`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	data := make(map[string]Record)
	for rows.Next() {
		var date string
		var rec Record
		if err := rows.Scan(&date, &rec.Tokens, &rec.Cost); err != nil {
			return nil, err
		}
		data[date] = rec
	}
	return data, rows.Err()
}

// Save upserts every record in a single transaction. Daily records only
// grow, so rows never need deleting.
func (s *SQLiteStore) Save(data map[string]Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO usage_daily (date, tokens, cost)
		VALUES (?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			tokens = excluded.tokens,
			cost = excluded.cost
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for date, rec := range data {
		if _, err := stmt.Exec(date, rec.Tokens, rec.Cost); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
