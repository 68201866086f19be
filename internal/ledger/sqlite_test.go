package ledger

import (
	"path/filepath"
	"testing"
)

func setupSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStoreEmptyLoad(t *testing.T) {
	s := setupSQLiteStore(t)

	data, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("Load() = %v, want empty map", data)
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	s := setupSQLiteStore(t)

	want := map[string]Record{
		"2026-09-01": {Tokens: 1500, Cost: 0.003},
		"2026-08-20": {Tokens: 2_000_000, Cost: 3.5},
	}
	if err := s.Save(want); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("Load() returned %d records, want %d", len(got), len(want))
	}
	for date, rec := range want {
		if got[date] != rec {
			t.Errorf("record %s = %+v, want %+v", date, got[date], rec)
		}
	}
}

func TestSQLiteStoreUpsert(t *testing.T) {
	s := setupSQLiteStore(t)

	if err := s.Save(map[string]Record{"2026-09-01": {Tokens: 10, Cost: 0.1}}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := s.Save(map[string]Record{"2026-09-01": {Tokens: 30, Cost: 0.3}}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if rec := got["2026-09-01"]; rec.Tokens != 30 || !approxEqual(rec.Cost, 0.3) {
		t.Errorf("record = %+v, want the latest snapshot", rec)
	}
}

func TestSQLiteStoreClosed(t *testing.T) {
	s := setupSQLiteStore(t)
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	if _, err := s.Load(); err != ErrStoreClosed {
		t.Errorf("Load() after close = %v, want ErrStoreClosed", err)
	}
	if err := s.Save(nil); err != ErrStoreClosed {
		t.Errorf("Save() after close = %v, want ErrStoreClosed", err)
	}
}

func TestLedgerOverSQLite(t *testing.T) {
	s := setupSQLiteStore(t)

	l := newTestLedger(t, s)
	if err := l.RecordUsage(1_000_000, 1_000_000); err != nil {
		t.Fatalf("RecordUsage() error: %v", err)
	}

	reloaded := newTestLedger(t, s)
	daily := reloaded.DailyUsage()
	if daily.Tokens != 2_000_000 || !approxEqual(daily.Cost, 2.0) {
		t.Errorf("reloaded daily = %+v, want 2000000 tokens, $2.00", daily)
	}
}
