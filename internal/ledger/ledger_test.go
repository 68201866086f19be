package ledger

import (
	"errors"
	"math"
	"testing"
	"time"
)

var testPricing = Pricing{
	InputPerMillion:  0.50,
	OutputPerMillion: 1.50,
	DailyLimit:       50.0,
	MonthlyLimit:     200.0,
}

func newTestLedger(t *testing.T, store Store) *Ledger {
	t.Helper()

	l, err := New(store, testPricing)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	l.now = func() time.Time {
		return time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local)
	}
	return l
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRecordUsageAccumulates(t *testing.T) {
	l := newTestLedger(t, NewMemStore())

	if err := l.RecordUsage(1_000_000, 0); err != nil {
		t.Fatalf("RecordUsage() error: %v", err)
	}
	daily := l.DailyUsage()
	if daily.Tokens != 1_000_000 || !approxEqual(daily.Cost, 0.50) {
		t.Errorf("daily = %+v, want 1000000 tokens, $0.50", daily)
	}

	// Repeated calls the same day add up.
	if err := l.RecordUsage(500_000, 1_000_000); err != nil {
		t.Fatalf("RecordUsage() error: %v", err)
	}
	daily = l.DailyUsage()
	if daily.Tokens != 2_500_000 {
		t.Errorf("Tokens = %d, want 2500000", daily.Tokens)
	}
	// 0.50 + (0.5*0.50 + 1.0*1.50)
	if !approxEqual(daily.Cost, 2.25) {
		t.Errorf("Cost = %f, want 2.25", daily.Cost)
	}
}

func TestRecordUsageRejectsNegative(t *testing.T) {
	l := newTestLedger(t, NewMemStore())

	for _, tc := range [][2]int{{-1, 0}, {0, -1}} {
		if err := l.RecordUsage(tc[0], tc[1]); !errors.Is(err, ErrNegativeTokens) {
			t.Errorf("RecordUsage(%d, %d) = %v, want ErrNegativeTokens", tc[0], tc[1], err)
		}
	}

	// Zero is valid, not an error.
	if err := l.RecordUsage(0, 0); err != nil {
		t.Errorf("RecordUsage(0, 0) = %v, want nil", err)
	}
}

func TestDailyUsageEmptyDay(t *testing.T) {
	l := newTestLedger(t, NewMemStore())

	daily := l.DailyUsage()
	if daily.Tokens != 0 || daily.Cost != 0 {
		t.Errorf("empty day = %+v, want zero record", daily)
	}
}

func TestMonthlyUsageSumsCurrentMonthOnly(t *testing.T) {
	store := NewMemStore()
	store.Save(map[string]Record{
		"2026-09-01": {Tokens: 100, Cost: 1.0},
		"2026-09-15": {Tokens: 200, Cost: 2.0},
		"2026-08-31": {Tokens: 999, Cost: 99.0}, // previous month
		"2025-09-01": {Tokens: 999, Cost: 99.0}, // previous year
	})

	l := newTestLedger(t, store)
	monthly := l.MonthlyUsage()
	if monthly.Tokens != 300 || !approxEqual(monthly.Cost, 3.0) {
		t.Errorf("monthly = %+v, want 300 tokens, $3.00", monthly)
	}
}

func TestLedgerSurvivesReload(t *testing.T) {
	store := NewMemStore()

	l := newTestLedger(t, store)
	if err := l.RecordUsage(2_000_000, 1_000_000); err != nil {
		t.Fatalf("RecordUsage() error: %v", err)
	}

	// A fresh ledger over the same store sees the history.
	reloaded := newTestLedger(t, store)
	daily := reloaded.DailyUsage()
	if daily.Tokens != 3_000_000 || !approxEqual(daily.Cost, 2.50) {
		t.Errorf("reloaded daily = %+v, want 3000000 tokens, $2.50", daily)
	}
}

// failingStore fails every save.
type failingStore struct {
	MemStore
}

func (f *failingStore) Save(map[string]Record) error {
	return errors.New("disk full")
}

func TestFailedSaveRollsBack(t *testing.T) {
	fs := &failingStore{}
	fs.data = make(map[string]Record)

	l := newTestLedger(t, fs)
	if err := l.RecordUsage(1_000_000, 0); err == nil {
		t.Fatal("RecordUsage() with failing store returned nil")
	}

	// The failed addition must not linger in memory as phantom spend.
	if daily := l.DailyUsage(); daily.Tokens != 0 || daily.Cost != 0 {
		t.Errorf("daily after failed save = %+v, want zero record", daily)
	}
}
