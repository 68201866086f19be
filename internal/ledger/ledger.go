package ledger

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Common errors returned by ledger operations.
var (
	ErrNegativeTokens = errors.New("negative token count")
	ErrStoreClosed    = errors.New("store is closed")
)

const (
	dayFormat   = "2006-01-02"
	monthFormat = "2006-01"
)

// Ledger is the sole owner of the persisted usage history. All access to
// the underlying store goes through its mutex, so a check-then-record
// pair issued through Gate.Reserve is a single critical section.
type Ledger struct {
	mu      sync.Mutex
	data    map[string]Record
	store   Store
	pricing Pricing

	// now is the clock; overridable in tests.
	now func() time.Time
}

// New loads the persisted history from store and returns a ready Ledger.
// A missing or corrupt store starts empty rather than failing.
func New(store Store, pricing Pricing) (*Ledger, error) {
	data, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	if data == nil {
		data = make(map[string]Record)
	}
	return &Ledger{
		data:    data,
		store:   store,
		pricing: pricing,
		now:     time.Now,
	}, nil
}

// Pricing returns the ledger's billing configuration.
func (l *Ledger) Pricing() Pricing {
	return l.pricing
}

// RecordUsage adds a request's actual billed tokens to today's record and
// persists the ledger. A failed save rolls the in-memory addition back
// and propagates the error; it must not read as success.
func (l *Ledger) RecordUsage(inputTokens, outputTokens int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.recordLocked(inputTokens, outputTokens)
}

// recordLocked does the work of RecordUsage; the caller holds l.mu.
func (l *Ledger) recordLocked(inputTokens, outputTokens int) error {
	if inputTokens < 0 || outputTokens < 0 {
		return ErrNegativeTokens
	}

	today := l.now().Format(dayFormat)
	prev, existed := l.data[today]

	rec := prev
	rec.Tokens += inputTokens + outputTokens
	rec.Cost += l.pricing.Cost(inputTokens, outputTokens)
	l.data[today] = rec

	if err := l.store.Save(l.data); err != nil {
		if existed {
			l.data[today] = prev
		} else {
			delete(l.data, today)
		}
		return fmt.Errorf("save ledger: %w", err)
	}
	return nil
}

// DailyUsage returns today's record, or a zero record if nothing has been
// recorded yet. "Today" is the local calendar date at call time.
func (l *Ledger) DailyUsage() Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dailyLocked()
}

func (l *Ledger) dailyLocked() Record {
	return l.data[l.now().Format(dayFormat)]
}

// MonthlyUsage sums every stored record whose date falls in the current
// calendar month.
func (l *Ledger) MonthlyUsage() Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.monthlyLocked()
}

func (l *Ledger) monthlyLocked() Record {
	month := l.now().Format(monthFormat)

	var total Record
	for date, rec := range l.data {
		if strings.HasPrefix(date, month) {
			total.Tokens += rec.Tokens
			total.Cost += rec.Cost
		}
	}
	return total
}
