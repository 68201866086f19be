package ledger

import "testing"

func TestCanAffordDailyBound(t *testing.T) {
	tests := []struct {
		name         string
		inputTokens  int
		outputTokens int
		allowed      bool
		reason       Reason
	}{
		// $50 daily limit, $0.50 per million input tokens.
		{"small request", 1_000_000, 0, true, ReasonOK},
		{"exactly the limit", 100_000_000, 0, true, ReasonOK}, // $50.00, not > limit
		{"just over the limit", 101_000_000, 0, false, ReasonDailyLimit},
		{"output tokens count too", 0, 40_000_000, false, ReasonDailyLimit}, // $60
		{"zero tokens", 0, 0, true, ReasonOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := NewGate(newTestLedger(t, NewMemStore()))

			allowed, reason := g.CanAfford(tc.inputTokens, tc.outputTokens)
			if allowed != tc.allowed || reason != tc.reason {
				t.Errorf("CanAfford(%d, %d) = (%v, %v), want (%v, %v)",
					tc.inputTokens, tc.outputTokens, allowed, reason, tc.allowed, tc.reason)
			}
		})
	}
}

func TestCanAffordCountsPriorSpend(t *testing.T) {
	l := newTestLedger(t, NewMemStore())
	g := NewGate(l)

	// Spend $49.50 today; a further $0.50 fits exactly, $0.51 does not.
	if err := l.RecordUsage(99_000_000, 0); err != nil {
		t.Fatalf("RecordUsage() error: %v", err)
	}

	if allowed, _ := g.CanAfford(1_000_000, 0); !allowed {
		t.Error("request at exactly the remaining budget was denied")
	}
	if allowed, reason := g.CanAfford(1_020_000, 0); allowed || reason != ReasonDailyLimit {
		t.Errorf("over-budget request = (%v, %v), want (false, daily)", allowed, reason)
	}
}

func TestCanAffordMonthlyBound(t *testing.T) {
	store := NewMemStore()
	// $195 spent earlier this month, nothing today: the daily limit
	// leaves room but the $200 monthly limit does not.
	store.Save(map[string]Record{
		"2026-09-10": {Tokens: 390_000_000, Cost: 195.0},
	})

	l := newTestLedger(t, store)
	// Pin "today" to a different day in the same month.
	g := NewGate(l)

	allowed, reason := g.CanAfford(20_000_000, 0) // $10
	if allowed || reason != ReasonMonthlyLimit {
		t.Errorf("CanAfford() = (%v, %v), want (false, monthly)", allowed, reason)
	}

	if allowed, _ := g.CanAfford(10_000_000, 0); !allowed { // $5
		t.Error("request within the monthly budget was denied")
	}
}

func TestCanAffordDailyCheckedBeforeMonthly(t *testing.T) {
	store := NewMemStore()
	store.Save(map[string]Record{
		"2026-09-01": {Tokens: 100_000_000, Cost: 49.0},  // today
		"2026-09-10": {Tokens: 300_000_000, Cost: 150.0}, // same month
	})

	l := newTestLedger(t, store)
	g := NewGate(l)

	// $10 would blow both limits; the daily reason wins deterministically.
	_, reason := g.CanAfford(20_000_000, 0)
	if reason != ReasonDailyLimit {
		t.Errorf("reason = %v, want daily when both limits would be exceeded", reason)
	}
}

func TestCanAffordIsPure(t *testing.T) {
	g := NewGate(newTestLedger(t, NewMemStore()))

	a1, r1 := g.CanAfford(5_000_000, 1_000_000)
	a2, r2 := g.CanAfford(5_000_000, 1_000_000)
	if a1 != a2 || r1 != r2 {
		t.Errorf("repeated CanAfford diverged: (%v, %v) then (%v, %v)", a1, r1, a2, r2)
	}

	// And it reserves nothing.
	if daily := g.ledger.DailyUsage(); daily.Tokens != 0 {
		t.Errorf("CanAfford recorded spend: %+v", daily)
	}
}

func TestReserveRecordsOnAllow(t *testing.T) {
	l := newTestLedger(t, NewMemStore())
	g := NewGate(l)

	allowed, reason, err := g.Reserve(1_000_000, 0)
	if err != nil || !allowed || reason != ReasonOK {
		t.Fatalf("Reserve() = (%v, %v, %v), want (true, ok, nil)", allowed, reason, err)
	}

	daily := l.DailyUsage()
	if daily.Tokens != 1_000_000 || !approxEqual(daily.Cost, 0.50) {
		t.Errorf("daily after reserve = %+v, want 1000000 tokens, $0.50", daily)
	}
}

func TestReserveDeniesWithoutRecording(t *testing.T) {
	l := newTestLedger(t, NewMemStore())
	g := NewGate(l)

	allowed, reason, err := g.Reserve(200_000_000, 0) // $100 > $50 daily
	if err != nil {
		t.Fatalf("Reserve() error: %v", err)
	}
	if allowed || reason != ReasonDailyLimit {
		t.Errorf("Reserve() = (%v, %v), want (false, daily)", allowed, reason)
	}

	if daily := l.DailyUsage(); daily.Tokens != 0 || daily.Cost != 0 {
		t.Errorf("denied reserve recorded spend: %+v", daily)
	}
}

func TestReserveSerializesSpend(t *testing.T) {
	l := newTestLedger(t, NewMemStore())
	g := NewGate(l)

	// Each reservation costs $20; the third must fail against the $50
	// daily limit because the first two committed before it checked.
	for i := 0; i < 2; i++ {
		allowed, _, err := g.Reserve(40_000_000, 0)
		if err != nil || !allowed {
			t.Fatalf("reserve %d = (%v, %v)", i, allowed, err)
		}
	}

	allowed, reason, err := g.Reserve(40_000_000, 0)
	if err != nil {
		t.Fatalf("Reserve() error: %v", err)
	}
	if allowed || reason != ReasonDailyLimit {
		t.Errorf("third reserve = (%v, %v), want (false, daily)", allowed, reason)
	}
}
