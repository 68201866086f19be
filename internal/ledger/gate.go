package ledger

// Reason explains a budget gate decision.
type Reason int

const (
	ReasonOK Reason = iota
	ReasonDailyLimit
	ReasonMonthlyLimit
)

// String returns a human-readable form of the reason.
func (r Reason) String() string {
	switch r {
	case ReasonOK:
		return "ok"
	case ReasonDailyLimit:
		return "daily limit exceeded"
	case ReasonMonthlyLimit:
		return "monthly limit exceeded"
	default:
		return "unknown"
	}
}

// Gate is the pre-flight affordability check against the configured
// daily and monthly limits.
type Gate struct {
	ledger *Ledger
}

// NewGate creates a Gate over the given ledger. Pricing and limits come
// from the ledger's configuration so the estimate uses the exact formula
// that RecordUsage bills with.
func NewGate(l *Ledger) *Gate {
	return &Gate{ledger: l}
}

// CanAfford reports whether a request with the given estimated token
// counts fits within the limits. The daily bound is evaluated before the
// monthly one, so when both would be exceeded the reported reason is
// always the daily limit.
//
// The check is advisory: it reserves nothing, so concurrent callers can
// each pass and jointly exceed a limit. Callers that need the check and
// the spend to be atomic use Reserve instead.
func (g *Gate) CanAfford(inputTokens, outputTokens int) (bool, Reason) {
	g.ledger.mu.Lock()
	defer g.ledger.mu.Unlock()
	return g.checkLocked(inputTokens, outputTokens)
}

// checkLocked evaluates the limits; the caller holds the ledger mutex.
func (g *Gate) checkLocked(inputTokens, outputTokens int) (bool, Reason) {
	p := g.ledger.pricing
	estimated := p.Cost(inputTokens, outputTokens)

	if g.ledger.dailyLocked().Cost+estimated > p.DailyLimit {
		return false, ReasonDailyLimit
	}
	if g.ledger.monthlyLocked().Cost+estimated > p.MonthlyLimit {
		return false, ReasonMonthlyLimit
	}
	return true, ReasonOK
}

// Reserve performs the affordability check and records the spend in one
// critical section on the ledger. On denial nothing is recorded; on an
// allowed reservation the tokens are billed and persisted before any
// other caller can pass the check.
func (g *Gate) Reserve(inputTokens, outputTokens int) (bool, Reason, error) {
	g.ledger.mu.Lock()
	defer g.ledger.mu.Unlock()

	allowed, reason := g.checkLocked(inputTokens, outputTokens)
	if !allowed {
		return false, reason, nil
	}
	if err := g.ledger.recordLocked(inputTokens, outputTokens); err != nil {
		return false, ReasonOK, err
	}
	return true, ReasonOK, nil
}
