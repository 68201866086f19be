package ledger

// Pricing holds the billing rates and spend limits. It is fixed at
// construction and never mutated at runtime.
type Pricing struct {
	// InputPerMillion is the cost of one million prompt tokens.
	InputPerMillion float64

	// OutputPerMillion is the cost of one million completion tokens.
	OutputPerMillion float64

	// DailyLimit is the maximum spend per calendar day.
	DailyLimit float64

	// MonthlyLimit is the maximum spend per calendar month.
	MonthlyLimit float64
}

// Cost returns the monetary cost of a request with the given token counts.
func (p Pricing) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)/1_000_000*p.InputPerMillion +
		float64(outputTokens)/1_000_000*p.OutputPerMillion
}
