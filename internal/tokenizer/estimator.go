package tokenizer

// Heuristic is a dependency-free Counter using the rule of thumb of
// ~4 characters per token. Useful where loading a BPE encoding is not
// worth it (tests, offline runs).
type Heuristic struct{}

// Count estimates the token count of text.
func (Heuristic) Count(text string) int {
	if len(text) == 0 {
		return 0
	}
	return (len(text) + 3) / 4
}

// EstimateOutput estimates completion tokens for a prompt of inputTokens.
// Output is estimated at ~60% of the input.
func EstimateOutput(inputTokens int) int {
	return int(float64(inputTokens) * 0.6)
}
