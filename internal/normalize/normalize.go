// Package normalize collapses whitespace and truncates text to a token budget.
package normalize

import (
	"strings"
	"unicode/utf8"

	"github.com/contentlens/contentlens/internal/tokenizer"
)

// DefaultMaxTokens is the token budget applied when the caller passes a
// non-positive maximum.
const DefaultMaxTokens = 3000

// Normalize collapses all whitespace runs in raw to single spaces, trims
// the result, and truncates it to at most maxTokens tokens as measured by
// counter. It returns the final text and its token count.
//
// Truncation prefers the counter's own encoding when it implements
// tokenizer.Truncator; otherwise the text is cut proportionally by
// characters and re-counted. Normalizing already-normalized text at the
// same budget returns it unchanged.
func Normalize(raw string, maxTokens int, counter tokenizer.Counter) (string, int) {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	// Lossy by contract: structural formatting is not preserved.
	text := strings.Join(strings.Fields(raw), " ")

	count := counter.Count(text)
	if count <= maxTokens {
		return text, count
	}

	if tr, ok := counter.(tokenizer.Truncator); ok {
		// Re-encoding a decoded prefix can come out longer than the
		// budget it was cut to, so shrink the budget until the
		// re-count fits.
		for budget := maxTokens; count > maxTokens && budget >= 0; budget-- {
			text = tr.Truncate(text, budget)
			count = counter.Count(text)
		}
		return text, count
	}

	return truncateByChars(text, maxTokens, count, counter)
}

// truncateByChars cuts text proportionally by character count until it
// fits the budget, re-counting after each cut.
func truncateByChars(text string, maxTokens, count int, counter tokenizer.Counter) (string, int) {
	for count > maxTokens && len(text) > 0 {
		keep := len(text) * maxTokens / count
		if keep >= len(text) {
			keep = len(text) - 1
		}
		// Back off to a rune boundary.
		for keep > 0 && !utf8.RuneStart(text[keep]) {
			keep--
		}
		text = strings.TrimRight(text[:keep], " ")
		count = counter.Count(text)
	}
	return text, count
}
