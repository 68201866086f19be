// Package tokenizer provides token counting and token-budget truncation.
package tokenizer

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// Counter maps a text to its length in tokens. Implementations stand in
// for a vendor tokenizer; counts are approximate by contract.
type Counter interface {
	// Count returns the number of tokens in text.
	Count(text string) int
}

// Truncator is an optional Counter capability: cutting text down to a
// token budget using the counter's own encode/decode pair.
type Truncator interface {
	// Truncate returns the first maxTokens tokens of text, decoded.
	Truncate(text string, maxTokens int) string
}

// Encoding names used by tiktoken.
const (
	EncodingCL100kBase = "cl100k_base" // GPT-4, GPT-3.5-turbo
	EncodingO200kBase  = "o200k_base"  // GPT-4o, o1 models
)

// Loading a BPE encoding is expensive, so all Tiktoken counters share one
// cache keyed by encoding name.
var (
	encMu     sync.RWMutex
	encodings = make(map[string]*tiktoken.Tiktoken)
)

func getEncoding(name string) (*tiktoken.Tiktoken, error) {
	// Check cache first
	encMu.RLock()
	enc, ok := encodings[name]
	encMu.RUnlock()
	if ok {
		return enc, nil
	}

	encMu.Lock()
	defer encMu.Unlock()

	// Double-check after acquiring write lock
	if enc, ok = encodings[name]; ok {
		return enc, nil
	}

	enc, err := tiktoken.GetEncoding(name)
	if err != nil {
		return nil, err
	}
	encodings[name] = enc
	return enc, nil
}

// Tiktoken counts tokens with a real BPE encoding. It implements both
// Counter and Truncator.
type Tiktoken struct {
	enc *tiktoken.Tiktoken
}

// NewTiktoken creates a Tiktoken counter for the given encoding name.
// An empty name falls back to cl100k_base.
func NewTiktoken(encoding string) (*Tiktoken, error) {
	name := strings.ToLower(strings.TrimSpace(encoding))
	if name == "" {
		name = EncodingCL100kBase
	}
	enc, err := getEncoding(name)
	if err != nil {
		return nil, err
	}
	return &Tiktoken{enc: enc}, nil
}

// Count returns the number of BPE tokens in text.
func (t *Tiktoken) Count(text string) int {
	return len(t.enc.Encode(text, nil, nil))
}

// Truncate decodes the first maxTokens tokens of text. Text already within
// the budget is returned unchanged.
func (t *Tiktoken) Truncate(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	tokens := t.enc.Encode(text, nil, nil)
	if len(tokens) <= maxTokens {
		return text
	}
	return t.enc.Decode(tokens[:maxTokens])
}
