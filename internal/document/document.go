// Package document turns an input file into a normalized, token-bounded
// text payload with metadata.
package document

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/contentlens/contentlens/internal/extract"
	"github.com/contentlens/contentlens/internal/normalize"
	"github.com/contentlens/contentlens/internal/tokenizer"
)

// Metadata describes one processed file. It is produced per call and
// never persisted.
type Metadata struct {
	FileType      string `json:"file_type"`       // extension, e.g. ".pdf"
	FileSizeBytes int64  `json:"file_size_bytes"` // size of the original file
	TokenCount    int    `json:"token_count"`     // post-truncation
}

// Document is the normalized text plus its metadata. Callers consume it
// immediately; it is not cached anywhere.
type Document struct {
	Text string   `json:"text"`
	Meta Metadata `json:"metadata"`
}

// Processor orchestrates extraction, normalization and metadata assembly.
// It performs no network I/O and no persistence.
type Processor struct {
	extractor extract.Extractor
	counter   tokenizer.Counter
	maxTokens int
}

// NewProcessor creates a Processor. A non-positive maxTokens selects the
// default budget.
func NewProcessor(extractor extract.Extractor, counter tokenizer.Counter, maxTokens int) *Processor {
	if maxTokens <= 0 {
		maxTokens = normalize.DefaultMaxTokens
	}
	return &Processor{
		extractor: extractor,
		counter:   counter,
		maxTokens: maxTokens,
	}
}

// Process extracts, normalizes and measures the file at path. It fails
// with extract.ErrUnsupportedFormat for unknown extensions and
// extract.ErrExtractionFailed for I/O or parse errors.
func (p *Processor) Process(path string) (*Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !extract.Supported(ext) {
		return nil, &extract.UnsupportedFormatError{Ext: ext}
	}

	raw, err := p.extractor.Extract(path)
	if err != nil {
		return nil, err
	}

	text, tokens := normalize.Normalize(raw, p.maxTokens, p.counter)

	info, err := os.Stat(path)
	if err != nil {
		return nil, &extract.ExtractionError{Path: path, Err: err}
	}

	return &Document{
		Text: text,
		Meta: Metadata{
			FileType:      ext,
			FileSizeBytes: info.Size(),
			TokenCount:    tokens,
		},
	}, nil
}
