package main

import (
	"fmt"
	"log/slog"

	"github.com/contentlens/contentlens/internal/config"
	"github.com/contentlens/contentlens/internal/document"
	"github.com/contentlens/contentlens/internal/extract"
	"github.com/contentlens/contentlens/internal/ledger"
	"github.com/contentlens/contentlens/internal/tokenizer"
)

// extractCacheBytes bounds the raw-text extraction cache.
const extractCacheBytes = 64 << 20

// setupLedger builds the configured ledger backend and its budget gate.
// The returned closer is nil for the JSON backend.
func setupLedger(cfg *config.Config) (*ledger.Ledger, *ledger.Gate, func() error, error) {
	pricing := ledger.Pricing{
		InputPerMillion:  cfg.InputPerMillion,
		OutputPerMillion: cfg.OutputPerMillion,
		DailyLimit:       cfg.DailyLimit,
		MonthlyLimit:     cfg.MonthlyLimit,
	}

	var store ledger.Store
	var closer func() error

	switch cfg.Storage {
	case config.StorageSQLite:
		if err := config.EnsureDataDir(); err != nil {
			return nil, nil, nil, fmt.Errorf("create data dir: %w", err)
		}
		s, err := ledger.NewSQLiteStore(config.DBPath())
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open sqlite ledger: %w", err)
		}
		store = s
		closer = s.Close
	case config.StorageJSON:
		store = ledger.NewFileStore(cfg.LedgerPath)
	default:
		return nil, nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}

	l, err := ledger.New(store, pricing)
	if err != nil {
		if closer != nil {
			closer()
		}
		return nil, nil, nil, err
	}
	return l, ledger.NewGate(l), closer, nil
}

// setupProcessor builds the document pipeline: cached extraction plus a
// tiktoken counter, falling back to the chars/4 heuristic when the BPE
// encoding cannot be loaded (e.g. offline first run).
func setupProcessor(cfg *config.Config, logger *slog.Logger) (*document.Processor, func(), error) {
	var counter tokenizer.Counter
	tk, err := tokenizer.NewTiktoken(cfg.Encoding)
	if err != nil {
		logger.Warn("tiktoken unavailable, using heuristic counter", "error", err)
		counter = tokenizer.Heuristic{}
	} else {
		counter = tk
	}

	cached, err := extract.NewCache(extract.File{}, extractCacheBytes)
	if err != nil {
		return nil, nil, fmt.Errorf("create extraction cache: %w", err)
	}

	return document.NewProcessor(cached, counter, cfg.MaxTokens), cached.Close, nil
}
