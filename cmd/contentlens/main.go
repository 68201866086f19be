// Command contentlens prepares a document for analysis by a paid
// text-generation API and enforces a spend budget around the call.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/contentlens/contentlens/internal/analyzer"
	"github.com/contentlens/contentlens/internal/config"
	"github.com/contentlens/contentlens/internal/ledger"
	"github.com/contentlens/contentlens/internal/tokenizer"
	"github.com/contentlens/contentlens/internal/version"
)

func main() {
	file := flag.String("file", "", "document to analyze (.txt, .pdf, .docx)")
	usage := flag.Bool("usage", false, "print usage against the configured limits")
	maxTokens := flag.Int("max-tokens", 0, "override the document token budget")
	model := flag.String("model", "", "override the configured model")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("contentlens", version.Version)
		return
	}

	_ = godotenv.Load()
	logger := setupLogger()

	if err := config.EnsureConfigFile(); err != nil {
		logger.Warn("could not write default config", "error", err)
	}
	cfg := config.Load()
	if *maxTokens > 0 {
		cfg.MaxTokens = *maxTokens
	}
	if *model != "" {
		cfg.Model = *model
	}

	if err := run(cfg, logger, *file, *usage); err != nil {
		logger.Error("contentlens failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, file string, usageOnly bool) error {
	ldgr, gate, closer, err := setupLedger(cfg)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer()
	}

	if usageOnly {
		printUsage(ldgr)
		return nil
	}
	if file == "" {
		return fmt.Errorf("no input: pass -file or -usage")
	}

	processor, cleanup, err := setupProcessor(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	doc, err := processor.Process(file)
	if err != nil {
		return err
	}
	logger.Info("document processed",
		"file_type", doc.Meta.FileType,
		"file_size_bytes", doc.Meta.FileSizeBytes,
		"token_count", doc.Meta.TokenCount,
	)

	// Pre-flight: estimate the completion, then gate on the spend.
	estimatedOutput := tokenizer.EstimateOutput(doc.Meta.TokenCount)
	if estimatedOutput > analyzer.MaxCompletionTokens {
		estimatedOutput = analyzer.MaxCompletionTokens
	}
	if allowed, reason := gate.CanAfford(doc.Meta.TokenCount, estimatedOutput); !allowed {
		return fmt.Errorf("request denied: %s", reason)
	}

	client := analyzer.New(cfg.APIBaseURL, cfg.APIKey, cfg.Model, logger)
	result, err := client.Analyze(context.Background(), doc.Text)
	if err != nil {
		return err
	}

	if err := ldgr.RecordUsage(result.PromptTokens, result.CompletionTokens); err != nil {
		return err
	}

	fmt.Println(result.Text)
	fmt.Println()
	printUsage(ldgr)
	return nil
}

func printUsage(l *ledger.Ledger) {
	p := l.Pricing()
	daily := l.DailyUsage()
	monthly := l.MonthlyUsage()
	fmt.Printf("Today:      %d tokens, $%.4f of $%.2f\n", daily.Tokens, daily.Cost, p.DailyLimit)
	fmt.Printf("This month: %d tokens, $%.4f of $%.2f\n", monthly.Tokens, monthly.Cost, p.MonthlyLimit)
}
