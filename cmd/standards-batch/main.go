package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/socs4ai/standards-tracker/internal/batch"
	"github.com/socs4ai/standards-tracker/internal/common"
	"github.com/socs4ai/standards-tracker/internal/docs"
	"github.com/socs4ai/standards-tracker/internal/extract"
	"github.com/socs4ai/standards-tracker/internal/extract/gemini"
	"github.com/socs4ai/standards-tracker/internal/extract/openai"
	"github.com/socs4ai/standards-tracker/internal/manifest"
	"github.com/socs4ai/standards-tracker/internal/sheet"
	"github.com/socs4ai/standards-tracker/internal/sheet/googlesheets"
	"github.com/socs4ai/standards-tracker/internal/sheet/xlsx"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	// Parse CLI flags
	var (
		input   = flag.String("input", "", "input manifest path, CSV or JSON (required)")
		planArg = flag.String("plan", "", "column plan path, YAML mapping field -> column (required)")
		out     = flag.String("out", "results.json", "output results manifest path")
		resume  = flag.String("resume", "", "previous results manifest; fully succeeded items are skipped")
		workers = flag.Int("workers", 0, "parallel workers (overrides BATCH_WORKERS)")
	)
	flag.Parse()

	if *input == "" || *planArg == "" {
		printError("Error: --input and --plan are required\n")
		os.Exit(1)
	}

	_ = godotenv.Load()

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Stop between items on SIGINT/SIGTERM; completed items are already
	// persisted, so re-running with --resume picks up the remainder.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := common.LoadConfig()
	if *workers > 0 {
		cfg.Batch.Workers = *workers
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Load inputs
	items, err := manifest.LoadInput(*input, logger)
	if err != nil {
		logger.Error("failed to load input manifest", "error", err)
		os.Exit(1)
	}
	plan, err := manifest.LoadPlan(*planArg)
	if err != nil {
		logger.Error("failed to load column plan", "error", err)
		os.Exit(1)
	}

	if *resume != "" {
		previous, err := manifest.LoadResult(*resume)
		if err != nil {
			logger.Error("failed to load previous results manifest", "error", err)
			os.Exit(1)
		}
		before := len(items)
		items = manifest.FilterResumable(items, previous)
		logger.Info("resuming batch", "previous_run", previous.RunID.String(),
			"skipped", before-len(items), "remaining", len(items))
	}

	// Wire the tabular store
	store, storeID, err := buildStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize tabular store", "error", err)
		os.Exit(1)
	}

	// Wire the extraction gateway
	gateway, cleanup, err := buildGateway(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize extraction gateway", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	// Wire results persistence: JSON file always, SQL store when configured
	stores := manifest.MultiStore{manifest.NewJSONFileStore(*out)}
	if cfg.Manifest.DSN != "" {
		sqlStore, err := manifest.OpenSQL(ctx, cfg.Manifest.DSN, logger)
		if err != nil {
			logger.Error("failed to open manifest database", "error", err)
			os.Exit(1)
		}
		defer func() {
			_ = sqlStore.Close()
		}()
		stores = append(stores, sqlStore)
	}

	orch := batch.NewOrchestrator(batch.Config{
		StoreID:       storeID,
		Sheet:         sheetName(cfg),
		KeyColumn:     cfg.Store.KeyColumn,
		Workers:       cfg.Batch.Workers,
		RetryAttempts: cfg.Batch.RetryAttempts,
		RetryBaseWait: cfg.Batch.RetryBaseWait,
	}, gateway, store, stores, logger)

	result, runErr := orch.Run(ctx, items, plan)
	if result != nil {
		s := result.Summarize()
		fmt.Printf("Batch complete!\n")
		fmt.Printf("- Items processed: %d\n", s.Total)
		fmt.Printf("- Succeeded: %d\n", s.Succeeded)
		fmt.Printf("- Partial failures: %d\n", s.Partial)
		fmt.Printf("- Extraction failures: %d\n", s.ExtractionFailed)
		fmt.Printf("- Rows not found: %d\n", s.RowNotFound)
		fmt.Printf("- Write failures: %d\n", s.WritesFailed)
		fmt.Printf("- Results: %s\n", *out)
	}
	if runErr != nil {
		logger.Error("batch run ended with error", "error", runErr)
		os.Exit(1)
	}
}

func sheetName(cfg *common.Config) string {
	if cfg.Store.Backend == "xlsx" {
		return cfg.Store.XLSXSheet
	}
	return cfg.Store.TabName
}

func buildStore(ctx context.Context, cfg *common.Config, logger *slog.Logger) (sheet.TabularStore, string, error) {
	switch cfg.Store.Backend {
	case "xlsx":
		s, err := xlsx.Open(cfg.Store.XLSXPath, cfg.Store.XLSXSheet, logger)
		if err != nil {
			return nil, "", err
		}
		return s, cfg.Store.XLSXPath, nil
	default:
		s, err := googlesheets.NewStore(ctx, googlesheets.Config{
			SpreadsheetID:   cfg.Store.SpreadsheetID,
			TabName:         cfg.Store.TabName,
			CredentialsPath: cfg.Store.CredentialsPath,
		}, logger)
		if err != nil {
			return nil, "", err
		}
		return s, cfg.Store.SpreadsheetID, nil
	}
}

func buildGateway(ctx context.Context, cfg *common.Config, logger *slog.Logger) (*extract.Gateway, func(), error) {
	router := &docs.Router{
		HTTP: docs.NewHTTPFetcher(cfg.Batch.FetchTimeout),
		File: docs.FileFetcher{},
	}
	if cfg.Store.CredentialsPath != "" {
		gd, err := docs.NewGoogleDocFetcher(ctx, cfg.Store.CredentialsPath, logger)
		if err != nil {
			return nil, nil, err
		}
		router.GoogleDoc = gd

		folder, err := docs.NewDriveFolderFetcher(ctx, cfg.Store.CredentialsPath, gd, logger)
		if err != nil {
			return nil, nil, err
		}
		router.Folder = folder
	}

	cleanup := func() {}
	var extractor extract.FieldExtractor
	switch cfg.Extractor.Backend {
	case "gemini":
		client, err := gemini.NewClient(ctx, cfg.Extractor.GeminiKey, cfg.Extractor.GeminiModel, logger)
		if err != nil {
			return nil, nil, err
		}
		extractor = client
		cleanup = client.Close
	default:
		extractor = openai.NewClient(openai.Config{
			APIKey:      cfg.Extractor.APIKey,
			Model:       cfg.Extractor.Model,
			Temperature: cfg.Extractor.Temperature,
			Timeout:     cfg.Extractor.Timeout,
		}, logger)
	}

	return extract.NewGateway(router, extractor, logger), cleanup, nil
}
