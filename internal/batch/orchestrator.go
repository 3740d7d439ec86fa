// Package batch runs the per-item orchestration loop: extract fields from
// each item's document, resolve the item's row in the tabular store, write
// one cell per planned column, and record every outcome in the batch
// manifest. One item's failure never aborts the batch.
package batch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"

	"github.com/socs4ai/standards-tracker/internal/common"
	"github.com/socs4ai/standards-tracker/internal/entity"
	"github.com/socs4ai/standards-tracker/internal/manifest"
	"github.com/socs4ai/standards-tracker/internal/sheet"
)

// ExtractorGateway is the document extractor collaborator. Implemented by
// extract.Gateway; fakes implement it in tests.
type ExtractorGateway interface {
	Extract(ctx context.Context, ref string, fields []string) (map[string]string, error)
}

// Config holds orchestration knobs.
type Config struct {
	StoreID       string // spreadsheet ID or workbook path, for the manifest
	Sheet         string
	KeyColumn     string        // defaults to "A"
	Workers       int           // defaults to 1 (sequential)
	RetryAttempts int           // per network call, defaults to 4
	RetryBaseWait time.Duration // defaults to 500ms, exponential backoff
}

// Orchestrator owns the batch run: the input items and the BatchResult for
// the run's duration. The tabular store is shared and external; writes to
// it are serialized when fan-out is enabled.
type Orchestrator struct {
	cfg      Config
	gateway  ExtractorGateway
	store    sheet.TabularStore
	writer   *sheet.Writer
	manifest manifest.Store
	logger   *slog.Logger

	// writeMu serializes cell writes when fan-out is enabled; the store
	// is a shared external resource with no cross-write atomicity.
	writeMu sync.Mutex
}

func NewOrchestrator(
	cfg Config,
	gateway ExtractorGateway,
	store sheet.TabularStore,
	results manifest.Store,
	logger *slog.Logger,
) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.KeyColumn == "" {
		cfg.KeyColumn = "A"
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.RetryAttempts < 1 {
		cfg.RetryAttempts = 4
	}
	if cfg.RetryBaseWait <= 0 {
		cfg.RetryBaseWait = 500 * time.Millisecond
	}
	return &Orchestrator{
		cfg:      cfg,
		gateway:  gateway,
		store:    store,
		writer:   sheet.NewWriter(store, logger),
		manifest: results,
		logger:   logger,
	}
}

// Run processes every item in input order and persists the batch manifest.
// The returned error is non-nil only for run-level conditions (bad plan,
// cancellation, manifest persistence failure); per-item failures are
// recorded in the result instead.
func (o *Orchestrator) Run(ctx context.Context, items []entity.InputItem, plan entity.ColumnPlan) (*entity.BatchResult, error) {
	if err := plan.Validate(); err != nil {
		return nil, common.NewAppError("PLAN_ERROR", "invalid column plan", err)
	}

	runID := uuid.New()
	ctx = common.WithRunID(ctx, runID.String())
	result := &entity.BatchResult{
		RunID:     runID,
		StoreID:   o.cfg.StoreID,
		Sheet:     o.cfg.Sheet,
		KeyColumn: o.cfg.KeyColumn,
		StartedAt: time.Now().UTC(),
	}

	o.logger.Info("batch.start",
		"run_id", runID.String(),
		"items", len(items),
		"columns", len(plan),
		"workers", o.cfg.Workers,
	)

	var runErr error
	if o.cfg.Workers > 1 {
		runErr = o.runParallel(ctx, items, plan, result)
	} else {
		runErr = o.runSequential(ctx, items, plan, result)
	}

	result.FinishedAt = time.Now().UTC()
	if o.manifest != nil {
		if err := o.manifest.Flush(ctx, result); err != nil {
			o.logger.Error("batch.manifest.flush_failed", "run_id", runID.String(), "error", err)
			if runErr == nil {
				runErr = common.WrapError(err, "persist batch manifest")
			}
		}
	}

	s := result.Summarize()
	o.logger.Info("batch.done",
		"run_id", runID.String(),
		"total", s.Total,
		"succeeded", s.Succeeded,
		"partial", s.Partial,
		"extraction_failed", s.ExtractionFailed,
		"row_not_found", s.RowNotFound,
		"writes_failed", s.WritesFailed,
		"elapsed_ms", result.FinishedAt.Sub(result.StartedAt).Milliseconds(),
	)
	return result, runErr
}

// runSequential is the baseline single-worker loop. Cancellation is honored
// between items, never mid-item; results completed so far are already
// persisted.
func (o *Orchestrator) runSequential(ctx context.Context, items []entity.InputItem, plan entity.ColumnPlan, result *entity.BatchResult) error {
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			o.logger.Warn("batch.cancelled", "completed", i, "remaining", len(items)-i)
			return err
		}
		res := o.processItem(ctx, item, plan)
		result.Items = append(result.Items, res)
		o.persistItem(ctx, result, res)
	}
	return nil
}

// runParallel fans items out across a bounded worker pool. Items are
// independent; store writes are serialized inside processItem. Results are
// slotted by index so the manifest keeps input order.
func (o *Orchestrator) runParallel(ctx context.Context, items []entity.InputItem, plan entity.ColumnPlan, result *entity.BatchResult) error {
	slots := make([]entity.ItemResult, len(items))
	done := make([]bool, len(items))
	sem := make(chan struct{}, o.cfg.Workers)
	finished := make(chan int, len(items))

	launched := 0
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			break
		}
		sem <- struct{}{}
		launched++
		go func(i int, item entity.InputItem) {
			defer func() { <-sem }()
			slots[i] = o.processItem(ctx, item, plan)
			finished <- i
		}(i, item)
	}

	for n := 0; n < launched; n++ {
		i := <-finished
		done[i] = true
	}

	for i, res := range slots {
		if !done[i] {
			continue
		}
		result.Items = append(result.Items, res)
		o.persistItem(ctx, result, res)
	}
	if err := ctx.Err(); err != nil {
		o.logger.Warn("batch.cancelled", "completed", launched, "remaining", len(items)-launched)
		return err
	}
	return nil
}

func (o *Orchestrator) persistItem(ctx context.Context, result *entity.BatchResult, res entity.ItemResult) {
	if o.manifest == nil {
		return
	}
	if err := o.manifest.Append(ctx, result, res); err != nil {
		o.logger.Error("batch.manifest.append_failed", "key", res.Key, "error", err)
	}
}

func retryOptions(ctx context.Context, attempts int, baseWait time.Duration, retryIf func(error) bool) []retry.Option {
	return []retry.Option{
		retry.Context(ctx),
		retry.Attempts(uint(attempts)),
		retry.Delay(baseWait),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(retryIf),
		retry.LastErrorOnly(true),
	}
}

