package batch

import (
	"context"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/socs4ai/standards-tracker/constants"
	"github.com/socs4ai/standards-tracker/internal/common"
	"github.com/socs4ai/standards-tracker/internal/entity"
	"github.com/socs4ai/standards-tracker/internal/extract"
	"github.com/socs4ai/standards-tracker/internal/sheet"
)

// processItem walks one item through the state machine:
// extract -> normalize -> resolve -> write, recording a terminal status.
func (o *Orchestrator) processItem(ctx context.Context, item entity.InputItem, plan entity.ColumnPlan) entity.ItemResult {
	ctx = common.WithItemKey(ctx, item.Key)
	res := entity.ItemResult{
		Key:         item.Key,
		DocumentRef: item.DocumentRef,
		StartedAt:   time.Now().UTC(),
	}
	defer func() {
		res.FinishedAt = time.Now().UTC()
	}()

	fields := plan.Fields()
	o.logger.Info("batch.item.start", "key", item.Key, "ref", item.DocumentRef)

	// Extraction, with bounded backoff only for transient gateway
	// failures. Permission, missing-document and rejected-output errors
	// would fail identically on every attempt.
	var extracted map[string]string
	err := retry.Do(func() error {
		m, xerr := o.gateway.Extract(ctx, item.DocumentRef, fields)
		if xerr != nil {
			return xerr
		}
		extracted = m
		return nil
	}, retryOptions(ctx, o.cfg.RetryAttempts, o.cfg.RetryBaseWait, extract.IsRetryable)...)
	if err != nil {
		o.logger.Error("batch.item.extraction_failed", "key", item.Key, "error", err)
		res.Status = constants.ItemExtractionFailed
		res.Error = err.Error()
		return res
	}

	values := normalizeFields(extracted, fields)

	// Fresh key-column snapshot per item: concurrent external edits can
	// shift row positions during a long run.
	var snapshot sheet.KeyColumnSnapshot
	err = retry.Do(func() error {
		s, rerr := o.store.ReadColumn(ctx, o.cfg.KeyColumn)
		if rerr != nil {
			return rerr
		}
		snapshot = s
		return nil
	}, retryOptions(ctx, o.cfg.RetryAttempts, o.cfg.RetryBaseWait, sheet.IsRetryable)...)
	if err != nil {
		o.logger.Error("batch.item.snapshot_failed", "key", item.Key, "error", err)
		res.Status = constants.ItemAllWritesFailed
		res.Error = err.Error()
		for _, f := range fields {
			res.Writes = append(res.Writes, entity.WriteResult{
				Key:    item.Key,
				Field:  f,
				Column: plan[f],
				Status: constants.WriteFailed,
				Error:  "key column snapshot unavailable: " + err.Error(),
			})
		}
		return res
	}

	row, ok := sheet.Resolve(snapshot, item.Key)
	if !ok {
		o.logger.Warn("batch.item.row_not_found", "key", item.Key, "rows_scanned", len(snapshot))
		res.Status = constants.ItemRowNotFound
		for _, f := range fields {
			res.Writes = append(res.Writes, entity.WriteResult{
				Key:    item.Key,
				Field:  f,
				Column: plan[f],
				Status: constants.WriteRowNotFound,
			})
		}
		return res
	}
	if occ := sheet.Occurrences(snapshot, item.Key); len(occ) > 1 {
		// First match wins, but a duplicated key likely means the tracker
		// itself is wrong, so make it visible.
		o.logger.Warn("batch.item.duplicate_key", "key", item.Key, "rows", occ, "using_row", row)
	}

	// One overwrite per planned column, serialized against the shared
	// store, each retried only on retryable store error kinds.
	succeeded, failed := 0, 0
	for _, f := range fields {
		var wr entity.WriteResult
		o.writeMu.Lock()
		_ = retry.Do(func() error {
			var werr error
			wr, werr = o.writer.Write(ctx, row, f, plan[f], values[f])
			return werr
		}, retryOptions(ctx, o.cfg.RetryAttempts, o.cfg.RetryBaseWait, sheet.IsRetryable)...)
		o.writeMu.Unlock()

		wr.Key = item.Key
		res.Writes = append(res.Writes, wr)
		if wr.Status == constants.WriteSuccess {
			succeeded++
		} else {
			failed++
		}
	}

	switch {
	case failed == 0:
		res.Status = constants.ItemAllWritesSucceeded
	case succeeded == 0:
		res.Status = constants.ItemAllWritesFailed
	default:
		res.Status = constants.ItemPartialFailure
	}
	o.logger.Info("batch.item.done",
		"key", item.Key,
		"row", row,
		"status", string(res.Status),
		"writes_ok", succeeded,
		"writes_failed", failed,
	)
	return res
}

// normalizeFields trims extracted values and substitutes the sentinel for
// absent or blank fields, so a written cell is never empty.
func normalizeFields(extracted map[string]string, fields []string) map[string]string {
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		v := strings.TrimSpace(extracted[f])
		if v == "" {
			v = constants.NotSpecified
		}
		values[f] = v
	}
	return values
}
