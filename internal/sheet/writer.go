package sheet

import (
	"context"
	"log/slog"
	"time"

	"github.com/socs4ai/standards-tracker/constants"
	"github.com/socs4ai/standards-tracker/internal/entity"
)

// Writer performs single-cell overwrites against a TabularStore and turns
// failures into WriteResults instead of propagating them. Last write wins;
// there is no optimistic-concurrency check.
type Writer struct {
	store  TabularStore
	logger *slog.Logger
}

func NewWriter(store TabularStore, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{store: store, logger: logger}
}

// Write overwrites the cell at (column, row) with value. Writing the
// "Not specified" sentinel is legal and not treated specially. The failure
// is captured in the returned WriteResult; the raw store error is also
// returned so the caller can decide whether to retry.
func (w *Writer) Write(ctx context.Context, row int, field, column, value string) (entity.WriteResult, error) {
	start := time.Now()
	addr := Address(column, row)

	if err := w.store.WriteCell(ctx, addr, value); err != nil {
		w.logger.Error("sheet.write.failed",
			"address", addr,
			"field", field,
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return entity.WriteResult{
			Field:  field,
			Column: column,
			Status: constants.WriteFailed,
			Error:  err.Error(),
		}, err
	}

	w.logger.Info("sheet.write.ok",
		"address", addr,
		"field", field,
		"value_len", len(value),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return entity.WriteResult{
		Field:       field,
		Column:      column,
		Status:      constants.WriteSuccess,
		CellAddress: addr,
	}, nil
}
