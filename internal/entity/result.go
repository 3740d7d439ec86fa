package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/socs4ai/standards-tracker/constants"
)

// WriteResult is the outcome of a single (item, column) write attempt.
type WriteResult struct {
	Key         string                `json:"key"`
	Field       string                `json:"field"`
	Column      string                `json:"column"`
	Status      constants.WriteStatus `json:"status"`
	CellAddress string                `json:"cell_address,omitempty"` // set on success
	Error       string                `json:"error,omitempty"`
}

// ItemResult is the aggregated outcome for one input item.
type ItemResult struct {
	Key         string               `json:"key"`
	DocumentRef string               `json:"document_ref"`
	Status      constants.ItemStatus `json:"status"`
	Error       string               `json:"error,omitempty"`
	Writes      []WriteResult        `json:"writes,omitempty"`
	StartedAt   time.Time            `json:"started_at"`
	FinishedAt  time.Time            `json:"finished_at"`
}

// BatchResult is the persisted batch manifest: one ItemResult per input
// item, in input order. It serves both human audit and programmatic resume.
type BatchResult struct {
	RunID      uuid.UUID    `json:"run_id"`
	StoreID    string       `json:"store_id"`
	Sheet      string       `json:"sheet"`
	KeyColumn  string       `json:"key_column"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Items      []ItemResult `json:"items"`
}

// Summary holds per-status counts for logging and the CLI report.
type Summary struct {
	Total            int `json:"total"`
	Succeeded        int `json:"succeeded"`
	Partial          int `json:"partial"`
	ExtractionFailed int `json:"extraction_failed"`
	RowNotFound      int `json:"row_not_found"`
	WritesFailed     int `json:"writes_failed"`
}

// Summarize tallies item outcomes.
func (r *BatchResult) Summarize() Summary {
	s := Summary{Total: len(r.Items)}
	for _, it := range r.Items {
		switch it.Status {
		case constants.ItemAllWritesSucceeded:
			s.Succeeded++
		case constants.ItemPartialFailure:
			s.Partial++
		case constants.ItemExtractionFailed:
			s.ExtractionFailed++
		case constants.ItemRowNotFound:
			s.RowNotFound++
		case constants.ItemAllWritesFailed:
			s.WritesFailed++
		}
	}
	return s
}

// SucceededKeys returns the keys of items that fully succeeded, used by the
// resume filter to skip already-converged items.
func (r *BatchResult) SucceededKeys() map[string]bool {
	keys := make(map[string]bool, len(r.Items))
	for _, it := range r.Items {
		if it.Status.Succeeded() {
			keys[it.Key] = true
		}
	}
	return keys
}
