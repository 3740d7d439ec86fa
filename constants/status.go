package constants

// ItemStatus is the canonical per-item outcome recorded in the batch manifest.
type ItemStatus string

// Stable values (store these exact strings in manifests).
const (
	ItemPending            ItemStatus = "PENDING"              // not yet processed
	ItemExtractionFailed   ItemStatus = "EXTRACTION_FAILED"    // gateway failed, no writes attempted
	ItemRowNotFound        ItemStatus = "ROW_NOT_FOUND"        // key absent from key column, no writes attempted
	ItemAllWritesSucceeded ItemStatus = "ALL_WRITES_SUCCEEDED" // every planned cell written
	ItemPartialFailure     ItemStatus = "PARTIAL_FAILURE"      // some planned cells written
	ItemAllWritesFailed    ItemStatus = "ALL_WRITES_FAILED"    // no planned cell written
)

// Terminal reports whether the status is a terminal item state.
func (s ItemStatus) Terminal() bool {
	return s != ItemPending
}

// Succeeded reports whether a re-run may skip the item.
func (s ItemStatus) Succeeded() bool {
	return s == ItemAllWritesSucceeded
}

// WriteStatus is the outcome of a single (item, column) write attempt.
type WriteStatus string

const (
	WriteSuccess     WriteStatus = "SUCCESS"
	WriteRowNotFound WriteStatus = "ROW_NOT_FOUND"
	WriteFailed      WriteStatus = "WRITE_FAILED"
)
