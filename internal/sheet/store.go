package sheet

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies store failures so the orchestrator can tell
// retryable conditions (rate limit, transient transport) from fatal ones
// (auth, permission, missing store).
type ErrorKind string

const (
	KindAuth           ErrorKind = "AUTH"
	KindPermission     ErrorKind = "PERMISSION"
	KindNotFound       ErrorKind = "NOT_FOUND"
	KindRateLimit      ErrorKind = "RATE_LIMIT"
	KindTransport      ErrorKind = "TRANSPORT"
	KindInvalidAddress ErrorKind = "INVALID_ADDRESS"
)

// StoreError is a typed failure from a TabularStore implementation.
type StoreError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

// Retryable reports whether the failure class is worth retrying with
// backoff. Permission and not-found conditions never are.
func (e *StoreError) Retryable() bool {
	return e.Kind == KindRateLimit || e.Kind == KindTransport
}

// NewStoreError constructs a StoreError.
func NewStoreError(kind ErrorKind, message string, cause error) *StoreError {
	return &StoreError{Kind: kind, Message: message, Cause: cause}
}

// IsRetryable reports whether err is a retryable store error.
func IsRetryable(err error) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Retryable()
	}
	return false
}

// KeyColumnSnapshot is an ordered read of the key column at a point in
// time. Index i corresponds to row i+1 in the store (rows are 1-based).
type KeyColumnSnapshot []string

// TabularStore abstracts a named rectangular store. An implementation is
// bound to one spreadsheet/workbook and one sheet/tab at construction; it
// performs no key matching or business validation.
type TabularStore interface {
	// ReadColumn returns the full contents of a single column, top to
	// bottom, including blank cells that sit between populated ones.
	ReadColumn(ctx context.Context, column string) (KeyColumnSnapshot, error)

	// WriteCell overwrites a single cell at an <column><row> address.
	WriteCell(ctx context.Context, address string, value string) error
}

// Address builds a single-cell address from a column identifier and a
// 1-based row number, e.g. ("P", 5) -> "P5".
func Address(column string, row int) string {
	return fmt.Sprintf("%s%d", column, row)
}
