package common

import (
	"context"
)

// Context keys for storing values in context
type contextKey string

const (
	ContextKeyRunID   contextKey = "run_id"
	ContextKeyItemKey contextKey = "item_key"
)

// WithRunID adds a batch run ID to the context
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, ContextKeyRunID, runID)
}

// RunIDFromContext extracts the batch run ID from context
func RunIDFromContext(ctx context.Context) string {
	if runID, ok := ctx.Value(ContextKeyRunID).(string); ok {
		return runID
	}
	return ""
}

// WithItemKey adds the key of the item being processed to the context
func WithItemKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, ContextKeyItemKey, key)
}

// ItemKeyFromContext extracts the item key from context
func ItemKeyFromContext(ctx context.Context) string {
	if key, ok := ctx.Value(ContextKeyItemKey).(string); ok {
		return key
	}
	return ""
}
