package services

import "context"

type contextKey string

const (
	runIDKey     contextKey = "run_id"
	itemNameKey  contextKey = "item_name"
	itemIndexKey contextKey = "item_index"
)

// WithRunID annotates context with the predict run correlation identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithItem annotates context with the batch item being processed.
func WithItem(ctx context.Context, index int, name string) context.Context {
	ctx = context.WithValue(ctx, itemIndexKey, index)
	return context.WithValue(ctx, itemNameKey, name)
}

// ItemFromContext returns the batch item position and name if present.
func ItemFromContext(ctx context.Context) (int, string, bool) {
	index, ok := ctx.Value(itemIndexKey).(int)
	if !ok {
		return 0, "", false
	}
	name, _ := ctx.Value(itemNameKey).(string)
	return index, name, true
}
