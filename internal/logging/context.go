package logging

import (
	"context"
	"log/slog"

	"cookierisk/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for predict run identifiers.
	FieldRunID = "run_id"
	// FieldItemIndex is the standardized structured logging key for 0-based batch positions.
	FieldItemIndex = "item_index"
	// FieldItemName is the standardized structured logging key for cookie names.
	FieldItemName = "item_name"
	// FieldEventType classifies warnings and errors for log queries.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step after a failure.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if index, name, ok := services.ItemFromContext(ctx); ok {
		fields = append(fields, slog.Int(FieldItemIndex, index))
		if name != "" {
			fields = append(fields, slog.String(FieldItemName, name))
		}
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
