package logger

import (
	"context"

	"go.uber.org/zap"
)

// contextKey is a type for context keys used by the logger package
type contextKey string

const (
	// LoggerKey is the context key for the logger
	LoggerKey contextKey = "logger"
	// CabinetIDKey is the context key for the cabinet being synced
	CabinetIDKey contextKey = "cabinet_id"
	// StageKey is the context key for the current sync stage
	StageKey contextKey = "sync_stage"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from context, returns a no-op logger
// if not found
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithCabinet attaches the cabinet id to the context and returns a logger
// that stamps it on every entry. Sync code threads this context through
// the whole pipeline instead of relying on any ambient state.
func WithCabinet(ctx context.Context, logger *zap.Logger, cabinetID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, CabinetIDKey, cabinetID)
	enriched := logger.With(zap.String("cabinet_id", cabinetID))
	return WithContext(ctx, enriched), enriched
}

// WithStage attaches the sync stage name to the context and returns a
// logger stamped with it
func WithStage(ctx context.Context, logger *zap.Logger, stage string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, StageKey, stage)
	enriched := logger.With(zap.String("stage", stage))
	return WithContext(ctx, enriched), enriched
}

// GetCabinetID retrieves the cabinet id from context
func GetCabinetID(ctx context.Context) string {
	if id, ok := ctx.Value(CabinetIDKey).(string); ok {
		return id
	}
	return ""
}

// GetStage retrieves the sync stage from context
func GetStage(ctx context.Context) string {
	if stage, ok := ctx.Value(StageKey).(string); ok {
		return stage
	}
	return ""
}
