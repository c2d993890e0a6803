package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldSampleIndex is the standardized structured logging key for an audio sample's index.
	FieldSampleIndex = "sample_index"
	// FieldPass is the standardized structured logging key for the synchronizer pass (initial/refine).
	FieldPass = "pass"
	// FieldPhase is the standardized structured logging key for pipeline phase (extract/transcribe).
	FieldPhase = "phase"
)

type contextKey int

const (
	sampleIndexKey contextKey = iota
	passKey
	phaseKey
)

// WithSampleIndex returns a context carrying a sample index for log fields.
func WithSampleIndex(ctx context.Context, index int) context.Context {
	return context.WithValue(ctx, sampleIndexKey, index)
}

// WithPass returns a context carrying the current synchronizer pass name.
func WithPass(ctx context.Context, pass string) context.Context {
	return context.WithValue(ctx, passKey, pass)
}

// WithPhase returns a context carrying the current pipeline phase name.
func WithPhase(ctx context.Context, phase string) context.Context {
	return context.WithValue(ctx, phaseKey, phase)
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if index, ok := ctx.Value(sampleIndexKey).(int); ok {
		fields = append(fields, slog.Int(FieldSampleIndex, index))
	}
	if pass, ok := ctx.Value(passKey).(string); ok {
		fields = append(fields, slog.String(FieldPass, pass))
	}
	if phase, ok := ctx.Value(phaseKey).(string); ok {
		fields = append(fields, slog.String(FieldPhase, phase))
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
