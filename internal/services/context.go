package services

import "context"

type contextKey string

const (
	runIDKey     contextKey = "run_id"
	stageKey     contextKey = "stage"
	channelKey   contextKey = "channel"
	thresholdKey contextKey = "threshold"
)

// WithRunID annotates context with the analysis run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the analysis run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithStage annotates context with the analysis stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(stageKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithChannel annotates context with the 1-based audio channel being transcribed.
func WithChannel(ctx context.Context, channel int) context.Context {
	if channel <= 0 {
		return ctx
	}
	return context.WithValue(ctx, channelKey, channel)
}

// ChannelFromContext returns the audio channel if present.
func ChannelFromContext(ctx context.Context) (int, bool) {
	if v, ok := ctx.Value(channelKey).(int); ok && v > 0 {
		return v, true
	}
	return 0, false
}

// WithThreshold annotates context with the scene sensitivity threshold being swept.
func WithThreshold(ctx context.Context, threshold float64) context.Context {
	return context.WithValue(ctx, thresholdKey, threshold)
}

// ThresholdFromContext returns the scene threshold if present.
func ThresholdFromContext(ctx context.Context) (float64, bool) {
	v, ok := ctx.Value(thresholdKey).(float64)
	return v, ok
}
