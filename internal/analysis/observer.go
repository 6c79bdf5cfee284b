package analysis

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"mediascope/internal/logging"
)

// Stage names one step of an analysis run.
type Stage string

const (
	StageIdentify   Stage = "identify"
	StageClassify   Stage = "classify"
	StageScenes     Stage = "scenes"
	StageTranscribe Stage = "transcribe"
)

// StageStatus is the outcome of a stage.
type StageStatus string

const (
	StatusCompleted StageStatus = "completed"
	StatusSkipped   StageStatus = "skipped"
	StatusDegraded  StageStatus = "degraded"
	StatusFailed    StageStatus = "failed"
)

// StageReport summarizes one finished stage.
type StageReport struct {
	Stage    Stage
	Status   StageStatus
	Duration time.Duration
	// Detail explains a skip ("no video streams", "disabled").
	Detail string
	Err    error
}

// MarshalJSON renders the report with the error flattened to text.
func (r StageReport) MarshalJSON() ([]byte, error) {
	payload := struct {
		Stage      Stage       `json:"stage"`
		Status     StageStatus `json:"status"`
		DurationMS int64       `json:"duration_ms"`
		Detail     string      `json:"detail,omitempty"`
		Error      string      `json:"error,omitempty"`
	}{
		Stage:      r.Stage,
		Status:     r.Status,
		DurationMS: r.Duration.Milliseconds(),
		Detail:     r.Detail,
	}
	if r.Err != nil {
		payload.Error = r.Err.Error()
	}
	return json.Marshal(payload)
}

// Observer receives stage lifecycle events. Calls happen on the goroutine
// running Analyze, in stage order.
type Observer interface {
	StageStarted(ctx context.Context, stage Stage)
	StageFinished(ctx context.Context, report StageReport)
}

type nopObserver struct{}

func (nopObserver) StageStarted(context.Context, Stage)        {}
func (nopObserver) StageFinished(context.Context, StageReport) {}

// LogObserver writes stage events to a structured logger.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver returns an Observer backed by logger.
func NewLogObserver(logger *slog.Logger) *LogObserver {
	return &LogObserver{logger: logging.NewComponentLogger(logger, "analysis")}
}

func (o *LogObserver) StageStarted(ctx context.Context, stage Stage) {
	logging.WithContext(ctx, o.logger).Debug("stage started",
		logging.String(logging.FieldEventType, "stage_start"),
	)
}

func (o *LogObserver) StageFinished(ctx context.Context, report StageReport) {
	logger := logging.WithContext(ctx, o.logger)
	attrs := []logging.Attr{
		logging.String("status", string(report.Status)),
		logging.Duration("elapsed", report.Duration),
	}
	if report.Detail != "" {
		attrs = append(attrs, logging.String("detail", report.Detail))
	}
	switch report.Status {
	case StatusFailed:
		attrs = append(attrs,
			logging.Error(report.Err),
			logging.String(logging.FieldErrorHint, failureHint(report.Stage)),
		)
		logging.ErrorWithContext(logger, "stage failed", "stage_failed", attrs...)
	case StatusDegraded:
		attrs = append(attrs, logging.Error(report.Err))
		logger.Info("stage degraded", logging.Args(append(attrs, logging.String(logging.FieldEventType, "stage_degraded"))...)...)
	default:
		logger.Info("stage finished", logging.Args(append(attrs, logging.String(logging.FieldEventType, "stage_complete"))...)...)
	}
}

func failureHint(stage Stage) string {
	switch stage {
	case StageIdentify:
		return "pass a path to a media file"
	case StageClassify:
		return "confirm ffprobe is installed and the file is a readable media container"
	case StageScenes:
		return "confirm ffmpeg can decode the first video stream"
	case StageTranscribe:
		return "confirm ffmpeg is installed and the recognizer model path is valid"
	default:
		return "check logs for details"
	}
}
