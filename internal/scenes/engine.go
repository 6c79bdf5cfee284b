package scenes

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"mediascope/internal/logging"
	"mediascope/internal/services"
)

// Source identifies the video to sweep. Duration is the container duration in
// the prober's textual seconds; empty when unknown.
type Source struct {
	Path     string
	Duration string
}

// Detector finds scene boundaries at a single sensitivity threshold.
type Detector interface {
	Detect(ctx context.Context, src Source, threshold float64) ([]Boundary, error)
}

// Engine sweeps a fixed threshold set.
type Engine struct {
	detector   Detector
	thresholds []float64
	logger     *slog.Logger
}

// NewEngine constructs an Engine. Thresholds are copied and sorted ascending.
func NewEngine(detector Detector, thresholds []float64, logger *slog.Logger) *Engine {
	sorted := append([]float64(nil), thresholds...)
	sort.Float64s(sorted)
	return &Engine{
		detector:   detector,
		thresholds: sorted,
		logger:     logging.NewComponentLogger(logger, "scenes"),
	}
}

// Thresholds returns the engine's threshold set.
func (e *Engine) Thresholds() []float64 {
	return append([]float64(nil), e.thresholds...)
}

// Sweep runs the detector once per threshold in ascending order. Any detector
// error or malformed boundary list fails the whole sweep with ErrSceneDetection.
func (e *Engine) Sweep(ctx context.Context, src Source) (Result, error) {
	if e.detector == nil {
		return Result{}, services.Wrap(services.ErrSceneDetection, "scenes", "setup", "detector unavailable", nil)
	}
	if len(e.thresholds) == 0 {
		return Result{}, services.Wrap(services.ErrSceneDetection, "scenes", "setup", "no thresholds configured", nil)
	}

	sweeps := make([]ThresholdScenes, 0, len(e.thresholds))
	for _, threshold := range e.thresholds {
		if err := ctx.Err(); err != nil {
			return Result{}, services.Wrap(services.ErrSceneDetection, "scenes", "sweep", "cancelled", err)
		}
		thresholdCtx := services.WithThreshold(ctx, threshold)
		logger := logging.WithContext(thresholdCtx, e.logger)
		started := time.Now()

		boundaries, err := e.detector.Detect(thresholdCtx, src, threshold)
		if err != nil {
			return Result{}, services.Wrap(services.ErrSceneDetection, "scenes", "detect", fmt.Sprintf("threshold %s", FormatThreshold(threshold)), err)
		}
		scenes, err := index(boundaries)
		if err != nil {
			return Result{}, services.Wrap(services.ErrSceneDetection, "scenes", "index", fmt.Sprintf("threshold %s", FormatThreshold(threshold)), err)
		}
		logger.Debug("threshold swept",
			logging.Int("scene_count", len(scenes)),
			logging.Duration("elapsed", time.Since(started)),
		)
		sweeps = append(sweeps, ThresholdScenes{Threshold: threshold, Scenes: scenes})
	}
	return Result{sweeps: sweeps}, nil
}

// index numbers boundaries 1..N in emission order and checks that they are
// ordered by start and do not overlap.
func index(boundaries []Boundary) ([]Scene, error) {
	scenes := make([]Scene, 0, len(boundaries))
	for i, b := range boundaries {
		if !finite(b.Start.Seconds) || !finite(b.End.Seconds) {
			return nil, fmt.Errorf("scene %d has a non-finite timecode (%s, %s)", i+1, b.Start, b.End)
		}
		if b.End.Seconds < b.Start.Seconds {
			return nil, fmt.Errorf("scene %d ends (%s) before it starts (%s)", i+1, b.End, b.Start)
		}
		if i > 0 {
			prev := boundaries[i-1]
			if b.Start.Seconds < prev.End.Seconds {
				return nil, fmt.Errorf("scene %d starts (%s) before scene %d ends (%s)", i+1, b.Start, i, prev.End)
			}
		}
		scenes = append(scenes, Scene{Order: i + 1, Start: b.Start, End: b.End})
	}
	return scenes, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
