package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrProbe          = errors.New("probe error")
	ErrSceneDetection = errors.New("scene detection error")
	ErrTranscription  = errors.New("transcription error")
	ErrExternalTool   = errors.New("external tool error")
	ErrValidation     = errors.New("validation error")
	ErrConfiguration  = errors.New("configuration error")
	ErrTimeout        = errors.New("timeout")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsStructural reports whether err prevents an analysis record from being built.
// Probe and scene detection failures are structural; transcription failures are not.
func IsStructural(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrProbe) || errors.Is(err, ErrSceneDetection)
}

// IsCancellation reports whether err stems from the caller abandoning ctx.
// A stage-local deadline that expired while ctx itself is still live does not count.
func IsCancellation(ctx context.Context, err error) bool {
	if err == nil || ctx == nil || ctx.Err() == nil {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
