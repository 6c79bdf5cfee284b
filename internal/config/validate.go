package config

import (
	"errors"
	"fmt"
	"slices"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateScenes(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateProjection(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateScenes() error {
	if len(c.Scenes.Thresholds) == 0 {
		return errors.New("scenes.thresholds must include at least one threshold")
	}
	for i, threshold := range c.Scenes.Thresholds {
		if threshold <= 0 || threshold > maxSceneThreshold {
			return fmt.Errorf("scenes.thresholds: %v must be in (0, %v]", threshold, maxSceneThreshold)
		}
		if i > 0 && threshold == c.Scenes.Thresholds[i-1] {
			return fmt.Errorf("scenes.thresholds: duplicate threshold %v", threshold)
		}
	}
	if c.Scenes.DownscaleWidth < minDownscaleWidth {
		return fmt.Errorf("scenes.downscale_width must be at least %d", minDownscaleWidth)
	}
	if c.Scenes.TimeoutSeconds < 0 {
		return errors.New("scenes.timeout_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateTranscription() error {
	if c.Transcription.SampleRate != transcriptionSampleHz {
		return fmt.Errorf("transcription.sample_rate must be %d", transcriptionSampleHz)
	}
	if c.Transcription.ChunkBytes <= 0 {
		return errors.New("transcription.chunk_bytes must be positive")
	}
	if c.Transcription.ChunkBytes%2 != 0 {
		return errors.New("transcription.chunk_bytes must be even (16-bit samples)")
	}
	if c.Transcription.TimeoutSeconds < 0 {
		return errors.New("transcription.timeout_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateProjection() error {
	switch c.Projection.Preset {
	case ProjectionReference, ProjectionFull:
	default:
		return fmt.Errorf("projection.preset: unsupported value %q (use %q or %q)", c.Projection.Preset, ProjectionReference, ProjectionFull)
	}
	seen := make(map[string]struct{}, len(c.Projection.Fields))
	for _, field := range c.Projection.Fields {
		if !slices.Contains(ProjectionFieldNames, field) {
			return fmt.Errorf("projection.fields: unknown field %q", field)
		}
		if _, ok := seen[field]; ok {
			return fmt.Errorf("projection.fields: duplicate field %q", field)
		}
		seen[field] = struct{}{}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
