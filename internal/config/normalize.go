package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeScenes()
	if err := c.normalizeTranscription(); err != nil {
		return err
	}
	c.normalizeProjection()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ReportDir) == "" {
		c.Paths.ReportDir = defaultReportDir
	}
	if c.Paths.ReportDir, err = expandPath(c.Paths.ReportDir); err != nil {
		return fmt.Errorf("paths.report_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() {
	c.Tools.FFmpeg = strings.TrimSpace(c.Tools.FFmpeg)
	if c.Tools.FFmpeg == "" {
		c.Tools.FFmpeg = defaultFFmpegBinary
	}
	c.Tools.FFprobe = strings.TrimSpace(c.Tools.FFprobe)
	if c.Tools.FFprobe == "" {
		c.Tools.FFprobe = defaultFFprobeBinary
	}
}

// normalizeScenes sorts the threshold set so sweeps always run in ascending order.
// Duplicates are kept here and rejected by validation.
func (c *Config) normalizeScenes() {
	if len(c.Scenes.Thresholds) == 0 {
		c.Scenes.Thresholds = append([]float64(nil), DefaultSceneThresholds...)
	}
	thresholds := append([]float64(nil), c.Scenes.Thresholds...)
	sort.Float64s(thresholds)
	c.Scenes.Thresholds = thresholds
	if c.Scenes.DownscaleWidth == 0 {
		c.Scenes.DownscaleWidth = defaultDownscaleWidth
	}
}

func (c *Config) normalizeTranscription() error {
	c.Transcription.Model = strings.TrimSpace(c.Transcription.Model)
	if value, ok := os.LookupEnv(voskModelEnvVar); ok && strings.TrimSpace(value) != "" {
		c.Transcription.Model = strings.TrimSpace(value)
	}
	if c.Transcription.Model == "" {
		c.Transcription.Model = defaultVoskModel
	}
	var err error
	if c.Transcription.Model, err = expandPath(c.Transcription.Model); err != nil {
		return fmt.Errorf("transcription.model: %w", err)
	}
	if c.Transcription.SampleRate == 0 {
		c.Transcription.SampleRate = defaultSampleRate
	}
	if c.Transcription.ChunkBytes == 0 {
		c.Transcription.ChunkBytes = defaultChunkBytes
	}
	return nil
}

func (c *Config) normalizeProjection() {
	c.Projection.Preset = strings.ToLower(strings.TrimSpace(c.Projection.Preset))
	if c.Projection.Preset == "" {
		c.Projection.Preset = defaultProjectionSet
	}
	fields := make([]string, 0, len(c.Projection.Fields))
	for _, field := range c.Projection.Fields {
		field = strings.ToLower(strings.TrimSpace(field))
		if field == "" {
			continue
		}
		fields = append(fields, field)
	}
	c.Projection.Fields = fields
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
