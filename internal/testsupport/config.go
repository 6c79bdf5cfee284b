// Package testsupport builds throwaway configurations and stub tools for tests.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"mediascope/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.ReportDir = filepath.Join(base, "reports")
	cfgVal.Transcription.Model = filepath.Join(base, "model")
	cfgVal.Logging.Level = "error"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithStagesDisabled turns off scene detection and transcription.
func WithStagesDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scenes.Enabled = false
		b.cfg.Transcription.Enabled = false
	}
}

// WithStubTool writes an executable shell script named name under the base
// directory and points the matching [tools] entry at it. Names other than
// ffmpeg and ffprobe are only written.
func WithStubTool(name, script string) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		target := filepath.Join(binDir, name)
		if err := os.WriteFile(target, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
			b.t.Fatalf("write stub %s: %v", name, err)
		}
		switch name {
		case "ffprobe":
			b.cfg.Tools.FFprobe = target
		case "ffmpeg":
			b.cfg.Tools.FFmpeg = target
		}
	}
}

// WithMissingTool points the named [tools] entry at a path that does not exist.
func WithMissingTool(name string) ConfigOption {
	return func(b *configBuilder) {
		missing := filepath.Join(b.baseDir, "missing", name)
		switch name {
		case "ffprobe":
			b.cfg.Tools.FFprobe = missing
		case "ffmpeg":
			b.cfg.Tools.FFmpeg = missing
		}
	}
}

// WriteConfigFile encodes cfg as TOML next to its temp directories and returns the path.
func WriteConfigFile(t testing.TB, cfg *config.Config) string {
	t.Helper()
	payload, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	path := filepath.Join(BaseDir(cfg), "config.toml")
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}
