package config_test

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"mediascope/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("MEDIASCOPE_VOSK_MODEL", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLogs := filepath.Join(tempHome, ".local", "share", "mediascope", "logs")
	if cfg.Paths.LogDir != wantLogs {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogs)
	}
	wantReports := filepath.Join(tempHome, ".local", "share", "mediascope", "reports")
	if cfg.Paths.ReportDir != wantReports {
		t.Fatalf("unexpected report dir: got %q want %q", cfg.Paths.ReportDir, wantReports)
	}
	if !strings.HasPrefix(cfg.Transcription.Model, tempHome) {
		t.Fatalf("expected model path under HOME, got %q", cfg.Transcription.Model)
	}
	if !reflect.DeepEqual(cfg.Scenes.Thresholds, []float64{30, 50, 70, 90}) {
		t.Fatalf("unexpected default thresholds: %v", cfg.Scenes.Thresholds)
	}
	if cfg.Transcription.SampleRate != 16000 {
		t.Fatalf("unexpected sample rate: %d", cfg.Transcription.SampleRate)
	}
	if cfg.Transcription.ChunkBytes != 4000 {
		t.Fatalf("unexpected chunk size: %d", cfg.Transcription.ChunkBytes)
	}
	if cfg.Projection.Preset != config.ProjectionReference {
		t.Fatalf("unexpected projection preset: %q", cfg.Projection.Preset)
	}
	if cfg.FFmpegBinary() != "ffmpeg" || cfg.FFprobeBinary() != "ffprobe" {
		t.Fatalf("unexpected tool defaults: %q %q", cfg.FFmpegBinary(), cfg.FFprobeBinary())
	}
	if cfg.SceneTimeout() != 0 || cfg.TranscriptionTimeout() != 0 {
		t.Fatal("expected unbounded stage timeouts by default")
	}
}

func TestLoadCustomPathAndNormalization(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("MEDIASCOPE_VOSK_MODEL", "")

	configPath := filepath.Join(t.TempDir(), "config.toml")
	payload := struct {
		Paths struct {
			ReportDir string `toml:"report_dir"`
		} `toml:"paths"`
		Scenes struct {
			Thresholds     []float64 `toml:"thresholds"`
			TimeoutSeconds int       `toml:"timeout_seconds"`
		} `toml:"scenes"`
		Projection struct {
			Preset string   `toml:"preset"`
			Fields []string `toml:"fields"`
		} `toml:"projection"`
		Logging struct {
			Format string `toml:"format"`
			Level  string `toml:"level"`
		} `toml:"logging"`
	}{}
	payload.Paths.ReportDir = "~/reports"
	payload.Scenes.Thresholds = []float64{90, 30, 60}
	payload.Scenes.TimeoutSeconds = 120
	payload.Projection.Preset = " FULL "
	payload.Projection.Fields = []string{" File_Path ", "", "video_scenes"}
	payload.Logging.Format = "JSON"
	payload.Logging.Level = "WARN"

	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected config at %q, got %q exists=%v", configPath, resolved, exists)
	}
	if cfg.Paths.ReportDir != filepath.Join(tempHome, "reports") {
		t.Fatalf("unexpected report dir: %q", cfg.Paths.ReportDir)
	}
	if !reflect.DeepEqual(cfg.Scenes.Thresholds, []float64{30, 60, 90}) {
		t.Fatalf("expected sorted thresholds, got %v", cfg.Scenes.Thresholds)
	}
	if cfg.SceneTimeout().Seconds() != 120 {
		t.Fatalf("unexpected scene timeout: %v", cfg.SceneTimeout())
	}
	if cfg.Projection.Preset != config.ProjectionFull {
		t.Fatalf("unexpected preset: %q", cfg.Projection.Preset)
	}
	if !reflect.DeepEqual(cfg.Projection.Fields, []string{"file_path", "video_scenes"}) {
		t.Fatalf("unexpected projection fields: %v", cfg.Projection.Fields)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "warn" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[scenes]\nthreshold = 30\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
}

func TestModelEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	modelDir := t.TempDir()
	t.Setenv("MEDIASCOPE_VOSK_MODEL", modelDir)

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Transcription.Model != modelDir {
		t.Fatalf("expected model from env, got %q", cfg.Transcription.Model)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"empty thresholds", func(c *config.Config) { c.Scenes.Thresholds = nil }, "scenes.thresholds"},
		{"threshold too high", func(c *config.Config) { c.Scenes.Thresholds = []float64{30, 120} }, "scenes.thresholds"},
		{"threshold zero", func(c *config.Config) { c.Scenes.Thresholds = []float64{0} }, "scenes.thresholds"},
		{"duplicate threshold", func(c *config.Config) { c.Scenes.Thresholds = []float64{30, 30} }, "duplicate"},
		{"tiny downscale", func(c *config.Config) { c.Scenes.DownscaleWidth = 8 }, "downscale_width"},
		{"sample rate", func(c *config.Config) { c.Transcription.SampleRate = 44100 }, "sample_rate"},
		{"odd chunk", func(c *config.Config) { c.Transcription.ChunkBytes = 4001 }, "chunk_bytes"},
		{"negative timeout", func(c *config.Config) { c.Transcription.TimeoutSeconds = -1 }, "timeout_seconds"},
		{"bad preset", func(c *config.Config) { c.Projection.Preset = "partial" }, "projection.preset"},
		{"duplicate field", func(c *config.Config) { c.Projection.Fields = []string{"file_path", "file_path"} }, "duplicate field"},
		{"unknown field", func(c *config.Config) { c.Projection.Fields = []string{"file_path", "bogus_field"} }, "unknown field"},
		{"bad level", func(c *config.Config) { c.Logging.Level = "trace" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in %q", tt.want, err.Error())
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("MEDIASCOPE_VOSK_MODEL", "")
	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := config.Load(target)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if len(cfg.Scenes.Thresholds) != 4 {
		t.Fatalf("unexpected sample thresholds: %v", cfg.Scenes.Thresholds)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.ReportDir = filepath.Join(base, "reports")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LogDir, cfg.Paths.ReportDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
}
