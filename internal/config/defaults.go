package config

const (
	defaultConfigPath      = "~/.config/mediascope/config.toml"
	defaultLogDir          = "~/.local/share/mediascope/logs"
	defaultReportDir       = "~/.local/share/mediascope/reports"
	defaultVoskModel       = "~/.local/share/mediascope/models/vosk-model-small-en-us-0.15"
	defaultFFmpegBinary    = "ffmpeg"
	defaultFFprobeBinary   = "ffprobe"
	defaultDownscaleWidth  = 320
	defaultSampleRate      = 16000
	defaultChunkBytes      = 4000
	defaultProjectionSet   = ProjectionReference
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	minDownscaleWidth      = 16
	maxSceneThreshold      = 100.0
	voskModelEnvVar        = "MEDIASCOPE_VOSK_MODEL"
	transcriptionSampleHz  = defaultSampleRate
	defaultSceneTimeoutSec = 0
)

// Projection presets.
const (
	ProjectionReference = "reference"
	ProjectionFull      = "full"
)

// ProjectionFieldNames lists every field name accepted by projection.fields,
// in full-preset order.
var ProjectionFieldNames = []string{
	"file_path",
	"file_name",
	"file_directory_path",
	"file_extension",
	"number_of_video_streams",
	"number_of_audio_streams",
	"video_streams_info",
	"audio_dictation",
	"audio_streams_info",
	"video_scenes",
	"run_id",
	"stages",
}

// DefaultSceneThresholds is the sensitivity set swept when none is configured.
var DefaultSceneThresholds = []float64{30, 50, 70, 90}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:    defaultLogDir,
			ReportDir: defaultReportDir,
		},
		Tools: Tools{
			FFmpeg:  defaultFFmpegBinary,
			FFprobe: defaultFFprobeBinary,
		},
		Scenes: Scenes{
			Enabled:        true,
			Thresholds:     append([]float64(nil), DefaultSceneThresholds...),
			DownscaleWidth: defaultDownscaleWidth,
			TimeoutSeconds: defaultSceneTimeoutSec,
		},
		Transcription: Transcription{
			Enabled:    true,
			Model:      defaultVoskModel,
			SampleRate: defaultSampleRate,
			ChunkBytes: defaultChunkBytes,
		},
		Projection: Projection{
			Preset: defaultProjectionSet,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
