package analysis

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"mediascope/internal/config"
	"mediascope/internal/logging"
	"mediascope/internal/media/ffprobe"
	"mediascope/internal/media/pcm"
	"mediascope/internal/media/streams"
	"mediascope/internal/scenes"
	"mediascope/internal/services"
	"mediascope/internal/speech"
	"mediascope/internal/transcribe"
)

// Prober reports the streams of a media file.
type Prober interface {
	Probe(ctx context.Context, path string) (ffprobe.Result, error)
}

// Sweeper runs the multi-threshold scene sweep.
type Sweeper interface {
	Sweep(ctx context.Context, src scenes.Source) (scenes.Result, error)
}

// Transcriber produces one utterance sequence per audio channel.
type Transcriber interface {
	Transcribe(ctx context.Context, path string, channels int) (transcribe.Result, error)
}

// Options wires an Analyzer. A nil Sweeper or Transcriber disables that stage.
type Options struct {
	Prober      Prober
	Sweeper     Sweeper
	Transcriber Transcriber
	Observer    Observer
	Logger      *slog.Logger
	// Fields is the default projection; empty means the reference preset.
	Fields               []Field
	SceneTimeout         time.Duration
	TranscriptionTimeout time.Duration
	// NewRunID overrides run id generation in tests.
	NewRunID func() string
}

// Analyzer runs single-pass analyses. It holds no per-run state and may be
// shared across goroutines analysing different files.
type Analyzer struct {
	prober               Prober
	sweeper              Sweeper
	transcriber          Transcriber
	observer             Observer
	logger               *slog.Logger
	fields               []Field
	sceneTimeout         time.Duration
	transcriptionTimeout time.Duration
	newRunID             func() string
}

// New constructs an Analyzer.
func New(opts Options) *Analyzer {
	observer := opts.Observer
	if observer == nil {
		observer = nopObserver{}
	}
	fields := append([]Field(nil), opts.Fields...)
	if len(fields) == 0 {
		fields = ReferenceFields()
	}
	newRunID := opts.NewRunID
	if newRunID == nil {
		newRunID = uuid.NewString
	}
	return &Analyzer{
		prober:               opts.Prober,
		sweeper:              opts.Sweeper,
		transcriber:          opts.Transcriber,
		observer:             observer,
		logger:               logging.NewComponentLogger(opts.Logger, "analysis"),
		fields:               fields,
		sceneTimeout:         opts.SceneTimeout,
		transcriptionTimeout: opts.TranscriptionTimeout,
		newRunID:             newRunID,
	}
}

// NewFromConfig wires the ffprobe prober, the ffmpeg scene detector and the
// ffmpeg-fed recognizer according to cfg.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) (*Analyzer, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "analysis", "setup", "config is nil", nil)
	}
	fields, err := ResolveFields(cfg.Projection.Preset, cfg.Projection.Fields)
	if err != nil {
		return nil, err
	}
	opts := Options{
		Prober:               ffprobe.NewProber(cfg.FFprobeBinary()),
		Observer:             NewLogObserver(logger),
		Logger:               logger,
		Fields:               fields,
		SceneTimeout:         cfg.SceneTimeout(),
		TranscriptionTimeout: cfg.TranscriptionTimeout(),
	}
	if cfg.Scenes.Enabled {
		detector := scenes.NewFFmpegDetector(cfg.FFmpegBinary(), cfg.Scenes.DownscaleWidth)
		opts.Sweeper = scenes.NewEngine(detector, cfg.Scenes.Thresholds, logger)
	}
	if cfg.Transcription.Enabled {
		opts.Transcriber = transcribe.New(transcribe.Options{
			Decoder:    pcm.NewDecoder(cfg.FFmpegBinary(), cfg.Transcription.SampleRate),
			Loader:     speech.NewLoader(),
			Model:      cfg.Transcription.Model,
			SampleRate: cfg.Transcription.SampleRate,
			ChunkBytes: cfg.Transcription.ChunkBytes,
			Logger:     logger,
		})
	}
	return New(opts), nil
}

// Fields returns the analyzer's default projection fields.
func (a *Analyzer) Fields() []Field {
	return append([]Field(nil), a.fields...)
}

// Project renders rec with the analyzer's default fields.
func (a *Analyzer) Project(rec *Record) (Projection, error) {
	return rec.Project(a.fields...)
}

type run struct {
	machine
	ctx    context.Context
	record *Record
}

// Analyze runs identity, classification, scene sweep and transcription in that
// order. Probe and scene failures return a nil record and an error carrying
// ErrProbe or ErrSceneDetection. Cancelling ctx aborts the run at the next
// suspension point.
func (a *Analyzer) Analyze(ctx context.Context, path string) (*Record, error) {
	runID := a.newRunID()
	ctx = services.WithRunID(ctx, runID)
	r := &run{
		machine: machine{state: StateCreated},
		ctx:     ctx,
		record:  &Record{runID: runID},
	}

	r.advance(StateIdentifying)
	if err := a.identify(r, path); err != nil {
		return nil, a.fail(r, err)
	}

	r.advance(StateClassifying)
	probe, err := a.classify(r)
	if err != nil {
		return nil, a.fail(r, err)
	}

	if err := a.sweepScenes(r, probe); err != nil {
		return nil, a.fail(r, err)
	}

	if err := a.transcribe(r); err != nil {
		return nil, a.fail(r, err)
	}

	r.advance(StateComplete)
	r.record.state = r.state
	logging.WithContext(ctx, a.logger).Info("analysis complete",
		logging.String(logging.FieldEventType, "analysis_complete"),
		logging.String("file", r.record.identity.FilePath),
		logging.Int("video_streams", r.record.video.Len()),
		logging.Int("audio_streams", r.record.audio.Len()),
		logging.Int("utterances", r.record.dictation.UtteranceCount()),
	)
	return r.record, nil
}

func (a *Analyzer) fail(r *run, err error) error {
	r.advance(StateFailed)
	logging.WithContext(r.ctx, a.logger).Debug("analysis aborted",
		logging.String("state", string(r.state)),
		logging.Error(err),
	)
	return err
}

func (a *Analyzer) begin(r *run, stage Stage) (context.Context, time.Time) {
	ctx := services.WithStage(r.ctx, string(stage))
	a.observer.StageStarted(ctx, stage)
	return ctx, time.Now()
}

func (a *Analyzer) finish(ctx context.Context, r *run, report StageReport, started time.Time) {
	report.Duration = time.Since(started)
	r.record.stages = append(r.record.stages, report)
	a.observer.StageFinished(ctx, report)
}

func (a *Analyzer) identify(r *run, path string) error {
	ctx, started := a.begin(r, StageIdentify)
	identity := NewIdentity(path)
	if strings.TrimSpace(identity.FileName) == "" {
		err := services.Wrap(services.ErrValidation, string(StageIdentify), "path", "no file name in "+quoteOrEmpty(path), nil)
		a.finish(ctx, r, StageReport{Stage: StageIdentify, Status: StatusFailed, Err: err}, started)
		return err
	}
	r.record.identity = identity
	a.finish(ctx, r, StageReport{Stage: StageIdentify, Status: StatusCompleted}, started)
	return nil
}

func (a *Analyzer) classify(r *run) (ffprobe.Result, error) {
	ctx, started := a.begin(r, StageClassify)
	fail := func(err error) (ffprobe.Result, error) {
		a.finish(ctx, r, StageReport{Stage: StageClassify, Status: StatusFailed, Err: err}, started)
		return ffprobe.Result{}, err
	}
	if a.prober == nil {
		return fail(services.Wrap(services.ErrProbe, string(StageClassify), "probe", "prober unavailable", nil))
	}
	if err := ctx.Err(); err != nil {
		return fail(services.Wrap(services.ErrProbe, string(StageClassify), "probe", "cancelled", err))
	}
	probe, err := a.prober.Probe(ctx, r.record.identity.FilePath)
	if err != nil {
		return fail(services.Wrap(services.ErrProbe, string(StageClassify), "probe", r.record.identity.FilePath, err))
	}
	entries := probe.Entries()
	classes := streams.ClassifyAll(entries)
	r.record.video = classes.Video
	r.record.audio = classes.Audio
	a.crossCheckCounts(ctx, probe, classes)
	a.finish(ctx, r, StageReport{Stage: StageClassify, Status: StatusCompleted}, started)
	return probe, nil
}

// crossCheckCounts compares the key-based classification with ffprobe's exact
// codec_type counts. They differ only when a codec_type merely contains a kind
// name; the classified counts stay authoritative.
func (a *Analyzer) crossCheckCounts(ctx context.Context, probe ffprobe.Result, classes streams.Classification) {
	logger := logging.WithContext(ctx, a.logger)
	video, audio := probe.VideoStreamCount(), probe.AudioStreamCount()
	match := video == classes.Video.Len() && audio == classes.Audio.Len()
	attrs := []logging.Attr{
		logging.Int("streams", len(probe.Streams)),
		logging.Bool("counts_match", match),
		logging.Any("size_bytes", probe.SizeBytes()),
	}
	if seconds := probe.DurationSeconds(); seconds > 0 && !math.IsInf(seconds, 0) {
		attrs = append(attrs, logging.Float64("duration_seconds", seconds))
	}
	logger.Debug("probe classified", logging.Args(attrs...)...)
	if match {
		return
	}
	logging.WarnWithContext(logger, "classified stream counts differ from codec types", "stream_count_mismatch",
		logging.Int("classified_video", classes.Video.Len()),
		logging.Int("codec_video", video),
		logging.Int("classified_audio", classes.Audio.Len()),
		logging.Int("codec_audio", audio),
		logging.String(logging.FieldErrorHint, "inspect codec_type values in the ffprobe report"),
		logging.String(logging.FieldImpact, "downstream stages use the classified counts"),
	)
}

func (a *Analyzer) sweepScenes(r *run, probe ffprobe.Result) error {
	ctx, started := a.begin(r, StageScenes)
	switch {
	case a.sweeper == nil:
		r.advance(StateScenesSkipped)
		a.finish(ctx, r, StageReport{Stage: StageScenes, Status: StatusSkipped, Detail: "disabled"}, started)
		return nil
	case r.record.video.Len() == 0:
		r.advance(StateScenesSkipped)
		a.finish(ctx, r, StageReport{Stage: StageScenes, Status: StatusSkipped, Detail: "no video streams"}, started)
		return nil
	}

	r.advance(StateSceneSweeping)
	sweepCtx, cancel := withOptionalTimeout(ctx, a.sceneTimeout)
	defer cancel()
	result, err := a.sweeper.Sweep(sweepCtx, scenes.Source{
		Path:     r.record.identity.FilePath,
		Duration: probe.Format.Duration,
	})
	if err != nil {
		if !errors.Is(err, services.ErrSceneDetection) {
			err = services.Wrap(services.ErrSceneDetection, string(StageScenes), "sweep", "", err)
		}
		a.finish(ctx, r, StageReport{Stage: StageScenes, Status: StatusFailed, Err: err}, started)
		return err
	}
	r.record.scenes = result
	a.finish(ctx, r, StageReport{Stage: StageScenes, Status: StatusCompleted}, started)
	return nil
}

func (a *Analyzer) transcribe(r *run) error {
	ctx, started := a.begin(r, StageTranscribe)
	channels := r.record.audio.Len()
	r.record.dictation = transcribe.EmptyResult(channels)
	switch {
	case a.transcriber == nil:
		r.advance(StateTranscriptionSkipped)
		a.finish(ctx, r, StageReport{Stage: StageTranscribe, Status: StatusSkipped, Detail: "disabled"}, started)
		return nil
	case channels == 0:
		r.advance(StateTranscriptionSkipped)
		a.finish(ctx, r, StageReport{Stage: StageTranscribe, Status: StatusSkipped, Detail: "no audio streams"}, started)
		return nil
	}

	r.advance(StateTranscribing)
	transcribeCtx, cancel := withOptionalTimeout(ctx, a.transcriptionTimeout)
	defer cancel()
	result, err := a.transcriber.Transcribe(transcribeCtx, r.record.identity.FilePath, channels)
	if result.Len() == channels {
		r.record.dictation = result
	}
	if err == nil {
		a.finish(ctx, r, StageReport{Stage: StageTranscribe, Status: StatusCompleted}, started)
		return nil
	}
	if !errors.Is(err, services.ErrTranscription) {
		err = services.Wrap(services.ErrTranscription, string(StageTranscribe), "transcribe", "", err)
	}
	if services.IsCancellation(r.ctx, err) {
		a.finish(ctx, r, StageReport{Stage: StageTranscribe, Status: StatusFailed, Err: err}, started)
		return err
	}

	logging.ErrorWithContext(logging.WithContext(ctx, a.logger), "transcription failed", "transcription_failed",
		logging.Error(err),
		logging.Int("channels", channels),
		logging.String(logging.FieldErrorHint, failureHint(StageTranscribe)),
		logging.String(logging.FieldImpact, "record produced without complete dictation"),
	)
	a.finish(ctx, r, StageReport{Stage: StageTranscribe, Status: StatusDegraded, Err: err}, started)
	return nil
}

func withOptionalTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func quoteOrEmpty(path string) string {
	if path == "" {
		return "empty path"
	}
	return `"` + path + `"`
}
