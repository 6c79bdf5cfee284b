package transcribe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"mediascope/internal/logging"
	"mediascope/internal/services"
	"mediascope/internal/speech"
)

const (
	// DefaultChunkBytes is the PCM chunk fed to the recognizer per call.
	DefaultChunkBytes = 4000
	// DefaultSampleRate is the only rate the recognizer models accept.
	DefaultSampleRate = 16000
)

// Decoder opens a mono PCM stream for a 1-based audio channel.
type Decoder interface {
	Open(ctx context.Context, path string, channel int) (io.ReadCloser, error)
}

// Options configures a Transcriber.
type Options struct {
	Decoder    Decoder
	Loader     speech.Loader
	Model      string
	SampleRate int
	ChunkBytes int
	Logger     *slog.Logger
}

// Transcriber turns audio channels into utterance sequences.
type Transcriber struct {
	decoder    Decoder
	loader     speech.Loader
	model      string
	sampleRate int
	chunkBytes int
	logger     *slog.Logger
}

// New constructs a Transcriber, applying defaults for zero values.
func New(opts Options) *Transcriber {
	sampleRate := opts.SampleRate
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	chunk := opts.ChunkBytes
	if chunk <= 0 {
		chunk = DefaultChunkBytes
	}
	return &Transcriber{
		decoder:    opts.Decoder,
		loader:     opts.Loader,
		model:      strings.TrimSpace(opts.Model),
		sampleRate: sampleRate,
		chunkBytes: chunk,
		logger:     logging.NewComponentLogger(opts.Logger, "transcribe"),
	}
}

// Transcribe processes channels 1..channels in order. The returned Result always
// has an entry for every channel; on error, channels that did not finish are
// left empty and the error carries ErrTranscription.
func (t *Transcriber) Transcribe(ctx context.Context, path string, channels int) (Result, error) {
	result := EmptyResult(channels)
	if channels <= 0 {
		return result, nil
	}
	if t.decoder == nil {
		return result, services.Wrap(services.ErrTranscription, "transcribe", "setup", "decoder unavailable", nil)
	}
	if t.loader == nil {
		return result, services.Wrap(services.ErrTranscription, "transcribe", "setup", "recognizer backend unavailable", nil)
	}

	model, err := t.loader.Load(t.model)
	if err != nil {
		return result, services.Wrap(services.ErrTranscription, "transcribe", "load model", t.model, err)
	}
	defer func() {
		if cerr := model.Close(); cerr != nil {
			t.logger.Debug("model close failed", logging.Error(cerr))
		}
	}()

	for channel := 1; channel <= channels; channel++ {
		channelCtx := services.WithChannel(ctx, channel)
		logger := logging.WithContext(channelCtx, t.logger)
		started := time.Now()

		utterances, stats, err := t.channel(channelCtx, model, path, channel)
		if err != nil {
			return result, services.Wrap(services.ErrTranscription, "transcribe", fmt.Sprintf("channel %d", channel), "", err)
		}
		result.channels[channel-1] = utterances
		logger.Debug("channel transcribed",
			logging.Int("utterance_count", len(utterances)),
			logging.Int("discarded_results", stats.discarded),
			logging.Int("pcm_bytes", stats.bytes),
			logging.Duration("elapsed", time.Since(started)),
		)
	}
	return result, nil
}

type channelStats struct {
	bytes     int
	discarded int
}

func (t *Transcriber) channel(ctx context.Context, model speech.Model, path string, channel int) (utterances []Utterance, stats channelStats, err error) {
	if err := ctx.Err(); err != nil {
		return nil, stats, err
	}
	recognizer, err := model.NewRecognizer(t.sampleRate)
	if err != nil {
		return nil, stats, fmt.Errorf("new recognizer: %w", err)
	}
	defer func() { _ = recognizer.Close() }()

	stream, err := t.decoder.Open(ctx, path, channel)
	if err != nil {
		return nil, stats, fmt.Errorf("open decode pipe: %w", err)
	}
	defer func() {
		if cerr := stream.Close(); cerr != nil && err == nil {
			utterances, err = nil, fmt.Errorf("close decode pipe: %w", cerr)
		}
	}()

	utterances = []Utterance{}
	collect := func(raw []byte) {
		segment, ok := speech.ParseResult(raw)
		if !ok {
			stats.discarded++
			return
		}
		utterances = append(utterances, newUtterance(segment))
	}

	buf := make([]byte, t.chunkBytes)
	for {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		n, readErr := io.ReadFull(stream, buf)
		if n > 0 {
			stats.bytes += n
			final, err := recognizer.AcceptWaveform(buf[:n])
			if err != nil {
				return nil, stats, fmt.Errorf("accept waveform: %w", err)
			}
			if final {
				collect(recognizer.Result())
			}
		}
		if errors.Is(readErr, io.EOF) || errors.Is(readErr, io.ErrUnexpectedEOF) {
			break
		}
		if readErr != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, stats, ctxErr
			}
			return nil, stats, fmt.Errorf("read pcm: %w", readErr)
		}
	}
	collect(recognizer.FinalResult())
	return utterances, stats, nil
}
