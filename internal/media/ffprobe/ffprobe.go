package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

var commandContext = exec.CommandContext

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
	// attributes holds each stream object exactly as ffprobe reported it;
	// numbers stay json.Number so large integers survive unrounded.
	attributes []map[string]any
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index      int    `json:"index"`
	CodecName  string `json:"codec_name"`
	CodecType  string `json:"codec_type"`
	Duration   string `json:"duration"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	SampleRate string `json:"sample_rate"`
	Channels   int    `json:"channels"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	NBStreams  int    `json:"nb_streams"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
	FormatName string `json:"format_name"`
}

// Entry is one stream as it appears in the probe report. Key carries a free-text
// type hint ("stream #1 (audio)"); Attributes is the untouched ffprobe object.
type Entry struct {
	Key        string
	Attributes map[string]any
}

// Prober runs a configured ffprobe binary.
type Prober struct {
	Binary string
}

// NewProber constructs a Prober; an empty binary falls back to "ffprobe".
func NewProber(binary string) *Prober {
	return &Prober{Binary: binary}
}

// Probe inspects path with the configured binary.
func (p *Prober) Probe(ctx context.Context, path string) (Result, error) {
	return Inspect(ctx, p.Binary, path)
}

// Inspect executes ffprobe against the provided path and decodes the JSON response.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	if strings.TrimSpace(path) == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	cmd := commandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path) //nolint:gosec
	output, err := cmd.Output()
	if err != nil {
		detail := ""
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			detail = strings.TrimSpace(string(exitErr.Stderr))
		}
		if detail != "" {
			return Result{}, fmt.Errorf("ffprobe inspect: %w: %s", err, detail)
		}
		return Result{}, fmt.Errorf("ffprobe inspect: %w", err)
	}
	return Parse(output)
}

// Parse decodes an ffprobe JSON payload.
func Parse(payload []byte) (Result, error) {
	var result Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	var untyped struct {
		Streams []map[string]any `json:"streams"`
	}
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()
	if err := decoder.Decode(&untyped); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	result.attributes = untyped.Streams
	return result, nil
}

// Entries returns the report entries in ffprobe order. Callers own the returned
// maps; they are shallow copies of the decoded stream objects.
func (r Result) Entries() []Entry {
	entries := make([]Entry, 0, len(r.Streams))
	for i, stream := range r.Streams {
		attrs := map[string]any{}
		if i < len(r.attributes) {
			for k, v := range r.attributes[i] {
				attrs[k] = v
			}
		}
		kind := strings.TrimSpace(stream.CodecType)
		if kind == "" {
			kind = "unknown"
		}
		entries = append(entries, Entry{
			Key:        fmt.Sprintf("stream #%d (%s)", stream.Index, kind),
			Attributes: attrs,
		})
	}
	return entries
}

// VideoStreamCount returns the number of streams whose codec_type is exactly "video".
func (r Result) VideoStreamCount() int {
	return r.countType("video")
}

// AudioStreamCount returns the number of streams whose codec_type is exactly "audio".
func (r Result) AudioStreamCount() int {
	return r.countType("audio")
}

func (r Result) countType(kind string) int {
	count := 0
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, kind) {
			count++
		}
	}
	return count
}

// DurationSeconds returns the container duration in seconds, or 0 when unavailable.
func (r Result) DurationSeconds() float64 {
	return parseFloat(r.Format.Duration)
}

// SizeBytes returns the reported container size in bytes, or 0 when unavailable.
func (r Result) SizeBytes() int64 {
	size := parseFloat(r.Format.Size)
	if math.IsNaN(size) || size < 0 {
		return 0
	}
	return int64(size)
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return parsed
	}
	return math.NaN()
}
