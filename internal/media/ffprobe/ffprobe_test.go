package ffprobe

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/exec"
	"reflect"
	"strings"
	"testing"
)

const sampleProbe = `{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video", "width": 1920, "height": 1080},
    {"index": 1, "codec_name": "aac", "codec_type": "audio", "sample_rate": "48000", "channels": 2, "tags": {"language": "eng"}},
    {"index": 2, "codec_name": "ac3", "codec_type": "audio", "sample_rate": "48000", "channels": 6},
    {"index": 3, "codec_name": "subrip", "codec_type": "subtitle"}
  ],
  "format": {"filename": "movie.mkv", "nb_streams": 4, "duration": "123.450000", "size": "1000"}
}`

func TestResultHelpers(t *testing.T) {
	result, err := Parse([]byte(sampleProbe))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if result.VideoStreamCount() != 1 {
		t.Fatalf("expected 1 video stream, got %d", result.VideoStreamCount())
	}
	if result.AudioStreamCount() != 2 {
		t.Fatalf("expected 2 audio streams, got %d", result.AudioStreamCount())
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 1000 {
		t.Fatalf("unexpected size: %d", result.SizeBytes())
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{Format: Format{Duration: "bad", Size: "-1"}}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
}

func TestEntriesPreserveOrderAndAttributes(t *testing.T) {
	result, err := Parse([]byte(sampleProbe))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	entries := result.Entries()
	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		keys = append(keys, entry.Key)
	}
	want := []string{"stream #0 (video)", "stream #1 (audio)", "stream #2 (audio)", "stream #3 (subtitle)"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("unexpected keys: %v", keys)
	}
	audio := entries[1].Attributes
	if audio["codec_name"] != "aac" || audio["channels"] != json.Number("2") {
		t.Fatalf("unexpected audio attributes: %v", audio)
	}
	tags, ok := audio["tags"].(map[string]any)
	if !ok || tags["language"] != "eng" {
		t.Fatalf("expected nested tags to survive, got %v", audio["tags"])
	}

	entries[1].Attributes["codec_name"] = "mutated"
	if again := result.Entries(); again[1].Attributes["codec_name"] != "aac" {
		t.Fatal("expected entries to be copies")
	}
}

func TestEntriesKeepLargeIntegersExact(t *testing.T) {
	payload := `{"streams":[{"index":0,"codec_type":"video","duration_ts":9007199254740993}],"format":{}}`
	result, err := Parse([]byte(payload))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	attrs := result.Entries()[0].Attributes
	if attrs["duration_ts"] != json.Number("9007199254740993") {
		t.Fatalf("expected exact integer, got %v", attrs["duration_ts"])
	}
	encoded, err := json.Marshal(attrs)
	if err != nil {
		t.Fatalf("marshal attributes: %v", err)
	}
	if !strings.Contains(string(encoded), `"duration_ts":9007199254740993`) {
		t.Fatalf("expected exact integer on re-encode, got %s", encoded)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse([]byte("not json")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestInspectRequiresPath(t *testing.T) {
	if _, err := Inspect(context.Background(), "", "  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestInspectUsesHelperOutput(t *testing.T) {
	var capturedArgs []string
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		capturedArgs = append([]string(nil), args...)
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "FFPROBE_HELPER_MODE=success")
		return cmd
	}
	t.Cleanup(func() { commandContext = original })

	result, err := NewProber("").Probe(context.Background(), "/media/movie.mkv")
	if err != nil {
		t.Fatalf("Probe returned error: %v", err)
	}
	if result.AudioStreamCount() != 2 {
		t.Fatalf("unexpected audio count: %d", result.AudioStreamCount())
	}
	if capturedArgs[len(capturedArgs)-1] != "/media/movie.mkv" || capturedArgs[len(capturedArgs)-2] != "--" {
		t.Fatalf("expected path after --, got %v", capturedArgs)
	}
}

func TestInspectReportsFailure(t *testing.T) {
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "FFPROBE_HELPER_MODE=fail")
		return cmd
	}
	t.Cleanup(func() { commandContext = original })

	_, err := Inspect(context.Background(), "ffprobe", "/media/corrupt.mkv")
	if err == nil {
		t.Fatal("expected error from failing ffprobe")
	}
	if !strings.Contains(err.Error(), "Invalid data found") {
		t.Fatalf("expected stderr detail in error, got %v", err)
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	switch os.Getenv("FFPROBE_HELPER_MODE") {
	case "success":
		fmt.Fprint(os.Stdout, sampleProbe)
		os.Exit(0)
	default:
		fmt.Fprint(os.Stderr, "/media/corrupt.mkv: Invalid data found when processing input")
		os.Exit(1)
	}
}
