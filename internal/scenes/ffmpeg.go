package scenes

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

var commandContext = exec.CommandContext

// DefaultDownscaleWidth is the frame width the detector analyses.
const DefaultDownscaleWidth = 320

// FFmpegDetector detects content changes with ffmpeg's scene score filter.
// Thresholds use a 0-100 scale and map onto ffmpeg's 0-1 score.
type FFmpegDetector struct {
	binary string
	width  int
}

// NewFFmpegDetector constructs a detector. Empty binary defaults to "ffmpeg".
func NewFFmpegDetector(binary string, downscaleWidth int) *FFmpegDetector {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	if downscaleWidth <= 0 {
		downscaleWidth = DefaultDownscaleWidth
	}
	return &FFmpegDetector{binary: binary, width: downscaleWidth}
}

// Args returns the ffmpeg arguments for one threshold.
func (d *FFmpegDetector) Args(path string, threshold float64) []string {
	score := strconv.FormatFloat(threshold/100, 'f', -1, 64)
	filter := fmt.Sprintf("scale=%d:-2,select='gt(scene\\,%s)',metadata=print:file=-", d.width, score)
	return []string{
		"-hide_banner",
		"-nostdin",
		"-loglevel", "error",
		"-i", path,
		"-map", "0:v:0",
		"-an",
		"-sn",
		"-dn",
		"-vf", filter,
		"-f", "null",
		"-",
	}
}

// Detect streams ffmpeg's selected-frame metadata and turns the cut positions
// into contiguous boundaries covering [0, duration]. When the duration is
// unknown the trailing open scene is dropped.
func (d *FFmpegDetector) Detect(ctx context.Context, src Source, threshold float64) ([]Boundary, error) {
	if strings.TrimSpace(src.Path) == "" {
		return nil, errors.New("ffmpeg scene detect: empty path")
	}
	if threshold <= 0 || threshold > 100 {
		return nil, fmt.Errorf("ffmpeg scene detect: threshold %v out of range", threshold)
	}

	cmd := commandContext(ctx, d.binary, d.Args(src.Path, threshold)...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderrWriter{buf: &stderr}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", d.binary, err)
	}

	cuts, scanErr := scanCuts(stdout)
	if scanErr != nil {
		// Keep ffmpeg from blocking on a full pipe so Wait can return.
		_, _ = io.Copy(io.Discard, stdout)
	}
	waitErr := cmd.Wait()
	if waitErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("ffmpeg scene detect: %w", ctxErr)
		}
		if detail := strings.TrimSpace(stderr.String()); detail != "" {
			return nil, fmt.Errorf("ffmpeg scene detect: %w: %s", waitErr, detail)
		}
		return nil, fmt.Errorf("ffmpeg scene detect: %w", waitErr)
	}
	if scanErr != nil {
		return nil, fmt.Errorf("read ffmpeg metadata: %w", scanErr)
	}

	var end *Timecode
	if strings.TrimSpace(src.Duration) != "" {
		tc, err := ParseTimecode(src.Duration)
		if err != nil {
			return nil, fmt.Errorf("container duration: %w", err)
		}
		end = &tc
	}
	return boundariesFromCuts(cuts, end), nil
}

// scanCuts collects pts_time values from metadata=print output lines such as
// "frame:12   pts:6006    pts_time:6.006".
func scanCuts(r io.Reader) ([]Timecode, error) {
	scanner := bufio.NewScanner(r)
	var cuts []Timecode
	for scanner.Scan() {
		line := scanner.Text()
		idx := strings.Index(line, "pts_time:")
		if idx < 0 {
			continue
		}
		field := strings.Fields(line[idx+len("pts_time:"):])
		if len(field) == 0 {
			continue
		}
		tc, err := ParseTimecode(field[0])
		if err != nil {
			continue
		}
		cuts = append(cuts, tc)
	}
	return cuts, scanner.Err()
}

func boundariesFromCuts(cuts []Timecode, end *Timecode) []Boundary {
	points := []Timecode{{Raw: "0", Seconds: 0}}
	for _, cut := range cuts {
		last := points[len(points)-1]
		if cut.Seconds <= last.Seconds {
			continue
		}
		if end != nil && cut.Seconds >= end.Seconds {
			continue
		}
		points = append(points, cut)
	}
	if end != nil && end.Seconds > points[len(points)-1].Seconds {
		points = append(points, *end)
	}

	boundaries := make([]Boundary, 0, len(points))
	for i := 1; i < len(points); i++ {
		boundaries = append(boundaries, Boundary{Start: points[i-1], End: points[i]})
	}
	return boundaries
}

type stderrWriter struct {
	mu  sync.Mutex
	buf *bytes.Buffer
}

func (w *stderrWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buf.Len() < 4096 {
		w.buf.Write(p)
	}
	return len(p), nil
}
