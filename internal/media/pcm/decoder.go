package pcm

import (
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

// DefaultSampleRate is the PCM rate speech recognizers expect.
const DefaultSampleRate = 16000

const maxStderrBytes = 4096

// Decoder launches ffmpeg decode pipes.
type Decoder struct {
	binary     string
	sampleRate int
}

// NewDecoder constructs a Decoder. Empty binary defaults to "ffmpeg"; a
// non-positive sample rate defaults to DefaultSampleRate.
func NewDecoder(binary string, sampleRate int) *Decoder {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &Decoder{binary: binary, sampleRate: sampleRate}
}

// SampleRate returns the output sample rate in Hz.
func (d *Decoder) SampleRate() int { return d.sampleRate }

// Args returns the ffmpeg arguments used to isolate the given 1-based audio channel.
func (d *Decoder) Args(path string, channel int) []string {
	return []string{
		"-nostdin",
		"-loglevel", "quiet",
		"-i", path,
		"-map", fmt.Sprintf("0:a:%d", channel-1),
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", strconv.Itoa(d.sampleRate),
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-",
	}
}

// Open starts ffmpeg for the given 1-based audio channel and returns its PCM
// output. The caller must Close the stream.
func (d *Decoder) Open(ctx context.Context, path string, channel int) (io.ReadCloser, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("pcm decode: empty path")
	}
	if channel < 1 {
		return nil, fmt.Errorf("pcm decode: invalid channel %d", channel)
	}

	cmd := commandContext(ctx, d.binary, d.Args(path, channel)...) //nolint:gosec
	configureProcessGroup(cmd)
	cmd.Cancel = func() error {
		killProcessGroup(cmd)
		return nil
	}
	stderr := &limitedBuffer{limit: maxStderrBytes}
	cmd.Stderr = stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("pcm decode: stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("pcm decode: start %s: %w", d.binary, err)
	}
	return &Stream{cmd: cmd, stdout: stdout, stderr: stderr, channel: channel}, nil
}

// Stream is a running decode pipe.
type Stream struct {
	cmd     *exec.Cmd
	stdout  io.ReadCloser
	stderr  *limitedBuffer
	channel int

	eof       bool
	closeOnce sync.Once
	closeErr  error
}

// Read reads decoded PCM bytes. io.EOF marks the end of the channel.
func (s *Stream) Read(p []byte) (int, error) {
	n, err := s.stdout.Read(p)
	if errors.Is(err, io.EOF) {
		s.eof = true
	}
	return n, err
}

// Close releases the decoder. After a full read it reports a non-zero ffmpeg
// exit; when closed early the process group is killed and its exit status ignored.
func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		if !s.eof {
			killProcessGroup(s.cmd)
		}
		_ = s.stdout.Close()
		err := s.cmd.Wait()
		if s.eof && err != nil {
			detail := strings.TrimSpace(s.stderr.String())
			if detail != "" {
				s.closeErr = fmt.Errorf("pcm decode channel %d: %w: %s", s.channel, err, detail)
			} else {
				s.closeErr = fmt.Errorf("pcm decode channel %d: %w", s.channel, err)
			}
		}
	})
	return s.closeErr
}

type limitedBuffer struct {
	mu    sync.Mutex
	buf   bytes.Buffer
	limit int
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if remaining := b.limit - b.buf.Len(); remaining > 0 {
		if len(p) > remaining {
			b.buf.Write(p[:remaining])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *limitedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
