// Package report persists analysis projections as JSON files in the report
// directory. Writers serialize on a per-report advisory lock so concurrent
// analyses of the same file name never interleave partial output.
package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"mediascope/internal/fileutil"
	"mediascope/internal/logging"
	"mediascope/internal/textutil"
)

const (
	// Suffix is appended to the analysed file name to form the report name.
	Suffix         = ".analysis.json"
	lockRetryDelay = 50 * time.Millisecond
)

// Writer writes reports under a directory.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter constructs a Writer rooted at dir.
func NewWriter(dir string, logger *slog.Logger) *Writer {
	return &Writer{dir: dir, logger: logging.NewComponentLogger(logger, "report")}
}

// Path returns the report path for an analysed file name. Characters that
// are unsafe in file names are replaced.
func (w *Writer) Path(fileName string) (string, error) {
	name := textutil.SanitizeFileName(filepath.Base(strings.TrimSpace(fileName)))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "", fmt.Errorf("report: invalid file name %q", fileName)
	}
	return filepath.Join(w.dir, name+Suffix), nil
}

// Write encodes payload as indented JSON and atomically replaces the report for
// fileName. It waits for the report lock until ctx is done.
func (w *Writer) Write(ctx context.Context, fileName string, payload any) (string, error) {
	if strings.TrimSpace(w.dir) == "" {
		return "", errors.New("report: directory not configured")
	}
	target, err := w.Path(fileName)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("report: encode: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("report: ensure dir: %w", err)
	}
	lock := flock.New(target + ".lock")
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return "", fmt.Errorf("report: acquire lock: %w", err)
	}
	if !locked {
		return "", fmt.Errorf("report: lock %s not acquired", lock.Path())
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			w.logger.Debug("report lock release failed", logging.String("lock", lock.Path()), logging.Error(err))
		}
	}()

	if err := fileutil.WriteFileAtomic(target, data, 0o644); err != nil {
		return "", fmt.Errorf("report: %w", err)
	}
	w.logger.Debug("report written", logging.String("path", target), logging.Int("bytes", len(data)))
	return target, nil
}
