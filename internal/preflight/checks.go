package preflight

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"mediascope/internal/speech"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckRecognizer verifies that a recognizer backend is compiled in and the
// model directory is readable. Transcription degrades when this fails.
func CheckRecognizer(model string) Result {
	const name = "Speech recognizer"
	if !speech.Available() {
		return Result{Name: name, Detail: fmt.Sprintf("backend %q (rebuild with -tags vosk)", speech.Backend)}
	}
	return checkModelDir(name, model)
}

func checkModelDir(name, model string) Result {
	if strings.TrimSpace(model) == "" {
		return Result{Name: name, Detail: "model path not configured"}
	}
	info, err := os.Stat(model)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: model not found)", model)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", model, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: model is not a directory)", model)}
	}
	if err := unix.Access(model, unix.R_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: unreadable: %v)", model, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (backend %s)", model, speech.Backend)}
}
