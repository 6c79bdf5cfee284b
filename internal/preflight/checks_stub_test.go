//go:build !vosk

package preflight

import (
	"strings"
	"testing"
)

func TestCheckRecognizerWithoutBackend(t *testing.T) {
	result := CheckRecognizer(t.TempDir())
	if result.Passed || !strings.Contains(result.Detail, "-tags vosk") {
		t.Fatalf("expected missing backend result, got %#v", result)
	}
}
