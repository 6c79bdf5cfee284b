//go:build !vosk

package speech

import (
	"errors"
	"testing"
)

func TestStubLoaderFails(t *testing.T) {
	if Available() {
		t.Fatal("stub backend must not report availability")
	}
	if _, err := NewLoader().Load("/models/en"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
