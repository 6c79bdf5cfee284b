//go:build !vosk

package speech

import "fmt"

// Backend names the compiled recognizer implementation.
const Backend = "none"

// Available reports whether a real recognizer backend is linked in.
func Available() bool { return false }

// NewLoader returns a Loader that always fails; rebuild with -tags vosk.
func NewLoader() Loader {
	return LoaderFunc(func(name string) (Model, error) {
		return nil, fmt.Errorf("load model %q: %w (built without vosk tag)", name, ErrUnavailable)
	})
}
