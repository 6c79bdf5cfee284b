package speech

import "errors"

// ErrUnavailable is returned by backends compiled without recognizer support.
var ErrUnavailable = errors.New("speech recognizer unavailable")

// Recognizer consumes PCM chunks for a single channel. Instances keep internal
// decoding state and must not be shared between concurrent streams.
type Recognizer interface {
	// AcceptWaveform feeds one chunk and reports whether it closed a
	// finalized segment, which Result then returns.
	AcceptWaveform(chunk []byte) (bool, error)
	Result() []byte
	// FinalResult flushes whatever audio has not been finalized yet.
	FinalResult() []byte
	Close() error
}

// Model is a loaded acoustic model that can mint recognizers.
type Model interface {
	NewRecognizer(sampleRate int) (Recognizer, error)
	Close() error
}

// Loader resolves a named model identifier into a loaded Model.
type Loader interface {
	Load(name string) (Model, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(name string) (Model, error)

// Load calls f(name).
func (f LoaderFunc) Load(name string) (Model, error) { return f(name) }
