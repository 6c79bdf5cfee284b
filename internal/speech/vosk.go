//go:build vosk

package speech

import (
	"errors"
	"fmt"
	"strings"

	vosk "github.com/alphacep/vosk-api/go"
)

// Backend names the compiled recognizer implementation.
const Backend = "vosk"

// Available reports whether a real recognizer backend is linked in.
func Available() bool { return true }

func init() {
	// Silence Kaldi's stderr chatter; failures are surfaced through errors.
	vosk.SetLogLevel(-1)
}

// NewLoader returns a Loader that opens Vosk model directories.
func NewLoader() Loader {
	return LoaderFunc(func(name string) (Model, error) {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, errors.New("vosk: model path not configured")
		}
		model, err := vosk.NewModel(name)
		if err != nil {
			return nil, fmt.Errorf("vosk: load model %s: %w", name, err)
		}
		return &voskModel{model: model}, nil
	})
}

type voskModel struct {
	model *vosk.VoskModel
}

func (m *voskModel) NewRecognizer(sampleRate int) (Recognizer, error) {
	rec, err := vosk.NewRecognizer(m.model, float64(sampleRate))
	if err != nil {
		return nil, fmt.Errorf("vosk: new recognizer: %w", err)
	}
	rec.SetWords(1)
	return &voskRecognizer{rec: rec}, nil
}

func (m *voskModel) Close() error {
	if m.model != nil {
		m.model.Free()
		m.model = nil
	}
	return nil
}

type voskRecognizer struct {
	rec *vosk.VoskRecognizer
}

func (r *voskRecognizer) AcceptWaveform(chunk []byte) (bool, error) {
	switch r.rec.AcceptWaveform(chunk) {
	case 1:
		return true, nil
	case 0:
		return false, nil
	default:
		return false, errors.New("vosk: waveform rejected")
	}
}

func (r *voskRecognizer) Result() []byte { return []byte(r.rec.Result()) }

func (r *voskRecognizer) FinalResult() []byte { return []byte(r.rec.FinalResult()) }

func (r *voskRecognizer) Close() error {
	if r.rec != nil {
		r.rec.Free()
		r.rec = nil
	}
	return nil
}
