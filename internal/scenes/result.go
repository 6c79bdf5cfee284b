package scenes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Boundary is one (start, end) pair emitted by a Detector.
type Boundary struct {
	Start Timecode
	End   Timecode
}

// Scene is a boundary re-indexed by its 1-based position in emission order.
type Scene struct {
	Order int      `json:"order"`
	Start Timecode `json:"start_timecode"`
	End   Timecode `json:"end_timecode"`
}

// ThresholdScenes holds the scenes detected at one sensitivity.
type ThresholdScenes struct {
	Threshold float64
	Scenes    []Scene
}

// Result maps every swept threshold to its scene list, in ascending threshold order.
type Result struct {
	sweeps []ThresholdScenes
}

// Len returns the number of thresholds covered.
func (r Result) Len() int { return len(r.sweeps) }

// Thresholds returns the swept thresholds in ascending order.
func (r Result) Thresholds() []float64 {
	out := make([]float64, len(r.sweeps))
	for i, sweep := range r.sweeps {
		out[i] = sweep.Threshold
	}
	return out
}

// Scenes returns a copy of the scenes detected at threshold.
func (r Result) Scenes(threshold float64) ([]Scene, bool) {
	for _, sweep := range r.sweeps {
		if sweep.Threshold == threshold {
			return append([]Scene(nil), sweep.Scenes...), true
		}
	}
	return nil, false
}

// Sweeps returns a copy of every threshold's scene list.
func (r Result) Sweeps() []ThresholdScenes {
	out := make([]ThresholdScenes, len(r.sweeps))
	for i, sweep := range r.sweeps {
		out[i] = ThresholdScenes{Threshold: sweep.Threshold, Scenes: append([]Scene(nil), sweep.Scenes...)}
	}
	return out
}

// FormatThreshold renders a threshold the way it appears as a JSON key.
func FormatThreshold(threshold float64) string {
	return strconv.FormatFloat(threshold, 'f', -1, 64)
}

// MarshalJSON renders {"30": [...], "50": [...]} in ascending threshold order.
func (r Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sweep := range r.sweeps {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(FormatThreshold(sweep.Threshold)))
		buf.WriteByte(':')
		scenes := sweep.Scenes
		if scenes == nil {
			scenes = []Scene{}
		}
		payload, err := json.Marshal(scenes)
		if err != nil {
			return nil, fmt.Errorf("marshal scenes at threshold %s: %w", FormatThreshold(sweep.Threshold), err)
		}
		buf.Write(payload)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
