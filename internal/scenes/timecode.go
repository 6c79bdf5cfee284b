package scenes

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Timecode is a position reported by the detector. Raw keeps the detector's
// native text (ffmpeg pts_time seconds) so records stay comparable across tools;
// Seconds is only used for ordering checks.
type Timecode struct {
	Raw     string
	Seconds float64
}

// ParseTimecode parses a seconds value such as "12.345000".
func ParseTimecode(raw string) (Timecode, error) {
	trimmed := strings.TrimSpace(raw)
	seconds, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return Timecode{}, fmt.Errorf("parse timecode %q: %w", raw, err)
	}
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return Timecode{}, fmt.Errorf("parse timecode %q: not a finite position", raw)
	}
	if seconds < 0 {
		return Timecode{}, fmt.Errorf("parse timecode %q: negative position", raw)
	}
	return Timecode{Raw: trimmed, Seconds: seconds}, nil
}

func (t Timecode) String() string { return t.Raw }

// MarshalJSON emits the native text unchanged.
func (t Timecode) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.Raw)), nil
}
