package transcribe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"mediascope/internal/speech"
)

// Utterance is one finalized recognizer segment.
type Utterance struct {
	Words []speech.Word `json:"words"`
	Text  string        `json:"text"`
}

// Result maps each 1-based channel index to its utterances.
type Result struct {
	channels [][]Utterance
}

// EmptyResult returns a Result with an empty entry for channels 1..count.
func EmptyResult(count int) Result {
	if count < 0 {
		count = 0
	}
	channels := make([][]Utterance, count)
	for i := range channels {
		channels[i] = []Utterance{}
	}
	return Result{channels: channels}
}

// Len returns the number of channels covered.
func (r Result) Len() int { return len(r.channels) }

// Utterances returns a copy of the utterances recognized on channel, word
// lists included.
func (r Result) Utterances(channel int) ([]Utterance, bool) {
	if channel < 1 || channel > len(r.channels) {
		return nil, false
	}
	src := r.channels[channel-1]
	out := make([]Utterance, len(src))
	for i, u := range src {
		out[i] = Utterance{Words: append([]speech.Word{}, u.Words...), Text: u.Text}
	}
	return out, true
}

// UtteranceCount sums utterances over every channel.
func (r Result) UtteranceCount() int {
	total := 0
	for _, utterances := range r.channels {
		total += len(utterances)
	}
	return total
}

// MarshalJSON renders {"1": [...], "2": [...]} in channel order.
func (r Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, utterances := range r.channels {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(i + 1)))
		buf.WriteByte(':')
		if utterances == nil {
			utterances = []Utterance{}
		}
		payload, err := json.Marshal(utterances)
		if err != nil {
			return nil, fmt.Errorf("marshal channel %d: %w", i+1, err)
		}
		buf.Write(payload)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func newUtterance(segment speech.Segment) Utterance {
	words := segment.Words
	if words == nil {
		words = []speech.Word{}
	}
	return Utterance{Words: words, Text: segment.Text}
}
