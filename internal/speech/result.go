package speech

import (
	"encoding/json"
	"strings"

	"mediascope/internal/textutil"
)

// Word is one recognized word segment.
type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Conf  float64 `json:"conf"`
}

// Segment is a finalized recognizer result with at least one word.
type Segment struct {
	Words []Word
	Text  string
}

type rawResult struct {
	Result []Word `json:"result"`
	Text   string `json:"text"`
}

// ParseResult decodes a structured result such as
// {"result":[{"word":"hi","start":0.1,"end":0.4,"conf":1}],"text":"hi"}.
// Malformed payloads and results without words report ok=false.
func ParseResult(raw []byte) (Segment, bool) {
	if len(raw) == 0 {
		return Segment{}, false
	}
	var decoded rawResult
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return Segment{}, false
	}
	if len(decoded.Result) == 0 {
		return Segment{}, false
	}
	words := make([]Word, 0, len(decoded.Result))
	for _, w := range decoded.Result {
		w.Word = textutil.NormalizeText(w.Word)
		words = append(words, w)
	}
	text := textutil.NormalizeText(decoded.Text)
	if text == "" {
		parts := make([]string, 0, len(words))
		for _, w := range words {
			if w.Word != "" {
				parts = append(parts, w.Word)
			}
		}
		text = strings.Join(parts, " ")
	}
	return Segment{Words: words, Text: text}, true
}
