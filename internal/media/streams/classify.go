// Package streams classifies raw probe entries into per-kind stream descriptors.
package streams

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"mediascope/internal/media/ffprobe"
)

// Kind is the media kind a descriptor was classified under.
type Kind string

const (
	Video Kind = "video"
	Audio Kind = "audio"
)

// Descriptor is one classified stream. Index is a dense 1-based ordinal within
// its kind, not the container's native stream index.
type Descriptor struct {
	Index      int
	Kind       Kind
	Attributes map[string]any
}

// Set holds the descriptors of one kind in probe-report order.
type Set struct {
	kind        Kind
	descriptors []Descriptor
}

// Classify selects the entries whose key contains kind (case-insensitive) and
// numbers them 1..N in report order. Attribute maps are shallow-copied.
func Classify(entries []ffprobe.Entry, kind Kind) Set {
	set := Set{kind: kind}
	needle := strings.ToLower(string(kind))
	if needle == "" {
		return set
	}
	for _, entry := range entries {
		if !strings.Contains(strings.ToLower(entry.Key), needle) {
			continue
		}
		attrs := make(map[string]any, len(entry.Attributes))
		for k, v := range entry.Attributes {
			attrs[k] = v
		}
		set.descriptors = append(set.descriptors, Descriptor{
			Index:      len(set.descriptors) + 1,
			Kind:       kind,
			Attributes: attrs,
		})
	}
	return set
}

// Kind returns the media kind of the set.
func (s Set) Kind() Kind { return s.kind }

// Len returns the number of classified streams.
func (s Set) Len() int { return len(s.descriptors) }

// Descriptors returns a copy of the descriptors in index order.
func (s Set) Descriptors() []Descriptor {
	out := make([]Descriptor, len(s.descriptors))
	for i, d := range s.descriptors {
		out[i] = Descriptor{Index: d.Index, Kind: d.Kind, Attributes: copyAttrs(d.Attributes)}
	}
	return out
}

// Get returns the descriptor with the given 1-based index.
func (s Set) Get(index int) (Descriptor, bool) {
	if index < 1 || index > len(s.descriptors) {
		return Descriptor{}, false
	}
	d := s.descriptors[index-1]
	return Descriptor{Index: d.Index, Kind: d.Kind, Attributes: copyAttrs(d.Attributes)}, true
}

// MarshalJSON renders the set as an object keyed by index in ascending numeric order.
func (s Set) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, d := range s.descriptors {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(d.Index)))
		buf.WriteByte(':')
		attrs := d.Attributes
		if attrs == nil {
			attrs = map[string]any{}
		}
		payload, err := json.Marshal(attrs)
		if err != nil {
			return nil, fmt.Errorf("marshal %s stream %d: %w", s.kind, d.Index, err)
		}
		buf.Write(payload)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func copyAttrs(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Classification is the result of classifying a whole probe report.
type Classification struct {
	Video Set
	Audio Set
}

// ClassifyAll runs Classify for video then audio.
func ClassifyAll(entries []ffprobe.Entry) Classification {
	return Classification{
		Video: Classify(entries, Video),
		Audio: Classify(entries, Audio),
	}
}
