package streams

import (
	"encoding/json"
	"testing"

	"mediascope/internal/media/ffprobe"
)

func entries() []ffprobe.Entry {
	return []ffprobe.Entry{
		{Key: "stream #0 (video)", Attributes: map[string]any{"codec_name": "h264"}},
		{Key: "stream #1 (audio)", Attributes: map[string]any{"codec_name": "aac"}},
		{Key: "stream #2 (subtitle)", Attributes: map[string]any{"codec_name": "subrip"}},
		{Key: "Stream #3 (AUDIO)", Attributes: map[string]any{"codec_name": "ac3"}},
		{Key: "stream #4 (video)", Attributes: map[string]any{"codec_name": "mjpeg"}},
	}
}

func TestClassifyDenseIndicesPerKind(t *testing.T) {
	tests := []struct {
		kind   Kind
		codecs []string
	}{
		{Video, []string{"h264", "mjpeg"}},
		{Audio, []string{"aac", "ac3"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			set := Classify(entries(), tt.kind)
			if set.Len() != len(tt.codecs) {
				t.Fatalf("expected %d streams, got %d", len(tt.codecs), set.Len())
			}
			for i, d := range set.Descriptors() {
				if d.Index != i+1 {
					t.Fatalf("expected dense index %d, got %d", i+1, d.Index)
				}
				if d.Kind != tt.kind {
					t.Fatalf("unexpected kind %q", d.Kind)
				}
				if d.Attributes["codec_name"] != tt.codecs[i] {
					t.Fatalf("index %d: expected %s, got %v", d.Index, tt.codecs[i], d.Attributes["codec_name"])
				}
			}
		})
	}
}

func TestClassifyZeroStreams(t *testing.T) {
	set := Classify([]ffprobe.Entry{{Key: "stream #0 (subtitle)"}}, Video)
	if set.Len() != 0 {
		t.Fatalf("expected no video streams, got %d", set.Len())
	}
	payload, err := json.Marshal(set)
	if err != nil {
		t.Fatalf("marshal empty set: %v", err)
	}
	if string(payload) != "{}" {
		t.Fatalf("expected empty object, got %s", payload)
	}
	if _, ok := set.Get(1); ok {
		t.Fatal("expected Get on empty set to miss")
	}
}

func TestClassifyCopiesAttributes(t *testing.T) {
	in := entries()
	set := Classify(in, Audio)
	in[1].Attributes["codec_name"] = "mutated"
	d, ok := set.Get(1)
	if !ok {
		t.Fatal("expected first audio descriptor")
	}
	if d.Attributes["codec_name"] != "aac" {
		t.Fatalf("classifier must copy attribute maps, got %v", d.Attributes["codec_name"])
	}
	d.Attributes["codec_name"] = "changed"
	again, _ := set.Get(1)
	if again.Attributes["codec_name"] != "aac" {
		t.Fatal("descriptors returned by Get must not alias the set")
	}
}

func TestMarshalOrdersNumerically(t *testing.T) {
	var in []ffprobe.Entry
	for i := 0; i < 11; i++ {
		in = append(in, ffprobe.Entry{Key: "audio", Attributes: map[string]any{"n": i}})
	}
	payload, err := json.Marshal(Classify(in, Audio))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"1":{"n":0},"2":{"n":1},"3":{"n":2},"4":{"n":3},"5":{"n":4},"6":{"n":5},"7":{"n":6},"8":{"n":7},"9":{"n":8},"10":{"n":9},"11":{"n":10}}`
	if string(payload) != want {
		t.Fatalf("unexpected payload:\n%s\nwant\n%s", payload, want)
	}
}

func TestClassifyAll(t *testing.T) {
	c := ClassifyAll(entries())
	if c.Video.Len() != 2 || c.Audio.Len() != 2 {
		t.Fatalf("unexpected counts: video=%d audio=%d", c.Video.Len(), c.Audio.Len())
	}
	if c.Video.Kind() != Video || c.Audio.Kind() != Audio {
		t.Fatal("unexpected set kinds")
	}
}
