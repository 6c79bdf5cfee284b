package analysis

import (
	"errors"
	"slices"
	"testing"

	"mediascope/internal/config"
	"mediascope/internal/services"
)

func TestResolveFields(t *testing.T) {
	tests := []struct {
		name    string
		preset  string
		fields  []string
		want    int
		wantErr bool
	}{
		{name: "default", want: 8},
		{name: "reference", preset: "reference", want: 8},
		{name: "full", preset: "FULL", want: 12},
		{name: "explicit overrides preset", preset: "full", fields: []string{"file_name", " Video_Scenes "}, want: 2},
		{name: "unknown preset", preset: "everything", wantErr: true},
		{name: "unknown field", fields: []string{"file_size"}, wantErr: true},
		{name: "duplicate field", fields: []string{"file_name", "file_name"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, err := ResolveFields(tt.preset, tt.fields)
			if tt.wantErr {
				if !errors.Is(err, services.ErrValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(fields) != tt.want {
				t.Fatalf("got %d fields, want %d", len(fields), tt.want)
			}
		})
	}
}

func TestProjectExplicitFieldOrder(t *testing.T) {
	rec := &Record{runID: "r", identity: NewIdentity("/a/b.TXT")}
	projection, err := rec.Project(FieldExtension, FieldFileName, FieldVideoStreamCount)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	payload, err := projection.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"file_extension":"txt","file_name":"b.TXT","number_of_video_streams":0}`
	if string(payload) != want {
		t.Fatalf("payload = %s, want %s", payload, want)
	}
	if _, err := rec.Project(FieldFileName, FieldFileName); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected duplicate field error, got %v", err)
	}
	if _, err := rec.Project(Field("nope")); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestNewIdentity(t *testing.T) {
	tests := []struct {
		path, name, dir, ext string
	}{
		{"/media/movies/Film.Final.MKV", "Film.Final.MKV", "/media/movies", "mkv"},
		{"clip.mp4", "clip.mp4", "", "mp4"},
		{"/media/README", "README", "/media", ""},
		{"/rootfile.wav", "rootfile.wav", "/", "wav"},
		{"rel/dir/a.b.c", "a.b.c", "rel/dir", "c"},
	}
	for _, tt := range tests {
		got := NewIdentity(tt.path)
		if got.FilePath != tt.path || got.FileName != tt.name || got.Directory != tt.dir || got.Extension != tt.ext {
			t.Fatalf("NewIdentity(%q) = %+v", tt.path, got)
		}
	}
}

func TestStateTransitions(t *testing.T) {
	path := []State{StateCreated, StateIdentifying, StateClassifying, StateScenesSkipped, StateTranscribing, StateComplete}
	for i := 0; i+1 < len(path); i++ {
		if !path[i].CanTransition(path[i+1]) {
			t.Fatalf("%s -> %s should be allowed", path[i], path[i+1])
		}
	}
	disallowed := [][2]State{
		{StateCreated, StateClassifying},
		{StateSceneSweeping, StateSceneSweeping},
		{StateTranscribing, StateSceneSweeping},
		{StateComplete, StateFailed},
		{StateFailed, StateIdentifying},
	}
	for _, pair := range disallowed {
		if pair[0].CanTransition(pair[1]) {
			t.Fatalf("%s -> %s should be rejected", pair[0], pair[1])
		}
	}
	if !StateComplete.Terminal() || !StateFailed.Terminal() || StateTranscribing.Terminal() {
		t.Fatal("unexpected terminal states")
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on invalid transition")
		}
	}()
	m := machine{state: StateComplete}
	m.advance(StateIdentifying)
}

func TestConfigFieldNamesMatchFullPreset(t *testing.T) {
	names := make([]string, 0, len(FullFields()))
	for _, f := range FullFields() {
		names = append(names, string(f))
	}
	if !slices.Equal(names, config.ProjectionFieldNames) {
		t.Fatalf("config accepts %v, projection knows %v", config.ProjectionFieldNames, names)
	}
}
