package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"mediascope/internal/services"
)

// Field names one key of the serializable projection.
type Field string

const (
	FieldFilePath         Field = "file_path"
	FieldFileName         Field = "file_name"
	FieldDirectoryPath    Field = "file_directory_path"
	FieldExtension        Field = "file_extension"
	FieldVideoStreamCount Field = "number_of_video_streams"
	FieldAudioStreamCount Field = "number_of_audio_streams"
	FieldVideoStreamsInfo Field = "video_streams_info"
	FieldAudioStreamsInfo Field = "audio_streams_info"
	FieldVideoScenes      Field = "video_scenes"
	FieldAudioDictation   Field = "audio_dictation"
	FieldRunID            Field = "run_id"
	FieldStages           Field = "stages"
)

// Projection presets.
const (
	PresetReference = "reference"
	PresetFull      = "full"
)

var knownFields = map[Field]struct{}{
	FieldFilePath: {}, FieldFileName: {}, FieldDirectoryPath: {}, FieldExtension: {},
	FieldVideoStreamCount: {}, FieldAudioStreamCount: {}, FieldVideoStreamsInfo: {},
	FieldAudioStreamsInfo: {}, FieldVideoScenes: {}, FieldAudioDictation: {},
	FieldRunID: {}, FieldStages: {},
}

// ReferenceFields is the default projection: identity, counts, video stream
// info and dictation. Audio stream info and scenes are left to the full preset.
func ReferenceFields() []Field {
	return []Field{
		FieldFilePath,
		FieldFileName,
		FieldDirectoryPath,
		FieldExtension,
		FieldVideoStreamCount,
		FieldAudioStreamCount,
		FieldVideoStreamsInfo,
		FieldAudioDictation,
	}
}

// FullFields is every computed field.
func FullFields() []Field {
	return append(ReferenceFields(),
		FieldAudioStreamsInfo,
		FieldVideoScenes,
		FieldRunID,
		FieldStages,
	)
}

// ResolveFields returns the explicit field list when names is non-empty,
// otherwise the named preset. An empty preset means reference.
func ResolveFields(preset string, names []string) ([]Field, error) {
	if len(names) > 0 {
		fields := make([]Field, 0, len(names))
		seen := make(map[Field]struct{}, len(names))
		for _, name := range names {
			field := Field(strings.ToLower(strings.TrimSpace(name)))
			if _, ok := knownFields[field]; !ok {
				return nil, services.Wrap(services.ErrValidation, "projection", "fields", fmt.Sprintf("unknown field %q", name), nil)
			}
			if _, dup := seen[field]; dup {
				return nil, services.Wrap(services.ErrValidation, "projection", "fields", fmt.Sprintf("duplicate field %q", name), nil)
			}
			seen[field] = struct{}{}
			fields = append(fields, field)
		}
		return fields, nil
	}
	switch strings.ToLower(strings.TrimSpace(preset)) {
	case "", PresetReference:
		return ReferenceFields(), nil
	case PresetFull:
		return FullFields(), nil
	default:
		return nil, services.Wrap(services.ErrValidation, "projection", "preset", fmt.Sprintf("unknown preset %q", preset), nil)
	}
}

// Projection is a read-only, ordered snapshot of selected record fields.
type Projection struct {
	fields []Field
	values map[Field]json.RawMessage
}

// Fields returns the projected keys in output order.
func (p Projection) Fields() []Field {
	return append([]Field(nil), p.fields...)
}

// Value returns the encoded value of one projected field.
func (p Projection) Value(field Field) (json.RawMessage, bool) {
	raw, ok := p.values[field]
	if !ok {
		return nil, false
	}
	return append(json.RawMessage(nil), raw...), true
}

// MarshalJSON emits the fields in projection order.
func (p Projection) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range p.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(string(field)))
		buf.WriteByte(':')
		buf.Write(p.values[field])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
