package analysis

import (
	"encoding/json"
	"fmt"

	"mediascope/internal/media/streams"
	"mediascope/internal/scenes"
	"mediascope/internal/services"
	"mediascope/internal/transcribe"
)

// Record is the immutable result of one analysis run. Re-analysing a file
// produces a new Record.
type Record struct {
	runID     string
	identity  Identity
	video     streams.Set
	audio     streams.Set
	scenes    scenes.Result
	dictation transcribe.Result
	stages    []StageReport
	state     State
}

func (r *Record) RunID() string             { return r.runID }
func (r *Record) Identity() Identity        { return r.identity }
func (r *Record) State() State              { return r.state }
func (r *Record) VideoStreamCount() int     { return r.video.Len() }
func (r *Record) AudioStreamCount() int     { return r.audio.Len() }
func (r *Record) VideoStreams() streams.Set { return r.video }
func (r *Record) AudioStreams() streams.Set { return r.audio }
func (r *Record) Scenes() scenes.Result     { return r.scenes }

// Dictation returns the per-channel utterances.
func (r *Record) Dictation() transcribe.Result { return r.dictation }

// Stages returns a copy of the stage reports in execution order.
func (r *Record) Stages() []StageReport {
	return append([]StageReport(nil), r.stages...)
}

// Stage returns the report for one stage.
func (r *Record) Stage(stage Stage) (StageReport, bool) {
	for _, report := range r.stages {
		if report.Stage == stage {
			return report, true
		}
	}
	return StageReport{}, false
}

// Project encodes the requested fields into a Projection. No fields selects
// the reference preset.
func (r *Record) Project(fields ...Field) (Projection, error) {
	if len(fields) == 0 {
		fields = ReferenceFields()
	}
	projection := Projection{
		fields: make([]Field, 0, len(fields)),
		values: make(map[Field]json.RawMessage, len(fields)),
	}
	for _, field := range fields {
		if _, dup := projection.values[field]; dup {
			return Projection{}, services.Wrap(services.ErrValidation, "projection", "fields", fmt.Sprintf("duplicate field %q", field), nil)
		}
		value, err := r.fieldValue(field)
		if err != nil {
			return Projection{}, err
		}
		payload, err := json.Marshal(value)
		if err != nil {
			return Projection{}, fmt.Errorf("project %s: %w", field, err)
		}
		projection.fields = append(projection.fields, field)
		projection.values[field] = payload
	}
	return projection, nil
}

func (r *Record) fieldValue(field Field) (any, error) {
	switch field {
	case FieldFilePath:
		return r.identity.FilePath, nil
	case FieldFileName:
		return r.identity.FileName, nil
	case FieldDirectoryPath:
		return r.identity.Directory, nil
	case FieldExtension:
		return r.identity.Extension, nil
	case FieldVideoStreamCount:
		return r.video.Len(), nil
	case FieldAudioStreamCount:
		return r.audio.Len(), nil
	case FieldVideoStreamsInfo:
		return r.video, nil
	case FieldAudioStreamsInfo:
		return r.audio, nil
	case FieldVideoScenes:
		return r.scenes, nil
	case FieldAudioDictation:
		return r.dictation, nil
	case FieldRunID:
		return r.runID, nil
	case FieldStages:
		stages := r.Stages()
		if stages == nil {
			stages = []StageReport{}
		}
		return stages, nil
	default:
		return nil, services.Wrap(services.ErrValidation, "projection", "fields", fmt.Sprintf("unknown field %q", field), nil)
	}
}
