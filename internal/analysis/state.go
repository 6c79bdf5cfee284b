package analysis

import "fmt"

// State is the lifecycle position of one analysis run.
type State string

const (
	StateCreated              State = "created"
	StateIdentifying          State = "identifying"
	StateClassifying          State = "classifying"
	StateSceneSweeping        State = "scene_sweeping"
	StateScenesSkipped        State = "scenes_skipped"
	StateTranscribing         State = "transcribing"
	StateTranscriptionSkipped State = "transcription_skipped"
	StateComplete             State = "complete"
	StateFailed               State = "failed"
)

var transitions = map[State][]State{
	StateCreated:              {StateIdentifying},
	StateIdentifying:          {StateClassifying, StateFailed},
	StateClassifying:          {StateSceneSweeping, StateScenesSkipped, StateFailed},
	StateSceneSweeping:        {StateTranscribing, StateTranscriptionSkipped, StateFailed},
	StateScenesSkipped:        {StateTranscribing, StateTranscriptionSkipped, StateFailed},
	StateTranscribing:         {StateComplete, StateFailed},
	StateTranscriptionSkipped: {StateComplete, StateFailed},
}

// CanTransition reports whether a run may move from s to next. Complete and
// Failed are terminal and no stage is re-entered.
func (s State) CanTransition(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether s ends a run.
func (s State) Terminal() bool {
	return s == StateComplete || s == StateFailed
}

type machine struct {
	state State
}

func (m *machine) advance(next State) {
	if !m.state.CanTransition(next) {
		panic(fmt.Sprintf("analysis: invalid state transition %s -> %s", m.state, next))
	}
	m.state = next
}
