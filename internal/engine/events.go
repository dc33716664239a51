package engine

import "github.com/corticalab/recall/internal/results"

// EventType identifies a phase-change notification on the session stream.
type EventType string

const (
	EventStimulusOn       EventType = "stimulus_on"
	EventStimulusOff      EventType = "stimulus_off"
	EventAwaitingResponse EventType = "awaiting_response"
	EventTrialScored      EventType = "trial_scored"
	EventSessionComplete  EventType = "session_complete"
)

// Event is one presentation event sent to the consumer. The stream is
// finite and non-restartable: it ends with a session_complete event at
// the terminal state, or closes without one on early exit.
type Event struct {
	Type    EventType                `json:"type"`
	Trial   int                      `json:"trial"`
	Symbol  int                      `json:"symbol,omitempty"`
	Result  *results.TrialResult     `json:"result,omitempty"`
	Summary *results.SessionSummary  `json:"summary,omitempty"`
}
