// Package results holds the per-trial record and session summary types
// shared by the trial engine, the store, and the migration utility.
package results

// Trial classifications for detection tasks.
const (
	KindTarget    = "target"
	KindNonTarget = "non-target"
)

// Signal-detection outcomes. Misses and false alarms count as incorrect
// for accuracy; they are kept separately for diagnostic display.
const (
	OutcomeHit              = "hit"
	OutcomeMiss             = "miss"
	OutcomeFalseAlarm       = "false_alarm"
	OutcomeCorrectRejection = "correct_rejection"
)

// TrialResult is one completed trial. Records are append-only: once a
// trial is scored the result is never mutated or removed.
type TrialResult struct {
	Index      int     `json:"index"`
	Stimulus   string  `json:"stimulus"`
	Response   *string `json:"response,omitempty"`
	Correct    bool    `json:"correct"`
	ReactionMs float64 `json:"reaction_ms"`
	Kind       string  `json:"kind,omitempty"`
	Outcome    string  `json:"outcome,omitempty"`
	Span       int     `json:"span,omitempty"`
}

// SessionSummary is derived from the full trial history at session end.
type SessionSummary struct {
	Score          int     `json:"score"`
	Accuracy       float64 `json:"accuracy"`
	MeanReactionMs float64 `json:"mean_reaction_ms"`
	Trials         int     `json:"trials"`
	Errors         int     `json:"errors"`
}

// Summarize computes the session summary from the ordered trial history.
// The task-specific score is supplied by the caller.
//
// Accuracy is the percentage of correct trials over ALL trials, including
// trials with no response. Mean reaction time is computed only over trials
// that had a response: no-response trials are recorded with ReactionMs 0
// and must not drag the mean down, so they are filtered by the non-nil
// Response check. With zero responded trials the mean defaults to 0.
func Summarize(history []TrialResult, score int) SessionSummary {
	s := SessionSummary{Score: score, Trials: len(history)}
	if len(history) == 0 {
		return s
	}

	var correct, responded int
	var totalMs float64
	for _, tr := range history {
		if tr.Correct {
			correct++
		} else {
			s.Errors++
		}
		if tr.Response != nil {
			responded++
			totalMs += tr.ReactionMs
		}
	}

	s.Accuracy = 100 * float64(correct) / float64(len(history))
	if responded > 0 {
		s.MeanReactionMs = totalMs / float64(responded)
	}
	return s
}
