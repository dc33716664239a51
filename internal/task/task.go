// Package task defines the pluggable task strategies run by the trial
// engine. A Task owns the session's difficulty state (current span,
// failure counters, trial index) and supplies three capabilities: the
// next stimulus, trial scoring, and the stopping condition.
package task

import (
	"errors"
	"strconv"
	"strings"

	"github.com/corticalab/recall/internal/results"
)

// ErrInvalidConfig is wrapped by all task and engine configuration errors.
// Malformed configuration is rejected at session start, before any timer
// is scheduled.
var ErrInvalidConfig = errors.New("invalid config")

// Trial describes one stimulus presentation handed to the runner.
type Trial struct {
	Index   int
	Symbols []int
	// Recall trials replay the whole sequence one symbol at a time and
	// then collect a full replay; detection trials show a single stimulus
	// and collect a present/absent response within the window.
	Recall bool
	Target bool
	Span   int
}

// Response is the participant's input for one trial. For recall trials
// Symbols carries the replayed sequence; for detection trials the act of
// responding at all is the "present" signal.
type Response struct {
	Symbols []int
}

// Task is the strategy plugged into the trial runner.
type Task interface {
	Name() string

	// Next returns the upcoming trial, or ok=false once the session's
	// stopping condition has been met.
	Next() (trial Trial, ok bool)

	// Score computes the trial result and advances the task's difficulty
	// state. resp is nil when the response window elapsed with no input;
	// reactionMs is 0 in that case.
	Score(trial Trial, resp *Response, reactionMs float64) results.TrialResult

	// FinalScore is the task-defined session score: the best completed
	// span for span tasks, the count of correct trials for n-back.
	FinalScore() int
}

// encodeSymbols renders a symbol sequence as the stimulus/response
// descriptor stored on trial results, e.g. "3,5,8".
func encodeSymbols(symbols []int) string {
	parts := make([]string, len(symbols))
	for i, s := range symbols {
		parts[i] = strconv.Itoa(s)
	}
	return strings.Join(parts, ",")
}

func symbolsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
