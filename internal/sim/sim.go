// Package sim drives a session the way the browser front end would: it
// consumes the presentation event stream, reconstructs the stimulus from
// stimulus_on events, and answers with configurable accuracy. Used by the
// CLI to exercise the engine, store, and metrics end to end.
package sim

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/corticalab/recall/internal/engine"
	"github.com/corticalab/recall/internal/results"
	"github.com/corticalab/recall/internal/task"
)

// Runner is an automated participant.
type Runner struct {
	// Task selects the response policy: "corsi" replays sequences,
	// "nback" responds to matches.
	Task string
	// N is the n-back depth; used only by the nback policy.
	N int
	// Accuracy is the probability of acting correctly on each trial.
	Accuracy float64
	// Latency is the simulated think time before a response.
	Latency time.Duration
	// RNG drives the accuracy coin flips; required.
	RNG *rand.Rand
}

// Run consumes the session's event stream until it closes and returns the
// terminal summary. An early-exited session yields an error since the
// stream ends without a summary.
func (r *Runner) Run(ctx context.Context, sess *engine.Session) (*results.SessionSummary, error) {
	var shown []int   // every stimulus seen, across trials (n-back policy)
	var current []int // stimuli of the trial being presented (recall policy)
	var summary *results.SessionSummary

	for ev := range sess.Events() {
		switch ev.Type {
		case engine.EventStimulusOn:
			current = append(current, ev.Symbol)
			if r.Task == "nback" {
				shown = append(shown, ev.Symbol)
				r.answerDetection(sess, shown)
			}
		case engine.EventAwaitingResponse:
			if r.Task == "corsi" {
				r.answerRecall(sess, current)
			}
		case engine.EventTrialScored:
			current = nil
		case engine.EventSessionComplete:
			summary = ev.Summary
		}
	}

	if summary == nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("session ended without a summary")
	}
	return summary, nil
}

// answerDetection decides present/absent for the just-shown stimulus. The
// runner tracks the full stimulus history itself, exactly as a
// participant holds it in working memory.
func (r *Runner) answerDetection(sess *engine.Session, shown []int) {
	i := len(shown) - 1
	target := i >= r.N && shown[i] == shown[i-r.N]

	respond := target
	if r.RNG.Float64() >= r.Accuracy {
		respond = !target // miss on targets, false-alarm on non-targets
	}
	if !respond {
		return
	}
	time.AfterFunc(r.Latency, func() {
		sess.Respond(task.Response{})
	})
}

// answerRecall replays the presented sequence, corrupting it on the
// error branch.
func (r *Runner) answerRecall(sess *engine.Session, current []int) {
	replay := make([]int, len(current))
	copy(replay, current)

	if r.RNG.Float64() >= r.Accuracy {
		if len(replay) > 1 {
			replay[0], replay[len(replay)-1] = replay[len(replay)-1], replay[0]
		} else if len(replay) == 1 {
			replay[0]++
		}
	}
	time.AfterFunc(r.Latency, func() {
		sess.Respond(task.Response{Symbols: replay})
	})
}
