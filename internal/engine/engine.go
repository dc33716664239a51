// Package engine runs timed trial sessions. One Session owns one mutable
// state record exclusively; all phase transitions happen on a single
// goroutine that waits on at most one timer at a time, so a stale timer
// can never mutate state after the session has advanced.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/corticalab/recall/internal/results"
	"github.com/corticalab/recall/internal/task"
)

// Timing holds the per-phase timer durations of a session.
type Timing struct {
	// StimulusOn is how long each stimulus stays visible.
	StimulusOn time.Duration
	// StimulusGap is the blank interval between symbols of a replayed
	// sequence.
	StimulusGap time.Duration
	// ResponseWindow bounds how long the session waits for input. For
	// detection trials the window starts at stimulus onset and the trial
	// advances only when it elapses, so it must not be shorter than
	// StimulusOn; for recall trials it starts after the replay and a
	// response ends it early.
	ResponseWindow time.Duration
	// InterTrial is the delay between a scored trial and the next
	// presentation.
	InterTrial time.Duration
}

// DefaultTiming returns the timing used by the production task presets.
func DefaultTiming() Timing {
	return Timing{
		StimulusOn:     700 * time.Millisecond,
		StimulusGap:    300 * time.Millisecond,
		ResponseWindow: 3 * time.Second,
		InterTrial:     time.Second,
	}
}

// Scale returns the timing with every duration multiplied by f. The
// simulator uses it to compress sessions without changing their shape.
func (t Timing) Scale(f float64) Timing {
	return Timing{
		StimulusOn:     time.Duration(float64(t.StimulusOn) * f),
		StimulusGap:    time.Duration(float64(t.StimulusGap) * f),
		ResponseWindow: time.Duration(float64(t.ResponseWindow) * f),
		InterTrial:     time.Duration(float64(t.InterTrial) * f),
	}
}

func (t Timing) validate() error {
	if t.StimulusOn <= 0 {
		return fmt.Errorf("%w: stimulus duration %v must be positive", task.ErrInvalidConfig, t.StimulusOn)
	}
	if t.ResponseWindow <= 0 {
		return fmt.Errorf("%w: response window %v must be positive", task.ErrInvalidConfig, t.ResponseWindow)
	}
	if t.ResponseWindow < t.StimulusOn {
		return fmt.Errorf("%w: response window %v shorter than stimulus duration %v", task.ErrInvalidConfig, t.ResponseWindow, t.StimulusOn)
	}
	if t.StimulusGap < 0 {
		return fmt.Errorf("%w: stimulus gap %v must not be negative", task.ErrInvalidConfig, t.StimulusGap)
	}
	if t.InterTrial < 0 {
		return fmt.Errorf("%w: inter-trial delay %v must not be negative", task.ErrInvalidConfig, t.InterTrial)
	}
	return nil
}

// CompletionFunc receives the ordered trial history and the derived
// summary. It is invoked exactly once per session, after the terminal
// state is reached, and never on early exit.
type CompletionFunc func(history []results.TrialResult, summary results.SessionSummary)

// Config describes one session.
type Config struct {
	Task       task.Task
	Timing     Timing
	UserID     string
	OnComplete CompletionFunc
}

// Start validates cfg and launches the session. Configuration errors are
// returned before any timer is scheduled. The caller must consume
// Events() until the channel closes, or call Exit.
func Start(ctx context.Context, cfg Config) (*Session, error) {
	if cfg.Task == nil {
		return nil, fmt.Errorf("%w: no task", task.ErrInvalidConfig)
	}
	if err := cfg.Timing.validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	s := &Session{
		id:        uuid.NewString(),
		cfg:       cfg,
		events:    make(chan Event, 64),
		responses: make(chan timedResponse, 1),
		cancel:    cancel,
	}
	go s.run(ctx)
	return s, nil
}
