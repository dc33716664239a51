package engine

import (
	"context"
	"time"

	"github.com/corticalab/recall/internal/metrics"
	"github.com/corticalab/recall/internal/results"
	"github.com/corticalab/recall/internal/task"
)

// timedResponse stamps the input with its arrival instant so reaction
// time is measured at the point of the qualifying response, not when the
// run loop gets around to reading it.
type timedResponse struct {
	resp task.Response
	at   time.Time
}

// Session is one running trial session.
type Session struct {
	id        string
	cfg       Config
	events    chan Event
	responses chan timedResponse
	cancel    context.CancelFunc
	history   []results.TrialResult
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Events returns the presentation event stream. The channel closes after
// the session_complete event, or without one on early exit.
func (s *Session) Events() <-chan Event { return s.events }

// Respond submits the participant's input. Non-blocking; input outside an
// open response window is discarded.
func (s *Session) Respond(r task.Response) {
	select {
	case s.responses <- timedResponse{resp: r, at: time.Now()}:
	default:
	}
}

// Exit abandons the session: pending timers are released, the event
// channel closes without a terminal event, and the completion callback
// never fires.
func (s *Session) Exit() { s.cancel() }

func (s *Session) run(ctx context.Context) {
	defer close(s.events)
	defer s.cancel()

	metrics.SessionsActive.Inc()
	defer metrics.SessionsActive.Dec()

	start := time.Now()
	if err := s.loop(ctx); err != nil {
		metrics.SessionsAbandoned.WithLabelValues(s.cfg.Task.Name()).Inc()
		return
	}
	s.finish(ctx, start)
}

func (s *Session) loop(ctx context.Context) error {
	name := s.cfg.Task.Name()
	for {
		trial, ok := s.cfg.Task.Next()
		if !ok {
			return nil
		}

		res, err := s.runTrial(ctx, trial)
		if err != nil {
			return err
		}
		s.history = append(s.history, res)

		outcome := "incorrect"
		if res.Correct {
			outcome = "correct"
		}
		metrics.TrialsTotal.WithLabelValues(name, outcome).Inc()
		if res.Response != nil {
			metrics.ReactionTime.WithLabelValues(name).Observe(res.ReactionMs / 1000)
		}

		if err := s.emit(ctx, Event{Type: EventTrialScored, Trial: trial.Index, Result: &res}); err != nil {
			return err
		}
		if err := s.pause(ctx, s.cfg.Timing.InterTrial); err != nil {
			return err
		}
	}
}

func (s *Session) runTrial(ctx context.Context, trial task.Trial) (results.TrialResult, error) {
	if trial.Recall {
		return s.runRecallTrial(ctx, trial)
	}
	return s.runDetectionTrial(ctx, trial)
}

// runRecallTrial replays the sequence one symbol at a time, then opens the
// response window. The first response locks the trial; a window timeout
// scores a nil response. Reaction time runs from window open, since a
// replayed sequence has no single onset instant.
func (s *Session) runRecallTrial(ctx context.Context, trial task.Trial) (results.TrialResult, error) {
	for i, sym := range trial.Symbols {
		if err := s.emit(ctx, Event{Type: EventStimulusOn, Trial: trial.Index, Symbol: sym}); err != nil {
			return results.TrialResult{}, err
		}
		if err := s.pause(ctx, s.cfg.Timing.StimulusOn); err != nil {
			return results.TrialResult{}, err
		}
		if err := s.emit(ctx, Event{Type: EventStimulusOff, Trial: trial.Index}); err != nil {
			return results.TrialResult{}, err
		}
		if i < len(trial.Symbols)-1 {
			if err := s.pause(ctx, s.cfg.Timing.StimulusGap); err != nil {
				return results.TrialResult{}, err
			}
		}
	}

	s.drainResponses()
	onset := time.Now()
	if err := s.emit(ctx, Event{Type: EventAwaitingResponse, Trial: trial.Index}); err != nil {
		return results.TrialResult{}, err
	}

	window := time.NewTimer(s.cfg.Timing.ResponseWindow)
	defer window.Stop()

	var resp *task.Response
	var reactionMs float64
	select {
	case <-ctx.Done():
		return results.TrialResult{}, ctx.Err()
	case tr := <-s.responses:
		resp = &tr.resp
		reactionMs = millis(tr.at.Sub(onset))
	case <-window.C:
	}

	return s.cfg.Task.Score(trial, resp, reactionMs), nil
}

// runDetectionTrial shows a single stimulus with the response window
// running from stimulus onset. The first response is locked in, but the
// trial advances only when the window elapses.
func (s *Session) runDetectionTrial(ctx context.Context, trial task.Trial) (results.TrialResult, error) {
	s.drainResponses()
	onset := time.Now()
	if err := s.emit(ctx, Event{Type: EventStimulusOn, Trial: trial.Index, Symbol: trial.Symbols[0]}); err != nil {
		return results.TrialResult{}, err
	}

	window := time.NewTimer(s.cfg.Timing.ResponseWindow)
	defer window.Stop()
	display := time.NewTimer(s.cfg.Timing.StimulusOn)
	defer display.Stop()
	displayC := display.C

	var resp *task.Response
	var reactionMs float64
	for {
		select {
		case <-ctx.Done():
			return results.TrialResult{}, ctx.Err()
		case <-displayC:
			displayC = nil
			if err := s.emit(ctx, Event{Type: EventStimulusOff, Trial: trial.Index}); err != nil {
				return results.TrialResult{}, err
			}
			if err := s.emit(ctx, Event{Type: EventAwaitingResponse, Trial: trial.Index}); err != nil {
				return results.TrialResult{}, err
			}
		case tr := <-s.responses:
			if resp == nil {
				resp = &tr.resp
				reactionMs = millis(tr.at.Sub(onset))
			}
		case <-window.C:
			return s.cfg.Task.Score(trial, resp, reactionMs), nil
		}
	}
}

func (s *Session) finish(ctx context.Context, start time.Time) {
	summary := results.Summarize(s.history, s.cfg.Task.FinalScore())
	name := s.cfg.Task.Name()
	metrics.SessionsTotal.WithLabelValues(name).Inc()
	metrics.SessionDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

	// Terminal state reached: the summary event is best-effort, the
	// completion callback is guaranteed.
	_ = s.emit(ctx, Event{Type: EventSessionComplete, Trial: len(s.history), Summary: &summary})
	if s.cfg.OnComplete != nil {
		s.cfg.OnComplete(s.history, summary)
	}
}

func (s *Session) emit(ctx context.Context, ev Event) error {
	select {
	case s.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// drainResponses discards input left over from a previous phase so a
// stray early response cannot leak into the upcoming window.
func (s *Session) drainResponses() {
	for {
		select {
		case <-s.responses:
		default:
			return
		}
	}
}

func millis(d time.Duration) float64 {
	ms := float64(d) / float64(time.Millisecond)
	if ms < 0 {
		return 0
	}
	return ms
}
