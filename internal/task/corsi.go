package task

import (
	"fmt"
	"math/rand"

	"github.com/corticalab/recall/internal/results"
	"github.com/corticalab/recall/internal/sequence"
)

// CorsiConfig controls the spatial span (Corsi block) task.
type CorsiConfig struct {
	// StartSpan is the length of the first to-be-recalled sequence.
	StartSpan int
	// Symbols is the size of the grid the blocks are drawn from.
	Symbols int
	// MaxTrials bounds the session regardless of performance, enforcing
	// the trial budget invariant.
	MaxTrials int
}

const maxConsecutiveFailures = 2

// Corsi runs the spatial span recall task: a sequence of grid cells is
// replayed to the participant, who must recall it in order. The span
// increments by one immediately after the first correct trial at a given
// span; the session ends after two consecutive incorrect trials, and the
// score is the last span successfully completed.
type Corsi struct {
	cfg      CorsiConfig
	rng      *rand.Rand
	span     int
	best     int
	failures int
	trials   int
	done     bool
}

// NewCorsi validates cfg and creates the task. rng drives sequence
// generation; inject a seeded source for reproducible sessions.
func NewCorsi(cfg CorsiConfig, rng *rand.Rand) (*Corsi, error) {
	if cfg.StartSpan <= 0 {
		return nil, fmt.Errorf("%w: start span %d must be positive", ErrInvalidConfig, cfg.StartSpan)
	}
	if cfg.Symbols < cfg.StartSpan {
		return nil, fmt.Errorf("%w: symbol set %d smaller than start span %d", ErrInvalidConfig, cfg.Symbols, cfg.StartSpan)
	}
	if cfg.MaxTrials <= 0 {
		return nil, fmt.Errorf("%w: max trials %d must be positive", ErrInvalidConfig, cfg.MaxTrials)
	}
	return &Corsi{cfg: cfg, rng: rng, span: cfg.StartSpan}, nil
}

// Name implements Task.
func (c *Corsi) Name() string { return "corsi" }

// Next implements Task. The session stops on two consecutive failures,
// on trial budget exhaustion, or when the span outgrows the symbol set
// and no longer admits a duplicate-free sequence.
func (c *Corsi) Next() (Trial, bool) {
	if c.done || c.trials >= c.cfg.MaxTrials || c.span > c.cfg.Symbols {
		return Trial{}, false
	}
	seq, err := sequence.Span(c.rng, c.span, c.cfg.Symbols)
	if err != nil {
		// Unreachable after config validation; stop rather than present
		// a malformed trial.
		return Trial{}, false
	}
	return Trial{Index: c.trials, Symbols: seq, Recall: true, Span: c.span}, true
}

// Score implements Task. A trial is correct only when the full sequence
// is replayed in order.
func (c *Corsi) Score(trial Trial, resp *Response, reactionMs float64) results.TrialResult {
	res := results.TrialResult{
		Index:      trial.Index,
		Stimulus:   encodeSymbols(trial.Symbols),
		ReactionMs: reactionMs,
		Span:       trial.Span,
	}
	if resp != nil {
		replay := encodeSymbols(resp.Symbols)
		res.Response = &replay
		res.Correct = symbolsEqual(resp.Symbols, trial.Symbols)
	}

	c.trials++
	if res.Correct {
		c.best = trial.Span
		c.span++
		c.failures = 0
	} else {
		c.failures++
		if c.failures >= maxConsecutiveFailures {
			c.done = true
		}
	}
	return res
}

// FinalScore implements Task: the highest span successfully completed,
// 0 when no trial succeeded.
func (c *Corsi) FinalScore() int { return c.best }
