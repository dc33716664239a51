package task

import (
	"fmt"
	"math/rand"

	"github.com/corticalab/recall/internal/results"
	"github.com/corticalab/recall/internal/sequence"
)

// NBackConfig controls the n-back working-memory task.
type NBackConfig struct {
	// N is how many positions back the current stimulus is compared to.
	N int
	// Trials is the fixed total trial count.
	Trials int
	// Symbols is the size of the digit/letter set stimuli are drawn from.
	Symbols int
	// TargetProb is the probability that a position >= N is forced to be
	// a target.
	TargetProb float64
}

// NBack runs the n-back task over a sequence generated up front. Each
// trial shows one stimulus; the participant responds within the window
// when the stimulus matches the one N positions back. A trial is correct
// on a hit or a correct rejection; misses and false alarms are incorrect.
type NBack struct {
	cfg     NBackConfig
	seq     []int
	idx     int
	correct int
}

// NewNBack validates cfg, generates the full stimulus sequence, and
// creates the task.
func NewNBack(cfg NBackConfig, rng *rand.Rand) (*NBack, error) {
	if cfg.N <= 0 {
		return nil, fmt.Errorf("%w: n %d must be positive", ErrInvalidConfig, cfg.N)
	}
	if cfg.Trials <= 0 {
		return nil, fmt.Errorf("%w: trial count %d must be positive", ErrInvalidConfig, cfg.Trials)
	}
	if cfg.Trials <= cfg.N {
		return nil, fmt.Errorf("%w: trial count %d leaves no position to compare %d back", ErrInvalidConfig, cfg.Trials, cfg.N)
	}
	if cfg.Symbols < 2 {
		return nil, fmt.Errorf("%w: symbol set %d must have at least 2 symbols", ErrInvalidConfig, cfg.Symbols)
	}
	if cfg.TargetProb <= 0 || cfg.TargetProb >= 1 {
		return nil, fmt.Errorf("%w: target probability %v must be in (0, 1)", ErrInvalidConfig, cfg.TargetProb)
	}

	seq, _, err := sequence.NBack(rng, cfg.N, cfg.Trials, cfg.Symbols, cfg.TargetProb)
	if err != nil {
		return nil, fmt.Errorf("generate sequence: %w", err)
	}
	return &NBack{cfg: cfg, seq: seq}, nil
}

// Name implements Task.
func (n *NBack) Name() string { return "nback" }

// Next implements Task. The session stops when the fixed trial count is
// reached.
func (n *NBack) Next() (Trial, bool) {
	if n.idx >= n.cfg.Trials {
		return Trial{}, false
	}
	return Trial{
		Index:   n.idx,
		Symbols: []int{n.seq[n.idx]},
		Target:  n.isTarget(n.idx),
	}, true
}

func (n *NBack) isTarget(i int) bool {
	return i >= n.cfg.N && n.seq[i] == n.seq[i-n.cfg.N]
}

// Score implements Task: signal-detection scoring. Any response within
// the window counts as "present".
func (n *NBack) Score(trial Trial, resp *Response, reactionMs float64) results.TrialResult {
	present := resp != nil

	res := results.TrialResult{
		Index:      trial.Index,
		Stimulus:   encodeSymbols(trial.Symbols),
		ReactionMs: reactionMs,
		Kind:       results.KindNonTarget,
	}
	if trial.Target {
		res.Kind = results.KindTarget
	}
	if present {
		marker := "present"
		res.Response = &marker
	}

	switch {
	case trial.Target && present:
		res.Correct, res.Outcome = true, results.OutcomeHit
	case trial.Target && !present:
		res.Outcome = results.OutcomeMiss
	case !trial.Target && present:
		res.Outcome = results.OutcomeFalseAlarm
	default:
		res.Correct, res.Outcome = true, results.OutcomeCorrectRejection
	}

	n.idx++
	if res.Correct {
		n.correct++
	}
	return res
}

// FinalScore implements Task: the count of correct trials.
func (n *NBack) FinalScore() int { return n.correct }
