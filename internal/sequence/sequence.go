// Package sequence generates the pseudo-random stimulus sequences for the
// trial engine. Generation is total: every call terminates with a valid
// sequence for valid arguments.
package sequence

import (
	"fmt"
	"math/rand"
)

// Span returns length distinct symbols drawn without replacement from
// [0, symbols). Used by the spatial span task, where a duplicate inside
// one sequence would make the replay ambiguous.
func Span(rng *rand.Rand, length, symbols int) ([]int, error) {
	if length <= 0 {
		return nil, fmt.Errorf("span length %d: must be positive", length)
	}
	if length > symbols {
		return nil, fmt.Errorf("span length %d exceeds symbol set size %d", length, symbols)
	}
	return rng.Perm(symbols)[:length], nil
}

// NBack returns a sequence of total symbols from [0, symbols) together
// with the enforced-target mask. At each position i >= n, with probability
// targetProb the symbol is forced to equal the one n positions back (a
// target trial); otherwise the symbol is drawn so that it differs from the
// one n positions back, keeping accidental targets from diluting the
// intended target rate. Positions before n are never targets.
func NBack(rng *rand.Rand, n, total, symbols int, targetProb float64) ([]int, []bool, error) {
	if n <= 0 {
		return nil, nil, fmt.Errorf("n %d: must be positive", n)
	}
	if total <= 0 {
		return nil, nil, fmt.Errorf("trial count %d: must be positive", total)
	}
	if symbols < 2 {
		return nil, nil, fmt.Errorf("symbol set size %d: need at least 2", symbols)
	}
	if targetProb < 0 || targetProb > 1 {
		return nil, nil, fmt.Errorf("target probability %v: must be in [0, 1]", targetProb)
	}

	seq := make([]int, total)
	targets := make([]bool, total)

	for i := range seq {
		if i < n {
			seq[i] = rng.Intn(symbols)
			continue
		}
		if rng.Float64() < targetProb {
			seq[i] = seq[i-n]
			targets[i] = true
			continue
		}
		seq[i] = drawExcluding(rng, symbols, seq[i-n])
	}
	return seq, targets, nil
}

// drawExcluding draws uniformly from [0, symbols) \ {excluded} without
// rejection sampling, so generation cannot loop.
func drawExcluding(rng *rand.Rand, symbols, excluded int) int {
	v := rng.Intn(symbols - 1)
	if v >= excluded {
		v++
	}
	return v
}
