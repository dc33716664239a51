package task

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corticalab/recall/internal/results"
)

// fixedNBack builds an n-back task over a known sequence, bypassing
// generation so scoring scenarios are exact.
func fixedNBack(n int, seq []int) *NBack {
	return &NBack{cfg: NBackConfig{N: n, Trials: len(seq), Symbols: 9, TargetProb: 0.3}, seq: seq}
}

func TestNBackTargetHitAndMiss(t *testing.T) {
	// Index 2 equals index 0, so with N=2 it is a target trial.
	seq := []int{4, 7, 4}

	t.Run("response within window is a hit", func(t *testing.T) {
		nb := fixedNBack(2, seq)
		for i := 0; i < 2; i++ {
			trial, ok := nb.Next()
			require.True(t, ok)
			assert.False(t, trial.Target)
			nb.Score(trial, nil, 0)
		}

		trial, ok := nb.Next()
		require.True(t, ok)
		assert.True(t, trial.Target)

		res := nb.Score(trial, &Response{}, 450)
		assert.True(t, res.Correct)
		assert.Equal(t, results.OutcomeHit, res.Outcome)
		assert.Equal(t, results.KindTarget, res.Kind)
		require.NotNil(t, res.Response)
		assert.Equal(t, "present", *res.Response)
		assert.Equal(t, 450.0, res.ReactionMs)
	})

	t.Run("no response is a miss", func(t *testing.T) {
		nb := fixedNBack(2, seq)
		nb.Score(mustNext(t, nb), nil, 0)
		nb.Score(mustNext(t, nb), nil, 0)

		res := nb.Score(mustNext(t, nb), nil, 0)
		assert.False(t, res.Correct)
		assert.Equal(t, results.OutcomeMiss, res.Outcome)
		assert.Nil(t, res.Response)
		assert.Zero(t, res.ReactionMs)
	})
}

func TestNBackNonTargetOutcomes(t *testing.T) {
	seq := []int{4, 7, 5}
	nb := fixedNBack(2, seq)

	res := nb.Score(mustNext(t, nb), nil, 0)
	assert.True(t, res.Correct)
	assert.Equal(t, results.OutcomeCorrectRejection, res.Outcome)
	assert.Equal(t, results.KindNonTarget, res.Kind)

	res = nb.Score(mustNext(t, nb), &Response{}, 300)
	assert.False(t, res.Correct)
	assert.Equal(t, results.OutcomeFalseAlarm, res.Outcome)
}

func TestNBackStopsAtFixedTrialCount(t *testing.T) {
	nb := fixedNBack(2, []int{1, 2, 1, 3})

	var scored int
	for {
		trial, ok := nb.Next()
		if !ok {
			break
		}
		nb.Score(trial, nil, 0)
		scored++
	}
	assert.Equal(t, 4, scored)

	_, ok := nb.Next()
	assert.False(t, ok)
}

func TestNBackFinalScoreCountsCorrectTrials(t *testing.T) {
	nb := fixedNBack(2, []int{1, 2, 1, 2})

	nb.Score(mustNext(t, nb), nil, 0)         // correct rejection
	nb.Score(mustNext(t, nb), nil, 0)         // correct rejection
	nb.Score(mustNext(t, nb), &Response{}, 1) // hit
	nb.Score(mustNext(t, nb), nil, 0)         // miss

	assert.Equal(t, 3, nb.FinalScore())
}

func TestNBackGeneratedSequenceLength(t *testing.T) {
	nb, err := NewNBack(NBackConfig{N: 2, Trials: 30, Symbols: 9, TargetProb: 0.3}, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	assert.Len(t, nb.seq, 30)
}

func TestNBackConfigValidation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	cases := []struct {
		name string
		cfg  NBackConfig
	}{
		{"zero n", NBackConfig{N: 0, Trials: 10, Symbols: 9, TargetProb: 0.3}},
		{"zero trials", NBackConfig{N: 2, Trials: 0, Symbols: 9, TargetProb: 0.3}},
		{"trials not above n", NBackConfig{N: 2, Trials: 2, Symbols: 9, TargetProb: 0.3}},
		{"single symbol", NBackConfig{N: 2, Trials: 10, Symbols: 1, TargetProb: 0.3}},
		{"zero probability", NBackConfig{N: 2, Trials: 10, Symbols: 9, TargetProb: 0}},
		{"probability of one", NBackConfig{N: 2, Trials: 10, Symbols: 9, TargetProb: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewNBack(tc.cfg, rng)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}
}

func mustNext(t *testing.T, nb *NBack) Trial {
	t.Helper()
	trial, ok := nb.Next()
	require.True(t, ok)
	return trial
}
