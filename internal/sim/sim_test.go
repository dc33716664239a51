package sim_test

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corticalab/recall/internal/engine"
	"github.com/corticalab/recall/internal/sim"
	"github.com/corticalab/recall/internal/task"
)

func simTiming() engine.Timing {
	return engine.Timing{
		StimulusOn:     10 * time.Millisecond,
		StimulusGap:    5 * time.Millisecond,
		ResponseWindow: 60 * time.Millisecond,
		InterTrial:     5 * time.Millisecond,
	}
}

func TestPerfectCorsiRun(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	corsi, err := task.NewCorsi(task.CorsiConfig{StartSpan: 2, Symbols: 9, MaxTrials: 3}, rng)
	require.NoError(t, err)

	sess, err := engine.Start(context.Background(), engine.Config{Task: corsi, Timing: simTiming()})
	require.NoError(t, err)

	runner := &sim.Runner{
		Task:     "corsi",
		Accuracy: 1,
		Latency:  time.Millisecond,
		RNG:      rand.New(rand.NewSource(7)),
	}
	summary, err := runner.Run(context.Background(), sess)
	require.NoError(t, err)

	// Three correct trials starting at span 2 leave span 4 completed.
	assert.Equal(t, 4, summary.Score)
	assert.Equal(t, 100.0, summary.Accuracy)
	assert.Equal(t, 3, summary.Trials)
}

func TestPerfectNBackRun(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	nback, err := task.NewNBack(task.NBackConfig{N: 2, Trials: 8, Symbols: 9, TargetProb: 0.4}, rng)
	require.NoError(t, err)

	timing := simTiming()
	timing.ResponseWindow = 30 * time.Millisecond

	sess, err := engine.Start(context.Background(), engine.Config{Task: nback, Timing: timing})
	require.NoError(t, err)

	runner := &sim.Runner{
		Task:     "nback",
		N:        2,
		Accuracy: 1,
		Latency:  time.Millisecond,
		RNG:      rand.New(rand.NewSource(7)),
	}
	summary, err := runner.Run(context.Background(), sess)
	require.NoError(t, err)

	assert.Equal(t, 100.0, summary.Accuracy)
	assert.Equal(t, 8, summary.Trials)
	assert.Equal(t, 8, summary.Score)
}

// A responder slower than the window exercises the timeout path, where
// the session goroutine generates the next sequence while the responder
// goroutine is still drawing from its own source. The task and the
// runner must each own a rand.Rand; sharing one races under -race.
func TestSlowResponderMissesEveryWindow(t *testing.T) {
	const seed = 19
	corsi, err := task.NewCorsi(task.CorsiConfig{StartSpan: 2, Symbols: 9, MaxTrials: 10},
		rand.New(rand.NewSource(seed)))
	require.NoError(t, err)

	timing := simTiming()
	timing.ResponseWindow = 20 * time.Millisecond

	sess, err := engine.Start(context.Background(), engine.Config{Task: corsi, Timing: timing})
	require.NoError(t, err)

	runner := &sim.Runner{
		Task:     "corsi",
		Accuracy: 1,
		Latency:  200 * time.Millisecond,
		RNG:      rand.New(rand.NewSource(seed + 1)),
	}
	summary, err := runner.Run(context.Background(), sess)
	require.NoError(t, err)

	// Two unanswered trials are two consecutive failures.
	assert.Equal(t, 2, summary.Trials)
	assert.Equal(t, 0, summary.Score)
	assert.Equal(t, 0.0, summary.Accuracy)
	assert.Equal(t, 0.0, summary.MeanReactionMs)
}

func TestRunReportsAbandonedSession(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	corsi, err := task.NewCorsi(task.CorsiConfig{StartSpan: 2, Symbols: 9, MaxTrials: 50}, rng)
	require.NoError(t, err)

	sess, err := engine.Start(context.Background(), engine.Config{Task: corsi, Timing: simTiming()})
	require.NoError(t, err)

	time.AfterFunc(20*time.Millisecond, sess.Exit)

	runner := &sim.Runner{
		Task:     "corsi",
		Accuracy: 1,
		Latency:  time.Millisecond,
		RNG:      rand.New(rand.NewSource(7)),
	}
	_, err = runner.Run(context.Background(), sess)
	assert.Error(t, err)
}
