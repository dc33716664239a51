package store

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corticalab/recall/internal/results"
)

func TestRecorderNilSafe(t *testing.T) {
	var rec *Recorder
	rec.Record(GameResult{ID: "ignored"})
	rec.Close()
}

func TestNewGameResultFields(t *testing.T) {
	marker := "present"
	history := []results.TrialResult{
		{Index: 0, Stimulus: "4", Response: &marker, Correct: true, ReactionMs: 512.5, Kind: results.KindTarget, Outcome: results.OutcomeHit},
		{Index: 1, Stimulus: "7", Correct: true, Kind: results.KindNonTarget, Outcome: results.OutcomeCorrectRejection},
	}
	summary := results.SessionSummary{Score: 2, Accuracy: 100, MeanReactionMs: 512.5, Trials: 2, Errors: 0}

	before := time.Now()
	res := NewGameResult("u-1", "nback", history, summary)

	assert.NotEmpty(t, res.ID)
	assert.Equal(t, "u-1", res.UserID)
	assert.Equal(t, "nback", res.Task)
	assert.Equal(t, 2, res.Score)
	assert.Equal(t, 100.0, res.Accuracy)
	assert.Equal(t, 512.5, res.ReactionMs)
	assert.Equal(t, 0, res.ErrorCount)
	assert.False(t, res.CompletedAt.Before(before))

	var decoded []results.TrialResult
	require.NoError(t, json.Unmarshal([]byte(res.Detail), &decoded))
	assert.Equal(t, history, decoded)
}

func TestNewGameResultIDsAreUnique(t *testing.T) {
	summary := results.SessionSummary{}
	a := NewGameResult("u-1", "corsi", nil, summary)
	b := NewGameResult("u-1", "corsi", nil, summary)
	assert.NotEqual(t, a.ID, b.ID)
}
