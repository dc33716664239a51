package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corticalab/recall/internal/config"
	"github.com/corticalab/recall/internal/engine"
)

func writePresets(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaultsWhenPathEmpty(t *testing.T) {
	f, err := config.Load("")
	require.NoError(t, err)

	p, err := f.Preset("corsi")
	require.NoError(t, err)
	assert.Equal(t, "corsi", p.Task)
	assert.Equal(t, 2, p.StartSpan)

	p, err = f.Preset("nback")
	require.NoError(t, err)
	assert.Equal(t, 2, p.N)
	assert.Equal(t, 30, p.Trials)
	assert.Equal(t, 0.3, p.TargetProb)
}

func TestLoadFileOverridesTiming(t *testing.T) {
	path := writePresets(t, `
presets:
  easy:
    task: nback
    n: 1
    trials: 10
    symbols: 4
    target_prob: 0.5
    timing:
      response_window_ms: 5000
      inter_trial_ms: 250
`)
	f, err := config.Load(path)
	require.NoError(t, err)

	p, err := f.Preset("easy")
	require.NoError(t, err)
	assert.Equal(t, "nback", p.Task)

	timing := p.EngineTiming()
	def := engine.DefaultTiming()
	assert.Equal(t, 5*time.Second, timing.ResponseWindow)
	assert.Equal(t, 250*time.Millisecond, timing.InterTrial)
	// Unset fields keep the defaults.
	assert.Equal(t, def.StimulusOn, timing.StimulusOn)
	assert.Equal(t, def.StimulusGap, timing.StimulusGap)
}

func TestPresetTaskDefaultsToName(t *testing.T) {
	path := writePresets(t, `
presets:
  corsi:
    start_span: 3
    symbols: 9
    max_trials: 5
`)
	f, err := config.Load(path)
	require.NoError(t, err)

	p, err := f.Preset("corsi")
	require.NoError(t, err)
	assert.Equal(t, "corsi", p.Task)

	params := p.Params()
	assert.Equal(t, 3, params.StartSpan)
	assert.Equal(t, 5, params.MaxTrials)
}

func TestLoadRejectsEmptyAndUnknown(t *testing.T) {
	_, err := config.Load(writePresets(t, "presets: {}\n"))
	assert.Error(t, err)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	f, err := config.Load("")
	require.NoError(t, err)
	_, err = f.Preset("stroop")
	assert.Error(t, err)
}
