// Package config loads task presets: the per-task parameters and timing
// windows a session is started with.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/corticalab/recall/internal/engine"
	"github.com/corticalab/recall/internal/task"
)

// Timing is the YAML shape of the per-phase timer durations, in
// milliseconds to match the values the frontend historically used.
type Timing struct {
	StimulusOnMs     int `yaml:"stimulus_on_ms"`
	StimulusGapMs    int `yaml:"stimulus_gap_ms"`
	ResponseWindowMs int `yaml:"response_window_ms"`
	InterTrialMs     int `yaml:"inter_trial_ms"`
}

// Preset is one named task configuration.
type Preset struct {
	Task       string  `yaml:"task"`
	StartSpan  int     `yaml:"start_span"`
	Symbols    int     `yaml:"symbols"`
	MaxTrials  int     `yaml:"max_trials"`
	N          int     `yaml:"n"`
	Trials     int     `yaml:"trials"`
	TargetProb float64 `yaml:"target_prob"`
	Timing     *Timing `yaml:"timing"`
}

// File is the root of a presets file.
type File struct {
	Presets map[string]Preset `yaml:"presets"`
}

// Default returns the built-in presets used when no file is given.
func Default() File {
	return File{Presets: map[string]Preset{
		"corsi": {
			Task:      "corsi",
			StartSpan: 2,
			Symbols:   9,
			MaxTrials: 20,
		},
		"nback": {
			Task:       "nback",
			N:          2,
			Trials:     30,
			Symbols:    9,
			TargetProb: 0.3,
		},
	}}
}

// Load reads a presets file, or returns the defaults when path is empty.
func Load(path string) (File, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read presets: %w", err)
	}
	var f File
	if err = yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("parse presets: %w", err)
	}
	if len(f.Presets) == 0 {
		return File{}, fmt.Errorf("presets file %s defines no presets", path)
	}
	return f, nil
}

// Preset looks up a named preset.
func (f File) Preset(name string) (Preset, error) {
	p, ok := f.Presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("unknown preset %q", name)
	}
	if p.Task == "" {
		p.Task = name
	}
	return p, nil
}

// Params converts the preset into the task factory parameter set.
func (p Preset) Params() task.Params {
	return task.Params{
		StartSpan:  p.StartSpan,
		Symbols:    p.Symbols,
		MaxTrials:  p.MaxTrials,
		N:          p.N,
		Trials:     p.Trials,
		TargetProb: p.TargetProb,
	}
}

// EngineTiming converts the preset timing into engine durations, falling
// back to the engine defaults for the whole block or any zero field.
func (p Preset) EngineTiming() engine.Timing {
	t := engine.DefaultTiming()
	if p.Timing == nil {
		return t
	}
	if p.Timing.StimulusOnMs > 0 {
		t.StimulusOn = time.Duration(p.Timing.StimulusOnMs) * time.Millisecond
	}
	if p.Timing.StimulusGapMs > 0 {
		t.StimulusGap = time.Duration(p.Timing.StimulusGapMs) * time.Millisecond
	}
	if p.Timing.ResponseWindowMs > 0 {
		t.ResponseWindow = time.Duration(p.Timing.ResponseWindowMs) * time.Millisecond
	}
	if p.Timing.InterTrialMs > 0 {
		t.InterTrial = time.Duration(p.Timing.InterTrialMs) * time.Millisecond
	}
	return t
}
