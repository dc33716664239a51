package task

import (
	"fmt"
	"math/rand"
	"sort"
)

// Params is the flattened parameter set a preset supplies; each factory
// picks the fields it needs.
type Params struct {
	StartSpan  int
	Symbols    int
	MaxTrials  int
	N          int
	Trials     int
	TargetProb float64
}

type factory func(p Params, rng *rand.Rand) (Task, error)

var factories = map[string]factory{
	"corsi": func(p Params, rng *rand.Rand) (Task, error) {
		return NewCorsi(CorsiConfig{StartSpan: p.StartSpan, Symbols: p.Symbols, MaxTrials: p.MaxTrials}, rng)
	},
	"nback": func(p Params, rng *rand.Rand) (Task, error) {
		return NewNBack(NBackConfig{N: p.N, Trials: p.Trials, Symbols: p.Symbols, TargetProb: p.TargetProb}, rng)
	},
}

// New builds the named task from p.
func New(name string, p Params, rng *rand.Rand) (Task, error) {
	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown task %q (available: %v)", ErrInvalidConfig, name, Names())
	}
	return f(p, rng)
}

// Names lists the registered task names, sorted.
func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
