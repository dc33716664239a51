package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "trainer_sessions_active",
		Help: "Currently running training sessions",
	})

	SessionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trainer_sessions_total",
		Help: "Completed training sessions by task",
	}, []string{"task"})

	SessionsAbandoned = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trainer_sessions_abandoned_total",
		Help: "Sessions exited before the terminal state",
	}, []string{"task"})

	TrialsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trainer_trials_total",
		Help: "Scored trials by task and correctness",
	}, []string{"task", "result"})

	ReactionTime = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "trainer_reaction_time_seconds",
		Help:    "Reaction time of responded trials",
		Buckets: []float64{0.1, 0.2, 0.3, 0.5, 0.8, 1.0, 1.5, 2.0, 3.0, 5.0},
	}, []string{"task"})

	SessionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "trainer_session_duration_seconds",
		Help:    "Wall-clock duration of completed sessions",
		Buckets: []float64{5, 10, 20, 30, 60, 120, 300, 600},
	}, []string{"task"})

	StoreWrites = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trainer_store_writes_total",
		Help: "Game results persisted",
	})

	StoreErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trainer_store_errors_total",
		Help: "Failed game-result writes",
	})
)
