package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/corticalab/recall/internal/config"
	"github.com/corticalab/recall/internal/engine"
	"github.com/corticalab/recall/internal/env"
	"github.com/corticalab/recall/internal/results"
	"github.com/corticalab/recall/internal/sim"
	"github.com/corticalab/recall/internal/store"
	"github.com/corticalab/recall/internal/task"
)

func newSimulateCmd() *cobra.Command {
	var (
		taskName  string
		sessions  int
		seed      int64
		dsn       string
		presets   string
		userID    string
		accuracy  float64
		latency   time.Duration
		timeScale float64
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run automated training sessions against the trial engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			file, err := config.Load(presets)
			if err != nil {
				return err
			}
			preset, err := file.Preset(taskName)
			if err != nil {
				return err
			}

			var rec *store.Recorder
			if dsn != "" {
				st, err := store.Open(dsn)
				if err != nil {
					return err
				}
				defer st.Close()
				if err = st.SaveUser(ctx, store.User{ID: userID, Username: userID, CreatedAt: time.Now()}); err != nil {
					return fmt.Errorf("ensure user: %w", err)
				}
				rec = store.NewRecorder(st)
				defer rec.Close()
			}

			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			// The task and the responder run on different goroutines and a
			// rand.Rand is not safe for concurrent use, so each side gets
			// its own seeded source.
			taskRNG := rand.New(rand.NewSource(seed))
			runnerRNG := rand.New(rand.NewSource(seed + 1))
			timing := preset.EngineTiming().Scale(timeScale)
			latency = time.Duration(float64(latency) * timeScale)

			slog.Info("simulation starting", "task", preset.Task, "sessions", sessions, "seed", seed, "accuracy", accuracy, "persist", dsn != "")

			for i := 0; i < sessions; i++ {
				tk, err := task.New(preset.Task, preset.Params(), taskRNG)
				if err != nil {
					return err
				}

				sess, err := engine.Start(ctx, engine.Config{
					Task:   tk,
					Timing: timing,
					UserID: userID,
					OnComplete: func(history []results.TrialResult, summary results.SessionSummary) {
						rec.Record(store.NewGameResult(userID, tk.Name(), history, summary))
					},
				})
				if err != nil {
					return err
				}

				runner := &sim.Runner{
					Task:     preset.Task,
					N:        preset.N,
					Accuracy: accuracy,
					Latency:  latency,
					RNG:      runnerRNG,
				}
				summary, err := runner.Run(ctx, sess)
				if err != nil {
					return err
				}

				slog.Info("session complete",
					"session", i+1,
					"session_id", sess.ID(),
					"score", summary.Score,
					"accuracy", summary.Accuracy,
					"mean_reaction_ms", summary.MeanReactionMs,
					"trials", summary.Trials,
					"errors", summary.Errors,
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&taskName, "task", "corsi", "task preset to run")
	cmd.Flags().IntVar(&sessions, "sessions", 1, "number of sessions")
	cmd.Flags().Int64Var(&seed, "seed", 0, "RNG seed (0 = time-based)")
	cmd.Flags().StringVar(&dsn, "dsn", env.Str("RECALL_DB_DSN", ""), "PostgreSQL DSN for persisting results")
	cmd.Flags().StringVar(&presets, "presets", env.Str("RECALL_PRESETS", ""), "YAML presets file (built-in defaults when empty)")
	cmd.Flags().StringVar(&userID, "user", "simulator", "user ID results are stored under")
	cmd.Flags().Float64Var(&accuracy, "accuracy", env.Float("RECALL_SIM_ACCURACY", 0.85), "per-trial probability of a correct response")
	cmd.Flags().DurationVar(&latency, "latency", env.Duration("RECALL_SIM_LATENCY", 400*time.Millisecond), "simulated think time before responding")
	cmd.Flags().Float64Var(&timeScale, "time-scale", 1.0, "multiplier on all phase timers (<1 compresses sessions)")
	return cmd
}
