package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/corticalab/recall/internal/env"
	"github.com/corticalab/recall/internal/migrate"
	"github.com/corticalab/recall/internal/store"
)

func newMigrateCmd() *cobra.Command {
	var (
		sqlitePath string
		dsn        string
		workers    int
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy the legacy SQLite database into PostgreSQL",
		Long:  "One-shot batch migration of users and game results. Upserts are idempotent, so the job is safe to re-run after a partial failure.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if sqlitePath == "" {
				return fmt.Errorf("--sqlite is required")
			}
			if dsn == "" {
				return fmt.Errorf("--dsn is required (or set RECALL_DB_DSN)")
			}

			st, err := store.Open(dsn)
			if err != nil {
				return err
			}
			defer st.Close()

			stats, err := migrate.Run(cmd.Context(), sqlitePath, st, workers)
			if err != nil {
				return err
			}

			slog.Info("migration complete", "users", stats.Users, "results", stats.Results, "skipped", stats.Skipped)
			return nil
		},
	}

	cmd.Flags().StringVar(&sqlitePath, "sqlite", "", "path to the legacy SQLite database file")
	cmd.Flags().StringVar(&dsn, "dsn", env.Str("RECALL_DB_DSN", ""), "PostgreSQL DSN")
	cmd.Flags().IntVar(&workers, "workers", env.Int("RECALL_WORKERS", 4), "concurrent result writers")
	return cmd
}
