package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/corticalab/recall/internal/env"
	"github.com/corticalab/recall/internal/store"
)

func newResultsCmd() *cobra.Command {
	var (
		dsn    string
		userID string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "results",
		Short: "List a user's stored game results",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dsn == "" {
				return fmt.Errorf("--dsn is required (or set RECALL_DB_DSN)")
			}
			if userID == "" {
				return fmt.Errorf("--user is required")
			}

			st, err := store.Open(dsn)
			if err != nil {
				return err
			}
			defer st.Close()

			rows, err := st.ListResults(cmd.Context(), userID, limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "COMPLETED\tTASK\tSCORE\tACCURACY\tMEAN RT (MS)\tERRORS\tID")
			for _, r := range rows {
				fmt.Fprintf(w, "%s\t%s\t%d\t%.1f%%\t%.0f\t%d\t%s\n",
					r.CompletedAt.Format("2006-01-02 15:04:05"), r.Task, r.Score, r.Accuracy, r.ReactionMs, r.ErrorCount, r.ID)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&dsn, "dsn", env.Str("RECALL_DB_DSN", ""), "PostgreSQL DSN")
	cmd.Flags().StringVar(&userID, "user", "", "user ID to list results for")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum rows")
	return cmd
}
