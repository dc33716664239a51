// Package migrate moves the legacy SQLite users/results database into
// PostgreSQL. The job is a one-shot batch with idempotent upsert
// semantics: re-running it against a partially migrated target is safe.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3" // registers "sqlite3" driver
	"golang.org/x/sync/errgroup"

	"github.com/corticalab/recall/internal/store"
)

// Stats reports what one run moved.
type Stats struct {
	Users   int
	Results int
	Skipped int
}

// Run copies users and game results from the SQLite file at path into
// dst. Users go first so result rows satisfy the foreign key; results are
// then upserted concurrently by a pool of workers. Result rows referencing a
// user absent from the source are logged and skipped, not fatal.
func Run(ctx context.Context, path string, dst *store.Store, workers int) (Stats, error) {
	if workers <= 0 {
		workers = 4
	}

	src, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return Stats{}, fmt.Errorf("open sqlite: %w", err)
	}
	defer src.Close()
	if err = src.PingContext(ctx); err != nil {
		return Stats{}, fmt.Errorf("ping sqlite: %w", err)
	}

	users, err := readUsers(ctx, src)
	if err != nil {
		return Stats{}, fmt.Errorf("read users: %w", err)
	}

	known := make(map[string]bool, len(users))
	for _, u := range users {
		if err = dst.SaveUser(ctx, u); err != nil {
			return Stats{}, fmt.Errorf("upsert user %s: %w", u.ID, err)
		}
		known[u.ID] = true
	}

	stats := Stats{Users: len(users)}
	migrated, skipped, err := copyResults(ctx, src, dst, known, workers)
	if err != nil {
		return stats, err
	}
	stats.Results = migrated
	stats.Skipped = skipped
	return stats, nil
}

func readUsers(ctx context.Context, src *sql.DB) ([]store.User, error) {
	rows, err := src.QueryContext(ctx, `SELECT id, username, created_at FROM users`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []store.User
	for rows.Next() {
		var u store.User
		var created string
		if err = rows.Scan(&u.ID, &u.Username, &created); err != nil {
			return nil, err
		}
		u.CreatedAt = parseSQLiteTime(created)
		users = append(users, u)
	}
	return users, rows.Err()
}

func copyResults(ctx context.Context, src *sql.DB, dst *store.Store, known map[string]bool, workers int) (int, int, error) {
	rows, err := src.QueryContext(ctx,
		`SELECT id, user_id, game, score, accuracy, avg_reaction_ms, errors, COALESCE(details, ''), completed_at
		 FROM game_results`)
	if err != nil {
		return 0, 0, fmt.Errorf("read results: %w", err)
	}
	defer rows.Close()

	var migrated, skipped atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	ch := make(chan store.GameResult, workers*2)
	for range workers {
		g.Go(func() error {
			for r := range ch {
				if err := dst.SaveResult(gctx, r); err != nil {
					return fmt.Errorf("upsert result %s: %w", r.ID, err)
				}
				migrated.Add(1)
			}
			return nil
		})
	}

	readErr := func() error {
		defer close(ch)
		for rows.Next() {
			var r store.GameResult
			var completed string
			if err := rows.Scan(&r.ID, &r.UserID, &r.Task, &r.Score, &r.Accuracy, &r.ReactionMs, &r.ErrorCount, &r.Detail, &completed); err != nil {
				return err
			}
			r.CompletedAt = parseSQLiteTime(completed)
			if !known[r.UserID] {
				slog.Warn("skipping result with missing user", "result_id", r.ID, "user_id", r.UserID)
				skipped.Add(1)
				continue
			}
			select {
			case ch <- r:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return rows.Err()
	}()

	if err := g.Wait(); err != nil {
		return int(migrated.Load()), int(skipped.Load()), err
	}
	if readErr != nil {
		return int(migrated.Load()), int(skipped.Load()), fmt.Errorf("scan results: %w", readErr)
	}
	return int(migrated.Load()), int(skipped.Load()), nil
}

// parseSQLiteTime handles the two timestamp renderings the legacy schema
// contains: RFC 3339 from the app layer and SQLite's CURRENT_TIMESTAMP.
func parseSQLiteTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
