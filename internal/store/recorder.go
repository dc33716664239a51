package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/corticalab/recall/internal/metrics"
	"github.com/corticalab/recall/internal/results"
)

const writeTimeout = 5 * time.Second

// Recorder writes game results asynchronously via a buffered channel so
// persistence never blocks or aborts an in-progress session. All methods
// are nil-safe (no-op on nil receiver); failed writes are logged, never
// propagated.
type Recorder struct {
	store *Store
	ch    chan GameResult
	done  chan struct{}
}

// NewRecorder creates a recorder over store. Must call Close when done.
func NewRecorder(store *Store) *Recorder {
	r := &Recorder{
		store: store,
		ch:    make(chan GameResult, 64),
		done:  make(chan struct{}),
	}
	go r.drain()
	return r
}

func (r *Recorder) drain() {
	defer close(r.done)
	for res := range r.ch {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := r.store.SaveResult(ctx, res)
		cancel()
		if err != nil {
			metrics.StoreErrors.Inc()
			slog.Warn("result write failed", "result_id", res.ID, "user_id", res.UserID, "error", err)
			continue
		}
		metrics.StoreWrites.Inc()
	}
}

// Record queues one result for persistence.
func (r *Recorder) Record(res GameResult) {
	if r == nil {
		return
	}
	r.ch <- res
}

// Close drains pending writes and shuts down the background goroutine.
func (r *Recorder) Close() {
	if r == nil {
		return
	}
	close(r.ch)
	<-r.done
}

// NewGameResult builds the persisted row for one completed session. The
// full trial history goes into the free-form detail payload.
func NewGameResult(userID, taskName string, history []results.TrialResult, summary results.SessionSummary) GameResult {
	detail, err := json.Marshal(history)
	if err != nil {
		slog.Warn("marshal trial history", "error", err)
		detail = nil
	}
	return GameResult{
		ID:          uuid.NewString(),
		UserID:      userID,
		Task:        taskName,
		Score:       summary.Score,
		Accuracy:    summary.Accuracy,
		ReactionMs:  summary.MeanReactionMs,
		ErrorCount:  summary.Errors,
		Detail:      string(detail),
		CompletedAt: time.Now(),
	}
}
