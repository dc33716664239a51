package store

import "time"

// User is one account row. The profile backend owns the full account
// shape; the store keeps what game results reference.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// GameResult is one summarized session result. ID is the idempotency key:
// all writes are upserts, so a retried or replayed save is harmless.
type GameResult struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Task        string    `json:"task"`
	Score       int       `json:"score"`
	Accuracy    float64   `json:"accuracy"`
	ReactionMs  float64   `json:"reaction_ms"`
	ErrorCount  int       `json:"error_count"`
	Detail      string    `json:"detail,omitempty"`
	CompletedAt time.Time `json:"completed_at"`
}
