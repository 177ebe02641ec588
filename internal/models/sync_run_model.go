package models

import (
	"database/sql"
	"time"
)

// SyncRun is the audit record of one orchestrator invocation. It is created
// in the running state and mutated exactly once to a terminal state.
type SyncRun struct {
	ID               int64        `db:"id" json:"id"`
	Status           string       `db:"status" json:"status"`
	PostsProcessed   int          `db:"posts_processed" json:"posts_processed"`
	EngagementsFound int          `db:"engagements_found" json:"engagements_found"`
	ErrorMessage     string       `db:"error_message" json:"error_message,omitempty"`
	StartedAt        time.Time    `db:"started_at" json:"started_at"`
	CompletedAt      sql.NullTime `db:"completed_at" json:"completed_at"`
}

const (
	SyncRunStatusRunning = "running"
	SyncRunStatusSuccess = "success"
	SyncRunStatusFailed  = "failed"
)
