package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/teampulse/api/internal/models"
)

// MaxRunListLimit caps how many runs a single listing can pull back.
const MaxRunListLimit = 50

type SyncRunRepository interface {
	StartRun(ctx context.Context) (int64, error)
	CompleteRun(ctx context.Context, id int64, status string, postsProcessed, engagementsFound int, errMsg string) error
	ListRuns(ctx context.Context, limit int) ([]*models.SyncRun, error)
}

type syncRunRepository struct {
	db *sql.DB
}

func NewSyncRunRepository(db *sql.DB) SyncRunRepository {
	return &syncRunRepository{db: db}
}

func (r *syncRunRepository) StartRun(ctx context.Context) (int64, error) {
	query := `INSERT INTO sync_runs (status) VALUES ($1) RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, query, models.SyncRunStatusRunning).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

// CompleteRun writes the terminal state. The status guard makes the terminal
// write effective at most once even if two callers race on the same id.
func (r *syncRunRepository) CompleteRun(ctx context.Context, id int64, status string, postsProcessed, engagementsFound int, errMsg string) error {
	query := `
		UPDATE sync_runs
		SET status = $2,
			posts_processed = $3,
			engagements_found = $4,
			error_message = $5,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND status = $6
	`
	_, err := r.db.ExecContext(ctx, query, id, status, postsProcessed, engagementsFound, errMsg,
		models.SyncRunStatusRunning)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *syncRunRepository) ListRuns(ctx context.Context, limit int) ([]*models.SyncRun, error) {
	if limit <= 0 || limit > MaxRunListLimit {
		limit = MaxRunListLimit
	}

	query := `
		SELECT id, status, posts_processed, engagements_found, error_message, started_at, completed_at
		FROM sync_runs
		ORDER BY started_at DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var runs []*models.SyncRun
	for rows.Next() {
		var run models.SyncRun
		err := rows.Scan(&run.ID, &run.Status, &run.PostsProcessed, &run.EngagementsFound,
			&run.ErrorMessage, &run.StartedAt, &run.CompletedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		runs = append(runs, &run)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return runs, nil
}
