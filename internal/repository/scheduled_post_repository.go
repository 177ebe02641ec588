package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/teampulse/api/internal/models"
)

type ScheduledPostRepository interface {
	Create(ctx context.Context, sp *models.ScheduledPost) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.ScheduledPost, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	ListByUserID(ctx context.Context, userID int64) ([]*models.ScheduledPost, error)
}

type scheduledPostRepository struct {
	db *sql.DB
}

func NewScheduledPostRepository(db *sql.DB) ScheduledPostRepository {
	return &scheduledPostRepository{db: db}
}

func (r *scheduledPostRepository) Create(ctx context.Context, sp *models.ScheduledPost) (int64, error) {
	query := `
		INSERT INTO scheduled_posts (user_id, commentary, asset_id, scheduled_time, status)
		VALUES ($1, $2, NULLIF($3, 0), $4, $5)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, sp.UserID, sp.Commentary, sp.AssetID, sp.ScheduledTime, sp.Status).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *scheduledPostRepository) GetByID(ctx context.Context, id int64) (*models.ScheduledPost, error) {
	query := `
		SELECT id, user_id, commentary, COALESCE(asset_id, 0), scheduled_time, status, created_at, updated_at
		FROM scheduled_posts
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, query, id)

	var sp models.ScheduledPost
	err := row.Scan(&sp.ID, &sp.UserID, &sp.Commentary, &sp.AssetID, &sp.ScheduledTime,
		&sp.Status, &sp.CreatedAt, &sp.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &sp, nil
}

func (r *scheduledPostRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `
		UPDATE scheduled_posts
		SET status = $1,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
	`
	_, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *scheduledPostRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.ScheduledPost, error) {
	query := `
		SELECT id, user_id, commentary, COALESCE(asset_id, 0), scheduled_time, status, created_at, updated_at
		FROM scheduled_posts
		WHERE user_id = $1
		ORDER BY scheduled_time DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.ScheduledPost
	for rows.Next() {
		var sp models.ScheduledPost
		err := rows.Scan(&sp.ID, &sp.UserID, &sp.Commentary, &sp.AssetID, &sp.ScheduledTime,
			&sp.Status, &sp.CreatedAt, &sp.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, &sp)
	}
	return posts, nil
}
