package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/teampulse/api/internal/models"
	"github.com/teampulse/api/internal/transfer"
)

type EngagementRepository interface {
	Upsert(ctx context.Context, e *models.Engagement) error
	CountByPostURN(ctx context.Context, postURN string) (reactions, comments int, err error)
	Leaderboard(ctx context.Context, since time.Time) ([]*transfer.LeaderboardEntry, error)
}

type engagementRepository struct {
	db *sql.DB
}

func NewEngagementRepository(db *sql.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

// Upsert inserts or updates one engagement on its natural key
// (post_urn, member_urn, kind, reaction_type). Repeated calls with the same
// key converge on the last write.
func (r *engagementRepository) Upsert(ctx context.Context, e *models.Engagement) error {
	query := `
		INSERT INTO engagements (post_urn, member_urn, kind, reaction_type, comment, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (post_urn, member_urn, kind, reaction_type) DO UPDATE SET
			comment = EXCLUDED.comment,
			occurred_at = EXCLUDED.occurred_at,
			synced_at = CURRENT_TIMESTAMP
	`
	_, err := r.db.ExecContext(ctx, query, e.PostURN, e.MemberURN, e.Kind, e.ReactionType,
		e.Comment, e.OccurredAt)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *engagementRepository) CountByPostURN(ctx context.Context, postURN string) (int, int, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE kind = 'reaction'),
			COUNT(*) FILTER (WHERE kind = 'comment')
		FROM engagements
		WHERE post_urn = $1
	`
	var reactions, comments int
	err := r.db.QueryRowContext(ctx, query, postURN).Scan(&reactions, &comments)
	if err != nil {
		slog.Info(err.Error())
		return 0, 0, err
	}
	return reactions, comments, nil
}

func (r *engagementRepository) Leaderboard(ctx context.Context, since time.Time) ([]*transfer.LeaderboardEntry, error) {
	query := `
		SELECT
			u.id,
			u.name,
			u.profile_picture,
			COUNT(*) FILTER (WHERE e.kind = 'reaction') AS reactions,
			COUNT(*) FILTER (WHERE e.kind = 'comment') AS comments,
			COUNT(*) AS total
		FROM engagements e
		JOIN users u ON u.member_urn = e.member_urn
		WHERE e.occurred_at >= $1
		GROUP BY u.id, u.name, u.profile_picture
		ORDER BY total DESC, u.name ASC
	`
	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var entries []*transfer.LeaderboardEntry
	for rows.Next() {
		var entry transfer.LeaderboardEntry
		err := rows.Scan(&entry.UserID, &entry.Name, &entry.ProfilePicture,
			&entry.Reactions, &entry.Comments, &entry.Total)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return entries, nil
}
