package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/teampulse/api/internal/models"
)

type PostRepository interface {
	Upsert(ctx context.Context, post *models.Post) error
	GetByURN(ctx context.Context, postURN string) (*models.Post, error)
	ListRecent(ctx context.Context, limit int) ([]*models.Post, error)
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

// Upsert inserts or updates a post on its URN. Re-ingesting the same post
// refreshes the mutable fields and never creates a second row.
func (r *postRepository) Upsert(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (post_urn, commentary, author_urn, is_public, published_at, source, media_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (post_urn) DO UPDATE SET
			commentary = EXCLUDED.commentary,
			is_public = EXCLUDED.is_public,
			media_url = EXCLUDED.media_url,
			updated_at = CURRENT_TIMESTAMP
	`
	_, err := r.db.ExecContext(ctx, query, post.PostURN, post.Commentary, post.AuthorURN,
		post.IsPublic, post.PublishedAt, post.Source, post.MediaURL)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) GetByURN(ctx context.Context, postURN string) (*models.Post, error) {
	query := `
		SELECT id, post_urn, commentary, author_urn, is_public, published_at, source, media_url, created_at, updated_at
		FROM posts
		WHERE post_urn = $1
	`
	row := r.db.QueryRowContext(ctx, query, postURN)

	var post models.Post
	err := row.Scan(&post.ID, &post.PostURN, &post.Commentary, &post.AuthorURN, &post.IsPublic,
		&post.PublishedAt, &post.Source, &post.MediaURL, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &post, nil
}

func (r *postRepository) ListRecent(ctx context.Context, limit int) ([]*models.Post, error) {
	query := `
		SELECT id, post_urn, commentary, author_urn, is_public, published_at, source, media_url, created_at, updated_at
		FROM posts
		ORDER BY published_at DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		var post models.Post
		err := rows.Scan(&post.ID, &post.PostURN, &post.Commentary, &post.AuthorURN, &post.IsPublic,
			&post.PublishedAt, &post.Source, &post.MediaURL, &post.CreatedAt, &post.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, &post)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return posts, nil
}
