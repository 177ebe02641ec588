package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/teampulse/api/internal/models"
)

func TestPostUpsertIsKeyedByURN(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)

	published := time.Now()
	post := &models.Post{
		PostURN:     "urn:li:share:1",
		Commentary:  "hello world",
		AuthorURN:   "urn:li:organization:42",
		IsPublic:    true,
		PublishedAt: published,
		Source:      models.PostSourceSynced,
	}

	// both ingestions hit the same conflict target, so the second run
	// updates in place instead of inserting a duplicate
	for i := 0; i < 2; i++ {
		mock.ExpectExec(`INSERT INTO posts[\s\S]+ON CONFLICT \(post_urn\) DO UPDATE`).
			WithArgs(post.PostURN, post.Commentary, post.AuthorURN, post.IsPublic, published, post.Source, "").
			WillReturnResult(sqlmock.NewResult(0, 1))
	}

	require.NoError(t, repo.Upsert(context.Background(), post))
	require.NoError(t, repo.Upsert(context.Background(), post))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByURNReturnsNilWhenMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(`SELECT[\s\S]+FROM posts`).
		WithArgs("urn:li:share:unknown").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	post, err := repo.GetByURN(context.Background(), "urn:li:share:unknown")
	require.NoError(t, err)
	require.Nil(t, post)
}
