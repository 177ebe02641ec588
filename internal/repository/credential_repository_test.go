package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/teampulse/api/internal/models"
)

func TestGetByPurposeReturnsNilWhenAbsent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCredentialRepository(db)

	mock.ExpectQuery(`SELECT[\s\S]+FROM credentials`).
		WithArgs(models.CredentialPurposeLinkedInAdmin).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	cred, err := repo.GetByPurpose(context.Background(), models.CredentialPurposeLinkedInAdmin)
	require.NoError(t, err)
	require.Nil(t, cred)
}

func TestCredentialUpsertPreservesRefreshTokenViaCoalesce(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCredentialRepository(db)

	expires := time.Now().Add(time.Hour)
	mock.ExpectExec(`INSERT INTO credentials[\s\S]+COALESCE\(NULLIF\(EXCLUDED\.refresh_token, ''\), credentials\.refresh_token\)`).
		WithArgs(models.CredentialPurposeLinkedInAdmin, "enc-access", "", expires, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(context.Background(), &models.Credential{
		Purpose:         models.CredentialPurposeLinkedInAdmin,
		AccessToken:     "enc-access",
		AccessExpiresAt: expires,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
