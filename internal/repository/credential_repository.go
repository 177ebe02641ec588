package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/teampulse/api/internal/models"
)

type CredentialRepository interface {
	GetByPurpose(ctx context.Context, purpose string) (*models.Credential, error)
	Upsert(ctx context.Context, cred *models.Credential) error
}

type credentialRepository struct {
	db *sql.DB
}

func NewCredentialRepository(db *sql.DB) CredentialRepository {
	return &credentialRepository{db: db}
}

func (r *credentialRepository) GetByPurpose(ctx context.Context, purpose string) (*models.Credential, error) {
	query := `
		SELECT id, purpose, access_token, refresh_token, access_expires_at, refresh_expires_at, updated_at
		FROM credentials
		WHERE purpose = $1
	`
	row := r.db.QueryRowContext(ctx, query, purpose)

	var cred models.Credential
	err := row.Scan(&cred.ID, &cred.Purpose, &cred.AccessToken, &cred.RefreshToken,
		&cred.AccessExpiresAt, &cred.RefreshExpiresAt, &cred.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &cred, nil
}

// Upsert overwrites the credential for its purpose. An empty refresh token
// preserves the stored one, since providers rotate it only optionally.
func (r *credentialRepository) Upsert(ctx context.Context, cred *models.Credential) error {
	query := `
		INSERT INTO credentials (purpose, access_token, refresh_token, access_expires_at, refresh_expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (purpose) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = COALESCE(NULLIF(EXCLUDED.refresh_token, ''), credentials.refresh_token),
			access_expires_at = EXCLUDED.access_expires_at,
			refresh_expires_at = COALESCE(EXCLUDED.refresh_expires_at, credentials.refresh_expires_at),
			updated_at = CURRENT_TIMESTAMP
	`
	_, err := r.db.ExecContext(ctx, query, cred.Purpose, cred.AccessToken, cred.RefreshToken,
		cred.AccessExpiresAt, cred.RefreshExpiresAt)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
