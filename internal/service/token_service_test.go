package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	config "github.com/teampulse/api/configs"
	"github.com/teampulse/api/internal/models"
	"github.com/teampulse/api/pkg/utils"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

type fakeCredentialRepo struct {
	cred    *models.Credential
	upserts []*models.Credential
}

func (f *fakeCredentialRepo) GetByPurpose(ctx context.Context, purpose string) (*models.Credential, error) {
	return f.cred, nil
}

func (f *fakeCredentialRepo) Upsert(ctx context.Context, cred *models.Credential) error {
	f.upserts = append(f.upserts, cred)
	if cred.RefreshToken != "" || f.cred == nil {
		f.cred = cred
	} else {
		// mimic the SQL upsert preserving the stored refresh token
		preserved := *cred
		preserved.RefreshToken = f.cred.RefreshToken
		f.cred = &preserved
	}
	return nil
}

func encrypted(t *testing.T, plaintext string) string {
	t.Helper()
	out, err := utils.Encrypt([]byte(plaintext), []byte(testSecretKey))
	require.NoError(t, err)
	return out
}

func newTestTokenService(t *testing.T, repo *fakeCredentialRepo, tokenURL string) TokenService {
	t.Helper()
	cfg := config.Config{
		LinkedInClientID:     "client-id",
		LinkedInClientSecret: "client-secret",
		LinkedInTokenURL:     tokenURL,
		SecretKey:            testSecretKey,
	}
	return NewTokenService(cfg, repo)
}

func TestAcquireReturnsCachedTokenWithoutNetworkCall(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	repo := &fakeCredentialRepo{cred: &models.Credential{
		Purpose:         models.CredentialPurposeLinkedInAdmin,
		AccessToken:     encrypted(t, "still-valid"),
		AccessExpiresAt: time.Now().Add(time.Hour),
	}}

	s := newTestTokenService(t, repo, server.URL)

	token, err := s.Acquire(context.Background())
	require.NoError(t, err)
	require.Equal(t, "still-valid", token)
	require.Zero(t, calls)
}

func TestAcquireRenewsExpiredTokenExactlyOnce(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.NoError(t, r.ParseForm())
		require.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		require.Equal(t, "old-refresh", r.Form.Get("refresh_token"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "fresh-access",
			"expires_in":   3600,
			// no refresh_token: rotation is optional
		})
	}))
	defer server.Close()

	repo := &fakeCredentialRepo{cred: &models.Credential{
		Purpose:         models.CredentialPurposeLinkedInAdmin,
		AccessToken:     encrypted(t, "stale-access"),
		RefreshToken:    encrypted(t, "old-refresh"),
		AccessExpiresAt: time.Now().Add(-time.Second),
	}}

	s := newTestTokenService(t, repo, server.URL)

	token, err := s.Acquire(context.Background())
	require.NoError(t, err)
	require.Equal(t, "fresh-access", token)
	require.Equal(t, 1, calls)

	// the renewal was persisted and the old refresh token survived
	require.Len(t, repo.upserts, 1)
	require.Empty(t, repo.upserts[0].RefreshToken)
	preserved, err := utils.Decrypt(repo.cred.RefreshToken, []byte(testSecretKey))
	require.NoError(t, err)
	require.Equal(t, "old-refresh", preserved)
	require.True(t, repo.cred.AccessExpiresAt.After(time.Now()))
}

func TestAcquireExpiredWithoutRefreshTokenFailsWithoutNetworkCall(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	repo := &fakeCredentialRepo{cred: &models.Credential{
		Purpose:         models.CredentialPurposeLinkedInAdmin,
		AccessToken:     encrypted(t, "stale-access"),
		AccessExpiresAt: time.Now().Add(-time.Second),
	}}

	s := newTestTokenService(t, repo, server.URL)

	_, err := s.Acquire(context.Background())
	require.ErrorIs(t, err, ErrCredentialExpired)
	require.Zero(t, calls)
}

func TestAcquireWithNoStoredCredential(t *testing.T) {
	repo := &fakeCredentialRepo{}
	s := newTestTokenService(t, repo, "http://127.0.0.1:0")

	_, err := s.Acquire(context.Background())
	require.ErrorIs(t, err, ErrCredentialMissing)
}

func TestHasCredential(t *testing.T) {
	repo := &fakeCredentialRepo{}
	s := newTestTokenService(t, repo, "http://127.0.0.1:0")
	require.False(t, s.HasCredential(context.Background()))

	repo.cred = &models.Credential{Purpose: models.CredentialPurposeLinkedInAdmin}
	require.True(t, s.HasCredential(context.Background()))
}
