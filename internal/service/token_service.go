package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	config "github.com/teampulse/api/configs"
	"github.com/teampulse/api/internal/models"
	"github.com/teampulse/api/internal/repository"
	"github.com/teampulse/api/internal/transfer"
	"github.com/teampulse/api/pkg/utils"
)

type TokenService interface {
	// Acquire returns a currently valid access token for the org-admin
	// credential, renewing it through the refresh-token grant when the
	// stored one has expired.
	Acquire(ctx context.Context) (string, error)
	// HasCredential reports whether a delegated credential is stored at all.
	HasCredential(ctx context.Context) bool
	// Store persists a freshly exchanged token pair for the purpose.
	Store(ctx context.Context, token *transfer.LinkedInTokenResponse) error
}

type tokenService struct {
	cfg    config.Config
	cr     repository.CredentialRepository
	client *http.Client

	// serializes renewals so overlapping runs can't race a rotation
	mu sync.Mutex
}

func NewTokenService(cfg config.Config, cr repository.CredentialRepository) TokenService {
	return &tokenService{
		cfg: cfg,
		cr:  cr,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (s *tokenService) Acquire(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cred, err := s.cr.GetByPurpose(ctx, models.CredentialPurposeLinkedInAdmin)
	if err != nil {
		return "", err
	}
	if cred == nil {
		return "", ErrCredentialMissing
	}

	// Compare against the provider's absolute expiry instant. Tokens may be
	// valid for less than the gap between two runs.
	if time.Now().Before(cred.AccessExpiresAt) {
		return utils.Decrypt(cred.AccessToken, []byte(s.cfg.SecretKey))
	}

	if cred.RefreshToken == "" {
		return "", ErrCredentialExpired
	}

	refreshToken, err := utils.Decrypt(cred.RefreshToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return "", err
	}

	token, err := s.refresh(ctx, refreshToken)
	if err != nil {
		return "", err
	}

	if err := s.Store(ctx, token); err != nil {
		return "", err
	}

	return token.AccessToken, nil
}

func (s *tokenService) HasCredential(ctx context.Context) bool {
	cred, err := s.cr.GetByPurpose(ctx, models.CredentialPurposeLinkedInAdmin)
	if err != nil {
		slog.Info(err.Error())
		return false
	}
	return cred != nil
}

func (s *tokenService) Store(ctx context.Context, token *transfer.LinkedInTokenResponse) error {
	encryptedAccessToken, err := utils.Encrypt([]byte(token.AccessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	// LinkedIn rotates the refresh token only optionally. An empty value
	// leaves the stored one in place (the repository upsert preserves it).
	var encryptedRefreshToken string
	if token.RefreshToken != "" {
		encryptedRefreshToken, err = utils.Encrypt([]byte(token.RefreshToken), []byte(s.cfg.SecretKey))
		if err != nil {
			return err
		}
	}

	cred := models.Credential{
		Purpose:         models.CredentialPurposeLinkedInAdmin,
		AccessToken:     encryptedAccessToken,
		RefreshToken:    encryptedRefreshToken,
		AccessExpiresAt: GetExpiresAt(int(token.ExpiresIn)),
	}
	if token.RefreshTokenExpiresIn > 0 {
		cred.RefreshExpiresAt = sql.NullTime{
			Time:  GetExpiresAt(int(token.RefreshTokenExpiresIn)),
			Valid: true,
		}
	}

	return s.cr.Upsert(ctx, &cred)
}

func (s *tokenService) refresh(ctx context.Context, refreshToken string) (*transfer.LinkedInTokenResponse, error) {
	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("refresh_token", refreshToken)
	data.Set("client_id", s.cfg.LinkedInClientID)
	data.Set("client_secret", s.cfg.LinkedInClientSecret)

	req, err := http.NewRequestWithContext(ctx, "POST", s.cfg.LinkedInTokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to refresh access token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code from token endpoint: %d", resp.StatusCode)
	}

	var token transfer.LinkedInTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if err := token.Validate(); err != nil {
		return nil, err
	}

	return &token, nil
}
