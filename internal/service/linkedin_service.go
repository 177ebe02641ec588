package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	config "github.com/teampulse/api/configs"
	"github.com/teampulse/api/internal/transfer"
)

// LinkedInService is the typed client for the LinkedIn REST API: the OAuth
// authorization flow for the delegated org-admin credential, the paginated
// read operations the sync consumes, and the org post publish call.
type LinkedInService interface {
	AuthorizeURL(state string) string
	Callback(ctx context.Context, code string) error
	FetchOrganizationPosts(ctx context.Context, accessToken string) ([]transfer.LinkedInPost, error)
	FetchReactions(ctx context.Context, accessToken, postURN string) ([]transfer.LinkedInReaction, error)
	FetchComments(ctx context.Context, accessToken, postURN string) ([]transfer.LinkedInComment, error)
	PublishPost(ctx context.Context, accessToken, commentary, mediaURL string) (string, error)
}

type linkedInService struct {
	cfg    config.Config
	tokens TokenService
	client *http.Client
}

func NewLinkedInService(cfg config.Config, tokens TokenService) LinkedInService {
	return &linkedInService{
		cfg:    cfg,
		tokens: tokens,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (s *linkedInService) AuthorizeURL(state string) string {
	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", s.cfg.LinkedInClientID)
	params.Set("redirect_uri", s.cfg.LinkedInRedirectURI)
	params.Set("state", state)
	params.Set("scope", "r_organization_social w_organization_social rw_organization_admin")

	return fmt.Sprintf("%s?%s", s.cfg.LinkedInAuthURL, params.Encode())
}

// Callback exchanges the authorization code and stores the resulting
// delegated credential. This is the out-of-band step an admin performs once;
// the sync renews the credential on its own afterwards.
func (s *linkedInService) Callback(ctx context.Context, code string) error {
	if code == "" {
		err := errors.New("authorization code is empty")
		slog.Info(err.Error())
		return err
	}

	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("code", code)
	data.Set("redirect_uri", s.cfg.LinkedInRedirectURI)
	data.Set("client_id", s.cfg.LinkedInClientID)
	data.Set("client_secret", s.cfg.LinkedInClientSecret)

	req, err := http.NewRequestWithContext(ctx, "POST", s.cfg.LinkedInTokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("error response from linkedin: %s (status code: %d)", body, resp.StatusCode)
	}

	var token transfer.LinkedInTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("failed to decode token response: %w", err)
	}
	if err := token.Validate(); err != nil {
		return err
	}

	return s.tokens.Store(ctx, &token)
}

func (s *linkedInService) FetchOrganizationPosts(ctx context.Context, accessToken string) ([]transfer.LinkedInPost, error) {
	reqURL := fmt.Sprintf("%s/rest/posts?author=%s&q=author&count=%d&sortBy=LAST_MODIFIED",
		s.cfg.LinkedInAPIBaseURL, url.QueryEscape(s.cfg.LinkedInOrgURN), s.cfg.SyncPageSize)

	var result transfer.LinkedInPostsResponse
	if err := s.get(ctx, reqURL, accessToken, &result); err != nil {
		return nil, fmt.Errorf("failed to fetch organization posts: %w", err)
	}

	for i := range result.Elements {
		if err := result.Elements[i].Validate(); err != nil {
			return nil, fmt.Errorf("failed to decode posts response: %w", err)
		}
	}

	return result.Elements, nil
}

func (s *linkedInService) FetchReactions(ctx context.Context, accessToken, postURN string) ([]transfer.LinkedInReaction, error) {
	reqURL := fmt.Sprintf("%s/rest/reactions/(entity:%s)?q=entity&count=%d",
		s.cfg.LinkedInAPIBaseURL, url.QueryEscape(postURN), s.cfg.SyncPageSize)

	var result transfer.LinkedInReactionsResponse
	if err := s.get(ctx, reqURL, accessToken, &result); err != nil {
		return nil, fmt.Errorf("failed to fetch reactions for %s: %w", postURN, err)
	}

	for i := range result.Elements {
		if err := result.Elements[i].Validate(); err != nil {
			return nil, fmt.Errorf("failed to decode reactions response: %w", err)
		}
	}

	return result.Elements, nil
}

func (s *linkedInService) FetchComments(ctx context.Context, accessToken, postURN string) ([]transfer.LinkedInComment, error) {
	reqURL := fmt.Sprintf("%s/rest/socialActions/%s/comments?count=%d",
		s.cfg.LinkedInAPIBaseURL, url.PathEscape(postURN), s.cfg.SyncPageSize)

	var result transfer.LinkedInCommentsResponse
	if err := s.get(ctx, reqURL, accessToken, &result); err != nil {
		return nil, fmt.Errorf("failed to fetch comments for %s: %w", postURN, err)
	}

	for i := range result.Elements {
		if err := result.Elements[i].Validate(); err != nil {
			return nil, fmt.Errorf("failed to decode comments response: %w", err)
		}
	}

	return result.Elements, nil
}

// PublishPost creates an organization post and returns its URN.
func (s *linkedInService) PublishPost(ctx context.Context, accessToken, commentary, mediaURL string) (string, error) {
	payload := map[string]interface{}{
		"author":     s.cfg.LinkedInOrgURN,
		"commentary": commentary,
		"visibility": "PUBLIC",
		"distribution": map[string]interface{}{
			"feedDistribution": "MAIN_FEED",
		},
		"lifecycleState": "PUBLISHED",
	}
	if mediaURL != "" {
		payload["content"] = map[string]interface{}{
			"article": map[string]string{
				"source": mediaURL,
			},
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("error marshalling payload: %w", err)
	}

	reqURL := fmt.Sprintf("%s/rest/posts", s.cfg.LinkedInAPIBaseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", reqURL, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	s.setRestliHeaders(req, accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("unexpected status code from linkedin: %d (%s)", resp.StatusCode, respBody)
	}

	postURN := resp.Header.Get("x-restli-id")
	if postURN == "" {
		return "", errors.New("no post id returned from linkedin")
	}

	return postURN, nil
}

func (s *linkedInService) get(ctx context.Context, reqURL, accessToken string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return err
	}
	s.setRestliHeaders(req, accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		var apiErr transfer.LinkedInErrorResponse
		if jsonErr := json.Unmarshal(body, &apiErr); jsonErr == nil && apiErr.Message != "" {
			return fmt.Errorf("linkedin api error: %s (status code: %d)", apiErr.Message, resp.StatusCode)
		}
		return fmt.Errorf("unexpected status code from linkedin: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func (s *linkedInService) setRestliHeaders(req *http.Request, accessToken string) {
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("LinkedIn-Version", s.cfg.LinkedInAPIVersion)
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")
}
