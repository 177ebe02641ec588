package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	config "github.com/teampulse/api/configs"
	"github.com/teampulse/api/internal/models"
	"github.com/teampulse/api/internal/repository"
	"github.com/teampulse/api/internal/transfer"
)

// TokenAcquirer is the slice of TokenService the orchestrator needs.
type TokenAcquirer interface {
	Acquire(ctx context.Context) (string, error)
	HasCredential(ctx context.Context) bool
}

// EngagementFetcher is the slice of LinkedInService the orchestrator needs.
type EngagementFetcher interface {
	FetchOrganizationPosts(ctx context.Context, accessToken string) ([]transfer.LinkedInPost, error)
	FetchReactions(ctx context.Context, accessToken, postURN string) ([]transfer.LinkedInReaction, error)
	FetchComments(ctx context.Context, accessToken, postURN string) ([]transfer.LinkedInComment, error)
}

// SyncResult is the structured outcome of one run. NotConfigured lets callers
// tell "please authorize" apart from "ran and failed".
type SyncResult struct {
	Success          bool   `json:"success"`
	NotConfigured    bool   `json:"not_configured,omitempty"`
	PostsProcessed   int    `json:"posts_processed"`
	EngagementsFound int    `json:"engagements_found"`
	Error            string `json:"error,omitempty"`
}

type SyncService interface {
	// RunSync executes one full synchronization run. It never returns a raw
	// error; failures are folded into the result and the run log.
	RunSync(ctx context.Context) SyncResult
	Status(ctx context.Context, limit int) (*transfer.SyncStatus, error)
}

type syncService struct {
	cfg         config.Config
	tokens      TokenAcquirer
	fetcher     EngagementFetcher
	users       repository.UserRepository
	posts       repository.PostRepository
	engagements repository.EngagementRepository
	runs        repository.SyncRunRepository
}

func NewSyncService(
	cfg config.Config,
	tokens TokenAcquirer,
	fetcher EngagementFetcher,
	users repository.UserRepository,
	posts repository.PostRepository,
	engagements repository.EngagementRepository,
	runs repository.SyncRunRepository) SyncService {
	return &syncService{
		cfg:         cfg,
		tokens:      tokens,
		fetcher:     fetcher,
		users:       users,
		posts:       posts,
		engagements: engagements,
		runs:        runs,
	}
}

func (s *syncService) RunSync(ctx context.Context) SyncResult {
	runID, err := s.runs.StartRun(ctx)
	if err != nil {
		slog.Error(err.Error())
		return SyncResult{Error: fmt.Sprintf("failed to start run: %v", err)}
	}

	var postsProcessed, engagementsFound int

	err = func() (err error) {
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("sync run panicked: %v", p)
			}
		}()

		urns, err := s.users.ListMemberURNs(ctx)
		if err != nil {
			return fmt.Errorf("failed to load identity directory: %w", err)
		}

		if s.cfg.MockMode {
			return s.runMock(ctx, urns, &postsProcessed, &engagementsFound)
		}
		return s.runLive(ctx, urns, &postsProcessed, &engagementsFound)
	}()

	if err != nil {
		slog.Error(err.Error())
		if cerr := s.runs.CompleteRun(ctx, runID, models.SyncRunStatusFailed, postsProcessed, engagementsFound, err.Error()); cerr != nil {
			slog.Error(cerr.Error())
		}
		return SyncResult{
			NotConfigured:    errors.Is(err, ErrNotConfigured) || errors.Is(err, ErrCredentialMissing),
			PostsProcessed:   postsProcessed,
			EngagementsFound: engagementsFound,
			Error:            err.Error(),
		}
	}

	if err := s.runs.CompleteRun(ctx, runID, models.SyncRunStatusSuccess, postsProcessed, engagementsFound, ""); err != nil {
		slog.Error(err.Error())
	}

	return SyncResult{
		Success:          true,
		PostsProcessed:   postsProcessed,
		EngagementsFound: engagementsFound,
	}
}

func (s *syncService) Status(ctx context.Context, limit int) (*transfer.SyncStatus, error) {
	runs, err := s.runs.ListRuns(ctx, limit)
	if err != nil {
		return nil, err
	}
	return &transfer.SyncStatus{
		Runs:           runs,
		MockMode:       s.cfg.MockMode,
		HasCredentials: s.tokens.HasCredential(ctx),
	}, nil
}

func (s *syncService) runLive(ctx context.Context, urns map[string]struct{}, postsProcessed, engagementsFound *int) error {
	if s.cfg.LinkedInClientID == "" || s.cfg.LinkedInClientSecret == "" || s.cfg.LinkedInOrgURN == "" {
		return ErrNotConfigured
	}

	token, err := s.tokens.Acquire(ctx)
	if err != nil {
		return err
	}

	posts, err := s.fetcher.FetchOrganizationPosts(ctx, token)
	if err != nil {
		return err
	}

	for i := range posts {
		post := &posts[i]

		if err := s.posts.Upsert(ctx, &models.Post{
			PostURN:     post.ID,
			Commentary:  post.Commentary,
			AuthorURN:   post.Author,
			IsPublic:    post.Visibility == "" || post.Visibility == "PUBLIC",
			PublishedAt: time.UnixMilli(post.PublishedAt),
			Source:      models.PostSourceSynced,
			MediaURL:    post.MediaRef(),
		}); err != nil {
			return fmt.Errorf("failed to persist post %s: %w", post.ID, err)
		}
		*postsProcessed++

		matched := MatchInternal(s.collectEngagements(ctx, token, post.ID), urns)
		for i := range matched {
			if err := s.engagements.Upsert(ctx, &matched[i]); err != nil {
				return fmt.Errorf("failed to persist engagement on %s: %w", post.ID, err)
			}
			*engagementsFound++
		}
	}

	return nil
}

// collectEngagements gathers reactions and comments for one post. A failed
// fetch is logged and contributes zero events; it never aborts the run.
func (s *syncService) collectEngagements(ctx context.Context, token, postURN string) []models.Engagement {
	var events []models.Engagement

	reactions, err := s.fetcher.FetchReactions(ctx, token, postURN)
	if err != nil {
		slog.Info("skipping reactions: " + err.Error())
	}
	for _, r := range reactions {
		events = append(events, models.Engagement{
			PostURN:      postURN,
			MemberURN:    r.Created.Actor,
			Kind:         models.EngagementKindReaction,
			ReactionType: r.ReactionType,
			OccurredAt:   time.UnixMilli(r.Created.Time),
		})
	}

	comments, err := s.fetcher.FetchComments(ctx, token, postURN)
	if err != nil {
		slog.Info("skipping comments: " + err.Error())
	}
	for _, c := range comments {
		events = append(events, models.Engagement{
			PostURN:    postURN,
			MemberURN:  c.Actor,
			Kind:       models.EngagementKindComment,
			Comment:    c.Message.Text,
			OccurredAt: time.UnixMilli(c.Created.Time),
		})
	}

	return events
}

var mockReactionTypes = []string{"LIKE", "CELEBRATE", "PRAISE", "INTEREST"}

const mockPostCount = 3

// runMock synthesizes a small fixed set of posts and samples engagements from
// the current internal user set, so demos and tests work without credentials.
func (s *syncService) runMock(ctx context.Context, urns map[string]struct{}, postsProcessed, engagementsFound *int) error {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	author := s.cfg.LinkedInOrgURN
	if author == "" {
		author = "urn:li:organization:teampulse-demo"
	}

	for i := 1; i <= mockPostCount; i++ {
		postURN := fmt.Sprintf("urn:li:share:mock-%d", i)

		if err := s.posts.Upsert(ctx, &models.Post{
			PostURN:     postURN,
			Commentary:  fmt.Sprintf("Simulated organization update #%d", i),
			AuthorURN:   author,
			IsPublic:    true,
			PublishedAt: time.Now().Add(-time.Duration(i) * 24 * time.Hour),
			Source:      models.PostSourceSynced,
		}); err != nil {
			return fmt.Errorf("failed to persist post %s: %w", postURN, err)
		}
		*postsProcessed++

		for urn := range urns {
			if rng.Float64() < 0.6 {
				e := models.Engagement{
					PostURN:      postURN,
					MemberURN:    urn,
					Kind:         models.EngagementKindReaction,
					ReactionType: mockReactionTypes[rng.Intn(len(mockReactionTypes))],
					OccurredAt:   time.Now(),
				}
				if err := s.engagements.Upsert(ctx, &e); err != nil {
					return fmt.Errorf("failed to persist engagement on %s: %w", postURN, err)
				}
				*engagementsFound++
			}

			if rng.Float64() < 0.3 {
				e := models.Engagement{
					PostURN:    postURN,
					MemberURN:  urn,
					Kind:       models.EngagementKindComment,
					Comment:    "Great update, congrats team!",
					OccurredAt: time.Now(),
				}
				if err := s.engagements.Upsert(ctx, &e); err != nil {
					return fmt.Errorf("failed to persist engagement on %s: %w", postURN, err)
				}
				*engagementsFound++
			}
		}
	}

	return nil
}
