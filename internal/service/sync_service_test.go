package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	config "github.com/teampulse/api/configs"
	"github.com/teampulse/api/internal/models"
	"github.com/teampulse/api/internal/transfer"
)

type fakeTokens struct {
	token string
	err   error
	has   bool
}

func (f *fakeTokens) Acquire(ctx context.Context) (string, error) { return f.token, f.err }
func (f *fakeTokens) HasCredential(ctx context.Context) bool      { return f.has }

type fakeFetcher struct {
	posts        []transfer.LinkedInPost
	postsErr     error
	reactions    map[string][]transfer.LinkedInReaction
	reactionsErr map[string]error
	comments     map[string][]transfer.LinkedInComment
	commentsErr  map[string]error
}

func (f *fakeFetcher) FetchOrganizationPosts(ctx context.Context, token string) ([]transfer.LinkedInPost, error) {
	return f.posts, f.postsErr
}

func (f *fakeFetcher) FetchReactions(ctx context.Context, token, postURN string) ([]transfer.LinkedInReaction, error) {
	if err := f.reactionsErr[postURN]; err != nil {
		return nil, err
	}
	return f.reactions[postURN], nil
}

func (f *fakeFetcher) FetchComments(ctx context.Context, token, postURN string) ([]transfer.LinkedInComment, error) {
	if err := f.commentsErr[postURN]; err != nil {
		return nil, err
	}
	return f.comments[postURN], nil
}

type fakeUserRepo struct {
	urns map[string]struct{}
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*models.User, bool, error) {
	return nil, false, nil
}
func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, bool, error) {
	return nil, false, nil
}
func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) (int64, error) { return 0, nil }
func (f *fakeUserRepo) Update(ctx context.Context, user *models.User) error          { return nil }
func (f *fakeUserRepo) SetMemberURN(ctx context.Context, userID int64, memberURN string) error {
	return nil
}
func (f *fakeUserRepo) ListMemberURNs(ctx context.Context) (map[string]struct{}, error) {
	return f.urns, nil
}

type fakePostRepo struct {
	upserts []models.Post
	err     error
}

func (f *fakePostRepo) Upsert(ctx context.Context, post *models.Post) error {
	if f.err != nil {
		return f.err
	}
	f.upserts = append(f.upserts, *post)
	return nil
}
func (f *fakePostRepo) GetByURN(ctx context.Context, postURN string) (*models.Post, error) {
	return nil, nil
}
func (f *fakePostRepo) ListRecent(ctx context.Context, limit int) ([]*models.Post, error) {
	return nil, nil
}

type fakeEngagementRepo struct {
	upserts []models.Engagement
	err     error
}

func (f *fakeEngagementRepo) Upsert(ctx context.Context, e *models.Engagement) error {
	if f.err != nil {
		return f.err
	}
	f.upserts = append(f.upserts, *e)
	return nil
}
func (f *fakeEngagementRepo) CountByPostURN(ctx context.Context, postURN string) (int, int, error) {
	return 0, 0, nil
}
func (f *fakeEngagementRepo) Leaderboard(ctx context.Context, since time.Time) ([]*transfer.LeaderboardEntry, error) {
	return nil, nil
}

type completion struct {
	id               int64
	status           string
	postsProcessed   int
	engagementsFound int
	errMsg           string
}

type fakeRunRepo struct {
	nextID      int64
	completions []completion
}

func (f *fakeRunRepo) StartRun(ctx context.Context) (int64, error) {
	f.nextID++
	return f.nextID, nil
}

func (f *fakeRunRepo) CompleteRun(ctx context.Context, id int64, status string, postsProcessed, engagementsFound int, errMsg string) error {
	f.completions = append(f.completions, completion{id, status, postsProcessed, engagementsFound, errMsg})
	return nil
}

func (f *fakeRunRepo) ListRuns(ctx context.Context, limit int) ([]*models.SyncRun, error) {
	return nil, nil
}

func liveConfig() config.Config {
	return config.Config{
		LinkedInClientID:     "client-id",
		LinkedInClientSecret: "client-secret",
		LinkedInOrgURN:       "urn:li:organization:42",
	}
}

func TestRunSyncMockModeWithZeroUsers(t *testing.T) {
	runs := &fakeRunRepo{}
	posts := &fakePostRepo{}
	engagements := &fakeEngagementRepo{}

	s := NewSyncService(config.Config{MockMode: true}, &fakeTokens{}, &fakeFetcher{},
		&fakeUserRepo{urns: map[string]struct{}{}}, posts, engagements, runs)

	result := s.RunSync(context.Background())

	require.True(t, result.Success)
	require.Equal(t, 3, result.PostsProcessed)
	require.Zero(t, result.EngagementsFound)
	require.Empty(t, engagements.upserts)

	require.Len(t, runs.completions, 1)
	require.Equal(t, models.SyncRunStatusSuccess, runs.completions[0].status)
	require.Equal(t, 3, runs.completions[0].postsProcessed)
}

func TestRunSyncMockModeCountsMatchPersistedRows(t *testing.T) {
	runs := &fakeRunRepo{}
	engagements := &fakeEngagementRepo{}
	urns := map[string]struct{}{
		"urn:li:person:alice": {},
		"urn:li:person:bob":   {},
	}

	s := NewSyncService(config.Config{MockMode: true}, &fakeTokens{}, &fakeFetcher{},
		&fakeUserRepo{urns: urns}, &fakePostRepo{}, engagements, runs)

	result := s.RunSync(context.Background())

	require.True(t, result.Success)
	require.Equal(t, len(engagements.upserts), result.EngagementsFound)
	for _, e := range engagements.upserts {
		require.Contains(t, urns, e.MemberURN)
		if e.Kind == models.EngagementKindComment {
			require.Empty(t, e.ReactionType)
		} else {
			require.NotEmpty(t, e.ReactionType)
		}
	}
}

func TestRunSyncLiveNotConfigured(t *testing.T) {
	runs := &fakeRunRepo{}

	s := NewSyncService(config.Config{}, &fakeTokens{}, &fakeFetcher{},
		&fakeUserRepo{urns: map[string]struct{}{}}, &fakePostRepo{}, &fakeEngagementRepo{}, runs)

	result := s.RunSync(context.Background())

	require.False(t, result.Success)
	require.True(t, result.NotConfigured)

	// the run row is terminal, never left running
	require.Len(t, runs.completions, 1)
	require.Equal(t, models.SyncRunStatusFailed, runs.completions[0].status)
	require.NotEmpty(t, runs.completions[0].errMsg)
}

func TestRunSyncLiveCredentialMissingSurfacesAsNotConfigured(t *testing.T) {
	runs := &fakeRunRepo{}

	s := NewSyncService(liveConfig(), &fakeTokens{err: ErrCredentialMissing}, &fakeFetcher{},
		&fakeUserRepo{urns: map[string]struct{}{}}, &fakePostRepo{}, &fakeEngagementRepo{}, runs)

	result := s.RunSync(context.Background())

	require.False(t, result.Success)
	require.True(t, result.NotConfigured)
	require.Equal(t, models.SyncRunStatusFailed, runs.completions[0].status)
}

func TestRunSyncLiveSurvivesPerPostCommentFetchFailure(t *testing.T) {
	now := time.Now().UnixMilli()
	fetcher := &fakeFetcher{
		posts: []transfer.LinkedInPost{
			{ID: "urn:li:share:1", Author: "urn:li:organization:42", Commentary: "first", PublishedAt: now},
			{ID: "urn:li:share:2", Author: "urn:li:organization:42", Commentary: "second", PublishedAt: now},
			{ID: "urn:li:share:3", Author: "urn:li:organization:42", Commentary: "third", PublishedAt: now},
		},
		reactions: map[string][]transfer.LinkedInReaction{
			"urn:li:share:1": {
				{ReactionType: "LIKE", Created: transfer.LinkedInAudit{Actor: "urn:li:person:alice", Time: now}},
				{ReactionType: "LIKE", Created: transfer.LinkedInAudit{Actor: "urn:li:person:stranger", Time: now}},
			},
			"urn:li:share:2": {
				{ReactionType: "CELEBRATE", Created: transfer.LinkedInAudit{Actor: "urn:li:person:bob", Time: now}},
			},
		},
		comments: map[string][]transfer.LinkedInComment{
			"urn:li:share:1": {
				{Actor: "urn:li:person:bob", Message: transfer.LinkedInCommentMessage{Text: "nice"}, Created: transfer.LinkedInAudit{Time: now}},
			},
			"urn:li:share:3": {
				{Actor: "urn:li:person:stranger", Message: transfer.LinkedInCommentMessage{Text: "spam"}, Created: transfer.LinkedInAudit{Time: now}},
			},
		},
		commentsErr: map[string]error{
			"urn:li:share:2": errors.New("socialActions timed out"),
		},
	}

	runs := &fakeRunRepo{}
	posts := &fakePostRepo{}
	engagements := &fakeEngagementRepo{}
	urns := map[string]struct{}{
		"urn:li:person:alice": {},
		"urn:li:person:bob":   {},
	}

	s := NewSyncService(liveConfig(), &fakeTokens{token: "tok", has: true}, fetcher,
		&fakeUserRepo{urns: urns}, posts, engagements, runs)

	result := s.RunSync(context.Background())

	require.True(t, result.Success)
	require.Equal(t, 3, result.PostsProcessed)
	// alice LIKE + bob comment on post 1, bob CELEBRATE on post 2; post 2's
	// comments failed and counted as zero, post 3 had only a non-employee
	require.Equal(t, 3, result.EngagementsFound)
	require.Len(t, engagements.upserts, 3)

	require.Len(t, posts.upserts, 3)
	require.Equal(t, models.PostSourceSynced, posts.upserts[0].Source)

	require.Len(t, runs.completions, 1)
	require.Equal(t, models.SyncRunStatusSuccess, runs.completions[0].status)
	require.Equal(t, 3, runs.completions[0].engagementsFound)
}

func TestRunSyncLivePostsFetchFailureIsFatal(t *testing.T) {
	runs := &fakeRunRepo{}
	fetcher := &fakeFetcher{postsErr: errors.New("posts listing unavailable")}

	s := NewSyncService(liveConfig(), &fakeTokens{token: "tok"}, fetcher,
		&fakeUserRepo{urns: map[string]struct{}{}}, &fakePostRepo{}, &fakeEngagementRepo{}, runs)

	result := s.RunSync(context.Background())

	require.False(t, result.Success)
	require.False(t, result.NotConfigured)
	require.Zero(t, result.PostsProcessed)
	require.Contains(t, result.Error, "posts listing unavailable")
	require.Equal(t, models.SyncRunStatusFailed, runs.completions[0].status)
}

func TestRunSyncPersistenceFailureIsFatal(t *testing.T) {
	now := time.Now().UnixMilli()
	fetcher := &fakeFetcher{
		posts: []transfer.LinkedInPost{
			{ID: "urn:li:share:1", Author: "urn:li:organization:42", PublishedAt: now},
		},
		reactions: map[string][]transfer.LinkedInReaction{
			"urn:li:share:1": {
				{ReactionType: "LIKE", Created: transfer.LinkedInAudit{Actor: "urn:li:person:alice", Time: now}},
			},
		},
	}

	runs := &fakeRunRepo{}
	engagements := &fakeEngagementRepo{err: fmt.Errorf("unique_violation deadlock")}

	s := NewSyncService(liveConfig(), &fakeTokens{token: "tok"}, fetcher,
		&fakeUserRepo{urns: map[string]struct{}{"urn:li:person:alice": {}}},
		&fakePostRepo{}, engagements, runs)

	result := s.RunSync(context.Background())

	require.False(t, result.Success)
	require.Equal(t, 1, result.PostsProcessed)
	require.Zero(t, result.EngagementsFound)
	require.Equal(t, models.SyncRunStatusFailed, runs.completions[0].status)
	require.Equal(t, 1, runs.completions[0].postsProcessed)
}

func TestStatusReportsModeAndCredentials(t *testing.T) {
	s := NewSyncService(config.Config{MockMode: true}, &fakeTokens{has: true}, &fakeFetcher{},
		&fakeUserRepo{}, &fakePostRepo{}, &fakeEngagementRepo{}, &fakeRunRepo{})

	status, err := s.Status(context.Background(), 5)
	require.NoError(t, err)
	require.True(t, status.MockMode)
	require.True(t, status.HasCredentials)
}
