package service

import (
	"context"
	"time"

	"github.com/teampulse/api/internal/repository"
	"github.com/teampulse/api/internal/transfer"
)

const (
	defaultLeaderboardDays = 30
	maxLeaderboardDays     = 365
	maxRecentPosts         = 20
)

type LeaderboardService interface {
	Leaderboard(ctx context.Context, days int) ([]*transfer.LeaderboardEntry, error)
	RecentPosts(ctx context.Context, limit int) ([]*transfer.PostWithCounts, error)
}

type leaderboardService struct {
	e repository.EngagementRepository
	p repository.PostRepository
}

func NewLeaderboardService(e repository.EngagementRepository, p repository.PostRepository) LeaderboardService {
	return &leaderboardService{
		e: e,
		p: p,
	}
}

func (s *leaderboardService) Leaderboard(ctx context.Context, days int) ([]*transfer.LeaderboardEntry, error) {
	if days <= 0 || days > maxLeaderboardDays {
		days = defaultLeaderboardDays
	}

	since := time.Now().AddDate(0, 0, -days)
	return s.e.Leaderboard(ctx, since)
}

func (s *leaderboardService) RecentPosts(ctx context.Context, limit int) ([]*transfer.PostWithCounts, error) {
	if limit <= 0 || limit > maxRecentPosts {
		limit = maxRecentPosts
	}

	posts, err := s.p.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	result := make([]*transfer.PostWithCounts, 0, len(posts))
	for _, post := range posts {
		reactions, comments, err := s.e.CountByPostURN(ctx, post.PostURN)
		if err != nil {
			return nil, err
		}
		result = append(result, &transfer.PostWithCounts{
			Post:        post,
			Reactions:   reactions,
			Comments:    comments,
			Engagements: reactions + comments,
		})
	}

	return result, nil
}
