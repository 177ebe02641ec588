package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"time"

	"github.com/h2non/filetype"
	gonanoid "github.com/matoous/go-nanoid/v2"
	config "github.com/teampulse/api/configs"
	"github.com/teampulse/api/internal/models"
	"github.com/teampulse/api/internal/repository"
	"github.com/teampulse/api/internal/transfer"
)

// PublishService owns the outbound path: posts authored in Teampulse that are
// published to the organization page, immediately or on a schedule. Published
// posts are mirrored into the posts table with the published provenance so
// the next sync sees them as already known.
type PublishService interface {
	CreatePost(ctx context.Context, userID int64, pc *transfer.PostCreation, file *multipart.FileHeader) (int64, time.Duration, error)
	PublishScheduled(ctx context.Context, scheduledPostID int64) error
	List(ctx context.Context, userID int64) ([]*models.ScheduledPost, error)
}

type publishService struct {
	cfg    config.Config
	sp     repository.ScheduledPostRepository
	ma     repository.MediaAssetRepository
	p      repository.PostRepository
	tokens TokenService
	li     LinkedInService
	r2     *R2Service
}

func NewPublishService(
	cfg config.Config,
	sp repository.ScheduledPostRepository,
	ma repository.MediaAssetRepository,
	p repository.PostRepository,
	tokens TokenService,
	li LinkedInService,
	r2 *R2Service) PublishService {
	return &publishService{
		cfg:    cfg,
		sp:     sp,
		ma:     ma,
		p:      p,
		tokens: tokens,
		li:     li,
		r2:     r2,
	}
}

func (s *publishService) CreatePost(ctx context.Context, userID int64, pc *transfer.PostCreation, file *multipart.FileHeader) (int64, time.Duration, error) {
	if pc == nil || pc.Commentary == "" {
		err := errors.New("commentary cannot be empty")
		slog.Info(err.Error())
		return 0, 0, err
	}

	scheduledTime := time.Now()
	if pc.ScheduledTime != "" {
		var err error
		scheduledTime, err = time.Parse("2006-01-02T15:04", pc.ScheduledTime)
		if err != nil {
			err = fmt.Errorf("invalid scheduled time format: %w", err)
			slog.Info(err.Error())
			return 0, 0, err
		}
	}

	var assetID int64
	if file != nil {
		var err error
		assetID, err = s.storeMedia(ctx, userID, file)
		if err != nil {
			return 0, 0, err
		}
	}

	id, err := s.sp.Create(ctx, &models.ScheduledPost{
		UserID:        userID,
		Commentary:    pc.Commentary,
		AssetID:       assetID,
		ScheduledTime: scheduledTime,
		Status:        models.PostStatusScheduled,
	})
	if err != nil {
		return 0, 0, fmt.Errorf("error creating scheduled post: %w", err)
	}

	delay := time.Until(scheduledTime)
	if delay < 0 {
		delay = 0
	}

	return id, delay, nil
}

func (s *publishService) storeMedia(ctx context.Context, userID int64, file *multipart.FileHeader) (int64, error) {
	src, err := file.Open()
	if err != nil {
		return 0, fmt.Errorf("error opening uploaded file: %w", err)
	}
	defer src.Close()

	buf, err := io.ReadAll(src)
	if err != nil {
		return 0, fmt.Errorf("error reading uploaded file: %w", err)
	}

	kind, err := filetype.Match(buf)
	if err != nil || kind.MIME.Type != "image" {
		err = errors.New("only image uploads are supported")
		slog.Info(err.Error())
		return 0, err
	}

	key, err := gonanoid.New()
	if err != nil {
		return 0, err
	}
	key = fmt.Sprintf("media/%s.%s", key, kind.Extension)

	fileURL, err := s.r2.Upload(ctx, key, buf, kind.MIME.Value)
	if err != nil {
		return 0, fmt.Errorf("error uploading media: %w", err)
	}

	return s.ma.Create(ctx, &models.MediaAsset{
		UserID:   userID,
		FileName: file.Filename,
		FileType: kind.MIME.Value,
		FileSize: int64(len(buf)),
		FileURL:  fileURL,
	})
}

// PublishScheduled posts one scheduled post to the organization page. Safe
// under queue redelivery: an already-posted row is skipped.
func (s *publishService) PublishScheduled(ctx context.Context, scheduledPostID int64) error {
	sp, err := s.sp.GetByID(ctx, scheduledPostID)
	if err != nil {
		return err
	}
	if sp == nil {
		return fmt.Errorf("scheduled post %d not found", scheduledPostID)
	}
	if sp.Status != models.PostStatusScheduled {
		slog.Info(fmt.Sprintf("scheduled post %d already in status %s", sp.ID, sp.Status))
		return nil
	}

	token, err := s.tokens.Acquire(ctx)
	if err != nil {
		s.markFailed(ctx, sp.ID)
		return err
	}

	var mediaURL string
	if sp.AssetID != 0 {
		asset, err := s.ma.GetByID(ctx, sp.AssetID)
		if err != nil {
			s.markFailed(ctx, sp.ID)
			return err
		}
		if asset != nil {
			mediaURL = asset.FileURL
		}
	}

	postURN, err := s.li.PublishPost(ctx, token, sp.Commentary, mediaURL)
	if err != nil {
		s.markFailed(ctx, sp.ID)
		return fmt.Errorf("failed to publish post %d: %w", sp.ID, err)
	}

	if err := s.p.Upsert(ctx, &models.Post{
		PostURN:     postURN,
		Commentary:  sp.Commentary,
		AuthorURN:   s.cfg.LinkedInOrgURN,
		IsPublic:    true,
		PublishedAt: time.Now(),
		Source:      models.PostSourcePublished,
		MediaURL:    mediaURL,
	}); err != nil {
		return fmt.Errorf("failed to record published post %d: %w", sp.ID, err)
	}

	return s.sp.UpdateStatus(ctx, sp.ID, models.PostStatusPosted)
}

func (s *publishService) List(ctx context.Context, userID int64) ([]*models.ScheduledPost, error) {
	return s.sp.ListByUserID(ctx, userID)
}

func (s *publishService) markFailed(ctx context.Context, id int64) {
	if err := s.sp.UpdateStatus(ctx, id, models.PostStatusFailed); err != nil {
		slog.Error(err.Error())
	}
}
