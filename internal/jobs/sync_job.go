package job

import (
	"context"
	"log/slog"
	"time"

	"github.com/teampulse/api/internal/service"
)

// SyncJob drives the daily scheduled synchronization run.
type SyncJob struct {
	s service.SyncService
}

func NewSyncJob(s service.SyncService) *SyncJob {
	return &SyncJob{
		s: s,
	}
}

const syncRunTimeout = 10 * time.Minute

func (j *SyncJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), syncRunTimeout)
	defer cancel()

	result := j.s.RunSync(ctx)
	if !result.Success {
		slog.Error("scheduled sync failed: " + result.Error)
		return
	}

	slog.Info("scheduled sync completed",
		"posts_processed", result.PostsProcessed,
		"engagements_found", result.EngagementsFound)
}
