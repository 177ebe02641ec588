package transfer

import "github.com/teampulse/api/internal/models"

// SyncStatus is the response body for the sync status endpoint.
type SyncStatus struct {
	Runs           []*models.SyncRun `json:"runs"`
	MockMode       bool              `json:"mock_mode"`
	HasCredentials bool              `json:"has_credentials"`
}

type PostCreation struct {
	Commentary    string
	ScheduledTime string
}

type LeaderboardEntry struct {
	UserID         int64  `json:"user_id"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profile_picture"`
	Reactions      int    `json:"reactions"`
	Comments       int    `json:"comments"`
	Total          int    `json:"total"`
}

type PostWithCounts struct {
	Post        *models.Post `json:"post"`
	Reactions   int          `json:"reactions"`
	Comments    int          `json:"comments"`
	Engagements int          `json:"engagements"`
}
