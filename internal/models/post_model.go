package models

import "time"

// Post is one organization post mirrored from LinkedIn, keyed by its URN.
type Post struct {
	ID          int64     `db:"id" json:"id"`
	PostURN     string    `db:"post_urn" json:"post_urn"`
	Commentary  string    `db:"commentary" json:"commentary"`
	AuthorURN   string    `db:"author_urn" json:"author_urn"`
	IsPublic    bool      `db:"is_public" json:"is_public"`
	PublishedAt time.Time `db:"published_at" json:"published_at"`
	Source      string    `db:"source" json:"source"`
	MediaURL    string    `db:"media_url" json:"media_url"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ScheduledPost is a post authored in Teampulse awaiting publication to the
// organization page. Once published it is mirrored into the posts table.
type ScheduledPost struct {
	ID            int64     `db:"id" json:"id"`
	UserID        int64     `db:"user_id" json:"user_id"`
	Commentary    string    `db:"commentary" json:"commentary"`
	AssetID       int64     `db:"asset_id" json:"asset_id"`
	ScheduledTime time.Time `db:"scheduled_time" json:"scheduled_time"`
	Status        string    `db:"status" json:"status"` // scheduled, posted, failed
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

type MediaAsset struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	FileName  string    `db:"file_name"`
	FileType  string    `db:"file_type"`
	FileSize  int64     `db:"file_size"`
	FileURL   string    `db:"file_url"`
	CreatedAt time.Time `db:"created_at"`
}

const (
	PostSourceSynced    = "synced"
	PostSourcePublished = "published"

	PostStatusScheduled = "scheduled"
	PostStatusPosted    = "posted"
	PostStatusFailed    = "failed"
)
