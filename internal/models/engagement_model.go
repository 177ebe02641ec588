package models

import "time"

// Engagement is one reaction or comment by one internal member on one post.
// Unique on (post_urn, member_urn, kind, reaction_type); reaction_type is the
// empty string for comments so the composite index stays non-null.
type Engagement struct {
	ID           int64     `db:"id" json:"id"`
	PostURN      string    `db:"post_urn" json:"post_urn"`
	MemberURN    string    `db:"member_urn" json:"member_urn"`
	Kind         string    `db:"kind" json:"kind"`
	ReactionType string    `db:"reaction_type" json:"reaction_type"`
	Comment      string    `db:"comment" json:"comment"`
	OccurredAt   time.Time `db:"occurred_at" json:"occurred_at"`
	SyncedAt     time.Time `db:"synced_at" json:"synced_at"`
}

const (
	EngagementKindReaction = "reaction"
	EngagementKindComment  = "comment"
)
