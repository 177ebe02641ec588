package service

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/teampulse/api/internal/models"
)

func TestMatchInternalFiltersToIdentitySetPreservingOrder(t *testing.T) {
	events := []models.Engagement{
		{PostURN: "urn:li:share:1", MemberURN: "urn:li:person:alice", Kind: models.EngagementKindReaction, ReactionType: "LIKE"},
		{PostURN: "urn:li:share:1", MemberURN: "urn:li:person:stranger", Kind: models.EngagementKindReaction, ReactionType: "LIKE"},
		{PostURN: "urn:li:share:1", MemberURN: "urn:li:person:bob", Kind: models.EngagementKindComment, Comment: "nice"},
		{PostURN: "urn:li:share:1", MemberURN: "urn:li:person:alice", Kind: models.EngagementKindComment, Comment: "congrats"},
	}
	internal := map[string]struct{}{
		"urn:li:person:alice": {},
		"urn:li:person:bob":   {},
	}

	matched := MatchInternal(events, internal)

	require.Len(t, matched, 3)
	require.Equal(t, "urn:li:person:alice", matched[0].MemberURN)
	require.Equal(t, "urn:li:person:bob", matched[1].MemberURN)
	require.Equal(t, "urn:li:person:alice", matched[2].MemberURN)
	require.Equal(t, models.EngagementKindComment, matched[2].Kind)
}

func TestMatchInternalEmptySetDropsEverything(t *testing.T) {
	events := []models.Engagement{
		{MemberURN: "urn:li:person:alice", Kind: models.EngagementKindReaction, ReactionType: "LIKE"},
	}

	matched := MatchInternal(events, map[string]struct{}{})

	require.Empty(t, matched)
}

func TestMatchInternalKeepsDistinctKindsAndSubtypes(t *testing.T) {
	events := []models.Engagement{
		{MemberURN: "urn:li:person:alice", Kind: models.EngagementKindReaction, ReactionType: "LIKE"},
		{MemberURN: "urn:li:person:alice", Kind: models.EngagementKindReaction, ReactionType: "CELEBRATE"},
		{MemberURN: "urn:li:person:alice", Kind: models.EngagementKindComment, Comment: "well done"},
	}
	internal := map[string]struct{}{"urn:li:person:alice": {}}

	matched := MatchInternal(events, internal)

	// a reaction and a comment by the same actor stay separate rows, and so
	// do two reaction subtypes
	require.Len(t, matched, 3)
}
