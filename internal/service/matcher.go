package service

import "github.com/teampulse/api/internal/models"

// MatchInternal filters candidate engagement events down to those whose actor
// belongs to the internal identity set, preserving input order. Events by
// actors outside the set are public engagement and are dropped. Pure function
// so the filter is testable on its own.
func MatchInternal(events []models.Engagement, internal map[string]struct{}) []models.Engagement {
	matched := make([]models.Engagement, 0, len(events))
	for _, e := range events {
		if _, ok := internal[e.MemberURN]; ok {
			matched = append(matched, e)
		}
	}
	return matched
}
