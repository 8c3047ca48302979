package queries

import (
	"errors"

	"yaplog-backend/domain/journal"
)

// GetTimelineQuery represents a query for an owner's per-day digest view
type GetTimelineQuery struct {
	OwnerID string
}

// Validate validates the GetTimelineQuery
func (q GetTimelineQuery) Validate() error {
	if q.OwnerID == "" {
		return errors.New("owner ID is required")
	}
	return nil
}

// GetTimelineResult represents the result of the timeline projection
type GetTimelineResult struct {
	Days []journal.DayDigest `json:"days"`
}
