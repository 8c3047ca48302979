package handlers

import (
	"context"
	"fmt"

	"yaplog-backend/application/ports"
	"yaplog-backend/application/queries"
	"yaplog-backend/application/queries/bus"
	"yaplog-backend/domain/journal"

	"go.uber.org/zap"
)

// GetTimelineHandler handles the GetTimelineQuery
type GetTimelineHandler struct {
	memoryRepo ports.MemoryRepository
	timeline   *journal.Timeline
	logger     *zap.Logger
}

// NewGetTimelineHandler creates a new handler instance
func NewGetTimelineHandler(memoryRepo ports.MemoryRepository, timeline *journal.Timeline, logger *zap.Logger) *GetTimelineHandler {
	return &GetTimelineHandler{
		memoryRepo: memoryRepo,
		timeline:   timeline,
		logger:     logger,
	}
}

// Handle projects the owner's history into per-day digests, newest day
// first.
func (h *GetTimelineHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.GetTimelineQuery)
	if !ok {
		return nil, fmt.Errorf("invalid query type %T", query)
	}

	memories, err := h.memoryRepo.FindByOwner(ctx, q.OwnerID)
	if err != nil {
		return nil, err
	}

	return queries.GetTimelineResult{Days: h.timeline.GroupByDay(memories)}, nil
}
