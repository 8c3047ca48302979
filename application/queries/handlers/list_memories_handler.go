package handlers

import (
	"context"
	"fmt"
	"time"

	"yaplog-backend/application/ports"
	"yaplog-backend/application/queries"
	"yaplog-backend/application/queries/bus"
	"yaplog-backend/domain/journal"

	"go.uber.org/zap"
)

// ListMemoriesHandler handles the ListMemoriesQuery
type ListMemoriesHandler struct {
	memoryRepo ports.MemoryRepository
	logger     *zap.Logger
}

// NewListMemoriesHandler creates a new handler instance
func NewListMemoriesHandler(memoryRepo ports.MemoryRepository, logger *zap.Logger) *ListMemoriesHandler {
	return &ListMemoriesHandler{
		memoryRepo: memoryRepo,
		logger:     logger,
	}
}

// Handle returns the owner's full entry history, newest first.
func (h *ListMemoriesHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.ListMemoriesQuery)
	if !ok {
		return nil, fmt.Errorf("invalid query type %T", query)
	}

	memories, err := h.memoryRepo.FindByOwner(ctx, q.OwnerID)
	if err != nil {
		return nil, err
	}

	views := make([]queries.MemoryView, len(memories))
	for i, m := range memories {
		views[i] = toMemoryView(m)
	}

	return queries.ListMemoriesResult{Memories: views}, nil
}

// toMemoryView projects the entity's two states onto the wire shape: nil
// derived fields until processed, all populated afterwards.
func toMemoryView(m *journal.Memory) queries.MemoryView {
	view := queries.MemoryView{
		ID:        m.ID(),
		Content:   m.Content(),
		Day:       m.Day(),
		CreatedAt: m.CreatedAt().Format(time.RFC3339),
		Processed: m.Processed(),
	}

	if d := m.Digest(); d != nil {
		essence := d.Essence()
		summary := d.Summary()
		processedAt := d.ProcessedAt().Format(time.RFC3339)
		view.Essence = &essence
		view.StructuredUnderstanding = d.StructuredUnderstanding()
		view.Summary = &summary
		view.ProcessedAt = &processedAt
	} else {
		view.StructuredUnderstanding = []string{}
	}

	return view
}
