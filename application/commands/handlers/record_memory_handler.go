package handlers

import (
	"context"
	"time"

	"yaplog-backend/application/commands"
	"yaplog-backend/application/ports"
	"yaplog-backend/domain/journal"

	"go.uber.org/zap"
)

// RecordMemoryHandler handles the RecordMemoryCommand
type RecordMemoryHandler struct {
	memoryRepo ports.MemoryRepository
	logger     *zap.Logger
}

// NewRecordMemoryHandler creates a new handler instance
func NewRecordMemoryHandler(memoryRepo ports.MemoryRepository, logger *zap.Logger) *RecordMemoryHandler {
	return &RecordMemoryHandler{
		memoryRepo: memoryRepo,
		logger:     logger,
	}
}

// Handle creates and persists an unprocessed memory entry and returns it,
// including the server-assigned day key and creation time.
func (h *RecordMemoryHandler) Handle(ctx context.Context, cmd commands.RecordMemoryCommand) (*journal.Memory, error) {
	memory, err := journal.NewMemory(cmd.OwnerID, cmd.Content, time.Now())
	if err != nil {
		return nil, err
	}

	if err := h.memoryRepo.Insert(ctx, memory); err != nil {
		h.logger.Error("Failed to persist memory",
			zap.String("ownerID", cmd.OwnerID),
			zap.Error(err),
		)
		return nil, err
	}

	h.logger.Info("Memory recorded",
		zap.String("memoryID", memory.ID()),
		zap.String("ownerID", memory.OwnerID()),
		zap.String("day", memory.Day()),
	)

	return memory, nil
}
