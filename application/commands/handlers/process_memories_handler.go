package handlers

import (
	"context"
	"time"

	"yaplog-backend/application/commands"
	"yaplog-backend/application/ports"
	"yaplog-backend/domain/journal"

	"go.uber.org/zap"
)

// ProcessMemoriesHandler runs one digest batch: it fetches unprocessed
// memories, derives digests, and persists them one entry at a time.
type ProcessMemoriesHandler struct {
	memoryRepo ports.MemoryRepository
	logger     *zap.Logger
}

// NewProcessMemoriesHandler creates a new handler instance
func NewProcessMemoriesHandler(memoryRepo ports.MemoryRepository, logger *zap.Logger) *ProcessMemoriesHandler {
	return &ProcessMemoriesHandler{
		memoryRepo: memoryRepo,
		logger:     logger,
	}
}

// Handle processes up to cmd.Limit() unprocessed memories and returns the
// number that committed. A persistence failure on one memory is logged and
// does not abort the batch; the count reflects only committed entries.
// Selection filters strictly on the unprocessed state, so re-running with
// nothing new to do returns zero.
func (h *ProcessMemoriesHandler) Handle(ctx context.Context, cmd commands.ProcessMemoriesCommand) (int, error) {
	unprocessed, err := h.memoryRepo.FindUnprocessed(ctx, cmd.Limit())
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, memory := range unprocessed {
		digest := journal.DeriveDigest(memory.Content(), time.Now())

		if err := h.memoryRepo.ApplyDigest(ctx, memory, digest); err != nil {
			h.logger.Error("Failed to persist digest, continuing batch",
				zap.String("memoryID", memory.ID()),
				zap.Error(err),
			)
			continue
		}
		processed++
	}

	h.logger.Info("Digest batch complete",
		zap.Int("fetched", len(unprocessed)),
		zap.Int("processed", processed),
	)

	return processed, nil
}
