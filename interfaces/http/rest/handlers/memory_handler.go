package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"yaplog-backend/application/commands"
	commands_handlers "yaplog-backend/application/commands/handlers"
	"yaplog-backend/application/queries"
	querybus "yaplog-backend/application/queries/bus"
	"yaplog-backend/pkg/auth"
	"yaplog-backend/pkg/common"
	pkgerrors "yaplog-backend/pkg/errors"
	"yaplog-backend/pkg/utils"

	"go.uber.org/zap"
)

const maxMemoryBodyBytes = 1 << 20

// MemoryHandler handles journal entry HTTP requests
type MemoryHandler struct {
	recordHandler  *commands_handlers.RecordMemoryHandler
	processHandler *commands_handlers.ProcessMemoriesHandler
	queryBus       *querybus.QueryBus
	logger         *zap.Logger
}

// NewMemoryHandler creates a new memory handler
func NewMemoryHandler(
	recordHandler *commands_handlers.RecordMemoryHandler,
	processHandler *commands_handlers.ProcessMemoriesHandler,
	queryBus *querybus.QueryBus,
	logger *zap.Logger,
) *MemoryHandler {
	return &MemoryHandler{
		recordHandler:  recordHandler,
		processHandler: processHandler,
		queryBus:       queryBus,
		logger:         logger,
	}
}

// RecordMemoryRequest represents the request body for recording an entry
type RecordMemoryRequest struct {
	Content string `json:"content" validate:"required"`
}

// RecordMemoryResponse represents the stored entry returned on ingestion
type RecordMemoryResponse struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Day       string `json:"date"`
	CreatedAt string `json:"createdAt"`
	Processed bool   `json:"processed"`
}

// ProcessMemoriesRequest represents the request body for a digest run
type ProcessMemoriesRequest struct {
	BatchSize int `json:"batchSize,omitempty" validate:"omitempty,min=1,max=1000"`
}

// ProcessMemoriesResponse represents the result of a digest run
type ProcessMemoriesResponse struct {
	ProcessedCount int    `json:"processedCount"`
	Message        string `json:"message"`
}

// RecordMemory handles POST /memories
func (h *MemoryHandler) RecordMemory(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, "Unauthorized")
		return
	}

	var req RecordMemoryRequest
	if err := common.ParseJSONBody(r, &req, maxMemoryBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, err.Error())
		return
	}

	cmd := commands.RecordMemoryCommand{
		OwnerID: userCtx.UserID,
		Content: req.Content,
	}

	memory, err := h.recordHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.logger.Error("Failed to record memory",
			zap.String("userID", userCtx.UserID),
			zap.Error(err),
		)
		h.respondAppError(w, err, "Failed to record memory")
		return
	}

	common.RespondJSON(w, http.StatusCreated, RecordMemoryResponse{
		ID:        memory.ID(),
		Content:   memory.Content(),
		Day:       memory.Day(),
		CreatedAt: memory.CreatedAt().UTC().Format(time.RFC3339),
		Processed: memory.Processed(),
	})
}

// ListMemories handles GET /memories
func (h *MemoryHandler) ListMemories(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, "Unauthorized")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.ListMemoriesQuery{OwnerID: userCtx.UserID})
	if err != nil {
		h.logger.Error("Failed to list memories",
			zap.String("userID", userCtx.UserID),
			zap.Error(err),
		)
		h.respondAppError(w, err, "Failed to list memories")
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// GetTimeline handles GET /memories/timeline
func (h *MemoryHandler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, "Unauthorized")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetTimelineQuery{OwnerID: userCtx.UserID})
	if err != nil {
		h.logger.Error("Failed to build timeline",
			zap.String("userID", userCtx.UserID),
			zap.Error(err),
		)
		h.respondAppError(w, err, "Failed to build timeline")
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// ProcessMemories handles POST /memories/process
func (h *MemoryHandler) ProcessMemories(w http.ResponseWriter, r *http.Request) {
	var req ProcessMemoriesRequest
	// ContentLength is -1 for chunked requests, which may still carry a
	// body. io.EOF from the decoder means the body was empty after all.
	if r.ContentLength != 0 {
		if err := common.ParseJSONBody(r, &req, maxMemoryBodyBytes); err != nil && !errors.Is(err, io.EOF) {
			common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Invalid request body")
			return
		}
		if err := utils.ValidateStruct(req); err != nil {
			common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, err.Error())
			return
		}
	}

	count, err := h.processHandler.Handle(r.Context(), commands.ProcessMemoriesCommand{BatchSize: req.BatchSize})
	if err != nil {
		h.logger.Error("Digest run failed", zap.Error(err))
		h.respondAppError(w, err, "Failed to process memories")
		return
	}

	common.RespondJSON(w, http.StatusOK, ProcessMemoriesResponse{
		ProcessedCount: count,
		Message:        "Processing complete",
	})
}

func (h *MemoryHandler) respondAppError(w http.ResponseWriter, err error, fallback string) {
	status := pkgerrors.HTTPStatusFor(err)
	message := fallback
	code := common.StandardErrorCodes.InternalError
	if appErr := pkgerrors.GetAppError(err); appErr != nil {
		message = appErr.Message
		code = string(appErr.Type)
	}
	common.RespondError(w, status, code, message)
}
