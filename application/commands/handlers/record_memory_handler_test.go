package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"yaplog-backend/application/commands"
	"yaplog-backend/infrastructure/persistence/memstore"
	pkgerrors "yaplog-backend/pkg/errors"
)

func TestRecordMemoryHandler_Handle_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := memstore.NewMemoryRepository()
	handler := NewRecordMemoryHandler(repo, zap.NewNop())

	cmd := commands.RecordMemoryCommand{
		OwnerID: "user-1",
		Content: "Started reading a new book tonight.",
	}

	// Act
	memory, err := handler.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, memory)
	assert.Equal(t, "user-1", memory.OwnerID())
	assert.Equal(t, cmd.Content, memory.Content())
	assert.False(t, memory.Processed())
	assert.NotEmpty(t, memory.Day())

	stored, err := repo.FindByOwner(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, memory.ID(), stored[0].ID())
}

func TestRecordMemoryHandler_Handle_EmptyContent(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := memstore.NewMemoryRepository()
	handler := NewRecordMemoryHandler(repo, zap.NewNop())

	cmd := commands.RecordMemoryCommand{
		OwnerID: "user-1",
		Content: "   ",
	}

	// Act
	memory, err := handler.Handle(ctx, cmd)

	// Assert
	require.Error(t, err)
	assert.Nil(t, memory)
	assert.True(t, pkgerrors.IsValidation(err))

	stored, err := repo.FindByOwner(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, stored)
}
