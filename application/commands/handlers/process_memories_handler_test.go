package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"yaplog-backend/application/commands"
	"yaplog-backend/domain/journal"
	"yaplog-backend/infrastructure/persistence/memstore"
)

// failingDigestRepo rejects the digest write for a single memory ID.
type failingDigestRepo struct {
	*memstore.MemoryRepository
	failID string
}

func (r *failingDigestRepo) ApplyDigest(ctx context.Context, memory *journal.Memory, digest *journal.Digest) error {
	if memory.ID() == r.failID {
		return errors.New("provisioned throughput exceeded")
	}
	return r.MemoryRepository.ApplyDigest(ctx, memory, digest)
}

func seedMemories(t *testing.T, repo *memstore.MemoryRepository, contents ...string) {
	t.Helper()
	recorder := NewRecordMemoryHandler(repo, zap.NewNop())
	for _, content := range contents {
		_, err := recorder.Handle(context.Background(), commands.RecordMemoryCommand{
			OwnerID: "user-1",
			Content: content,
		})
		require.NoError(t, err)
	}
}

func TestProcessMemoriesHandler_Handle(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := memstore.NewMemoryRepository()
	seedMemories(t, repo,
		"Long walk by the river. Saw two herons.",
		"Quiet day at home reading.",
	)
	handler := NewProcessMemoriesHandler(repo, zap.NewNop())

	// Act
	count, err := handler.Handle(ctx, commands.ProcessMemoriesCommand{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	memories, err := repo.FindByOwner(ctx, "user-1")
	require.NoError(t, err)
	for _, m := range memories {
		assert.True(t, m.Processed())
		require.NotNil(t, m.Digest())
		assert.NotEmpty(t, m.Digest().Essence())
		assert.NotEmpty(t, m.Digest().StructuredUnderstanding())
		assert.NotEmpty(t, m.Digest().Summary())
	}
}

func TestProcessMemoriesHandler_Handle_SecondRunIsNoop(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := memstore.NewMemoryRepository()
	seedMemories(t, repo, "One entry only.")
	handler := NewProcessMemoriesHandler(repo, zap.NewNop())

	first, err := handler.Handle(ctx, commands.ProcessMemoriesCommand{})
	require.NoError(t, err)
	require.Equal(t, 1, first)

	// Act
	second, err := handler.Handle(ctx, commands.ProcessMemoriesCommand{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, second)
}

func TestProcessMemoriesHandler_Handle_RespectsBatchSize(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := memstore.NewMemoryRepository()
	seedMemories(t, repo, "Entry number one.", "Entry number two.", "Entry number three.")
	handler := NewProcessMemoriesHandler(repo, zap.NewNop())

	// Act
	count, err := handler.Handle(ctx, commands.ProcessMemoriesCommand{BatchSize: 2})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	remaining, err := repo.FindUnprocessed(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestProcessMemoriesHandler_Handle_EntryFailureDoesNotAbortBatch(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := memstore.NewMemoryRepository()
	seedMemories(t, store, "Entry number one.", "Entry number two.", "Entry number three.")

	pending, err := store.FindUnprocessed(ctx, 0)
	require.NoError(t, err)
	require.Len(t, pending, 3)

	repo := &failingDigestRepo{MemoryRepository: store, failID: pending[1].ID()}
	handler := NewProcessMemoriesHandler(repo, zap.NewNop())

	// Act
	count, err := handler.Handle(ctx, commands.ProcessMemoriesCommand{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, count, "count reflects only committed entries")

	remaining, err := store.FindUnprocessed(ctx, 0)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, pending[1].ID(), remaining[0].ID())
}

func TestProcessMemoriesHandler_Handle_EmptyBacklog(t *testing.T) {
	// Arrange
	handler := NewProcessMemoriesHandler(memstore.NewMemoryRepository(), zap.NewNop())

	// Act
	count, err := handler.Handle(context.Background(), commands.ProcessMemoriesCommand{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
