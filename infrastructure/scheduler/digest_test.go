package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"yaplog-backend/application/commands"
	"yaplog-backend/application/commands/bus"
	commands_handlers "yaplog-backend/application/commands/handlers"
	"yaplog-backend/infrastructure/persistence/memstore"
)

type processAdapter struct {
	handler *commands_handlers.ProcessMemoriesHandler
}

func (a *processAdapter) Handle(ctx context.Context, cmd bus.Command) error {
	_, err := a.handler.Handle(ctx, cmd.(commands.ProcessMemoriesCommand))
	return err
}

func TestDigestScheduler_RunOnce(t *testing.T) {
	ctx := context.Background()
	repo := memstore.NewMemoryRepository()
	logger := zap.NewNop()

	recorder := commands_handlers.NewRecordMemoryHandler(repo, logger)
	_, err := recorder.Handle(ctx, commands.RecordMemoryCommand{
		OwnerID: "user-1",
		Content: "An entry waiting for its digest.",
	})
	require.NoError(t, err)

	commandBus := bus.NewCommandBus()
	require.NoError(t, commandBus.Register(commands.ProcessMemoriesCommand{}, &processAdapter{
		handler: commands_handlers.NewProcessMemoriesHandler(repo, logger),
	}))

	s := NewDigestScheduler(commandBus, "* * * * *", 10, time.Second, logger)
	s.runOnce()

	remaining, err := repo.FindUnprocessed(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestDigestScheduler_EmptyScheduleDisables(t *testing.T) {
	s := NewDigestScheduler(nil, "", 10, time.Second, zap.NewNop())

	require.NoError(t, s.Start())
	s.Stop()
}

func TestDigestScheduler_InvalidSchedule(t *testing.T) {
	s := NewDigestScheduler(nil, "not a cron spec", 10, time.Second, zap.NewNop())

	assert.Error(t, s.Start())
}
