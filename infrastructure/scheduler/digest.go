// Package scheduler runs the periodic digest batch.
package scheduler

import (
	"context"
	"time"

	"yaplog-backend/application/commands"
	"yaplog-backend/application/commands/bus"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DigestScheduler triggers digest batches on a cron schedule. Each run
// dispatches a ProcessMemoriesCommand with its own deadline so a stuck
// run cannot block the next one.
type DigestScheduler struct {
	commandBus *bus.CommandBus
	cron       *cron.Cron
	schedule   string
	batchSize  int
	runTimeout time.Duration
	logger     *zap.Logger
}

// NewDigestScheduler creates a scheduler. An empty schedule disables it.
func NewDigestScheduler(commandBus *bus.CommandBus, schedule string, batchSize int, runTimeout time.Duration, logger *zap.Logger) *DigestScheduler {
	return &DigestScheduler{
		commandBus: commandBus,
		cron:       cron.New(),
		schedule:   schedule,
		batchSize:  batchSize,
		runTimeout: runTimeout,
		logger:     logger,
	}
}

// Start registers the cron entry and begins running batches in the
// background. It returns immediately.
func (s *DigestScheduler) Start() error {
	if s.schedule == "" {
		s.logger.Info("Digest scheduler disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.runOnce); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("Digest scheduler started",
		zap.String("schedule", s.schedule),
		zap.Int("batchSize", s.batchSize),
	)
	return nil
}

// Stop halts the schedule and waits for an in-flight run to finish.
func (s *DigestScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Digest scheduler stopped")
}

func (s *DigestScheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
	defer cancel()

	cmd := commands.ProcessMemoriesCommand{BatchSize: s.batchSize}
	if err := s.commandBus.Send(ctx, cmd); err != nil {
		s.logger.Error("Digest run failed", zap.Error(err))
	}
}
