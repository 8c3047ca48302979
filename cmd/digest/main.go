// Command digest runs a single digest batch over unprocessed entries and
// exits. Useful from cron or as a one-off backfill.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"yaplog-backend/application/commands"
	"yaplog-backend/infrastructure/config"
	"yaplog-backend/infrastructure/di"

	"go.uber.org/zap"
)

func main() {
	batchSize := flag.Int("batch-size", 0, "max entries to process in this run (0 uses the configured default)")
	timeout := flag.Duration("timeout", 5*time.Minute, "run deadline")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer container.Logger.Sync()

	size := *batchSize
	if size == 0 {
		size = cfg.DigestBatchSize
	}

	count, err := container.ProcessHandler.Handle(ctx, commands.ProcessMemoriesCommand{BatchSize: size})
	if err != nil {
		container.Logger.Fatal("Digest run failed", zap.Error(err))
	}

	container.Logger.Info("Digest run complete", zap.Int("processed", count))
}
