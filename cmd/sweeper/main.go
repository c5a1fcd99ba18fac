// Command sweeper runs only the couple-confirmation expiry sweep. Deploy it
// when the API instances should not own background work.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"pairwork/internal/app"
	"pairwork/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := log.New(os.Stdout, "", log.LstdFlags)

	container, err := app.NewContainer(*cfg, logger)
	if err != nil {
		log.Fatalf("failed to build container: %v", err)
	}
	defer func() {
		if err := container.Close(); err != nil {
			logger.Printf("cleanup error: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Printf("[Sweeper] starting interval=%s", cfg.Couple.SweepInterval)
	container.Sweep.Run(ctx)
	logger.Printf("[Sweeper] stopped")
}
