package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/spam-ensemble/internal/config"
	"github.com/mikey/spam-ensemble/internal/di"
	"github.com/mikey/spam-ensemble/internal/factory"
	"github.com/mikey/spam-ensemble/internal/ports"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	cfg *config.Config,
	logger *zap.Logger,
	frontends []ports.Frontend,
	classifiers *factory.ClassifierFactory,
) error {
	defer logger.Sync()

	serverCfg, err := cfg.GetServer()
	if err != nil {
		return err
	}

	started := make([]ports.Frontend, 0, len(frontends))
	for _, fe := range frontends {
		if err := fe.Start(); err != nil {
			logger.Error("Failed to start front end", zap.String("frontend", fe.Name()), zap.Error(err))
			stopAll(started, serverCfg.ShutdownTimeout, logger)
			return err
		}
		started = append(started, fe)
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("Shutting down...", zap.String("signal", sig.String()))

	stopAll(started, serverCfg.ShutdownTimeout, logger)

	if err := classifiers.Close(); err != nil {
		logger.Error("Failed to close classifiers", zap.Error(err))
	}

	logger.Info("Shutdown complete")
	return nil
}

func stopAll(frontends []ports.Frontend, timeout time.Duration, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	for i := len(frontends) - 1; i >= 0; i-- {
		if err := frontends[i].Stop(ctx); err != nil {
			logger.Error("Failed to stop front end", zap.String("frontend", frontends[i].Name()), zap.Error(err))
		}
	}
}
