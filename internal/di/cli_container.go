package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/spam-ensemble/internal/config"
	"github.com/mikey/spam-ensemble/internal/core"
	"github.com/mikey/spam-ensemble/internal/instrument"
	"github.com/mikey/spam-ensemble/internal/logging"
)

// CLIFlags contains the global flags of the CLI application
type CLIFlags struct {
	ConfigFile  string
	Verbose     bool
	JSONLog     bool
	Concurrency int
}

// BuildCLIContainer creates and configures a dependency injection container for the CLI application
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration, command line flags take precedence
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		cfg, err := config.NewFromFile(flags.ConfigFile)
		if err != nil {
			return nil, err
		}
		if used := cfg.GetViper().ConfigFileUsed(); used != "" {
			logger.Debug("Loaded configuration from file", zap.String("file", used))
		}
		if flags.Concurrency > 0 {
			cfg.Set("evaluation.concurrency", flags.Concurrency)
		}
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	// No metrics for one-shot commands
	if err := container.Provide(func() *instrument.Metrics { return nil }); err != nil {
		return nil, err
	}
	if err := container.Provide(func() core.Observer { return nil }); err != nil {
		return nil, err
	}

	if err := provideCore(container); err != nil {
		return nil, err
	}

	return container, nil
}
