package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey/spam-ensemble/internal/adapters/batchcsv"
	"github.com/mikey/spam-ensemble/internal/adapters/console"
	"github.com/mikey/spam-ensemble/internal/adapters/http/handler"
	"github.com/mikey/spam-ensemble/internal/adapters/selector"
	"github.com/mikey/spam-ensemble/internal/core"
	"github.com/mikey/spam-ensemble/internal/di"
	"github.com/mikey/spam-ensemble/internal/ports"
)

var (
	flags = &di.CLIFlags{}

	modelName  string
	inputFile  string
	jsonOutput bool
)

var root = &cobra.Command{
	Use:           "spam-cli",
	Short:         "Classify SMS messages with the spam model ensemble",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var classify = &cobra.Command{
	Use:   "classify [--model M] <text>",
	Short: "classify one message and print the prediction",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, model, err := classifyInput(args, modelName)
		if err != nil {
			return err
		}

		return invoke(cmd.Context(), func(ctx context.Context, service ports.EnsembleService, logger *zap.Logger) error {
			result, err := service.ClassifySingle(ctx, text, model)
			if err != nil {
				return err
			}
			console.NewPresenter(cmd.OutOrStdout()).Classification(result)
			return nil
		})
	},
}

var evaluate = &cobra.Command{
	Use:   "evaluate --file data.csv [--json]",
	Short: "evaluate a labeled CSV with every model and the ensemble",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return invoke(cmd.Context(), func(ctx context.Context, service ports.EnsembleService, logger *zap.Logger) error {
			samples, err := batchcsv.NewReader(logger).ReadFile(inputFile)
			if err != nil {
				return err
			}

			report, err := service.EvaluateBatch(ctx, samples)
			if err != nil {
				return err
			}

			presenter := console.NewPresenter(cmd.OutOrStdout())
			if jsonOutput {
				resp, err := handler.BuildBulkResponse(report, nil)
				if err != nil {
					return err
				}
				return presenter.JSON(resp)
			}
			presenter.Report(report)
			return nil
		})
	},
}

func init() {
	pf := root.PersistentFlags()
	pf.StringVar(&flags.ConfigFile, "config", "", "path to config file")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "enable verbose logging")
	pf.BoolVar(&flags.JSONLog, "json-log", false, "output logs in JSON format")
	pf.IntVar(&flags.Concurrency, "concurrency", 0, "parallel remote calls per model during evaluation (0 uses the config)")

	classify.Flags().StringVarP(&modelName, "model", "m", "ensemble", "model to use (bilstm, rl, pu, gan, ensemble)")

	evaluate.Flags().StringVarP(&inputFile, "file", "f", "", "CSV file with sms and label columns")
	evaluate.Flags().BoolVar(&jsonOutput, "json", false, "print the JSON report instead of tables")
	_ = evaluate.MarkFlagRequired("file")

	root.AddCommand(classify, evaluate)
}

// classifyInput joins the message arguments and resolves the model, reporting missing text first
func classifyInput(args []string, name string) (string, core.Model, error) {
	text := strings.Join(args, " ")
	if strings.TrimSpace(text) == "" {
		return "", 0, core.ErrEmptyText
	}
	model, err := selector.Any(name)
	if err != nil {
		return "", 0, err
	}
	return text, model, nil
}

// invoke builds the CLI container and runs fn with the ensemble service
func invoke(ctx context.Context, fn func(context.Context, ports.EnsembleService, *zap.Logger) error) error {
	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		return fmt.Errorf("failed to build dependency container: %w", err)
	}

	return container.Invoke(func(service ports.EnsembleService, logger *zap.Logger) error {
		defer logger.Sync()
		return fn(ctx, service, logger)
	})
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
