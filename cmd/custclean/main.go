package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"custclean/internal/config"
	"custclean/internal/dataprocessing"
	apperrors "custclean/internal/errors"
	"custclean/internal/exporter"
	"custclean/internal/infrastructure"
	"custclean/internal/operations"
	"custclean/pkg/contracts"
)

// cliOptions holds the parsed command line
type cliOptions struct {
	configPath  string
	showVersion bool
	overrides   config.Overrides
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func parseFlags(args []string, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "path to a YAML config file (defaults to config.yaml or configs/config.yaml when present)")
	fs.StringVar(&opts.overrides.InputPath, "in", "", "input workbook (default "+config.DefaultInputPath+")")
	fs.StringVar(&opts.overrides.Sheet, "sheet", "", "sheet to read (default "+config.DefaultSheetName+")")
	fs.StringVar(&opts.overrides.OutputPath, "out", "", "output workbook (default "+config.DefaultOutputPath+")")
	fs.StringVar(&opts.overrides.CSVPath, "csv", "", "also write the cleaned table as CSV to this path")
	fs.StringVar(&opts.overrides.SummaryPath, "summary", "", "write a JSON run summary to this path")
	fs.BoolVar(&opts.showVersion, "version", false, "print version information and exit")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, nil
}

// run executes one cleaning run and returns the process exit code. The
// console report goes to stdout, logs go where the logging config says.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}
	if opts.showVersion {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err == nil {
		err = cfg.Apply(opts.overrides)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: invalid configuration: %v\n", err)
		return 1
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx, runID := infrastructure.EnsureRunID(ctx)

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Failed to initialize telemetry")
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			infrastructure.WithError(logger, err).Warn("Telemetry shutdown failed")
		}
	}()

	metrics, err := infrastructure.NewPipelineMetrics(providers.Meter)
	if err != nil {
		infrastructure.WithError(logger, err).WarnContext(ctx, "Pipeline metrics unavailable")
	}

	registry, err := operations.NewPipeline(operations.StepDeps{
		Config:   cfg,
		Reporter: dataprocessing.NewReporter(stdout),
		Metrics:  metrics,
		Logger:   logger,
	})
	if err != nil {
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Failed to build pipeline")
		return 1
	}

	logger.InfoContext(ctx, "Starting customer dataset cleaning",
		slog.String("version", config.AppVersion),
		slog.String("input", cfg.Input.Path),
		slog.String("sheet", cfg.Input.Sheet),
		slog.String("output", cfg.Output.Path))

	runner := operations.NewRunner(registry, operations.RunnerOptions{
		Tracer:  providers.Tracer,
		Metrics: metrics,
		Logger:  logger,
	})
	state := operations.NewState(runID, cfg.Input.Path, cfg.Input.Sheet, cfg.Output.Path)
	runErr := runner.Run(ctx, state)

	summary := state.Finalize()
	if cfg.Output.SummaryPath != "" {
		if err := exporter.WriteJSON(cfg.Output.SummaryPath, summary); err != nil {
			infrastructure.WithError(logger, err).ErrorContext(ctx, "Failed to write run summary")
		}
	}
	if err := providers.WriteMetrics(cfg.Telemetry.MetricsFile); err != nil {
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Failed to write metrics")
	}

	if runErr != nil {
		if apperrors.IsNotFound(runErr) {
			fmt.Fprintf(stdout, "Error: The file was not found at %s\n", cfg.Input.Path)
		} else {
			fmt.Fprintf(stdout, "An error occurred: %v\n", runErr)
		}
		return 1
	}

	logger.InfoContext(ctx, "Customer dataset cleaned",
		slog.String("output", cfg.Output.Path),
		slog.Int("rows", summary.Rows),
		slog.Duration("duration", state.Duration()))
	return 0
}
