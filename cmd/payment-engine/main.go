// Command payment-engine folds a CSV transaction log into client accounts and
// prints their final state as CSV on stdout.
//
// Usage:
//
//	payment-engine [-v|--verbose] [-s|--sequential] [-w N] INPUT
//
// Logs go to stderr. Environment: ENV_NAME, LOG_LEVEL, LEDGER_WORKERS,
// LEDGER_SEQUENTIAL, OTEL_LIBRARY_NAME. A W3C TRACEPARENT (and TRACESTATE)
// makes the run span a child of the caller's trace.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/blackghost1987/payment-engine/payments"
	"github.com/blackghost1987/payment-engine/payments/csv"
	"github.com/blackghost1987/payment-engine/payments/ledger"
	"github.com/blackghost1987/payment-engine/payments/log"
	"github.com/blackghost1987/payment-engine/payments/opentelemetry/metrics"
	"github.com/blackghost1987/payment-engine/payments/zap"
)

const (
	exitOK            = 0
	exitUsage         = 1
	exitOpenFailed    = 2
	exitParseFailed   = 3
	exitWriteFailed   = 4
	exitProcessFailed = 5
)

type options struct {
	verbose    bool
	sequential bool
	workers    int
	input      string
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := payments.LoadConfig()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	opts, err := parseFlags(args, cfg, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}

	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	logger := newLogger(cfg, opts.verbose, stderr)

	defer func() { _ = logger.Sync(context.Background()) }()

	ctx = payments.ContextWithLogger(ctx, logger)
	ctx = payments.ContextWithRunID(ctx, uuid.New().String())
	ctx = payments.ContextWithTracer(ctx, otel.Tracer(cfg.OTelLibraryName))
	ctx = payments.ContextWithTraceParent(ctx, cfg.TraceParent, cfg.TraceState)

	factory, err := metrics.NewMetricsFactory(otel.GetMeterProvider().Meter(cfg.OTelLibraryName), logger)
	if err != nil {
		logger.Log(ctx, log.LevelWarn, "metrics disabled", log.Err(err))

		factory = metrics.NewNopFactory()
	}

	ctx = payments.ContextWithMetricFactory(ctx, factory)

	return execute(ctx, logger, opts, stdout)
}

func execute(ctx context.Context, logger log.Logger, opts options, stdout io.Writer) int {
	file, err := os.Open(opts.input)
	if err != nil {
		logger.Log(ctx, log.LevelError, "failed to open input", log.String("path", opts.input), log.Err(err))
		return exitOpenFailed
	}
	defer file.Close()

	records, err := csv.ReadTransactions(ctx, file)
	if err != nil {
		logger.Log(ctx, log.LevelError, "failed to parse input", log.String("path", opts.input), log.Err(err))
		return exitParseFailed
	}

	engine := ledger.NewEngine(ledger.WithSequential(opts.sequential), ledger.WithWorkers(opts.workers))

	accounts, err := engine.Process(ctx, records)
	if err != nil {
		logger.Log(ctx, log.LevelError, "failed to process transactions", log.Err(err))
		return exitProcessFailed
	}

	if err := csv.WriteAccounts(stdout, accounts); err != nil {
		logger.Log(ctx, log.LevelError, "failed to write accounts", log.Err(err))
		return exitWriteFailed
	}

	return exitOK
}

func parseFlags(args []string, cfg payments.Config, stderr io.Writer) (options, error) {
	opts := options{sequential: cfg.Sequential, workers: cfg.Workers}

	fs := flag.NewFlagSet("payment-engine", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&opts.verbose, "v", false, "log loaded, ignored and summary records at debug level")
	fs.BoolVar(&opts.verbose, "verbose", false, "same as -v")
	fs.BoolVar(&opts.sequential, "s", opts.sequential, "fold client partitions sequentially")
	fs.BoolVar(&opts.sequential, "sequential", opts.sequential, "same as -s")
	fs.IntVar(&opts.workers, "w", opts.workers, "maximum client partitions folded at once")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: payment-engine [-v|--verbose] [-s|--sequential] [-w N] INPUT")
		fs.PrintDefaults()
	}

	// Flags may follow INPUT, so parsing resumes after every positional argument.
	var positional []string

	for {
		if err := fs.Parse(args); err != nil {
			return options{}, err
		}

		if fs.NArg() == 0 {
			break
		}

		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}

	if len(positional) != 1 {
		fs.Usage()
		return options{}, fmt.Errorf("expected exactly one INPUT path, got %d", len(positional))
	}

	opts.input = positional[0]

	return opts, nil
}

// newLogger builds the zap logger for cfg.EnvName. Verbose forces debug; otherwise
// LOG_LEVEL applies and defaults to error. A stdlib logger on stderr is the fallback.
func newLogger(cfg payments.Config, verbose bool, stderr io.Writer) log.Logger {
	level := log.LevelError

	if cfg.LogLevel != "" {
		if parsed, err := log.ParseLevel(cfg.LogLevel); err == nil {
			level = parsed
		}
	}

	if verbose {
		level = log.LevelDebug
	}

	logger, _, err := zap.New(zap.Config{
		Environment:     zap.Environment(cfg.EnvName),
		Level:           zap.LevelName(level),
		OTelLibraryName: cfg.OTelLibraryName,
	})
	if err != nil {
		fallback := log.NewGoLogger(stderr, level)
		fallback.Log(context.Background(), log.LevelWarn, "falling back to stderr logger", log.Err(err))

		return fallback
	}

	return logger
}
