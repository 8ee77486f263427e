package ledger

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/blackghost1987/payment-engine/payments"
	"github.com/blackghost1987/payment-engine/payments/account"
	"github.com/blackghost1987/payment-engine/payments/assert"
	constant "github.com/blackghost1987/payment-engine/payments/constants"
	"github.com/blackghost1987/payment-engine/payments/errgroup"
	"github.com/blackghost1987/payment-engine/payments/log"
	"github.com/blackghost1987/payment-engine/payments/opentelemetry/metrics"
	ledgerruntime "github.com/blackghost1987/payment-engine/payments/runtime"
	"github.com/blackghost1987/payment-engine/payments/transaction"
)

// Mode selects how partitions are scheduled.
type Mode string

const (
	// ModeSequential folds partitions one after another on the calling goroutine.
	ModeSequential Mode = "sequential"
	// ModeParallel folds partitions concurrently, one task per partition.
	ModeParallel Mode = "parallel"
)

// Engine folds transaction logs into accounts. An Engine holds no run state
// and may be reused and shared between goroutines.
type Engine struct {
	mode    Mode
	workers int
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers bounds the number of partitions folded at once in parallel mode.
// Non-positive values fall back to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// WithSequential switches the engine to sequential mode when enabled.
func WithSequential(enabled bool) Option {
	return func(e *Engine) {
		if enabled {
			e.mode = ModeSequential
		} else {
			e.mode = ModeParallel
		}
	}
}

// NewEngine returns a parallel engine bounded by GOMAXPROCS unless opts say otherwise.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{mode: ModeParallel}

	for _, opt := range opts {
		opt(e)
	}

	if e.workers <= 0 {
		e.workers = runtime.GOMAXPROCS(0)
	}

	return e
}

// Mode returns the scheduling mode.
func (e *Engine) Mode() Mode {
	return e.mode
}

// Workers returns the parallel fan-out bound.
func (e *Engine) Workers() int {
	return e.workers
}

type partitionResult struct {
	account  *account.Account
	rejected int
}

// Process folds records into one account per client and returns them keyed by
// client id. The map is built fresh on every call.
//
// Ledger errors never surface: a record an account rejects is skipped. The
// returned error is non-nil only when ctx is cancelled, a worker panics or the
// merged result breaks an invariant.
func (e *Engine) Process(ctx context.Context, records []transaction.Record) (map[transaction.ClientID]*account.Account, error) {
	logger, tracer, runID, factory := payments.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, constant.SpanLedgerProcess)
	defer span.End()

	span.SetAttributes(
		attribute.Int(constant.AttrLedgerRecords, len(records)),
		attribute.String(constant.AttrLedgerMode, string(e.mode)),
		attribute.String(constant.AttrLedgerRunID, runID),
		attribute.Int(constant.AttrLedgerWorkers, e.workers),
	)

	logger = logger.With(log.String("run_id", runID))

	partitions := PartitionByClient(records)
	results := make([]partitionResult, len(partitions))

	var err error

	switch e.mode {
	case ModeSequential:
		err = e.foldSequential(ctx, logger, factory, partitions, results)
	case ModeParallel:
		err = e.foldParallel(ctx, logger, factory, partitions, results)
	default:
		err = fmt.Errorf("ledger: unsupported mode %q", e.mode)
	}

	if err != nil {
		return nil, failSpan(span, err)
	}

	accounts, rejected, err := merge(ctx, logger, partitions, results)
	if err != nil {
		return nil, failSpan(span, err)
	}

	span.SetAttributes(
		attribute.Int(constant.AttrLedgerClients, len(accounts)),
		attribute.Int(constant.AttrLedgerRejected, rejected),
	)

	recordAccounts(ctx, logger, factory, accounts)

	logger.Log(ctx, log.LevelDebug, "client accounts processed",
		log.Int("accounts", len(accounts)),
		log.Int("records", len(records)),
		log.Int("rejected", rejected),
	)

	return accounts, nil
}

func (e *Engine) foldSequential(ctx context.Context, logger log.Logger, factory *metrics.MetricsFactory, partitions []Partition, results []partitionResult) error {
	for i, partition := range partitions {
		if err := ctx.Err(); err != nil {
			return err
		}

		// A recovered panic leaves the slot empty; merge reports it.
		func() {
			defer ledgerruntime.RecoverAndLog(ctx, logger, "ledger", "fold_sequential")

			results[i] = fold(ctx, logger, factory, partition)
		}()
	}

	return nil
}

func (e *Engine) foldParallel(ctx context.Context, logger log.Logger, factory *metrics.MetricsFactory, partitions []Partition, results []partitionResult) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLogger(logger)
	group.SetLimit(e.workers)

	for i, partition := range partitions {
		if groupCtx.Err() != nil {
			break
		}

		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			results[i] = fold(groupCtx, logger, factory, partition)

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	return ctx.Err()
}

// fold applies the records of one partition, in order, to a fresh account.
func fold(ctx context.Context, logger log.Logger, factory *metrics.MetricsFactory, partition Partition) partitionResult {
	start := time.Now()
	result := partitionResult{account: account.New(partition.Client)}

	for _, record := range partition.Records {
		if record.HasUnexpectedAmount() {
			logger.Log(ctx, log.LevelDebug, "unexpected amount in transaction", recordFields(record)...)
			trace.SpanFromContext(ctx).AddEvent(constant.EventUnexpectedAmount, trace.WithAttributes(
				attribute.String(constant.AttrKind, record.Kind.String()),
				attribute.Int(constant.AttrClient, int(record.Client)),
				attribute.Int64(constant.AttrTransactionID, int64(record.ID)),
			))
		}

		if err := result.account.Apply(record); err != nil {
			result.rejected++

			logger.Log(ctx, log.LevelDebug, "ignoring transaction", append(recordFields(record), log.Err(err))...)
			logMetricErr(ctx, logger, factory.RecordTransactionRejected(ctx, record.Kind.String(), string(transaction.CodeOf(err))))
			logMetricErr(ctx, logger, factory.RecordTransactionProcessed(ctx, record.Kind.String(), metrics.OutcomeRejected))

			continue
		}

		logMetricErr(ctx, logger, factory.RecordTransactionProcessed(ctx, record.Kind.String(), metrics.OutcomeApplied))
	}

	logMetricErr(ctx, logger, factory.RecordPartitionDuration(ctx, time.Since(start).Seconds()))

	return result
}

// merge moves the per-partition accounts into a write-once map.
func merge(ctx context.Context, logger log.Logger, partitions []Partition, results []partitionResult) (map[transaction.ClientID]*account.Account, int, error) {
	asserter := assert.New(ctx, logger, "ledger", "merge")
	accounts := make(map[transaction.ClientID]*account.Account, len(results))
	rejected := 0

	for i, result := range results {
		client := partitions[i].Client

		if err := asserter.NotNil(ctx, result.account, "partition produced no account", "client", client); err != nil {
			return nil, 0, err
		}

		if err := asserter.That(ctx, result.account.ClientID() == client, "account does not match its partition",
			"client", client, "account_client", result.account.ClientID()); err != nil {
			return nil, 0, err
		}

		if _, exists := accounts[client]; exists {
			if err := asserter.Never(ctx, "client merged twice", "client", client); err != nil {
				return nil, 0, err
			}
		}

		accounts[client] = result.account
		rejected += result.rejected
	}

	return accounts, rejected, nil
}

func recordAccounts(ctx context.Context, logger log.Logger, factory *metrics.MetricsFactory, accounts map[transaction.ClientID]*account.Account) {
	locked := 0

	for _, acc := range accounts {
		if acc.Locked() {
			locked++
		}
	}

	logMetricErr(ctx, logger, factory.RecordAccounts(ctx, int64(len(accounts)), int64(locked)))
}

func recordFields(record transaction.Record) []log.Field {
	fields := []log.Field{
		log.String("type", record.Kind.String()),
		log.Int("client", int(record.Client)),
		log.Uint64("tx", uint64(record.ID)),
	}

	if record.Amount != nil {
		fields = append(fields, log.String("amount", record.Amount.String()))
	}

	return fields
}

func logMetricErr(ctx context.Context, logger log.Logger, err error) {
	if err != nil {
		logger.Log(ctx, log.LevelWarn, "failed to record ledger metric", log.Err(err))
	}
}

func failSpan(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	return err
}
