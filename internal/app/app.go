// Package app wires configuration, storage, the ledger client and the
// pipeline into the three runnable tools.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dvilelaf/zerppay/internal/config"
	"github.com/dvilelaf/zerppay/internal/domain"
	"github.com/dvilelaf/zerppay/internal/flood"
	"github.com/dvilelaf/zerppay/internal/ledger"
	"github.com/dvilelaf/zerppay/internal/observability"
	"github.com/dvilelaf/zerppay/internal/pipeline"
	"github.com/dvilelaf/zerppay/internal/storage"
)

func setup(production bool) (*config.Config, error) {
	cfg, err := config.Load(production)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	zap.ReplaceGlobals(logger)
	observability.Init()
	return cfg, nil
}

// Process runs the batch processor: load pending rows, submit them all on
// one session, write each outcome back. Per-request failures are recorded
// as data and do not fail the process; only setup and connection errors do.
func Process(ctx context.Context, production bool) error {
	cfg, err := setup(production)
	if err != nil {
		return err
	}
	if cfg.AccountAddress == "" || cfg.AccountSecret == "" {
		return fmt.Errorf("ACCOUNT_ADDRESS and ACCOUNT_SECRET are required for batch processing")
	}

	store, err := storage.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Init(ctx); err != nil {
		return err
	}

	pending, err := store.PendingPayments(ctx)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		zap.L().Info("no pending payments")
		return nil
	}
	for i := range pending {
		pending[i].SourceAddress = cfg.AccountAddress
		pending[i].SourceSecret = cfg.AccountSecret
	}

	submitter := pipeline.NewSubmitter(
		ledger.NewNodeClient(cfg.ServerURL),
		pipeline.WithPolicy(pipeline.ContinueOnError),
		pipeline.WithRounding(domain.RoundDown),
		pipeline.WithMaxLedgerOffset(cfg.MaxLedgerOffset),
	)
	outcomes, err := submitter.Run(ctx, pending)
	if err != nil {
		return err
	}

	store.RecordOutcomes(ctx, outcomes)
	return nil
}

// Send submits a single payment with the fail-fast policy: any adapter
// error aborts the process with a non-zero exit. The amount is passed
// through unadjusted; only rounding is applied.
func Send(ctx context.Context, sender, secret string, amount float64, destination string) error {
	cfg, err := setup(false)
	if err != nil {
		return err
	}

	zero := uint32(0)
	req := domain.PaymentRequest{
		ID:                 "send-" + time.Now().UTC().Format("20060102150405"),
		SourceAddress:      sender,
		SourceSecret:       secret,
		DestinationAddress: destination,
		// Tag 0 on both sides, explicitly. Omitting the tag is a different
		// payment on the wire.
		DestinationTag: &zero,
		SourceTag:      &zero,
		Amount:         amount,
	}

	submitter := pipeline.NewSubmitter(
		ledger.NewNodeClient(cfg.ServerURL),
		pipeline.WithPolicy(pipeline.FailFast),
		pipeline.WithRounding(domain.RoundNearest),
		pipeline.WithFeeAdjustment(false),
		pipeline.WithMaxLedgerOffset(cfg.MaxLedgerOffset),
	)
	outcomes, err := submitter.Run(ctx, []domain.PaymentRequest{req})
	if err != nil {
		return err
	}

	report(outcomes)
	return nil
}

// Flood generates randomized test payments from the bundled account pool
// and fires them at the test network. Nothing is persisted; outcomes are
// reported to the console.
func Flood(ctx context.Context) error {
	cfg, err := setup(false)
	if err != nil {
		return err
	}
	if cfg.AccountAddress == "" {
		return fmt.Errorf("ACCOUNT_ADDRESS is required as the flood destination")
	}

	accounts, err := flood.LoadAccounts(cfg.AccountsFile)
	if err != nil {
		return err
	}

	generator := flood.NewGenerator(accounts, cfg.AccountAddress, cfg.MaxParticipationRatio, time.Now().UnixNano())
	requests := generator.Requests(cfg.FloodSize)

	submitter := pipeline.NewSubmitter(
		ledger.NewNodeClient(cfg.ServerURL),
		pipeline.WithPolicy(pipeline.FailFast),
		pipeline.WithRounding(domain.RoundNearest),
		pipeline.WithMaxLedgerOffset(cfg.MaxLedgerOffset),
	)
	outcomes, err := submitter.Run(ctx, requests)
	if err != nil {
		return err
	}

	report(outcomes)
	return nil
}

// report prints the per-request hash or failure code, the user-visible
// result of the interactive tools.
func report(outcomes []domain.Outcome) {
	for _, o := range outcomes {
		if o.Succeeded() {
			fmt.Printf("%s %s\n", o.RequestID, o.TransactionHash)
			continue
		}
		code := o.ResultCode
		if code == "" {
			code = "null"
		}
		fmt.Printf("%s failed: %s\n", o.RequestID, code)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	switch strings.ToLower(level) {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}
