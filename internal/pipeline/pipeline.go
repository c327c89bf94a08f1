// Package pipeline drives batches of payment requests through the ledger
// client one at a time and classifies each outcome.
package pipeline

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dvilelaf/zerppay/internal/domain"
	"github.com/dvilelaf/zerppay/internal/ledger"
	"github.com/dvilelaf/zerppay/internal/observability"
)

// Policy controls what a request-level error does to the rest of the batch.
type Policy int

const (
	// ContinueOnError records a failure outcome for the request and moves
	// on. Used by the batch processor.
	ContinueOnError Policy = iota
	// FailFast aborts the whole run on the first request-level error. Used
	// by the interactive tools.
	FailFast
)

// Submitter processes payment requests strictly sequentially against one
// shared ledger session. It must be the sole submitter for a given source
// account within a run: the account's sequence numbers have to be consumed
// in increasing order, so concurrent runs against the same account must be
// serialized by the caller.
type Submitter struct {
	client          ledger.Client
	policy          Policy
	rounding        domain.RoundingMode
	maxLedgerOffset uint32
	feeAdjusted     bool
}

// Option configures a Submitter.
type Option func(*Submitter)

// WithPolicy sets the batch error policy.
func WithPolicy(p Policy) Option {
	return func(s *Submitter) { s.policy = p }
}

// WithRounding sets the amount rounding mode for fee adjustment.
func WithRounding(m domain.RoundingMode) Option {
	return func(s *Submitter) { s.rounding = m }
}

// WithMaxLedgerOffset sets the validity window of each prepared transaction.
func WithMaxLedgerOffset(n uint32) Option {
	return func(s *Submitter) { s.maxLedgerOffset = n }
}

// WithFeeAdjustment controls whether the quoted network fee is subtracted
// from each amount. The one-off send tool passes amounts through as given;
// everything else deducts the fee from the delivered value.
func WithFeeAdjustment(enabled bool) Option {
	return func(s *Submitter) { s.feeAdjusted = enabled }
}

// NewSubmitter creates a Submitter over an unconnected client. Run owns the
// session lifecycle.
func NewSubmitter(client ledger.Client, opts ...Option) *Submitter {
	s := &Submitter{
		client:          client,
		policy:          ContinueOnError,
		rounding:        domain.RoundDown,
		maxLedgerOffset: ledger.DefaultMaxLedgerOffset,
		feeAdjusted:     true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run connects, takes one fee quote for the whole batch, submits every
// request in input order and returns one outcome per request, order
// preserved. The fee is deliberately not re-queried per request; the
// staleness is accepted for simplicity. The session is released on every
// exit path. A non-nil error means the run aborted and the returned
// outcomes are incomplete.
func (s *Submitter) Run(ctx context.Context, requests []domain.PaymentRequest) ([]domain.Outcome, error) {
	if err := s.client.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer s.client.Disconnect()

	fee, err := s.client.CurrentFee(ctx)
	if err != nil {
		return nil, fmt.Errorf("fee quote: %w", err)
	}
	feeValue, _ := fee.Float64()
	observability.SetQuotedFee(feeValue)
	zap.L().Info("processing payment batch",
		zap.Int("requests", len(requests)),
		zap.String("fee_xrp", fee.String()),
	)

	outcomes := make([]domain.Outcome, 0, len(requests))
	for _, req := range requests {
		outcome, err := s.submitOne(ctx, req, fee)
		if err != nil {
			if s.policy == FailFast {
				return nil, fmt.Errorf("request %s: %w", req.ID, err)
			}
			zap.L().Error("payment submission failed",
				zap.String("request_id", req.ID),
				zap.String("destination", req.DestinationAddress),
				zap.Error(err),
			)
			outcome = domain.Outcome{
				RequestID:  req.ID,
				ResultCode: err.Error(),
				Status:     domain.StatusSubmittedFailure,
			}
		}
		if outcome.Succeeded() {
			observability.IncrementSubmission("success")
		} else {
			observability.IncrementSubmission("failure")
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// submitOne performs the single submission attempt for a request. A non-nil
// error covers normalization and adapter failures; a deterministic network
// rejection is not an error, it comes back as a failure outcome under both
// policies.
func (s *Submitter) submitOne(ctx context.Context, req domain.PaymentRequest, fee decimal.Decimal) (domain.Outcome, error) {
	if !s.feeAdjusted {
		fee = decimal.Zero
	}
	amount, err := domain.NormalizeAmount(decimal.NewFromFloat(req.Amount), fee, s.rounding)
	if err != nil {
		return domain.Outcome{}, err
	}
	payment := domain.BuildPayment(req, amount)

	zap.L().Info("sending payment",
		zap.String("request_id", req.ID),
		zap.String("amount_xrp", amount),
		zap.String("destination", req.DestinationAddress),
	)

	signed, err := s.client.PrepareAndSign(ctx, payment, req.SourceSecret, ledger.Instructions{
		MaxLedgerOffset: s.maxLedgerOffset,
	})
	if err != nil {
		return domain.Outcome{}, err
	}

	result, err := s.client.Submit(ctx, signed.Blob)
	if err != nil {
		return domain.Outcome{}, err
	}

	if !result.Accepted() {
		zap.L().Warn("payment rejected",
			zap.String("request_id", req.ID),
			zap.String("result_code", result.EngineResult),
			zap.String("result_message", result.EngineResultMessage),
		)
		return domain.Outcome{
			RequestID:  req.ID,
			ResultCode: result.EngineResult,
			Status:     domain.StatusSubmittedFailure,
		}, nil
	}

	return domain.Outcome{
		RequestID:       req.ID,
		TransactionHash: signed.Hash,
		ResultCode:      result.EngineResult,
		Status:          domain.StatusSubmittedSuccess,
	}, nil
}
