package ledger

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// Error taxonomy for client operations. Callers classify with errors.Is.
var (
	// ErrConnection covers session establishment and fee-query failures.
	// Connection-level errors abort the whole run.
	ErrConnection = errors.New("ledger: connection error")
	// ErrValidation means the payment was rejected as malformed before
	// signing. Deterministic, request-level.
	ErrValidation = errors.New("ledger: validation error")
	// ErrSigning means the signing credential was rejected.
	ErrSigning = errors.New("ledger: signing error")
	// ErrNetwork is a transport failure during submit. Ambiguous: the
	// transaction may have reached the network despite the error. Recorded
	// as failure; there is no reconciliation step.
	ErrNetwork = errors.New("ledger: network error")
)

// Client is the boundary to the XRP Ledger node. Everything protocol-level
// (serialization, signing, fee and sequence autofill) happens behind it.
type Client interface {
	// Connect establishes the session.
	Connect(ctx context.Context) error

	// CurrentFee returns the open-ledger fee in XRP.
	CurrentFee(ctx context.Context) (decimal.Decimal, error)

	// PrepareAndSign validates and signs a payment, returning the signed
	// blob and its precomputed transaction hash.
	PrepareAndSign(ctx context.Context, payment Payment, secret string, instr Instructions) (*SignedTx, error)

	// Submit sends a signed blob to the network and returns the immediate
	// engine result.
	Submit(ctx context.Context, blob string) (*SubmitResult, error)

	// Disconnect releases the session. Best effort; implementations log
	// failures instead of returning them.
	Disconnect()
}
