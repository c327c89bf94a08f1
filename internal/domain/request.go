package domain

// Payment request lifecycle statuses. A request is created PENDING and
// transitions exactly once to a terminal state after a single submission
// attempt. Failed requests are never retried by this system; resubmission
// means creating a new request.
const (
	StatusPending          = "PENDING"
	StatusSubmittedSuccess = "SUCCESS_NOT_FINAL"
	StatusSubmittedFailure = "ERROR"
)

// PaymentRequest describes one XRP payment to be submitted to the ledger.
type PaymentRequest struct {
	// ID is an opaque identifier supplied by the origin (a database row id
	// or a generated uuid). Unique per request.
	ID string

	SourceAddress string
	// SourceSecret is the signing credential for the source account.
	// It must never be logged or persisted in outcome records.
	SourceSecret string

	DestinationAddress string
	// DestinationTag distinguishes sub-accounts behind one ledger address.
	// nil means the tag is omitted from the payment entirely; a pointer to
	// zero means tag 0 is set explicitly. The two are different ledger
	// semantics and must not be conflated.
	DestinationTag *uint32
	// SourceTag follows the same nil-versus-zero convention.
	SourceTag *uint32

	// Amount is the payment value in XRP, rounded to at most six fractional
	// digits before submission.
	Amount float64

	// Memo is an optional free-text annotation attached to the payment.
	Memo string

	// Kind is the transaction type label carried from the origin row
	// (PRIZE, FEE, DONATION, DEVOLUTION). Informational only.
	Kind string
}

// Outcome records the result of exactly one submission attempt for a request.
type Outcome struct {
	RequestID string

	// TransactionHash is set iff the submission was accepted with the
	// success result code.
	TransactionHash string

	// ResultCode is the raw engine result returned by the network, or an
	// error description when the attempt never reached the network. Opaque
	// beyond the success sentinel.
	ResultCode string

	// Status is the terminal request status derived from the attempt.
	Status string
}

// Succeeded reports whether the outcome carries an accepted transaction.
func (o Outcome) Succeeded() bool {
	return o.Status == StatusSubmittedSuccess
}
