package ledger

// XRP is the native currency code used on all amounts in this system.
const XRP = "XRP"

// ResultSuccess is the engine result code meaning the transaction was
// accepted for an inclusion attempt. Anything else is a rejection. Note that
// acceptance is provisional, not final settlement.
const ResultSuccess = "tesSUCCESS"

// MemoFormatText is the fixed format label attached to plain-text memos.
const MemoFormatText = "text/plain"

// Amount is a currency value as the ledger expects it: a decimal string with
// at most six fractional digits for XRP.
type Amount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// Source is the paying side of a payment. MaxAmount bounds what the source
// is willing to spend.
type Source struct {
	Address   string  `json:"address"`
	MaxAmount Amount  `json:"maxAmount"`
	Tag       *uint32 `json:"tag,omitempty"`
}

// Destination is the receiving side of a payment. A nil Tag omits the field
// from the wire form entirely; a pointer to zero sets tag 0 explicitly.
type Destination struct {
	Address string  `json:"address"`
	Amount  Amount  `json:"amount"`
	Tag     *uint32 `json:"tag,omitempty"`
}

// Memo is a free-text annotation carried inside a transaction.
type Memo struct {
	Data   string `json:"data"`
	Format string `json:"format"`
}

// Payment is the structured payment description handed to the client for
// preparation and signing.
type Payment struct {
	Source      Source      `json:"source"`
	Destination Destination `json:"destination"`
	Memos       []Memo      `json:"memos,omitempty"`
}

// Instructions are per-transaction submission parameters.
type Instructions struct {
	// MaxLedgerOffset is the number of ledger closes after the current one
	// for which the signed transaction stays valid. Past that window an
	// unconfirmed transaction is dropped by the network.
	MaxLedgerOffset uint32
}

// DefaultMaxLedgerOffset matches the window the payment scripts have always
// used: five ledger closes, roughly twenty seconds.
const DefaultMaxLedgerOffset = 5

// SignedTx is a prepared and signed transaction ready for submission.
type SignedTx struct {
	// Blob is the signed transaction in its serialized wire form.
	Blob string
	// Hash is the transaction identifier, computable before submission.
	Hash string
}

// SubmitResult is the immediate response to a submission attempt.
type SubmitResult struct {
	// EngineResult is the raw result code, e.g. "tesSUCCESS" or
	// "tecUNFUNDED_PAYMENT". Consumed opaquely beyond the success sentinel.
	EngineResult string
	// EngineResultMessage is the human-readable explanation, for reporting.
	EngineResultMessage string
}

// Accepted reports whether the submission was provisionally accepted.
func (r SubmitResult) Accepted() bool {
	return r.EngineResult == ResultSuccess
}
