package domain

import (
	"github.com/dvilelaf/zerppay/internal/ledger"
)

// BuildPayment maps a request and its normalized amount to the payment shape
// the ledger client expects. The same value goes on both sides: the fee
// deduction already happened during normalization, nothing further is taken
// from the delivered amount. Pure function, no I/O.
func BuildPayment(req PaymentRequest, amount string) ledger.Payment {
	value := ledger.Amount{Value: amount, Currency: ledger.XRP}

	p := ledger.Payment{
		Source: ledger.Source{
			Address:   req.SourceAddress,
			MaxAmount: value,
			Tag:       req.SourceTag,
		},
		Destination: ledger.Destination{
			Address: req.DestinationAddress,
			Amount:  value,
			Tag:     req.DestinationTag,
		},
	}
	if req.Memo != "" {
		p.Memos = []ledger.Memo{{Data: req.Memo, Format: ledger.MemoFormatText}}
	}
	return p
}
