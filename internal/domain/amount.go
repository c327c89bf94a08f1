package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// xrpPrecision is the number of fractional digits the ledger accepts for
// native-currency values (1 drop = 10^-6 XRP).
const xrpPrecision = 6

// ErrInvalidAmount is returned when the fee-adjusted amount would be negative.
var ErrInvalidAmount = errors.New("invalid amount: fee exceeds amount")

// RoundingMode selects how a fee-adjusted amount is truncated to six digits.
// The batch processor floors so a payment can never exceed the funded value;
// the interactive tools round to nearest, matching their historical behavior.
// The two are not numerically equivalent and are deliberately kept separate
// per call site.
type RoundingMode int

const (
	// RoundDown truncates toward zero.
	RoundDown RoundingMode = iota
	// RoundNearest rounds half away from zero.
	RoundNearest
)

// NormalizeAmount converts a raw XRP amount and a per-transaction fee into
// the canonical decimal string the ledger expects: amount - fee, at most six
// fractional digits. The fee here is the quoted network fee subtracted from
// the delivered value, not the Fee field of the transaction itself.
func NormalizeAmount(amount, fee decimal.Decimal, mode RoundingMode) (string, error) {
	adjusted := amount.Sub(fee)
	if adjusted.IsNegative() {
		return "", fmt.Errorf("%w: amount %s, fee %s", ErrInvalidAmount, amount, fee)
	}

	switch mode {
	case RoundDown:
		adjusted = adjusted.RoundDown(xrpPrecision)
	default:
		adjusted = adjusted.Round(xrpPrecision)
	}
	return adjusted.String(), nil
}

// NormalizeFloat is a convenience wrapper for origins that carry amounts as
// floating point (database rows, CLI arguments).
func NormalizeFloat(amount, fee float64, mode RoundingMode) (string, error) {
	return NormalizeAmount(decimal.NewFromFloat(amount), decimal.NewFromFloat(fee), mode)
}
