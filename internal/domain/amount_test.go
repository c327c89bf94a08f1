package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAmount_FeeSubtraction(t *testing.T) {
	for _, mode := range []RoundingMode{RoundDown, RoundNearest} {
		got, err := NormalizeFloat(105.23, 0.12, mode)
		require.NoError(t, err)
		assert.Equal(t, "105.11", got)
	}
}

func TestNormalizeAmount_ModesDiverge(t *testing.T) {
	// The seventh fractional digit is where floor and nearest part ways.
	down, err := NormalizeAmount(decimal.RequireFromString("1.0000009"), decimal.Zero, RoundDown)
	require.NoError(t, err)
	assert.Equal(t, "1", down)

	nearest, err := NormalizeAmount(decimal.RequireFromString("1.0000009"), decimal.Zero, RoundNearest)
	require.NoError(t, err)
	assert.Equal(t, "1.000001", nearest)
}

func TestNormalizeAmount_SixDigitCap(t *testing.T) {
	got, err := NormalizeAmount(decimal.RequireFromString("0.1234567"), decimal.Zero, RoundDown)
	require.NoError(t, err)
	assert.Equal(t, "0.123456", got)
}

func TestNormalizeAmount_ZeroResult(t *testing.T) {
	got, err := NormalizeFloat(0.12, 0.12, RoundDown)
	require.NoError(t, err)
	assert.Equal(t, "0", got)
}

func TestNormalizeAmount_FeeExceedsAmount(t *testing.T) {
	_, err := NormalizeFloat(0.1, 0.2, RoundDown)
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, err = NormalizeFloat(0.1, 0.2, RoundNearest)
	require.ErrorIs(t, err, ErrInvalidAmount)
}
