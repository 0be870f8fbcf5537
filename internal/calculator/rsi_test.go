package calculator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TickerLens/internal/model"
)

func TestRSI_MonotonicRiseIs100(t *testing.T) {
	closes := ascending(10, 22)

	rsi, err := RSI(closes, DefaultRSIPeriod)
	require.NoError(t, err)
	require.Len(t, rsi, len(closes))

	for i := 0; i < DefaultRSIPeriod; i++ {
		assert.False(t, rsi[i].Valid, "index %d should be undefined", i)
	}
	for i := DefaultRSIPeriod; i < len(closes); i++ {
		require.True(t, rsi[i].Valid)
		assert.Equal(t, 100.0, rsi[i].Float64)
	}
}

func TestRSI_FlatSeriesHasNoLoss(t *testing.T) {
	closes := []float64{5, 5, 5, 5, 5}
	rsi, err := RSI(closes, 3)
	require.NoError(t, err)
	assert.Equal(t, 100.0, rsi[4].Float64)
}

func TestRSI_MonotonicFallIsZero(t *testing.T) {
	closes := []float64{10, 9, 8, 7, 6}
	rsi, err := RSI(closes, 3)
	require.NoError(t, err)
	assert.Equal(t, 0.0, rsi[3].Float64)
	assert.Equal(t, 0.0, rsi[4].Float64)
}

func TestRSI_BalancedMovesIs50(t *testing.T) {
	rsi, err := RSI([]float64{10, 11, 10}, 2)
	require.NoError(t, err)
	require.True(t, rsi[2].Valid)
	assert.InDelta(t, 50.0, rsi[2].Float64, 1e-12)
}

func TestRSI_StaysInBounds(t *testing.T) {
	closes := []float64{44.3, 44.1, 44.5, 43.6, 44.3, 44.8, 45.1, 45.4, 45.8, 46.1, 45.9, 46.3, 45.6, 46.3, 46.3, 46.0, 46.4, 46.2, 45.6, 46.2, 46.6, 46.9}
	rsi, err := RSI(closes, DefaultRSIPeriod)
	require.NoError(t, err)
	for i, v := range rsi {
		if !v.Valid {
			continue
		}
		assert.GreaterOrEqual(t, v.Float64, 0.0, "index %d", i)
		assert.LessOrEqual(t, v.Float64, 100.0, "index %d", i)
	}
}

func TestRSI_Errors(t *testing.T) {
	_, err := RSI(nil, 14)
	var ide *model.InsufficientDataError
	assert.True(t, errors.As(err, &ide))

	_, err = RSI([]float64{1, 2}, 0)
	assert.Error(t, err)
}
