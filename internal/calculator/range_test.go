package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TickerLens/internal/model"
)

func TestPeriodRange(t *testing.T) {
	bars := []model.OHLCV{
		{High: 12, Low: 9, Close: 10},
		{High: 15, Low: 11, Close: 14},
		{High: 13, Low: 8, Close: 11.5},
	}
	r, err := PeriodRange(bars)
	require.NoError(t, err)
	assert.Equal(t, 15.0, r.High)
	assert.Equal(t, 8.0, r.Low)
	assert.Equal(t, 0.5, r.Position)

	_, err = PeriodRange(nil)
	var ide *model.InsufficientDataError
	assert.ErrorAs(t, err, &ide)
}

func TestPeriodRange_Position(t *testing.T) {
	tests := []struct {
		name string
		bars []model.OHLCV
		want float64
	}{
		{"at high", []model.OHLCV{{High: 16, Low: 8, Close: 9}, {High: 16, Low: 10, Close: 16}}, 1},
		{"at low", []model.OHLCV{{High: 16, Low: 8, Close: 15}, {High: 12, Low: 8, Close: 8}}, 0},
		{"close above bar high is clamped", []model.OHLCV{{High: 16, Low: 8, Close: 20}}, 1},
		{"close below bar low is clamped", []model.OHLCV{{High: 16, Low: 8, Close: 2}}, 0},
		{"flat window", []model.OHLCV{{High: 5, Low: 5, Close: 5}, {High: 5, Low: 5, Close: 5}}, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := PeriodRange(tt.bars)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Position)
		})
	}
}
