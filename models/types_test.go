package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptionType(t *testing.T) {
	for in, want := range map[string]OptionType{"call": Call, "C": Call, " Put ": Put, "p": Put} {
		got, err := ParseOptionType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseOptionType("straddle")
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestMarketParameters_Validate(t *testing.T) {
	valid := MarketParameters{Spot: 100, Strike: 100, Rate: -0.01, Dividend: 0.02, Volatility: 0, Maturity: 0}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*MarketParameters)
	}{
		{"zero spot", func(p *MarketParameters) { p.Spot = 0 }},
		{"negative strike", func(p *MarketParameters) { p.Strike = -1 }},
		{"negative vol", func(p *MarketParameters) { p.Volatility = -0.1 }},
		{"negative maturity", func(p *MarketParameters) { p.Maturity = -1 }},
		{"nan rate", func(p *MarketParameters) { p.Rate = math.NaN() }},
		{"inf dividend", func(p *MarketParameters) { p.Dividend = math.Inf(1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			assert.ErrorIs(t, p.Validate(), ErrInvalidParameter)
		})
	}
}

func TestIntrinsic(t *testing.T) {
	assert.Equal(t, 10.0, Call.Intrinsic(110, 100))
	assert.Equal(t, 0.0, Call.Intrinsic(90, 100))
	assert.Equal(t, 10.0, Put.Intrinsic(90, 100))
	assert.Equal(t, 0.0, Put.Intrinsic(110, 100))
}

func TestBar_Validate(t *testing.T) {
	assert.NoError(t, Bar{Date: "2024-01-02", Open: 10, High: 11, Low: 9, Close: 10.5}.Validate())
	assert.ErrorIs(t, Bar{Open: 10, High: 9, Low: 11, Close: 10}.Validate(), ErrInvalidParameter)
	assert.ErrorIs(t, Bar{Open: 0, High: 11, Low: 9, Close: 10}.Validate(), ErrInvalidParameter)
}
