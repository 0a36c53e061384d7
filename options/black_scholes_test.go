package options

import (
	"math"
	"testing"

	"github.com/bcdannyboy/qp/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func params(S, K, r, q, sigma, T float64) models.MarketParameters {
	return models.MarketParameters{Spot: S, Strike: K, Rate: r, Dividend: q, Volatility: sigma, Maturity: T}
}

func TestBlackScholesPrice_ReferenceCase(t *testing.T) {
	p := params(100, 100, 0.05, 0, 0.2, 1)

	call, err := BlackScholesPrice(p, models.Call)
	require.NoError(t, err)
	put, err := BlackScholesPrice(p, models.Put)
	require.NoError(t, err)

	assert.InDelta(t, 10.450583572185565, call, 1e-9)
	assert.InDelta(t, 5.573526022256971, put, 1e-9)
}

func TestBlackScholesPrice_PutCallParityWithDividends(t *testing.T) {
	S, K, r, q, sigma, T := 100.0, 100.0, 0.02, 0.01, 0.2, 1.0
	p := params(S, K, r, q, sigma, T)

	call, err := BlackScholesPrice(p, models.Call)
	require.NoError(t, err)
	put, err := BlackScholesPrice(p, models.Put)
	require.NoError(t, err)

	assert.InDelta(t, S*math.Exp(-q*T)-K*math.Exp(-r*T), call-put, 1e-6)
}

func TestBlackScholesPrice_DegenerateBranches(t *testing.T) {
	S, K, r, q, T := 100.0, 90.0, 0.02, 0.0, 1.0

	atExpiry, err := BlackScholesPrice(params(S, K, r, q, 0.2, 0), models.Call)
	require.NoError(t, err)
	assert.Equal(t, 10.0, atExpiry)

	putAtExpiry, err := BlackScholesPrice(params(S, K, r, q, 0.2, 0), models.Put)
	require.NoError(t, err)
	assert.Equal(t, 0.0, putAtExpiry)

	deterministic, err := BlackScholesPrice(params(S, K, r, q, 0, T), models.Call)
	require.NoError(t, err)
	assert.Equal(t, math.Max(S*math.Exp(-q*T)-K*math.Exp(-r*T), 0), deterministic)

	atTheMoney, err := BlackScholesPrice(params(100, 100, 0, 0, 0, 1), models.Call)
	require.NoError(t, err)
	assert.Equal(t, 0.0, atTheMoney)
}

func TestBlackScholesPrice_InvalidParameters(t *testing.T) {
	tests := []struct {
		name string
		p    models.MarketParameters
	}{
		{"zero spot", params(0, 100, 0.05, 0, 0.2, 1)},
		{"negative spot", params(-1, 100, 0.05, 0, 0.2, 1)},
		{"zero strike", params(100, 0, 0.05, 0, 0.2, 1)},
		{"negative volatility", params(100, 100, 0.05, 0, -0.1, 1)},
		{"negative maturity", params(100, 100, 0.05, 0, 0.2, -1)},
		{"nan rate", params(100, 100, math.NaN(), 0, 0.2, 1)},
		{"infinite dividend", params(100, 100, 0.05, math.Inf(1), 0.2, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BlackScholesPrice(tt.p, models.Call)
			assert.ErrorIs(t, err, models.ErrInvalidParameter)
		})
	}
}

func TestBlackScholesGreeks_GammaVegaMatchAcrossLegs(t *testing.T) {
	p := params(100, 100, 0.02, 0.01, 0.2, 1)

	gc, err := BlackScholesGreeks(p, models.Call)
	require.NoError(t, err)
	gp, err := BlackScholesGreeks(p, models.Put)
	require.NoError(t, err)

	assert.InDelta(t, gc.Gamma, gp.Gamma, 1e-12)
	assert.InDelta(t, gc.Vega, gp.Vega, 1e-12)
	// delta_call - delta_put = e^(-qT)
	assert.InDelta(t, math.Exp(-0.01), gc.Delta-gp.Delta, 1e-12)
}

func TestBlackScholesGreeks_MatchFiniteDifferences(t *testing.T) {
	base := params(100, 105, 0.03, 0.01, 0.25, 0.75)
	price := func(p models.MarketParameters, ot models.OptionType) float64 {
		v, err := BlackScholesPrice(p, ot)
		require.NoError(t, err)
		return v
	}

	for _, ot := range []models.OptionType{models.Call, models.Put} {
		t.Run(ot.String(), func(t *testing.T) {
			g, err := BlackScholesGreeks(base, ot)
			require.NoError(t, err)

			h := 1e-4
			up, down := base, base
			up.Spot += h
			down.Spot -= h
			assert.InDelta(t, (price(up, ot)-price(down, ot))/(2*h), g.Delta, 1e-6)
			assert.InDelta(t, (price(up, ot)-2*price(base, ot)+price(down, ot))/(h*h), g.Gamma, 1e-3)

			up, down = base, base
			up.Volatility += h
			down.Volatility -= h
			assert.InDelta(t, (price(up, ot)-price(down, ot))/(2*h), g.Vega, 1e-5)

			up, down = base, base
			up.Rate += h
			down.Rate -= h
			assert.InDelta(t, (price(up, ot)-price(down, ot))/(2*h), g.Rho, 1e-5)

			up, down = base, base
			up.Dividend += h
			down.Dividend -= h
			assert.InDelta(t, (price(up, ot)-price(down, ot))/(2*h), g.Phi, 1e-5)

			up, down = base, base
			up.Maturity += h
			down.Maturity -= h
			assert.InDelta(t, -(price(up, ot)-price(down, ot))/(2*h), g.Theta, 1e-5)
		})
	}
}

func TestBlackScholesGreeks_DegenerateAreZero(t *testing.T) {
	g, err := BlackScholesGreeks(params(110, 100, 0.05, 0, 0.2, 0), models.Call)
	require.NoError(t, err)
	assert.Equal(t, models.Greeks{Price: 10}, g)
}

func TestShadowGammaAndVomma(t *testing.T) {
	p := params(100, 100, 0.02, 0, 0.2, 0.5)

	up, down, err := ShadowGamma(p, models.Call, 0.01, 0.05)
	require.NoError(t, err)
	assert.True(t, models.IsFinite(up))
	assert.True(t, models.IsFinite(down))

	g, err := BlackScholesGreeks(p, models.Call)
	require.NoError(t, err)
	// With no vol bump the shadow gammas bracket the analytic gamma.
	upFlat, downFlat, err := ShadowGamma(p, models.Call, 0.001, 0)
	require.NoError(t, err)
	assert.InDelta(t, g.Gamma, upFlat, 1e-3)
	assert.InDelta(t, g.Gamma, downFlat, 1e-3)

	vomma, err := Vomma(p, models.Call, 0.01)
	require.NoError(t, err)
	assert.True(t, models.IsFinite(vomma))

	_, err = Vomma(p, models.Call, 0.5)
	assert.ErrorIs(t, err, models.ErrInvalidParameter)
}

func TestShadowGamma_RejectsBadBumps(t *testing.T) {
	p := params(100, 100, 0.02, 0, 0.2, 0.5)

	tests := []struct {
		name        string
		priceChange float64
		volChange   float64
	}{
		{"zero price bump", 0, 0.05},
		{"negative price bump", -0.01, 0.05},
		{"full price bump", 1, 0.05},
		{"full vol bump", 0.01, 1},
		{"negative vol bump", 0.01, -0.05},
		{"nan vol bump", 0.01, math.NaN()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ShadowGamma(p, models.Call, tt.priceChange, tt.volChange)
			assert.ErrorIs(t, err, models.ErrInvalidParameter)
		})
	}
}
