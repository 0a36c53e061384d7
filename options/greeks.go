package options

import (
	"fmt"
	"math"

	"github.com/bcdannyboy/qp/models"
)

// BlackScholesGreeks returns the price together with its first order
// sensitivities. For T = 0 or sigma = 0 the sensitivities are reported as zero
// and Price carries the degenerate value.
func BlackScholesGreeks(p models.MarketParameters, optionType models.OptionType) (models.Greeks, error) {
	price, err := BlackScholesPrice(p, optionType)
	if err != nil {
		return models.Greeks{}, err
	}
	if p.Maturity == 0 || p.Volatility == 0 {
		return models.Greeks{Price: price}, nil
	}

	S, K, r, q, sigma, T := p.Spot, p.Strike, p.Rate, p.Dividend, p.Volatility, p.Maturity
	d1, d2 := calculateD1D2(p)
	sqrtT := math.Sqrt(T)
	discR := math.Exp(-r * T)
	discQ := math.Exp(-q * T)
	nd1 := NormPDF(d1)
	Nd1, Nd2 := NormCDF(d1), NormCDF(d2)

	g := models.Greeks{
		Price: price,
		Gamma: discQ * nd1 / (S * sigma * sqrtT),
		Vega:  S * discQ * nd1 * sqrtT,
	}

	decay := -S * discQ * nd1 * sigma / (2 * sqrtT)
	if optionType == models.Call {
		g.Delta = discQ * Nd1
		g.Theta = decay - r*K*discR*Nd2 + q*S*discQ*Nd1
		g.Rho = K * T * discR * Nd2
		g.Phi = -T * S * discQ * Nd1
	} else {
		g.Delta = discQ * (Nd1 - 1)
		g.Theta = decay + r*K*discR*(1-Nd2) - q*S*discQ*(1-Nd1)
		g.Rho = -K * T * discR * (1 - Nd2)
		g.Phi = T * S * discQ * (1 - Nd1)
	}

	for _, v := range []float64{g.Delta, g.Gamma, g.Vega, g.Theta, g.Rho, g.Phi} {
		if _, err := checkFinite("greek", v); err != nil {
			return models.Greeks{}, err
		}
	}
	return g, nil
}

// ShadowGamma measures how delta moves when spot and volatility are bumped
// together, the way they tend to move in a real market. priceChange and
// volChange are relative bumps (0.01 = 1%); priceChange must lie in (0, 1)
// and volChange in [0, 1).
func ShadowGamma(p models.MarketParameters, optionType models.OptionType, priceChange, volChange float64) (up, down float64, err error) {
	if !(priceChange > 0 && priceChange < 1) {
		return 0, 0, fmt.Errorf("%w: price bump %v must lie in (0, 1)", models.ErrInvalidParameter, priceChange)
	}
	if !(volChange >= 0 && volChange < 1) {
		return 0, 0, fmt.Errorf("%w: vol bump %v must lie in [0, 1)", models.ErrInvalidParameter, volChange)
	}

	base, err := BlackScholesGreeks(p, optionType)
	if err != nil {
		return 0, 0, err
	}

	upParams := p
	upParams.Spot = p.Spot * (1 + priceChange)
	upParams.Volatility = p.Volatility * (1 + volChange)
	upGreeks, err := BlackScholesGreeks(upParams, optionType)
	if err != nil {
		return 0, 0, err
	}

	downParams := p
	downParams.Spot = p.Spot * (1 - priceChange)
	downParams.Volatility = p.Volatility * (1 - volChange)
	downGreeks, err := BlackScholesGreeks(downParams, optionType)
	if err != nil {
		return 0, 0, err
	}

	if up, err = checkFinite("shadow gamma up", (upGreeks.Delta-base.Delta)/(upParams.Spot-p.Spot)); err != nil {
		return 0, 0, err
	}
	if down, err = checkFinite("shadow gamma down", (base.Delta-downGreeks.Delta)/(p.Spot-downParams.Spot)); err != nil {
		return 0, 0, err
	}
	return up, down, nil
}

// Vomma is the sensitivity of vega to volatility, by central difference.
func Vomma(p models.MarketParameters, optionType models.OptionType, volStep float64) (float64, error) {
	if volStep <= 0 || volStep >= p.Volatility {
		return 0, fmt.Errorf("%w: vol step %v must lie in (0, volatility)", models.ErrInvalidParameter, volStep)
	}

	up, down := p, p
	up.Volatility += volStep
	down.Volatility -= volStep

	gUp, err := BlackScholesGreeks(up, optionType)
	if err != nil {
		return 0, err
	}
	gDown, err := BlackScholesGreeks(down, optionType)
	if err != nil {
		return 0, err
	}
	return (gUp.Vega - gDown.Vega) / (2 * volStep), nil
}
