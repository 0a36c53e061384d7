package options

import (
	"fmt"
	"math"

	"github.com/bcdannyboy/qp/models"
)

const (
	maxIterations = 100
	epsilon       = 1e-10

	minVolatility = 1e-6
	maxVolatility = 5.0
)

// ImpliedVolatility finds the volatility at which the Black-Scholes price of
// the option equals targetPrice. The Volatility field of p is ignored.
// Newton steps on vega are tried first; if they leave the search interval or
// stall, bisection takes over.
func ImpliedVolatility(targetPrice float64, p models.MarketParameters, optionType models.OptionType) (float64, error) {
	p.Volatility = 0
	if err := p.Validate(); err != nil {
		return 0, err
	}
	if !models.IsFinite(targetPrice) {
		return 0, fmt.Errorf("%w: target price must be finite, got %v", models.ErrInvalidParameter, targetPrice)
	}
	if p.Maturity == 0 {
		return 0, fmt.Errorf("%w: implied volatility is undefined at maturity", models.ErrInvalidParameter)
	}

	bounds, err := ParityBounds(p.Spot, p.Strike, p.Rate, p.Dividend, p.Maturity, optionType)
	if err != nil {
		return 0, err
	}
	if targetPrice <= bounds.Lower || targetPrice >= bounds.Upper {
		return 0, fmt.Errorf("%w: target price %v outside no-arbitrage bounds [%v, %v]",
			models.ErrInvalidParameter, targetPrice, bounds.Lower, bounds.Upper)
	}

	priceAt := func(sigma float64) (models.Greeks, error) {
		q := p
		q.Volatility = sigma
		return BlackScholesGreeks(q, optionType)
	}

	sigma := 0.5 // Initial guess
	for i := 0; i < maxIterations; i++ {
		g, err := priceAt(sigma)
		if err != nil {
			return 0, err
		}

		diff := g.Price - targetPrice
		if math.Abs(diff) < epsilon {
			return sigma, nil
		}
		if g.Vega < epsilon {
			break
		}

		next := sigma - diff/g.Vega
		if next <= minVolatility || next >= maxVolatility {
			break
		}
		sigma = next
	}

	return bisectVolatility(targetPrice, priceAt)
}

// bisectVolatility relies on the price being increasing in volatility.
func bisectVolatility(targetPrice float64, priceAt func(float64) (models.Greeks, error)) (float64, error) {
	lo, hi := minVolatility, maxVolatility

	gLo, err := priceAt(lo)
	if err != nil {
		return 0, err
	}
	gHi, err := priceAt(hi)
	if err != nil {
		return 0, err
	}
	if targetPrice < gLo.Price || targetPrice > gHi.Price {
		return 0, fmt.Errorf("%w: target price %v not bracketed by volatility in [%v, %v]",
			models.ErrNumericalInstability, targetPrice, lo, hi)
	}

	for i := 0; i < 4*maxIterations; i++ {
		mid := 0.5 * (lo + hi)
		g, err := priceAt(mid)
		if err != nil {
			return 0, err
		}
		diff := g.Price - targetPrice
		if math.Abs(diff) < epsilon || hi-lo < epsilon {
			return mid, nil
		}
		if diff > 0 {
			hi = mid
		} else {
			lo = mid
		}
	}
	return 0, fmt.Errorf("%w: implied volatility did not converge", models.ErrNumericalInstability)
}
