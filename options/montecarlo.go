package options

import (
	"fmt"
	"math"

	"github.com/bcdannyboy/qp/models"
	"golang.org/x/exp/rand"
)

type MonteCarloResult struct {
	Price         float64 `json:"price"`
	StandardError float64 `json:"standard_error"`
	Paths         int     `json:"paths"`
}

// MonteCarloPrice estimates the European price by sampling terminal spot
// under risk-neutral GBM. Each draw is paired with its antithetic so the
// estimator uses paths/2 independent normals. The same seed always gives the
// same result.
func MonteCarloPrice(p models.MarketParameters, optionType models.OptionType, paths int, seed uint64) (MonteCarloResult, error) {
	if err := p.Validate(); err != nil {
		return MonteCarloResult{}, err
	}
	if paths < 2 {
		return MonteCarloResult{}, fmt.Errorf("%w: paths must be >= 2, got %d", models.ErrInvalidParameter, paths)
	}
	if p.Maturity == 0 || p.Volatility == 0 {
		price, err := BlackScholesPrice(p, optionType)
		return MonteCarloResult{Price: price, Paths: paths}, err
	}

	rng := rand.New(rand.NewSource(seed))
	drift := (p.Rate - p.Dividend - 0.5*p.Volatility*p.Volatility) * p.Maturity
	diffusion := p.Volatility * math.Sqrt(p.Maturity)
	disc := math.Exp(-p.Rate * p.Maturity)

	pairs := paths / 2
	sum, sumSq := 0.0, 0.0
	for i := 0; i < pairs; i++ {
		z := rng.NormFloat64()
		upPayoff := optionType.Intrinsic(p.Spot*math.Exp(drift+diffusion*z), p.Strike)
		downPayoff := optionType.Intrinsic(p.Spot*math.Exp(drift-diffusion*z), p.Strike)
		pair := 0.5 * (upPayoff + downPayoff)
		sum += pair
		sumSq += pair * pair
	}

	n := float64(pairs)
	mean := sum / n
	variance := 0.0
	if pairs > 1 {
		variance = math.Max(sumSq/n-mean*mean, 0) * n / (n - 1)
	}

	price, err := checkFinite("monte carlo price", disc*mean)
	if err != nil {
		return MonteCarloResult{}, err
	}
	return MonteCarloResult{
		Price:         price,
		StandardError: disc * math.Sqrt(variance/n),
		Paths:         2 * pairs,
	}, nil
}
