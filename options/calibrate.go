package options

import (
	"fmt"
	"math"

	"github.com/bcdannyboy/qp/models"
	"gonum.org/v1/gonum/optimize"
)

// CalibrationResult is the single volatility that best reprices a set of
// quotes and the mean squared pricing error it leaves.
type CalibrationResult struct {
	Volatility float64 `json:"volatility"`
	MSE        float64 `json:"mse"`
}

// CalibrateVolatility fits one Black-Scholes volatility to quotes sharing the
// same underlying and maturity.
func CalibrateVolatility(quotes []models.Quote, S, r, q, T, initialGuess float64) (CalibrationResult, error) {
	if len(quotes) == 0 {
		return CalibrationResult{}, fmt.Errorf("%w: no quotes to calibrate against", models.ErrInvalidParameter)
	}
	base := models.MarketParameters{Spot: S, Rate: r, Dividend: q, Maturity: T}
	for _, quote := range quotes {
		check := base
		check.Strike = quote.Strike
		if err := check.Validate(); err != nil {
			return CalibrationResult{}, err
		}
		if !models.IsFinite(quote.Price) || quote.Price < 0 {
			return CalibrationResult{}, fmt.Errorf("%w: quote price must be finite and >= 0, got %v", models.ErrInvalidParameter, quote.Price)
		}
	}
	if !(initialGuess > 0) || !models.IsFinite(initialGuess) {
		return CalibrationResult{}, fmt.Errorf("%w: initial guess must be > 0, got %v", models.ErrInvalidParameter, initialGuess)
	}

	// Pricing at |sigma| keeps the objective defined on the whole real line.
	objective := func(x []float64) float64 {
		p := base
		p.Volatility = math.Abs(x[0])
		mse := 0.0
		for _, quote := range quotes {
			p.Strike = quote.Strike
			price, err := BlackScholesPrice(p, quote.Type)
			if err != nil {
				return math.Inf(1)
			}
			mse += math.Pow(price-quote.Price, 2)
		}
		return mse / float64(len(quotes))
	}

	problem := optimize.Problem{Func: objective}
	result, err := optimize.Minimize(problem, []float64{initialGuess}, nil, &optimize.NelderMead{})
	if err != nil {
		return CalibrationResult{}, fmt.Errorf("%w: calibration failed: %v", models.ErrNumericalInstability, err)
	}

	sigma := math.Abs(result.X[0])
	return CalibrationResult{Volatility: sigma, MSE: objective([]float64{sigma})}, nil
}
