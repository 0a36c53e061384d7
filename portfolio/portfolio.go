package portfolio

import (
	"fmt"
	"math"

	"github.com/bcdannyboy/qp/models"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

func checkVector(name string, xs []float64) error {
	if len(xs) == 0 {
		return fmt.Errorf("%w: %s is empty", models.ErrInvalidParameter, name)
	}
	for i, x := range xs {
		if !models.IsFinite(x) {
			return fmt.Errorf("%w: %s[%d] is not finite", models.ErrInvalidParameter, name, i)
		}
	}
	return nil
}

// ExpectedReturn is the weighted sum of the per-asset mean returns.
func ExpectedReturn(weights, means []float64) (float64, error) {
	if err := checkVector("weights", weights); err != nil {
		return 0, err
	}
	if err := checkVector("means", means); err != nil {
		return 0, err
	}
	if len(weights) != len(means) {
		return 0, fmt.Errorf("%w: %d weights for %d assets", models.ErrInvalidParameter, len(weights), len(means))
	}
	return floats.Dot(weights, means), nil
}

// MeanReturns is the sample mean of each asset's return series.
func MeanReturns(returns [][]float64) ([]float64, error) {
	if len(returns) == 0 {
		return nil, fmt.Errorf("%w: no assets", models.ErrInvalidParameter)
	}
	means := make([]float64, len(returns))
	for i, series := range returns {
		if err := checkVector(fmt.Sprintf("returns[%d]", i), series); err != nil {
			return nil, err
		}
		means[i] = stat.Mean(series, nil)
	}
	return means, nil
}

// CovarianceMatrix estimates the sample covariance of per-asset return
// series. returns[i] is the series of asset i; all series must have the same
// length of at least 2.
func CovarianceMatrix(returns [][]float64) (*mat.SymDense, error) {
	if len(returns) == 0 {
		return nil, fmt.Errorf("%w: no assets", models.ErrInvalidParameter)
	}
	n := len(returns[0])
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 observations per asset, got %d", models.ErrInvalidParameter, n)
	}

	data := mat.NewDense(n, len(returns), nil)
	for j, series := range returns {
		if len(series) != n {
			return nil, fmt.Errorf("%w: asset %d has %d observations, want %d", models.ErrInvalidParameter, j, len(series), n)
		}
		if err := checkVector(fmt.Sprintf("returns[%d]", j), series); err != nil {
			return nil, err
		}
		data.SetCol(j, series)
	}

	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, data, nil)
	return &cov, nil
}

// Variance is w' Σ w.
func Variance(weights []float64, cov mat.Symmetric) (float64, error) {
	if err := checkVector("weights", weights); err != nil {
		return 0, err
	}
	if cov == nil || cov.SymmetricDim() != len(weights) {
		return 0, fmt.Errorf("%w: covariance dimension does not match %d weights", models.ErrInvalidParameter, len(weights))
	}
	w := mat.NewVecDense(len(weights), weights)
	v := mat.Inner(w, cov, w)
	if !models.IsFinite(v) || v < 0 {
		return 0, fmt.Errorf("%w: portfolio variance %v", models.ErrNumericalInstability, v)
	}
	return v, nil
}

// Volatility is the square root of the portfolio variance.
func Volatility(weights []float64, cov mat.Symmetric) (float64, error) {
	v, err := Variance(weights, cov)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(v), nil
}

// VaRParametric is the Gaussian one-period VaR of the weighted portfolio,
// z*sigma - mu, reported as a positive loss.
func VaRParametric(weights, means []float64, cov mat.Symmetric, level float64) (float64, error) {
	if !(level > 0 && level < 1) {
		return 0, fmt.Errorf("%w: confidence level must be in (0, 1), got %v", models.ErrInvalidParameter, level)
	}
	mu, err := ExpectedReturn(weights, means)
	if err != nil {
		return 0, err
	}
	sigma, err := Volatility(weights, cov)
	if err != nil {
		return 0, err
	}
	return distuv.UnitNormal.Quantile(level)*sigma - mu, nil
}
