package performance

import (
	"fmt"
	"math"

	"github.com/bcdannyboy/qp/models"
	"gonum.org/v1/gonum/stat"
)

const (
	DefaultPeriodsPerYear = 252
	DefaultDDOF           = 1
)

func dropNaN(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}

// meanStd returns the mean and the standard deviation with ddof delta degrees
// of freedom. ok is false when the deviation is undefined.
func meanStd(xs []float64, ddof int) (mean, std float64, ok bool) {
	n := len(xs)
	if n == 0 {
		return 0, 0, false
	}
	mean, popVar := stat.PopMeanVariance(xs, nil)
	if n-ddof <= 0 {
		return mean, 0, false
	}
	v := popVar * float64(n) / float64(n-ddof)
	std = math.Sqrt(v)
	return mean, std, models.IsFinite(std)
}

func annualisedRatio(excess []float64, periodsPerYear float64, ddof int) float64 {
	mean, std, ok := meanStd(excess, ddof)
	if !ok || std == 0 {
		return 0
	}
	return mean / std * math.Sqrt(periodsPerYear)
}

func checkAnnualisation(periodsPerYear float64, ddof int) error {
	if !(periodsPerYear > 0) || math.IsInf(periodsPerYear, 1) {
		return fmt.Errorf("%w: periods per year must be positive, got %v", models.ErrInvalidParameter, periodsPerYear)
	}
	if ddof < 0 {
		return fmt.Errorf("%w: ddof must be non-negative, got %d", models.ErrInvalidParameter, ddof)
	}
	return nil
}

// Sharpe is the annualised Sharpe ratio of periodic returns over a constant
// per-period risk-free rate. NaN returns are ignored; a zero or undefined
// standard deviation yields 0.
func Sharpe(returns []float64, riskFree, periodsPerYear float64, ddof int) (float64, error) {
	if err := checkAnnualisation(periodsPerYear, ddof); err != nil {
		return 0, err
	}
	r := dropNaN(returns)
	excess := make([]float64, len(r))
	for i, x := range r {
		excess[i] = x - riskFree
	}
	return annualisedRatio(excess, periodsPerYear, ddof), nil
}

// SharpeSeries is Sharpe with a time-varying risk-free rate. riskFree must
// have the same length as returns once NaN returns are removed.
func SharpeSeries(returns, riskFree []float64, periodsPerYear float64, ddof int) (float64, error) {
	if err := checkAnnualisation(periodsPerYear, ddof); err != nil {
		return 0, err
	}
	r := dropNaN(returns)
	if len(riskFree) != len(r) {
		return 0, fmt.Errorf("%w: risk-free series has %d values, returns have %d", models.ErrInvalidParameter, len(riskFree), len(r))
	}
	excess := make([]float64, 0, len(r))
	for i, x := range r {
		e := x - riskFree[i]
		if !math.IsNaN(e) {
			excess = append(excess, e)
		}
	}
	return annualisedRatio(excess, periodsPerYear, ddof), nil
}

// Sortino replaces the standard deviation in the Sharpe ratio with the
// downside deviation below the risk-free rate.
func Sortino(returns []float64, riskFree, periodsPerYear float64) (float64, error) {
	if err := checkAnnualisation(periodsPerYear, 0); err != nil {
		return 0, err
	}
	r := dropNaN(returns)
	if len(r) == 0 {
		return 0, nil
	}

	excess := make([]float64, len(r))
	downside := make([]float64, len(r))
	for i, x := range r {
		excess[i] = x - riskFree
		downside[i] = math.Min(excess[i], 0)
	}

	// downside deviation: sqrt(mean(min(excess, 0)^2))
	dd := math.Sqrt(stat.Mean(squares(downside), nil))
	if dd == 0 || !models.IsFinite(dd) {
		return 0, nil
	}
	return stat.Mean(excess, nil) / dd * math.Sqrt(periodsPerYear), nil
}

func squares(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = x * x
	}
	return out
}

// MaxDrawdown compounds the returns into an equity curve starting at 1 and
// reports the largest peak-to-trough decline as a positive fraction.
func MaxDrawdown(returns []float64) (float64, error) {
	r := dropNaN(returns)
	equity, peak, worst := 1.0, 1.0, 0.0
	for _, x := range r {
		if x <= -1 {
			return 0, fmt.Errorf("%w: return %v wipes out the position", models.ErrInvalidParameter, x)
		}
		equity *= 1 + x
		if equity > peak {
			peak = equity
		}
		if dd := (peak - equity) / peak; dd > worst {
			worst = dd
		}
	}
	return worst, nil
}
