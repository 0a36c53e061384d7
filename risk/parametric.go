package risk

import (
	"fmt"

	"github.com/bcdannyboy/qp/models"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

func gaussianMoments(returns []float64, level float64) (mean, sd, z float64, err error) {
	if !(level > 0 && level < 1) {
		return 0, 0, 0, fmt.Errorf("%w: confidence level must be in (0, 1), got %v", models.ErrInvalidParameter, level)
	}

	clean := make(stats.Float64Data, 0, len(returns))
	for _, r := range returns {
		if models.IsFinite(r) {
			clean = append(clean, r)
		}
	}
	if len(clean) < 2 {
		return 0, 0, 0, fmt.Errorf("%w: need at least 2 finite returns, got %d", models.ErrInvalidParameter, len(clean))
	}

	mean, err = stats.Mean(clean)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to calculate mean: %w", err)
	}
	sd, err = stats.StandardDeviationSample(clean)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to calculate the standard deviation: %w", err)
	}
	return mean, sd, distuv.UnitNormal.Quantile(level), nil
}

// VaRParametric is the Gaussian VaR of the return series: z*sd - mean.
func VaRParametric(returns []float64, level float64) (float64, error) {
	mean, sd, z, err := gaussianMoments(returns, level)
	if err != nil {
		return 0, err
	}
	return z*sd - mean, nil
}

// ESParametric is the Gaussian expected shortfall: sd*phi(z)/(1-level) - mean.
func ESParametric(returns []float64, level float64) (float64, error) {
	mean, sd, z, err := gaussianMoments(returns, level)
	if err != nil {
		return 0, err
	}
	return sd*distuv.UnitNormal.Prob(z)/(1-level) - mean, nil
}
