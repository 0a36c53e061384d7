package risk

import (
	"fmt"
	"math"
	"sort"

	"github.com/bcdannyboy/qp/models"
)

// QuantileMethod selects how a quantile falling between two order statistics
// is resolved. The names follow numpy.quantile.
type QuantileMethod int

const (
	Linear QuantileMethod = iota
	Lower
	Higher
	Midpoint
	Nearest
)

func (m QuantileMethod) String() string {
	switch m {
	case Linear:
		return "linear"
	case Lower:
		return "lower"
	case Higher:
		return "higher"
	case Midpoint:
		return "midpoint"
	case Nearest:
		return "nearest"
	}
	return fmt.Sprintf("QuantileMethod(%d)", int(m))
}

func ParseQuantileMethod(s string) (QuantileMethod, error) {
	for _, m := range []QuantileMethod{Linear, Lower, Higher, Midpoint, Nearest} {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown quantile method %q", models.ErrInvalidParameter, s)
}

// Quantile returns the q-th quantile of sorted (ascending) data, placing it at
// position q*(n-1).
func Quantile(sorted []float64, q float64, method QuantileMethod) (float64, error) {
	if len(sorted) == 0 {
		return 0, fmt.Errorf("%w: quantile of empty sample", models.ErrInvalidParameter)
	}
	if !(q >= 0 && q <= 1) {
		return 0, fmt.Errorf("%w: quantile level must be in [0, 1], got %v", models.ErrInvalidParameter, q)
	}

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)

	switch method {
	case Linear:
		return sorted[lo] + frac*(sorted[hi]-sorted[lo]), nil
	case Lower:
		return sorted[lo], nil
	case Higher:
		return sorted[hi], nil
	case Midpoint:
		return 0.5 * (sorted[lo] + sorted[hi]), nil
	case Nearest:
		return sorted[int(math.RoundToEven(pos))], nil
	}
	return 0, fmt.Errorf("%w: unknown quantile method %d", models.ErrInvalidParameter, int(method))
}

// sortedLosses drops NaNs, flips returns into losses unless they already are
// losses, and sorts ascending.
func sortedLosses(returns []float64, inputIsLoss bool) []float64 {
	losses := make([]float64, 0, len(returns))
	for _, r := range returns {
		if math.IsNaN(r) {
			continue
		}
		if inputIsLoss {
			losses = append(losses, r)
		} else {
			losses = append(losses, -r)
		}
	}
	sort.Float64s(losses)
	return losses
}

// VaRHistorical is the one-period historical Value at Risk at the given
// confidence level, reported as a positive loss. With inputIsLoss the series
// is taken as losses already; otherwise it holds returns and is negated.
func VaRHistorical(returns []float64, level float64, inputIsLoss bool, method QuantileMethod) (float64, error) {
	losses := sortedLosses(returns, inputIsLoss)
	if len(losses) == 0 {
		return 0, fmt.Errorf("%w: no observations after dropping NaNs", models.ErrInvalidParameter)
	}
	v, err := Quantile(losses, level, method)
	if err != nil {
		return 0, err
	}
	if !models.IsFinite(v) {
		return 0, fmt.Errorf("%w: VaR is not finite", models.ErrInvalidParameter)
	}
	return v, nil
}

// ESHistorical is the expected shortfall: the mean of the losses at or
// beyond the historical VaR at the same level.
func ESHistorical(returns []float64, level float64, inputIsLoss bool, method QuantileMethod) (float64, error) {
	v, err := VaRHistorical(returns, level, inputIsLoss, method)
	if err != nil {
		return 0, err
	}

	losses := sortedLosses(returns, inputIsLoss)
	idx := sort.SearchFloat64s(losses, v)
	tail := losses[idx:]
	if len(tail) == 0 {
		// interpolation can round v just above the largest loss
		return v, nil
	}

	sum := 0.0
	for _, l := range tail {
		sum += l
	}
	return sum / float64(len(tail)), nil
}
