package options

import (
	"fmt"
	"math"

	"github.com/bcdannyboy/qp/models"
)

// BinomialPrice prices an option on a Cox-Ross-Rubinstein lattice with the
// given number of steps. American options compare continuation against
// immediate exercise at every node.
//
// The lattice is held in a single buffer of steps+1 values indexed by the
// number of up moves and overwritten one layer at a time, so memory is O(N)
// while time is O(N^2).
func BinomialPrice(p models.MarketParameters, steps int, optionType models.OptionType, style models.ExerciseStyle) (float64, error) {
	if steps < 1 {
		return 0, fmt.Errorf("%w: steps must be >= 1, got %d", models.ErrInvalidParameter, steps)
	}
	if err := p.Validate(); err != nil {
		return 0, err
	}

	if p.Maturity == 0 {
		return optionType.Intrinsic(p.Spot, p.Strike), nil
	}
	if p.Volatility == 0 {
		return deterministicLatticePrice(p, steps, optionType, style)
	}

	dt := p.Maturity / float64(steps)
	u := math.Exp(p.Volatility * math.Sqrt(dt))
	d := 1 / u
	disc := math.Exp(-p.Rate * dt)
	prob := (math.Exp((p.Rate-p.Dividend)*dt) - d) / (u - d)
	if !(prob > 0 && prob < 1) {
		return 0, unstable("risk-neutral probability %v outside (0, 1) for dt=%v; increase steps", prob, dt)
	}

	american := style == models.American

	values := make([]float64, steps+1)
	var spots []float64
	if american {
		spots = make([]float64, steps+1)
	}

	// S_j = S * u^j * d^(N-j) = S * u^(2j-N)
	for j := 0; j <= steps; j++ {
		spot := p.Spot * math.Pow(u, float64(2*j-steps))
		values[j] = optionType.Intrinsic(spot, p.Strike)
		if american {
			spots[j] = spot
		}
	}

	// Ascending j is safe in place: node j reads j and j+1 of the previous
	// layer before j+1 is overwritten.
	for i := steps - 1; i >= 0; i-- {
		for j := 0; j <= i; j++ {
			cont := disc * (prob*values[j+1] + (1-prob)*values[j])
			if american {
				spots[j] = spots[j+1] * d
				values[j] = math.Max(cont, optionType.Intrinsic(spots[j], p.Strike))
			} else {
				values[j] = cont
			}
		}
	}

	return checkFinite("binomial price", values[0])
}

// deterministicLatticePrice handles sigma = 0, where u = d = 1 and the
// risk-neutral probability is undefined. The underlying follows
// S*exp((r-q)t) on the lattice dates.
func deterministicLatticePrice(p models.MarketParameters, steps int, optionType models.OptionType, style models.ExerciseStyle) (float64, error) {
	dt := p.Maturity / float64(steps)

	discounted := func(i int) float64 {
		t := float64(i) * dt
		spot := p.Spot * math.Exp((p.Rate-p.Dividend)*t)
		return math.Exp(-p.Rate*t) * optionType.Intrinsic(spot, p.Strike)
	}

	if style == models.European {
		return checkFinite("binomial price", discounted(steps))
	}

	best := 0.0
	for i := 0; i <= steps; i++ {
		best = math.Max(best, discounted(i))
	}
	return checkFinite("binomial price", best)
}
