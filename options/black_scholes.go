package options

import (
	"math"

	"github.com/bcdannyboy/qp/models"
)

// BlackScholesPrice returns the European price of a call or put under
// lognormal dynamics with continuous rate and dividend yield.
func BlackScholesPrice(p models.MarketParameters, optionType models.OptionType) (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	if price, ok := degeneratePrice(p, optionType); ok {
		return price, nil
	}

	d1, d2 := calculateD1D2(p)
	discR := math.Exp(-p.Rate * p.Maturity)
	discQ := math.Exp(-p.Dividend * p.Maturity)

	var price float64
	if optionType == models.Call {
		price = p.Spot*discQ*NormCDF(d1) - p.Strike*discR*NormCDF(d2)
	} else {
		price = p.Strike*discR*NormCDF(-d2) - p.Spot*discQ*NormCDF(-d1)
	}
	return checkFinite("black-scholes price", price)
}

// degeneratePrice covers T = 0 (intrinsic value) and sigma = 0 (discounted
// forward intrinsic), where d1 and d2 are undefined.
func degeneratePrice(p models.MarketParameters, optionType models.OptionType) (float64, bool) {
	if p.Maturity == 0 {
		return optionType.Intrinsic(p.Spot, p.Strike), true
	}
	if p.Volatility == 0 {
		fwd := p.Spot*math.Exp(-p.Dividend*p.Maturity) - p.Strike*math.Exp(-p.Rate*p.Maturity)
		if optionType == models.Call {
			return math.Max(fwd, 0), true
		}
		return math.Max(-fwd, 0), true
	}
	return 0, false
}

func calculateD1D2(p models.MarketParameters) (float64, float64) {
	volSqrtT := p.Volatility * math.Sqrt(p.Maturity)
	d1 := (math.Log(p.Spot/p.Strike) + (p.Rate-p.Dividend+0.5*p.Volatility*p.Volatility)*p.Maturity) / volSqrtT
	return d1, d1 - volSqrtT
}
