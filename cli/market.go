package cli

import (
	"github.com/bcdannyboy/qp/models"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type marketFlags struct {
	spot       float64
	strike     float64
	rate       float64
	dividend   float64
	vol        float64
	maturity   float64
	optionType string

	// commands that solve for volatility do not take it as input
	noVol bool
}

func (m *marketFlags) register(fs *pflag.FlagSet) {
	fs.Float64Var(&m.spot, "spot", 100, "spot price of the underlying")
	fs.Float64Var(&m.strike, "strike", 100, "strike price")
	fs.Float64Var(&m.rate, "rate", 0, "continuously compounded risk-free rate (config default when unset)")
	fs.Float64Var(&m.dividend, "dividend", 0, "continuous dividend yield (config default when unset)")
	if !m.noVol {
		fs.Float64Var(&m.vol, "vol", 0.2, "annualised volatility")
	}
	fs.Float64Var(&m.maturity, "maturity", 1, "time to expiry in years")
	fs.StringVar(&m.optionType, "type", "call", "option type: call or put")
}

// params fills rate and dividend from the config unless the flags were set.
func (a *app) params(cmd *cobra.Command, m *marketFlags) (models.MarketParameters, models.OptionType, error) {
	ot, err := models.ParseOptionType(m.optionType)
	if err != nil {
		return models.MarketParameters{}, 0, err
	}

	p := models.MarketParameters{
		Spot:       m.spot,
		Strike:     m.strike,
		Rate:       m.rate,
		Dividend:   m.dividend,
		Volatility: m.vol,
		Maturity:   m.maturity,
	}
	if !cmd.Flags().Changed("rate") {
		p.Rate = a.cfg.Rate
	}
	if !cmd.Flags().Changed("dividend") {
		p.Dividend = a.cfg.Dividend
	}
	return p, ot, p.Validate()
}
