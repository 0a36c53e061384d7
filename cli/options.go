package cli

import (
	"fmt"

	"github.com/bcdannyboy/qp/models"
	"github.com/bcdannyboy/qp/options"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func (a *app) newBSCmd() *cobra.Command {
	var m marketFlags
	cmd := &cobra.Command{
		Use:   "bs",
		Short: "Black-Scholes price and Greeks of a European option",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, ot, err := a.params(cmd, &m)
			if err != nil {
				return err
			}
			g, err := options.BlackScholesGreeks(p, ot)
			if err != nil {
				return err
			}
			return a.fields(g,
				field("price", g.Price),
				field("delta", g.Delta),
				field("gamma", g.Gamma),
				field("vega", g.Vega),
				field("theta", g.Theta),
				field("rho", g.Rho),
				field("phi", g.Phi),
			)
		},
	}
	m.register(cmd.Flags())
	return cmd
}

type latticeResult struct {
	Style    string  `json:"style"`
	Steps    int     `json:"steps"`
	Price    float64 `json:"price"`
	European float64 `json:"european_closed_form"`
	Premium  float64 `json:"early_exercise_premium"`
}

func (a *app) newBinomialCmd() *cobra.Command {
	var (
		m        marketFlags
		steps    int
		american bool
	)
	cmd := &cobra.Command{
		Use:   "binomial",
		Short: "Cox-Ross-Rubinstein lattice price",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, ot, err := a.params(cmd, &m)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("steps") {
				steps = a.cfg.Steps
			}
			style := models.European
			if american {
				style = models.American
			}

			price, err := options.BinomialPrice(p, steps, ot, style)
			if err != nil {
				return err
			}
			european, err := options.BlackScholesPrice(p, ot)
			if err != nil {
				return err
			}
			log.WithFields(log.Fields{"steps": steps, "style": style}).Debug("lattice priced")

			res := latticeResult{Style: style.String(), Steps: steps, Price: price, European: european, Premium: price - european}
			return a.fields(res,
				kv{"style", res.Style},
				kv{"steps", fmt.Sprint(res.Steps)},
				field("price", res.Price),
				field("european closed form", res.European),
				field("early exercise premium", res.Premium),
			)
		},
	}
	m.register(cmd.Flags())
	cmd.Flags().IntVar(&steps, "steps", 0, "lattice steps (config default when unset)")
	cmd.Flags().BoolVar(&american, "american", false, "allow early exercise")
	return cmd
}

func (a *app) newMonteCarloCmd() *cobra.Command {
	var (
		m     marketFlags
		paths int
		seed  uint64
	)
	cmd := &cobra.Command{
		Use:   "mc",
		Short: "Monte Carlo price of a European option",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, ot, err := a.params(cmd, &m)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("paths") {
				paths = a.cfg.Paths
			}
			if !cmd.Flags().Changed("seed") {
				seed = a.cfg.Seed
			}

			res, err := options.MonteCarloPrice(p, ot, paths, seed)
			if err != nil {
				return err
			}
			return a.fields(res,
				field("price", res.Price),
				field("standard error", res.StandardError),
				kv{"paths", fmt.Sprint(res.Paths)},
			)
		},
	}
	m.register(cmd.Flags())
	cmd.Flags().IntVar(&paths, "paths", 0, "number of simulated paths (config default when unset)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (config default when unset)")
	return cmd
}

type parityResult struct {
	Call       float64        `json:"call"`
	Put        float64        `json:"put"`
	Gap        *float64       `json:"gap,omitempty"`
	CallBounds options.Bounds `json:"call_bounds"`
	PutBounds  options.Bounds `json:"put_bounds"`
}

func (a *app) newParityCmd() *cobra.Command {
	var (
		m         marketFlags
		call, put float64
	)
	m.noVol = true
	cmd := &cobra.Command{
		Use:   "parity",
		Short: "Put-call parity: derive the missing leg or measure the gap",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, _, err := a.params(cmd, &m)
			if err != nil {
				return err
			}
			hasCall, hasPut := cmd.Flags().Changed("call"), cmd.Flags().Changed("put")

			var res parityResult
			switch {
			case hasCall && hasPut:
				gap, err := options.ParityGap(call, put, p.Spot, p.Strike, p.Rate, p.Dividend, p.Maturity)
				if err != nil {
					return err
				}
				res.Call, res.Put, res.Gap = call, put, &gap
			case hasCall:
				res.Call = call
				if res.Put, err = options.PutFromCall(call, p.Spot, p.Strike, p.Rate, p.Dividend, p.Maturity); err != nil {
					return err
				}
			case hasPut:
				res.Put = put
				if res.Call, err = options.CallFromPut(put, p.Spot, p.Strike, p.Rate, p.Dividend, p.Maturity); err != nil {
					return err
				}
			default:
				return fmt.Errorf("%w: give --call, --put or both", models.ErrInvalidParameter)
			}

			if res.CallBounds, err = options.ParityBounds(p.Spot, p.Strike, p.Rate, p.Dividend, p.Maturity, models.Call); err != nil {
				return err
			}
			if res.PutBounds, err = options.ParityBounds(p.Spot, p.Strike, p.Rate, p.Dividend, p.Maturity, models.Put); err != nil {
				return err
			}

			pairs := []kv{field("call", res.Call), field("put", res.Put)}
			if res.Gap != nil {
				pairs = append(pairs, field("parity gap", *res.Gap))
			}
			pairs = append(pairs,
				kv{"call bounds", fmt.Sprintf("[%s, %s]", num(res.CallBounds.Lower), num(res.CallBounds.Upper))},
				kv{"put bounds", fmt.Sprintf("[%s, %s]", num(res.PutBounds.Lower), num(res.PutBounds.Upper))},
			)
			return a.fields(res, pairs...)
		},
	}
	m.register(cmd.Flags())
	cmd.Flags().Float64Var(&call, "call", 0, "observed call price")
	cmd.Flags().Float64Var(&put, "put", 0, "observed put price")
	return cmd
}

type ivResult struct {
	Price             float64 `json:"price"`
	ImpliedVolatility float64 `json:"implied_volatility"`
}

func (a *app) newIVCmd() *cobra.Command {
	var (
		m     marketFlags
		price float64
	)
	m.noVol = true
	cmd := &cobra.Command{
		Use:   "iv",
		Short: "Implied volatility of a European option price",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, ot, err := a.params(cmd, &m)
			if err != nil {
				return err
			}
			iv, err := options.ImpliedVolatility(price, p, ot)
			if err != nil {
				return err
			}
			res := ivResult{Price: price, ImpliedVolatility: iv}
			return a.fields(res, field("price", res.Price), field("implied volatility", res.ImpliedVolatility))
		},
	}
	m.register(cmd.Flags())
	cmd.Flags().Float64Var(&price, "price", 0, "observed option price")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

func (a *app) newCalibrateCmd() *cobra.Command {
	var (
		m     marketFlags
		file  string
		guess float64
	)
	m.noVol = true
	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Fit one volatility to a CSV of quotes (type,strike,price)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, _, err := a.params(cmd, &m)
			if err != nil {
				return err
			}
			quotes, err := readQuotes(file)
			if err != nil {
				return err
			}
			res, err := options.CalibrateVolatility(quotes, p.Spot, p.Rate, p.Dividend, p.Maturity, guess)
			if err != nil {
				return err
			}
			log.WithFields(log.Fields{"quotes": len(quotes), "mse": res.MSE}).Info("calibrated volatility")
			return a.fields(res, field("volatility", res.Volatility), field("mse", res.MSE))
		},
	}
	m.register(cmd.Flags())
	cmd.Flags().StringVar(&file, "file", "", "CSV file with type, strike and price columns")
	cmd.Flags().Float64Var(&guess, "guess", 0.2, "starting volatility")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
