package cli

import (
	"fmt"

	"github.com/bcdannyboy/qp/performance"
	"github.com/bcdannyboy/qp/portfolio"
	"github.com/bcdannyboy/qp/risk"
	"github.com/spf13/cobra"
)

type varResult struct {
	Method string   `json:"method"`
	Level  float64  `json:"level"`
	VaR    float64  `json:"var"`
	ES     *float64 `json:"es,omitempty"`
}

func (a *app) newVaRCmd() *cobra.Command {
	var (
		file        string
		level       float64
		method      string
		inputIsLoss bool
		withES      bool
		parametric  bool
	)
	cmd := &cobra.Command{
		Use:   "var",
		Short: "Value at Risk and expected shortfall of a return series",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			returns, err := readReturns(file)
			if err != nil {
				return err
			}

			res := varResult{Level: level}
			if parametric {
				res.Method = "gaussian"
				if res.VaR, err = risk.VaRParametric(returns, level); err != nil {
					return err
				}
				if withES {
					es, err := risk.ESParametric(returns, level)
					if err != nil {
						return err
					}
					res.ES = &es
				}
			} else {
				if !cmd.Flags().Changed("method") {
					method = a.cfg.QuantileMethod
				}
				qm, err := risk.ParseQuantileMethod(method)
				if err != nil {
					return err
				}
				res.Method = "historical " + qm.String()
				if res.VaR, err = risk.VaRHistorical(returns, level, inputIsLoss, qm); err != nil {
					return err
				}
				if withES {
					es, err := risk.ESHistorical(returns, level, inputIsLoss, qm)
					if err != nil {
						return err
					}
					res.ES = &es
				}
			}

			pairs := []kv{{"method", res.Method}, field("level", res.Level), field("VaR", res.VaR)}
			if res.ES != nil {
				pairs = append(pairs, field("ES", *res.ES))
			}
			return a.fields(res, pairs...)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "CSV file with a return column")
	cmd.Flags().Float64Var(&level, "level", 0.99, "confidence level")
	cmd.Flags().StringVar(&method, "method", "linear", "quantile method: linear, lower, higher, midpoint or nearest")
	cmd.Flags().BoolVar(&inputIsLoss, "loss", false, "the column already holds losses")
	cmd.Flags().BoolVar(&withES, "es", false, "also report expected shortfall")
	cmd.Flags().BoolVar(&parametric, "parametric", false, "use the Gaussian model instead of the empirical quantile")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

type performanceResult struct {
	Sharpe      float64 `json:"sharpe"`
	Sortino     float64 `json:"sortino"`
	MaxDrawdown float64 `json:"max_drawdown"`
}

func (a *app) newSharpeCmd() *cobra.Command {
	var (
		file    string
		rf      float64
		periods float64
		ddof    int
	)
	cmd := &cobra.Command{
		Use:   "sharpe",
		Short: "Annualised Sharpe and Sortino ratios and max drawdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			returns, err := readReturns(file)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("periods") {
				periods = a.cfg.PeriodsPerYear
			}

			var res performanceResult
			if res.Sharpe, err = performance.Sharpe(returns, rf, periods, ddof); err != nil {
				return err
			}
			if res.Sortino, err = performance.Sortino(returns, rf, periods); err != nil {
				return err
			}
			if res.MaxDrawdown, err = performance.MaxDrawdown(returns); err != nil {
				return err
			}
			return a.fields(res,
				field("sharpe", res.Sharpe),
				field("sortino", res.Sortino),
				field("max drawdown", res.MaxDrawdown),
			)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "CSV file with a return column")
	cmd.Flags().Float64Var(&rf, "rf", 0, "risk-free rate per period")
	cmd.Flags().Float64Var(&periods, "periods", performance.DefaultPeriodsPerYear, "periods per year")
	cmd.Flags().IntVar(&ddof, "ddof", performance.DefaultDDOF, "delta degrees of freedom of the standard deviation")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

type portfolioResult struct {
	ExpectedReturn float64 `json:"expected_return"`
	Volatility     float64 `json:"volatility"`
	VaR            float64 `json:"var"`
	Level          float64 `json:"level"`
}

func (a *app) newPortfolioCmd() *cobra.Command {
	var (
		file    string
		assets  []string
		weights []float64
		level   float64
	)
	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Expected return, volatility and Gaussian VaR of a weighted portfolio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(assets) != len(weights) {
				return fmt.Errorf("%d assets but %d weights", len(assets), len(weights))
			}
			series, err := readColumns(file, assets)
			if err != nil {
				return err
			}

			means, err := portfolio.MeanReturns(series)
			if err != nil {
				return err
			}
			cov, err := portfolio.CovarianceMatrix(series)
			if err != nil {
				return err
			}

			res := portfolioResult{Level: level}
			if res.ExpectedReturn, err = portfolio.ExpectedReturn(weights, means); err != nil {
				return err
			}
			if res.Volatility, err = portfolio.Volatility(weights, cov); err != nil {
				return err
			}
			if res.VaR, err = portfolio.VaRParametric(weights, means, cov, level); err != nil {
				return err
			}
			return a.fields(res,
				field("expected return", res.ExpectedReturn),
				field("volatility", res.Volatility),
				field("VaR", res.VaR),
				field("level", res.Level),
			)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "CSV file with one return column per asset")
	cmd.Flags().StringSliceVar(&assets, "assets", nil, "asset columns to read")
	cmd.Flags().Float64SliceVar(&weights, "weights", nil, "portfolio weights, one per asset")
	cmd.Flags().Float64Var(&level, "level", 0.99, "confidence level")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("assets")
	_ = cmd.MarkFlagRequired("weights")
	return cmd
}
