package cli

import (
	"io"
	"os"

	"github.com/bcdannyboy/qp/config"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type app struct {
	cfg *config.Config

	configPath string
	envFile    string
	output     string
	logLevel   string

	out    io.Writer
	errOut io.Writer
}

// NewRootCmd builds the qp command tree writing results to out and progress
// to errOut.
func NewRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "qp",
		Short: "Quantitative finance primer",
		Long: `qp prices options and measures risk from the command line.

Pricing:
  bs         Black-Scholes price and Greeks
  binomial   CRR lattice price, European or American
  mc         Monte Carlo price with standard error
  grid       strike by maturity price surface
  parity     put-call parity conversions and bounds
  iv         implied volatility of a quoted price
  calibrate  single volatility fitted to a quote file

Risk and performance:
  var        historical or parametric VaR and expected shortfall
  sharpe     Sharpe, Sortino and max drawdown of a return series
  portfolio  weighted portfolio volatility and VaR
  bond       bond price, durations, convexity and yield
  vol        historical volatility from OHLC bars`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML config file")
	flags.StringVar(&a.envFile, "env-file", config.DefaultEnvFile, "dotenv file loaded before the config")
	flags.StringVarP(&a.output, "output", "o", "", "output format: table or json")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(
		a.newBSCmd(),
		a.newBinomialCmd(),
		a.newMonteCarloCmd(),
		a.newGridCmd(),
		a.newParityCmd(),
		a.newIVCmd(),
		a.newCalibrateCmd(),
		a.newVaRCmd(),
		a.newSharpeCmd(),
		a.newPortfolioCmd(),
		a.newBondCmd(),
		a.newVolCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.envFile, a.configPath)
	if err != nil {
		return err
	}
	if a.output != "" {
		cfg.Output = a.output
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.SetupLogging(); err != nil {
		return err
	}
	a.cfg = cfg

	log.WithFields(log.Fields{
		"command": cmd.Name(),
		"output":  cfg.Output,
	}).Debug("configuration loaded")
	return nil
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	if err := NewRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		log.WithError(err).Error("qp failed")
		return 1
	}
	return 0
}
