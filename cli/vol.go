package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bcdannyboy/qp/volatility"
	"github.com/spf13/cobra"
)

func estimatorNames() []string {
	names := make([]string, 0, len(volatility.Estimators))
	for name := range volatility.Estimators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (a *app) newVolCmd() *cobra.Command {
	var (
		file      string
		estimator string
		periods   float64
	)
	cmd := &cobra.Command{
		Use:   "vol",
		Short: "Annualised historical volatility over trailing windows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			est, ok := volatility.Estimators[estimator]
			if !ok {
				return fmt.Errorf("unknown estimator %q, want one of %s", estimator, strings.Join(estimatorNames(), ", "))
			}
			bars, err := readBars(file)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("periods") {
				periods = a.cfg.PeriodsPerYear
			}

			byWindow, err := volatility.Windows(bars, est, volatility.DefaultWindows, periods)
			if err != nil {
				return err
			}
			full, err := est(bars, periods)
			if err != nil {
				return err
			}
			byWindow["all"] = full

			var rows [][]string
			for _, w := range volatility.DefaultWindows {
				if v, ok := byWindow[w.Name]; ok {
					rows = append(rows, []string{w.Name, fmt.Sprint(w.Days), num(v)})
				}
			}
			rows = append(rows, []string{"all", fmt.Sprint(len(bars)), num(full)})
			return a.render(byWindow, []string{"window", "bars", estimator}, rows)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "CSV file with date, open, high, low and close columns")
	cmd.Flags().StringVar(&estimator, "estimator", "yang-zhang", "estimator: "+strings.Join(estimatorNames(), ", "))
	cmd.Flags().Float64Var(&periods, "periods", volatility.TradingDaysPerYear, "bars per year")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
