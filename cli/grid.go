package cli

import (
	"fmt"

	"github.com/bcdannyboy/qp/grid"
	"github.com/bcdannyboy/qp/models"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	mpb "github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"
)

func (a *app) newGridCmd() *cobra.Command {
	var (
		m          marketFlags
		strikes    []float64
		maturities []float64
		steps      int
		american   bool
		workers    int
		noProgress bool
	)
	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Price a strike by maturity surface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, ot, err := a.params(cmd, &m)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("workers") {
				workers = a.cfg.Workers
			}
			req := grid.Request{
				Base:       p,
				Type:       ot,
				Style:      models.European,
				Steps:      steps,
				Strikes:    strikes,
				Maturities: maturities,
			}
			if american {
				req.Style = models.American
				if steps == 0 {
					req.Steps = a.cfg.Steps
				}
			}
			if err := req.Validate(); err != nil {
				return err
			}
			if workers < 1 {
				workers = grid.DefaultWorkers()
			}
			log.WithFields(log.Fields{"points": req.Size(), "workers": workers}).Info("pricing grid")

			var progress func()
			var bars *mpb.Progress
			var bar *mpb.Bar
			if !noProgress {
				bars = mpb.New(mpb.WithWidth(64), mpb.WithOutput(a.errOut))
				bar = bars.AddBar(int64(req.Size()),
					mpb.PrependDecorators(
						decor.Name("Pricing"),
						decor.Percentage(decor.WCSyncSpace),
					),
					mpb.AppendDecorators(
						decor.CountersNoUnit("(%d / %d)", decor.WCSyncSpace),
					),
				)
				progress = bar.Increment
			}

			points, err := grid.Price(cmd.Context(), req, workers, progress)
			if bars != nil {
				if err != nil {
					bar.Abort(false)
				}
				bars.Wait()
			}
			if err != nil {
				return err
			}

			rows := make([][]string, len(points))
			for i, pt := range points {
				rows[i] = []string{num(pt.Maturity), num(pt.Strike), num(pt.Price)}
			}
			return a.render(points, []string{"maturity", "strike", fmt.Sprintf("%s price", req.Style)}, rows)
		},
	}
	m.register(cmd.Flags())
	cmd.Flags().Float64SliceVar(&strikes, "strikes", []float64{90, 95, 100, 105, 110}, "strikes to price")
	cmd.Flags().Float64SliceVar(&maturities, "maturities", []float64{0.25, 0.5, 1}, "maturities in years")
	cmd.Flags().IntVar(&steps, "steps", 0, "lattice steps; 0 prices European points in closed form")
	cmd.Flags().BoolVar(&american, "american", false, "allow early exercise (lattice)")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (physical cores when 0)")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "hide the progress bar")
	return cmd
}
