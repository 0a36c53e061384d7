package cli

import (
	"github.com/bcdannyboy/qp/fixedincome"
	"github.com/spf13/cobra"
)

type bondResult struct {
	YTM              float64 `json:"ytm"`
	Price            float64 `json:"price"`
	MacaulayDuration float64 `json:"macaulay_duration"`
	ModifiedDuration float64 `json:"modified_duration"`
	DollarDuration   float64 `json:"dollar_duration"`
	Convexity        float64 `json:"convexity"`
}

func analyseBond(b fixedincome.Bond, ytm float64) (bondResult, error) {
	res := bondResult{YTM: ytm}
	var err error
	if res.Price, err = b.Price(ytm); err != nil {
		return res, err
	}
	if res.MacaulayDuration, err = b.MacaulayDuration(ytm); err != nil {
		return res, err
	}
	if res.ModifiedDuration, err = b.ModifiedDuration(ytm); err != nil {
		return res, err
	}
	if res.DollarDuration, err = b.DollarDuration(ytm); err != nil {
		return res, err
	}
	if res.Convexity, err = b.Convexity(ytm); err != nil {
		return res, err
	}
	return res, nil
}

func (a *app) newBondCmd() *cobra.Command {
	var (
		b     fixedincome.Bond
		ytm   float64
		price float64
	)
	cmd := &cobra.Command{
		Use:   "bond",
		Short: "Price, durations and convexity of a fixed-coupon bond",
		Long: `Price, durations and convexity of a fixed-coupon bond.

With --price the yield to maturity is solved first and the analytics are
reported at that yield.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("price") {
				y, err := b.YieldToMaturity(price)
				if err != nil {
					return err
				}
				ytm = y
			}
			res, err := analyseBond(b, ytm)
			if err != nil {
				return err
			}
			return a.fields(res,
				field("ytm", res.YTM),
				field("price", res.Price),
				field("macaulay duration", res.MacaulayDuration),
				field("modified duration", res.ModifiedDuration),
				field("dollar duration", res.DollarDuration),
				field("convexity", res.Convexity),
			)
		},
	}
	cmd.Flags().Float64Var(&b.FaceValue, "face", 1000, "face value")
	cmd.Flags().Float64Var(&b.Maturity, "maturity", 10, "years to maturity")
	cmd.Flags().Float64Var(&b.CouponRate, "coupon", 0.05, "annual coupon rate")
	cmd.Flags().IntVar(&b.Frequency, "freq", 2, "coupons per year")
	cmd.Flags().Float64Var(&ytm, "ytm", 0.05, "annual yield to maturity")
	cmd.Flags().Float64Var(&price, "price", 0, "market price; solves for the yield")
	return cmd
}
