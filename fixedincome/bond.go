package fixedincome

import (
	"fmt"
	"math"

	"github.com/bcdannyboy/qp/models"
	"gonum.org/v1/gonum/floats"
)

const (
	ytmMaxIterations = 100
	ytmTolerance     = 1e-10
)

// Bond is a plain-vanilla fixed-coupon bond. Maturity is in years, CouponRate
// is annual and Frequency is the number of coupons per year.
type Bond struct {
	FaceValue  float64 `json:"face_value" yaml:"face_value"`
	Maturity   float64 `json:"maturity" yaml:"maturity"`
	CouponRate float64 `json:"coupon_rate" yaml:"coupon_rate"`
	Frequency  int     `json:"frequency" yaml:"frequency"`
}

// Periods is round(Maturity * Frequency).
func (b Bond) Periods() int {
	return int(math.Round(b.Maturity * float64(b.Frequency)))
}

func (b Bond) Validate() error {
	switch {
	case !(b.FaceValue > 0) || math.IsInf(b.FaceValue, 0):
		return fmt.Errorf("%w: face value must be positive, got %v", models.ErrInvalidParameter, b.FaceValue)
	case !(b.Maturity > 0) || math.IsInf(b.Maturity, 0):
		return fmt.Errorf("%w: maturity must be positive, got %v", models.ErrInvalidParameter, b.Maturity)
	case !models.IsFinite(b.CouponRate):
		return fmt.Errorf("%w: coupon rate must be finite", models.ErrInvalidParameter)
	case b.Frequency < 1:
		return fmt.Errorf("%w: frequency must be at least 1, got %d", models.ErrInvalidParameter, b.Frequency)
	case b.Periods() < 1:
		return fmt.Errorf("%w: maturity * frequency must round to at least 1 period", models.ErrInvalidParameter)
	}
	return nil
}

// schedule returns the period numbers 1..n, the cash flow paid in each
// period and the matching discount factors at ytm.
func (b Bond) schedule(ytm float64) (t, cf, disc []float64, err error) {
	if err := b.Validate(); err != nil {
		return nil, nil, nil, err
	}
	if !models.IsFinite(ytm) {
		return nil, nil, nil, fmt.Errorf("%w: yield must be finite", models.ErrInvalidParameter)
	}
	y := ytm / float64(b.Frequency)
	if math.Abs(1+y) < 1e-12 {
		return nil, nil, nil, fmt.Errorf("%w: yield %v discounts by zero", models.ErrInvalidParameter, ytm)
	}

	n := b.Periods()
	coupon := b.FaceValue * b.CouponRate / float64(b.Frequency)

	t = make([]float64, n)
	cf = make([]float64, n)
	for i := range t {
		t[i] = float64(i + 1)
		cf[i] = coupon
	}
	cf[n-1] += b.FaceValue

	disc = make([]float64, n)
	for i, ti := range t {
		disc[i] = math.Pow(1+y, -ti)
	}
	return t, cf, disc, nil
}

// Price is the present value of coupons and redemption at the annual nominal
// yield ytm compounded Frequency times a year.
func (b Bond) Price(ytm float64) (float64, error) {
	_, cf, disc, err := b.schedule(ytm)
	if err != nil {
		return 0, err
	}
	return floats.Dot(cf, disc), nil
}

// MacaulayDuration is the present-value weighted average time of the cash
// flows, in years.
func (b Bond) MacaulayDuration(ytm float64) (float64, error) {
	t, cf, disc, err := b.schedule(ytm)
	if err != nil {
		return 0, err
	}
	pv := make([]float64, len(cf))
	floats.MulTo(pv, cf, disc)
	price := floats.Sum(pv)
	if price == 0 {
		return 0, fmt.Errorf("%w: bond price is zero", models.ErrNumericalInstability)
	}
	return floats.Dot(t, pv) / float64(b.Frequency) / price, nil
}

func (b Bond) ModifiedDuration(ytm float64) (float64, error) {
	mac, err := b.MacaulayDuration(ytm)
	if err != nil {
		return 0, err
	}
	return mac / (1 + ytm/float64(b.Frequency)), nil
}

// DollarDuration is -dP/dy, the price change per unit change in yield.
func (b Bond) DollarDuration(ytm float64) (float64, error) {
	price, err := b.Price(ytm)
	if err != nil {
		return 0, err
	}
	mod, err := b.ModifiedDuration(ytm)
	if err != nil {
		return 0, err
	}
	return price * mod, nil
}

func (b Bond) Convexity(ytm float64) (float64, error) {
	t, cf, disc, err := b.schedule(ytm)
	if err != nil {
		return 0, err
	}
	price := floats.Dot(cf, disc)
	if price == 0 {
		return 0, fmt.Errorf("%w: bond price is zero", models.ErrNumericalInstability)
	}

	y := ytm / float64(b.Frequency)
	num := 0.0
	for i, ti := range t {
		num += cf[i] * ti * (ti + 1) * disc[i] / ((1 + y) * (1 + y))
	}
	f := float64(b.Frequency)
	return num / (price * f * f), nil
}

// YieldToMaturity solves Price(y) = price with Newton steps on -DollarDuration,
// starting from the coupon rate.
func (b Bond) YieldToMaturity(price float64) (float64, error) {
	if err := b.Validate(); err != nil {
		return 0, err
	}
	if !(price > 0) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("%w: price must be positive, got %v", models.ErrInvalidParameter, price)
	}

	y := b.CouponRate
	for i := 0; i < ytmMaxIterations; i++ {
		p, err := b.Price(y)
		if err != nil {
			return 0, err
		}
		diff := p - price
		if math.Abs(diff) < ytmTolerance*b.FaceValue {
			return y, nil
		}
		dd, err := b.DollarDuration(y)
		if err != nil {
			return 0, err
		}
		if dd == 0 || !models.IsFinite(dd) {
			break
		}
		next := y + diff/dd
		// keep 1 + y/f strictly positive
		if floor := -float64(b.Frequency) + 1e-9; next <= floor {
			next = (y + floor) / 2
		}
		y = next
	}
	return 0, fmt.Errorf("%w: yield to maturity did not converge", models.ErrNumericalInstability)
}
