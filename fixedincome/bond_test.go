package fixedincome

import (
	"math"
	"testing"

	"github.com/bcdannyboy/qp/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrice_ParBond(t *testing.T) {
	for _, freq := range []int{1, 2, 4, 12} {
		b := Bond{FaceValue: 1000, Maturity: 10, CouponRate: 0.05, Frequency: freq}
		p, err := b.Price(0.05)
		require.NoError(t, err)
		assert.InDelta(t, 1000, p, 1e-8, "freq %d", freq)
	}
}

func TestPrice_ZeroCoupon(t *testing.T) {
	b := Bond{FaceValue: 100, Maturity: 5, CouponRate: 0, Frequency: 1}
	p, err := b.Price(0.04)
	require.NoError(t, err)
	assert.InDelta(t, 100/math.Pow(1.04, 5), p, 1e-10)

	mac, err := b.MacaulayDuration(0.04)
	require.NoError(t, err)
	assert.InDelta(t, 5, mac, 1e-12)
}

func TestPrice_DecreasingInYield(t *testing.T) {
	b := Bond{FaceValue: 1000, Maturity: 7, CouponRate: 0.03, Frequency: 2}
	prev := math.Inf(1)
	for _, y := range []float64{0.0, 0.01, 0.03, 0.05, 0.1} {
		p, err := b.Price(y)
		require.NoError(t, err)
		assert.Less(t, p, prev)
		prev = p
	}
}

func TestPrice_PeriodRounding(t *testing.T) {
	// 2.4 years semiannual rounds to 5 periods, same as 2.5 years
	a := Bond{FaceValue: 100, Maturity: 2.4, CouponRate: 0.06, Frequency: 2}
	b := Bond{FaceValue: 100, Maturity: 2.5, CouponRate: 0.06, Frequency: 2}
	assert.Equal(t, 5, a.Periods())

	pa, err := a.Price(0.05)
	require.NoError(t, err)
	pb, err := b.Price(0.05)
	require.NoError(t, err)
	assert.Equal(t, pb, pa)
}

func TestDurations(t *testing.T) {
	b := Bond{FaceValue: 1000, Maturity: 10, CouponRate: 0.06, Frequency: 2}
	y := 0.05

	mac, err := b.MacaulayDuration(y)
	require.NoError(t, err)
	mod, err := b.ModifiedDuration(y)
	require.NoError(t, err)
	dd, err := b.DollarDuration(y)
	require.NoError(t, err)
	p, err := b.Price(y)
	require.NoError(t, err)

	assert.Less(t, mac, b.Maturity)
	assert.InDelta(t, mac/(1+y/2), mod, 1e-12)
	assert.InDelta(t, p*mod, dd, 1e-9)

	h := 1e-5
	up, err := b.Price(y + h)
	require.NoError(t, err)
	down, err := b.Price(y - h)
	require.NoError(t, err)
	assert.InDelta(t, dd, -(up-down)/(2*h), 1e-3)

	conv, err := b.Convexity(y)
	require.NoError(t, err)
	assert.Greater(t, conv, 0.0)
	assert.InDelta(t, conv, (up-2*p+down)/(h*h)/p, 1e-2)
}

func TestYieldToMaturity(t *testing.T) {
	b := Bond{FaceValue: 1000, Maturity: 8, CouponRate: 0.045, Frequency: 2}
	for _, want := range []float64{0.01, 0.045, 0.08, 0.15} {
		p, err := b.Price(want)
		require.NoError(t, err)
		got, err := b.YieldToMaturity(p)
		require.NoError(t, err)
		assert.InDelta(t, want, got, 1e-8)
	}

	_, err := b.YieldToMaturity(-5)
	assert.ErrorIs(t, err, models.ErrInvalidParameter)
}

func TestBond_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		bond Bond
		ytm  float64
	}{
		{"zero face", Bond{FaceValue: 0, Maturity: 1, CouponRate: 0.05, Frequency: 1}, 0.05},
		{"negative maturity", Bond{FaceValue: 100, Maturity: -1, CouponRate: 0.05, Frequency: 1}, 0.05},
		{"zero frequency", Bond{FaceValue: 100, Maturity: 1, CouponRate: 0.05, Frequency: 0}, 0.05},
		{"no periods", Bond{FaceValue: 100, Maturity: 0.1, CouponRate: 0.05, Frequency: 1}, 0.05},
		{"zero discount", Bond{FaceValue: 100, Maturity: 1, CouponRate: 0.05, Frequency: 2}, -2},
		{"nan yield", Bond{FaceValue: 100, Maturity: 1, CouponRate: 0.05, Frequency: 1}, math.NaN()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.bond.Price(tt.ytm)
			assert.ErrorIs(t, err, models.ErrInvalidParameter)
			_, err = tt.bond.Convexity(tt.ytm)
			assert.ErrorIs(t, err, models.ErrInvalidParameter)
		})
	}
}
