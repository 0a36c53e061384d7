package volatility

import (
	"math"
	"testing"

	"github.com/bcdannyboy/qp/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatBars(n int, price float64) []models.Bar {
	bars := make([]models.Bar, n)
	for i := range bars {
		bars[i] = models.Bar{Open: price, High: price, Low: price, Close: price}
	}
	return bars
}

// trendingBars closes each day 1% above the previous close with a fixed
// intraday range around the open.
func trendingBars(n int) []models.Bar {
	bars := make([]models.Bar, n)
	price := 100.0
	for i := range bars {
		open := price
		price *= 1.01
		bars[i] = models.Bar{Open: open, High: price * 1.005, Low: open * 0.995, Close: price}
	}
	return bars
}

func TestEstimators_FlatHistoryIsZero(t *testing.T) {
	bars := flatBars(30, 50)
	for name, est := range Estimators {
		t.Run(name, func(t *testing.T) {
			vol, err := est(bars, TradingDaysPerYear)
			require.NoError(t, err)
			assert.InDelta(t, 0, vol, 1e-12)
		})
	}
}

func TestCloseToClose_ConstantReturnsHaveNoDispersion(t *testing.T) {
	vol, err := CloseToClose(trendingBars(40), TradingDaysPerYear)
	require.NoError(t, err)
	assert.InDelta(t, 0, vol, 1e-9)
}

func TestParkinson_KnownRange(t *testing.T) {
	bars := []models.Bar{
		{Open: 100, High: 102, Low: 98, Close: 101},
		{Open: 101, High: 103, Low: 99, Close: 100},
	}
	l1, l2 := math.Log(102.0/98), math.Log(103.0/99)
	want := math.Sqrt((l1*l1+l2*l2)/(4*2*math.Log(2))) * math.Sqrt(252)

	got, err := Parkinson(bars, TradingDaysPerYear)
	require.NoError(t, err)
	assert.InDelta(t, want, got, 1e-12)
}

func TestEstimators_PositiveOnRangingHistory(t *testing.T) {
	bars := trendingBars(60)
	for name, est := range Estimators {
		if name == "close" {
			continue
		}
		t.Run(name, func(t *testing.T) {
			vol, err := est(bars, TradingDaysPerYear)
			require.NoError(t, err)
			assert.Greater(t, vol, 0.0)
		})
	}
}

func TestEstimators_RejectBadInput(t *testing.T) {
	_, err := Parkinson(nil, TradingDaysPerYear)
	assert.ErrorIs(t, err, models.ErrInvalidParameter)

	_, err = YangZhang(flatBars(2, 10), TradingDaysPerYear)
	assert.ErrorIs(t, err, models.ErrInvalidParameter)

	inverted := []models.Bar{{Open: 10, High: 9, Low: 11, Close: 10}}
	_, err = GarmanKlass(inverted, TradingDaysPerYear)
	assert.ErrorIs(t, err, models.ErrInvalidParameter)

	_, err = RogersSatchell(flatBars(5, 10), 0)
	assert.ErrorIs(t, err, models.ErrInvalidParameter)
}

func TestWindows(t *testing.T) {
	bars := trendingBars(70)

	results, err := Windows(bars, Parkinson, DefaultWindows, TradingDaysPerYear)
	require.NoError(t, err)
	assert.Contains(t, results, "1w")
	assert.Contains(t, results, "3m")
	assert.NotContains(t, results, "6m")
	assert.NotContains(t, results, "1y")

	whole, err := Parkinson(bars[len(bars)-21:], TradingDaysPerYear)
	require.NoError(t, err)
	assert.InDelta(t, whole, results["1m"], 1e-12)
}
