package volatility

import (
	"fmt"
	"math"

	"github.com/bcdannyboy/qp/models"
	"gonum.org/v1/gonum/stat"
)

const TradingDaysPerYear = 252

// Estimator turns a run of bars into an annualized volatility.
type Estimator func(bars []models.Bar, periodsPerYear float64) (float64, error)

func validateBars(bars []models.Bar, min int, periodsPerYear float64) error {
	if len(bars) < min {
		return fmt.Errorf("%w: need at least %d bars, got %d", models.ErrInvalidParameter, min, len(bars))
	}
	if !(periodsPerYear > 0) || math.IsInf(periodsPerYear, 0) {
		return fmt.Errorf("%w: periods per year must be > 0, got %v", models.ErrInvalidParameter, periodsPerYear)
	}
	for _, b := range bars {
		if err := b.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// CloseToClose is the sample standard deviation of log close-to-close returns.
func CloseToClose(bars []models.Bar, periodsPerYear float64) (float64, error) {
	if err := validateBars(bars, 3, periodsPerYear); err != nil {
		return 0, err
	}

	returns := make([]float64, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		returns[i-1] = math.Log(bars[i].Close / bars[i-1].Close)
	}
	return stat.StdDev(returns, nil) * math.Sqrt(periodsPerYear), nil
}

// Parkinson uses the high-low range of each bar.
func Parkinson(bars []models.Bar, periodsPerYear float64) (float64, error) {
	if err := validateBars(bars, 1, periodsPerYear); err != nil {
		return 0, err
	}

	sum := 0.0
	for _, b := range bars {
		logRatio := math.Log(b.High / b.Low)
		sum += logRatio * logRatio
	}
	n := float64(len(bars))
	return math.Sqrt(sum/(4*n*math.Log(2))) * math.Sqrt(periodsPerYear), nil
}

func GarmanKlass(bars []models.Bar, periodsPerYear float64) (float64, error) {
	if err := validateBars(bars, 1, periodsPerYear); err != nil {
		return 0, err
	}

	sum := 0.0
	for _, b := range bars {
		hl := 0.5 * math.Pow(math.Log(b.High/b.Low), 2)
		co := (2*math.Log(2) - 1) * math.Pow(math.Log(b.Close/b.Open), 2)
		sum += hl - co
	}
	variance := sum / float64(len(bars))
	if variance < 0 {
		// Bars whose open-close move dwarfs their range can drive the
		// estimator negative.
		return 0, fmt.Errorf("%w: garman-klass variance is negative", models.ErrNumericalInstability)
	}
	return math.Sqrt(variance * periodsPerYear), nil
}

func rogersSatchellVariance(bars []models.Bar) float64 {
	sum := 0.0
	for _, b := range bars {
		sum += math.Log(b.High/b.Close)*math.Log(b.High/b.Open) +
			math.Log(b.Low/b.Close)*math.Log(b.Low/b.Open)
	}
	return sum / float64(len(bars))
}

// RogersSatchell is drift independent.
func RogersSatchell(bars []models.Bar, periodsPerYear float64) (float64, error) {
	if err := validateBars(bars, 1, periodsPerYear); err != nil {
		return 0, err
	}
	return math.Sqrt(rogersSatchellVariance(bars) * periodsPerYear), nil
}

// YangZhang combines overnight, open-to-close and Rogers-Satchell variances.
func YangZhang(bars []models.Bar, periodsPerYear float64) (float64, error) {
	if err := validateBars(bars, 3, periodsPerYear); err != nil {
		return 0, err
	}

	n := float64(len(bars))
	k := 0.34 / (1.34 + (n+1)/(n-1))

	overnight := make([]float64, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		overnight[i-1] = math.Log(bars[i].Open / bars[i-1].Close)
	}
	openClose := make([]float64, len(bars))
	for i, b := range bars {
		openClose[i] = math.Log(b.Close / b.Open)
	}

	variance := stat.Variance(overnight, nil) + k*stat.Variance(openClose, nil) + (1-k)*rogersSatchellVariance(bars)
	return math.Sqrt(variance * periodsPerYear), nil
}

// Estimators maps the names accepted on the command line to estimators.
var Estimators = map[string]Estimator{
	"close":           CloseToClose,
	"parkinson":       Parkinson,
	"garman-klass":    GarmanKlass,
	"rogers-satchell": RogersSatchell,
	"yang-zhang":      YangZhang,
}
