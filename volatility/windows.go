package volatility

import (
	"fmt"

	"github.com/bcdannyboy/qp/models"
)

type Window struct {
	Name string
	Days int
}

var DefaultWindows = []Window{
	{"1w", 5},
	{"1m", 21},
	{"3m", 63},
	{"6m", 126},
	{"1y", 252},
}

// Windows evaluates estimator over the trailing bars of each window. Windows
// longer than the history are left out of the result.
func Windows(bars []models.Bar, estimator Estimator, windows []Window, periodsPerYear float64) (map[string]float64, error) {
	results := make(map[string]float64)

	for _, w := range windows {
		if w.Days <= 0 || len(bars) < w.Days {
			continue
		}
		vol, err := estimator(bars[len(bars)-w.Days:], periodsPerYear)
		if err != nil {
			return nil, fmt.Errorf("window %s: %w", w.Name, err)
		}
		results[w.Name] = vol
	}

	return results, nil
}
