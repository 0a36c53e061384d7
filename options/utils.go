package options

import (
	"fmt"

	"github.com/bcdannyboy/qp/models"
)

// unstable reports a result the model cannot represent. It matches both
// ErrInvalidParameter and ErrNumericalInstability under errors.Is.
func unstable(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %w: %s", models.ErrInvalidParameter, models.ErrNumericalInstability, fmt.Sprintf(format, args...))
}

func checkFinite(what string, f float64) (float64, error) {
	if !models.IsFinite(f) {
		return 0, unstable("%s is not finite", what)
	}
	return f, nil
}

type namedValue struct {
	name  string
	value float64
}

func requireFinite(values ...namedValue) error {
	for _, v := range values {
		if !models.IsFinite(v.value) {
			return fmt.Errorf("%w: %s must be finite, got %v", models.ErrInvalidParameter, v.name, v.value)
		}
	}
	return nil
}
