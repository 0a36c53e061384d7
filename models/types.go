package models

import (
	"fmt"
	"math"
	"strings"
)

type OptionType int

const (
	Call OptionType = iota
	Put
)

func (t OptionType) String() string {
	switch t {
	case Call:
		return "call"
	case Put:
		return "put"
	default:
		return fmt.Sprintf("OptionType(%d)", int(t))
	}
}

// ParseOptionType maps "call"/"put" (any case) onto an OptionType.
func ParseOptionType(s string) (OptionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call", "c":
		return Call, nil
	case "put", "p":
		return Put, nil
	}
	return 0, fmt.Errorf("%w: option type must be call or put, got %q", ErrInvalidParameter, s)
}

type ExerciseStyle int

const (
	European ExerciseStyle = iota
	American
)

func (e ExerciseStyle) String() string {
	if e == American {
		return "american"
	}
	return "european"
}

// MarketParameters holds the inputs shared by every option pricer.
// Rate and Dividend are continuously compounded, Volatility is annualized
// and Maturity is in years.
type MarketParameters struct {
	Spot       float64 `json:"spot" yaml:"spot"`
	Strike     float64 `json:"strike" yaml:"strike"`
	Rate       float64 `json:"rate" yaml:"rate"`
	Dividend   float64 `json:"dividend" yaml:"dividend"`
	Volatility float64 `json:"volatility" yaml:"volatility"`
	Maturity   float64 `json:"maturity" yaml:"maturity"`
}

func (p MarketParameters) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"spot", p.Spot},
		{"strike", p.Strike},
		{"rate", p.Rate},
		{"dividend", p.Dividend},
		{"volatility", p.Volatility},
		{"maturity", p.Maturity},
	}
	for _, f := range fields {
		if !IsFinite(f.value) {
			return fmt.Errorf("%w: %s must be finite, got %v", ErrInvalidParameter, f.name, f.value)
		}
	}

	switch {
	case p.Spot <= 0:
		return fmt.Errorf("%w: spot must be > 0, got %v", ErrInvalidParameter, p.Spot)
	case p.Strike <= 0:
		return fmt.Errorf("%w: strike must be > 0, got %v", ErrInvalidParameter, p.Strike)
	case p.Volatility < 0:
		return fmt.Errorf("%w: volatility must be >= 0, got %v", ErrInvalidParameter, p.Volatility)
	case p.Maturity < 0:
		return fmt.Errorf("%w: maturity must be >= 0, got %v", ErrInvalidParameter, p.Maturity)
	}
	return nil
}

// Intrinsic is the immediate exercise value of an option struck at K when the
// underlying trades at spot.
func (t OptionType) Intrinsic(spot, strike float64) float64 {
	if t == Call {
		return math.Max(spot-strike, 0)
	}
	return math.Max(strike-spot, 0)
}

type Greeks struct {
	Price float64 `json:"price"`
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Vega  float64 `json:"vega"`  // per 1.00 change in volatility
	Theta float64 `json:"theta"` // per year of calendar decay
	Rho   float64 `json:"rho"`   // per 1.00 change in rate
	Phi   float64 `json:"phi"`   // per 1.00 change in dividend yield
}

// Bar is one OHLC observation of the underlying.
type Bar struct {
	Date  string  `json:"date" csv:"date"`
	Open  float64 `json:"open" csv:"open"`
	High  float64 `json:"high" csv:"high"`
	Low   float64 `json:"low" csv:"low"`
	Close float64 `json:"close" csv:"close"`
}

func (b Bar) Validate() error {
	if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
		return fmt.Errorf("%w: bar %s has non-positive prices", ErrInvalidParameter, b.Date)
	}
	if b.High < b.Low {
		return fmt.Errorf("%w: bar %s has high %v below low %v", ErrInvalidParameter, b.Date, b.High, b.Low)
	}
	return nil
}

// Quote is an observed option price used for calibration.
type Quote struct {
	Type   OptionType `json:"type"`
	Strike float64    `json:"strike"`
	Price  float64    `json:"price"`
}

func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
