package options

import (
	"fmt"
	"math"

	"github.com/bcdannyboy/qp/models"
)

// Bounds is a closed no-arbitrage price interval.
type Bounds struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

func (b Bounds) Contains(price float64) bool {
	return price >= b.Lower && price <= b.Upper
}

// parityForward returns the discounted spot S*e^(-qT) and discounted strike
// K*e^(-rT) whose difference is the right-hand side of put-call parity.
func parityForward(S, K, r, q, T float64) (discS, discK float64, err error) {
	if err := requireFinite(
		namedValue{"spot", S}, namedValue{"strike", K}, namedValue{"rate", r},
		namedValue{"dividend", q}, namedValue{"maturity", T},
	); err != nil {
		return 0, 0, err
	}
	switch {
	case S <= 0:
		return 0, 0, fmt.Errorf("%w: spot must be > 0, got %v", models.ErrInvalidParameter, S)
	case K <= 0:
		return 0, 0, fmt.Errorf("%w: strike must be > 0, got %v", models.ErrInvalidParameter, K)
	case T < 0:
		return 0, 0, fmt.Errorf("%w: maturity must be >= 0, got %v", models.ErrInvalidParameter, T)
	}
	return S * math.Exp(-q*T), K * math.Exp(-r*T), nil
}

// PutFromCall derives the European put price from a call price by parity.
func PutFromCall(callPrice, S, K, r, q, T float64) (float64, error) {
	if err := requireFinite(namedValue{"call price", callPrice}); err != nil {
		return 0, err
	}
	discS, discK, err := parityForward(S, K, r, q, T)
	if err != nil {
		return 0, err
	}
	return checkFinite("put price", callPrice-discS+discK)
}

// CallFromPut derives the European call price from a put price by parity.
func CallFromPut(putPrice, S, K, r, q, T float64) (float64, error) {
	if err := requireFinite(namedValue{"put price", putPrice}); err != nil {
		return 0, err
	}
	discS, discK, err := parityForward(S, K, r, q, T)
	if err != nil {
		return 0, err
	}
	return checkFinite("call price", putPrice+discS-discK)
}

// ParityGap is (C - P) - (S*e^(-qT) - K*e^(-rT)); zero means exact parity.
func ParityGap(callPrice, putPrice, S, K, r, q, T float64) (float64, error) {
	if err := requireFinite(namedValue{"call price", callPrice}, namedValue{"put price", putPrice}); err != nil {
		return 0, err
	}
	discS, discK, err := parityForward(S, K, r, q, T)
	if err != nil {
		return 0, err
	}
	return checkFinite("parity gap", (callPrice-putPrice)-(discS-discK))
}

// ParityBounds returns the model-free interval a European option on the given
// leg must price within.
func ParityBounds(S, K, r, q, T float64, leg models.OptionType) (Bounds, error) {
	discS, discK, err := parityForward(S, K, r, q, T)
	if err != nil {
		return Bounds{}, err
	}
	if leg == models.Call {
		return Bounds{Lower: math.Max(0, discS-discK), Upper: discS}, nil
	}
	return Bounds{Lower: math.Max(0, discK-discS), Upper: discK}, nil
}

// AmericanParityBounds returns the interval an American option on leg must
// price within given the price of the opposite American leg, from
//
//	S*e^(-qT) - K <= C - P <= S - K*e^(-rT)
func AmericanParityBounds(otherLegPrice, S, K, r, q, T float64, leg models.OptionType) (Bounds, error) {
	if err := requireFinite(namedValue{"other leg price", otherLegPrice}); err != nil {
		return Bounds{}, err
	}
	discS, discK, err := parityForward(S, K, r, q, T)
	if err != nil {
		return Bounds{}, err
	}

	lo, hi := discS-K, S-discK // bounds on C - P
	if leg == models.Call {
		return Bounds{Lower: math.Max(0, otherLegPrice+lo), Upper: otherLegPrice + hi}, nil
	}
	return Bounds{Lower: math.Max(0, otherLegPrice-hi), Upper: otherLegPrice - lo}, nil
}
