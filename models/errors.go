package models

import "errors"

var (
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNumericalInstability marks inputs that are individually valid but
	// push a discretization outside its arbitrage-free region, or an iterative
	// solver that failed to converge.
	ErrNumericalInstability = errors.New("numerical instability")
)
