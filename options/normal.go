package options

import "gonum.org/v1/gonum/stat/distuv"

// NormCDF is the standard normal cumulative distribution function.
func NormCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

// NormPDF is the standard normal density.
func NormPDF(x float64) float64 {
	return distuv.UnitNormal.Prob(x)
}

// NormQuantile inverts NormCDF for p in (0, 1).
func NormQuantile(p float64) float64 {
	return distuv.UnitNormal.Quantile(p)
}
