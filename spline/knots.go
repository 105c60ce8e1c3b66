package spline

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/eslgo/pkg/errors"
)

func sortedCopy(xs []float64) []float64 {
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	return s
}

// UniqueKnots returns the distinct values of xs in increasing order, one knot
// per distinct predictor value.
func UniqueKnots(xs []float64) []float64 {
	s := sortedCopy(xs)
	out := s[:0]
	for i, v := range s {
		if i == 0 || v != s[i-1] {
			out = append(out, v)
		}
	}
	return out
}

// QuantileKnots returns n interior knots at the j/(n+1) quantiles of xs,
// j = 1..n.
func QuantileKnots(xs []float64, n int) ([]float64, error) {
	if n < 0 {
		return nil, errors.NewValidationError("n", "must be non-negative", n)
	}
	if len(xs) == 0 {
		return nil, errors.NewInsufficientDataError("spline.QuantileKnots", "predictor", 1, 0)
	}
	s := sortedCopy(xs)
	knots := make([]float64, n)
	for j := range knots {
		knots[j] = stat.Quantile(float64(j+1)/float64(n+1), stat.LinInterp, s, nil)
	}
	return knots, nil
}

// BoundaryQuantileKnots returns k knots: min(xs), max(xs) and k-2 interior
// knots at evenly spaced quantiles between them. Repeated quantiles from
// tied data are collapsed, so fewer than k knots may come back.
func BoundaryQuantileKnots(xs []float64, k int) ([]float64, error) {
	if k < 2 {
		return nil, errors.NewValidationError("k", "must be at least 2", k)
	}
	if len(xs) == 0 {
		return nil, errors.NewInsufficientDataError("spline.BoundaryQuantileKnots", "predictor", 1, 0)
	}
	s := sortedCopy(xs)
	knots := make([]float64, k)
	knots[0] = s[0]
	knots[k-1] = s[len(s)-1]
	for j := 1; j < k-1; j++ {
		knots[j] = stat.Quantile(float64(j)/float64(k-1), stat.LinInterp, s, nil)
	}
	return UniqueKnots(knots), nil
}
