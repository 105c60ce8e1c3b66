package spline

import (
	"strings"

	"github.com/YuminosukeSato/eslgo/pkg/errors"
)

// Family selects the spline basis.
type Family int

const (
	// RegressionSpline is the truncated-power basis ("bs").
	RegressionSpline Family = iota + 1
	// NaturalSpline is the natural cubic basis ("ns").
	NaturalSpline
)

func (f Family) String() string {
	switch f {
	case RegressionSpline:
		return "bs"
	case NaturalSpline:
		return "ns"
	default:
		return "unknown"
	}
}

// ParseFamily accepts "bs" and "ns" (and the long names).
func ParseFamily(s string) (Family, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bs", "regression", "truncated-power":
		return RegressionSpline, nil
	case "ns", "natural":
		return NaturalSpline, nil
	}
	return 0, errors.NewInvalidModeError("spline.ParseFamily", "spline family", s)
}

// NewBasis builds a basis of the family with df columns from the predictor
// values. RegressionSpline places df-order interior knots at quantiles;
// NaturalSpline places df knots including the two boundary knots.
func NewBasis(f Family, xs []float64, df int, order int) (Basis, error) {
	switch f {
	case RegressionSpline:
		if order < 1 {
			order = DefaultOrder
		}
		if df < order {
			return nil, errors.NewValidationError("df", "must be at least the spline order", df)
		}
		knots, err := QuantileKnots(xs, df-order)
		if err != nil {
			return nil, err
		}
		return NewTruncatedPower(order, knots)
	case NaturalSpline:
		knots, err := BoundaryQuantileKnots(xs, df)
		if err != nil {
			return nil, err
		}
		return NewNatural(knots)
	}
	return nil, errors.NewInvalidModeError("spline.NewBasis", "spline family", f.String())
}
