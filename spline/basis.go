// Package spline builds truncated-power and natural cubic spline bases,
// fits regression splines by least squares, and fits penalized smoothing
// splines with λ chosen directly, by target degrees of freedom, or by
// generalized cross-validation.
package spline

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/eslgo/core/parallel"
	"github.com/YuminosukeSato/eslgo/pkg/errors"
)

// rows evaluated sequentially below this count
const designParallelThreshold = 2000

// Basis is a fixed set of functions h_1..h_p of one predictor. Evaluate
// returns (h_1(x), ..., h_p(x)); the intercept, when present, is a column of
// the basis.
type Basis interface {
	Dim() int
	Evaluate(x float64) []float64
	Knots() []float64
}

// DesignMatrix evaluates b at every x, one row per point.
func DesignMatrix(b Basis, xs []float64) (*mat.Dense, error) {
	if len(xs) == 0 {
		return nil, errors.NewInsufficientDataError("spline.DesignMatrix", "design", 1, 0)
	}
	p := b.Dim()
	out := mat.NewDense(len(xs), p, nil)
	parallel.ParallelizeWithThreshold(len(xs), designParallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			out.SetRow(i, b.Evaluate(xs[i]))
		}
	})
	return out, nil
}

func cutoff(v float64) float64 {
	return math.Max(v, 0)
}

// TruncatedPower is the regression-spline basis of order M (degree M-1):
// 1, x, ..., x^(M-1), then (x - ξ_l)₊^(M-1) for each interior knot.
type TruncatedPower struct {
	order    int
	interior []float64
}

// NewTruncatedPower validates the order and requires non-decreasing knots.
func NewTruncatedPower(order int, interior []float64) (*TruncatedPower, error) {
	if order < 1 {
		return nil, errors.NewValidationError("order", "must be at least 1", order)
	}
	knots := append([]float64(nil), interior...)
	if err := checkIncreasing("spline.NewTruncatedPower", knots, false); err != nil {
		return nil, err
	}
	return &TruncatedPower{order: order, interior: knots}, nil
}

// Dim returns M plus the number of interior knots.
func (b *TruncatedPower) Dim() int { return b.order + len(b.interior) }

// Order returns M.
func (b *TruncatedPower) Order() int { return b.order }

// Knots returns a copy of the interior knots.
func (b *TruncatedPower) Knots() []float64 { return append([]float64(nil), b.interior...) }

// Evaluate returns the basis row at x. For order 1 the truncated terms are
// right-continuous steps: 1 when x > ξ_l, else 0.
func (b *TruncatedPower) Evaluate(x float64) []float64 {
	h := make([]float64, b.Dim())
	pow := 1.0
	for j := 0; j < b.order; j++ {
		h[j] = pow
		pow *= x
	}
	deg := float64(b.order - 1)
	for l, k := range b.interior {
		if x <= k {
			continue
		}
		h[b.order+l] = math.Pow(x-k, deg)
	}
	return h
}

// Natural is the natural cubic spline basis with K knots ξ_1 < ... < ξ_K:
// N_1 = 1, N_2 = x, N_{k+2} = d_k - d_{K-1} for k = 1..K-2 with
// d_k(x) = [(x-ξ_k)₊³ - (x-ξ_K)₊³] / (ξ_K - ξ_k).
// Every basis function is linear beyond the boundary knots.
type Natural struct {
	knots []float64
}

// NewNatural requires at least two strictly increasing knots. With two knots
// the basis is the straight line.
func NewNatural(knots []float64) (*Natural, error) {
	if len(knots) < 2 {
		return nil, errors.NewInsufficientDataError("spline.NewNatural", "knots", 2, len(knots))
	}
	k := append([]float64(nil), knots...)
	if err := checkIncreasing("spline.NewNatural", k, true); err != nil {
		return nil, err
	}
	return &Natural{knots: k}, nil
}

// Dim returns the number of knots.
func (b *Natural) Dim() int { return len(b.knots) }

// Knots returns a copy of the knots.
func (b *Natural) Knots() []float64 { return append([]float64(nil), b.knots...) }

func (b *Natural) d(k int, x float64) float64 {
	last := b.knots[len(b.knots)-1]
	a := cutoff(x - b.knots[k])
	c := cutoff(x - last)
	return (a*a*a - c*c*c) / (last - b.knots[k])
}

// second derivative of d_k
func (b *Natural) d2(k int, x float64) float64 {
	last := b.knots[len(b.knots)-1]
	return 6 * (cutoff(x-b.knots[k]) - cutoff(x-last)) / (last - b.knots[k])
}

// Evaluate returns N_1(x), ..., N_K(x).
func (b *Natural) Evaluate(x float64) []float64 {
	K := len(b.knots)
	h := make([]float64, K)
	h[0] = 1
	h[1] = x
	if K > 2 {
		dLast := b.d(K-2, x)
		for k := 0; k < K-2; k++ {
			h[k+2] = b.d(k, x) - dLast
		}
	}
	return h
}

// SecondDerivative returns (N_1''(x), ..., N_K''(x)).
func (b *Natural) SecondDerivative(x float64) []float64 {
	K := len(b.knots)
	h := make([]float64, K)
	if K > 2 {
		dLast := b.d2(K-2, x)
		for k := 0; k < K-2; k++ {
			h[k+2] = b.d2(k, x) - dLast
		}
	}
	return h
}

func checkIncreasing(op string, knots []float64, strict bool) error {
	for i, k := range knots {
		if math.IsNaN(k) || math.IsInf(k, 0) {
			return errors.NewValidationError("knots", "must be finite", k)
		}
		if i == 0 {
			continue
		}
		if knots[i] < knots[i-1] || (strict && knots[i] == knots[i-1]) {
			reason := "must be non-decreasing"
			if strict {
				reason = "must be strictly increasing"
			}
			return errors.Wrap(errors.NewValidationError("knots", reason, knots[i]), op)
		}
	}
	return nil
}
