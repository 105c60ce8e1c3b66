// Package linalg holds the dense linear-algebra helpers shared by the
// discriminant and spline packages. Every inversion goes through the
// Moore-Penrose pseudo-inverse so rank-deficient covariance and Gram
// matrices never make a fit fail.
package linalg

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/eslgo/pkg/errors"
)

// PseudoInverse returns the Moore-Penrose inverse of a using the default
// singular-value cutoff max(r, c)·ε·σ_max.
func PseudoInverse(a mat.Matrix) (*mat.Dense, error) {
	return PseudoInverseTol(a, -1)
}

// PseudoInverseTol is PseudoInverse with an explicit relative cutoff: singular
// values at or below rcond·σ_max are treated as zero. A negative rcond selects
// the default.
func PseudoInverseTol(a mat.Matrix, rcond float64) (*mat.Dense, error) {
	r, c := a.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewModelError("linalg.PseudoInverse", "empty matrix", errors.ErrEmptyData)
	}

	if err := errors.CheckMatrix("linalg.PseudoInverse", a, r, c, 0); err != nil {
		return nil, err
	}

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, errors.NewModelError("linalg.PseudoInverse", "svd did not converge", errors.ErrFactorization)
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	sigma := svd.Values(nil)

	if rcond < 0 {
		rcond = float64(max(r, c)) * eps
	}
	cutoff := 0.0
	if len(sigma) > 0 {
		cutoff = rcond * sigma[0]
	}

	// A⁺ = V Σ⁺ Uᵀ; scale the columns of V in place.
	for j, s := range sigma {
		inv := 0.0
		if s > cutoff {
			inv = 1 / s
		}
		for i := 0; i < c; i++ {
			v.Set(i, j, v.At(i, j)*inv)
		}
	}

	pinv := mat.NewDense(c, r, nil)
	pinv.Mul(&v, u.T())
	return pinv, nil
}

// eps is the float64 machine epsilon.
var eps = math.Nextafter(1, 2) - 1

// Mul returns a·b.
func Mul(a, b mat.Matrix) *mat.Dense {
	var out mat.Dense
	out.Mul(a, b)
	return &out
}

// Transpose returns a copy of aᵀ.
func Transpose(a mat.Matrix) *mat.Dense {
	return mat.DenseCopyOf(a.T())
}

// Gram returns xᵀx as a symmetric matrix.
func Gram(x mat.Matrix) *mat.SymDense {
	_, c := x.Dims()
	g := mat.NewSymDense(c, nil)
	g.SymOuterK(1, x.T())
	return g
}

// QuadForm returns aᵀ·m·b.
func QuadForm(a mat.Vector, m mat.Matrix, b mat.Vector) float64 {
	return mat.Inner(a, m, b)
}

// LogDet returns log|a| for a square matrix, or -Inf when the determinant is
// zero or negative (a degenerate covariance estimate).
func LogDet(a mat.Matrix) float64 {
	logDet, sign := mat.LogDet(a)
	if sign <= 0 || math.IsNaN(logDet) {
		return math.Inf(-1)
	}
	return logDet
}

// Identity returns the n×n identity.
func Identity(n int) *mat.DiagDense {
	d := make([]float64, n)
	for i := range d {
		d[i] = 1
	}
	return mat.NewDiagDense(n, d)
}

// FromRows builds a dense matrix from equal-length rows.
func FromRows(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errors.NewModelError("linalg.FromRows", "empty data", errors.ErrEmptyData)
	}
	c := len(rows[0])
	data := make([]float64, 0, len(rows)*c)
	for _, row := range rows {
		if len(row) != c {
			return nil, errors.NewDimensionError("linalg.FromRows", c, len(row), 1)
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), c, data), nil
}

// Trace returns the sum of the diagonal of a square matrix.
func Trace(a mat.Matrix) float64 {
	r, c := a.Dims()
	n := min(r, c)
	var t float64
	for i := 0; i < n; i++ {
		t += a.At(i, i)
	}
	return t
}
