package linear

import (
	"github.com/YuminosukeSato/eslgo/core/linalg"
	"gonum.org/v1/gonum/mat"
)

// HatMatrix returns S_λ = X (XᵀX + λΩ)⁺ Xᵀ, the linear map from responses to
// fitted values.
func HatMatrix(X mat.Matrix, omega mat.Matrix, lambda float64) (*mat.Dense, error) {
	a, err := NormalMatrix(X, omega, lambda)
	if err != nil {
		return nil, err
	}
	inv, err := linalg.PseudoInverse(a)
	if err != nil {
		return nil, err
	}
	var left mat.Dense
	left.Mul(X, inv)
	var s mat.Dense
	s.Mul(&left, X.T())
	return &s, nil
}

// EffectiveDF returns trace(S_λ). It is computed as
// trace((XᵀX + λΩ)⁺ XᵀX) so the n×n hat matrix is never formed.
func EffectiveDF(X mat.Matrix, omega mat.Matrix, lambda float64) (float64, error) {
	a, err := NormalMatrix(X, omega, lambda)
	if err != nil {
		return 0, err
	}
	inv, err := linalg.PseudoInverse(a)
	if err != nil {
		return 0, err
	}
	var p mat.Dense
	p.Mul(inv, linalg.Gram(X))
	return linalg.Trace(&p), nil
}
