// Package inference derives pointwise uncertainty for basis-expansion fits:
// sampling standard errors from (XᵀX)⁺, and the Gaussian-prior posterior of
// the coefficients. Everything here reads a fitted design and never mutates
// it.
package inference

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/eslgo/core/linalg"
	"github.com/YuminosukeSato/eslgo/pkg/errors"
)

// Basis evaluates the feature vector h(x). spline.Basis satisfies it.
type Basis interface {
	Dim() int
	Evaluate(x float64) []float64
}

func evaluate(op string, b Basis, p int, x float64) (*mat.VecDense, error) {
	h := b.Evaluate(x)
	if len(h) != p {
		return nil, errors.NewDimensionError(op, p, len(h), 1)
	}
	return mat.NewVecDense(p, h), nil
}

// Covariance holds (XᵀX)⁺ and σ̂² for repeated standard-error queries.
type Covariance struct {
	basis  Basis
	inv    *mat.Dense
	sigma2 float64
	p      int
}

// NewCovariance factors the design once.
func NewCovariance(basis Basis, design mat.Matrix, noiseVariance float64) (*Covariance, error) {
	if noiseVariance < 0 {
		return nil, errors.NewValidationError("noiseVariance", "must be non-negative", noiseVariance)
	}
	_, p := design.Dims()
	if basis.Dim() != p {
		return nil, errors.NewDimensionError("inference.NewCovariance", p, basis.Dim(), 1)
	}
	inv, err := linalg.PseudoInverse(linalg.Gram(design))
	if err != nil {
		return nil, err
	}
	return &Covariance{basis: basis, inv: inv, sigma2: noiseVariance, p: p}, nil
}

// StandardError returns σ̂·sqrt(h(x)ᵀ (XᵀX)⁺ h(x)).
func (c *Covariance) StandardError(x float64) (float64, error) {
	h, err := evaluate("inference.StandardError", c.basis, c.p, x)
	if err != nil {
		return 0, err
	}
	q := linalg.QuadForm(h, c.inv, h)
	return math.Sqrt(c.sigma2) * math.Sqrt(math.Max(q, 0)), nil
}

// StandardError is the one-shot form of Covariance.StandardError.
func StandardError(x float64, basis Basis, design mat.Matrix, noiseVariance float64) (float64, error) {
	c, err := NewCovariance(basis, design, noiseVariance)
	if err != nil {
		return 0, err
	}
	return c.StandardError(x)
}

// Band is a pointwise fit ± z·se band.
type Band struct {
	X     []float64
	Fit   []float64
	SE    []float64
	Lower []float64
	Upper []float64
	Level float64
}

// PointwiseBand evaluates h(x)ᵀθ̂ ± z·se(x) at every x, with z the normal
// quantile for the two-sided level (0.95 gives z ≈ 1.96).
func PointwiseBand(xs []float64, basis Basis, design mat.Matrix, coef []float64, noiseVariance, level float64) (*Band, error) {
	if level <= 0 || level >= 1 {
		return nil, errors.NewValidationError("level", "must lie in (0, 1)", level)
	}
	c, err := NewCovariance(basis, design, noiseVariance)
	if err != nil {
		return nil, err
	}
	if len(coef) != c.p {
		return nil, errors.NewDimensionError("inference.PointwiseBand", c.p, len(coef), 1)
	}
	theta := mat.NewVecDense(c.p, append([]float64(nil), coef...))
	z := distuv.UnitNormal.Quantile(1 - (1-level)/2)

	band := &Band{
		X:     append([]float64(nil), xs...),
		Fit:   make([]float64, len(xs)),
		SE:    make([]float64, len(xs)),
		Lower: make([]float64, len(xs)),
		Upper: make([]float64, len(xs)),
		Level: level,
	}
	for i, x := range xs {
		h, err := evaluate("inference.PointwiseBand", basis, c.p, x)
		if err != nil {
			return nil, err
		}
		se, err := c.StandardError(x)
		if err != nil {
			return nil, err
		}
		fit := mat.Dot(h, theta)
		band.Fit[i] = fit
		band.SE[i] = se
		band.Lower[i] = fit - z*se
		band.Upper[i] = fit + z*se
	}
	return band, nil
}
