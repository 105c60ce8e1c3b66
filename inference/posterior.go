package inference

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"

	"github.com/YuminosukeSato/eslgo/core/linalg"
	"github.com/YuminosukeSato/eslgo/pkg/errors"
)

// Posterior is the coefficient posterior under the prior θ ~ N(0, τI) and
// Gaussian noise of variance σ². With A = (XᵀX + (σ²/τ)I)⁺ the posterior
// mean of θ is A Xᵀy and its covariance is σ²A.
type Posterior struct {
	basis  Basis
	a      *mat.Dense
	mean   *mat.VecDense
	sigma2 float64
	p      int
}

// NewPosterior computes A and the posterior mean for the design and
// responses. τ must be positive.
func NewPosterior(basis Basis, design mat.Matrix, y []float64, noiseVariance, tau float64) (*Posterior, error) {
	if tau <= 0 {
		return nil, errors.NewValidationError("tau", "must be positive", tau)
	}
	if noiseVariance < 0 {
		return nil, errors.NewValidationError("noiseVariance", "must be non-negative", noiseVariance)
	}
	n, p := design.Dims()
	if len(y) != n {
		return nil, errors.NewDimensionError("inference.NewPosterior", n, len(y), 0)
	}
	if basis.Dim() != p {
		return nil, errors.NewDimensionError("inference.NewPosterior", p, basis.Dim(), 1)
	}

	m := mat.DenseCopyOf(linalg.Gram(design))
	ratio := noiseVariance / tau
	for i := 0; i < p; i++ {
		m.Set(i, i, m.At(i, i)+ratio)
	}
	a, err := linalg.PseudoInverse(m)
	if err != nil {
		return nil, err
	}

	var xty mat.VecDense
	xty.MulVec(design.T(), mat.NewVecDense(n, append([]float64(nil), y...)))
	mean := mat.NewVecDense(p, nil)
	mean.MulVec(a, &xty)

	return &Posterior{basis: basis, a: a, mean: mean, sigma2: noiseVariance, p: p}, nil
}

// Mean returns h(x)ᵀ A Xᵀy.
func (p *Posterior) Mean(x float64) (float64, error) {
	h, err := evaluate("inference.Posterior.Mean", p.basis, p.p, x)
	if err != nil {
		return 0, err
	}
	return mat.Dot(h, p.mean), nil
}

// Covariance returns h(x)ᵀ A h(x') σ².
func (p *Posterior) Covariance(x, x2 float64) (float64, error) {
	h, err := evaluate("inference.Posterior.Covariance", p.basis, p.p, x)
	if err != nil {
		return 0, err
	}
	h2, err := evaluate("inference.Posterior.Covariance", p.basis, p.p, x2)
	if err != nil {
		return 0, err
	}
	return linalg.QuadForm(h, p.a, h2) * p.sigma2, nil
}

// CoefficientMean returns a copy of the posterior mean of θ.
func (p *Posterior) CoefficientMean() []float64 {
	return append([]float64(nil), p.mean.RawVector().Data...)
}

// CoefficientCovariance returns σ²A, symmetrized.
func (p *Posterior) CoefficientCovariance() *mat.SymDense {
	cov := mat.NewSymDense(p.p, nil)
	for i := 0; i < p.p; i++ {
		for j := i; j < p.p; j++ {
			cov.SetSym(i, j, p.sigma2*(p.a.At(i, j)+p.a.At(j, i))/2)
		}
	}
	return cov
}

// Draws samples n coefficient vectors from the posterior. The same seed
// yields the same draws.
func (p *Posterior) Draws(n int, seed uint64) ([][]float64, error) {
	if n < 1 {
		return nil, errors.NewValidationError("n", "must be at least 1", n)
	}
	dist, ok := distmv.NewNormal(p.CoefficientMean(), p.CoefficientCovariance(), rand.NewPCG(seed, 0))
	if !ok {
		return nil, errors.NewValueError("inference.Posterior.Draws", "posterior covariance is not positive definite")
	}
	out := make([][]float64, n)
	for i := range out {
		out[i] = dist.Rand(nil)
	}
	return out, nil
}

// DrawCurves evaluates n posterior coefficient draws at xs; out[d][j] is
// draw d at xs[j].
func (p *Posterior) DrawCurves(xs []float64, n int, seed uint64) ([][]float64, error) {
	draws, err := p.Draws(n, seed)
	if err != nil {
		return nil, err
	}
	H := make([]*mat.VecDense, len(xs))
	for j, x := range xs {
		h, err := evaluate("inference.Posterior.DrawCurves", p.basis, p.p, x)
		if err != nil {
			return nil, err
		}
		H[j] = h
	}
	out := make([][]float64, n)
	for d, theta := range draws {
		tv := mat.NewVecDense(p.p, theta)
		out[d] = make([]float64, len(xs))
		for j := range xs {
			out[d][j] = mat.Dot(H[j], tv)
		}
	}
	return out, nil
}

// PosteriorMean is the one-shot form of Posterior.Mean.
func PosteriorMean(x float64, basis Basis, design mat.Matrix, y []float64, noiseVariance, tau float64) (float64, error) {
	p, err := NewPosterior(basis, design, y, noiseVariance, tau)
	if err != nil {
		return 0, err
	}
	return p.Mean(x)
}

// PosteriorCovariance is the one-shot form of Posterior.Covariance. The
// responses do not enter the covariance, so none are taken.
func PosteriorCovariance(x, x2 float64, basis Basis, design mat.Matrix, noiseVariance, tau float64) (float64, error) {
	n, _ := design.Dims()
	p, err := NewPosterior(basis, design, make([]float64, n), noiseVariance, tau)
	if err != nil {
		return 0, err
	}
	return p.Covariance(x, x2)
}
