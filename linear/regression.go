// Package linear fits basis coefficients by ordinary or penalized least
// squares through the normal equations. The Gram matrix is inverted with the
// pseudo-inverse, so collinear or rank-deficient designs still produce the
// minimum-norm solution.
package linear

import (
	"github.com/YuminosukeSato/eslgo/core/linalg"
	"github.com/YuminosukeSato/eslgo/core/model"
	"github.com/YuminosukeSato/eslgo/metrics"
	"github.com/YuminosukeSato/eslgo/pkg/errors"
	"github.com/YuminosukeSato/eslgo/pkg/log"
	"gonum.org/v1/gonum/mat"
)

// LeastSquares fits θ̂ = (XᵀX + λΩ)⁺ Xᵀy. With no penalty it is ordinary
// least squares. The design matrix is used as given: include an intercept
// column in X when one is wanted.
type LeastSquares struct {
	model.BaseEstimator

	Coef          *mat.VecDense
	NFeatures     int
	NoiseVariance float64 // (1/N) Σ (y - ŷ)²

	penalty mat.Matrix
	lambda  float64
	logger  log.Logger
}

// NewLeastSquares returns an unfitted estimator.
func NewLeastSquares(opts ...Option) *LeastSquares {
	ls := &LeastSquares{logger: log.GetLoggerWithName("linear")}
	for _, opt := range opts {
		opt(ls)
	}
	return ls
}

// Fit estimates the coefficients. y must be a column vector.
func (ls *LeastSquares) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("LeastSquares.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("LeastSquares.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("LeastSquares.Fit", "y must be a column vector")
	}
	yVec := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yVec.SetVec(i, y.At(i, 0))
	}

	var (
		coef *mat.VecDense
		err  error
	)
	if ls.lambda > 0 || ls.penalty != nil {
		coef, err = FitRidge(X, yVec, ls.penalty, ls.lambda)
	} else {
		coef, err = FitOLS(X, yVec)
	}
	if err != nil {
		return err
	}

	var fitted mat.VecDense
	fitted.MulVec(X, coef)
	sigma2, err := EstimateNoiseVariance(fitted.RawVector().Data, yVec.RawVector().Data)
	if err != nil {
		return err
	}

	ls.Coef = coef
	ls.NFeatures = c
	ls.NoiseVariance = sigma2
	ls.SetFitted()

	ls.logger.Debug("Least squares fitted",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, r,
		log.FeaturesKey, c,
		log.LambdaKey, ls.lambda,
		log.NoiseVarianceKey, sigma2,
	)
	return nil
}

// Predict returns Xθ̂ as an n×1 matrix.
func (ls *LeastSquares) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !ls.IsFitted() {
		return nil, errors.NewNotFittedError("LeastSquares", "Predict")
	}
	r, c := X.Dims()
	if c != ls.NFeatures {
		return nil, errors.NewDimensionError("LeastSquares.Predict", ls.NFeatures, c, 1)
	}
	out := mat.NewDense(r, 1, nil)
	out.Mul(X, ls.Coef)
	return out, nil
}

// Coefficients returns a copy of θ̂.
func (ls *LeastSquares) Coefficients() []float64 {
	if ls.Coef == nil {
		return nil
	}
	return append([]float64(nil), ls.Coef.RawVector().Data...)
}

// Score returns R² on (X, y).
func (ls *LeastSquares) Score(X, y mat.Matrix) (float64, error) {
	pred, err := ls.Predict(X)
	if err != nil {
		return 0, err
	}
	r, _ := y.Dims()
	yTrue := make([]float64, r)
	yPred := make([]float64, r)
	for i := 0; i < r; i++ {
		yTrue[i] = y.At(i, 0)
		yPred[i] = pred.At(i, 0)
	}
	return metrics.R2Score(yTrue, yPred)
}

// FitOLS returns θ̂ = (XᵀX)⁺ Xᵀy.
func FitOLS(X mat.Matrix, y mat.Vector) (*mat.VecDense, error) {
	return FitRidge(X, y, nil, 0)
}

// FitRidge returns θ̂ = (XᵀX + λΩ)⁺ Xᵀy. A nil omega means the identity.
// Ω must be positive semi-definite; that is the caller's responsibility.
func FitRidge(X mat.Matrix, y mat.Vector, omega mat.Matrix, lambda float64) (*mat.VecDense, error) {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewModelError("linear.FitRidge", "empty data", errors.ErrEmptyData)
	}
	if y.Len() != r {
		return nil, errors.NewDimensionError("linear.FitRidge", r, y.Len(), 0)
	}

	a, err := NormalMatrix(X, omega, lambda)
	if err != nil {
		return nil, err
	}
	inv, err := linalg.PseudoInverse(a)
	if err != nil {
		return nil, err
	}

	var xty mat.VecDense
	xty.MulVec(X.T(), y)
	coef := mat.NewVecDense(c, nil)
	coef.MulVec(inv, &xty)

	if err := errors.CheckNumericalStability("linear.FitRidge", coef.RawVector().Data, 0); err != nil {
		return nil, err
	}
	return coef, nil
}

// NormalMatrix returns XᵀX + λΩ (Ω = I when nil, ignored when λ = 0).
func NormalMatrix(X mat.Matrix, omega mat.Matrix, lambda float64) (*mat.Dense, error) {
	_, c := X.Dims()
	if lambda < 0 {
		return nil, errors.NewValidationError("lambda", "must be non-negative", lambda)
	}
	a := mat.DenseCopyOf(linalg.Gram(X))
	if lambda == 0 {
		return a, nil
	}
	if omega == nil {
		omega = linalg.Identity(c)
	}
	or, oc := omega.Dims()
	if or != c || oc != c {
		return nil, errors.NewDimensionError("linear.NormalMatrix", c, or, 1)
	}
	var pen mat.Dense
	pen.Scale(lambda, omega)
	a.Add(a, &pen)
	return a, nil
}

// EstimateNoiseVariance returns (1/N) Σ (y_i - ŷ_i)².
func EstimateNoiseVariance(fitted, y []float64) (float64, error) {
	return metrics.MSE(y, fitted)
}
