package spline

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/eslgo/core/model"
	"github.com/YuminosukeSato/eslgo/linear"
	"github.com/YuminosukeSato/eslgo/pkg/errors"
	"github.com/YuminosukeSato/eslgo/pkg/log"
)

// DefaultOrder is the cubic spline order.
const DefaultOrder = 4

var (
	_ model.CurveFitter = (*Model)(nil)
	_ model.CurveFitter = (*SmoothingSpline)(nil)
)

// Model is a spline fitted by ordinary least squares on a fixed basis.
// Refitting on a resampled dataset keeps the basis, and with it the knots.
type Model struct {
	model.BaseEstimator

	basis  Basis
	logger log.Logger

	coef          *mat.VecDense
	design        *mat.Dense
	fitted        []float64
	noiseVariance float64
}

// ModelOption configures Model.
type ModelOption func(*Model)

// WithModelLogger sets the logger.
func WithModelLogger(l log.Logger) ModelOption {
	return func(m *Model) { m.logger = l }
}

// NewModel returns an unfitted model over b.
func NewModel(b Basis, opts ...ModelOption) *Model {
	m := &Model{basis: b, logger: log.GetLoggerWithName("spline")}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FitCurve fits θ̂ = (HᵀH)⁺Hᵀy with H the design matrix of x.
func (m *Model) FitCurve(x, y []float64) error {
	if len(x) != len(y) {
		return errors.NewDimensionError("spline.Model.FitCurve", len(x), len(y), 0)
	}
	H, err := DesignMatrix(m.basis, x)
	if err != nil {
		return err
	}
	coef, err := linear.FitOLS(H, mat.NewVecDense(len(y), append([]float64(nil), y...)))
	if err != nil {
		return err
	}
	var fitted mat.VecDense
	fitted.MulVec(H, coef)
	sigma2, err := linear.EstimateNoiseVariance(fitted.RawVector().Data, y)
	if err != nil {
		return err
	}

	m.coef = coef
	m.design = H
	m.fitted = fitted.RawVector().Data
	m.noiseVariance = sigma2
	m.SetFitted()

	m.logger.Debug("Spline fitted",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, len(x),
		log.BasisDimKey, m.basis.Dim(),
		log.NoiseVarianceKey, sigma2,
	)
	return nil
}

// PredictAt returns h(x)ᵀθ̂.
func (m *Model) PredictAt(x float64) (float64, error) {
	if !m.IsFitted() {
		return 0, errors.NewNotFittedError("spline.Model", "PredictAt")
	}
	return mat.Dot(mat.NewVecDense(m.basis.Dim(), m.basis.Evaluate(x)), m.coef), nil
}

// Predict evaluates the fitted curve at every x.
func (m *Model) Predict(xs []float64) ([]float64, error) {
	return predictAll(m, xs)
}

// Basis returns the basis the model was built with.
func (m *Model) Basis() Basis { return m.basis }

// Design returns the training design matrix.
func (m *Model) Design() *mat.Dense { return m.design }

// Coefficients returns a copy of θ̂.
func (m *Model) Coefficients() []float64 {
	if m.coef == nil {
		return nil
	}
	return append([]float64(nil), m.coef.RawVector().Data...)
}

// FittedValues returns ŷ at the training points.
func (m *Model) FittedValues() []float64 { return append([]float64(nil), m.fitted...) }

// NoiseVariance returns (1/N) Σ (y - ŷ)².
func (m *Model) NoiseVariance() float64 { return m.noiseVariance }

func predictAll(p model.CurvePredictor, xs []float64) ([]float64, error) {
	out := make([]float64, len(xs))
	for i, x := range xs {
		v, err := p.PredictAt(x)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
