package spline

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/YuminosukeSato/eslgo/core/linalg"
	"github.com/YuminosukeSato/eslgo/core/model"
	"github.com/YuminosukeSato/eslgo/linear"
	"github.com/YuminosukeSato/eslgo/pkg/errors"
	"github.com/YuminosukeSato/eslgo/pkg/log"
)

// half-width of the log λ search window around the trace-ratio scale
const logLambdaSpan = 20.0

type lambdaSelection int

const (
	selectGCV lambdaSelection = iota
	selectFixed
	selectDF
)

func (s lambdaSelection) String() string {
	switch s {
	case selectFixed:
		return "fixed"
	case selectDF:
		return "df"
	default:
		return "gcv"
	}
}

// SmoothingSpline is a natural cubic spline with one knot per distinct
// predictor value, fitted by minimizing RSS + λ θᵀΩθ. By default λ minimizes
// the generalized cross-validation score.
type SmoothingSpline struct {
	model.BaseEstimator

	selection lambdaSelection
	lambda    float64
	df        float64
	logger    log.Logger

	basis         *Natural
	omega         *mat.SymDense
	design        *mat.Dense
	coef          *mat.VecDense
	fitted        []float64
	lambdaUsed    float64
	effectiveDF   float64
	noiseVariance float64
}

// SmoothingOption configures SmoothingSpline.
type SmoothingOption func(*SmoothingSpline)

// WithLambda fixes λ.
func WithLambda(lambda float64) SmoothingOption {
	return func(s *SmoothingSpline) {
		s.selection = selectFixed
		s.lambda = lambda
	}
}

// WithDF chooses λ so that trace(S_λ) equals df.
func WithDF(df float64) SmoothingOption {
	return func(s *SmoothingSpline) {
		s.selection = selectDF
		s.df = df
	}
}

// WithGCV chooses λ by generalized cross-validation. This is the default.
func WithGCV() SmoothingOption {
	return func(s *SmoothingSpline) { s.selection = selectGCV }
}

// WithSmoothingLogger sets the logger.
func WithSmoothingLogger(l log.Logger) SmoothingOption {
	return func(s *SmoothingSpline) { s.logger = l }
}

// NewSmoothingSpline returns an unfitted smoothing spline.
func NewSmoothingSpline(opts ...SmoothingOption) *SmoothingSpline {
	s := &SmoothingSpline{logger: log.GetLoggerWithName("spline")}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FitCurve places the knots at the distinct values of x, selects λ and fits
// the penalized coefficients.
func (s *SmoothingSpline) FitCurve(x, y []float64) error {
	if len(x) != len(y) {
		return errors.NewDimensionError("spline.SmoothingSpline.FitCurve", len(x), len(y), 0)
	}
	knots := UniqueKnots(x)
	basis, err := NewNatural(knots)
	if err != nil {
		return err
	}
	H, err := DesignMatrix(basis, x)
	if err != nil {
		return err
	}
	omega := NaturalPenalty(basis)
	yVec := mat.NewVecDense(len(y), append([]float64(nil), y...))

	var lambda float64
	switch s.selection {
	case selectFixed:
		if s.lambda < 0 {
			return errors.NewValidationError("lambda", "must be non-negative", s.lambda)
		}
		lambda = s.lambda
	case selectDF:
		lambda, err = LambdaForDF(H, omega, s.df)
	default:
		lambda, err = SelectLambdaGCV(H, omega, yVec)
	}
	if err != nil {
		return err
	}

	coef, err := linear.FitRidge(H, yVec, omega, lambda)
	if err != nil {
		return err
	}
	df, err := linear.EffectiveDF(H, omega, lambda)
	if err != nil {
		return err
	}
	var fitted mat.VecDense
	fitted.MulVec(H, coef)
	sigma2, err := linear.EstimateNoiseVariance(fitted.RawVector().Data, y)
	if err != nil {
		return err
	}
	if err := errors.CheckScalar("spline.SmoothingSpline.FitCurve", sigma2, 0); err != nil {
		return err
	}

	s.basis = basis
	s.omega = omega
	s.design = H
	s.coef = coef
	s.fitted = fitted.RawVector().Data
	s.lambdaUsed = lambda
	s.effectiveDF = df
	s.noiseVariance = sigma2
	s.SetFitted()

	s.logger.Debug("Smoothing spline fitted",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, len(x),
		log.BasisDimKey, basis.Dim(),
		log.SelectionKey, s.selection.String(),
		log.LambdaKey, lambda,
		log.DFKey, df,
	)
	return nil
}

// PredictAt returns N(x)ᵀθ̂.
func (s *SmoothingSpline) PredictAt(x float64) (float64, error) {
	if !s.IsFitted() {
		return 0, errors.NewNotFittedError("spline.SmoothingSpline", "PredictAt")
	}
	return mat.Dot(mat.NewVecDense(s.basis.Dim(), s.basis.Evaluate(x)), s.coef), nil
}

// Predict evaluates the fitted curve at every x.
func (s *SmoothingSpline) Predict(xs []float64) ([]float64, error) {
	return predictAll(s, xs)
}

// Lambda returns the λ used by the last fit.
func (s *SmoothingSpline) Lambda() float64 { return s.lambdaUsed }

// EffectiveDF returns trace(S_λ) of the last fit.
func (s *SmoothingSpline) EffectiveDF() float64 { return s.effectiveDF }

// NoiseVariance returns the mean squared residual of the last fit.
func (s *SmoothingSpline) NoiseVariance() float64 { return s.noiseVariance }

// Basis returns the natural basis with a knot at each distinct x.
func (s *SmoothingSpline) Basis() Basis { return s.basis }

// Design returns the N×K design matrix, K the number of distinct x.
func (s *SmoothingSpline) Design() *mat.Dense { return s.design }

// Penalty returns Ω.
func (s *SmoothingSpline) Penalty() *mat.SymDense { return s.omega }

// FittedValues returns a copy of the in-sample fit.
func (s *SmoothingSpline) FittedValues() []float64 { return append([]float64(nil), s.fitted...) }

// Coefficients returns a copy of θ̂, or nil before Fit.
func (s *SmoothingSpline) Coefficients() []float64 {
	if s.coef == nil {
		return nil
	}
	return append([]float64(nil), s.coef.RawVector().Data...)
}

// lambdaScale is ln(tr(HᵀH)/tr(Ω)), the λ at which data and penalty terms
// have comparable size. ok is false when Ω is zero.
func lambdaScale(H mat.Matrix, omega mat.Matrix) (float64, bool) {
	tp := linalg.Trace(omega)
	if tp <= 0 {
		return 0, false
	}
	return math.Log(linalg.Trace(linalg.Gram(H)) / tp), true
}

// LambdaForDF returns the λ for which trace(S_λ) = df, found by bisection on
// log λ. df must lie in (2, p] where p is the basis dimension.
func LambdaForDF(H mat.Matrix, omega mat.Matrix, df float64) (float64, error) {
	_, p := H.Dims()
	if df <= 2 || df > float64(p) {
		return 0, errors.NewValidationError("df", "must lie in (2, basis dimension]", df)
	}
	center, ok := lambdaScale(H, omega)
	if !ok {
		return 0, nil
	}
	dfAt := func(rho float64) (float64, error) {
		return linear.EffectiveDF(H, omega, math.Exp(rho))
	}

	lo, hi := center-logLambdaSpan, center+logLambdaSpan
	dfLo, err := dfAt(lo)
	if err != nil {
		return 0, err
	}
	if dfLo <= df {
		return math.Exp(lo), nil
	}
	for iter := 0; iter < 200; iter++ {
		mid := (lo + hi) / 2
		d, err := dfAt(mid)
		if err != nil {
			return 0, err
		}
		if math.Abs(d-df) < 1e-8 {
			return math.Exp(mid), nil
		}
		if d > df {
			lo = mid
		} else {
			hi = mid
		}
	}
	return math.Exp((lo + hi) / 2), nil
}

// GCVScore returns (RSS/N) / (1 - df/N)² for the penalized fit at λ. It is
// +Inf when df ≥ N.
func GCVScore(H mat.Matrix, omega mat.Matrix, y mat.Vector, lambda float64) (float64, error) {
	n, _ := H.Dims()
	coef, err := linear.FitRidge(H, y, omega, lambda)
	if err != nil {
		return 0, err
	}
	df, err := linear.EffectiveDF(H, omega, lambda)
	if err != nil {
		return 0, err
	}
	var fitted, resid mat.VecDense
	fitted.MulVec(H, coef)
	resid.SubVec(y, &fitted)
	rss := mat.Dot(&resid, &resid)
	if err := errors.CheckScalar("spline.GCVScore", rss, 0); err != nil {
		return 0, err
	}

	denom := 1 - df/float64(n)
	if denom <= 0 {
		return math.Inf(1), nil
	}
	return (rss / float64(n)) / (denom * denom), nil
}

// SelectLambdaGCV minimizes GCVScore over log λ: a coarse grid locates the
// basin and Nelder-Mead refines it.
func SelectLambdaGCV(H mat.Matrix, omega mat.Matrix, y mat.Vector) (float64, error) {
	center, ok := lambdaScale(H, omega)
	if !ok {
		return 0, nil
	}
	lo, hi := center-logLambdaSpan, center+logLambdaSpan
	clamp := func(rho float64) float64 { return math.Min(math.Max(rho, lo), hi) }

	var evalErr error
	objective := func(x []float64) float64 {
		score, err := GCVScore(H, omega, y, math.Exp(clamp(x[0])))
		if err != nil {
			evalErr = err
			return math.MaxFloat64
		}
		if math.IsInf(score, 1) || math.IsNaN(score) {
			return math.MaxFloat64
		}
		return score
	}

	best, bestScore := center, math.Inf(1)
	for rho := center - 10; rho <= center+10; rho++ {
		if v := objective([]float64{rho}); v < bestScore {
			best, bestScore = rho, v
		}
	}
	if evalErr != nil {
		return 0, evalErr
	}

	problem := optimize.Problem{Func: objective}
	settings := &optimize.Settings{FuncEvaluations: 500}
	result, err := optimize.Minimize(problem, []float64{best}, settings, &optimize.NelderMead{SimplexSize: 1})
	if evalErr != nil {
		return 0, evalErr
	}
	if result == nil {
		return 0, errors.Wrap(err, "spline.SelectLambdaGCV")
	}
	if result.F > bestScore {
		return math.Exp(best), nil
	}
	return math.Exp(clamp(result.X[0])), nil
}
