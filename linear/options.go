package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/eslgo/core/model"
	"github.com/YuminosukeSato/eslgo/pkg/log"
)

// Option configures LeastSquares.
type Option func(*LeastSquares)

// WithPenalty adds λ·θᵀΩθ to the residual sum of squares. A nil omega means
// the identity (ridge).
func WithPenalty(omega mat.Matrix, lambda float64) Option {
	return func(ls *LeastSquares) {
		ls.penalty = omega
		ls.lambda = lambda
	}
}

// WithRidge is WithPenalty(nil, lambda).
func WithRidge(lambda float64) Option {
	return WithPenalty(nil, lambda)
}

// WithLogger sets the logger.
func WithLogger(l log.Logger) Option {
	return func(ls *LeastSquares) {
		ls.logger = l
	}
}

var (
	_ model.Fitter    = (*LeastSquares)(nil)
	_ model.Predictor = (*LeastSquares)(nil)
)
