// Package model holds the estimator lifecycle type and the small interfaces
// that let resampling code refit any curve estimator.
package model

import "gonum.org/v1/gonum/mat"

// Fitter is a matrix-in estimator.
type Fitter interface {
	Fit(X, y mat.Matrix) error
}

// Predictor predicts a response matrix from a design matrix.
type Predictor interface {
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// CurvePredictor evaluates a fitted one-dimensional curve.
type CurvePredictor interface {
	PredictAt(x float64) (float64, error)
}

// CurveFitter is a one-dimensional smoother with a Fit/PredictAt lifecycle.
type CurveFitter interface {
	FitCurve(x, y []float64) error
	CurvePredictor
}
