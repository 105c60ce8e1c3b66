package model

// EstimatorState records whether an estimator has been fitted.
type EstimatorState int

const (
	// NotFitted is the state of a freshly constructed estimator.
	NotFitted EstimatorState = iota
	// Fitted is the state after a successful Fit.
	Fitted
)

// BaseEstimator is embedded by every estimator with a Fit/Predict lifecycle.
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted reports whether Fit has succeeded.
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted marks the estimator as fitted.
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset returns the estimator to the unfitted state.
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}
