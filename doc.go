// Package eslgo implements the classical statistical-learning toolkit of
// discriminant classification and basis-expansion regression: quadratic and
// linear discriminant analysis, truncated-power and natural cubic splines,
// smoothing splines, sampling and Bayesian inference for fitted curves, and
// bootstrap and cross-validation resampling.
//
// Every matrix inversion goes through the Moore-Penrose pseudo-inverse, so a
// singular covariance or Gram matrix never makes a fit fail.
//
// # Quick Start
//
// Classify with quadratic discriminant analysis:
//
//	train, err := dataset.LoadVowelFile("vowel.train")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	m, err := discriminant.Train(train, discriminant.Quadratic)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	rep, err := discriminant.EvaluateErrorRate(train, m)
//
// Fit a smoothing spline with λ chosen by generalized cross-validation and
// bootstrap a pivotal confidence interval:
//
//	s := spline.NewSmoothingSpline()
//	if err := s.FitCurve(ds.X, ds.Y); err != nil {
//	    log.Fatal(err)
//	}
//	fit := resample.CurveFit(func() model.CurveFitter { return spline.NewSmoothingSpline() })
//	ens, err := resample.Bootstrap(ds, fit, resample.WithReplicates(200), resample.WithSeed(1))
//	boot, err := ens.Predictions(xs)
//	original, err := s.Predict(xs)
//	lower, upper, err := resample.PercentileConfidenceInterval(original, boot, 0.05)
//
// # Packages
//
//   - dataset: classification and regression tables, delimited-text loaders
//   - discriminant: class statistics, QDA/LDA scores, error-rate evaluation
//   - preprocessing: pairwise product feature augmentation
//   - spline: bases, knots, the natural-spline penalty, regression and smoothing splines
//   - linear: ordinary and penalized least squares, hat matrix, effective df
//   - inference: standard errors, pointwise bands, Gaussian-prior posterior
//   - resample: bootstrap ensembles, pivotal intervals, LOOCV, bagged and k-fold CV
//   - metrics: regression and classification scores
//   - report: gonum/plot figures and text tables
//   - core/linalg, core/model, core/parallel: shared numeric, estimator and worker-pool plumbing
//   - pkg/errors, pkg/log: error types and structured logging
package eslgo
