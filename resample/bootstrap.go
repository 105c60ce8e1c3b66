// Package resample implements the bootstrap, bagging, pivotal bootstrap
// confidence intervals and cross-validation for one-predictor curve fits.
// Refits are supplied as a FitFunc so every estimator shares the same
// resampling core.
package resample

import (
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/eslgo/core/model"
	"github.com/YuminosukeSato/eslgo/core/parallel"
	"github.com/YuminosukeSato/eslgo/dataset"
	"github.com/YuminosukeSato/eslgo/pkg/errors"
	"github.com/YuminosukeSato/eslgo/pkg/log"
)

// Predictor evaluates a fitted curve.
type Predictor = model.CurvePredictor

// FitFunc fits a curve to a dataset. With more than one worker it is called
// concurrently and must not share mutable state between calls.
type FitFunc func(ds *dataset.Regression) (Predictor, error)

// CurveFit turns a CurveFitter constructor into a FitFunc; each call fits a
// fresh estimator.
func CurveFit(newFitter func() model.CurveFitter) FitFunc {
	return func(ds *dataset.Regression) (Predictor, error) {
		f := newFitter()
		if err := f.FitCurve(ds.X, ds.Y); err != nil {
			return nil, err
		}
		return f, nil
	}
}

// BootstrapIndices draws n indices uniformly with replacement from [0, n).
func BootstrapIndices(n int, rng *rand.Rand) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = rng.IntN(n)
	}
	return idx
}

// BootstrapSample returns a same-size resample of ds drawn with replacement.
func BootstrapSample(ds *dataset.Regression, rng *rand.Rand) *dataset.Regression {
	return ds.Subset(BootstrapIndices(ds.Len(), rng))
}

// replicateRNG is the deterministic source for replicate i.
func replicateRNG(seed uint64, i int) *rand.Rand {
	return rand.New(rand.NewPCG(seed, uint64(i)))
}

// Samples draws B bootstrap samples; sample i depends only on the seed and i.
func Samples(ds *dataset.Regression, opts ...Option) ([]*dataset.Regression, error) {
	cfg := newConfig(opts)
	if err := validate("resample.Samples", ds, cfg); err != nil {
		return nil, err
	}
	out := make([]*dataset.Regression, cfg.replicates)
	for i := range out {
		out[i] = BootstrapSample(ds, replicateRNG(cfg.seed, i))
	}
	return out, nil
}

// Replicate is one bootstrap refit.
type Replicate struct {
	Sample *dataset.Regression
	Model  Predictor
}

// Ensemble is the ordered set of bootstrap refits: replicate i always sits at
// index i whatever the scheduling.
type Ensemble struct {
	Replicates []Replicate
}

// Bootstrap fits B bootstrap replicates of ds on a worker pool. A failing or
// panicking refit fails the whole run.
func Bootstrap(ds *dataset.Regression, fit FitFunc, opts ...Option) (*Ensemble, error) {
	cfg := newConfig(opts)
	if err := validate("resample.Bootstrap", ds, cfg); err != nil {
		return nil, err
	}
	start := time.Now()

	reps := make([]Replicate, cfg.replicates)
	errs := make([]error, cfg.replicates)
	parallel.ForEach(cfg.replicates, cfg.workers, func(i int) {
		errs[i] = errors.SafeExecute("resample.Bootstrap", func() error {
			sample := BootstrapSample(ds, replicateRNG(cfg.seed, i))
			m, err := fit(sample)
			if err != nil {
				return errors.Wrapf(err, "bootstrap replicate %d", i)
			}
			reps[i] = Replicate{Sample: sample, Model: m}
			return nil
		})
	})
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	cfg.logger.Info("Bootstrap completed",
		log.OperationKey, log.OperationResample,
		log.SamplesKey, ds.Len(),
		log.ReplicatesKey, cfg.replicates,
		log.WorkersKey, cfg.workers,
		log.RandomSeedKey, cfg.seed,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return &Ensemble{Replicates: reps}, nil
}

func validate(op string, ds *dataset.Regression, cfg *config) error {
	if ds == nil || ds.Len() == 0 {
		return errors.NewInsufficientDataError(op, "dataset", 1, 0)
	}
	if cfg.replicates < 1 {
		return errors.NewValidationError("replicates", "must be at least 1", cfg.replicates)
	}
	return nil
}

// Len returns B.
func (e *Ensemble) Len() int { return len(e.Replicates) }

// Samples returns the bootstrap samples in replicate order.
func (e *Ensemble) Samples() []*dataset.Regression {
	out := make([]*dataset.Regression, len(e.Replicates))
	for i, r := range e.Replicates {
		out[i] = r.Sample
	}
	return out
}

// Predictions evaluates every replicate at xs; out[j][b] is replicate b at
// xs[j].
func (e *Ensemble) Predictions(xs []float64) ([][]float64, error) {
	out := make([][]float64, len(xs))
	for j, x := range xs {
		out[j] = make([]float64, len(e.Replicates))
		for b, r := range e.Replicates {
			v, err := r.Model.PredictAt(x)
			if err != nil {
				return nil, err
			}
			out[j][b] = v
		}
	}
	return out, nil
}

// Bagged returns the bagged estimate: the mean replicate prediction at each x.
func (e *Ensemble) Bagged(xs []float64) ([]float64, error) {
	preds, err := e.Predictions(xs)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(xs))
	for j, row := range preds {
		out[j] = stat.Mean(row, nil)
	}
	return out, nil
}
