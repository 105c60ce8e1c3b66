package resample

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/eslgo/core/parallel"
	"github.com/YuminosukeSato/eslgo/dataset"
	"github.com/YuminosukeSato/eslgo/pkg/errors"
	"github.com/YuminosukeSato/eslgo/pkg/log"
)

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// LeaveOneOutCV refits on ds minus row i for every i and returns the mean
// squared error of the prediction at x_i.
func LeaveOneOutCV(ds *dataset.Regression, fit FitFunc, opts ...Option) (float64, error) {
	cfg := newConfig(opts)
	if ds == nil || ds.Len() < 2 {
		n := 0
		if ds != nil {
			n = ds.Len()
		}
		return 0, errors.NewInsufficientDataError("resample.LeaveOneOutCV", "dataset", 2, n)
	}

	sq := make([]float64, ds.Len())
	errs := make([]error, ds.Len())
	parallel.ForEach(ds.Len(), cfg.workers, func(i int) {
		errs[i] = errors.SafeExecute("resample.LeaveOneOutCV", func() error {
			m, err := fit(ds.WithoutRow(i))
			if err != nil {
				return errors.Wrapf(err, "leave out row %d", i)
			}
			pred, err := m.PredictAt(ds.X[i])
			if err != nil {
				return err
			}
			d := ds.Y[i] - pred
			sq[i] = d * d
			return nil
		})
	})
	if err := firstError(errs); err != nil {
		return 0, err
	}

	cv := stat.Mean(sq, nil)
	cfg.logger.Debug("Leave-one-out CV completed",
		log.OperationKey, log.OperationEvaluate,
		log.SamplesKey, ds.Len(),
		log.CVErrorKey, cv,
	)
	return cv, nil
}

// BaggedCV estimates the prediction error of the bagged fit. For each row i
// every bootstrap sample is stripped of all rows whose predictor equals x_i,
// refit, and evaluated at x_i; the average of those predictions is compared
// with y_i. Samples left empty are skipped, and so are refits that fail with
// an InsufficientDataError, such as a smoothing spline left with a single
// distinct x. Any other refit error aborts the run. Rows with no surviving
// sample are dropped and the result averages the squared errors of the rest.
func BaggedCV(ds *dataset.Regression, samples []*dataset.Regression, fit FitFunc, opts ...Option) (float64, error) {
	cfg := newConfig(opts)
	if ds == nil || ds.Len() == 0 {
		return 0, errors.NewInsufficientDataError("resample.BaggedCV", "dataset", 1, 0)
	}
	if len(samples) == 0 {
		return 0, errors.NewInsufficientDataError("resample.BaggedCV", "bootstrap samples", 1, 0)
	}

	sq := make([]float64, ds.Len())
	skipped := make([]int, ds.Len())
	errs := make([]error, ds.Len())
	parallel.ForEach(ds.Len(), cfg.workers, func(i int) {
		sq[i] = math.NaN()
		errs[i] = errors.SafeExecute("resample.BaggedCV", func() error {
			x := ds.X[i]
			var sum float64
			used := 0
			for b, s := range samples {
				reduced := s.WithoutValue(x)
				if reduced.Len() == 0 {
					continue
				}
				m, err := fit(reduced)
				var insErr *errors.InsufficientDataError
				if errors.As(err, &insErr) {
					skipped[i]++
					continue
				}
				if err != nil {
					return errors.Wrapf(err, "row %d, bootstrap sample %d", i, b)
				}
				pred, err := m.PredictAt(x)
				if err != nil {
					return err
				}
				sum += pred
				used++
			}
			if used > 0 {
				d := ds.Y[i] - sum/float64(used)
				sq[i] = d * d
			}
			return nil
		})
	})
	if err := firstError(errs); err != nil {
		return 0, err
	}

	cv, rows := nanMean(sq)
	if rows == 0 {
		return 0, errors.NewInsufficientDataError("resample.BaggedCV", "rows with a usable refit", 1, 0)
	}
	var skips int
	for _, n := range skipped {
		skips += n
	}
	cfg.logger.Debug("Bagged CV completed",
		log.OperationKey, log.OperationEvaluate,
		log.SamplesKey, ds.Len(),
		log.ReplicatesKey, len(samples),
		log.SkippedRefitsKey, skips,
		log.CVErrorKey, cv,
	)
	return cv, nil
}

// OutOfBagError scores the ensemble without refitting: row i is predicted by
// the mean of the replicates whose sample holds no row with predictor x_i.
// Rows covered by every sample are skipped.
func OutOfBagError(ds *dataset.Regression, e *Ensemble) (float64, error) {
	if ds == nil || ds.Len() == 0 {
		return 0, errors.NewInsufficientDataError("resample.OutOfBagError", "dataset", 1, 0)
	}
	sq := make([]float64, ds.Len())
	for i, x := range ds.X {
		sq[i] = math.NaN()
		var sum float64
		used := 0
		for _, r := range e.Replicates {
			if r.Sample.Contains(x) {
				continue
			}
			pred, err := r.Model.PredictAt(x)
			if err != nil {
				return 0, err
			}
			sum += pred
			used++
		}
		if used > 0 {
			d := ds.Y[i] - sum/float64(used)
			sq[i] = d * d
		}
	}
	cv, rows := nanMean(sq)
	if rows == 0 {
		return 0, errors.NewInsufficientDataError("resample.OutOfBagError", "out-of-bag rows", 1, 0)
	}
	return cv, nil
}

// KFoldCV shuffles the rows with the configured seed, splits them into k
// folds and returns the mean squared prediction error over all held-out rows.
func KFoldCV(ds *dataset.Regression, fit FitFunc, k int, opts ...Option) (float64, error) {
	cfg := newConfig(opts)
	if ds == nil || ds.Len() == 0 {
		return 0, errors.NewInsufficientDataError("resample.KFoldCV", "dataset", 1, 0)
	}
	if k < 2 || k > ds.Len() {
		return 0, errors.NewValidationError("k", "must lie in [2, rows]", k)
	}

	perm := replicateRNG(cfg.seed, 0).Perm(ds.Len())
	fold := make([]int, ds.Len())
	for pos, row := range perm {
		fold[row] = pos % k
	}

	sq := make([]float64, ds.Len())
	errs := make([]error, k)
	parallel.ForEach(k, cfg.workers, func(f int) {
		errs[f] = errors.SafeExecute("resample.KFoldCV", func() error {
			var train, test []int
			for row, g := range fold {
				if g == f {
					test = append(test, row)
				} else {
					train = append(train, row)
				}
			}
			m, err := fit(ds.Subset(train))
			if err != nil {
				return errors.Wrapf(err, "fold %d", f)
			}
			for _, row := range test {
				pred, err := m.PredictAt(ds.X[row])
				if err != nil {
					return err
				}
				d := ds.Y[row] - pred
				sq[row] = d * d
			}
			return nil
		})
	})
	if err := firstError(errs); err != nil {
		return 0, err
	}

	cv := stat.Mean(sq, nil)
	cfg.logger.Debug("K-fold CV completed",
		log.OperationKey, log.OperationEvaluate,
		log.SamplesKey, ds.Len(),
		log.FoldsKey, k,
		log.CVErrorKey, cv,
	)
	return cv, nil
}

// nanMean averages the non-NaN entries and reports how many there were.
func nanMean(v []float64) (float64, int) {
	var s float64
	n := 0
	for _, x := range v {
		if !math.IsNaN(x) {
			s += x
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	return s / float64(n), n
}
