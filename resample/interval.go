package resample

import (
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/eslgo/pkg/errors"
)

func checkInterval(op string, boot [][]float64, alpha float64) error {
	if alpha <= 0 || alpha >= 1 {
		return errors.NewValidationError("alpha", "must lie in (0, 1)", alpha)
	}
	for j, row := range boot {
		if len(row) == 0 {
			return errors.Wrapf(errors.NewInsufficientDataError(op, "bootstrap replicates", 1, 0), "evaluation point %d", j)
		}
	}
	return nil
}

// quantiles returns the empirical p-quantiles of each row.
func quantiles(boot [][]float64, ps ...float64) [][]float64 {
	out := make([][]float64, len(ps))
	for k := range ps {
		out[k] = make([]float64, len(boot))
	}
	for j, row := range boot {
		sorted := slices.Clone(row)
		slices.Sort(sorted)
		for k, p := range ps {
			out[k][j] = stat.Quantile(p, stat.Empirical, sorted, nil)
		}
	}
	return out
}

// PercentileConfidenceInterval returns the pivotal bootstrap interval at each
// evaluation point: lower = 2·θ̂ - q(1-α/2), upper = 2·θ̂ - q(α/2), where θ̂
// is original[j] and q the empirical quantile of boot[j].
func PercentileConfidenceInterval(original []float64, boot [][]float64, alpha float64) (lower, upper []float64, err error) {
	if len(original) != len(boot) {
		return nil, nil, errors.NewDimensionError("resample.PercentileConfidenceInterval", len(original), len(boot), 0)
	}
	if err := checkInterval("resample.PercentileConfidenceInterval", boot, alpha); err != nil {
		return nil, nil, err
	}
	q := quantiles(boot, alpha/2, 1-alpha/2)
	lower = make([]float64, len(boot))
	upper = make([]float64, len(boot))
	for j, theta := range original {
		lower[j] = 2*theta - q[1][j]
		upper[j] = 2*theta - q[0][j]
	}
	return lower, upper, nil
}

// NaivePercentileInterval returns [q(α/2), q(1-α/2)] of each row of boot.
func NaivePercentileInterval(boot [][]float64, alpha float64) (lower, upper []float64, err error) {
	if err := checkInterval("resample.NaivePercentileInterval", boot, alpha); err != nil {
		return nil, nil, err
	}
	q := quantiles(boot, alpha/2, 1-alpha/2)
	return q[0], q[1], nil
}
