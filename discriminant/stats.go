// Package discriminant implements Gaussian discriminant analysis: per-class
// means, priors and covariances, the pooled covariance, and quadratic or
// linear discriminant scoring with argmax classification.
package discriminant

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/eslgo/dataset"
	"github.com/YuminosukeSato/eslgo/pkg/errors"
)

// ClassStatistics are the sufficient statistics of a labeled training set.
// Slices are indexed by class position; Classes[k] is the label of class k,
// in ascending label order. Read-only after construction.
type ClassStatistics struct {
	Classes     []int
	Counts      []int
	Priors      []float64
	Means       []*mat.VecDense
	Covariances []*mat.SymDense
	// Pooled is (1/(N-K)) Σ_k (N_k-1) Σ_k.
	Pooled *mat.SymDense
	Dim    int
	N      int
}

// NumClasses returns K.
func (s *ClassStatistics) NumClasses() int { return len(s.Classes) }

// ClassIndex returns the position of label, or -1.
func (s *ClassStatistics) ClassIndex(label int) int {
	for k, c := range s.Classes {
		if c == label {
			return k
		}
	}
	return -1
}

// ComputeClassStatistics estimates means, priors, unbiased covariances and the
// pooled covariance. Every class needs at least two rows.
func ComputeClassStatistics(ds *dataset.Classification) (*ClassStatistics, error) {
	if ds == nil || ds.Len() == 0 {
		return nil, errors.NewInsufficientDataError("ComputeClassStatistics", "dataset", 1, 0)
	}

	if ds.Dim() == 0 {
		return nil, errors.NewInsufficientDataError("ComputeClassStatistics", "features", 1, 0)
	}

	classes := ds.Classes()
	p := ds.Dim()
	n := ds.Len()
	s := &ClassStatistics{
		Classes:     classes,
		Counts:      make([]int, len(classes)),
		Priors:      make([]float64, len(classes)),
		Means:       make([]*mat.VecDense, len(classes)),
		Covariances: make([]*mat.SymDense, len(classes)),
		Pooled:      mat.NewSymDense(p, nil),
		Dim:         p,
		N:           n,
	}

	for k, label := range classes {
		rows := ds.RowsOf(label)
		nk := len(rows)
		if nk < 2 {
			return nil, errors.NewInsufficientDataError("ComputeClassStatistics", fmt.Sprintf("class %d", label), 2, nk)
		}

		x := mat.NewDense(nk, p, nil)
		for i, row := range rows {
			x.SetRow(i, row)
		}

		mean := mat.NewVecDense(p, nil)
		col := make([]float64, nk)
		for j := 0; j < p; j++ {
			mat.Col(col, j, x)
			mean.SetVec(j, stat.Mean(col, nil))
		}

		// unbiased: divisor N_k - 1
		cov := mat.NewSymDense(p, nil)
		stat.CovarianceMatrix(cov, x, nil)

		s.Counts[k] = nk
		s.Priors[k] = float64(nk) / float64(n)
		s.Means[k] = mean
		s.Covariances[k] = cov
		s.Pooled.AddSym(s.Pooled, scaledSym(cov, float64(nk-1)))
	}
	s.Pooled.ScaleSym(1/float64(n-len(classes)), s.Pooled)

	return s, nil
}

func scaledSym(a *mat.SymDense, f float64) *mat.SymDense {
	out := mat.NewSymDense(a.SymmetricDim(), nil)
	out.ScaleSym(f, a)
	return out
}
