// Package dataset defines the in-memory tables consumed by the estimators and
// the loaders for the vowel, bone-density and ozone files.
package dataset

import (
	"slices"

	"github.com/YuminosukeSato/eslgo/pkg/errors"
)

// Classification is a labeled feature table. Rows are immutable once built;
// derived tables share no slices with their source.
type Classification struct {
	Labels []int
	X      [][]float64
}

// NewClassification validates that every row has the same non-zero width and
// that labels and rows line up.
func NewClassification(labels []int, x [][]float64) (*Classification, error) {
	if len(x) == 0 {
		return nil, errors.NewInsufficientDataError("NewClassification", "dataset", 1, 0)
	}
	if len(labels) != len(x) {
		return nil, errors.NewDimensionError("NewClassification", len(x), len(labels), 0)
	}
	dim := len(x[0])
	if dim == 0 {
		return nil, errors.NewInsufficientDataError("NewClassification", "features", 1, 0)
	}
	rows := make([][]float64, len(x))
	for i, row := range x {
		if len(row) != dim {
			return nil, errors.NewDimensionError("NewClassification", dim, len(row), 1)
		}
		rows[i] = slices.Clone(row)
	}
	return &Classification{Labels: slices.Clone(labels), X: rows}, nil
}

// Len returns the row count.
func (c *Classification) Len() int { return len(c.X) }

// Dim returns the feature count.
func (c *Classification) Dim() int {
	if len(c.X) == 0 {
		return 0
	}
	return len(c.X[0])
}

// Classes returns the distinct labels in ascending order.
func (c *Classification) Classes() []int {
	classes := slices.Clone(c.Labels)
	slices.Sort(classes)
	return slices.Compact(classes)
}

// NumClasses returns the number of distinct labels.
func (c *Classification) NumClasses() int { return len(c.Classes()) }

// RowsOf returns the feature rows carrying label.
func (c *Classification) RowsOf(label int) [][]float64 {
	var rows [][]float64
	for i, l := range c.Labels {
		if l == label {
			rows = append(rows, c.X[i])
		}
	}
	return rows
}

// WithFeatures returns a table with the same labels and new feature rows.
func (c *Classification) WithFeatures(x [][]float64) (*Classification, error) {
	return NewClassification(c.Labels, x)
}

// Regression is a single-predictor regression table.
type Regression struct {
	X []float64
	Y []float64
}

// NewRegression validates and copies x and y.
func NewRegression(x, y []float64) (*Regression, error) {
	if len(x) == 0 {
		return nil, errors.NewInsufficientDataError("NewRegression", "dataset", 1, 0)
	}
	if len(x) != len(y) {
		return nil, errors.NewDimensionError("NewRegression", len(x), len(y), 0)
	}
	return &Regression{X: slices.Clone(x), Y: slices.Clone(y)}, nil
}

// Len returns the row count.
func (r *Regression) Len() int { return len(r.X) }

// Subset returns the rows at indices, in that order. Indices may repeat.
func (r *Regression) Subset(indices []int) *Regression {
	out := &Regression{X: make([]float64, len(indices)), Y: make([]float64, len(indices))}
	for i, idx := range indices {
		out.X[i] = r.X[idx]
		out.Y[i] = r.Y[idx]
	}
	return out
}

// WithoutRow returns the table minus row i.
func (r *Regression) WithoutRow(i int) *Regression {
	out := &Regression{X: make([]float64, 0, r.Len()-1), Y: make([]float64, 0, r.Len()-1)}
	out.X = append(append(out.X, r.X[:i]...), r.X[i+1:]...)
	out.Y = append(append(out.Y, r.Y[:i]...), r.Y[i+1:]...)
	return out
}

// WithoutValue returns the table minus every row whose predictor equals x.
func (r *Regression) WithoutValue(x float64) *Regression {
	out := &Regression{}
	for i, v := range r.X {
		if v != x {
			out.X = append(out.X, v)
			out.Y = append(out.Y, r.Y[i])
		}
	}
	return out
}

// Contains reports whether some row has predictor value x.
func (r *Regression) Contains(x float64) bool {
	return slices.Contains(r.X, x)
}

// Sorted returns a copy ordered by predictor value, ties keeping row order.
func (r *Regression) Sorted() *Regression {
	idx := make([]int, r.Len())
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		switch {
		case r.X[a] < r.X[b]:
			return -1
		case r.X[a] > r.X[b]:
			return 1
		}
		return 0
	})
	return r.Subset(idx)
}
