// Package preprocessing provides feature transformations applied before a
// classifier is trained.
package preprocessing

import (
	"github.com/YuminosukeSato/eslgo/dataset"
	"github.com/YuminosukeSato/eslgo/pkg/errors"
)

// ProductFeatures appends pairwise products of selected columns. Indices are
// 0-based feature positions and may repeat; for n indices the transform adds
// n(n+1)/2 columns, ordered (0,0), (0,1), ..., (0,n-1), (1,1), ..., (n-1,n-1)
// over positions in Indices.
type ProductFeatures struct {
	Indices []int
}

// NewProductFeatures returns the transform for indices.
func NewProductFeatures(indices ...int) *ProductFeatures {
	return &ProductFeatures{Indices: indices}
}

// NumOutputs returns the number of appended columns.
func (p *ProductFeatures) NumOutputs() int {
	n := len(p.Indices)
	return n * (n + 1) / 2
}

// Transform returns new rows holding the original columns followed by the
// products. Row order is preserved; x is not modified.
func (p *ProductFeatures) Transform(x [][]float64) ([][]float64, error) {
	if len(x) == 0 {
		return nil, errors.NewModelError("ProductFeatures.Transform", "empty data", errors.ErrEmptyData)
	}
	dim := len(x[0])
	for _, idx := range p.Indices {
		if idx < 0 || idx >= dim {
			return nil, errors.NewValidationError("indices", "feature index out of range", idx)
		}
	}

	n := len(p.Indices)
	out := make([][]float64, len(x))
	for r, row := range x {
		if len(row) != dim {
			return nil, errors.NewDimensionError("ProductFeatures.Transform", dim, len(row), 1)
		}
		aug := make([]float64, dim, dim+p.NumOutputs())
		copy(aug, row)
		for a := 0; a < n; a++ {
			for b := a; b < n; b++ {
				aug = append(aug, row[p.Indices[a]]*row[p.Indices[b]])
			}
		}
		out[r] = aug
	}
	return out, nil
}

// AugmentWithProducts applies ProductFeatures to the feature rows of ds and
// returns a new dataset with the same labels.
func AugmentWithProducts(indices []int, ds *dataset.Classification) (*dataset.Classification, error) {
	if ds == nil {
		return nil, errors.NewModelError("AugmentWithProducts", "empty data", errors.ErrEmptyData)
	}
	x, err := NewProductFeatures(indices...).Transform(ds.X)
	if err != nil {
		return nil, err
	}
	return ds.WithFeatures(x)
}
