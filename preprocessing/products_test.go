package preprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/eslgo/dataset"
)

func TestAugmentWithProductsSingleRow(t *testing.T) {
	ds, err := dataset.NewClassification([]int{1}, [][]float64{{2, 3, 5, 7}})
	require.NoError(t, err)

	aug, err := AugmentWithProducts([]int{0, 1}, ds)
	require.NoError(t, err)

	assert.Equal(t, 7, aug.Dim())
	assert.Equal(t, []float64{2, 3, 5, 7, 4, 6, 9}, aug.X[0])
	assert.Equal(t, []int{1}, aug.Labels)
	assert.Equal(t, []float64{2, 3, 5, 7}, ds.X[0], "source rows must be untouched")
}

func TestProductFeaturesColumnCount(t *testing.T) {
	tests := []struct {
		name    string
		indices []int
		want    int
	}{
		{"none", nil, 0},
		{"one", []int{2}, 1},
		{"three", []int{0, 1, 2}, 6},
		{"repeated index", []int{1, 1}, 3},
	}
	x := [][]float64{{1, 2, 3}, {4, 5, 6}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProductFeatures(tt.indices...)
			assert.Equal(t, tt.want, p.NumOutputs())
			out, err := p.Transform(x)
			require.NoError(t, err)
			for _, row := range out {
				assert.Len(t, row, 3+tt.want)
			}
		})
	}
}

func TestProductFeaturesRepeatedIndex(t *testing.T) {
	out, err := NewProductFeatures(1, 1).Transform([][]float64{{10, 3}})
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 3, 9, 9, 9}, out[0])
}

func TestProductFeaturesErrors(t *testing.T) {
	_, err := NewProductFeatures(5).Transform([][]float64{{1, 2}})
	assert.Error(t, err)

	_, err = NewProductFeatures(0).Transform(nil)
	assert.Error(t, err)

	_, err = AugmentWithProducts([]int{0}, nil)
	assert.Error(t, err)
}
