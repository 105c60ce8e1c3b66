package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorRate(t *testing.T) {
	rate, err := ErrorRate([]int{1, 2, 3, 1}, []int{1, 2, 1, 2})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, rate, 1e-12)

	acc, err := Accuracy([]int{1, 2, 3, 1}, []int{1, 2, 1, 2})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, acc, 1e-12)

	_, err = ErrorRate(nil, nil)
	assert.Error(t, err)
	_, err = ErrorRate([]int{1}, []int{1, 2})
	assert.Error(t, err)
}

func TestConfusionMatrix(t *testing.T) {
	cm, err := ConfusionMatrix([]int{1, 1, 2, 2, 9}, []int{1, 2, 2, 2, 1}, []int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 1}, {0, 2}}, cm)
}
