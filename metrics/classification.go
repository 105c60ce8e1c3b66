package metrics

import (
	"github.com/YuminosukeSato/eslgo/pkg/errors"
)

// ErrorRate returns the fraction of positions where predicted differs from
// actual.
func ErrorRate(actual, predicted []int) (float64, error) {
	if len(actual) == 0 {
		return 0, errors.NewValueError("ErrorRate", "empty input")
	}
	if len(predicted) != len(actual) {
		return 0, errors.NewDimensionError("ErrorRate", len(actual), len(predicted), 0)
	}
	wrong := 0
	for i := range actual {
		if actual[i] != predicted[i] {
			wrong++
		}
	}
	return float64(wrong) / float64(len(actual)), nil
}

// Accuracy is 1 - ErrorRate.
func Accuracy(actual, predicted []int) (float64, error) {
	rate, err := ErrorRate(actual, predicted)
	if err != nil {
		return 0, err
	}
	return 1 - rate, nil
}

// ConfusionMatrix counts (actual, predicted) pairs over the given class
// labels. Rows index actual labels, columns predicted labels, both in the
// order of classes. Pairs with a label outside classes are skipped.
func ConfusionMatrix(actual, predicted, classes []int) ([][]int, error) {
	if len(predicted) != len(actual) {
		return nil, errors.NewDimensionError("ConfusionMatrix", len(actual), len(predicted), 0)
	}
	index := make(map[int]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	cm := make([][]int, len(classes))
	for i := range cm {
		cm[i] = make([]int, len(classes))
	}
	for i := range actual {
		a, okA := index[actual[i]]
		p, okP := index[predicted[i]]
		if okA && okP {
			cm[a][p]++
		}
	}
	return cm, nil
}
