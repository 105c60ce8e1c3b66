package discriminant

import (
	"fmt"

	"github.com/YuminosukeSato/eslgo/dataset"
	"github.com/YuminosukeSato/eslgo/pkg/errors"
	"github.com/YuminosukeSato/eslgo/pkg/log"
)

// ErrorReport holds misclassification rates. PerClass and Counts are indexed
// like Model.Classes().
type ErrorReport struct {
	Classes  []int
	PerClass []float64
	Counts   []int
	Errors   []int
	Overall  float64
	N        int
}

// EvaluateErrorRate classifies every row of ds and compares with its label.
// A class known to the model but absent from ds gets rate 0 and raises an
// UndefinedMetricWarning. Rows whose label the model never saw count toward
// the overall rate only.
func EvaluateErrorRate(ds *dataset.Classification, m *Model) (*ErrorReport, error) {
	if ds == nil || ds.Len() == 0 {
		return nil, errors.NewInsufficientDataError("EvaluateErrorRate", "dataset", 1, 0)
	}

	classes := m.Classes()
	r := &ErrorReport{
		Classes:  classes,
		PerClass: make([]float64, len(classes)),
		Counts:   make([]int, len(classes)),
		Errors:   make([]int, len(classes)),
		N:        ds.Len(),
	}

	predicted, err := m.Predict(ds.X)
	if err != nil {
		return nil, err
	}

	wrong := 0
	for i, label := range ds.Labels {
		k := m.stats.ClassIndex(label)
		miss := predicted[i] != label
		if miss {
			wrong++
		}
		if k < 0 {
			continue
		}
		r.Counts[k]++
		if miss {
			r.Errors[k]++
		}
	}

	for k := range classes {
		if r.Counts[k] == 0 {
			errors.Warn(errors.NewUndefinedMetricWarning("error_rate",
				fmt.Sprintf("no rows for class %d in evaluation data", classes[k]), 0))
		}
		r.PerClass[k] = errors.SafeDivide(float64(r.Errors[k]), float64(r.Counts[k]))
	}
	r.Overall = float64(wrong) / float64(r.N)

	m.logger.Info("Error rate evaluated",
		log.OperationKey, log.OperationEvaluate,
		log.ModeKey, m.mode.String(),
		log.SamplesKey, r.N,
		log.ErrorRateKey, r.Overall,
	)
	return r, nil
}
