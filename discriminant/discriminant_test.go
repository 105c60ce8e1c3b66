package discriminant

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/eslgo/dataset"
	"github.com/YuminosukeSato/eslgo/pkg/errors"
	"github.com/YuminosukeSato/eslgo/pkg/log"
)

func handDataset(t *testing.T) *dataset.Classification {
	t.Helper()
	ds, err := dataset.NewClassification(
		[]int{1, 1, 2, 2, 2},
		[][]float64{{1, 2}, {3, 4}, {0, 0}, {2, 0}, {1, 3}},
	)
	require.NoError(t, err)
	return ds
}

func separatedDataset(t *testing.T) *dataset.Classification {
	t.Helper()
	ds, err := dataset.NewClassification(
		[]int{1, 1, 1, 1, 2, 2, 2, 2, 3, 3, 3, 3},
		[][]float64{
			{0, 0}, {1, 0.2}, {0.3, 1}, {-0.5, -0.4},
			{5, 5}, {6, 5.5}, {5.2, 6.1}, {4.4, 5.1},
			{-5, 5}, {-6, 4.2}, {-4.8, 6}, {-5.5, 5.3},
		},
	)
	require.NoError(t, err)
	return ds
}

func TestComputeClassStatisticsHandComputed(t *testing.T) {
	s, err := ComputeClassStatistics(handDataset(t))
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, s.Classes)
	assert.Equal(t, []int{2, 3}, s.Counts)
	assert.InDelta(t, 0.4, s.Priors[0], 1e-12)
	assert.InDelta(t, 0.6, s.Priors[1], 1e-12)

	assert.True(t, mat.EqualApprox(s.Means[0], mat.NewVecDense(2, []float64{2, 3}), 1e-12))
	assert.True(t, mat.EqualApprox(s.Means[1], mat.NewVecDense(2, []float64{1, 1}), 1e-12))

	assert.True(t, mat.EqualApprox(s.Covariances[0], mat.NewSymDense(2, []float64{2, 2, 2, 2}), 1e-12))
	assert.True(t, mat.EqualApprox(s.Covariances[1], mat.NewSymDense(2, []float64{1, 0, 0, 3}), 1e-12))

	// (1·Σ_1 + 2·Σ_2) / (5 - 2)
	want := mat.NewSymDense(2, []float64{4.0 / 3, 2.0 / 3, 2.0 / 3, 8.0 / 3})
	assert.True(t, mat.EqualApprox(s.Pooled, want, 1e-12), "pooled = %v", mat.Formatted(s.Pooled))
}

func TestPriorsSumToOne(t *testing.T) {
	for _, ds := range []*dataset.Classification{handDataset(t), separatedDataset(t)} {
		s, err := ComputeClassStatistics(ds)
		require.NoError(t, err)
		var sum float64
		for _, p := range s.Priors {
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestComputeClassStatisticsInsufficientData(t *testing.T) {
	ds, err := dataset.NewClassification([]int{1, 1, 2}, [][]float64{{0}, {1}, {2}})
	require.NoError(t, err)

	_, err = ComputeClassStatistics(ds)
	var insErr *errors.InsufficientDataError
	require.True(t, errors.As(err, &insErr), "got %v", err)
	assert.Equal(t, 1, insErr.Got)
	assert.Equal(t, "class 2", insErr.Subject)

	_, err = ComputeClassStatistics(nil)
	assert.Error(t, err)
}

func TestComputeClassStatisticsNoFeatures(t *testing.T) {
	ds := &dataset.Classification{Labels: []int{1, 1, 2, 2}, X: [][]float64{{}, {}, {}, {}}}

	var stats *ClassStatistics
	var err error
	require.NotPanics(t, func() { stats, err = ComputeClassStatistics(ds) })
	assert.Nil(t, stats)
	var insErr *errors.InsufficientDataError
	require.True(t, errors.As(err, &insErr), "got %v", err)
	assert.Equal(t, "features", insErr.Subject)
}

func TestClassifySeparatedClasses(t *testing.T) {
	ds := separatedDataset(t)
	for _, mode := range []Mode{Quadratic, Linear} {
		t.Run(mode.String(), func(t *testing.T) {
			m, err := Train(ds, mode)
			require.NoError(t, err)

			got, err := m.Predict([][]float64{{0.1, 0.1}, {5.5, 5.5}, {-5.2, 5.1}})
			require.NoError(t, err)
			assert.Equal(t, []int{1, 2, 3}, got)

			report, err := EvaluateErrorRate(ds, m)
			require.NoError(t, err)
			assert.Equal(t, 0.0, report.Overall)
			assert.Equal(t, []int{4, 4, 4}, report.Counts)
		})
	}
}

func TestClassifyInvariantToPriorScaling(t *testing.T) {
	ds := separatedDataset(t)
	s, err := ComputeClassStatistics(ds)
	require.NoError(t, err)

	scaled := *s
	scaled.Priors = make([]float64, len(s.Priors))
	for k, p := range s.Priors {
		scaled.Priors[k] = 7.5 * p
	}

	points := [][]float64{{0, 3}, {2.5, 2.5}, {-2.5, 2.5}, {1, -1}, {0, 10}}
	for _, mode := range []Mode{Quadratic, Linear} {
		base, err := New(s, mode)
		require.NoError(t, err)
		rescaled, err := New(&scaled, mode)
		require.NoError(t, err)
		for _, x := range points {
			a, err := base.Classify(x)
			require.NoError(t, err)
			b, err := rescaled.Classify(x)
			require.NoError(t, err)
			assert.Equal(t, a, b, "mode %v point %v", mode, x)
		}
	}
}

func TestQuadraticReducesToLinearWithPooledCovariance(t *testing.T) {
	s, err := ComputeClassStatistics(separatedDataset(t))
	require.NoError(t, err)

	shared := *s
	shared.Covariances = make([]*mat.SymDense, s.NumClasses())
	for k := range shared.Covariances {
		shared.Covariances[k] = s.Pooled
	}

	qda, err := New(&shared, Quadratic)
	require.NoError(t, err)
	lda, err := New(&shared, Linear)
	require.NoError(t, err)

	for _, x := range [][]float64{{0, 0}, {3, -2}, {-1, 7}, {10, 10}} {
		q, err := qda.Scores(x)
		require.NoError(t, err)
		l, err := lda.Scores(x)
		require.NoError(t, err)
		// δ^Q_k - δ^L_k = -½log|Σ| - ½xᵀΣ⁻¹x, the same for every class
		offset := q[0] - l[0]
		for k := range q {
			assert.InDelta(t, offset, q[k]-l[k], 1e-6)
		}

		qLabel, _ := qda.Classify(x)
		lLabel, _ := lda.Classify(x)
		assert.Equal(t, qLabel, lLabel)
	}
}

func TestScoreFunctionsMatchModel(t *testing.T) {
	s, err := ComputeClassStatistics(separatedDataset(t))
	require.NoError(t, err)
	qda, err := New(s, Quadratic)
	require.NoError(t, err)
	lda, err := New(s, Linear)
	require.NoError(t, err)

	x := []float64{1.5, 2}
	qs, _ := qda.Scores(x)
	ls, _ := lda.Scores(x)
	for k := range s.Classes {
		q, err := ScoreQuadratic(x, s.Means[k], s.Covariances[k], s.Priors[k])
		require.NoError(t, err)
		assert.InDelta(t, qs[k], q, 1e-9)

		l, err := ScoreLinear(x, s.Means[k], s.Pooled, s.Priors[k])
		require.NoError(t, err)
		assert.InDelta(t, ls[k], l, 1e-9)
	}

	// direct substitution for class 0 of the linear score
	inv := mat.NewDense(2, 2, nil)
	require.NoError(t, inv.Inverse(s.Pooled))
	xv := mat.NewVecDense(2, x)
	want := mat.Inner(xv, inv, s.Means[0]) - 0.5*mat.Inner(s.Means[0], inv, s.Means[0]) + math.Log(s.Priors[0])
	assert.InDelta(t, want, ls[0], 1e-9)
}

func TestTiesGoToLowestClass(t *testing.T) {
	// Two classes with identical statistics score identically everywhere.
	ds, err := dataset.NewClassification(
		[]int{4, 4, 4, 9, 9, 9},
		[][]float64{{0, 1}, {1, 0}, {2, 2}, {0, 1}, {1, 0}, {2, 2}},
	)
	require.NoError(t, err)
	for _, mode := range []Mode{Quadratic, Linear} {
		m, err := Train(ds, mode)
		require.NoError(t, err)
		label, err := m.Classify([]float64{0.3, 0.7})
		require.NoError(t, err)
		assert.Equal(t, 4, label)
	}
}

func TestSingularClassCovarianceNeverWins(t *testing.T) {
	// class 2 lies on the line y = x, so its covariance is singular
	ds, err := dataset.NewClassification(
		[]int{1, 1, 1, 2, 2, 2},
		[][]float64{{0, 1}, {1, 0}, {2, 2}, {0, 0}, {1, 1}, {2, 2}},
	)
	require.NoError(t, err)
	m, err := Train(ds, Quadratic)
	require.NoError(t, err)

	scores, err := m.Scores([]float64{1, 1})
	require.NoError(t, err)
	assert.True(t, math.IsInf(scores[1], -1))
	label, err := m.Classify([]float64{1, 1})
	require.NoError(t, err)
	assert.Equal(t, 1, label)
}

func TestPredictProba(t *testing.T) {
	m, err := Train(separatedDataset(t), Linear)
	require.NoError(t, err)
	p, err := m.PredictProba([]float64{5, 5})
	require.NoError(t, err)
	var sum float64
	for _, v := range p {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
	assert.Greater(t, p[1], 0.99)
}

func TestEvaluateErrorRateAbsentClass(t *testing.T) {
	provider, _ := log.NewTestLoggerProvider(log.LevelDebug)
	log.SetProvider(provider)
	defer log.SetProvider(nil)

	m, err := Train(separatedDataset(t), Linear)
	require.NoError(t, err)

	eval, err := dataset.NewClassification([]int{1, 2, 2}, [][]float64{{0, 0}, {5, 5}, {0.2, 0.1}})
	require.NoError(t, err)
	report, err := EvaluateErrorRate(eval, m)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 0}, report.Counts)
	assert.Equal(t, []float64{0, 0.5, 0}, report.PerClass)
	assert.InDelta(t, 1.0/3, report.Overall, 1e-12)
	assert.True(t, provider.Logger().ContainsMessage("no rows for class 3"))
}

func TestDimensionAndModeErrors(t *testing.T) {
	m, err := Train(separatedDataset(t), Quadratic)
	require.NoError(t, err)

	_, err = m.Classify([]float64{1, 2, 3})
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))

	s, _ := ComputeClassStatistics(separatedDataset(t))
	_, err = New(s, Mode(42))
	var modeErr *errors.InvalidModeError
	assert.True(t, errors.As(err, &modeErr))

	_, err = ParseMode("cubic")
	assert.True(t, errors.As(err, &modeErr))

	mode, err := ParseMode("Q")
	require.NoError(t, err)
	assert.Equal(t, Quadratic, mode)
	mode, err = ParseMode("lda")
	require.NoError(t, err)
	assert.Equal(t, Linear, mode)
}

func TestClassifyOneShot(t *testing.T) {
	s, err := ComputeClassStatistics(separatedDataset(t))
	require.NoError(t, err)
	label, err := Classify([]float64{5, 5}, Quadratic, s)
	require.NoError(t, err)
	assert.Equal(t, 2, label)
}
