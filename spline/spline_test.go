package spline

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/eslgo/pkg/errors"
	"github.com/YuminosukeSato/eslgo/pkg/log"
)

func TestNaturalBasisClosedForm(t *testing.T) {
	b, err := NewNatural([]float64{0, 1, 2})
	require.NoError(t, err)

	h := b.Evaluate(1)
	require.Len(t, h, 3)
	assert.Equal(t, 1.0, h[0])
	assert.Equal(t, 1.0, h[1])
	// d_1(1) = (1³ - 0) / (2 - 0), d_2(1) = 0
	assert.InDelta(t, 0.5, h[2], 1e-15)
}

func TestNaturalBasisLinearBeyondBoundary(t *testing.T) {
	b, err := NewNatural([]float64{0, 1, 2.5, 4})
	require.NoError(t, err)

	for _, x := range []float64{-3, -1, 5, 9} {
		for j, v := range b.SecondDerivative(x) {
			assert.InDelta(t, 0, v, 1e-12, "N_%d'' at %v", j+1, x)
		}
	}
	h5, h6, h7 := b.Evaluate(5), b.Evaluate(6), b.Evaluate(7)
	for j := range h5 {
		assert.InDelta(t, h6[j]-h5[j], h7[j]-h6[j], 1e-9)
	}
}

func TestNaturalRejectsBadKnots(t *testing.T) {
	_, err := NewNatural([]float64{0, 1, 1})
	var ve *errors.ValidationError
	assert.True(t, errors.As(err, &ve))

	_, err = NewNatural([]float64{1})
	var ie *errors.InsufficientDataError
	assert.True(t, errors.As(err, &ie))
}

func TestTruncatedPowerBasis(t *testing.T) {
	b, err := NewTruncatedPower(4, []float64{1})
	require.NoError(t, err)
	assert.Equal(t, 5, b.Dim())
	assert.Equal(t, []float64{1, 2, 4, 8, 1}, b.Evaluate(2))
	assert.Equal(t, []float64{1, 0.5, 0.25, 0.125, 0}, b.Evaluate(0.5))
}

func TestTruncatedPowerOrderOneIsStep(t *testing.T) {
	b, err := NewTruncatedPower(1, []float64{1})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0}, b.Evaluate(0.5))
	assert.Equal(t, []float64{1, 0}, b.Evaluate(1))
	assert.Equal(t, []float64{1, 1}, b.Evaluate(1.5))

	// steps at distinct knots give a full-rank design
	b, err = NewTruncatedPower(1, []float64{1, 2})
	require.NoError(t, err)
	H, err := DesignMatrix(b, []float64{0, 1.5, 3})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, mat.Det(H), 1e-12)
}

func TestNaturalPenalty(t *testing.T) {
	b, err := NewNatural([]float64{0, 1, 2})
	require.NoError(t, err)
	omega := NaturalPenalty(b)

	// N_3'' = 3x on [0,1] and 6-3x on [1,2]: ∫ = 3 + 3
	assert.InDelta(t, 6.0, omega.At(2, 2), 1e-12)
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			assert.Zero(t, omega.At(i, j))
		}
	}
}

func TestDesignMatrix(t *testing.T) {
	b, err := NewTruncatedPower(2, []float64{0})
	require.NoError(t, err)
	xs := []float64{-1, 0, 2}
	H, err := DesignMatrix(b, xs)
	require.NoError(t, err)
	r, c := H.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, []float64{1, 2, 2}, []float64{H.At(2, 0), H.At(2, 1), H.At(2, 2)})
	assert.Zero(t, H.At(0, 2))

	_, err = DesignMatrix(b, nil)
	assert.Error(t, err)
}

func TestKnots(t *testing.T) {
	assert.Equal(t, []float64{1, 2, 3}, UniqueKnots([]float64{3, 1, 2, 3, 1}))

	xs := []float64{9, 1, 5, 3, 7, 2, 8, 4, 6}
	k, err := QuantileKnots(xs, 3)
	require.NoError(t, err)
	require.Len(t, k, 3)
	assert.True(t, k[0] > 1 && k[2] < 9)
	assert.True(t, k[0] <= k[1] && k[1] <= k[2])

	k, err = BoundaryQuantileKnots(xs, 4)
	require.NoError(t, err)
	require.Len(t, k, 4)
	assert.Equal(t, 1.0, k[0])
	assert.Equal(t, 9.0, k[3])

	_, err = QuantileKnots(nil, 2)
	assert.Error(t, err)
}

func TestParseFamily(t *testing.T) {
	f, err := ParseFamily("bs")
	require.NoError(t, err)
	assert.Equal(t, RegressionSpline, f)

	f, err = ParseFamily("NS")
	require.NoError(t, err)
	assert.Equal(t, NaturalSpline, f)

	_, err = ParseFamily("loess")
	var me *errors.InvalidModeError
	assert.True(t, errors.As(err, &me))
}

func TestNewBasis(t *testing.T) {
	xs := make([]float64, 50)
	for i := range xs {
		xs[i] = float64(i)
	}
	b, err := NewBasis(RegressionSpline, xs, 6, 0)
	require.NoError(t, err)
	assert.Equal(t, 6, b.Dim())
	assert.Len(t, b.Knots(), 2)

	b, err = NewBasis(NaturalSpline, xs, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, b.Dim())

	_, err = NewBasis(RegressionSpline, xs, 3, 4)
	assert.Error(t, err)
}

func TestModelRecoversCubic(t *testing.T) {
	b, err := NewTruncatedPower(4, []float64{0.5})
	require.NoError(t, err)
	var x, y []float64
	for i := 0; i <= 20; i++ {
		v := float64(i) / 10
		x = append(x, v)
		y = append(y, 1-2*v+v*v*v)
	}

	logger, _ := log.NewTestLogger(log.LevelDebug)
	m := NewModel(b, WithModelLogger(logger))
	_, err = m.PredictAt(0)
	var nf *errors.NotFittedError
	require.True(t, errors.As(err, &nf))

	require.NoError(t, m.FitCurve(x, y))
	assert.InDelta(t, 0, m.NoiseVariance(), 1e-12)
	got, err := m.PredictAt(1.55)
	require.NoError(t, err)
	assert.InDelta(t, 1-2*1.55+1.55*1.55*1.55, got, 1e-8)
	assert.True(t, logger.ContainsMessage("Spline fitted"))
	assert.Len(t, m.FittedValues(), len(x))
}

func linearData() ([]float64, []float64) {
	var x, y []float64
	for i := 0; i < 12; i++ {
		x = append(x, float64(i))
		y = append(y, 1+2*float64(i))
	}
	return x, y
}

func TestSmoothingSplineReproducesLine(t *testing.T) {
	x, y := linearData()
	for _, opt := range []SmoothingOption{WithLambda(5), WithDF(4)} {
		s := NewSmoothingSpline(opt)
		require.NoError(t, s.FitCurve(x, y))
		got, err := s.PredictAt(3.5)
		require.NoError(t, err)
		assert.InDelta(t, 8.0, got, 1e-6)
	}
}

func TestSmoothingSplineInterpolatesAtZeroLambda(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4, 5}
	y := []float64{0, 2, 1, 3, 2, 4}
	s := NewSmoothingSpline(WithLambda(0))
	require.NoError(t, s.FitCurve(x, y))
	assert.InDelta(t, 6.0, s.EffectiveDF(), 1e-6)
	for i, v := range s.FittedValues() {
		assert.InDelta(t, y[i], v, 1e-6)
	}
}

func TestSmoothingSplineTargetDF(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	var x, y []float64
	for i := 0; i < 40; i++ {
		v := float64(i) / 4
		x = append(x, v)
		y = append(y, math.Sin(v)+0.2*rng.NormFloat64())
	}

	s := NewSmoothingSpline(WithDF(5))
	require.NoError(t, s.FitCurve(x, y))
	assert.InDelta(t, 5.0, s.EffectiveDF(), 1e-4)
	assert.Greater(t, s.Lambda(), 0.0)

	_, err := LambdaForDF(s.Design(), s.Penalty(), 1.5)
	var ve *errors.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestSmoothingSplineGCV(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 3))
	var x, y []float64
	for i := 0; i < 50; i++ {
		v := float64(i) / 5
		x = append(x, v)
		y = append(y, math.Sin(v)+0.3*rng.NormFloat64())
	}

	s := NewSmoothingSpline()
	require.NoError(t, s.FitCurve(x, y))
	df := s.EffectiveDF()
	assert.Greater(t, df, 2.0)
	assert.Less(t, df, 50.0)

	chosen, err := GCVScore(s.Design(), s.Penalty(), vec(y), s.Lambda())
	require.NoError(t, err)
	for _, f := range []float64{1e-3, 1e3} {
		other, err := GCVScore(s.Design(), s.Penalty(), vec(y), s.Lambda()*f)
		require.NoError(t, err)
		assert.LessOrEqual(t, chosen, other+1e-12)
	}
}

func TestSmoothingSplineReportsOverflow(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4, 5}
	y := []float64{1e200, -1e200, 1e200, -1e200, 1e200, -1e200}

	var numErr *errors.NumericalInstabilityError
	err := NewSmoothingSpline(WithLambda(1e3)).FitCurve(x, y)
	assert.True(t, errors.As(err, &numErr), "got %v", err)

	b, err := NewNatural(x)
	require.NoError(t, err)
	H, err := DesignMatrix(b, x)
	require.NoError(t, err)
	_, err = GCVScore(H, NaturalPenalty(b), vec(y), 1e3)
	assert.True(t, errors.As(err, &numErr), "got %v", err)
}

func vec(y []float64) *mat.VecDense {
	return mat.NewVecDense(len(y), append([]float64(nil), y...))
}
