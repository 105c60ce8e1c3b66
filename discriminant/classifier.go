package discriminant

import (
	"math"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/eslgo/core/linalg"
	"github.com/YuminosukeSato/eslgo/dataset"
	"github.com/YuminosukeSato/eslgo/pkg/errors"
	"github.com/YuminosukeSato/eslgo/pkg/log"
)

// Mode selects the discriminant function.
type Mode int

const (
	// Quadratic uses one covariance per class (QDA).
	Quadratic Mode = iota + 1
	// Linear uses the pooled covariance (LDA).
	Linear
)

// String returns "quadratic" or "linear".
func (m Mode) String() string {
	switch m {
	case Quadratic:
		return "quadratic"
	case Linear:
		return "linear"
	default:
		return "unknown"
	}
}

// ParseMode accepts "Q", "quadratic", "qda", "L", "linear" and "lda",
// case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "q", "quadratic", "qda":
		return Quadratic, nil
	case "l", "linear", "lda":
		return Linear, nil
	default:
		return 0, errors.NewInvalidModeError("ParseMode", "discriminant mode", s)
	}
}

func (m Mode) valid() bool { return m == Quadratic || m == Linear }

// ScoreQuadratic returns
//
//	δ_k(x) = -½ log|Σ_k| - ½ (x-μ_k)ᵀ Σ_k⁺ (x-μ_k) + log π_k
//
// A singular Σ_k (log|Σ_k| = -Inf) scores -Inf: a degenerate class density is
// never selected.
func ScoreQuadratic(x []float64, mean *mat.VecDense, cov mat.Matrix, prior float64) (float64, error) {
	if len(x) != mean.Len() {
		return 0, errors.NewDimensionError("ScoreQuadratic", mean.Len(), len(x), 1)
	}
	inv, err := linalg.PseudoInverse(cov)
	if err != nil {
		return 0, err
	}
	return quadraticScore(mat.NewVecDense(len(x), x), mean, inv, linalg.LogDet(cov), math.Log(prior)), nil
}

// ScoreLinear returns
//
//	δ_k(x) = xᵀ Σ⁺ μ_k - ½ μ_kᵀ Σ⁺ μ_k + log π_k
//
// with Σ the pooled covariance.
func ScoreLinear(x []float64, mean *mat.VecDense, pooled mat.Matrix, prior float64) (float64, error) {
	if len(x) != mean.Len() {
		return 0, errors.NewDimensionError("ScoreLinear", mean.Len(), len(x), 1)
	}
	inv, err := linalg.PseudoInverse(pooled)
	if err != nil {
		return 0, err
	}
	return linearScore(mat.NewVecDense(len(x), x), mean, inv, math.Log(prior)), nil
}

func quadraticScore(x, mean *mat.VecDense, covInv mat.Matrix, logDet, logPrior float64) float64 {
	if math.IsInf(logDet, -1) {
		return math.Inf(-1)
	}
	var d mat.VecDense
	d.SubVec(x, mean)
	return -0.5*logDet - 0.5*linalg.QuadForm(&d, covInv, &d) + logPrior
}

func linearScore(x, mean *mat.VecDense, pooledInv mat.Matrix, logPrior float64) float64 {
	return linalg.QuadForm(x, pooledInv, mean) - 0.5*linalg.QuadForm(mean, pooledInv, mean) + logPrior
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger used by Train and EvaluateErrorRate.
func WithLogger(l log.Logger) Option {
	return func(m *Model) {
		m.logger = l
	}
}

// Model is a fitted discriminant classifier. The mode is validated once at
// construction; pseudo-inverses and log-determinants are cached so scoring
// does no factorization.
type Model struct {
	mode      Mode
	stats     *ClassStatistics
	inverses  []*mat.Dense // per class for Quadratic, one pooled for Linear
	logDets   []float64
	logPriors []float64
	logger    log.Logger
}

// New builds a Model from precomputed statistics.
func New(stats *ClassStatistics, mode Mode, opts ...Option) (*Model, error) {
	if !mode.valid() {
		return nil, errors.NewInvalidModeError("discriminant.New", "discriminant mode", mode.String())
	}
	if stats == nil || stats.NumClasses() == 0 {
		return nil, errors.NewInsufficientDataError("discriminant.New", "class statistics", 1, 0)
	}

	m := &Model{
		mode:      mode,
		stats:     stats,
		logPriors: make([]float64, stats.NumClasses()),
		logger:    log.GetLoggerWithName("discriminant"),
	}
	for _, opt := range opts {
		opt(m)
	}
	for k, p := range stats.Priors {
		m.logPriors[k] = math.Log(p)
	}

	switch mode {
	case Quadratic:
		m.inverses = make([]*mat.Dense, stats.NumClasses())
		m.logDets = make([]float64, stats.NumClasses())
		for k, cov := range stats.Covariances {
			inv, err := linalg.PseudoInverse(cov)
			if err != nil {
				return nil, errors.Wrapf(err, "class %d covariance", stats.Classes[k])
			}
			m.inverses[k] = inv
			m.logDets[k] = linalg.LogDet(cov)
			if math.IsInf(m.logDets[k], -1) {
				m.logger.Warn("Singular class covariance; class can never be selected",
					log.ModeKey, mode.String(), "class", stats.Classes[k])
			}
		}
	case Linear:
		inv, err := linalg.PseudoInverse(stats.Pooled)
		if err != nil {
			return nil, errors.Wrap(err, "pooled covariance")
		}
		m.inverses = []*mat.Dense{inv}
	}
	return m, nil
}

// Train computes class statistics from ds and builds a Model.
func Train(ds *dataset.Classification, mode Mode, opts ...Option) (*Model, error) {
	start := time.Now()
	stats, err := ComputeClassStatistics(ds)
	if err != nil {
		return nil, err
	}
	m, err := New(stats, mode, opts...)
	if err != nil {
		return nil, err
	}
	m.logger.Info("Discriminant model trained",
		log.OperationKey, log.OperationFit,
		log.ModeKey, mode.String(),
		log.SamplesKey, ds.Len(),
		log.FeaturesKey, ds.Dim(),
		log.ClassesKey, stats.NumClasses(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return m, nil
}

// Mode returns the discriminant mode.
func (m *Model) Mode() Mode { return m.mode }

// Stats returns the underlying class statistics.
func (m *Model) Stats() *ClassStatistics { return m.stats }

// Classes returns the class labels in score order.
func (m *Model) Classes() []int { return m.stats.Classes }

// Scores returns δ_k(x) for every class.
func (m *Model) Scores(x []float64) ([]float64, error) {
	if len(x) != m.stats.Dim {
		return nil, errors.NewDimensionError("Model.Scores", m.stats.Dim, len(x), 1)
	}
	xv := mat.NewVecDense(len(x), x)
	scores := make([]float64, m.stats.NumClasses())
	for k := range scores {
		if m.mode == Quadratic {
			scores[k] = quadraticScore(xv, m.stats.Means[k], m.inverses[k], m.logDets[k], m.logPriors[k])
		} else {
			scores[k] = linearScore(xv, m.stats.Means[k], m.inverses[0], m.logPriors[k])
		}
	}
	return scores, nil
}

// Classify returns the label with the largest score. Ties go to the lowest
// class index; NaN scores are skipped.
func (m *Model) Classify(x []float64) (int, error) {
	scores, err := m.Scores(x)
	if err != nil {
		return 0, err
	}
	return m.stats.Classes[floats.MaxIdx(scores)], nil
}

// Predict classifies every row.
func (m *Model) Predict(x [][]float64) ([]int, error) {
	out := make([]int, len(x))
	for i, row := range x {
		label, err := m.Classify(row)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", i)
		}
		out[i] = label
	}
	return out, nil
}

// PredictProba returns posterior class probabilities exp(δ_k)/Σ_j exp(δ_j).
// For Linear mode this drops the shared -½xᵀΣ⁺x term, which cancels in the
// ratio.
func (m *Model) PredictProba(x []float64) ([]float64, error) {
	scores, err := m.Scores(x)
	if err != nil {
		return nil, err
	}
	lse := errors.LogSumExp(scores)
	probs := make([]float64, len(scores))
	for k, s := range scores {
		probs[k] = math.Exp(s - lse)
	}
	return probs, nil
}

// Classify is the one-shot form of Model.Classify: it builds the model from
// stats for a single point.
func Classify(x []float64, mode Mode, stats *ClassStatistics) (int, error) {
	m, err := New(stats, mode)
	if err != nil {
		return 0, err
	}
	return m.Classify(x)
}
