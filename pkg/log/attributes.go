package log

// Model and operation context.
const (
	// ModelNameKey identifies the estimator, e.g. "QDA", "SmoothingSpline".
	ModelNameKey = "model.name"

	// OperationKey names the operation: "fit", "predict", "evaluate", ...
	OperationKey = "ml.operation"

	// ComponentKey names the package doing the work.
	ComponentKey = "ml.component"

	// PhaseKey is the lifecycle phase: "training", "validation", "inference".
	PhaseKey = "ml.phase"
)

// Data shape.
const (
	SamplesKey  = "data.samples"
	FeaturesKey = "data.features"
	ClassesKey  = "data.classes"
	PointsKey   = "data.eval_points"
)

// Model configuration.
const (
	// ModeKey records the discriminant mode ("quadratic" or "linear").
	ModeKey = "model.mode"

	// FamilyKey records the spline family ("bs" or "ns").
	FamilyKey = "model.family"

	// BasisDimKey records the number of basis functions.
	BasisDimKey = "model.basis_dim"

	// LambdaKey records the smoothing penalty weight.
	LambdaKey = "hyperparams.lambda"

	// SelectionKey records how λ was chosen ("fixed", "df", "gcv").
	SelectionKey = "hyperparams.lambda_selection"

	// DFKey records effective degrees of freedom.
	DFKey = "model.df"

	// ReplicatesKey records the bootstrap replicate count B.
	ReplicatesKey = "resample.replicates"

	// WorkersKey records the worker-pool size.
	WorkersKey = "resample.workers"

	// FoldsKey records the number of cross-validation folds.
	FoldsKey = "resample.folds"

	// SkippedRefitsKey records bagged-CV refits dropped for lack of data.
	SkippedRefitsKey = "resample.skipped_refits"

	// RandomSeedKey records the seed for reproducibility.
	RandomSeedKey = "config.random_seed"
)

// Results and timing.
const (
	DurationMsKey    = "perf.duration_ms"
	ErrorRateKey     = "metrics.error_rate"
	CVErrorKey       = "metrics.cv_error"
	NoiseVarianceKey = "metrics.noise_variance"
	IterationKey     = "training.iteration"
)

// Error context.
const (
	ErrorCodeKey  = "error.code"
	ErrorTypeKey  = "error.type"
	SuggestionKey = "error.suggestion"
)

// Standard values.
const (
	OperationFit      = "fit"
	OperationPredict  = "predict"
	OperationEvaluate = "evaluate"
	OperationResample = "resample"
	OperationLoad     = "load"

	PhaseTraining   = "training"
	PhaseValidation = "validation"
	PhaseInference  = "inference"

	ErrorInsufficientData  = "INSUFFICIENT_DATA"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorInvalidMode       = "INVALID_MODE"
	ErrorParse             = "PARSE_ERROR"
)
