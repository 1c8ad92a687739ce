// Standard attribute keys for pipeline logging.
//
// Keys follow a dotted hierarchy ("model.name", "data.samples") so records can be
// filtered by prefix.

package log

// Model and operation context.
const (
	// ModelNameKey identifies the estimator type.
	// Examples: "LassoCV", "StandardScaler", "PCA"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is logging.
	ComponentKey = "ml.component"

	// StageKey identifies the workflow stage.
	// Examples: "load", "parse", "descriptors", "clean", "evaluate"
	StageKey = "pipeline.stage"
)

// Data shape.
const (
	SamplesKey  = "data.samples"
	FeaturesKey = "data.features"
	TargetsKey  = "data.targets"

	// PathKey is a file the operation reads or writes.
	PathKey = "data.path"

	// LineKey is a 1-based line number in an input file.
	LineKey = "data.line"
)

// Chemistry.
const (
	// MoleculesKey is the number of molecules processed.
	MoleculesKey = "chem.molecules"

	// MoleculeIDKey identifies a single record.
	MoleculeIDKey = "chem.mol_id"

	// StructureKey is the structure string (SMILES) of a record.
	StructureKey = "chem.structure"

	// DescriptorKey names a single descriptor.
	DescriptorKey = "chem.descriptor"

	// ParseFailuresKey counts structure strings that could not be parsed.
	ParseFailuresKey = "chem.parse_failures"
)

// Performance and metrics.
const (
	DurationMsKey = "perf.duration_ms"
	WorkersKey    = "perf.workers"

	R2ScoreKey = "metrics.r2_score"
	MAEKey     = "metrics.mae"
	RMSEKey    = "metrics.rmse"

	IterationKey = "training.iteration"
	FoldKey      = "training.fold"
)

// Hyperparameters.
const (
	// ComponentsKey is the number of principal components retained.
	ComponentsKey = "hyperparams.n_components"

	// AlphaKey is the L1 regularization strength.
	AlphaKey = "hyperparams.alpha"

	// NonZeroKey counts coefficients that survived L1 selection.
	NonZeroKey = "model.non_zero_coef"

	RandomSeedKey = "config.random_seed"
)

// Error context.
const (
	ErrorCodeKey = "error.code"
	ErrorTypeKey = "error.type"
	ReasonKey    = "error.reason"
)

// Standard attribute values.
const (
	OperationFit          = "fit"
	OperationPredict      = "predict"
	OperationTransform    = "transform"
	OperationFitTransform = "fit_transform"
	OperationScore        = "score"
	OperationCompute      = "compute"
	OperationLoad         = "load"
	OperationClean        = "clean"
	OperationEvaluate     = "evaluate"

	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorEmptyData         = "EMPTY_DATA"
	ErrorInvalidInput      = "INVALID_INPUT"
	ErrorConvergence       = "CONVERGENCE_FAILURE"
	ErrorParse             = "PARSE_FAILURE"
)
