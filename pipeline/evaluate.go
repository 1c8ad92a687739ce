package pipeline

import (
	"context"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/moldesc/metrics"
	"github.com/YuminosukeSato/moldesc/model_selection"
	"github.com/YuminosukeSato/moldesc/pkg/errors"
	"github.com/YuminosukeSato/moldesc/pkg/log"
	"github.com/YuminosukeSato/moldesc/preprocessing"
)

// EvalConfig controls a hold-out evaluation over several component counts.
type EvalConfig struct {
	TestSize   float64 `json:"test_size"`
	Seed       uint64  `json:"seed"`
	Components []int   `json:"components"`
	Model      string  `json:"model"`
	CV         int     `json:"cv"`
	NAlphas    int     `json:"n_alphas"`
	Workers    int     `json:"workers"`
}

// DefaultEvalConfig evaluates 16, 8 and 0 components with LassoCV on a 10% hold-out.
func DefaultEvalConfig() EvalConfig {
	return EvalConfig{
		TestSize:   0.1,
		Components: []int{16, 8, 0},
		Model:      ModelLasso,
		CV:         5,
		NAlphas:    100,
	}
}

// Result is the hold-out performance of one configuration.
type Result struct {
	Config
	metrics.Summary
	Alpha float64 `json:"alpha"`
	// NonZero is the number of non-zero regressor coefficients.
	NonZero int `json:"non_zero"`
	// ExplainedVariance is the total variance ratio kept by PCA.
	ExplainedVariance float64 `json:"explained_variance"`

	Predicted []float64 `json:"-"`
	Pipeline  *Pipeline `json:"-"`
}

// Report collects the results of Evaluate, in configuration order.
type Report struct {
	Samples  int       `json:"samples"`
	Features int       `json:"features"`
	TrainIDs []string  `json:"-"`
	TestIDs  []string  `json:"-"`
	Actual   []float64 `json:"-"`
	Results  []Result  `json:"results"`
}

// Result returns the result for k components, or nil.
func (r *Report) Result(k int) *Result {
	for i := range r.Results {
		if r.Results[i].Components == k {
			return &r.Results[i]
		}
	}
	return nil
}

// Evaluate splits features once and fits one pipeline per component count on the
// training part, scoring each on the held-out part. A failing configuration stops
// the evaluation and is named in the returned error.
func Evaluate(ctx context.Context, features *preprocessing.Features, y []float64, cfg EvalConfig) (*Report, error) {
	logger := log.GetLoggerWithName("evaluate")
	n, d := features.Dims()
	if n == 0 || d == 0 {
		return nil, errors.NewModelError("Evaluate", "empty data", errors.ErrEmptyData)
	}
	if len(y) != n {
		return nil, errors.NewDimensionError("Evaluate", n, len(y), 0)
	}
	if len(cfg.Components) == 0 {
		return nil, errors.NewValidationError("components", "at least one configuration is required", cfg.Components)
	}

	train, test, err := model_selection.TrainTestSplit(n, cfg.TestSize, cfg.Seed)
	if err != nil {
		return nil, err
	}
	trainF, testF := features.SelectRows(train), features.SelectRows(test)
	yTrain, yTest := model_selection.TakeValues(y, train), model_selection.TakeValues(y, test)
	yTestMat := mat.NewDense(len(yTest), 1, yTest)

	report := &Report{
		Samples:  n,
		Features: d,
		TrainIDs: trainF.RowIDs,
		TestIDs:  testF.RowIDs,
		Actual:   yTest,
	}
	for _, k := range cfg.Components {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pc := Config{
			Components: k,
			Model:      cfg.Model,
			CV:         cfg.CV,
			NAlphas:    cfg.NAlphas,
			Seed:       cfg.Seed,
			Workers:    cfg.Workers,
		}
		start := time.Now()
		res, err := evaluateOne(ctx, pc, trainF, yTrain, testF, yTestMat)
		if err != nil {
			return nil, errors.Wrapf(err, "configuration %s", pc)
		}
		report.Results = append(report.Results, *res)

		logger.Info("configuration evaluated",
			log.OperationKey, log.OperationEvaluate,
			log.ComponentsKey, k,
			log.ModelNameKey, res.Pipeline.String(),
			log.R2ScoreKey, res.R2,
			log.MAEKey, res.MAE,
			log.RMSEKey, res.RMSE,
			log.AlphaKey, res.Alpha,
			log.NonZeroKey, res.NonZero,
			log.DurationMsKey, time.Since(start).Milliseconds(),
		)
	}
	return report, nil
}

func evaluateOne(ctx context.Context, cfg Config, train *preprocessing.Features, yTrain []float64,
	test *preprocessing.Features, yTest mat.Matrix) (*Result, error) {
	p, err := New(cfg)
	if err != nil {
		return nil, err
	}
	if err := p.Fit(ctx, train, yTrain); err != nil {
		return nil, err
	}
	pred, err := p.Predict(test.X)
	if err != nil {
		return nil, err
	}
	summary, err := metrics.Summarize(yTest, mat.NewDense(len(pred), 1, pred))
	if err != nil {
		return nil, err
	}
	res := &Result{
		Config:    cfg,
		Summary:   summary,
		Alpha:     p.Alpha(),
		NonZero:   p.NonZero(),
		Predicted: pred,
		Pipeline:  p,
	}
	if p.PCA() != nil {
		res.ExplainedVariance = floats.Sum(p.PCA().ExplainedVarianceRatio())
	}
	return res, nil
}
