// Package pipeline chains standardization, PCA and a linear regressor, and
// evaluates such chains on a held-out split.
package pipeline

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/moldesc/core/model"
	"github.com/YuminosukeSato/moldesc/decomposition"
	"github.com/YuminosukeSato/moldesc/linear_model"
	"github.com/YuminosukeSato/moldesc/pkg/errors"
	"github.com/YuminosukeSato/moldesc/preprocessing"
)

// Regressor kinds accepted by Config.Model.
const (
	ModelLasso = "lasso"
	ModelOLS   = "ols"
)

// Config describes one pipeline configuration.
type Config struct {
	// Components is the number of principal components; 0 selects the mean baseline.
	Components int    `json:"components"`
	Model      string `json:"model"`
	CV         int    `json:"cv"`
	NAlphas    int    `json:"n_alphas"`
	Seed       uint64 `json:"seed"`
	Workers    int    `json:"workers"`
}

// DefaultConfig returns a 16-component LassoCV configuration.
func DefaultConfig() Config {
	return Config{Components: 16, Model: ModelLasso, CV: 5, NAlphas: 100}
}

// Validate checks the configuration before any fitting.
func (c Config) Validate() error {
	if c.Components < 0 {
		return errors.NewValidationError("components", "must be non-negative", c.Components)
	}
	switch c.Model {
	case ModelLasso, ModelOLS:
	default:
		return errors.NewValidationError("model", "must be lasso or ols", c.Model)
	}
	if c.Model == ModelLasso && c.Components > 0 && c.CV < 2 {
		return errors.NewValidationError("cv", "need at least 2 folds", c.CV)
	}
	return nil
}

func (c Config) String() string {
	if c.Components == 0 {
		return "components=0 model=mean"
	}
	return fmt.Sprintf("components=%d model=%s", c.Components, c.Model)
}

// Pipeline is scaler → PCA → regressor. With zero components it is a mean
// predictor and the transform steps are skipped.
type Pipeline struct {
	model.BaseEstimator

	cfg       Config
	features  []string
	scaler    *preprocessing.StandardScaler
	pca       *decomposition.PCA
	regressor model.Regressor
}

// New creates an unfitted pipeline.
func New(cfg Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Pipeline{cfg: cfg}
	p.build()
	return p, nil
}

func (p *Pipeline) build() {
	if p.cfg.Components == 0 {
		p.scaler, p.pca = nil, nil
		p.regressor = linear_model.NewDummyRegressor()
		return
	}
	p.scaler = preprocessing.NewStandardScalerDefault()
	p.pca = decomposition.NewPCA(p.cfg.Components)
	switch p.cfg.Model {
	case ModelOLS:
		p.regressor = linear_model.NewLinearRegression()
	default:
		opts := []linear_model.Option{
			linear_model.WithCV(p.cfg.CV),
			linear_model.WithRandomState(p.cfg.Seed),
			linear_model.WithWorkers(p.cfg.Workers),
		}
		if p.cfg.NAlphas > 0 {
			opts = append(opts, linear_model.WithNAlphas(p.cfg.NAlphas))
		}
		p.regressor = linear_model.NewLassoCV(opts...)
	}
}

func (p *Pipeline) steps() []model.Transformer {
	if p.cfg.Components == 0 {
		return nil
	}
	return []model.Transformer{p.scaler, p.pca}
}

// Fit fits every step on features and y. Any earlier fit is discarded.
func (p *Pipeline) Fit(ctx context.Context, features *preprocessing.Features, y []float64) error {
	n, d := features.Dims()
	if n == 0 || d == 0 {
		return errors.NewModelError("Pipeline.Fit", "empty data", errors.ErrEmptyData)
	}
	if len(y) != n {
		return errors.NewDimensionError("Pipeline.Fit", n, len(y), 0)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	p.Reset()
	p.build()
	p.features = append([]string(nil), features.Names...)

	var Z mat.Matrix = features.X
	for _, step := range p.steps() {
		var err error
		if Z, err = step.FitTransform(Z); err != nil {
			return err
		}
	}

	yMat := mat.NewDense(n, 1, append([]float64(nil), y...))
	var err error
	if cv, ok := p.regressor.(*linear_model.LassoCV); ok {
		err = cv.FitContext(ctx, Z, yMat)
	} else {
		err = p.regressor.Fit(Z, yMat)
	}
	if err != nil {
		return err
	}
	p.SetFitted()
	return nil
}

// Transform applies the fitted scaler and PCA, returning the reduced features.
func (p *Pipeline) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := p.CheckFitted("Pipeline", "Transform"); err != nil {
		return nil, err
	}
	if _, d := X.Dims(); d != len(p.features) {
		return nil, errors.NewDimensionError("Pipeline.Transform", len(p.features), d, 1)
	}
	Z := X
	for _, step := range p.steps() {
		var err error
		if Z, err = step.Transform(Z); err != nil {
			return nil, err
		}
	}
	r, c := Z.Dims()
	if err := errors.CheckMatrix("Pipeline.Transform", Z, r, c, 0); err != nil {
		return nil, err
	}
	return Z, nil
}

// Predict returns one prediction per row of X, whose columns follow FeatureNames.
func (p *Pipeline) Predict(X mat.Matrix) ([]float64, error) {
	Z, err := p.Transform(X)
	if err != nil {
		return nil, err
	}
	pred, err := p.regressor.Predict(Z)
	if err != nil {
		return nil, err
	}
	return mat.Col(nil, 0, pred), nil
}

// Config returns the configuration the pipeline was built with.
func (p *Pipeline) Config() Config { return p.cfg }

// FeatureNames returns the descriptor columns expected by Predict.
func (p *Pipeline) FeatureNames() []string { return append([]string(nil), p.features...) }

// Regressor returns the final estimator.
func (p *Pipeline) Regressor() model.Regressor { return p.regressor }

// PCA returns the fitted reducer, or nil for the baseline.
func (p *Pipeline) PCA() *decomposition.PCA { return p.pca }

// Alpha returns the selected LASSO penalty, or 0 when no LASSO is used.
func (p *Pipeline) Alpha() float64 {
	if cv, ok := p.regressor.(*linear_model.LassoCV); ok {
		return cv.Alpha()
	}
	return 0
}

// NonZero counts non-zero regressor coefficients.
func (p *Pipeline) NonZero() int {
	return linear_model.NonZero(p.regressor.Coef())
}

func (p *Pipeline) String() string {
	return "Pipeline(" + p.cfg.String() + ")"
}
