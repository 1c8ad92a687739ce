package pipeline

import (
	"fmt"

	"github.com/YuminosukeSato/moldesc/core/model"
	"github.com/YuminosukeSato/moldesc/decomposition"
	"github.com/YuminosukeSato/moldesc/linear_model"
	"github.com/YuminosukeSato/moldesc/pkg/errors"
	"github.com/YuminosukeSato/moldesc/preprocessing"
)

// formatVersion identifies the saved pipeline layout.
const formatVersion = "moldesc-pipeline/1"

// saved is the on-disk form of a fitted Pipeline.
type saved struct {
	Format    string                        `json:"format"`
	Config    Config                        `json:"config"`
	Features  []string                      `json:"features"`
	Scaler    *preprocessing.StandardScaler `json:"scaler,omitempty"`
	PCA       *decomposition.PCA            `json:"pca,omitempty"`
	Regressor *model.ModelWeights           `json:"regressor"`
}

// Save writes the fitted pipeline as JSON, gzip-compressed when path ends in ".gz".
func (p *Pipeline) Save(path string) error {
	if err := p.CheckFitted("Pipeline", "Save"); err != nil {
		return err
	}
	w, err := p.regressor.ExportWeights()
	if err != nil {
		return err
	}
	if p.cfg.Components > 0 {
		w.Features = componentNames(len(w.Coefficients))
	}
	return model.SaveModel(&saved{
		Format:    formatVersion,
		Config:    p.cfg,
		Features:  p.features,
		Scaler:    p.scaler,
		PCA:       p.pca,
		Regressor: w,
	}, path)
}

// Load reads a pipeline written by Save.
func Load(path string) (*Pipeline, error) {
	var s saved
	if err := model.LoadModel(&s, path); err != nil {
		return nil, err
	}
	if s.Format != formatVersion {
		return nil, errors.NewValidationError("format", "unsupported pipeline format", s.Format)
	}
	if s.Regressor == nil {
		return nil, errors.NewValidationError("regressor", "missing", nil)
	}
	p, err := New(s.Config)
	if err != nil {
		return nil, err
	}
	p.features = s.Features

	if s.Config.Components > 0 {
		if s.Scaler == nil || s.PCA == nil {
			return nil, errors.NewValidationError("pipeline", "scaler and pca are required when components > 0", s.Config.Components)
		}
		if s.Scaler.NFeatures != len(s.Features) || s.PCA.NFeatures != len(s.Features) {
			return nil, errors.NewDimensionError("Pipeline.Load", len(s.Features), s.PCA.NFeatures, 1)
		}
		if len(s.PCA.ComponentsRows) != s.Config.Components {
			return nil, errors.NewDimensionError("Pipeline.Load", s.Config.Components, len(s.PCA.ComponentsRows), 0)
		}
		s.Scaler.SetFitted()
		s.PCA.SetFitted()
		p.scaler, p.pca = s.Scaler, s.PCA
	}

	reg, err := regressorFor(s.Regressor.ModelType)
	if err != nil {
		return nil, err
	}
	if err := reg.ImportWeights(s.Regressor); err != nil {
		return nil, errors.Wrap(err, "restore regressor")
	}
	if s.Config.Components > 0 && len(reg.Coef()) != s.Config.Components {
		return nil, errors.NewDimensionError("Pipeline.Load", s.Config.Components, len(reg.Coef()), 1)
	}
	p.regressor = reg
	p.SetFitted()
	return p, nil
}

func regressorFor(modelType string) (model.Regressor, error) {
	switch modelType {
	case "LassoCV":
		return linear_model.NewLassoCV(), nil
	case "Lasso":
		return linear_model.NewLasso(), nil
	case "LinearRegression":
		return linear_model.NewLinearRegression(), nil
	case "DummyRegressor":
		return linear_model.NewDummyRegressor(), nil
	}
	return nil, errors.NewValidationError("model_type", "unknown regressor", modelType)
}

func componentNames(k int) []string {
	names := make([]string, k)
	for i := range names {
		names[i] = fmt.Sprintf("PC%d", i+1)
	}
	return names
}
