package linear_model

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/moldesc/core/model"
	"github.com/YuminosukeSato/moldesc/pkg/errors"
)

// DummyRegressor predicts the training mean for every sample. It is the baseline
// for configurations that keep no features.
type DummyRegressor struct {
	state *model.StateManager
	mean  float64
}

// NewDummyRegressor creates a mean predictor.
func NewDummyRegressor() *DummyRegressor {
	return &DummyRegressor{state: model.NewStateManager()}
}

// Fit records the mean of y. X is only checked for a matching row count and may be
// nil.
func (dr *DummyRegressor) Fit(X, y mat.Matrix) error {
	ry, cy := y.Dims()
	if ry == 0 {
		return errors.NewModelError("DummyRegressor.Fit", "empty data", errors.ErrEmptyData)
	}
	if cy != 1 {
		return errors.NewDimensionError("DummyRegressor.Fit", 1, cy, 1)
	}
	d := 0
	if X != nil {
		var n int
		n, d = X.Dims()
		if n != ry {
			return errors.NewDimensionError("DummyRegressor.Fit", n, ry, 0)
		}
	}
	sum := 0.0
	for i := 0; i < ry; i++ {
		sum += y.At(i, 0)
	}
	dr.mean = sum / float64(ry)
	dr.state.SetDimensions(d, ry)
	dr.state.SetFitted()
	return nil
}

// Predict returns the training mean for each row of X.
func (dr *DummyRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := dr.state.RequireFitted("DummyRegressor", "Predict"); err != nil {
		return nil, err
	}
	n, _ := X.Dims()
	return dr.PredictN(n), nil
}

// PredictN returns n copies of the training mean.
func (dr *DummyRegressor) PredictN(n int) *mat.Dense {
	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		out.Set(i, 0, dr.mean)
	}
	return out
}

// Score returns R² on (X, y); it is zero on the training data.
func (dr *DummyRegressor) Score(X, y mat.Matrix) (float64, error) {
	return score(dr, X, y)
}

// Coef returns nil; the baseline uses no features.
func (dr *DummyRegressor) Coef() []float64 { return nil }

// Intercept returns the training mean.
func (dr *DummyRegressor) Intercept() float64 { return dr.mean }

// ExportWeights captures the mean.
func (dr *DummyRegressor) ExportWeights() (*model.ModelWeights, error) {
	if err := dr.state.RequireFitted("DummyRegressor", "ExportWeights"); err != nil {
		return nil, err
	}
	_, nSamples := dr.state.GetDimensions()
	return &model.ModelWeights{
		ModelType:       "DummyRegressor",
		Version:         model.WeightsVersion,
		Intercept:       dr.mean,
		IsFitted:        true,
		Hyperparameters: map[string]interface{}{"strategy": "mean"},
		Metadata: map[string]interface{}{
			"n_samples": nSamples,
			"checksum":  checksum(nil, dr.mean),
		},
	}, nil
}

// ImportWeights restores the mean.
func (dr *DummyRegressor) ImportWeights(w *model.ModelWeights) error {
	if err := importCommon(w, "DummyRegressor"); err != nil {
		return err
	}
	dr.mean = w.Intercept
	dr.state.SetFitted()
	return nil
}
