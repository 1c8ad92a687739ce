package linear_model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/moldesc/core/model"
	"github.com/YuminosukeSato/moldesc/pkg/errors"
)

// LinearRegression は最小二乗法による線形回帰
type LinearRegression struct {
	state *model.StateManager

	fitIntercept bool

	coef      []float64
	intercept float64
}

// LinearRegressionOption は LinearRegression の設定オプション
type LinearRegressionOption func(*LinearRegression)

// WithLRFitIntercept は切片の学習有無を設定する
func WithLRFitIntercept(fit bool) LinearRegressionOption {
	return func(lr *LinearRegression) { lr.fitIntercept = fit }
}

// NewLinearRegression は新しい LinearRegression を作成する
func NewLinearRegression(options ...LinearRegressionOption) *LinearRegression {
	lr := &LinearRegression{
		state:        model.NewStateManager(),
		fitIntercept: true,
	}
	for _, opt := range options {
		opt(lr)
	}
	return lr
}

// Fit はQR分解で最小二乗問題を解く。ランク落ちの場合は ErrSingularMatrix
func (lr *LinearRegression) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "LinearRegression.Fit")

	n, d, err := checkXy("LinearRegression.Fit", X, y)
	if err != nil {
		return err
	}

	var Xc *mat.Dense
	var yc, xMean []float64
	var yMean float64
	if lr.fitIntercept {
		Xc, yc, xMean, yMean = centre(X, y)
	} else {
		Xc, yc, xMean = mat.DenseCopyOf(X), mat.Col(nil, 0, y), make([]float64, d)
	}
	if n < d {
		return errors.NewModelError("LinearRegression.Fit",
			fmt.Sprintf("underdetermined system: %d samples, %d features", n, d), errors.ErrSingularMatrix)
	}

	var qr mat.QR
	qr.Factorize(Xc)
	var sol mat.Dense
	if err := qr.SolveTo(&sol, false, mat.NewDense(n, 1, yc)); err != nil {
		return errors.NewModelError("LinearRegression.Fit", "singular matrix", errors.ErrSingularMatrix)
	}
	coef := mat.Col(nil, 0, &sol)
	if err := errors.CheckNumericalStability("LinearRegression.Fit", coef, 0); err != nil {
		return err
	}

	lr.coef = coef
	lr.intercept = 0
	if lr.fitIntercept {
		lr.intercept = interceptFor(coef, xMean, yMean)
	}
	lr.state.SetDimensions(d, n)
	lr.state.SetFitted()
	return nil
}

// Predict は X·coef + intercept を返す
func (lr *LinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := lr.state.RequireFitted("LinearRegression", "Predict"); err != nil {
		return nil, err
	}
	_, d := X.Dims()
	if err := lr.state.RequireFeatures("LinearRegression.Predict", d); err != nil {
		return nil, err
	}
	return predictLinear(X, lr.coef, lr.intercept), nil
}

// Score は決定係数 R² を返す
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	return score(lr, X, y)
}

// Coef は学習された係数のコピーを返す
func (lr *LinearRegression) Coef() []float64 { return append([]float64(nil), lr.coef...) }

// Intercept は学習された切片を返す
func (lr *LinearRegression) Intercept() float64 { return lr.intercept }

// GetParams returns the hyperparameters.
func (lr *LinearRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{"fit_intercept": lr.fitIntercept}
}

// ExportWeights はモデルの重みをエクスポートする
func (lr *LinearRegression) ExportWeights() (*model.ModelWeights, error) {
	if err := lr.state.RequireFitted("LinearRegression", "ExportWeights"); err != nil {
		return nil, err
	}
	nFeatures, nSamples := lr.state.GetDimensions()
	return &model.ModelWeights{
		ModelType:       "LinearRegression",
		Version:         model.WeightsVersion,
		Coefficients:    lr.Coef(),
		Intercept:       lr.intercept,
		IsFitted:        true,
		Hyperparameters: lr.GetParams(),
		Metadata: map[string]interface{}{
			"n_features": nFeatures,
			"n_samples":  nSamples,
			"checksum":   checksum(lr.coef, lr.intercept),
		},
	}, nil
}

// ImportWeights はチェックサムを検証して重みを復元する
func (lr *LinearRegression) ImportWeights(w *model.ModelWeights) error {
	if err := importCommon(w, "LinearRegression"); err != nil {
		return err
	}
	if fit, ok := w.Hyperparameters["fit_intercept"].(bool); ok {
		lr.fitIntercept = fit
	}
	lr.coef = append([]float64(nil), w.Coefficients...)
	lr.intercept = w.Intercept
	lr.state.SetDimensions(len(lr.coef), 0)
	lr.state.SetFitted()
	return nil
}

func (lr *LinearRegression) String() string {
	if !lr.state.IsFitted() {
		return fmt.Sprintf("LinearRegression(fit_intercept=%t)", lr.fitIntercept)
	}
	nFeatures, _ := lr.state.GetDimensions()
	return fmt.Sprintf("LinearRegression(fit_intercept=%t, n_features=%d, fitted=true)", lr.fitIntercept, nFeatures)
}
