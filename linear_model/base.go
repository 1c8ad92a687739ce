// Package linear_model provides the regressors placed at the end of a pipeline:
// LASSO with and without cross-validated alpha, ordinary least squares, and a
// mean-predicting baseline.
package linear_model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/moldesc/core/model"
	"github.com/YuminosukeSato/moldesc/metrics"
	"github.com/YuminosukeSato/moldesc/pkg/errors"
)

// checkXy validates a design matrix and an n×1 target.
func checkXy(op string, X, y mat.Matrix) (n, d int, err error) {
	n, d = X.Dims()
	ry, cy := y.Dims()
	if n == 0 || d == 0 {
		return 0, 0, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if ry != n {
		return 0, 0, errors.NewDimensionError(op, n, ry, 0)
	}
	if cy != 1 {
		return 0, 0, errors.NewDimensionError(op, 1, cy, 1)
	}
	return n, d, nil
}

// predictLinear computes X·coef + intercept as an n×1 matrix.
func predictLinear(X mat.Matrix, coef []float64, intercept float64) *mat.Dense {
	n, d := X.Dims()
	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		v := intercept
		for j := 0; j < d; j++ {
			v += X.At(i, j) * coef[j]
		}
		out.Set(i, 0, v)
	}
	return out
}

// score returns R² of p on (X, y).
func score(p model.Predictor, X, y mat.Matrix) (float64, error) {
	pred, err := p.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2Score(metrics.ColumnVec(y), metrics.ColumnVec(pred))
}

// centre returns the column means of X and y and centred copies of both.
func centre(X, y mat.Matrix) (Xc *mat.Dense, yc []float64, xMean []float64, yMean float64) {
	n, d := X.Dims()
	Xc = mat.DenseCopyOf(X)
	xMean = make([]float64, d)
	for j := 0; j < d; j++ {
		for i := 0; i < n; i++ {
			xMean[j] += Xc.At(i, j)
		}
		xMean[j] /= float64(n)
	}
	Xc.Apply(func(_, j int, v float64) float64 { return v - xMean[j] }, Xc)

	yc = make([]float64, n)
	for i := 0; i < n; i++ {
		yc[i] = y.At(i, 0)
		yMean += yc[i]
	}
	yMean /= float64(n)
	for i := range yc {
		yc[i] -= yMean
	}
	return Xc, yc, xMean, yMean
}

// interceptFor recovers the intercept of a model fit on centred data.
func interceptFor(coef, xMean []float64, yMean float64) float64 {
	b := yMean
	for j, w := range coef {
		b -= w * xMean[j]
	}
	return b
}

// NonZero counts coefficients that are exactly non-zero.
func NonZero(coef []float64) int {
	n := 0
	for _, w := range coef {
		if w != 0 {
			n++
		}
	}
	return n
}

// checksum hashes the coefficients and intercept so corrupted weight files are
// rejected on import.
func checksum(coef []float64, intercept float64) string {
	data, _ := json.Marshal(append(append([]float64(nil), coef...), intercept))
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// importCommon validates w against modelType and returns its coefficients.
func importCommon(w *model.ModelWeights, modelType string) error {
	if w == nil {
		return errors.NewValueError(modelType+".ImportWeights", "weights cannot be nil")
	}
	if err := w.Validate(); err != nil {
		return err
	}
	if w.ModelType != modelType {
		return errors.NewValidationError("model_type", "expected "+modelType, w.ModelType)
	}
	if !w.IsFitted {
		return errors.NewNotFittedError(modelType, "ImportWeights")
	}
	if sum, ok := w.Metadata["checksum"].(string); ok && sum != checksum(w.Coefficients, w.Intercept) {
		return errors.NewValueError(modelType+".ImportWeights", "checksum mismatch: weights may be corrupted")
	}
	return nil
}
