package metrics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/moldesc/pkg/errors"
)

// Summary holds the held-out scores reported for one model configuration.
type Summary struct {
	R2       float64 `json:"r2"`
	MAE      float64 `json:"mae"`
	RMSE     float64 `json:"rmse"`
	MaxError float64 `json:"max_error"`
}

// Summarize scores yPred against yTrue. Both must be n×1.
func Summarize(yTrue, yPred mat.Matrix) (Summary, error) {
	rt, ct := yTrue.Dims()
	rp, cp := yPred.Dims()
	if ct != 1 || cp != 1 {
		return Summary{}, errors.NewValueError("Summarize", "must be column vectors (n×1 matrices)")
	}
	if rt != rp {
		return Summary{}, errors.NewDimensionError("Summarize", rt, rp, 0)
	}
	t, p := ColumnVec(yTrue), ColumnVec(yPred)

	var s Summary
	var err error
	if s.R2, err = R2Score(t, p); err != nil {
		return Summary{}, err
	}
	if s.MAE, err = MAE(t, p); err != nil {
		return Summary{}, err
	}
	if s.RMSE, err = RMSE(t, p); err != nil {
		return Summary{}, err
	}
	if s.MaxError, err = MaxError(t, p); err != nil {
		return Summary{}, err
	}
	return s, nil
}
