package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/moldesc/pkg/errors"
)

// held-out band gaps (eV) and two sets of predictions
var (
	gapTrue = []float64{6.8, 7.2, 5.1, 4.4, 8.0}
	gapPred = []float64{6.5, 7.4, 5.6, 4.0, 7.9}
	gapLow  = []float64{5.0, 5.0, 5.0, 5.0, 5.0}
)

func vec(x []float64) *mat.VecDense { return mat.NewVecDense(len(x), append([]float64(nil), x...)) }

func TestPointMetrics(t *testing.T) {
	// residuals: 0.3, -0.2, -0.5, 0.4, 0.1
	tests := []struct {
		name string
		fn   func(yTrue, yPred *mat.VecDense) (float64, error)
		want float64
	}{
		{"MSE", MSE, (0.09 + 0.04 + 0.25 + 0.16 + 0.01) / 5},
		{"RMSE", RMSE, math.Sqrt((0.09 + 0.04 + 0.25 + 0.16 + 0.01) / 5)},
		{"MAE", MAE, (0.3 + 0.2 + 0.5 + 0.4 + 0.1) / 5},
		{"MaxError", MaxError, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn(vec(gapTrue), vec(gapPred))
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)

			zero, err := tt.fn(vec(gapTrue), vec(gapTrue))
			require.NoError(t, err)
			assert.Zero(t, zero)

			_, err = tt.fn(vec(gapTrue), vec(gapPred[:3]))
			var de *errors.DimensionError
			assert.True(t, errors.As(err, &de))

			_, err = tt.fn(&mat.VecDense{}, &mat.VecDense{})
			var ve *errors.ValueError
			assert.True(t, errors.As(err, &ve))
		})
	}
}

func TestMSEMatrix(t *testing.T) {
	got, err := MSEMatrix(mat.NewDense(5, 1, append([]float64(nil), gapTrue...)), mat.NewDense(5, 1, append([]float64(nil), gapPred...)))
	require.NoError(t, err)
	want, _ := MSE(vec(gapTrue), vec(gapPred))
	assert.InDelta(t, want, got, 1e-12)

	_, err = MSEMatrix(mat.NewDense(2, 2, nil), mat.NewDense(2, 2, nil))
	assert.Error(t, err)
	_, err = MSEMatrix(mat.NewDense(3, 1, nil), mat.NewDense(2, 1, nil))
	assert.Error(t, err)
}

func TestR2Score(t *testing.T) {
	perfect, err := R2Score(vec(gapTrue), vec(gapTrue))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, perfect, 1e-12)

	mean := 0.0
	for _, v := range gapTrue {
		mean += v
	}
	mean /= float64(len(gapTrue))
	baseline := make([]float64, len(gapTrue))
	for i := range baseline {
		baseline[i] = mean
	}
	zero, err := R2Score(vec(gapTrue), vec(baseline))
	require.NoError(t, err)
	assert.InDelta(t, 0.0, zero, 1e-12, "the mean predictor scores zero")

	good, err := R2Score(vec(gapTrue), vec(gapPred))
	require.NoError(t, err)
	offset, err := R2Score(vec(gapTrue), vec(gapLow))
	require.NoError(t, err)
	assert.Greater(t, good, 0.9)
	assert.Less(t, offset, 0.0, "a constant off the mean scores below zero")

	_, err = R2Score(vec([]float64{5, 5, 5}), vec([]float64{4, 5, 6}))
	assert.True(t, errors.Is(err, errors.ErrDegenerateInput))
}

func BenchmarkR2Score(b *testing.B) {
	n := 10000
	yTrue, yPred := mat.NewVecDense(n, nil), mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		yTrue.SetVec(i, float64(i%97)/10)
		yPred.SetVec(i, float64(i%97)/10+0.01*float64(i%7))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = R2Score(yTrue, yPred)
	}
}
