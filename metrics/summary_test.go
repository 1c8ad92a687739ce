package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/moldesc/pkg/errors"
)

func TestMaxError(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		want    float64
		wantErr bool
	}{
		{name: "perfect", yTrue: []float64{1, 2}, yPred: []float64{1, 2}, want: 0},
		{name: "worst residual", yTrue: []float64{1, 2, 3}, yPred: []float64{1.5, 0, 3.25}, want: 2},
		{name: "length mismatch", yTrue: []float64{1, 2}, yPred: []float64{1}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MaxError(mat.NewVecDense(len(tt.yTrue), tt.yTrue), mat.NewVecDense(len(tt.yPred), tt.yPred))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestMAPEAndExplainedVariance(t *testing.T) {
	var warnings []error
	errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	t.Cleanup(func() { errors.SetWarningHandler(func(error) {}) })

	yTrue := mat.NewVecDense(4, []float64{0, 2, 4, 8})
	yPred := mat.NewVecDense(4, []float64{1, 1, 5, 8})

	mape, err := MAPE(yTrue, yPred)
	require.NoError(t, err)
	// zeros skipped: (0.5 + 0.25 + 0) / 3
	assert.InDelta(t, 25.0, mape, 1e-9)
	require.Len(t, warnings, 1)
	var uw *errors.UndefinedMetricWarning
	require.True(t, errors.As(warnings[0], &uw))
	assert.Equal(t, "MAPE", uw.Metric)
	assert.InDelta(t, 25.0, uw.Result, 1e-9)

	_, err = MAPE(mat.NewVecDense(2, []float64{1, 2}), mat.NewVecDense(2, []float64{1, 2}))
	require.NoError(t, err)
	assert.Len(t, warnings, 1, "no zero targets, no warning")

	// a constant offset leaves the residual variance at zero
	ev, err := ExplainedVarianceScore(yTrue, mat.NewVecDense(4, []float64{1, 3, 5, 9}))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, ev, 1e-12)

	_, err = MAPE(mat.NewVecDense(2, []float64{0, 0}), mat.NewVecDense(2, []float64{1, 1}))
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	yTrue := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	yPred := mat.NewDense(4, 1, []float64{1, 2, 3, 6})

	s, err := Summarize(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 1-4.0/5.0, s.R2, 1e-12)
	assert.InDelta(t, 0.5, s.MAE, 1e-12)
	assert.InDelta(t, 1.0, s.RMSE, 1e-12)
	assert.InDelta(t, 2.0, s.MaxError, 1e-12)

	_, err = Summarize(yTrue, mat.NewDense(3, 1, nil))
	var de *errors.DimensionError
	assert.True(t, errors.As(err, &de))

	_, err = Summarize(mat.NewDense(2, 1, []float64{5, 5}), mat.NewDense(2, 1, []float64{5, 5}))
	assert.True(t, errors.Is(err, errors.ErrDegenerateInput))
}

func TestColumnVec(t *testing.T) {
	v := ColumnVec(mat.NewDense(3, 2, []float64{1, 9, 2, 9, 3, 9}))
	assert.Equal(t, 3, v.Len())
	assert.False(t, math.IsNaN(v.AtVec(2)))
	assert.Equal(t, 3.0, v.AtVec(2))
}
