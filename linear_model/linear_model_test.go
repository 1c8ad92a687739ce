package linear_model

import (
	"math"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/moldesc/core/model"
	"github.com/YuminosukeSato/moldesc/pkg/errors"
)

var _ model.Regressor = (*Lasso)(nil)
var _ model.Regressor = (*LassoCV)(nil)
var _ model.Regressor = (*LinearRegression)(nil)
var _ model.Regressor = (*DummyRegressor)(nil)
var _ model.ParameterGetter = (*LassoCV)(nil)

// synthetic returns y = 3·x0 − 2·x1 + 5 + noise with a third, irrelevant column.
func synthetic(n int, noise float64, seed uint64) (*mat.Dense, *mat.Dense) {
	rng := rand.New(rand.NewPCG(seed, seed))
	X := mat.NewDense(n, 3, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		x0, x1, x2 := rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()
		X.SetRow(i, []float64{x0, x1, x2})
		y.Set(i, 0, 3*x0-2*x1+5+noise*rng.NormFloat64())
	}
	return X, y
}

func captureWarnings(t *testing.T) *[]error {
	t.Helper()
	var mu sync.Mutex
	var got []error
	errors.SetZerologWarnFunc(func(w error) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, w)
	})
	t.Cleanup(func() { errors.SetZerologWarnFunc(nil) })
	return &got
}

func TestLinearRegression_RecoversCoefficients(t *testing.T) {
	X, y := synthetic(50, 0, 1)
	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(X, y))
	assert.InDeltaSlice(t, []float64{3, -2, 0}, lr.Coef(), 1e-9)
	assert.InDelta(t, 5, lr.Intercept(), 1e-9)

	r2, err := lr.Score(X, y)
	require.NoError(t, err)
	assert.InDelta(t, 1, r2, 1e-12)
}

func TestLinearRegression_Singular(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{1, 2, 2, 2, 3, 2, 4, 2})
	y := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	err := NewLinearRegression().Fit(X, y)
	assert.True(t, errors.Is(err, errors.ErrSingularMatrix))

	err = NewLinearRegression().Fit(mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 7}), mat.NewDense(2, 1, []float64{1, 2}))
	assert.True(t, errors.Is(err, errors.ErrSingularMatrix))
}

func TestLasso_SmallAlphaMatchesOLS(t *testing.T) {
	X, y := synthetic(200, 0.1, 2)
	ols := NewLinearRegression()
	require.NoError(t, ols.Fit(X, y))

	l := NewLasso(WithAlpha(1e-6), WithTol(1e-10), WithMaxIter(10000))
	require.NoError(t, l.Fit(X, y))
	assert.InDeltaSlice(t, ols.Coef(), l.Coef(), 1e-4)
	assert.InDelta(t, ols.Intercept(), l.Intercept(), 1e-4)
}

func TestLasso_LargeAlphaZeroesEverything(t *testing.T) {
	X, y := synthetic(100, 0.5, 3)
	l := NewLasso(WithAlpha(maxAlpha(X, y, true) * 1.01))
	require.NoError(t, l.Fit(X, y))
	assert.Equal(t, []float64{0, 0, 0}, l.Coef())

	mean := mat.Sum(y) / 100
	assert.InDelta(t, mean, l.Intercept(), 1e-12)
}

func TestLasso_CorrelatedInputsProduceExactZero(t *testing.T) {
	rng := rand.New(rand.NewPCG(4, 4))
	n := 200
	X := mat.NewDense(n, 3, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		a := rng.NormFloat64()
		X.SetRow(i, []float64{a, a + 0.01*rng.NormFloat64(), rng.NormFloat64()})
		y.Set(i, 0, a)
	}
	l := NewLasso(WithAlpha(0.1))
	require.NoError(t, l.Fit(X, y))
	assert.Less(t, NonZero(l.Coef()), 3)
}

func TestLasso_ConvergenceWarning(t *testing.T) {
	warnings := captureWarnings(t)
	X, y := synthetic(100, 0.5, 5)
	l := NewLasso(WithAlpha(0.01), WithMaxIter(1), WithTol(1e-12))
	require.NoError(t, l.Fit(X, y))

	require.NotEmpty(t, *warnings)
	var cw *errors.ConvergenceWarning
	assert.True(t, errors.As((*warnings)[0], &cw))
}

func TestLasso_Validation(t *testing.T) {
	X, y := synthetic(10, 0, 6)
	var ve *errors.ValidationError
	assert.True(t, errors.As(NewLasso(WithAlpha(-1)).Fit(X, y), &ve))

	_, err := NewLasso().Predict(X)
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))

	l := NewLasso()
	require.NoError(t, l.Fit(X, y))
	_, err = l.Predict(mat.NewDense(2, 2, nil))
	var de *errors.DimensionError
	assert.True(t, errors.As(err, &de))

	err = l.Fit(X, mat.NewDense(9, 1, nil))
	assert.True(t, errors.As(err, &de))
}

func TestLassoCV_SelectsAlphaAndIsDeterministic(t *testing.T) {
	X, y := synthetic(150, 0.5, 7)

	a := NewLassoCV(WithNAlphas(20), WithCV(5), WithRandomState(11), WithWorkers(1))
	require.NoError(t, a.Fit(X, y))
	b := NewLassoCV(WithNAlphas(20), WithCV(5), WithRandomState(11), WithWorkers(4))
	require.NoError(t, b.Fit(X, y))

	assert.Equal(t, a.Alpha(), b.Alpha())
	assert.Equal(t, a.Coef(), b.Coef())
	assert.Equal(t, a.MSEPath(), b.MSEPath())

	alphas := a.Alphas()
	require.Len(t, alphas, 20)
	for k := 1; k < len(alphas); k++ {
		assert.Greater(t, alphas[k-1], alphas[k])
	}
	assert.InDelta(t, alphas[0]*1e-3, alphas[19], alphas[19]*1e-9)
	assert.Contains(t, alphas, a.Alpha())

	path := a.MSEPath()
	require.Len(t, path, 20)
	assert.Len(t, path[0], 5)

	// strong signal: the selected model keeps both informative features
	coef := a.Coef()
	assert.InDelta(t, 3, coef[0], 0.3)
	assert.InDelta(t, -2, coef[1], 0.3)

	r2, err := a.Score(X, y)
	require.NoError(t, err)
	assert.Greater(t, r2, 0.9)
}

func TestLassoCV_ExplicitAlphas(t *testing.T) {
	X, y := synthetic(60, 0.2, 8)
	cv := NewLassoCV(WithAlphas([]float64{0.001, 100, 0.1}), WithCV(3))
	require.NoError(t, cv.Fit(X, y))
	assert.Equal(t, []float64{100, 0.1, 0.001}, cv.Alphas())
	assert.NotEqual(t, 100.0, cv.Alpha())

	err := NewLassoCV(WithAlphas([]float64{-1})).Fit(X, y)
	assert.Error(t, err)
	err = NewLassoCV(WithCV(1)).Fit(X, y)
	assert.Error(t, err)
}

func TestWeights_RoundTrip(t *testing.T) {
	X, y := synthetic(80, 0.3, 9)
	models := map[string]func() model.Regressor{
		"Lasso":            func() model.Regressor { return NewLasso(WithAlpha(0.05)) },
		"LassoCV":          func() model.Regressor { return NewLassoCV(WithNAlphas(10), WithCV(3)) },
		"LinearRegression": func() model.Regressor { return NewLinearRegression() },
		"DummyRegressor":   func() model.Regressor { return NewDummyRegressor() },
	}
	for name, newModel := range models {
		t.Run(name, func(t *testing.T) {
			fitted := newModel()
			require.NoError(t, fitted.Fit(X, y))
			w, err := fitted.ExportWeights()
			require.NoError(t, err)
			assert.Equal(t, name, w.ModelType)

			data, err := w.ToJSON()
			require.NoError(t, err)
			var decoded model.ModelWeights
			require.NoError(t, decoded.FromJSON(data))

			restored := newModel()
			require.NoError(t, restored.ImportWeights(&decoded))
			p1, err := fitted.Predict(X)
			require.NoError(t, err)
			p2, err := restored.Predict(X)
			require.NoError(t, err)
			assert.True(t, mat.Equal(p1, p2))

			tampered := decoded.Clone()
			tampered.Intercept += 1
			assert.Error(t, newModel().ImportWeights(tampered))

			other := decoded.Clone()
			other.ModelType = "Other"
			assert.Error(t, newModel().ImportWeights(other))
		})
	}
}

func TestDummyRegressor(t *testing.T) {
	X, y := synthetic(20, 1, 10)
	d := NewDummyRegressor()
	require.NoError(t, d.Fit(X, y))
	pred, err := d.Predict(X)
	require.NoError(t, err)

	mean := mat.Sum(y) / 20
	for i := 0; i < 20; i++ {
		assert.Equal(t, mean, pred.At(i, 0))
	}
	r2, err := d.Score(X, y)
	require.NoError(t, err)
	assert.InDelta(t, 0, r2, 1e-12)
	assert.Nil(t, d.Coef())
	assert.Equal(t, mean, d.Intercept())
	assert.False(t, math.IsNaN(d.PredictN(3).At(2, 0)))
}

func TestSoftThresholdAndNonZero(t *testing.T) {
	assert.Equal(t, 2.0, softThreshold(3, 1))
	assert.Equal(t, -2.0, softThreshold(-3, 1))
	assert.Equal(t, 0.0, softThreshold(0.5, 1))
	assert.Equal(t, 2, NonZero([]float64{0, 1, -0.5, 0}))
}
