package pipeline

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/moldesc/linear_model"
	"github.com/YuminosukeSato/moldesc/pkg/errors"
	"github.com/YuminosukeSato/moldesc/preprocessing"
)

// latentFeatures builds d noisy mixtures of three latent factors; y is a linear
// function of the factors.
func latentFeatures(n, d int, seed uint64) (*preprocessing.Features, []float64) {
	rng := rand.New(rand.NewPCG(seed, seed))
	mix := make([][3]float64, d)
	for j := range mix {
		for k := 0; k < 3; k++ {
			mix[j][k] = rng.NormFloat64()
		}
	}
	X := mat.NewDense(n, d, nil)
	y := make([]float64, n)
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		z := [3]float64{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}
		for j := 0; j < d; j++ {
			X.Set(i, j, mix[j][0]*z[0]+mix[j][1]*z[1]+mix[j][2]*z[2]+0.1*rng.NormFloat64()+float64(j))
		}
		y[i] = 2*z[0] - z[1] + 0.5*z[2] + 0.05*rng.NormFloat64()
		ids[i] = fmt.Sprintf("m%d", i)
	}
	names := make([]string, d)
	for j := range names {
		names[j] = fmt.Sprintf("D%d", j)
	}
	return &preprocessing.Features{Names: names, RowIDs: ids, X: X}, y
}

func testConfig(k int) Config {
	return Config{Components: k, Model: ModelLasso, CV: 3, NAlphas: 20, Seed: 1}
}

func TestPipeline_FitPredict(t *testing.T) {
	f, y := latentFeatures(200, 12, 1)
	p, err := New(testConfig(4))
	require.NoError(t, err)
	require.NoError(t, p.Fit(context.Background(), f, y))

	pred, err := p.Predict(f.X)
	require.NoError(t, err)
	require.Len(t, pred, 200)

	r2, err := p.Regressor().Score(mustTransform(t, p, f.X), mat.NewDense(200, 1, y))
	require.NoError(t, err)
	assert.Greater(t, r2, 0.95)
	assert.Greater(t, p.Alpha(), 0.0)
	assert.Equal(t, f.Names, p.FeatureNames())
	assert.IsType(t, &linear_model.LassoCV{}, p.Regressor())

	_, err = p.Predict(mat.NewDense(2, 3, nil))
	var de *errors.DimensionError
	assert.True(t, errors.As(err, &de))

	bad := mat.DenseCopyOf(f.X)
	bad.Set(0, 0, math.Inf(1))
	_, err = p.Predict(bad)
	var ne *errors.NumericalInstabilityError
	assert.True(t, errors.As(err, &ne), "got %v", err)
}

func mustTransform(t *testing.T, p *Pipeline, X mat.Matrix) mat.Matrix {
	t.Helper()
	Z, err := p.Transform(X)
	require.NoError(t, err)
	return Z
}

func TestPipeline_ZeroComponentsPredictsMean(t *testing.T) {
	f, y := latentFeatures(50, 5, 2)
	p, err := New(testConfig(0))
	require.NoError(t, err)
	require.NoError(t, p.Fit(context.Background(), f, y))

	mean := 0.0
	for _, v := range y {
		mean += v
	}
	mean /= float64(len(y))

	pred, err := p.Predict(f.X)
	require.NoError(t, err)
	for _, v := range pred {
		assert.InDelta(t, mean, v, 1e-12)
	}
	assert.Nil(t, p.PCA())
	assert.Equal(t, 0.0, p.Alpha())
}

func TestPipeline_OLS(t *testing.T) {
	f, y := latentFeatures(100, 6, 3)
	cfg := testConfig(3)
	cfg.Model = ModelOLS
	p, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, p.Fit(context.Background(), f, y))
	assert.IsType(t, &linear_model.LinearRegression{}, p.Regressor())
	assert.Equal(t, 3, p.NonZero())
}

func TestPipeline_SaveLoad(t *testing.T) {
	f, y := latentFeatures(120, 8, 4)
	for _, k := range []int{3, 0} {
		for _, name := range []string{"model.json", "model.json.gz"} {
			t.Run(fmt.Sprintf("%d/%s", k, name), func(t *testing.T) {
				p, err := New(testConfig(k))
				require.NoError(t, err)
				require.NoError(t, p.Fit(context.Background(), f, y))

				path := filepath.Join(t.TempDir(), name)
				require.NoError(t, p.Save(path))
				loaded, err := Load(path)
				require.NoError(t, err)

				want, err := p.Predict(f.X)
				require.NoError(t, err)
				got, err := loaded.Predict(f.X)
				require.NoError(t, err)
				assert.InDeltaSlice(t, want, got, 1e-12)
				assert.Equal(t, p.Config(), loaded.Config())
				assert.Equal(t, p.FeatureNames(), loaded.FeatureNames())
			})
		}
	}
}

func TestPipeline_SaveUnfitted(t *testing.T) {
	p, err := New(testConfig(2))
	require.NoError(t, err)
	var nf *errors.NotFittedError
	assert.True(t, errors.As(p.Save(filepath.Join(t.TempDir(), "x.json")), &nf))
}

func TestConfig_Validate(t *testing.T) {
	_, err := New(Config{Components: -1, Model: ModelLasso, CV: 5})
	assert.Error(t, err)
	_, err = New(Config{Components: 2, Model: "ridge", CV: 5})
	assert.Error(t, err)
	_, err = New(Config{Components: 2, Model: ModelLasso, CV: 1})
	assert.Error(t, err)
	_, err = New(Config{Components: 0, Model: ModelLasso})
	assert.NoError(t, err)
	assert.Equal(t, "components=0 model=mean", Config{Model: ModelLasso}.String())
}

func TestEvaluate(t *testing.T) {
	f, y := latentFeatures(300, 20, 5)
	cfg := EvalConfig{
		TestSize:   0.1,
		Seed:       7,
		Components: []int{5, 2, 0},
		Model:      ModelLasso,
		CV:         3,
		NAlphas:    20,
	}
	report, err := Evaluate(context.Background(), f, y, cfg)
	require.NoError(t, err)
	require.Len(t, report.Results, 3)
	assert.Len(t, report.TestIDs, 30)
	assert.Len(t, report.TrainIDs, 270)
	assert.Len(t, report.Actual, 30)

	r5, r2, r0 := report.Result(5), report.Result(2), report.Result(0)
	require.NotNil(t, r5)
	require.NotNil(t, r2)
	require.NotNil(t, r0)
	assert.Greater(t, r5.R2, r0.R2)
	assert.NotEqual(t, r5.R2, r2.R2)
	assert.Greater(t, r5.R2, 0.9)
	assert.Len(t, r5.Predicted, 30)
	assert.Greater(t, r5.ExplainedVariance, r2.ExplainedVariance)
	assert.Zero(t, r0.NonZero)
	assert.Nil(t, report.Result(99))

	again, err := Evaluate(context.Background(), f, y, cfg)
	require.NoError(t, err)
	assert.Equal(t, report.Results[0].R2, again.Results[0].R2)
	assert.Equal(t, report.TestIDs, again.TestIDs)
}

func TestEvaluate_ErrorsNameConfiguration(t *testing.T) {
	f, y := latentFeatures(40, 4, 6)
	cfg := EvalConfig{TestSize: 0.25, Components: []int{2, 10}, Model: ModelLasso, CV: 3, NAlphas: 5}
	_, err := Evaluate(context.Background(), f, y, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "components=10")

	_, err = Evaluate(context.Background(), f, y[:5], cfg)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Evaluate(ctx, f, y, cfg)
	assert.ErrorIs(t, err, context.Canceled)
}
