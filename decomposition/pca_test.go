package decomposition

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/moldesc/core/model"
	"github.com/YuminosukeSato/moldesc/pkg/errors"
)

var _ model.InverseTransformer = (*PCA)(nil)

func randomMatrix(n, d int, seed uint64) *mat.Dense {
	rng := rand.New(rand.NewPCG(seed, seed))
	X := mat.NewDense(n, d, nil)
	for i := 0; i < n; i++ {
		base := rng.NormFloat64()
		for j := 0; j < d; j++ {
			// correlated columns
			X.Set(i, j, base*float64(j+1)+rng.NormFloat64()*0.5)
		}
	}
	return X
}

func TestPCA_ComponentsUncorrelated(t *testing.T) {
	X := randomMatrix(200, 6, 7)
	p := NewPCA(4)
	Z, err := p.FitTransform(X)
	require.NoError(t, err)

	n, k := Z.Dims()
	require.Equal(t, 200, n)
	require.Equal(t, 4, k)
	for a := 0; a < k; a++ {
		for b := a + 1; b < k; b++ {
			cov := stat.Covariance(mat.Col(nil, a, Z), mat.Col(nil, b, Z), nil)
			assert.InDelta(t, 0, cov, 1e-6, "components %d,%d", a, b)
		}
	}
}

func TestPCA_ExplainedVariance(t *testing.T) {
	X := randomMatrix(100, 5, 11)
	p := NewPCA(5)
	Z, err := p.FitTransform(X)
	require.NoError(t, err)

	ev := p.ExplainedVariance()
	ratio := p.ExplainedVarianceRatio()
	require.Len(t, ev, 5)
	assert.InDelta(t, 1.0, floats.Sum(ratio), 1e-9)
	for c := 1; c < len(ev); c++ {
		assert.GreaterOrEqual(t, ev[c-1], ev[c])
	}
	for c := 0; c < 5; c++ {
		assert.InDelta(t, ev[c], stat.Variance(mat.Col(nil, c, Z), nil), 1e-8)
	}
}

func TestPCA_UnitComponentsAndInverse(t *testing.T) {
	X := randomMatrix(30, 3, 3)
	p := NewPCA(3)
	Z, err := p.FitTransform(X)
	require.NoError(t, err)

	for _, row := range p.ComponentsRows {
		assert.InDelta(t, 1, floats.Norm(row, 2), 1e-9)
	}
	back, err := p.InverseTransform(Z)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(X, back, 1e-8))
}

func TestPCA_Deterministic(t *testing.T) {
	X := randomMatrix(50, 4, 5)
	a, b := NewPCA(2), NewPCA(2)
	require.NoError(t, a.Fit(X))
	require.NoError(t, b.Fit(X))
	assert.True(t, mat.Equal(a.Components(), b.Components()))
}

func TestPCA_Validation(t *testing.T) {
	X := randomMatrix(3, 5, 1)

	var ve *errors.ValidationError
	err := NewPCA(0).Fit(X)
	assert.True(t, errors.As(err, &ve))
	err = NewPCA(4).Fit(X)
	assert.True(t, errors.As(err, &ve))

	_, err = NewPCA(2).Transform(X)
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))

	p := NewPCA(2)
	require.NoError(t, p.Fit(X))
	_, err = p.Transform(mat.NewDense(2, 4, nil))
	var de *errors.DimensionError
	assert.True(t, errors.As(err, &de))
}

func TestPCA_TransformRejectsNonFinite(t *testing.T) {
	X := randomMatrix(40, 4, 9)
	p := NewPCA(2)
	require.NoError(t, p.Fit(X))

	bad := mat.DenseCopyOf(X)
	bad.Set(3, 1, math.NaN())
	_, err := p.Transform(bad)
	var ne *errors.NumericalInstabilityError
	require.True(t, errors.As(err, &ne), "got %v", err)
	assert.Equal(t, "PCA.Transform", ne.Operation)
}
