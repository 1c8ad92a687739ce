// Package decomposition provides principal component analysis on gonum matrices.
package decomposition

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/moldesc/core/model"
	"github.com/YuminosukeSato/moldesc/pkg/errors"
	"github.com/YuminosukeSato/moldesc/pkg/log"
)

// PCA projects data onto its leading principal directions. Fitting takes the SVD
// of the centred data through gonum's stat.PC.
type PCA struct {
	model.BaseEstimator

	NComponents int `json:"n_components"`

	Mean []float64 `json:"mean"`
	// ComponentsRows holds one unit direction per row, strongest first.
	ComponentsRows          [][]float64 `json:"components"`
	ExplainedVariances      []float64   `json:"explained_variance"`
	ExplainedVarianceRatios []float64   `json:"explained_variance_ratio"`
	NFeatures               int         `json:"n_features"`

	logger log.Logger
}

// NewPCA creates a PCA keeping nComponents directions.
func NewPCA(nComponents int) *PCA {
	return &PCA{
		NComponents: nComponents,
		logger:      log.GetLoggerWithName("PCA"),
	}
}

// Fit computes the principal directions of X. nComponents must lie in
// [1, min(n_samples, n_features)].
func (p *PCA) Fit(X mat.Matrix) error {
	n, d := X.Dims()
	if n == 0 || d == 0 {
		return errors.NewModelError("PCA.Fit", "empty data", errors.ErrEmptyData)
	}
	if limit := min(n, d); p.NComponents < 1 || p.NComponents > limit {
		return errors.NewValidationError("n_components",
			fmt.Sprintf("must be in [1, %d]", limit), p.NComponents)
	}

	var pc stat.PC
	var ok bool
	if err := errors.SafeExecute("PCA.Fit", func() error {
		ok = pc.PrincipalComponents(X, nil)
		return nil
	}); err != nil {
		return err
	}
	if !ok {
		return errors.NewModelError("PCA.Fit", "SVD did not converge", errors.ErrDegenerateInput)
	}

	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	vars := pc.VarsTo(nil)

	total := 0.0
	for _, v := range vars {
		total += v
	}

	k := p.NComponents
	comps := make([][]float64, k)
	for c := 0; c < k; c++ {
		comps[c] = mat.Col(nil, c, &vecs)
		flipSign(comps[c])
	}
	explained := append([]float64(nil), vars[:k]...)
	ratio := make([]float64, k)
	for c := range ratio {
		if total > 0 {
			ratio[c] = explained[c] / total
		}
	}

	mean := make([]float64, d)
	for j := 0; j < d; j++ {
		mean[j] = stat.Mean(mat.Col(nil, j, X), nil)
	}
	if err := errors.CheckNumericalStability("PCA.Fit", explained, 0); err != nil {
		return err
	}

	p.Mean = mean
	p.ComponentsRows = comps
	p.ExplainedVariances = explained
	p.ExplainedVarianceRatios = ratio
	p.NFeatures = d
	p.SetFitted()

	p.log().Debug("PCA fitted",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, n,
		log.FeaturesKey, d,
		log.ComponentsKey, k,
	)
	return nil
}

// Transform projects X onto the fitted components.
func (p *PCA) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := p.CheckFitted("PCA", "Transform"); err != nil {
		return nil, err
	}
	n, d := X.Dims()
	if d != p.NFeatures {
		return nil, errors.NewDimensionError("PCA.Transform", p.NFeatures, d, 1)
	}

	centred := mat.NewDense(n, d, nil)
	centred.Apply(func(_, j int, v float64) float64 { return v - p.Mean[j] }, X)

	var out mat.Dense
	out.Mul(centred, p.Components().T())
	if err := errors.CheckMatrix("PCA.Transform", &out, n, out.RawMatrix().Cols, 0); err != nil {
		return nil, err
	}
	return &out, nil
}

// FitTransform fits on X and returns its projection.
func (p *PCA) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := p.Fit(X); err != nil {
		return nil, err
	}
	return p.Transform(X)
}

// InverseTransform maps projected data back to feature space.
func (p *PCA) InverseTransform(Z mat.Matrix) (mat.Matrix, error) {
	if err := p.CheckFitted("PCA", "InverseTransform"); err != nil {
		return nil, err
	}
	_, k := Z.Dims()
	if k != len(p.ComponentsRows) {
		return nil, errors.NewDimensionError("PCA.InverseTransform", len(p.ComponentsRows), k, 1)
	}
	var out mat.Dense
	out.Mul(Z, p.Components())
	out.Apply(func(_, j int, v float64) float64 { return v + p.Mean[j] }, &out)
	return &out, nil
}

// Components returns the k×d matrix of principal directions.
func (p *PCA) Components() *mat.Dense {
	k := len(p.ComponentsRows)
	if k == 0 {
		return nil
	}
	m := mat.NewDense(k, p.NFeatures, nil)
	for c, row := range p.ComponentsRows {
		m.SetRow(c, row)
	}
	return m
}

// ExplainedVariance returns the variance captured by each component (n-1 denominator).
func (p *PCA) ExplainedVariance() []float64 {
	return append([]float64(nil), p.ExplainedVariances...)
}

// ExplainedVarianceRatio returns each component's share of the total variance.
func (p *PCA) ExplainedVarianceRatio() []float64 {
	return append([]float64(nil), p.ExplainedVarianceRatios...)
}

// GetParams returns the constructor parameters.
func (p *PCA) GetParams() map[string]interface{} {
	return map[string]interface{}{"n_components": p.NComponents}
}

func (p *PCA) String() string {
	return fmt.Sprintf("PCA(n_components=%d)", p.NComponents)
}

func (p *PCA) log() log.Logger {
	if p.logger == nil {
		p.logger = log.GetLoggerWithName("PCA")
	}
	return p.logger
}

// flipSign makes the largest-magnitude entry positive so directions are stable
// across SVD implementations.
func flipSign(v []float64) {
	best := 0
	for i := range v {
		if math.Abs(v[i]) > math.Abs(v[best]) {
			best = i
		}
	}
	if v[best] < 0 {
		for i := range v {
			v[i] = -v[i]
		}
	}
}
