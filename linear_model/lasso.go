package linear_model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/moldesc/core/model"
	"github.com/YuminosukeSato/moldesc/pkg/errors"
	"github.com/YuminosukeSato/moldesc/pkg/log"
)

// Lasso is a linear model with an L1 penalty, fit by cyclic coordinate descent on
//
//	(1/2n)‖y − Xw − b‖² + α‖w‖₁
type Lasso struct {
	state *model.StateManager
	p     params

	coef      []float64
	intercept float64
	nIter     int
	gap       float64

	logger log.Logger
}

// NewLasso creates a Lasso. The default alpha is 1.
func NewLasso(opts ...Option) *Lasso {
	p := defaultParams()
	for _, opt := range opts {
		opt(&p)
	}
	return &Lasso{
		state:  model.NewStateManager(),
		p:      p,
		logger: log.GetLoggerWithName("Lasso"),
	}
}

// Fit estimates the coefficients. A ConvergenceWarning is emitted through
// errors.Warn when the duality gap stays above tolerance after max_iter sweeps.
func (l *Lasso) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "Lasso.Fit")

	n, d, err := checkXy("Lasso.Fit", X, y)
	if err != nil {
		return err
	}
	if l.p.alpha < 0 || math.IsNaN(l.p.alpha) {
		return errors.NewValidationError("alpha", "must be non-negative", l.p.alpha)
	}
	if l.p.maxIter < 1 {
		return errors.NewValidationError("max_iter", "must be positive", l.p.maxIter)
	}

	Xc, yc, xMean, yMean := l.prepare(X, y)
	res := coordinateDescent(Xc, yc, l.p.alpha, make([]float64, d), l.p.maxIter, l.p.tol)
	if !res.converged {
		errors.Warn(errors.NewConvergenceWarning("Lasso", res.nIter,
			fmt.Sprintf("duality gap %.3g above tolerance; increase max_iter or scale the data", res.gap)))
	}
	if err := errors.CheckNumericalStability("Lasso.Fit", res.coef, res.nIter); err != nil {
		return err
	}

	l.coef = res.coef
	l.intercept = 0
	if l.p.fitIntercept {
		l.intercept = interceptFor(res.coef, xMean, yMean)
	}
	l.nIter, l.gap = res.nIter, res.gap
	l.state.SetDimensions(d, n)
	l.state.SetFitted()

	l.logger.Debug("lasso fitted",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, n,
		log.FeaturesKey, d,
		log.AlphaKey, l.p.alpha,
		log.IterationKey, res.nIter,
		log.NonZeroKey, NonZero(res.coef),
	)
	return nil
}

func (l *Lasso) prepare(X, y mat.Matrix) (*mat.Dense, []float64, []float64, float64) {
	if l.p.fitIntercept {
		return centre(X, y)
	}
	n, d := X.Dims()
	yc := make([]float64, n)
	for i := range yc {
		yc[i] = y.At(i, 0)
	}
	return mat.DenseCopyOf(X), yc, make([]float64, d), 0
}

// Predict returns X·w + b as an n×1 matrix.
func (l *Lasso) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := l.state.RequireFitted("Lasso", "Predict"); err != nil {
		return nil, err
	}
	_, d := X.Dims()
	if err := l.state.RequireFeatures("Lasso.Predict", d); err != nil {
		return nil, err
	}
	return predictLinear(X, l.coef, l.intercept), nil
}

// Score returns R² on (X, y).
func (l *Lasso) Score(X, y mat.Matrix) (float64, error) {
	return score(l, X, y)
}

// Coef returns a copy of the coefficients.
func (l *Lasso) Coef() []float64 { return append([]float64(nil), l.coef...) }

// Intercept returns the fitted intercept.
func (l *Lasso) Intercept() float64 { return l.intercept }

// Alpha returns the penalty used by Fit.
func (l *Lasso) Alpha() float64 { return l.p.alpha }

// NIter returns the number of sweeps run by the last Fit.
func (l *Lasso) NIter() int { return l.nIter }

// IsFitted reports whether Fit or ImportWeights has succeeded.
func (l *Lasso) IsFitted() bool { return l.state.IsFitted() }

// GetParams returns the hyperparameters.
func (l *Lasso) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"alpha":         l.p.alpha,
		"max_iter":      l.p.maxIter,
		"tol":           l.p.tol,
		"fit_intercept": l.p.fitIntercept,
	}
}

// ExportWeights captures the fitted model.
func (l *Lasso) ExportWeights() (*model.ModelWeights, error) {
	if err := l.state.RequireFitted("Lasso", "ExportWeights"); err != nil {
		return nil, err
	}
	nFeatures, nSamples := l.state.GetDimensions()
	return &model.ModelWeights{
		ModelType:       "Lasso",
		Version:         model.WeightsVersion,
		Coefficients:    l.Coef(),
		Intercept:       l.intercept,
		IsFitted:        true,
		Hyperparameters: l.GetParams(),
		Metadata: map[string]interface{}{
			"n_features": nFeatures,
			"n_samples":  nSamples,
			"n_iter":     l.nIter,
			"checksum":   checksum(l.coef, l.intercept),
		},
	}, nil
}

// ImportWeights restores a model captured by ExportWeights.
func (l *Lasso) ImportWeights(w *model.ModelWeights) error {
	if err := importCommon(w, "Lasso"); err != nil {
		return err
	}
	l.p.alpha = w.HyperparameterFloat("alpha", l.p.alpha)
	l.p.tol = w.HyperparameterFloat("tol", l.p.tol)
	l.p.maxIter = int(w.HyperparameterFloat("max_iter", float64(l.p.maxIter)))
	if fit, ok := w.Hyperparameters["fit_intercept"].(bool); ok {
		l.p.fitIntercept = fit
	}
	l.coef = append([]float64(nil), w.Coefficients...)
	l.intercept = w.Intercept
	l.state.SetDimensions(len(l.coef), 0)
	l.state.SetFitted()
	return nil
}

func (l *Lasso) String() string {
	return fmt.Sprintf("Lasso(alpha=%g, max_iter=%d, tol=%g, fit_intercept=%t)",
		l.p.alpha, l.p.maxIter, l.p.tol, l.p.fitIntercept)
}

type cdResult struct {
	coef      []float64
	nIter     int
	gap       float64
	converged bool
}

// coordinateDescent minimises (1/2)‖y − Xw‖² + nα‖w‖₁ starting from w, which is
// updated in place and returned. Convergence is declared when the duality gap
// drops below tol·‖y‖².
func coordinateDescent(X *mat.Dense, y []float64, alpha float64, w []float64, maxIter int, tol float64) cdResult {
	n, d := X.Dims()
	l1 := alpha * float64(n)

	cols := make([][]float64, d)
	norms := make([]float64, d)
	for j := 0; j < d; j++ {
		cols[j] = mat.Col(nil, j, X)
		norms[j] = floats.Dot(cols[j], cols[j])
	}

	// residual r = y - Xw
	r := append([]float64(nil), y...)
	for j, wj := range w {
		if wj != 0 {
			floats.AddScaled(r, -wj, cols[j])
		}
	}

	tolScaled := tol * floats.Dot(y, y)
	res := cdResult{coef: w}
	for iter := 1; iter <= maxIter; iter++ {
		res.nIter = iter
		maxW, maxDelta := 0.0, 0.0
		for j := 0; j < d; j++ {
			if norms[j] == 0 {
				continue
			}
			old := w[j]
			rho := floats.Dot(cols[j], r) + old*norms[j]
			w[j] = softThreshold(rho, l1) / norms[j]
			if delta := w[j] - old; delta != 0 {
				floats.AddScaled(r, -delta, cols[j])
				maxDelta = math.Max(maxDelta, math.Abs(delta))
			}
			maxW = math.Max(maxW, math.Abs(w[j]))
		}

		if maxW == 0 || maxDelta/maxW < tol || iter == maxIter {
			res.gap = dualityGap(cols, y, r, w, l1)
			if res.gap <= tolScaled {
				res.converged = true
				return res
			}
		}
	}
	return res
}

// dualityGap evaluates the Lasso duality gap at w with residual r.
func dualityGap(cols [][]float64, y, r, w []float64, l1 float64) float64 {
	dualNorm := 0.0
	for _, c := range cols {
		dualNorm = math.Max(dualNorm, math.Abs(floats.Dot(c, r)))
	}
	rNorm2 := floats.Dot(r, r)

	scale := 1.0
	gap := rNorm2
	if dualNorm > l1 {
		scale = l1 / dualNorm
		gap = 0.5 * (rNorm2 + rNorm2*scale*scale)
	}
	gap += l1*floats.Norm(w, 1) - scale*floats.Dot(r, y)
	return gap
}

func softThreshold(x, t float64) float64 {
	switch {
	case x > t:
		return x - t
	case x < -t:
		return x + t
	default:
		return 0
	}
}
