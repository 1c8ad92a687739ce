package linear_model

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync/atomic"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/moldesc/core/model"
	"github.com/YuminosukeSato/moldesc/core/parallel"
	"github.com/YuminosukeSato/moldesc/model_selection"
	"github.com/YuminosukeSato/moldesc/pkg/errors"
	"github.com/YuminosukeSato/moldesc/pkg/log"
)

// LassoCV selects the Lasso penalty by K-fold cross-validation over a descending
// alpha grid, then refits on all samples with the selected alpha.
type LassoCV struct {
	state *model.StateManager
	p     params

	alphas  []float64
	msePath [][]float64 // [alpha][fold]
	alpha   float64
	best    *Lasso

	logger log.Logger
}

// NewLassoCV creates a LassoCV. Defaults: 100 alphas down to 1e-3·alpha_max,
// 5 shuffled folds seeded with 0.
func NewLassoCV(opts ...Option) *LassoCV {
	p := defaultParams()
	for _, opt := range opts {
		opt(&p)
	}
	return &LassoCV{
		state:  model.NewStateManager(),
		p:      p,
		logger: log.GetLoggerWithName("LassoCV"),
	}
}

// Fit runs cross-validation without cancellation.
func (cv *LassoCV) Fit(X, y mat.Matrix) error {
	return cv.FitContext(context.Background(), X, y)
}

// FitContext runs cross-validation, evaluating folds concurrently. The result is
// independent of the number of workers.
func (cv *LassoCV) FitContext(ctx context.Context, X, y mat.Matrix) error {
	start := time.Now()
	n, d, err := checkXy("LassoCV.Fit", X, y)
	if err != nil {
		return err
	}
	if cv.p.cv < 2 {
		return errors.NewValidationError("cv", "need at least 2 folds", cv.p.cv)
	}

	alphas, err := cv.grid(X, y)
	if err != nil {
		return err
	}
	folds, err := model_selection.NewKFold(cv.p.cv, true, cv.p.seed).Split(n)
	if err != nil {
		return err
	}

	// [fold][alpha]
	foldMSE := make([][]float64, len(folds))
	var unconverged atomic.Int64
	err = parallel.ForEach(ctx, len(folds), cv.p.workers, func(f int) error {
		return errors.SafeExecute(fmt.Sprintf("LassoCV fold %d", f), func() error {
			mse, missed := cv.evaluateFold(X, y, folds[f], alphas)
			foldMSE[f] = mse
			unconverged.Add(int64(missed))
			return nil
		})
	})
	if err != nil {
		return errors.Wrap(err, "cross-validate lasso")
	}

	path := make([][]float64, len(alphas))
	bestIdx, bestMSE := 0, math.Inf(1)
	for k := range alphas {
		path[k] = make([]float64, len(folds))
		for f := range folds {
			path[k][f] = foldMSE[f][k]
		}
		// strict comparison keeps the first (largest) alpha on ties
		if m := floats.Sum(path[k]) / float64(len(folds)); m < bestMSE {
			bestIdx, bestMSE = k, m
		}
	}
	if math.IsInf(bestMSE, 1) || math.IsNaN(bestMSE) {
		return errors.NewNumericalInstabilityError("LassoCV.Fit", []float64{bestMSE}, 0)
	}

	best := NewLasso(
		WithAlpha(alphas[bestIdx]),
		WithMaxIter(cv.p.maxIter),
		WithTol(cv.p.tol),
		WithFitIntercept(cv.p.fitIntercept),
	)
	if err := best.Fit(X, y); err != nil {
		return errors.Wrapf(err, "refit lasso with alpha=%g", alphas[bestIdx])
	}

	cv.alphas, cv.msePath, cv.alpha, cv.best = alphas, path, alphas[bestIdx], best
	cv.state.SetDimensions(d, n)
	cv.state.SetFitted()

	cv.logger.Info("lasso alpha selected",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, n,
		log.FeaturesKey, d,
		log.AlphaKey, cv.alpha,
		"cv_mse", bestMSE,
		log.NonZeroKey, NonZero(best.coef),
		"unconverged_fits", unconverged.Load(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// grid returns the alpha values to search, largest first.
func (cv *LassoCV) grid(X, y mat.Matrix) ([]float64, error) {
	if len(cv.p.alphas) > 0 {
		alphas := append([]float64(nil), cv.p.alphas...)
		for _, a := range alphas {
			if a < 0 || math.IsNaN(a) || math.IsInf(a, 0) {
				return nil, errors.NewValidationError("alphas", "must be finite and non-negative", a)
			}
		}
		sort.Sort(sort.Reverse(sort.Float64Slice(alphas)))
		return alphas, nil
	}
	if cv.p.nAlphas < 1 {
		return nil, errors.NewValidationError("n_alphas", "must be positive", cv.p.nAlphas)
	}
	if cv.p.eps <= 0 || cv.p.eps >= 1 {
		return nil, errors.NewValidationError("eps", "must be in (0, 1)", cv.p.eps)
	}

	alphaMax := maxAlpha(X, y, cv.p.fitIntercept)
	if alphaMax == 0 {
		// no feature correlates with y; every alpha gives w = 0
		alphaMax = 1
	}
	if cv.p.nAlphas == 1 {
		return []float64{alphaMax}, nil
	}
	alphas := floats.LogSpan(make([]float64, cv.p.nAlphas), alphaMax*cv.p.eps, alphaMax)
	floats.Reverse(alphas)
	return alphas, nil
}

// maxAlpha is the smallest alpha for which every coefficient is zero.
func maxAlpha(X, y mat.Matrix, fitIntercept bool) float64 {
	n, d := X.Dims()
	var Xc *mat.Dense
	var yc []float64
	if fitIntercept {
		Xc, yc, _, _ = centre(X, y)
	} else {
		Xc = mat.DenseCopyOf(X)
		yc = mat.Col(nil, 0, y)
	}
	best := 0.0
	for j := 0; j < d; j++ {
		best = math.Max(best, math.Abs(floats.Dot(mat.Col(nil, j, Xc), yc)))
	}
	return best / float64(n)
}

// evaluateFold fits the whole alpha path on the training part with warm starts and
// returns the held-out MSE per alpha and the number of unconverged fits.
func (cv *LassoCV) evaluateFold(X, y mat.Matrix, fold model_selection.Fold, alphas []float64) ([]float64, int) {
	Xtr := model_selection.TakeRows(X, fold.Train)
	ytr := model_selection.TakeRows(y, fold.Train)
	Xte := model_selection.TakeRows(X, fold.Test)
	yte := mat.Col(nil, 0, model_selection.TakeRows(y, fold.Test))

	_, d := X.Dims()
	var Xc *mat.Dense
	var yc, xMean []float64
	var yMean float64
	if cv.p.fitIntercept {
		Xc, yc, xMean, yMean = centre(Xtr, ytr)
	} else {
		Xc, yc, xMean = Xtr, mat.Col(nil, 0, ytr), make([]float64, d)
	}

	w := make([]float64, d)
	mse := make([]float64, len(alphas))
	missed := 0
	for k, a := range alphas {
		res := coordinateDescent(Xc, yc, a, w, cv.p.maxIter, cv.p.tol)
		if !res.converged {
			missed++
		}
		b := 0.0
		if cv.p.fitIntercept {
			b = interceptFor(w, xMean, yMean)
		}
		pred := predictLinear(Xte, w, b)
		sum := 0.0
		for i, t := range yte {
			r := t - pred.At(i, 0)
			sum += r * r
		}
		mse[k] = sum / float64(len(yte))
	}
	return mse, missed
}

// Predict uses the model refit with the selected alpha.
func (cv *LassoCV) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := cv.state.RequireFitted("LassoCV", "Predict"); err != nil {
		return nil, err
	}
	return cv.best.Predict(X)
}

// Score returns R² on (X, y).
func (cv *LassoCV) Score(X, y mat.Matrix) (float64, error) {
	return score(cv, X, y)
}

// Coef returns the coefficients of the refit model.
func (cv *LassoCV) Coef() []float64 {
	if cv.best == nil {
		return nil
	}
	return cv.best.Coef()
}

// Intercept returns the intercept of the refit model.
func (cv *LassoCV) Intercept() float64 {
	if cv.best == nil {
		return 0
	}
	return cv.best.Intercept()
}

// Alpha returns the selected penalty.
func (cv *LassoCV) Alpha() float64 { return cv.alpha }

// Alphas returns the searched grid, largest first.
func (cv *LassoCV) Alphas() []float64 { return append([]float64(nil), cv.alphas...) }

// MSEPath returns the held-out MSE indexed by [alpha][fold].
func (cv *LassoCV) MSEPath() [][]float64 {
	out := make([][]float64, len(cv.msePath))
	for k, row := range cv.msePath {
		out[k] = append([]float64(nil), row...)
	}
	return out
}

// GetParams returns the hyperparameters.
func (cv *LassoCV) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_alphas":      cv.p.nAlphas,
		"eps":           cv.p.eps,
		"cv":            cv.p.cv,
		"max_iter":      cv.p.maxIter,
		"tol":           cv.p.tol,
		"fit_intercept": cv.p.fitIntercept,
		"random_state":  cv.p.seed,
	}
}

// ExportWeights captures the refit model and the selected alpha.
func (cv *LassoCV) ExportWeights() (*model.ModelWeights, error) {
	if err := cv.state.RequireFitted("LassoCV", "ExportWeights"); err != nil {
		return nil, err
	}
	w, err := cv.best.ExportWeights()
	if err != nil {
		return nil, err
	}
	w.ModelType = "LassoCV"
	w.Hyperparameters = cv.GetParams()
	w.Hyperparameters["alpha"] = cv.alpha
	return w, nil
}

// ImportWeights restores a model captured by ExportWeights. The CV path is not
// restored.
func (cv *LassoCV) ImportWeights(w *model.ModelWeights) error {
	if err := importCommon(w, "LassoCV"); err != nil {
		return err
	}
	inner := w.Clone()
	inner.ModelType = "Lasso"
	best := NewLasso()
	if err := best.ImportWeights(inner); err != nil {
		return err
	}
	cv.best = best
	cv.alpha = best.Alpha()
	cv.state.SetDimensions(len(best.coef), 0)
	cv.state.SetFitted()
	return nil
}

func (cv *LassoCV) String() string {
	return fmt.Sprintf("LassoCV(n_alphas=%d, eps=%g, cv=%d, random_state=%d)",
		cv.p.nAlphas, cv.p.eps, cv.p.cv, cv.p.seed)
}
