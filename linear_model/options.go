package linear_model

// params holds the hyperparameters shared by Lasso and LassoCV. Options that only
// concern cross-validation are ignored by Lasso.
type params struct {
	alpha        float64
	maxIter      int
	tol          float64
	fitIntercept bool

	nAlphas int
	eps     float64
	alphas  []float64
	cv      int
	seed    uint64
	workers int
}

func defaultParams() params {
	return params{
		alpha:        1.0,
		maxIter:      1000,
		tol:          1e-4,
		fitIntercept: true,
		nAlphas:      100,
		eps:          1e-3,
		cv:           5,
	}
}

// Option configures Lasso and LassoCV.
type Option func(*params)

// WithAlpha sets the L1 penalty of Lasso.
func WithAlpha(alpha float64) Option {
	return func(p *params) { p.alpha = alpha }
}

// WithMaxIter sets the maximum number of coordinate descent sweeps.
func WithMaxIter(n int) Option {
	return func(p *params) { p.maxIter = n }
}

// WithTol sets the duality gap tolerance, relative to ‖y‖².
func WithTol(tol float64) Option {
	return func(p *params) { p.tol = tol }
}

// WithFitIntercept controls whether data is centred before fitting.
func WithFitIntercept(fit bool) Option {
	return func(p *params) { p.fitIntercept = fit }
}

// WithNAlphas sets the length of the generated alpha grid.
func WithNAlphas(n int) Option {
	return func(p *params) { p.nAlphas = n }
}

// WithEps sets alpha_min / alpha_max for the generated grid.
func WithEps(eps float64) Option {
	return func(p *params) { p.eps = eps }
}

// WithAlphas replaces the generated grid with explicit values.
func WithAlphas(alphas []float64) Option {
	return func(p *params) { p.alphas = append([]float64(nil), alphas...) }
}

// WithCV sets the number of folds.
func WithCV(k int) Option {
	return func(p *params) { p.cv = k }
}

// WithRandomState seeds the fold shuffle.
func WithRandomState(seed uint64) Option {
	return func(p *params) { p.seed = seed }
}

// WithWorkers bounds the number of folds evaluated concurrently. n <= 0 means one
// per CPU.
func WithWorkers(n int) Option {
	return func(p *params) { p.workers = n }
}
