package ransac

// Option is a function that configures an estimation run
type Option func(*options)

type options struct {
	maxIterations      int
	successProbability float64
	maxLocalIterations int
	weightEps          float64
	minInlierRatio     float64
	observer           TrialObserver
}

func defaultOptions() options {
	return options{
		maxIterations:      1024,
		successProbability: 0.99,
		maxLocalIterations: 10,
		weightEps:          DefaultWeightEps,
		minInlierRatio:     0,
	}
}

// WithMaxIterations sets the hard cap on the number of trials
func WithMaxIterations(n int) Option {
	return func(o *options) {
		o.maxIterations = n
	}
}

// WithSuccessProbability sets the desired probability of drawing at
// least one outlier-free minimal sample (default 0.99)
func WithSuccessProbability(p float64) Option {
	return func(o *options) {
		o.successProbability = p
	}
}

// WithMaxLocalIterations bounds the inner local-optimization loop
func WithMaxLocalIterations(n int) Option {
	return func(o *options) {
		o.maxLocalIterations = n
	}
}

// WithWeightEps sets the residual floor for refit weighting
func WithWeightEps(eps float64) Option {
	return func(o *options) {
		o.weightEps = eps
	}
}

// WithMinInlierRatio sets the inlier ratio under which the run emits a
// NoConsensusWarning. The low-confidence result is still returned.
func WithMinInlierRatio(r float64) Option {
	return func(o *options) {
		o.minInlierRatio = r
	}
}

// Trial is a per-trial snapshot passed to a TrialObserver.
type Trial struct {
	// Index is the zero-based trial counter.
	Index int
	// Degenerate reports whether the trial's minimal sample failed to
	// determine a model.
	Degenerate bool
	// BestScore is the best score recorded so far (-Inf before any
	// candidate has been scored).
	BestScore float64
	// BestInlierCount is the size of the best inlier set so far.
	BestInlierCount int
	// Budget is the current adaptive trial budget.
	Budget int
}

// TrialObserver receives a snapshot after every trial. Intended for
// diagnostics and tests; keep it cheap.
type TrialObserver func(Trial)

// WithTrialObserver installs a per-trial observer
func WithTrialObserver(fn TrialObserver) Option {
	return func(o *options) {
		o.observer = fn
	}
}
