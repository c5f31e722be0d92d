package linear

// Option is a function that configures RANSACRegressor
type Option func(*RANSACRegressor)

// WithResidualThreshold sets the inlier classification threshold.
// When unset, the median absolute deviation of y is used.
func WithResidualThreshold(t float64) Option {
	return func(lr *RANSACRegressor) {
		lr.residualThreshold = t
	}
}

// WithMaxTrials sets the hard cap on RANSAC trials
func WithMaxTrials(n int) Option {
	return func(lr *RANSACRegressor) {
		lr.maxTrials = n
	}
}

// WithSuccessProbability sets the desired consensus probability
func WithSuccessProbability(p float64) Option {
	return func(lr *RANSACRegressor) {
		lr.successProbability = p
	}
}

// WithMinInlierRatio sets the ratio under which a no-consensus warning
// is emitted after fitting
func WithMinInlierRatio(r float64) Option {
	return func(lr *RANSACRegressor) {
		lr.minInlierRatio = r
	}
}

// WithSeed seeds the internal pseudo-random generator, making Fit
// reproducible
func WithSeed(seed uint64) Option {
	return func(lr *RANSACRegressor) {
		lr.seed = seed
	}
}
