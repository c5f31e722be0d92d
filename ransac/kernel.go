package ransac

import "math"

// Kernel is the capability set a model-fitting strategy must provide.
// A kernel is constructed once per estimation call and borrows the
// dataset for its lifetime; it never mutates it.
//
// M is the model parameter type produced by the kernel (for example
// line.Line or homography.Homography).
type Kernel[M any] interface {
	// NumSamples returns the number of observations in the dataset.
	NumSamples() int

	// MinimumSamples returns the smallest sample size from which Fit
	// can compute a model hypothesis.
	MinimumSamples() int

	// MinimumLSSamples returns the smallest sample size accepted by
	// FitLS. Always >= MinimumSamples for realistic kernels.
	MinimumLSSamples() int

	// Fit hypothesizes zero or more candidate models from an exact
	// minimal sample. A sample that cannot determine a model yields a
	// *errors.DegenerateSampleError; the driver redraws instead of
	// treating an empty result as "no model".
	Fit(sample []int) ([]M, error)

	// FitLS refits a model from an arbitrary sample of at least
	// MinimumLSSamples observations. A nil weights slice means
	// ordinary least squares; otherwise weights[i] scales the
	// contribution of sample[i]. An ill-conditioned system yields a
	// *errors.RefitError.
	FitLS(sample []int, weights []float64) (M, error)

	// Error returns the non-negative fit error of observation i under
	// the given model. Used both for inlier classification and for
	// refit weighting.
	Error(i int, model M) float64

	// ComputeWeights returns the refit weights of the given inliers,
	// w_i = 1 / max(eps, Error(i, model))^2. The eps floor keeps a
	// zero residual from producing an infinite weight.
	ComputeWeights(model M, inliers []int, eps float64) []float64
}

// DefaultWeightEps is the default residual floor used by ComputeWeights.
const DefaultWeightEps = 1e-3

// InverseResidualWeights computes inverse-square-residual weights, the
// crude M-estimator every bundled kernel uses for ComputeWeights:
// points closer to the model dominate the refit.
func InverseResidualWeights(residual func(i int) float64, inliers []int, eps float64) []float64 {
	weights := make([]float64, len(inliers))
	for s, idx := range inliers {
		r := math.Max(eps, residual(idx))
		weights[s] = 1 / (r * r)
	}
	return weights
}
