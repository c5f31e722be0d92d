// Package ransac implements Locally Optimized RANSAC (LO-RANSAC) robust
// model estimation.
//
// Given a dataset contaminated with outliers, Estimate finds the
// parametric model explaining the largest consistent subset of the data.
// The algorithm repeatedly draws minimal random samples, hypothesizes
// candidate models through a caller-supplied Kernel, scores them against
// an inlier threshold, and refines promising hypotheses with a bounded
// iterative weighted least-squares step. An adaptive trial budget
// derived from the current best inlier ratio decides when to stop.
//
// The model type is a type parameter, so any kernel with the right
// capability set plugs in: 2D lines (package line), homographies
// (package homography), multivariate regression (package linear), or
// application-specific kernels.
//
// All randomness flows through an explicit *rand.Rand supplied by the
// caller. Identical seed and inputs produce bit-identical results.
//
// Example:
//
//	rng := rand.New(rand.NewPCG(42, 42))
//	kernel, _ := line.NewKernel(xy)
//	evaluator := ransac.NewScoreEvaluator[line.Line](0.3)
//	model, inliers, err := ransac.Estimate(rng, kernel, evaluator)
package ransac
