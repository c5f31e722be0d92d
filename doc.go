// Package robustgo provides robust geometric model estimation for Go,
// built around a generic Locally Optimized RANSAC (LO-RANSAC) core.
//
// Given a dataset contaminated with outliers, robustgo finds the
// parametric model that best explains the largest consistent subset of
// the data, the building block for geometric estimation in
// photogrammetry pipelines (lines, homographies, and custom kernels).
//
// # Features
//
// - Generic Kernel contract: plug in any model type and fitting strategy
// - Local optimization: bounded weighted least-squares refinement of promising hypotheses
// - Adaptive stopping: consensus-based trial budget, hard iteration cap
// - Reproducible: all randomness flows through a caller-supplied generator
// - Robust error handling: degenerate samples and failed refits are absorbed, not fatal
//
// # Quick Start
//
// Fitting a 2D line through contaminated data:
//
//	package main
//
//	import (
//	    "fmt"
//	    "math/rand/v2"
//
//	    "github.com/YuminosukeSato/robustgo/line"
//	    "github.com/YuminosukeSato/robustgo/ransac"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    // 2 x N dataset: row 0 = x, row 1 = y
//	    xy := mat.NewDense(2, 5, []float64{
//	        0, 1, 2, 3, 4,
//	        1, 3, 5, 7, 40, // last point is an outlier
//	    })
//
//	    kernel, _ := line.NewKernel(xy)
//	    evaluator := ransac.NewScoreEvaluator[line.Line](0.3)
//	    rng := rand.New(rand.NewPCG(42, 42))
//
//	    model, inliers, err := ransac.Estimate(rng, kernel, evaluator)
//	    if err != nil {
//	        panic(err)
//	    }
//	    fmt.Printf("y = %.2fx + %.2f (%d inliers)\n", model.Slope, model.Intercept, len(inliers))
//	}
//
// # Packages
//
// The library is organized into several packages:
//
//   - ransac: the generic LO-RANSAC driver, sampler and score evaluator
//   - line: 2D line-fitting kernel (reference instantiation)
//   - homography: plane projective-mapping kernel (DLT)
//   - linear: scikit-learn style RANSACRegressor for robust regression
//   - synthetic: ground-truth data generators and diagnostic plotting (test support)
//   - core/model: estimator interfaces and base types
//   - core/parallel: parallel processing utilities
//   - pkg/errors, pkg/log: error taxonomy, warnings and structured logging
package robustgo
