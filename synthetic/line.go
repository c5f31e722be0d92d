// Package synthetic generates datasets with known ground truth and
// renders diagnostic plots. It exists to validate the estimation core
// and is not part of it.
package synthetic

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/robustgo/line"
	"github.com/YuminosukeSato/robustgo/pkg/errors"
)

// GenerateLine builds a 2 x n dataset around a known line. The first
// n - floor(n*outlierRatio) columns lie on the line, disturbed by
// Gaussian noise of the given sigma; the rest are outliers displaced
// vertically by at least 2 units. Returns the dataset and the
// ground-truth inlier indices.
//
// The noise is truncated at 1.5 sigma so that under the conventional
// 3-sigma threshold the recovered inlier count matches the ground
// truth exactly, which the core's acceptance tests rely on: the
// remaining 1.5-sigma slack absorbs the converged model's own
// deviation from truth.
func GenerateLine(rng *rand.Rand, n int, outlierRatio, noiseSigma float64, truth line.Line) (*mat.Dense, []int, error) {
	if n <= 0 {
		return nil, nil, errors.NewValidationError("n", "must be positive", n)
	}
	if outlierRatio < 0 || outlierRatio >= 1 {
		return nil, nil, errors.NewValidationError("outlierRatio", "must be in [0, 1)", outlierRatio)
	}
	if noiseSigma < 0 {
		return nil, nil, errors.NewValidationError("noiseSigma", "must be non-negative", noiseSigma)
	}

	numOutliers := int(float64(n) * outlierRatio)
	numInliers := n - numOutliers

	noise := distuv.Normal{Mu: 0, Sigma: noiseSigma, Src: rng}

	xy := mat.NewDense(2, n, nil)
	for i := 0; i < numInliers; i++ {
		x := rng.Float64()*10 - 5
		y := truth.At(x)
		if noiseSigma > 0 {
			y += errors.ClipValue(noise.Rand(), -1.5*noiseSigma, 1.5*noiseSigma)
		}
		xy.Set(0, i, x)
		xy.Set(1, i, y)
	}
	for i := numInliers; i < n; i++ {
		x := rng.Float64()*10 - 5
		offset := 2 + rng.Float64()*18
		if rng.Float64() < 0.5 {
			offset = -offset
		}
		xy.Set(0, i, x)
		xy.Set(1, i, truth.At(x)+offset)
	}

	inliers := make([]int, numInliers)
	for i := range inliers {
		inliers[i] = i
	}
	return xy, inliers, nil
}
