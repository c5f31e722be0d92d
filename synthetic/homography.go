package synthetic

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/robustgo/homography"
	"github.com/YuminosukeSato/robustgo/pkg/errors"
)

// GenerateCorrespondences builds two 2 x n matched point sets under a
// known homography. Inlier destinations carry Gaussian noise truncated
// at 1.5 sigma per coordinate; outlier destinations are displaced by
// at least 2 units in both coordinates. Returns source, destination
// and the ground-truth inlier indices.
func GenerateCorrespondences(rng *rand.Rand, n int, outlierRatio, noiseSigma float64, truth homography.Homography) (*mat.Dense, *mat.Dense, []int, error) {
	if n <= 0 {
		return nil, nil, nil, errors.NewValidationError("n", "must be positive", n)
	}
	if outlierRatio < 0 || outlierRatio >= 1 {
		return nil, nil, nil, errors.NewValidationError("outlierRatio", "must be in [0, 1)", outlierRatio)
	}
	if noiseSigma < 0 {
		return nil, nil, nil, errors.NewValidationError("noiseSigma", "must be non-negative", noiseSigma)
	}

	numOutliers := int(float64(n) * outlierRatio)
	numInliers := n - numOutliers

	noise := distuv.Normal{Mu: 0, Sigma: noiseSigma, Src: rng}
	perturb := func(v float64) float64 {
		if noiseSigma == 0 {
			return v
		}
		return v + errors.ClipValue(noise.Rand(), -1.5*noiseSigma, 1.5*noiseSigma)
	}

	src := mat.NewDense(2, n, nil)
	dst := mat.NewDense(2, n, nil)
	for i := 0; i < n; i++ {
		x := rng.Float64() * 10
		y := rng.Float64() * 10
		sx, sy, ok := truth.Apply(x, y)
		if !ok {
			return nil, nil, nil, errors.NewValidationError("truth",
				"maps a sampled point to the line at infinity", truth)
		}
		src.Set(0, i, x)
		src.Set(1, i, y)
		if i < numInliers {
			dst.Set(0, i, perturb(sx))
			dst.Set(1, i, perturb(sy))
			continue
		}
		ox := 2 + rng.Float64()*8
		oy := 2 + rng.Float64()*8
		if rng.Float64() < 0.5 {
			ox = -ox
		}
		if rng.Float64() < 0.5 {
			oy = -oy
		}
		dst.Set(0, i, sx+ox)
		dst.Set(1, i, sy+oy)
	}

	inliers := make([]int, numInliers)
	for i := range inliers {
		inliers[i] = i
	}
	return src, dst, inliers, nil
}
