// Package homography provides a plane projective-mapping kernel for
// LO-RANSAC: it estimates the 3x3 homography H relating two 2 x N point
// sets (columns = correspondences) via the direct linear transform.
package homography

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/robustgo/pkg/errors"
	"github.com/YuminosukeSato/robustgo/ransac"
)

// Kernel sample-size constants.
const (
	// MinimumSamples is the minimal sample size for a DLT hypothesis.
	MinimumSamples = 4
	// MinimumLSSamples is the minimal sample size for a weighted DLT refit.
	MinimumLSSamples = 5
)

// degenerateRatio is the relative singular-value floor under which the
// DLT system is considered rank-deficient.
const degenerateRatio = 1e-9

// Homography is a row-major 3x3 projective transform.
type Homography [9]float64

// Apply maps (x, y) through the homography. ok is false when the point
// falls on the transform's line at infinity.
func (h Homography) Apply(x, y float64) (sx, sy float64, ok bool) {
	denom := h[6]*x + h[7]*y + h[8]
	if math.Abs(denom) < 1e-14 {
		return 0, 0, false
	}
	sx = (h[0]*x + h[1]*y + h[2]) / denom
	sy = (h[3]*x + h[4]*y + h[5]) / denom
	return sx, sy, true
}

// normalized scales the vector so that h[8] = 1 when that entry is not
// vanishing, which makes recovered transforms directly comparable.
func (h Homography) normalized() Homography {
	if math.Abs(h[8]) < 1e-12 {
		return h
	}
	var out Homography
	for i, v := range h {
		out[i] = v / h[8]
	}
	return out
}

// Kernel fits homographies to two borrowed 2 x N point sets.
type Kernel struct {
	src mat.Matrix
	dst mat.Matrix
	n   int
}

// NewKernel wraps source and destination point sets, both 2 x N with
// matching column counts. The data is borrowed, never mutated.
func NewKernel(src, dst mat.Matrix) (*Kernel, error) {
	rs, cs := src.Dims()
	rd, cd := dst.Dims()
	if rs != 2 {
		return nil, errors.NewDimensionError("homography.NewKernel", 2, rs, 0)
	}
	if rd != 2 {
		return nil, errors.NewDimensionError("homography.NewKernel", 2, rd, 0)
	}
	if cs != cd {
		return nil, errors.NewDimensionError("homography.NewKernel", cs, cd, 1)
	}
	return &Kernel{src: src, dst: dst, n: cs}, nil
}

// NumSamples returns the number of correspondences.
func (k *Kernel) NumSamples() int { return k.n }

// MinimumSamples returns the minimal hypothesis sample size.
func (k *Kernel) MinimumSamples() int { return MinimumSamples }

// MinimumLSSamples returns the minimal refit sample size.
func (k *Kernel) MinimumLSSamples() int { return MinimumLSSamples }

// Fit hypothesizes a homography from exactly four correspondences.
// Configurations with three collinear points leave the DLT system
// rank-deficient and yield a DegenerateSampleError.
func (k *Kernel) Fit(sample []int) ([]Homography, error) {
	if len(sample) != MinimumSamples {
		return nil, errors.NewValidationError("sample",
			fmt.Sprintf("homography hypothesis needs exactly %d correspondences", MinimumSamples), len(sample))
	}
	h, rank, err := k.solveDLT(sample, nil)
	if err != nil {
		return nil, errors.NewDegenerateSampleError("homography.Kernel", sample, err.Error())
	}
	if rank < degenerateRatio {
		return nil, errors.NewDegenerateSampleError("homography.Kernel", sample,
			"rank-deficient correspondence set")
	}
	return []Homography{h.normalized()}, nil
}

// Error returns the forward transfer distance of correspondence i:
// the Euclidean distance between H(src_i) and dst_i.
func (k *Kernel) Error(i int, model Homography) float64 {
	sx, sy, ok := model.Apply(k.src.At(0, i), k.src.At(1, i))
	if !ok {
		return math.Inf(1)
	}
	return math.Hypot(sx-k.dst.At(0, i), sy-k.dst.At(1, i))
}

// FitLS refits a homography from at least MinimumLSSamples
// correspondences by (weighted) DLT over the stacked 2m x 9 system.
func (k *Kernel) FitLS(sample []int, weights []float64) (Homography, error) {
	if len(sample) < MinimumLSSamples {
		return Homography{}, errors.NewValidationError("sample",
			fmt.Sprintf("homography refit needs at least %d correspondences", MinimumLSSamples), len(sample))
	}
	if weights != nil && len(weights) != len(sample) {
		return Homography{}, errors.NewDimensionError("homography.Kernel.FitLS", len(sample), len(weights), 0)
	}
	h, rank, err := k.solveDLT(sample, weights)
	if err != nil {
		return Homography{}, errors.NewRefitError("homography.Kernel", len(sample), err)
	}
	if rank < degenerateRatio {
		return Homography{}, errors.NewRefitError("homography.Kernel", len(sample), errors.ErrSingularMatrix)
	}
	if err := errors.CheckNumericalStability("homography.Kernel.FitLS", h[:], 0); err != nil {
		return Homography{}, errors.NewRefitError("homography.Kernel", len(sample), err)
	}
	return h.normalized(), nil
}

// ComputeWeights returns inverse-square-residual refit weights for the
// given inliers, floored at eps.
func (k *Kernel) ComputeWeights(model Homography, inliers []int, eps float64) []float64 {
	return ransac.InverseResidualWeights(func(i int) float64 {
		return k.Error(i, model)
	}, inliers, eps)
}

// solveDLT builds the 2m x 9 direct-linear-transform system (rows
// scaled by sqrt(w_i) when weighted) and extracts the null-space
// direction from a full SVD. The returned rank indicator is the ratio
// of the eighth-largest to the largest singular value; below the
// degeneracy floor the solution is ambiguous.
func (k *Kernel) solveDLT(sample []int, weights []float64) (Homography, float64, error) {
	m := len(sample)
	A := mat.NewDense(2*m, 9, nil)
	for s, idx := range sample {
		X, Y := k.src.At(0, idx), k.src.At(1, idx)
		x, y := k.dst.At(0, idx), k.dst.At(1, idx)
		scale := 1.0
		if weights != nil {
			scale = math.Sqrt(weights[s])
		}
		r := 2 * s
		A.SetRow(r, []float64{
			scale * X, scale * Y, scale, 0, 0, 0,
			scale * -x * X, scale * -x * Y, scale * -x,
		})
		A.SetRow(r+1, []float64{
			0, 0, 0, scale * X, scale * Y, scale,
			scale * -y * X, scale * -y * Y, scale * -y,
		})
	}

	var svd mat.SVD
	if ok := svd.Factorize(A, mat.SVDFull); !ok {
		return Homography{}, 0, errors.New("SVD factorization failed")
	}
	var v mat.Dense
	svd.VTo(&v)
	values := svd.Values(nil)

	var h Homography
	for i := 0; i < 9; i++ {
		h[i] = v.At(i, 8)
	}
	rank := 0.0
	if values[0] > 0 {
		rank = values[7] / values[0]
	}
	return h, rank, nil
}
