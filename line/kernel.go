// Package line provides the 2D line-fitting kernel, the reference
// instantiation of the ransac.Kernel contract.
//
// The dataset is a 2 x N matrix whose columns are observations: row 0
// holds x coordinates, row 1 holds y coordinates. The model is the
// explicit line y = Slope*x + Intercept, so vertical point pairs are
// degenerate by construction.
package line

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/robustgo/pkg/errors"
	"github.com/YuminosukeSato/robustgo/ransac"
)

// Kernel sample-size constants.
const (
	// MinimumSamples is the minimal sample size for a line hypothesis.
	MinimumSamples = 2
	// MinimumLSSamples is the minimal sample size for a least-squares refit.
	MinimumLSSamples = 2
)

// Line is the model y = Slope*x + Intercept.
type Line struct {
	Slope     float64
	Intercept float64
}

// At returns the line's y value at x.
func (l Line) At(x float64) float64 {
	return l.Slope*x + l.Intercept
}

// Kernel fits 2D lines to a borrowed 2 x N dataset.
type Kernel struct {
	xy mat.Matrix
	n  int
}

// NewKernel wraps a 2 x N dataset (columns = observations). The dataset
// is borrowed, never copied or mutated.
func NewKernel(xy mat.Matrix) (*Kernel, error) {
	r, c := xy.Dims()
	if r != 2 {
		return nil, errors.NewDimensionError("line.NewKernel", 2, r, 0)
	}
	return &Kernel{xy: xy, n: c}, nil
}

// NumSamples returns the number of observations.
func (k *Kernel) NumSamples() int { return k.n }

// MinimumSamples returns the minimal hypothesis sample size.
func (k *Kernel) MinimumSamples() int { return MinimumSamples }

// MinimumLSSamples returns the minimal refit sample size.
func (k *Kernel) MinimumLSSamples() int { return MinimumLSSamples }

// Fit hypothesizes the single line through two sampled points.
// Coincident or vertically aligned points cannot determine a model in
// the y = a*x + b parametrization and yield a DegenerateSampleError.
func (k *Kernel) Fit(sample []int) ([]Line, error) {
	if len(sample) != MinimumSamples {
		return nil, errors.NewValidationError("sample",
			fmt.Sprintf("line hypothesis needs exactly %d points", MinimumSamples), len(sample))
	}
	x1, y1 := k.xy.At(0, sample[0]), k.xy.At(1, sample[0])
	x2, y2 := k.xy.At(0, sample[1]), k.xy.At(1, sample[1])

	dx := x2 - x1
	if math.Abs(dx) < 1e-12 {
		return nil, errors.NewDegenerateSampleError("line.Kernel", sample,
			"coincident or vertically aligned points")
	}
	slope := (y2 - y1) / dx
	return []Line{{Slope: slope, Intercept: y1 - slope*x1}}, nil
}

// Error returns the absolute vertical distance of observation i to the line.
func (k *Kernel) Error(i int, model Line) float64 {
	return math.Abs(model.At(k.xy.At(0, i)) - k.xy.At(1, i))
}

// FitLS refits a line from the sampled points by least squares, solving
// the (weighted) design system with a QR decomposition. A nil weights
// slice gives the ordinary least-squares solution.
func (k *Kernel) FitLS(sample []int, weights []float64) (Line, error) {
	if len(sample) < MinimumLSSamples {
		return Line{}, errors.NewValidationError("sample",
			fmt.Sprintf("least-squares refit needs at least %d points", MinimumLSSamples), len(sample))
	}
	if weights != nil && len(weights) != len(sample) {
		return Line{}, errors.NewDimensionError("line.Kernel.FitLS", len(sample), len(weights), 0)
	}

	// Design matrix rows [x_i, 1] and target y_i, each scaled by
	// sqrt(w_i) so that the QR solution minimizes sum w_i * r_i^2.
	m := len(sample)
	A := mat.NewDense(m, 2, nil)
	b := mat.NewVecDense(m, nil)
	for s, idx := range sample {
		scale := 1.0
		if weights != nil {
			scale = math.Sqrt(weights[s])
		}
		A.Set(s, 0, scale*k.xy.At(0, idx))
		A.Set(s, 1, scale)
		b.SetVec(s, scale*k.xy.At(1, idx))
	}

	var qr mat.QR
	qr.Factorize(A)
	var sol mat.VecDense
	if err := qr.SolveVecTo(&sol, false, b); err != nil {
		return Line{}, errors.NewRefitError("line.Kernel", m, errors.ErrSingularMatrix)
	}

	model := Line{Slope: sol.AtVec(0), Intercept: sol.AtVec(1)}
	if err := errors.CheckNumericalStability("line.Kernel.FitLS",
		[]float64{model.Slope, model.Intercept}, 0); err != nil {
		return Line{}, errors.NewRefitError("line.Kernel", m, err)
	}
	return model, nil
}

// ComputeWeights returns inverse-square-residual refit weights for the
// given inliers, floored at eps.
func (k *Kernel) ComputeWeights(model Line, inliers []int, eps float64) []float64 {
	return ransac.InverseResidualWeights(func(i int) float64 {
		return k.Error(i, model)
	}, inliers, eps)
}
