package linear

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/robustgo/pkg/errors"
	"github.com/YuminosukeSato/robustgo/ransac"
)

// regressionModel は超平面 y = w・x + b のパラメータ
type regressionModel struct {
	weights   *mat.VecDense
	intercept float64
}

func (m regressionModel) predict(x mat.Matrix, row int) float64 {
	pred := m.intercept
	for j := 0; j < m.weights.Len(); j++ {
		pred += x.At(row, j) * m.weights.AtVec(j)
	}
	return pred
}

// regressionKernel はRANSACRegressorの内部カーネル。
// 観測は行方向（n行 × d列 + 目的変数1列）で保持する。
type regressionKernel struct {
	x mat.Matrix
	y mat.Matrix
	n int
	d int
}

func newRegressionKernel(x, y mat.Matrix) *regressionKernel {
	n, d := x.Dims()
	return &regressionKernel{x: x, y: y, n: n, d: d}
}

func (k *regressionKernel) NumSamples() int { return k.n }

// MinimumSamples は切片を含む正確なフィットに必要な観測数 d+1
func (k *regressionKernel) MinimumSamples() int { return k.d + 1 }

func (k *regressionKernel) MinimumLSSamples() int { return k.d + 1 }

// Fit は d+1 個の観測を正確に通る超平面を仮説として生成する。
// 観測が線形従属の場合はDegenerateSampleErrorを返す。
func (k *regressionKernel) Fit(sample []int) ([]regressionModel, error) {
	if len(sample) != k.MinimumSamples() {
		return nil, errors.NewValidationError("sample",
			fmt.Sprintf("hyperplane hypothesis needs exactly %d observations", k.MinimumSamples()), len(sample))
	}
	m, err := k.solve(sample, nil)
	if err != nil {
		return nil, errors.NewDegenerateSampleError("linear.regressionKernel", sample,
			"linearly dependent observations")
	}
	return []regressionModel{m}, nil
}

// Error は観測iの絶対残差 |w・x_i + b - y_i| を返す
func (k *regressionKernel) Error(i int, model regressionModel) float64 {
	return math.Abs(model.predict(k.x, i) - k.y.At(i, 0))
}

// FitLS は（重み付き）最小二乗で超平面を再フィットする
func (k *regressionKernel) FitLS(sample []int, weights []float64) (regressionModel, error) {
	if len(sample) < k.MinimumLSSamples() {
		return regressionModel{}, errors.NewValidationError("sample",
			fmt.Sprintf("least-squares refit needs at least %d observations", k.MinimumLSSamples()), len(sample))
	}
	if weights != nil && len(weights) != len(sample) {
		return regressionModel{}, errors.NewDimensionError("linear.regressionKernel.FitLS", len(sample), len(weights), 0)
	}
	m, err := k.solve(sample, weights)
	if err != nil {
		return regressionModel{}, errors.NewRefitError("linear.regressionKernel", len(sample), err)
	}
	return m, nil
}

// ComputeWeights は残差の逆二乗による再フィット重みを返す
func (k *regressionKernel) ComputeWeights(model regressionModel, inliers []int, eps float64) []float64 {
	return ransac.InverseResidualWeights(func(i int) float64 {
		return k.Error(i, model)
	}, inliers, eps)
}

// solve は計画行列 [X, 1] をQR分解で解く。
// 各行はsqrt(w_i)でスケールされ、重み付き二乗残差を最小化する。
func (k *regressionKernel) solve(sample []int, weights []float64) (regressionModel, error) {
	m := len(sample)
	A := mat.NewDense(m, k.d+1, nil)
	b := mat.NewVecDense(m, nil)
	for s, idx := range sample {
		scale := 1.0
		if weights != nil {
			scale = math.Sqrt(weights[s])
		}
		for j := 0; j < k.d; j++ {
			A.Set(s, j, scale*k.x.At(idx, j))
		}
		A.Set(s, k.d, scale)
		b.SetVec(s, scale*k.y.At(idx, 0))
	}

	var qr mat.QR
	qr.Factorize(A)
	var sol mat.VecDense
	if err := qr.SolveVecTo(&sol, false, b); err != nil {
		return regressionModel{}, errors.ErrSingularMatrix
	}

	weightsVec := mat.NewVecDense(k.d, nil)
	for j := 0; j < k.d; j++ {
		weightsVec.SetVec(j, sol.AtVec(j))
	}
	model := regressionModel{weights: weightsVec, intercept: sol.AtVec(k.d)}

	if err := errors.CheckNumericalStability("linear.regressionKernel.solve", sol.RawVector().Data, 0); err != nil {
		return regressionModel{}, err
	}
	return model, nil
}
