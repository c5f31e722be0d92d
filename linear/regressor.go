package linear

import (
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/robustgo/core/model"
	"github.com/YuminosukeSato/robustgo/pkg/errors"
	"github.com/YuminosukeSato/robustgo/ransac"
)

// RANSACRegressor はLO-RANSACによるロバスト線形回帰モデル。
// 外れ値を含むデータから、最大の合意集合（インライア）を説明する
// 超平面 y = w・x + b を推定する。
type RANSACRegressor struct {
	model.BaseEstimator
	Weights   *mat.VecDense // 重み（係数）
	Intercept float64       // 切片
	NFeatures int           // 特徴量の数

	residualThreshold  float64
	maxTrials          int
	successProbability float64
	minInlierRatio     float64
	seed               uint64

	inliers []int
}

// NewRANSACRegressor は新しいRANSACRegressorを作成する
//
// 使用例:
//
//	reg := linear.NewRANSACRegressor(
//	    linear.WithResidualThreshold(0.1),
//	    linear.WithSeed(42),
//	)
//	err := reg.Fit(X, y)
func NewRANSACRegressor(opts ...Option) *RANSACRegressor {
	lr := &RANSACRegressor{
		residualThreshold:  math.NaN(), // NaNはMADによる自動推定を意味する
		maxTrials:          256,
		successProbability: 0.99,
		minInlierRatio:     0,
		seed:               42,
	}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// Fit はLO-RANSACでモデルを学習させる。
// 残差閾値が未指定の場合はscikit-learnと同様に
// yの中央絶対偏差（MAD）を使用する。
func (lr *RANSACRegressor) Fit(X, y mat.Matrix) error {
	// 入力の検証
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.Wrap(errors.ErrEmptyData, "RANSACRegressor.Fit")
	}

	if ry != r {
		return errors.NewDimensionError("RANSACRegressor.Fit", r, ry, 0)
	}

	if cy != 1 {
		return errors.NewValueError("RANSACRegressor.Fit", "y must be a column vector")
	}

	threshold := lr.residualThreshold
	if math.IsNaN(threshold) {
		threshold = madThreshold(y)
	}

	kernel := newRegressionKernel(X, y)
	evaluator := ransac.NewScoreEvaluator[regressionModel](threshold)
	rng := rand.New(rand.NewPCG(lr.seed, lr.seed))

	fitted, inliers, err := ransac.Estimate(rng, kernel, evaluator,
		ransac.WithMaxIterations(lr.maxTrials),
		ransac.WithSuccessProbability(lr.successProbability),
		ransac.WithMinInlierRatio(lr.minInlierRatio),
	)
	if err != nil {
		return errors.Wrap(err, "RANSACRegressor.Fit")
	}
	if fitted.weights == nil {
		// 全試行が退化サンプルに終わった場合など
		return errors.NewValueError("RANSACRegressor.Fit", "no valid consensus found")
	}

	lr.NFeatures = c
	lr.Weights = fitted.weights
	lr.Intercept = fitted.intercept
	lr.inliers = inliers

	lr.SetFitted()

	return nil
}

// Predict は入力データに対する予測を行う
func (lr *RANSACRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !lr.IsFitted() {
		return nil, errors.NewNotFittedError("RANSACRegressor", "Predict")
	}

	r, c := X.Dims()
	if c != lr.NFeatures {
		return nil, errors.NewDimensionError("RANSACRegressor.Predict", lr.NFeatures, c, 1)
	}

	// 予測: y = X * weights + intercept
	predictions := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		pred := lr.Intercept
		for j := 0; j < c; j++ {
			pred += X.At(i, j) * lr.Weights.AtVec(j)
		}
		predictions.Set(i, 0, pred)
	}

	return predictions, nil
}

// Inliers は学習に採用された観測のインデックス集合を返す
func (lr *RANSACRegressor) Inliers() []int {
	out := make([]int, len(lr.inliers))
	copy(out, lr.inliers)
	return out
}

// Score はモデルの決定係数（R²）を計算する
func (lr *RANSACRegressor) Score(X, y mat.Matrix) (float64, error) {
	if !lr.IsFitted() {
		return 0, errors.NewNotFittedError("RANSACRegressor", "Score")
	}

	yPred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}

	r, _ := y.Dims()

	// y の平均を計算
	var yMean float64
	for i := 0; i < r; i++ {
		yMean += y.At(i, 0)
	}
	yMean /= float64(r)

	// 全変動 (TSS) と残差変動 (RSS) を計算
	var tss, rss float64
	for i := 0; i < r; i++ {
		yTrue := y.At(i, 0)
		yPredVal := yPred.At(i, 0)

		tss += (yTrue - yMean) * (yTrue - yMean)
		rss += (yTrue - yPredVal) * (yTrue - yPredVal)
	}

	if tss == 0 {
		return 0, errors.Newf("total sum of squares is zero")
	}

	return 1 - rss/tss, nil
}

// madThreshold はyの中央値まわりの中央絶対偏差を計算する。
// scikit-learnのRANSACRegressorと同じ既定の残差閾値。
func madThreshold(y mat.Matrix) float64 {
	r, _ := y.Dims()
	values := make([]float64, r)
	for i := 0; i < r; i++ {
		values[i] = y.At(i, 0)
	}
	med := median(values)
	deviations := make([]float64, r)
	for i, v := range values {
		deviations[i] = math.Abs(v - med)
	}
	return median(deviations)
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
