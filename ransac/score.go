package ransac

// Aggregation maps an inlier residual to its score contribution.
// Higher total score is always better.
type Aggregation func(residual, threshold float64) float64

// CountAggregation scores a model by its inlier count. This is the
// classic RANSAC consensus measure and the default.
func CountAggregation(residual, threshold float64) float64 {
	return 1
}

// TruncatedAggregation scores a model by the truncated quadratic cost
// 1 - (r/t)^2 per inlier (MSAC style): an inlier right on the model
// contributes 1, one at the threshold contributes 0.
func TruncatedAggregation(residual, threshold float64) float64 {
	return 1 - (residual*residual)/(threshold*threshold)
}

// ScoreEvaluator classifies every observation as inlier or outlier
// against a fixed error threshold and aggregates the inliers into a
// scalar score.
type ScoreEvaluator[M any] struct {
	threshold float64
	agg       Aggregation
}

// NewScoreEvaluator returns an evaluator using inlier-count scoring.
func NewScoreEvaluator[M any](threshold float64) *ScoreEvaluator[M] {
	return NewScoreEvaluatorAgg[M](threshold, CountAggregation)
}

// NewScoreEvaluatorAgg returns an evaluator with a custom aggregation.
func NewScoreEvaluatorAgg[M any](threshold float64, agg Aggregation) *ScoreEvaluator[M] {
	return &ScoreEvaluator[M]{threshold: threshold, agg: agg}
}

// Threshold returns the inlier classification threshold.
func (s *ScoreEvaluator[M]) Threshold() float64 {
	return s.threshold
}

// Score evaluates the model over the kernel's whole dataset. An
// observation i is an inlier iff kernel.Error(i, model) <= threshold.
// Returns the aggregated score and the inlier index set, in index order.
func (s *ScoreEvaluator[M]) Score(kernel Kernel[M], model M) (float64, []int) {
	n := kernel.NumSamples()
	var score float64
	inliers := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if r := kernel.Error(i, model); r <= s.threshold {
			score += s.agg(r, s.threshold)
			inliers = append(inliers, i)
		}
	}
	return score, inliers
}
