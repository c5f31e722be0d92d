package ransac

import (
	"math"
	"testing"
)

// stubModel carries no parameters; stubKernel scores against fixed
// residuals, which is all the evaluator needs.
type stubModel struct{}

type stubKernel struct {
	residuals []float64
}

func (k *stubKernel) NumSamples() int       { return len(k.residuals) }
func (k *stubKernel) MinimumSamples() int   { return 2 }
func (k *stubKernel) MinimumLSSamples() int { return 2 }

func (k *stubKernel) Fit(sample []int) ([]stubModel, error) {
	return []stubModel{{}}, nil
}

func (k *stubKernel) FitLS(sample []int, weights []float64) (stubModel, error) {
	return stubModel{}, nil
}

func (k *stubKernel) Error(i int, model stubModel) float64 {
	return k.residuals[i]
}

func (k *stubKernel) ComputeWeights(model stubModel, inliers []int, eps float64) []float64 {
	return InverseResidualWeights(func(i int) float64 { return k.residuals[i] }, inliers, eps)
}

func TestScoreEvaluator_CountAggregation(t *testing.T) {
	kernel := &stubKernel{residuals: []float64{0, 0.1, 0.3, 0.31, 2, 0.05}}
	evaluator := NewScoreEvaluator[stubModel](0.3)

	score, inliers := evaluator.Score(kernel, stubModel{})

	if score != 4 {
		t.Errorf("score = %v, want 4", score)
	}
	want := []int{0, 1, 2, 5}
	if len(inliers) != len(want) {
		t.Fatalf("inliers = %v, want %v", inliers, want)
	}
	for i, idx := range want {
		if inliers[i] != idx {
			t.Errorf("inliers[%d] = %d, want %d", i, inliers[i], idx)
		}
	}
}

func TestScoreEvaluator_TruncatedAggregation(t *testing.T) {
	kernel := &stubKernel{residuals: []float64{0, 0.3, 1}}
	evaluator := NewScoreEvaluatorAgg[stubModel](0.3, TruncatedAggregation)

	score, inliers := evaluator.Score(kernel, stubModel{})

	// Residual 0 contributes 1, residual at the threshold contributes 0.
	if math.Abs(score-1) > 1e-12 {
		t.Errorf("score = %v, want 1", score)
	}
	if len(inliers) != 2 {
		t.Errorf("inliers = %v, want indices 0 and 1", inliers)
	}
}

func TestInverseResidualWeights_Floor(t *testing.T) {
	kernel := &stubKernel{residuals: []float64{0, 1e-3, 0.5}}
	weights := kernel.ComputeWeights(stubModel{}, []int{0, 1, 2}, DefaultWeightEps)

	// A zero residual hits the eps floor: 1/eps^2, never Inf or NaN.
	if math.IsInf(weights[0], 0) || math.IsNaN(weights[0]) {
		t.Fatalf("weight for zero residual must be finite, got %v", weights[0])
	}
	if math.Abs(weights[0]-1e6) > 1e-6 {
		t.Errorf("weights[0] = %v, want 1e6", weights[0])
	}
	if math.Abs(weights[1]-1e6) > 1e-6 {
		t.Errorf("weights[1] = %v, want 1e6", weights[1])
	}
	if math.Abs(weights[2]-4) > 1e-12 {
		t.Errorf("weights[2] = %v, want 4", weights[2])
	}
}

func TestAdaptiveIterations(t *testing.T) {
	tests := []struct {
		name        string
		p           float64
		inlierRatio float64
		sampleSize  int
		maxIter     int
		want        int
	}{
		{"seventy percent inliers, pairs", 0.99, 0.7, 2, 1024, 7},
		{"perfect consensus", 0.99, 1.0, 2, 1024, 1},
		{"no consensus", 0.99, 0, 2, 1024, 1024},
		{"tiny ratio clamps to cap", 0.99, 0.01, 4, 1024, 1024},
		{"half inliers, pairs", 0.99, 0.5, 2, 1024, 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := adaptiveIterations(tt.p, tt.inlierRatio, tt.sampleSize, tt.maxIter)
			if got != tt.want {
				t.Errorf("adaptiveIterations(%v, %v, %d, %d) = %d, want %d",
					tt.p, tt.inlierRatio, tt.sampleSize, tt.maxIter, got, tt.want)
			}
		})
	}
}
