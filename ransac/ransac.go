package ransac

import (
	"log/slog"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/YuminosukeSato/robustgo/pkg/errors"
	"github.com/YuminosukeSato/robustgo/pkg/log"
)

// Estimate runs LO-RANSAC: it draws minimal samples, hypothesizes
// candidate models through the kernel, scores them with the evaluator,
// locally optimizes candidates that improve on the best so far, and
// stops once the adaptive trial budget is exhausted.
//
// The returned inlier set belongs to the returned model. When no trial
// ever produced a usable hypothesis the zero model and an empty inlier
// set are returned without error; judging estimation quality from the
// inlier count is the caller's responsibility.
//
// Only a dataset smaller than kernel.MinimumSamples() is an immediate
// failure (*errors.InsufficientDataError). Degenerate samples and
// failed refits are absorbed by the loop.
func Estimate[M any](rng *rand.Rand, kernel Kernel[M], evaluator *ScoreEvaluator[M], opts ...Option) (M, []int, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var best M
	n := kernel.NumSamples()
	minSamples := kernel.MinimumSamples()
	if n < minSamples {
		return best, nil, errors.NewInsufficientDataError("Estimate", minSamples, n)
	}

	logger := slog.Default()
	bestScore := math.Inf(-1)
	var bestInliers []int
	haveBest := false

	// The budget starts at the hard cap and shrinks as the best inlier
	// ratio estimate improves.
	budget := o.maxIterations

	trials := 0
	for ; trials < budget; trials++ {
		sample, err := DrawSample(rng, n, minSamples)
		if err != nil {
			return best, nil, err
		}

		models, err := kernel.Fit(sample)
		if err != nil {
			if !errors.IsDegenerateSample(err) {
				return best, nil, err
			}
			// Redraw. The trial still counts toward the hard cap so the
			// call terminates even on pathological datasets.
			logger.Debug("degenerate minimal sample",
				slog.Int("trial", trials), log.ErrAttr(err))
			notifyObserver(o.observer, trials, true, bestScore, bestInliers, budget)
			continue
		}

		for _, candidate := range models {
			score, inliers := evaluator.Score(kernel, candidate)
			if haveBest && score <= bestScore {
				continue
			}

			// Promising hypothesis: spend bounded extra work on it.
			candidate, score, inliers = localOptimize(kernel, evaluator, candidate, score, inliers, &o)

			if !haveBest || score > bestScore {
				best, bestScore, bestInliers = candidate, score, inliers
				haveBest = true
				budget = adaptiveIterations(o.successProbability,
					float64(len(bestInliers))/float64(n), minSamples, o.maxIterations)
				logger.Debug("best model updated",
					"trial", trials,
					"score", bestScore,
					"inliers", len(bestInliers),
					"budget", budget)
			}
		}
		notifyObserver(o.observer, trials, false, bestScore, bestInliers, budget)
	}

	if trials >= o.maxIterations {
		errors.Warn(errors.NewConvergenceWarning("LO-RANSAC", trials, ""))
	}
	if haveBest && float64(len(bestInliers))/float64(n) < o.minInlierRatio {
		errors.Warn(errors.NewNoConsensusWarning(len(bestInliers), n, o.minInlierRatio))
	}
	if bestInliers == nil {
		bestInliers = []int{}
	}
	return best, bestInliers, nil
}

// localOptimize is the LO step: iterative weighted least-squares refits
// on the candidate's current inlier set, bounded by maxLocalIterations.
// A refit that scores worse is discarded, keeping the previous
// iteration's model to prevent oscillation. A refit at equal score is
// accepted while it still changes the inlier set, letting the model
// recenter and pick up borderline points; the loop stops once neither
// the score nor the inlier set moves.
func localOptimize[M any](kernel Kernel[M], evaluator *ScoreEvaluator[M], model M, score float64, inliers []int, o *options) (M, float64, []int) {
	logger := slog.Default()
	for i := 0; i < o.maxLocalIterations; i++ {
		if len(inliers) < kernel.MinimumLSSamples() {
			break
		}
		weights := kernel.ComputeWeights(model, inliers, o.weightEps)
		refit, err := kernel.FitLS(inliers, weights)
		if err != nil {
			// Ill-conditioned refit: keep the pre-refit candidate.
			logger.Debug("weighted refit failed", slog.Int("iteration", i), log.ErrAttr(err))
			break
		}
		refitScore, refitInliers := evaluator.Score(kernel, refit)
		if refitScore < score {
			break
		}
		if refitScore == score && slices.Equal(refitInliers, inliers) {
			break
		}
		model, score, inliers = refit, refitScore, refitInliers
	}
	return model, score, inliers
}

// adaptiveIterations computes the standard consensus trial budget
// k = log(1-p) / log(1 - w^n), clamped to [1, maxIterations].
func adaptiveIterations(p, inlierRatio float64, sampleSize, maxIterations int) int {
	if inlierRatio <= 0 {
		return maxIterations
	}
	if inlierRatio >= 1 {
		return 1
	}
	wn := math.Pow(inlierRatio, float64(sampleSize))
	denom := math.Log1p(-wn)
	if denom == 0 {
		// w^n underflowed; no information to shrink the budget.
		return maxIterations
	}
	k := math.Ceil(math.Log(1-p) / denom)
	return int(errors.ClipValue(k, 1, float64(maxIterations)))
}

func notifyObserver(fn TrialObserver, trial int, degenerate bool, bestScore float64, bestInliers []int, budget int) {
	if fn == nil {
		return
	}
	fn(Trial{
		Index:           trial,
		Degenerate:      degenerate,
		BestScore:       bestScore,
		BestInlierCount: len(bestInliers),
		Budget:          budget,
	})
}
