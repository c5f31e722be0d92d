package ransac

import (
	"math/rand/v2"
	"runtime"

	"github.com/YuminosukeSato/robustgo/core/parallel"
	"github.com/YuminosukeSato/robustgo/pkg/errors"
)

// EstimateParallel splits the trial budget across numWorkers goroutines,
// each running the sequential loop on its own PCG sub-stream seeded from
// the caller's generator, and merges the outcomes by taking the
// highest-scoring model (lowest worker index on ties).
//
// For a fixed seed and worker count the result is deterministic, though
// generally different from the sequential run with the same seed.
// numWorkers <= 0 selects runtime.NumCPU().
func EstimateParallel[M any](rng *rand.Rand, kernel Kernel[M], evaluator *ScoreEvaluator[M], numWorkers int, opts ...Option) (M, []int, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var zero M
	n := kernel.NumSamples()
	if n < kernel.MinimumSamples() {
		return zero, nil, errors.NewInsufficientDataError("EstimateParallel", kernel.MinimumSamples(), n)
	}

	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > o.maxIterations {
		numWorkers = o.maxIterations
	}

	// Sub-stream seeds are drawn sequentially from the caller's
	// generator before any goroutine starts, keeping the fan-out
	// reproducible.
	seeds := make([][2]uint64, numWorkers)
	for i := range seeds {
		seeds[i] = [2]uint64{rng.Uint64(), rng.Uint64()}
	}

	perWorker := (o.maxIterations + numWorkers - 1) / numWorkers
	workerOpts := make([]Option, 0, len(opts)+1)
	workerOpts = append(workerOpts, opts...)
	workerOpts = append(workerOpts, WithMaxIterations(perWorker))

	type outcome struct {
		model   M
		inliers []int
		err     error
	}
	outcomes := make([]outcome, numWorkers)

	parallel.ParallelizeWorkers(numWorkers, numWorkers, func(start, end int) {
		for w := start; w < end; w++ {
			sub := rand.New(rand.NewPCG(seeds[w][0], seeds[w][1]))
			model, inliers, err := Estimate(sub, kernel, evaluator, workerOpts...)
			outcomes[w] = outcome{model: model, inliers: inliers, err: err}
		}
	})

	best := zero
	bestScore := 0.0
	var bestInliers []int
	haveBest := false
	for _, out := range outcomes {
		if out.err != nil {
			return zero, nil, out.err
		}
		if len(out.inliers) == 0 {
			continue
		}
		score, inliers := evaluator.Score(kernel, out.model)
		if !haveBest || score > bestScore {
			best, bestScore, bestInliers = out.model, score, inliers
			haveBest = true
		}
	}
	if bestInliers == nil {
		bestInliers = []int{}
	}
	return best, bestInliers, nil
}
