package ransac

import (
	"math/rand/v2"

	"github.com/YuminosukeSato/robustgo/pkg/errors"
)

// DrawSample selects sampleSize distinct indices uniformly at random
// from [0, populationSize), without replacement, using only the supplied
// generator. Robert Floyd's algorithm, O(sampleSize) expected time.
//
// Identical generator state and parameters produce identical samples,
// which is what makes seeded estimation runs reproducible.
func DrawSample(rng *rand.Rand, populationSize, sampleSize int) ([]int, error) {
	if sampleSize <= 0 {
		return nil, errors.NewValidationError("sampleSize", "must be positive", sampleSize)
	}
	if sampleSize > populationSize {
		return nil, errors.NewValidationError("sampleSize",
			"must not exceed population size", sampleSize)
	}

	chosen := make(map[int]struct{}, sampleSize)
	sample := make([]int, 0, sampleSize)
	for i := populationSize - sampleSize; i < populationSize; i++ {
		j := rng.IntN(i + 1)
		if _, taken := chosen[j]; taken {
			j = i
		}
		chosen[j] = struct{}{}
		sample = append(sample, j)
	}
	return sample, nil
}
