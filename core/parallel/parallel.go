package parallel

import (
	"runtime"
	"sync"
)

// Parallelize divides the specified total number (items) according to the number of CPU cores,
// and executes the specified function (fn) in parallel for each range (start, end)
func Parallelize(items int, fn func(start, end int)) {
	ParallelizeWorkers(items, runtime.NumCPU(), fn)
}

// ParallelizeWorkers is Parallelize with an explicit worker count.
// The estimation driver uses this to pin the number of trial streams,
// which keeps parallel runs reproducible for a fixed seed.
func ParallelizeWorkers(items, numWorkers int, fn func(start, end int)) {
	if items == 0 {
		return
	}
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > items {
		numWorkers = items // No need for more workers than items
	}

	// Calculate the number of items each worker handles (ceiling division)
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup

	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}

		// Skip if there's no range to handle
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}

// ParallelizeWithThreshold performs parallelization only when the number of items exceeds the threshold
// If below threshold, normal sequential processing is performed
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}

	Parallelize(items, fn)
}
