package stats

import (
	"fmt"
	"math/rand/v2"
	"sort"
)

// Split is one bootstrap replication: disjoint train and test index sets
// whose union is the full index range.
type Split struct {
	Train []int
	Test  []int
}

// NewRand returns a seeded deterministic random source for the sampling
// helpers.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
}

// BootstrapSplits generates replications train/test index pairs over n
// items. Each train set samples (1-testRatio)*n indices without
// replacement; the test set is the complement. Both sets come back sorted.
func BootstrapSplits(n, replications int, testRatio float64, rng *rand.Rand) ([]Split, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: n must be positive", ErrEmptyInput)
	}
	if replications <= 0 {
		return nil, fmt.Errorf("%w: replications must be positive", ErrEmptyInput)
	}
	if testRatio < 0 || testRatio >= 1 {
		return nil, fmt.Errorf("test ratio must be in [0, 1): got %g", testRatio)
	}

	trainSize := int(float64(n) * (1 - testRatio))
	splits := make([]Split, 0, replications)

	for range replications {
		perm := rng.Perm(n)

		train := make([]int, trainSize)
		copy(train, perm[:trainSize])
		test := make([]int, n-trainSize)
		copy(test, perm[trainSize:])

		sort.Ints(train)
		sort.Ints(test)
		splits = append(splits, Split{Train: train, Test: test})
	}
	return splits, nil
}
