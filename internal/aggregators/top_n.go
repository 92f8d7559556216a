package aggregators

import (
	"fmt"
	"slices"
	"sort"
)

// TopN returns the n items with the largest value, in descending order. Ties keep
// their order from items. items itself is neither mutated nor reordered.
func TopN[T any](items []T, n int, valueOf func(T) float64) ([]T, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d must be positive", ErrInvalidTopN, n)
	}

	ranked := slices.Clone(items)
	sort.SliceStable(ranked, func(i, j int) bool {
		return valueOf(ranked[i]) > valueOf(ranked[j])
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked, nil
}
