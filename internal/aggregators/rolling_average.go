package aggregators

import (
	"fmt"

	"dbperf-analytics/internal/models"
)

// RollingAverage returns, for every index i, the mean of values[i-window+1 .. i].
// Indices with fewer than window values of history are undefined. Callers must pass
// the values of a single group.
func RollingAverage(values []float64, window int) ([]models.OptionalFloat, error) {
	if window <= 0 {
		return nil, fmt.Errorf("%w: %d must be positive", ErrInvalidWindow, window)
	}

	out := make([]models.OptionalFloat, len(values))
	for i := range values {
		if i < window-1 {
			out[i] = models.Undefined()
			continue
		}
		var sum float64
		for _, v := range values[i-window+1 : i+1] {
			sum += v
		}
		out[i] = models.Defined(sum / float64(window))
	}
	return out, nil
}
