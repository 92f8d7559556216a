package aggregators

import (
	"fmt"
	"math"

	"dbperf-analytics/internal/models"
)

// NewHistogram splits [min, max] of values into equal-width bins. Bins are half-open
// except the last, which also holds max. Non-finite values are skipped. When every
// value is equal, or the range is too narrow or too wide to split, a single bin is
// returned.
func NewHistogram(values []float64, bins int) ([]models.HistogramBin, error) {
	if bins <= 0 {
		return nil, fmt.Errorf("%w: %d must be positive", ErrInvalidBins, bins)
	}

	finite := make([]float64, 0, len(values))
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		finite = append(finite, v)
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if len(finite) == 0 {
		return nil, nil
	}
	width := (hi - lo) / float64(bins)
	if lo == hi || width == 0 || math.IsInf(width, 0) || math.IsNaN(width) {
		return []models.HistogramBin{{Lower: lo, Upper: hi, Count: len(finite)}}, nil
	}

	out := make([]models.HistogramBin, bins)
	for i := range out {
		out[i].Lower = lo + float64(i)*width
		out[i].Upper = lo + float64(i+1)*width
	}
	out[bins-1].Upper = hi

	for _, v := range finite {
		i := min(max(int((v-lo)/width), 0), bins-1)
		out[i].Count++
	}
	return out, nil
}
