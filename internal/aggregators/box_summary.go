package aggregators

import (
	"math"
	"slices"

	"dbperf-analytics/internal/models"
)

// Summarize computes the box-plot summary of values. Quartiles use linear
// interpolation between closest ranks. An empty input yields a zero summary.
func Summarize(label string, values []float64) models.BoxSummary {
	summary := models.BoxSummary{Label: label, Count: len(values)}
	if len(values) == 0 {
		return summary
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}

	summary.Min = sorted[0]
	summary.Max = sorted[len(sorted)-1]
	summary.Q1 = Quantile(sorted, 0.25)
	summary.Median = Quantile(sorted, 0.5)
	summary.Q3 = Quantile(sorted, 0.75)
	summary.Mean = sum / float64(len(sorted))
	return summary
}

// Quantile returns the q-quantile (0..1) of an ascending slice using linear
// interpolation. It returns NaN for an empty slice.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	q = math.Max(0, math.Min(1, q))

	pos := q * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}
