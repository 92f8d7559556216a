package aggregators

import (
	"fmt"
	"time"
)

// Segment is a run of consecutive items whose neighbouring timestamps are at most
// the gap threshold apart.
type Segment[T any] struct {
	Items []T
	Start time.Time
	End   time.Time
}

// SplitByGap splits time-ordered items into segments, starting a new segment whenever
// the gap to the previous item exceeds threshold. Concatenating the returned segments
// yields items unchanged. Empty input yields no segments.
func SplitByGap[T any](items []T, timestampOf func(T) time.Time, threshold time.Duration) ([]Segment[T], error) {
	if threshold <= 0 {
		return nil, fmt.Errorf("%w: %s must be positive", ErrInvalidThreshold, threshold)
	}
	if len(items) == 0 {
		return nil, nil
	}

	var segments []Segment[T]
	begin := 0
	prev := timestampOf(items[0])
	for i := 1; i < len(items); i++ {
		ts := timestampOf(items[i])
		if ts.Sub(prev) > threshold {
			segments = append(segments, newSegment(items, begin, i, timestampOf))
			begin = i
		}
		prev = ts
	}
	segments = append(segments, newSegment(items, begin, len(items), timestampOf))

	return segments, nil
}

func newSegment[T any](items []T, begin, end int, timestampOf func(T) time.Time) Segment[T] {
	// cap the sub-slice so an append on one segment can never write into the next
	run := items[begin:end:end]
	return Segment[T]{
		Items: run,
		Start: timestampOf(run[0]),
		End:   timestampOf(run[len(run)-1]),
	}
}
