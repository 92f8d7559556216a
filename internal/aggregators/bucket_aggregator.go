package aggregators

import (
	"fmt"
	"time"

	"dbperf-analytics/internal/models"
)

// MaxBuckets caps the number of buckets a single aggregation may produce.
const MaxBuckets = 5_000_000

type AggregationKind string

const (
	KindCount AggregationKind = "count"
	KindSum   AggregationKind = "sum"
	KindMean  AggregationKind = "mean"
)

func (k AggregationKind) Validate() error {
	switch k {
	case KindCount, KindSum, KindMean:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidAggregationKind, k)
	}
}

// Sample is one timestamped value belonging to a group. Value is ignored by count.
type Sample struct {
	Timestamp time.Time
	Group     string
	Value     float64
}

// Bucket is one fixed interval. Values is aligned with BucketSeries.Groups.
type Bucket struct {
	Start  time.Time
	Values []models.OptionalFloat
}

// BucketSeries is the result of a resampling. Every bucket between the first and
// last sample is present.
type BucketSeries struct {
	Width   models.BucketWidth
	Kind    AggregationKind
	Groups  []string
	Buckets []Bucket
}

// Totals sums the defined values of every group per bucket. A bucket with no defined
// value is undefined.
func (s *BucketSeries) Totals() []models.OptionalFloat {
	totals := make([]models.OptionalFloat, len(s.Buckets))
	for i, b := range s.Buckets {
		var sum float64
		defined := false
		for _, v := range b.Values {
			if x, ok := v.Value(); ok {
				sum += x
				defined = true
			}
		}
		if defined {
			totals[i] = models.Defined(sum)
		}
	}
	return totals
}

// Column returns the values of one group across all buckets, or nil if the group is unknown.
func (s *BucketSeries) Column(group string) []models.OptionalFloat {
	for g, name := range s.Groups {
		if name != group {
			continue
		}
		col := make([]models.OptionalFloat, len(s.Buckets))
		for i, b := range s.Buckets {
			col[i] = b.Values[g]
		}
		return col
	}
	return nil
}

type BucketAggregator interface {
	// Aggregate resamples samples into fixed-width buckets per group. When groups is
	// empty the groups are taken from the samples in first-seen order; otherwise only
	// the listed groups are reported and other samples are ignored.
	Aggregate(samples []Sample, groups []string) (*BucketSeries, error)
}

type bucketAggregator struct {
	width models.BucketWidth
	kind  AggregationKind
}

func NewBucketAggregator(width models.BucketWidth, kind AggregationKind) (BucketAggregator, error) {
	if err := width.Validate(); err != nil {
		return nil, err
	}
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	return &bucketAggregator{width: width, kind: kind}, nil
}

func (a *bucketAggregator) Aggregate(samples []Sample, groups []string) (*BucketSeries, error) {
	groupIndex := make(map[string]int, len(groups))
	for _, g := range groups {
		if _, ok := groupIndex[g]; !ok {
			groupIndex[g] = len(groupIndex)
		}
	}
	fixedGroups := len(groupIndex) > 0

	// deduplicated, in the caller's order
	var ordered []string
	if fixedGroups {
		ordered = make([]string, len(groupIndex))
		for g, i := range groupIndex {
			ordered[i] = g
		}
	}

	series := &BucketSeries{Width: a.width, Kind: a.kind, Groups: ordered}

	// first pass: range and group discovery
	var minIdx, maxIdx int64
	seen := false
	for _, s := range samples {
		if _, ok := groupIndex[s.Group]; !ok {
			if fixedGroups {
				continue
			}
			groupIndex[s.Group] = len(groupIndex)
			series.Groups = append(series.Groups, s.Group)
		}
		idx := a.width.Index(s.Timestamp)
		if !seen || idx < minIdx {
			minIdx = idx
		}
		if !seen || idx > maxIdx {
			maxIdx = idx
		}
		seen = true
	}
	if !seen {
		return series, nil
	}

	// span wraps negative when the indices are further apart than an int64 can count.
	span := maxIdx - minIdx + 1
	if span <= 0 || span > MaxBuckets {
		return nil, fmt.Errorf("%w: %d buckets of %s exceed limit %d", ErrTooManyBuckets, span, a.width, MaxBuckets)
	}

	numBuckets := int(span)
	numGroups := len(series.Groups)
	sums := make([]float64, numBuckets*numGroups)
	counts := make([]int, numBuckets*numGroups)

	for _, s := range samples {
		g, ok := groupIndex[s.Group]
		if !ok {
			continue
		}
		cell := int(a.width.Index(s.Timestamp)-minIdx)*numGroups + g
		counts[cell]++
		sums[cell] += s.Value
	}

	series.Buckets = make([]Bucket, numBuckets)
	for b := 0; b < numBuckets; b++ {
		values := make([]models.OptionalFloat, numGroups)
		for g := 0; g < numGroups; g++ {
			cell := b*numGroups + g
			values[g] = a.reduce(sums[cell], counts[cell])
		}
		series.Buckets[b] = Bucket{
			Start:  a.width.Start(minIdx + int64(b)),
			Values: values,
		}
	}

	return series, nil
}

// reduce applies the aggregation kind. Empty buckets are 0 for count and sum and
// undefined for mean.
func (a *bucketAggregator) reduce(sum float64, count int) models.OptionalFloat {
	switch a.kind {
	case KindCount:
		return models.Defined(float64(count))
	case KindSum:
		return models.Defined(sum)
	default:
		if count == 0 {
			return models.Undefined()
		}
		return models.Defined(sum / float64(count))
	}
}
