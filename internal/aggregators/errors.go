package aggregators

import (
	"errors"

	"dbperf-analytics/internal/models"
)

// Configuration errors. They are returned wrapped with the offending value and are
// never clamped to a usable default.
var (
	ErrInvalidWindow          = errors.New("invalid rolling window")
	ErrInvalidThreshold       = errors.New("invalid gap threshold")
	ErrInvalidBucketWidth     = models.ErrInvalidBucketWidth
	ErrInvalidAggregationKind = errors.New("invalid aggregation kind")
	ErrInvalidTopN            = errors.New("invalid top-n size")
	ErrInvalidBins            = errors.New("invalid histogram bin count")
)

// ErrTooManyBuckets is returned when the requested range and width would need more
// buckets than MaxBuckets.
var ErrTooManyBuckets = errors.New("too many buckets")
