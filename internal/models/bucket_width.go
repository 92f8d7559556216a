package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidBucketWidth is returned for zero, negative or unparseable bucket widths.
var ErrInvalidBucketWidth = errors.New("invalid bucket width")

// BucketWidth is the fixed width of a resampling bucket. Buckets are anchored
// at the Unix epoch, so boundaries do not depend on which records are bucketed.
type BucketWidth time.Duration

const (
	Bucket100ms  BucketWidth = BucketWidth(100 * time.Millisecond)
	BucketSecond BucketWidth = BucketWidth(time.Second)
	BucketMinute BucketWidth = BucketWidth(time.Minute)
	BucketHour   BucketWidth = BucketWidth(time.Hour)
)

// ParseBucketWidth accepts second, minute, hour or any time.ParseDuration string.
func ParseBucketWidth(s string) (BucketWidth, error) {
	var w BucketWidth
	switch s {
	case "second":
		w = BucketSecond
	case "minute":
		w = BucketMinute
	case "hour":
		w = BucketHour
	default:
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrInvalidBucketWidth, s, err)
		}
		w = BucketWidth(d)
	}
	if err := w.Validate(); err != nil {
		return 0, err
	}
	return w, nil
}

func (w BucketWidth) Validate() error {
	if w <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidBucketWidth, time.Duration(w))
	}
	return nil
}

func (w BucketWidth) Duration() time.Duration {
	return time.Duration(w)
}

func (w BucketWidth) String() string {
	return time.Duration(w).String()
}

// Index returns floor((t - epoch) / w).
func (w BucketWidth) Index(t time.Time) int64 {
	ns := t.UnixNano()
	width := int64(w)
	idx := ns / width
	if ns%width != 0 && ns < 0 {
		idx--
	}
	return idx
}

// Start returns the inclusive start instant of bucket idx.
func (w BucketWidth) Start(idx int64) time.Time {
	return time.Unix(0, idx*int64(w)).UTC()
}

// FormatBucketStart formats the start of the bucket containing t with a precision
// matching the width.
func (w BucketWidth) FormatBucketStart(t time.Time) string {
	start := w.Start(w.Index(t))
	switch {
	case w.Duration() >= time.Hour && w.Duration()%time.Hour == 0:
		return start.Format("20060102T15Z")
	case w.Duration() >= time.Minute && w.Duration()%time.Minute == 0:
		return start.Format("20060102T1504Z")
	case w.Duration() >= time.Second && w.Duration()%time.Second == 0:
		return start.Format("20060102T150405Z")
	default:
		return start.Format("20060102T150405.000Z")
	}
}
