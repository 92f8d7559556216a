package aggregators

import (
	"math"
	"testing"
	"time"

	"dbperf-analytics/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// epochAligned sits on a boundary of every width used below.
var epochAligned = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func countsOf(t *testing.T, s *BucketSeries, group string) []float64 {
	t.Helper()
	col := s.Column(group)
	require.NotNil(t, col)
	out := make([]float64, len(col))
	for i, v := range col {
		x, ok := v.Value()
		require.True(t, ok)
		out[i] = x
	}
	return out
}

func TestBucketAggregator_PerMinuteCount(t *testing.T) {
	t.Parallel()

	agg, err := NewBucketAggregator(models.BucketMinute, KindCount)
	require.NoError(t, err)

	var samples []Sample
	for _, s := range []int{0, 30, 65, 125} {
		samples = append(samples, Sample{Timestamp: epochAligned.Add(time.Duration(s) * time.Second), Group: "all"})
	}

	series, err := agg.Aggregate(samples, nil)
	require.NoError(t, err)

	require.Len(t, series.Buckets, 3)
	assert.Equal(t, epochAligned, series.Buckets[0].Start)
	assert.Equal(t, epochAligned.Add(time.Minute), series.Buckets[1].Start)
	assert.Equal(t, epochAligned.Add(2*time.Minute), series.Buckets[2].Start)
	assert.Equal(t, []float64{2, 1, 1}, countsOf(t, series, "all"))
}

func TestBucketAggregator_EmptyBucketsAreFilled(t *testing.T) {
	t.Parallel()

	samples := []Sample{
		{Timestamp: epochAligned, Group: "a", Value: 4},
		{Timestamp: epochAligned.Add(3 * time.Minute), Group: "a", Value: 6},
	}

	tests := []struct {
		name     string
		kind     AggregationKind
		expected []models.OptionalFloat
	}{
		{
			name:     "count fills zero",
			kind:     KindCount,
			expected: []models.OptionalFloat{models.Defined(1), models.Defined(0), models.Defined(0), models.Defined(1)},
		},
		{
			name:     "sum fills zero",
			kind:     KindSum,
			expected: []models.OptionalFloat{models.Defined(4), models.Defined(0), models.Defined(0), models.Defined(6)},
		},
		{
			name:     "mean leaves empty buckets undefined",
			kind:     KindMean,
			expected: []models.OptionalFloat{models.Defined(4), models.Undefined(), models.Undefined(), models.Defined(6)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			agg, err := NewBucketAggregator(models.BucketMinute, tt.kind)
			require.NoError(t, err)

			series, err := agg.Aggregate(samples, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, series.Column("a"))
		})
	}
}

func TestBucketAggregator_ConcurrencyFanOut(t *testing.T) {
	t.Parallel()

	agg, err := NewBucketAggregator(models.Bucket100ms, KindCount)
	require.NoError(t, err)

	ms := func(n int) time.Time { return epochAligned.Add(time.Duration(n) * time.Millisecond) }
	samples := []Sample{
		{Timestamp: ms(10), Group: "oracle"},
		{Timestamp: ms(50), Group: "mysql"},
		{Timestamp: ms(90), Group: "oracle"},
		{Timestamp: ms(310), Group: "mysql"},
		{Timestamp: ms(320), Group: "db2"},
	}

	series, err := agg.Aggregate(samples, []string{"oracle", "mysql", "postgres"})
	require.NoError(t, err)

	assert.Equal(t, []string{"oracle", "mysql", "postgres"}, series.Groups)
	require.Len(t, series.Buckets, 4)
	assert.Equal(t, []float64{2, 0, 0, 0}, countsOf(t, series, "oracle"))
	assert.Equal(t, []float64{1, 0, 0, 1}, countsOf(t, series, "mysql"))
	assert.Equal(t, []float64{0, 0, 0, 0}, countsOf(t, series, "postgres"))
	assert.Nil(t, series.Column("db2"))

	assert.Equal(t,
		[]models.OptionalFloat{models.Defined(3), models.Defined(0), models.Defined(0), models.Defined(1)},
		series.Totals())
}

func TestBucketAggregator_BoundariesIgnoreFirstRecord(t *testing.T) {
	t.Parallel()

	agg, err := NewBucketAggregator(models.BucketMinute, KindCount)
	require.NoError(t, err)

	// first record is 45s into its minute; buckets still start on the minute
	samples := []Sample{
		{Timestamp: epochAligned.Add(45 * time.Second), Group: "all"},
		{Timestamp: epochAligned.Add(75 * time.Second), Group: "all"},
	}
	series, err := agg.Aggregate(samples, nil)
	require.NoError(t, err)

	require.Len(t, series.Buckets, 2)
	assert.Equal(t, epochAligned, series.Buckets[0].Start)
	assert.Equal(t, []float64{1, 1}, countsOf(t, series, "all"))
}

func TestBucketAggregator_Coverage(t *testing.T) {
	t.Parallel()

	widths := []models.BucketWidth{models.Bucket100ms, models.BucketSecond, models.BucketWidth(7 * time.Second), models.BucketMinute}
	offsets := []time.Duration{0, 10 * time.Millisecond, 999 * time.Millisecond, 59 * time.Second, 61 * time.Second, 3*time.Minute + 250*time.Millisecond}

	for _, w := range widths {
		// min timestamp sits on a bucket boundary
		start := w.Start(w.Index(epochAligned.Add(13 * time.Second)))

		var samples []Sample
		for _, off := range offsets {
			samples = append(samples, Sample{Timestamp: start.Add(off), Group: "g"})
		}

		agg, err := NewBucketAggregator(w, KindCount)
		require.NoError(t, err)
		series, err := agg.Aggregate(samples, nil)
		require.NoError(t, err)

		maxTs := start.Add(offsets[len(offsets)-1])
		want := int(maxTs.Sub(start)/w.Duration()) + 1
		assert.Len(t, series.Buckets, want, "width %s", w)

		var total float64
		for i, b := range series.Buckets {
			assert.Equal(t, start.Add(time.Duration(i)*w.Duration()), b.Start)
			assert.False(t, b.Start.After(maxTs))
			total += b.Values[0].OrElse(0)
		}
		assert.Equal(t, float64(len(offsets)), total)
	}
}

func TestBucketAggregator_SingleRecordYieldsOneBucket(t *testing.T) {
	t.Parallel()

	agg, err := NewBucketAggregator(models.BucketMinute, KindCount)
	require.NoError(t, err)

	series, err := agg.Aggregate([]Sample{{Timestamp: epochAligned.Add(17 * time.Second), Group: "all"}}, nil)
	require.NoError(t, err)
	require.Len(t, series.Buckets, 1)
	assert.Equal(t, []float64{1}, countsOf(t, series, "all"))
}

func TestBucketAggregator_NoSamples(t *testing.T) {
	t.Parallel()

	agg, err := NewBucketAggregator(models.BucketMinute, KindCount)
	require.NoError(t, err)

	series, err := agg.Aggregate(nil, []string{"oracle"})
	require.NoError(t, err)
	assert.Empty(t, series.Buckets)
	assert.Empty(t, series.Totals())
}

func TestBucketAggregator_TooManyBuckets(t *testing.T) {
	t.Parallel()

	agg, err := NewBucketAggregator(models.BucketWidth(time.Nanosecond), KindCount)
	require.NoError(t, err)

	_, err = agg.Aggregate([]Sample{
		{Timestamp: epochAligned, Group: "all"},
		{Timestamp: epochAligned.Add(time.Second), Group: "all"},
	}, nil)
	assert.ErrorIs(t, err, ErrTooManyBuckets)

	// indices at both ends of the int64 range
	_, err = agg.Aggregate([]Sample{
		{Timestamp: time.Unix(0, math.MinInt64), Group: "all"},
		{Timestamp: time.Unix(0, math.MaxInt64), Group: "all"},
	}, nil)
	assert.ErrorIs(t, err, ErrTooManyBuckets)
}

func TestNewBucketAggregator_InvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := NewBucketAggregator(0, KindCount)
	assert.ErrorIs(t, err, ErrInvalidBucketWidth)

	_, err = NewBucketAggregator(models.BucketWidth(-time.Second), KindCount)
	assert.ErrorIs(t, err, ErrInvalidBucketWidth)

	_, err = NewBucketAggregator(models.BucketMinute, AggregationKind("median"))
	assert.ErrorIs(t, err, ErrInvalidAggregationKind)
}
