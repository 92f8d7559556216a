package aggregators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ranked struct {
	index    int
	duration float64
}

func durationOf(r ranked) float64 { return r.duration }

func rankedFrom(durations ...float64) []ranked {
	out := make([]ranked, len(durations))
	for i, d := range durations {
		out[i] = ranked{index: i, duration: d}
	}
	return out
}

func TestTopN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		durations []float64
		n         int
		expected  []int
	}{
		{
			name:      "ties keep original order",
			durations: []float64{3, 50, 7, 50, 1},
			n:         2,
			expected:  []int{1, 3},
		},
		{
			name:      "fewer items than n returns all",
			durations: []float64{1, 9},
			n:         10,
			expected:  []int{1, 0},
		},
		{
			name:      "all equal",
			durations: []float64{4, 4, 4},
			n:         2,
			expected:  []int{0, 1},
		},
		{
			name:      "empty",
			durations: nil,
			n:         3,
			expected:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := TopN(rankedFrom(tt.durations...), tt.n, durationOf)
			require.NoError(t, err)

			var indices []int
			for _, r := range got {
				indices = append(indices, r.index)
			}
			assert.Equal(t, tt.expected, indices)
		})
	}
}

func TestTopN_Invariants(t *testing.T) {
	t.Parallel()

	items := rankedFrom(8, 1, 8, 3, 9, 0, 3, 8, 2, 9, 5)
	snapshot := append([]ranked(nil), items...)

	for n := 1; n <= len(items)+2; n++ {
		got, err := TopN(items, n, durationOf)
		require.NoError(t, err)
		assert.Len(t, got, min(n, len(items)))

		for i := 1; i < len(got); i++ {
			assert.GreaterOrEqual(t, got[i-1].duration, got[i].duration)
			if got[i-1].duration == got[i].duration {
				assert.Less(t, got[i-1].index, got[i].index)
			}
		}
	}
	assert.Equal(t, snapshot, items)
}

func TestTopN_InvalidN(t *testing.T) {
	t.Parallel()

	_, err := TopN(rankedFrom(1), 0, durationOf)
	assert.ErrorIs(t, err, ErrInvalidTopN)
}
