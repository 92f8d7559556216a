package streams

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionIndex_StableAndInRange(t *testing.T) {
	t.Parallel()

	keys := []string{"01ARZ3NDEKTSV4RRFFQ69G5FAV", "01J9ZQ6K3V8W2G5XJ0D4R7N1TB", "", "x"}
	for _, key := range keys {
		idx := partitionIndex(key, defaultNumPartitions)
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, defaultNumPartitions)
		assert.Equal(t, idx, partitionIndex(key, defaultNumPartitions), "same key must map to same partition")
	}
}

func TestPartitionedQueue_PublishRoutesByKey(t *testing.T) {
	t.Parallel()

	queue := newPartitionedQueue[string](3, 4)
	ctx := context.Background()

	require.NoError(t, queue.Publish(ctx, "report-a", "first"))
	require.NoError(t, queue.Publish(ctx, "report-a", "second"))

	ch := queue.partitions[partitionIndex("report-a", 3)]
	require.Len(t, ch, 2)
	assert.Equal(t, "first", <-ch)
	assert.Equal(t, "second", <-ch)
}

func TestPartitionedQueue_PublishHonoursContext(t *testing.T) {
	t.Parallel()

	queue := newPartitionedQueue[int](1, 0)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// unbuffered with no reader: blocks until the deadline
	err := queue.Publish(ctx, "k", 1)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPartitionedQueue_Close(t *testing.T) {
	t.Parallel()

	queue := newPartitionedQueue[int](2, 1)
	require.NoError(t, queue.Publish(context.Background(), "k", 7))

	queue.Close()
	queue.Close()

	assert.ErrorIs(t, queue.Publish(context.Background(), "k", 8), ErrQueueClosed)

	// already queued messages drain before the channel reports closed
	ch := queue.partitions[partitionIndex("k", 2)]
	v, ok := <-ch
	assert.True(t, ok)
	assert.Equal(t, 7, v)
	_, ok = <-ch
	assert.False(t, ok)
}
