package asyncqueue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func makeRequest(q *Queue, priority Priority) (uint64, bool) {
	return q.Enqueue(priority, "system", "user", "", 100, 0.7, 30*time.Second)
}

func TestPriorityOrdering(t *testing.T) {
	q := New(100)

	makeRequest(q, Low)
	makeRequest(q, Critical)
	makeRequest(q, Medium)

	first, ok := q.Dequeue()
	assert.True(t, ok)
	assert.Equal(t, Critical, first.Priority)

	second, ok := q.Dequeue()
	assert.True(t, ok)
	assert.Equal(t, Medium, second.Priority)

	third, ok := q.Dequeue()
	assert.True(t, ok)
	assert.Equal(t, Low, third.Priority)
}

func TestQueueFullDropsRequest(t *testing.T) {
	q := New(2)

	_, ok1 := makeRequest(q, Low)
	_, ok2 := makeRequest(q, Low)
	_, ok3 := makeRequest(q, Critical)

	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.False(t, ok3)

	assert.Equal(t, uint64(1), q.Stats().TotalDropped)
}

func TestExpiredRequestsSkipped(t *testing.T) {
	q := New(100)

	q.Enqueue(Critical, "system", "user", "", 100, 0.7, 0)

	time.Sleep(time.Millisecond)
	_, ok := q.Dequeue()
	assert.False(t, ok)

	assert.Equal(t, uint64(1), q.Stats().TotalExpired)
}

func TestStatsTracking(t *testing.T) {
	q := New(100)

	makeRequest(q, Low)
	makeRequest(q, High)

	stats := q.Stats()
	assert.Equal(t, 2, stats.Depth)
	assert.Equal(t, uint64(2), stats.TotalEnqueued)

	q.Dequeue()
	assert.Equal(t, 1, q.Stats().Depth)
}

func TestFIFOWithinSamePriority(t *testing.T) {
	q := New(100)

	id1, _ := makeRequest(q, Medium)
	id2, _ := makeRequest(q, Medium)

	first, _ := q.Dequeue()
	assert.Equal(t, id1, first.ID, "FIFO: older request should come first")

	second, _ := q.Dequeue()
	assert.Equal(t, id2, second.ID)
}

func TestPurgeExpired(t *testing.T) {
	q := New(100)

	q.Enqueue(Low, "system", "user", "", 100, 0.7, 0)
	makeRequest(q, High)

	time.Sleep(time.Millisecond)
	purged := q.PurgeExpired()

	assert.Equal(t, uint64(1), purged)
	assert.Equal(t, 1, q.Len())
}
