// Package asyncqueue is a bounded, thread-safe priority queue for work that
// must flow through the LLM client or other slow backends without
// overwhelming them: dialogue generation gets served before background
// summarization, and nothing waits past its deadline.
// Grounded in original_source/memz-llm/src/queue.rs.
package asyncqueue

import (
	"container/heap"
	"sync"
	"time"
)

// Priority orders queued requests; higher values are dequeued first.
type Priority int

const (
	Background Priority = iota
	Low
	Medium
	High
	Urgent
	Critical
)

// Request is a single unit of queued work — an LLM call, or anything else
// with a priority and a deadline.
type Request struct {
	ID          uint64
	Priority    Priority
	SystemPrompt string
	UserPrompt  string
	Grammar     string
	MaxTokens   uint32
	Temperature float32
	EnqueuedAt  time.Time
	Deadline    time.Duration
}

// IsExpired reports whether this request has sat in the queue past its
// deadline.
func (r *Request) IsExpired() bool {
	return time.Since(r.EnqueuedAt) > r.Deadline
}

// TimeRemaining is how long is left before this request expires.
func (r *Request) TimeRemaining() time.Duration {
	remaining := r.Deadline - time.Since(r.EnqueuedAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// requestHeap is a max-heap on (priority desc, enqueued_at asc — FIFO
// within a priority tier).
type requestHeap []*Request

func (h requestHeap) Len() int { return len(h) }
func (h requestHeap) Less(i, j int) bool {
	if h[i].Priority != h[j].Priority {
		return h[i].Priority > h[j].Priority
	}
	return h[i].EnqueuedAt.Before(h[j].EnqueuedAt)
}
func (h requestHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *requestHeap) Push(x any)   { *h = append(*h, x.(*Request)) }
func (h *requestHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// Stats summarizes a queue's lifetime activity.
type Stats struct {
	Depth         int
	TotalEnqueued uint64
	TotalDropped  uint64
	TotalExpired  uint64
}

// Queue is a thread-safe, bounded priority queue of requests.
type Queue struct {
	mu            sync.Mutex
	heap          requestHeap
	nextID        uint64
	maxQueueSize  int
	totalEnqueued uint64
	totalDropped  uint64
	totalExpired  uint64
}

// New creates a queue bounded to maxQueueSize entries.
func New(maxQueueSize int) *Queue {
	return &Queue{maxQueueSize: maxQueueSize}
}

// Enqueue adds a request to the queue, returning its assigned ID, or false
// if the queue is full.
func (q *Queue) Enqueue(priority Priority, systemPrompt, userPrompt, grammar string, maxTokens uint32, temperature float32, deadline time.Duration) (uint64, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.heap) >= q.maxQueueSize {
		q.totalDropped++
		return 0, false
	}

	id := q.nextID
	q.nextID++
	q.totalEnqueued++

	heap.Push(&q.heap, &Request{
		ID:           id,
		Priority:     priority,
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
		Grammar:      grammar,
		MaxTokens:    maxTokens,
		Temperature:  temperature,
		EnqueuedAt:   time.Now(),
		Deadline:     deadline,
	})

	return id, true
}

// Dequeue pops the highest-priority non-expired request, skipping and
// counting any expired requests it encounters along the way.
func (q *Queue) Dequeue() (*Request, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.heap.Len() > 0 {
		req := heap.Pop(&q.heap).(*Request)
		if req.IsExpired() {
			q.totalExpired++
			continue
		}
		return req, true
	}
	return nil, false
}

// PeekPriority returns the priority of the next request without removing
// it.
func (q *Queue) PeekPriority() (Priority, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.heap.Len() == 0 {
		return 0, false
	}
	return q.heap[0].Priority, true
}

// Len is the current queue depth.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.heap.Len()
}

// IsEmpty reports whether the queue currently holds no requests.
func (q *Queue) IsEmpty() bool {
	return q.Len() == 0
}

// Stats reports the queue's current depth and lifetime counters.
func (q *Queue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return Stats{
		Depth:         q.heap.Len(),
		TotalEnqueued: q.totalEnqueued,
		TotalDropped:  q.totalDropped,
		TotalExpired:  q.totalExpired,
	}
}

// PurgeExpired removes every expired request from the queue and reports
// how many were purged.
func (q *Queue) PurgeExpired() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()

	before := q.heap.Len()
	var valid []*Request
	for q.heap.Len() > 0 {
		req := heap.Pop(&q.heap).(*Request)
		if req.IsExpired() {
			q.totalExpired++
		} else {
			valid = append(valid, req)
		}
	}
	for _, r := range valid {
		heap.Push(&q.heap, r)
	}

	return uint64(before - q.heap.Len())
}
