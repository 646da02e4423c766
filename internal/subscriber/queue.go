package subscriber

// queue is a FIFO of chat IDs awaiting an asynchronous reply.
//
// It is a ring buffer with O(1) amortised enqueue and O(1) dequeue; the
// head index advances on dequeue and the slice is compacted once the dead
// prefix dominates. Not safe for concurrent use on its own; the Registry
// holds the lock.
type queue struct {
	items []ID
	head  int
}

// push appends an id. The same id may be queued multiple times; each entry
// is served independently.
func (q *queue) push(id ID) {
	q.items = append(q.items, id)
}

// pop removes and returns the oldest id. The second return value is false
// when the queue is empty.
func (q *queue) pop() (ID, bool) {
	if q.head >= len(q.items) {
		return 0, false
	}
	id := q.items[q.head]
	q.head++

	// Compact once more than half the backing slice is consumed.
	if q.head > len(q.items)/2 && q.head > 16 {
		q.items = append(q.items[:0], q.items[q.head:]...)
		q.head = 0
	}
	return id, true
}

// len returns the number of pending entries.
func (q *queue) len() int {
	return len(q.items) - q.head
}
