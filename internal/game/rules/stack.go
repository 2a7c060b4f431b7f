package rules

// Queue is a FIFO of items grouped into batches. Items appended while a
// batch is being processed join the tail of that batch, so a batch is
// drained breadth-first, including every follow-up it produces, before the
// next batch starts.
type Queue[T any] struct {
	batches [][]T
}

// NewQueue creates an empty queue.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{batches: make([][]T, 0, 4)}
}

// RestoreQueue rebuilds a queue from persisted batches.
func RestoreQueue[T any](batches [][]T) *Queue[T] {
	q := NewQueue[T]()
	for _, b := range batches {
		if len(b) > 0 {
			q.batches = append(q.batches, append([]T(nil), b...))
		}
	}
	return q
}

// PushBatch adds a new batch behind every batch already queued.
func (q *Queue[T]) PushBatch(items ...T) {
	if len(items) == 0 {
		return
	}
	q.batches = append(q.batches, append([]T(nil), items...))
}

// Append adds follow-up items to the tail of the batch currently at the
// front. With nothing queued it starts a new batch.
func (q *Queue[T]) Append(items ...T) {
	if len(items) == 0 {
		return
	}
	if len(q.batches) == 0 {
		q.batches = append(q.batches, nil)
	}
	q.batches[0] = append(q.batches[0], items...)
}

// Pop removes and returns the next item.
func (q *Queue[T]) Pop() (T, bool) {
	for len(q.batches) > 0 && len(q.batches[0]) == 0 {
		q.batches = q.batches[1:]
	}
	var zero T
	if len(q.batches) == 0 {
		return zero, false
	}
	item := q.batches[0][0]
	q.batches[0][0] = zero
	q.batches[0] = q.batches[0][1:]
	return item, true
}

// Len returns the number of queued items across all batches.
func (q *Queue[T]) Len() int {
	n := 0
	for _, b := range q.batches {
		n += len(b)
	}
	return n
}

// IsEmpty reports whether no items are queued.
func (q *Queue[T]) IsEmpty() bool {
	return q.Len() == 0
}

// Batches returns a copy of the queued batches, front first.
func (q *Queue[T]) Batches() [][]T {
	out := make([][]T, 0, len(q.batches))
	for _, b := range q.batches {
		if len(b) == 0 {
			continue
		}
		out = append(out, append([]T(nil), b...))
	}
	return out
}

// Clear drops every queued item.
func (q *Queue[T]) Clear() {
	q.batches = q.batches[:0]
}
