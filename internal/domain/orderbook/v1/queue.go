package orderbookv1

// OrderQueue is a strict FIFO sequence of order ids, establishing arrival
// time priority among orders resting at one price. It is a value type:
// mutating operations return a new queue and never touch the receiver, so a
// queue stored in an old book value stays valid. Elements are only ever
// appended, removed from the front, or deleted in place - never reordered.
type OrderQueue struct {
	ids []int64
}

// NewOrderQueue creates a queue holding the given ids in order.
func NewOrderQueue(ids ...int64) OrderQueue {
	q := OrderQueue{ids: make([]int64, len(ids))}
	copy(q.ids, ids)
	return q
}

// Push appends an id at the back of the queue.
func (q OrderQueue) Push(id int64) OrderQueue {
	ids := make([]int64, len(q.ids)+1)
	copy(ids, q.ids)
	ids[len(q.ids)] = id
	return OrderQueue{ids: ids}
}

// Pop removes and returns the head id. The third return is false when the
// queue is empty.
func (q OrderQueue) Pop() (int64, OrderQueue, bool) {
	if len(q.ids) == 0 {
		return 0, q, false
	}
	return q.ids[0], OrderQueue{ids: q.ids[1:]}, true
}

// Advance removes the head id without returning it, used when the caller
// already holds the id of the retired order. No-op when empty.
func (q OrderQueue) Advance() OrderQueue {
	if len(q.ids) == 0 {
		return q
	}
	return OrderQueue{ids: q.ids[1:]}
}

// Peek returns the head id without removing it.
func (q OrderQueue) Peek() (int64, bool) {
	if len(q.ids) == 0 {
		return 0, false
	}
	return q.ids[0], true
}

// Delete removes the first occurrence of id anywhere in the queue,
// preserving the order of the remaining ids. No-op when absent.
func (q OrderQueue) Delete(id int64) OrderQueue {
	for i, got := range q.ids {
		if got != id {
			continue
		}
		ids := make([]int64, 0, len(q.ids)-1)
		ids = append(ids, q.ids[:i]...)
		ids = append(ids, q.ids[i+1:]...)
		return OrderQueue{ids: ids}
	}
	return q
}

// IsEmpty reports whether the queue holds no ids.
func (q OrderQueue) IsEmpty() bool {
	return len(q.ids) == 0
}

// Len returns the number of queued ids.
func (q OrderQueue) Len() int {
	return len(q.ids)
}

// IDs returns a copy of the queued ids in FIFO order.
func (q OrderQueue) IDs() []int64 {
	ids := make([]int64, len(q.ids))
	copy(ids, q.ids)
	return ids
}
