package engine

import "container/heap"

// delayedEvent is a (fireAt, Event) entry on the engine's delayed-event
// queue. seq breaks ties so same-time events fire in push order.
type delayedEvent struct {
	fireAt float64 // engine time (ms) at which the event becomes due
	seq    uint64
	ev     Event
}

// delayedQueue is a small priority queue of pending timed events, drained on
// each Advance. It replaces wall-clock callbacks so deferred transitions
// (game-over announcement, combo milestones) stay deterministic under
// externally supplied dt.
type delayedQueue struct {
	entries delayedHeap
	nextSeq uint64
}

// push schedules ev to fire once engine time reaches fireAt.
func (q *delayedQueue) push(fireAt float64, ev Event) {
	q.nextSeq++
	heap.Push(&q.entries, delayedEvent{fireAt: fireAt, seq: q.nextSeq, ev: ev})
}

// popDue removes and returns the next due event, or nil if nothing is due.
func (q *delayedQueue) popDue(now float64) Event {
	if len(q.entries) == 0 || q.entries[0].fireAt > now {
		return nil
	}
	return heap.Pop(&q.entries).(delayedEvent).ev
}

// len reports the number of pending entries.
func (q *delayedQueue) len() int {
	return len(q.entries)
}

// clear drops all pending entries.
func (q *delayedQueue) clear() {
	q.entries = q.entries[:0]
	q.nextSeq = 0
}

// delayedHeap implements heap.Interface ordered by fireAt, then push order.
type delayedHeap []delayedEvent

func (h delayedHeap) Len() int { return len(h) }

func (h delayedHeap) Less(i, j int) bool {
	if h[i].fireAt != h[j].fireAt {
		return h[i].fireAt < h[j].fireAt
	}
	return h[i].seq < h[j].seq
}

func (h delayedHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *delayedHeap) Push(x any) {
	*h = append(*h, x.(delayedEvent))
}

func (h *delayedHeap) Pop() any {
	old := *h
	n := len(old)
	entry := old[n-1]
	*h = old[:n-1]
	return entry
}
