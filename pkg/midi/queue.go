package midi

import "sync"

// Queue buffers decoded events between the host's event-delivery calls and
// the engine's block render. Events come back out in arrival order.
type Queue struct {
	mu     sync.Mutex
	events []Event
}

func NewQueue() *Queue {
	return &Queue{events: make([]Event, 0, 128)}
}

func (q *Queue) Add(event Event) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.events = append(q.events, event)
}

// Drain hands every queued event to fn and empties the queue.
func (q *Queue) Drain(fn func(Event)) {
	q.mu.Lock()
	pending := q.events
	q.events = make([]Event, 0, cap(pending))
	q.mu.Unlock()

	for _, e := range pending {
		fn(e)
	}
}

func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.events = q.events[:0]
}

func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
