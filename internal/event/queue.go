package event

// Queue buffers the events of one tick. It has a single owner and is not safe
// for concurrent use.
type Queue struct {
	events []Event
}

func NewQueue() *Queue {
	return &Queue{events: make([]Event, 0, 64)}
}

func (q *Queue) Publish(e Event) { q.events = append(q.events, e) }

func (q *Queue) Len() int { return len(q.events) }

// Drain returns the buffered events in publish order and empties the queue.
// The returned slice is owned by the caller.
func (q *Queue) Drain() []Event {
	if len(q.events) == 0 {
		return nil
	}
	out := make([]Event, len(q.events))
	copy(out, q.events)
	clear(q.events)
	q.events = q.events[:0]
	return out
}

func (q *Queue) Reset() {
	clear(q.events)
	q.events = q.events[:0]
}

// Count returns how many events of type t are in evs.
func Count(evs []Event, t Type) int {
	n := 0
	for _, e := range evs {
		if e.Type() == t {
			n++
		}
	}
	return n
}
