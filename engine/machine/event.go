package machine

// DefaultEventQueueCapacity is the number of machine events a layer keeps before dropping new ones.
const DefaultEventQueueCapacity = 2048

// EventKind identifies a layer event.
type EventKind uint8

const (
	// EventStateEnter is pushed when a transition into State starts.
	EventStateEnter EventKind = iota
	// EventStateLeave is pushed when a transition out of State starts.
	EventStateLeave
	// EventActiveStateChanged is pushed when the active state switches from Prev to State.
	EventActiveStateChanged
	// EventActiveTransitionChanged is pushed when a transition starts or, with a none handle,
	// finishes.
	EventActiveTransitionChanged
)

func (k EventKind) String() string {
	switch k {
	case EventStateEnter:
		return "state_enter"
	case EventStateLeave:
		return "state_leave"
	case EventActiveStateChanged:
		return "active_state_changed"
	case EventActiveTransitionChanged:
		return "active_transition_changed"
	}
	return "unknown"
}

// Event is a state machine notification.
type Event struct {
	Kind       EventKind
	State      StateHandle
	Prev       StateHandle
	Transition TransitionHandle
}

// EventQueue is a bounded FIFO of machine events. Pushes beyond capacity are dropped.
type EventQueue struct {
	events   []Event
	capacity int
}

// NewEventQueue creates a queue holding at most capacity events. Values < 0 are treated as 0.
func NewEventQueue(capacity int) *EventQueue {
	return &EventQueue{capacity: max(capacity, 0)}
}

// Push appends e, reporting false if the queue is full.
func (q *EventQueue) Push(e Event) bool {
	if len(q.events) >= q.capacity {
		return false
	}
	q.events = append(q.events, e)
	return true
}

// Pop removes and returns the oldest event.
func (q *EventQueue) Pop() (Event, bool) {
	if len(q.events) == 0 {
		return Event{}, false
	}
	e := q.events[0]
	q.events[0] = Event{}
	q.events = q.events[1:]
	if len(q.events) == 0 {
		q.events = nil
	}
	return e, true
}

func (q *EventQueue) Len() int {
	return len(q.events)
}

func (q *EventQueue) Capacity() int {
	return q.capacity
}

func (q *EventQueue) Clear() {
	q.events = nil
}
