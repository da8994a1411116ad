package library

import "time"

type EventKind string

const (
	EventEnqueue EventKind = "enqueue"
	EventAdmit   EventKind = "admit"
	EventRelease EventKind = "release"
	EventCancel  EventKind = "cancel"
)

// Snapshot is a copy of the library state taken right after a transition.
type Snapshot struct {
	// Admitted lists clients inside the library in admission order.
	Admitted      []string `json:"admitted"`
	ReadersActive int      `json:"readers_active"`
	WritersActive int      `json:"writers_active"`
	// Queue lists waiting clients in arrival order.
	Queue         []string `json:"queue"`
	QueuedReaders int      `json:"queued_readers"`
	QueuedWriters int      `json:"queued_writers"`
}

// Event describes a single state transition.
type Event struct {
	Seq         uint64
	Time        time.Time
	Kind        EventKind
	Client      string
	Role        Role
	Description string
	Snapshot    Snapshot
}

// Observer receives events in the order the transitions happened.
//
// Observe is called with the library lock held: it must not block for long
// and must not call back into the Library.
type Observer interface {
	Observe(e Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(e Event)

func (f ObserverFunc) Observe(e Event) {
	f(e)
}

type nopObserver struct{}

func (nopObserver) Observe(Event) {}

type multiObserver []Observer

func (m multiObserver) Observe(e Event) {
	for _, o := range m {
		o.Observe(e)
	}
}

// Observers returns an Observer that forwards every event to each of
// observers in turn. Nil observers are skipped.
func Observers(observers ...Observer) Observer {
	var m multiObserver
	for _, o := range observers {
		if o != nil {
			m = append(m, o)
		}
	}
	switch len(m) {
	case 0:
		return nopObserver{}
	case 1:
		return m[0]
	default:
		return m
	}
}
