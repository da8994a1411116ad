// Package library implements a first-come-first-served reader/writer
// coordinator.
//
// Up to MaxReaders readers may be inside at once, a writer is always alone.
// Clients are admitted strictly in the order they asked, regardless of role:
// a writer waiting at the head of the queue holds back every reader behind
// it, even when those readers could share the library with the ones already
// inside.
package library

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jonboulle/clockwork"

	"gitlab.com/slon/library/waitqueue"
)

// Role tells readers and writers apart.
type Role = waitqueue.Role

const (
	Reader = waitqueue.Reader
	Writer = waitqueue.Writer
)

// DefaultMaxReaders is the reader limit used unless WithMaxReaders is given.
const DefaultMaxReaders = 5

// ErrCancelled is returned by RequestRead and RequestWrite when the request
// was abandoned before admission. The returned error also wraps ctx.Err().
var ErrCancelled = errors.New("library: request cancelled")

// Library arbitrates access between readers and writers.
type Library struct {
	mu sync.Mutex
	// wake закрывается и заменяется новым каналом при каждом broadcast
	wake  chan struct{}
	queue *waitqueue.Queue
	state accessState

	observer Observer
	clock    clockwork.Clock
	seq      uint64
}

// Option configures a Library.
type Option func(*Library)

// WithMaxReaders sets the number of readers allowed inside at once.
func WithMaxReaders(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("library: max readers must be positive, got %d", n))
	}
	return func(l *Library) {
		l.state.maxReaders = n
	}
}

// WithObserver installs o as the receiver of state transition events.
func WithObserver(o Observer) Option {
	return func(l *Library) {
		if o == nil {
			o = nopObserver{}
		}
		l.observer = o
	}
}

// WithClock sets the clock used to timestamp events.
func WithClock(c clockwork.Clock) Option {
	return func(l *Library) {
		l.clock = c
	}
}

// New creates an empty Library.
func New(opts ...Option) *Library {
	l := &Library{
		wake:     make(chan struct{}),
		queue:    waitqueue.New(),
		state:    newAccessState(DefaultMaxReaders),
		observer: nopObserver{},
		clock:    clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// MaxReaders returns the number of readers allowed inside at once.
func (l *Library) MaxReaders() int {
	return l.state.maxReaders
}

// RequestRead blocks until id is admitted as a reader or ctx is done.
//
// The reader is admitted once it is the earliest waiting client, no writer
// is inside and fewer than MaxReaders readers are inside.
func (l *Library) RequestRead(ctx context.Context, id string) error {
	return l.request(ctx, id, Reader)
}

// ReleaseRead lets reader id out of the library.
// It panics if id is not inside as a reader.
func (l *Library) ReleaseRead(id string) {
	l.release(id, Reader)
}

// RequestWrite blocks until id is admitted as a writer or ctx is done.
//
// The writer is admitted once it is the earliest waiting client and the
// library is empty.
func (l *Library) RequestWrite(ctx context.Context, id string) error {
	return l.request(ctx, id, Writer)
}

// ReleaseWrite lets writer id out of the library.
// It panics if id is not inside as a writer.
func (l *Library) ReleaseWrite(id string) {
	l.release(id, Writer)
}

// Snapshot returns a copy of the current state.
func (l *Library) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot()
}

func (l *Library) request(ctx context.Context, id string, role Role) error {
	if id == "" {
		panic("library: empty client id")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state.isAdmitted(id) {
		panic(fmt.Sprintf("library: %q requested access while inside", id))
	}
	if l.queue.Contains(id) {
		panic(fmt.Sprintf("library: %q is already waiting", id))
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrCancelled, err)
	}

	if err := l.queue.Enqueue(id, role); err != nil {
		panic(err)
	}
	l.emit(EventEnqueue, id, role, id+" joins the queue")

	for !l.queue.IsHead(id) || !l.state.canAdmit(role) {
		wake := l.wake
		l.mu.Unlock()
		select {
		case <-wake:
			l.mu.Lock()
		case <-ctx.Done():
			l.mu.Lock()
			l.queue.Remove(id)
			l.emit(EventCancel, id, role, id+" leaves the queue")
			// голова очереди могла смениться
			l.broadcast()
			return fmt.Errorf("%w: %w", ErrCancelled, ctx.Err())
		}
	}

	l.queue.RemoveHead(id)
	l.state.admit(id, role)
	if role == Writer {
		l.emit(EventAdmit, id, role, id+" starts to write")
	} else {
		l.emit(EventAdmit, id, role, id+" enters")
	}
	// The next client is now at the head and may fit in as well.
	if l.queue.Len() > 0 {
		l.broadcast()
	}
	return nil
}

func (l *Library) release(id string, role Role) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.state.release(id, role)
	l.emit(EventRelease, id, role, id+" exits")
	l.broadcast()
}

// broadcast wakes every waiting request; each one re-checks its own
// admission condition. Must be called with l.mu held.
func (l *Library) broadcast() {
	close(l.wake)
	l.wake = make(chan struct{})
}

func (l *Library) emit(kind EventKind, id string, role Role, description string) {
	l.seq++
	l.observer.Observe(Event{
		Seq:         l.seq,
		Time:        l.clock.Now(),
		Kind:        kind,
		Client:      id,
		Role:        role,
		Description: description,
		Snapshot:    l.snapshot(),
	})
}

func (l *Library) snapshot() Snapshot {
	return Snapshot{
		Admitted:      append([]string{}, l.state.admitted...),
		ReadersActive: l.state.readers,
		WritersActive: l.state.writers,
		Queue:         l.queue.IDs(),
		QueuedReaders: l.queue.Count(Reader),
		QueuedWriters: l.queue.Count(Writer),
	}
}
