// Package client runs simulated library visitors.
package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/jonboulle/clockwork"

	"gitlab.com/slon/library/library"
)

//go:generate mockgen -destination mock_coordinator_test.go -package client . Coordinator

// Coordinator is the part of library.Library a task needs.
type Coordinator interface {
	RequestRead(ctx context.Context, id string) error
	ReleaseRead(id string)
	RequestWrite(ctx context.Context, id string) error
	ReleaseWrite(id string)
}

// Task is a single reader or writer that keeps visiting the library.
type Task struct {
	ID          string
	Role        library.Role
	Coordinator Coordinator
	Clock       clockwork.Clock
	Logger      *slog.Logger

	// MinHold and MaxHold bound the time spent inside.
	MinHold time.Duration
	MaxHold time.Duration
	// Rest is the pause between leaving and queueing again.
	Rest time.Duration

	Rand *rand.Rand
}

// Run visits the library until ctx is done. A cancelled visit is not an
// error: Run returns nil once it notices the cancellation.
func (t *Task) Run(ctx context.Context) error {
	logger := t.logger()
	logger.Debug("task started")
	defer logger.Debug("task stopped")

	for {
		if err := t.request(ctx); err != nil {
			if errors.Is(err, library.ErrCancelled) {
				return nil
			}
			return fmt.Errorf("%s: %w", t.ID, err)
		}

		hold := t.holdDuration()
		logger.Debug("inside", "hold", hold)
		interrupted := !t.sleep(ctx, hold)
		// выходим из библиотеки даже если нас прервали
		t.release()
		if interrupted {
			return nil
		}

		if t.Rest > 0 && !t.sleep(ctx, t.Rest) {
			return nil
		}
	}
}

func (t *Task) request(ctx context.Context) error {
	if t.Role == library.Writer {
		return t.Coordinator.RequestWrite(ctx, t.ID)
	}
	return t.Coordinator.RequestRead(ctx, t.ID)
}

func (t *Task) release() {
	if t.Role == library.Writer {
		t.Coordinator.ReleaseWrite(t.ID)
		return
	}
	t.Coordinator.ReleaseRead(t.ID)
}

// holdDuration picks a duration uniformly from [MinHold, MaxHold].
func (t *Task) holdDuration() time.Duration {
	spread := int64(t.MaxHold - t.MinHold)
	if spread <= 0 || t.Rand == nil {
		return t.MinHold
	}
	return t.MinHold + time.Duration(t.Rand.Int64N(spread+1))
}

// sleep reports whether d elapsed before ctx was done.
func (t *Task) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-t.clock().After(d):
		return true
	case <-ctx.Done():
		return false
	}
}

func (t *Task) clock() clockwork.Clock {
	if t.Clock == nil {
		return clockwork.NewRealClock()
	}
	return t.Clock
}

func (t *Task) logger() *slog.Logger {
	l := t.Logger
	if l == nil {
		l = slog.Default()
	}
	return l.With("client", t.ID, "role", t.Role.String())
}
