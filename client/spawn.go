package client

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/jonboulle/clockwork"

	"gitlab.com/slon/library/library"
)

// Options are shared by every task created with Tasks.
type Options struct {
	Clock   clockwork.Clock
	Logger  *slog.Logger
	MinHold time.Duration
	MaxHold time.Duration
	Rest    time.Duration
}

// Tasks creates readers Reader-1..Reader-n followed by writers
// Writer-1..Writer-m, each with its own random source.
func Tasks(coord Coordinator, opts Options, readers, writers int) []*Task {
	tasks := make([]*Task, 0, readers+writers)
	add := func(role library.Role, prefix string, n int) {
		for i := 1; i <= n; i++ {
			tasks = append(tasks, &Task{
				ID:          fmt.Sprintf("%s-%d", prefix, i),
				Role:        role,
				Coordinator: coord,
				Clock:       opts.Clock,
				Logger:      opts.Logger,
				MinHold:     opts.MinHold,
				MaxHold:     opts.MaxHold,
				Rest:        opts.Rest,
				Rand:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
			})
		}
	}
	add(library.Reader, "Reader", readers)
	add(library.Writer, "Writer", writers)
	return tasks
}
