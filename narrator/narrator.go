// Package narrator tells what happens in the library.
package narrator

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"gitlab.com/slon/library/library"
)

// Observer logs every library event as one structured record.
type Observer struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Observer {
	return &Observer{logger: logger}
}

func (o *Observer) Observe(e library.Event) {
	s := e.Snapshot
	o.logger.Info(e.Description,
		"seq", e.Seq,
		"event", string(e.Kind),
		"client", e.Client,
		"role", e.Role.String(),
		slog.Group("library",
			"count", len(s.Admitted),
			"clients", s.Admitted,
			"readers", s.ReadersActive,
			"writers", s.WritersActive,
		),
		slog.Group("queue",
			"count", len(s.Queue),
			"clients", s.Queue,
			"readers", s.QueuedReaders,
			"writers", s.QueuedWriters,
		),
	)
}

// Console prints events as human readable blocks.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Observe(e library.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// ошибки записи в консоль игнорируем, как fmt.Println
	_, _ = io.WriteString(c.w, Render(e))
}

// Render formats e the way the console shows it.
func Render(e library.Event) string {
	s := e.Snapshot
	var b strings.Builder
	fmt.Fprintf(&b, "\nEVENT: %s\n", e.Description)
	fmt.Fprintf(&b, "LIBRARY (%d): [%s]\n", s.ReadersActive+s.WritersActive, strings.Join(s.Admitted, ", "))
	fmt.Fprintf(&b, " [Library counter: readers: %d, writers: %d] \n", s.ReadersActive, s.WritersActive)
	fmt.Fprintf(&b, "QUEUE (%d): [%s]\n", len(s.Queue), strings.Join(s.Queue, ", "))
	fmt.Fprintf(&b, " [Queue counter: readers: %d, writers: %d] \n", s.QueuedReaders, s.QueuedWriters)
	b.WriteString("---------------------------------------------------\n")
	return b.String()
}
