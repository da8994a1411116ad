// Package report records library events and saves them as an xlsx timeline.
package report

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"gitlab.com/slon/library/library"
)

const SheetName = "Events"

var header = []interface{}{
	"Seq", "Time", "Event", "Client", "Role", "Description",
	"Readers", "Writers", "Library", "Queue",
}

// Recorder keeps every observed event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []library.Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Observe(e library.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []library.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]library.Event(nil), r.events...)
}

// Save writes the recorded events to an xlsx workbook at path.
func (r *Recorder) Save(path string) (err error) {
	events := r.Events()

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("report: write header: %w", err)
	}

	for i, e := range events {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("report: %w", err)
		}
		s := e.Snapshot
		row := []interface{}{
			e.Seq,
			e.Time.Format(time.RFC3339Nano),
			string(e.Kind),
			e.Client,
			e.Role.String(),
			e.Description,
			s.ReadersActive,
			s.WritersActive,
			strings.Join(s.Admitted, ", "),
			strings.Join(s.Queue, ", "),
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("report: write row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("report: save %s: %w", path, err)
	}
	return nil
}
