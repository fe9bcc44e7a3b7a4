// Package timeboard builds custom business calendars and answers calendar
// arithmetic over them.
//
// A Timeboard divides a time range into base units, groups them into
// workshifts labelled by a recursive layout of organizers and patterns, and
// evaluates duty through named schedules. Queries find the workshift of an
// instant, step forward or back over on-duty or off-duty workshifts, and
// count workshifts and periods within intervals.
//
// A Timeboard is immutable once built, apart from its schedule registry,
// and is safe for concurrent queries.
package timeboard

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/timeboard/internal/frame"
	"github.com/mesh-intelligence/timeboard/internal/timeline"
	"github.com/mesh-intelligence/timeboard/pkg/calendar"
	"github.com/mesh-intelligence/timeboard/pkg/types"
)

// Version is the library version.
const Version = "0.3.0"

// Timeboard is a built calendar.
type Timeboard struct {
	id       string
	cfg      types.Config
	freq     calendar.Freq
	tl       *timeline.Timeline
	logger   *slog.Logger
	schedule *Schedule

	mu        sync.RWMutex
	schedules map[string]*Schedule
}

// New builds a timeboard from cfg. Construction either succeeds completely
// or fails with a configuration or boundary error and leaves every
// remembering pattern of the layout as it was.
func New(cfg types.Config) (*Timeboard, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.WithDefaults()
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	freq, err := calendar.ParseFreq(cfg.BaseUnitFreq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrInvalidBaseUnitFreq, err)
	}
	f, err := frame.New(freq, cfg.Start, cfg.End)
	if err != nil {
		return nil, err
	}
	patterns := cfg.Layout.RememberingPatterns()
	cursors := make([]int, len(patterns))
	for i, p := range patterns {
		cursors[i] = p.Cursor()
	}
	tl, err := timeline.Build(f, cfg.Layout, cfg.DefaultLabel, cfg.WorkshiftRef)
	if err != nil {
		return nil, fmt.Errorf("organize timeline: %w", err)
	}
	if err := tl.Amend(cfg.Amendments, cfg.StrictAmendments); err != nil {
		for i, p := range patterns {
			p.Restore(cursors[i])
		}
		return nil, fmt.Errorf("amend timeline: %w", err)
	}

	tb := &Timeboard{
		id:        generateID(),
		cfg:       cfg,
		freq:      freq,
		tl:        tl,
		logger:    logger,
		schedules: map[string]*Schedule{},
	}
	tb.schedule = newSchedule(tb, cfg.DefaultName, cfg.DefaultSelector)
	tb.schedules[cfg.DefaultName] = tb.schedule

	logger.Debug("timeboard built",
		"id", tb.id,
		"base_unit", freq.String(),
		"start", f.Start(),
		"end", f.End(),
		"base_units", f.Len(),
		"workshifts", tl.Len(),
		"default_schedule", cfg.DefaultName,
	)
	return tb, nil
}

// generateID returns a UUID v7, falling back to v4.
func generateID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// ID returns the identifier assigned to the timeboard when it was built.
func (tb *Timeboard) ID() string { return tb.id }

// BaseUnitFreq returns the base unit frequency.
func (tb *Timeboard) BaseUnitFreq() calendar.Freq { return tb.freq }

// Start returns the first instant of the timeboard.
func (tb *Timeboard) Start() time.Time { return tb.tl.Frame().Start() }

// End returns the last instant of the timeboard.
func (tb *Timeboard) End() time.Time { return tb.tl.Frame().End() }

// Len returns the number of workshifts.
func (tb *Timeboard) Len() int { return tb.tl.Len() }

// BaseUnits returns the number of base units.
func (tb *Timeboard) BaseUnits() int { return tb.tl.Frame().Len() }

// WorkshiftRef returns the instant workshifts are located by.
func (tb *Timeboard) WorkshiftRef() types.Ref { return tb.tl.Ref() }

// WorktimeSource returns where worktime is taken from.
func (tb *Timeboard) WorktimeSource() types.WorktimeSource { return tb.cfg.WorktimeSource }

// Labels returns the labels of all workshifts in order.
func (tb *Timeboard) Labels() []types.Label { return tb.tl.Labels() }

// String returns a compact description such as
// "Timeboard of 'D': 2017-10-01 -> 2017-10-10".
func (tb *Timeboard) String() string {
	f := tb.tl.Frame()
	return fmt.Sprintf("Timeboard of '%s': %s -> %s",
		tb.freq, f.Unit(0), f.Unit(f.Len()-1))
}

// Workshift returns the workshift containing t under the default schedule.
func (tb *Timeboard) Workshift(t time.Time) (Workshift, error) {
	pos, err := tb.tl.Position(t)
	if err != nil {
		return Workshift{}, err
	}
	return Workshift{tb: tb, loc: pos, schedule: tb.schedule}, nil
}

// WorkshiftAt returns the workshift at position loc. Negative positions
// count from the end.
func (tb *Timeboard) WorkshiftAt(loc int) (Workshift, error) {
	if loc < 0 {
		loc += tb.tl.Len()
	}
	if loc < 0 || loc >= tb.tl.Len() {
		return Workshift{}, fmt.Errorf("%w: workshift %d of %d", types.ErrOutOfBounds, loc, tb.tl.Len())
	}
	return Workshift{tb: tb, loc: loc, schedule: tb.schedule}, nil
}
