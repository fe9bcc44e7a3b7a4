package timeboard

import (
	"fmt"
	"time"

	"github.com/mesh-intelligence/timeboard/pkg/calendar"
	"github.com/mesh-intelligence/timeboard/pkg/types"
)

// Workshift is a handle to one workshift of a timeboard, bound to the
// schedule its duty is evaluated with. It is a value; copies are cheap.
type Workshift struct {
	tb       *Timeboard
	loc      int
	schedule *Schedule
}

var _ calendar.Timestamper = Workshift{}

// Loc returns the zero-based position of the workshift on the timeline.
func (w Workshift) Loc() int { return w.loc }

// Start returns the start of the first base unit of the workshift.
func (w Workshift) Start() time.Time { return w.tb.tl.Start(w.loc) }

// End returns the last instant of the last base unit of the workshift.
func (w Workshift) End() time.Time { return w.tb.tl.End(w.loc) }

// Duration returns the number of base units in the workshift.
func (w Workshift) Duration() int { return w.tb.tl.Duration(w.loc) }

// Label returns the workshift label.
func (w Workshift) Label() types.Label { return w.tb.tl.Label(w.loc) }

// Schedule returns the schedule the workshift is bound to.
func (w Workshift) Schedule() *Schedule { return w.schedule }

// RefTime returns the instant the workshift is located by: its start or
// its end, depending on the workshift ref of the timeboard.
func (w Workshift) RefTime() time.Time { return w.tb.tl.RefTime(w.loc) }

// ToTimestamp returns RefTime.
func (w Workshift) ToTimestamp() time.Time { return w.RefTime() }

// IsOnDuty reports whether the workshift is on duty under its schedule.
func (w Workshift) IsOnDuty() bool { return w.schedule.IsOnDuty(w.loc) }

// IsOffDuty reports whether the workshift is off duty under its schedule.
func (w Workshift) IsOffDuty() bool { return !w.IsOnDuty() }

// WithSchedule returns the same workshift bound to s.
func (w Workshift) WithSchedule(s *Schedule) Workshift {
	w.schedule = s
	return w
}

// Rollforward finds the workshift steps hops into the future, stepping
// only on workshifts with duty d.
//
// The zero step is the workshift itself when it has duty d, otherwise the
// nearest later workshift with duty d. It is sought toward the future even
// when steps is negative; negative steps then move into the past from it.
func (w Workshift) Rollforward(steps int, d types.Duty) (Workshift, error) {
	s := w.schedule
	n := s.dutyLen(d)
	i := s.searchDuty(d, w.loc)
	if i == n || i+steps < 0 || i+steps >= n {
		return Workshift{}, fmt.Errorf("%w: rollforward of %s with steps=%d, duty=%s, schedule=%s",
			types.ErrOutOfBounds, w.compact(), steps, d, s.name)
	}
	return Workshift{tb: w.tb, loc: s.dutyAt(d, i+steps), schedule: s}, nil
}

// Rollback finds the workshift steps hops into the past, stepping only on
// workshifts with duty d.
//
// The zero step is the workshift itself when it has duty d, otherwise the
// nearest earlier workshift with duty d. It is sought toward the past even
// when steps is negative; negative steps then move into the future from it.
func (w Workshift) Rollback(steps int, d types.Duty) (Workshift, error) {
	s := w.schedule
	n := s.dutyLen(d)
	i := s.searchDuty(d, w.loc+1) - 1
	if i < 0 || i-steps < 0 || i-steps >= n {
		return Workshift{}, fmt.Errorf("%w: rollback of %s with steps=%d, duty=%s, schedule=%s",
			types.ErrOutOfBounds, w.compact(), steps, d, s.name)
	}
	return Workshift{tb: w.tb, loc: s.dutyAt(d, i-steps), schedule: s}, nil
}

// Add is Rollforward(n, DutyOn).
func (w Workshift) Add(n int) (Workshift, error) { return w.Rollforward(n, types.DutyOn) }

// Sub is Rollback(n, DutyOn).
func (w Workshift) Sub(n int) (Workshift, error) { return w.Rollback(n, types.DutyOn) }

// Worktime returns the work time of the workshift when its duty under the
// bound schedule is d, and zero otherwise. Work time is the duration in
// base units, or the label when the timeboard takes worktime from labels.
func (w Workshift) Worktime(d types.Duty) (float64, error) {
	switch d {
	case types.DutyOn:
		if !w.IsOnDuty() {
			return 0, nil
		}
	case types.DutyOff:
		if !w.IsOffDuty() {
			return 0, nil
		}
	case types.DutyAny:
	default:
		return 0, fmt.Errorf("%w: %d", types.ErrInvalidDuty, d)
	}
	return w.tb.worktimeOf(w.loc)
}

func (tb *Timeboard) worktimeOf(loc int) (float64, error) {
	if tb.cfg.WorktimeSource != types.WorktimeLabels {
		return float64(tb.tl.Duration(loc)), nil
	}
	v, ok := types.AsNumber(tb.tl.Label(loc))
	if !ok {
		return 0, fmt.Errorf("%w: workshift %d has label %v", types.ErrNotNumeric, loc, tb.tl.Label(loc))
	}
	return v, nil
}

// compact renders the workshift as "3x'D' at 2017-10-02"; the multiplier
// is omitted for single-unit workshifts.
func (w Workshift) compact() string {
	dur := ""
	if d := w.Duration(); d != 1 {
		dur = fmt.Sprintf("%dx", d)
	}
	return fmt.Sprintf("%s'%s' at %s", dur, w.tb.freq, calendar.PeriodOf(w.Start(), w.tb.freq))
}

// String returns "Workshift(5) of 'D' at 2017-10-05". The schedule name is
// shown when it is not the default one.
func (w Workshift) String() string {
	sched := ""
	if w.schedule != w.tb.schedule {
		sched = ", " + w.schedule.name
	}
	return fmt.Sprintf("Workshift(%d%s) of %s", w.loc, sched, w.compact())
}
