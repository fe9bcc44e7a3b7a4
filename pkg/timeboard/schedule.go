package timeboard

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mesh-intelligence/timeboard/pkg/types"
)

// Schedule is a named duty rule over the labels of a timeboard.
type Schedule struct {
	name     string
	selector types.Selector
	tb       *Timeboard

	once sync.Once
	on   []int
	off  []int
}

func newSchedule(tb *Timeboard, name string, sel types.Selector) *Schedule {
	return &Schedule{name: name, selector: sel, tb: tb}
}

// Name returns the schedule name.
func (s *Schedule) Name() string { return s.name }

// IsOnDuty reports whether workshift loc is on duty under s.
func (s *Schedule) IsOnDuty(loc int) bool {
	return s.selector(s.tb.tl.Label(loc))
}

// index returns the ascending positions of the workshifts with duty d.
// The lists are computed on first use; labels never change afterwards.
func (s *Schedule) index(d types.Duty) []int {
	s.once.Do(func() {
		for i := 0; i < s.tb.tl.Len(); i++ {
			if s.IsOnDuty(i) {
				s.on = append(s.on, i)
			} else {
				s.off = append(s.off, i)
			}
		}
	})
	switch d {
	case types.DutyOn:
		return s.on
	case types.DutyOff:
		return s.off
	}
	return nil
}

// Count returns the number of workshifts with duty d in the timeboard.
func (s *Schedule) Count(d types.Duty) int {
	if d == types.DutyAny {
		return s.tb.tl.Len()
	}
	return len(s.index(d))
}

// dutyRange returns the positions, as indexes into the duty list, of the
// first and last workshifts with duty d within first..last. ok is false
// when there are none.
func (s *Schedule) dutyRange(d types.Duty, first, last int) (lo, hi int, ok bool) {
	if d == types.DutyAny {
		return first, last, first <= last
	}
	idx := s.index(d)
	lo = sort.SearchInts(idx, first)
	hi = sort.SearchInts(idx, last+1) - 1
	return lo, hi, lo <= hi
}

// searchDuty returns the index of the first entry of the duty list of d
// that is not less than loc.
func (s *Schedule) searchDuty(d types.Duty, loc int) int {
	if d == types.DutyAny {
		return min(max(loc, 0), s.tb.tl.Len())
	}
	return sort.SearchInts(s.index(d), loc)
}

// dutyAt returns the k-th workshift position of the duty list of d.
func (s *Schedule) dutyAt(d types.Duty, k int) int {
	if d == types.DutyAny {
		return k
	}
	return s.index(d)[k]
}

// dutyLen returns the length of the duty list of d.
func (s *Schedule) dutyLen(d types.Duty) int {
	return s.Count(d)
}

// DefaultSchedule returns the schedule created with the timeboard.
func (tb *Timeboard) DefaultSchedule() *Schedule { return tb.schedule }

// Schedule returns the schedule registered under name.
func (tb *Timeboard) Schedule(name string) (*Schedule, error) {
	tb.mu.RLock()
	defer tb.mu.RUnlock()
	s, ok := tb.schedules[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrScheduleNotFound, name)
	}
	return s, nil
}

// AddSchedule registers a schedule under name. A nil selector uses the
// default selector of the timeboard.
func (tb *Timeboard) AddSchedule(name string, sel types.Selector) (*Schedule, error) {
	if sel == nil {
		sel = tb.cfg.DefaultSelector
	}
	tb.mu.Lock()
	defer tb.mu.Unlock()
	if _, ok := tb.schedules[name]; ok {
		return nil, fmt.Errorf("%w: %q", types.ErrScheduleExists, name)
	}
	s := newSchedule(tb, name, sel)
	tb.schedules[name] = s
	tb.logger.Debug("schedule added", "id", tb.id, "schedule", name)
	return s, nil
}

// DropSchedule removes the schedule registered under name. The default
// schedule cannot be dropped.
func (tb *Timeboard) DropSchedule(name string) error {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	if name == tb.schedule.name {
		return fmt.Errorf("%w: %q", types.ErrDefaultSchedule, name)
	}
	if _, ok := tb.schedules[name]; !ok {
		return fmt.Errorf("%w: %q", types.ErrScheduleNotFound, name)
	}
	delete(tb.schedules, name)
	tb.logger.Debug("schedule dropped", "id", tb.id, "schedule", name)
	return nil
}

// Schedules returns the names of all registered schedules, sorted.
func (tb *Timeboard) Schedules() []string {
	tb.mu.RLock()
	defer tb.mu.RUnlock()
	names := make([]string, 0, len(tb.schedules))
	for n := range tb.schedules {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
