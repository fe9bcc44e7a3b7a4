// Package marker computes the candidate marks of a marker: for every
// period of the marker frequency, one instant per At entry, computed by
// the marker method and kept only when it falls within its period.
package marker

import (
	"fmt"
	"sort"
	"time"

	"github.com/mesh-intelligence/timeboard/pkg/calendar"
	"github.com/mesh-intelligence/timeboard/pkg/types"
)

// Generate returns the marks of m within periods, sorted ascending.
func Generate(m types.Marker, periods []calendar.Period) ([]time.Time, error) {
	how, err := method(m)
	if err != nil {
		return nil, err
	}
	var out []time.Time
	for _, p := range periods {
		for _, at := range m.At {
			marks, err := how(p, at)
			if err != nil {
				return nil, err
			}
			for _, t := range marks {
				if p.Contains(t) {
					out = append(out, t)
				}
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}

func method(m types.Marker) (types.MarkFunc, error) {
	if m.Func != nil {
		return m.Func, nil
	}
	switch m.Method() {
	case types.FromStartOfEach:
		return FromStartOfEach, nil
	case types.FromEasterWestern:
		return FromEasterWestern, nil
	case types.FromEasterOrthodox:
		return FromEasterOrthodox, nil
	case types.NthWeekdayOfMonth:
		return NthWeekdayOfMonth, nil
	}
	return nil, fmt.Errorf("%w: unknown how %q", types.ErrInvalidMarker, m.How)
}

// FromStartOfEach returns the start of p moved by the offset in at.
// A negative offset yields no mark.
func FromStartOfEach(p calendar.Period, at types.At) ([]time.Time, error) {
	off, err := calendar.OffsetFromMap(at)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrInvalidMarker, err)
	}
	ref := time.Date(2004, time.January, 1, 0, 0, 0, 0, time.UTC)
	if calendar.AddOffset(ref, off).Before(ref) {
		return nil, nil
	}
	return []time.Time{calendar.AddOffset(p.Start(), off)}, nil
}

// FromEasterWestern returns western Easter Sunday within p moved by the
// offset in at. A shift entry is a day count that replaces days.
func FromEasterWestern(p calendar.Period, at types.At) ([]time.Time, error) {
	return fromEaster(p, at, calendar.WesternEaster)
}

// FromEasterOrthodox returns Orthodox Easter Sunday within p moved by the
// offset in at. A shift entry is a day count that replaces days.
func FromEasterOrthodox(p calendar.Period, at types.At) ([]time.Time, error) {
	return fromEaster(p, at, calendar.OrthodoxEaster)
}

func fromEaster(p calendar.Period, at types.At, easter func(int) time.Time) ([]time.Time, error) {
	components := make(map[string]int, len(at))
	for k, v := range at {
		if k != "shift" {
			components[k] = v
		}
	}
	if shift, ok := at["shift"]; ok {
		components["days"] = shift
	}
	off, err := calendar.OffsetFromMap(components)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrInvalidMarker, err)
	}
	var out []time.Time
	first, last := p.Start().Year(), p.End().Year()
	for y := first; y <= last; y++ {
		e := inLocation(easter(y), p.Start().Location())
		if !p.Contains(e) {
			continue
		}
		out = append(out, calendar.AddOffset(e, off))
	}
	return out, nil
}

// NthWeekdayOfMonth returns the week-th weekday of the month-th month of
// p, moved by shift days. Month 1 is the month p starts in; weekday 1 is
// Monday; a negative week counts from the end of the month. Nothing is
// returned when the month does not fit in p or has no such weekday.
func NthWeekdayOfMonth(p calendar.Period, at types.At) ([]time.Time, error) {
	month, week, weekday := at["month"], at["week"], at["weekday"]
	if month < 1 || month > 12 || week == 0 || week < -5 || week > 5 || weekday < 1 || weekday > 7 {
		return nil, fmt.Errorf("%w: %s with month=%d week=%d weekday=%d",
			types.ErrInvalidMarker, types.NthWeekdayOfMonth, month, week, weekday)
	}
	start := p.Start()
	first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location()).AddDate(0, month-1, 0)
	next := first.AddDate(0, 1, 0)
	if first.Before(start) || next.After(p.Stop()) {
		return nil, nil
	}
	want := weekday % 7
	var d time.Time
	if week > 0 {
		shift := (want - int(first.Weekday()) + 7) % 7
		d = first.AddDate(0, 0, shift+7*(week-1))
		if !d.Before(next) {
			return nil, nil
		}
	} else {
		lastDay := next.AddDate(0, 0, -1)
		shift := (int(lastDay.Weekday()) - want + 7) % 7
		d = lastDay.AddDate(0, 0, -shift-7*(-week-1))
		if d.Before(first) {
			return nil, nil
		}
	}
	return []time.Time{d.AddDate(0, 0, at["shift"])}, nil
}

func inLocation(d time.Time, loc *time.Location) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}
