package calendar

import (
	"fmt"
	"time"

	"github.com/jinzhu/now"
)

// MaxPeriods bounds the number of periods one Range call enumerates, about
// eight years of minutes or 48 days of seconds. Longer ranges fail with
// ErrTooManyPeriods before the slice grows unbounded.
const MaxPeriods = 1 << 22

var maxPeriods = MaxPeriods

// Period is one period of a frequency: the half-open time range
// [Start, Start of the next period).
type Period struct {
	freq  Freq
	start time.Time
	stop  time.Time
}

// PeriodOf returns the period of f containing t.
func PeriodOf(t time.Time, f Freq) Period {
	if f.N < 1 {
		f.N = 1
	}
	start := unitFloor(t, f)
	return Period{freq: f, start: start, stop: addUnits(start, f, f.N)}
}

// Freq returns the frequency of the period.
func (p Period) Freq() Freq { return p.freq }

// Start returns the first instant of the period.
func (p Period) Start() time.Time { return p.start }

// Stop returns the first instant after the period.
func (p Period) Stop() time.Time { return p.stop }

// End returns the last instant of the period, one nanosecond before Stop.
func (p Period) End() time.Time { return p.stop.Add(-time.Nanosecond) }

// Duration returns the length of the period.
func (p Period) Duration() time.Duration { return p.stop.Sub(p.start) }

// Contains reports whether t falls within the period.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.start) && t.Before(p.stop)
}

// Next returns the period immediately after p.
func (p Period) Next() Period {
	return Period{freq: p.freq, start: p.stop, stop: addUnits(p.stop, p.freq, p.freq.N)}
}

// Prev returns the period immediately before p.
func (p Period) Prev() Period {
	return Period{freq: p.freq, start: addUnits(p.start, p.freq, -p.freq.N), stop: p.start}
}

// IsZero reports whether p is the zero Period.
func (p Period) IsZero() bool {
	return p.start.IsZero() && p.stop.IsZero()
}

// String renders the period the way its frequency names it, for example
// "2017-10-01" for a day, "2017-10" for a month and "2017Q4" for a quarter.
func (p Period) String() string {
	switch p.freq.Unit {
	case Second:
		return p.start.Format("2006-01-02 15:04:05")
	case Minute, Hour:
		return p.start.Format("2006-01-02 15:04")
	case Day:
		return p.start.Format("2006-01-02")
	case Week:
		return p.start.Format("2006-01-02") + "/" + p.End().Format("2006-01-02")
	case Month:
		return p.start.Format("2006-01")
	case Quarter:
		end := p.End()
		q := (int(end.Month())-p.freq.Anchor+11)%12/3 + 1
		year := end.Year()
		if p.freq.Anchor != int(time.December) && int(end.Month()) > p.freq.Anchor {
			year++
		}
		return fmt.Sprintf("%dQ%d", year, q)
	case Year:
		return fmt.Sprintf("%d", p.End().Year())
	}
	return p.start.Format(time.RFC3339)
}

// Range returns consecutive periods of f from the one containing start
// through the one containing end.
func Range(start, end time.Time, f Freq) ([]Period, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %s .. %s", ErrInvalidRange, start, end)
	}
	var out []Period
	for p := PeriodOf(start, f); !p.start.After(end); p = p.Next() {
		if len(out) == maxPeriods {
			return nil, fmt.Errorf("%w: %s .. %s by %s", ErrTooManyPeriods, start, end, f)
		}
		out = append(out, p)
	}
	return out, nil
}

// unitFloor returns the start of the elementary unit of f containing t.
func unitFloor(t time.Time, f Freq) time.Time {
	switch f.Unit {
	case Second:
		return t.Truncate(time.Second)
	case Minute:
		return now.With(t).BeginningOfMinute()
	case Hour:
		return now.With(t).BeginningOfHour()
	case Day:
		return now.With(t).BeginningOfDay()
	case Week:
		cfg := &now.Config{WeekStartDay: time.Weekday((f.Anchor + 1) % 7)}
		return cfg.With(t).BeginningOfWeek()
	case Month:
		return now.With(t).BeginningOfMonth()
	case Quarter, Year:
		span := 3
		if f.Unit == Year {
			span = 12
		}
		first := f.Anchor%span + 1
		m := int(t.Month())
		back := ((m-first)%span + span) % span
		return now.With(t).BeginningOfMonth().AddDate(0, -back, 0)
	}
	return t
}

// addUnits moves t, assumed to be a unit start, by n elementary units of f.
func addUnits(t time.Time, f Freq, n int) time.Time {
	switch f.Unit {
	case Second:
		return t.Add(time.Duration(n) * time.Second)
	case Minute:
		return t.Add(time.Duration(n) * time.Minute)
	case Hour:
		return t.Add(time.Duration(n) * time.Hour)
	case Day:
		return t.AddDate(0, 0, n)
	case Week:
		return t.AddDate(0, 0, 7*n)
	case Month:
		return t.AddDate(0, n, 0)
	case Quarter:
		return t.AddDate(0, 3*n, 0)
	case Year:
		return t.AddDate(0, 12*n, 0)
	}
	return t
}
