package types

import (
	"fmt"
	"time"

	"github.com/mesh-intelligence/timeboard/pkg/calendar"
)

// How names a mark-generation method.
type How string

// Built-in mark-generation methods.
const (
	// FromStartOfEach places a mark at the start of each period moved by a
	// calendar offset (years, months, weeks, days, hours, minutes, seconds).
	FromStartOfEach How = "from_start_of_each"
	// FromEasterWestern places a mark at western Easter Sunday moved by
	// days, or by shift.
	FromEasterWestern How = "from_easter_western"
	// FromEasterOrthodox is FromEasterWestern for Orthodox Easter.
	FromEasterOrthodox How = "from_easter_orthodox"
	// NthWeekdayOfMonth places a mark at the n-th weekday of a month,
	// keyed by month, week, weekday and an optional shift in days.
	NthWeekdayOfMonth How = "nth_weekday_of_month"
)

// At holds the named parameters of one mark.
type At map[string]int

// MarkFunc computes candidate marks within one period of a marker. The
// parameters are those of a single At entry.
type MarkFunc func(p calendar.Period, at At) ([]time.Time, error)

// Marker describes where the marks partitioning a span fall: one mark for
// each At entry in every period of frequency Each. With no At entries the
// marks are the starts of the periods.
type Marker struct {
	Each string `json:"each" yaml:"each"`
	At   []At   `json:"at,omitempty" yaml:"at,omitempty"`
	How  How    `json:"how,omitempty" yaml:"how,omitempty"`

	// Func replaces How when set.
	Func MarkFunc `json:"-" yaml:"-"`
}

var offsetKeys = map[string]bool{
	"years": true, "months": true, "weeks": true, "days": true,
	"hours": true, "minutes": true, "seconds": true,
}

// easterKeys are the offset components plus shift, a day count that
// replaces days.
var easterKeys = map[string]bool{
	"years": true, "months": true, "weeks": true, "days": true,
	"hours": true, "minutes": true, "seconds": true, "shift": true,
}

var howKeys = map[How]map[string]bool{
	FromStartOfEach:    offsetKeys,
	FromEasterWestern:  easterKeys,
	FromEasterOrthodox: easterKeys,
	NthWeekdayOfMonth:  {"month": true, "week": true, "weekday": true, "shift": true},
}

// Freq parses Each.
func (m Marker) Freq() (calendar.Freq, error) {
	f, err := calendar.ParseFreq(m.Each)
	if err != nil {
		return calendar.Freq{}, fmt.Errorf("%w: each: %w", ErrInvalidMarker, err)
	}
	return f, nil
}

// Method returns the mark-generation method, defaulting to FromStartOfEach.
func (m Marker) Method() How {
	if m.How == "" {
		return FromStartOfEach
	}
	return m.How
}

// Validate checks the frequency, the method and every At entry.
func (m Marker) Validate() error {
	if _, err := m.Freq(); err != nil {
		return err
	}
	if m.Func != nil {
		return nil
	}
	keys, ok := howKeys[m.Method()]
	if !ok {
		return fmt.Errorf("%w: unknown how %q", ErrInvalidMarker, m.How)
	}
	for _, at := range m.At {
		for k := range at {
			if !keys[k] {
				return fmt.Errorf("%w: %s does not accept %q", ErrInvalidMarker, m.Method(), k)
			}
		}
		if m.Method() == NthWeekdayOfMonth {
			if err := validateNthWeekday(at); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateNthWeekday(at At) error {
	for _, k := range []string{"month", "week", "weekday"} {
		if _, ok := at[k]; !ok {
			return fmt.Errorf("%w: %s requires %q", ErrInvalidMarker, NthWeekdayOfMonth, k)
		}
	}
	if m := at["month"]; m < 1 || m > 12 {
		return fmt.Errorf("%w: month %d not in 1..12", ErrInvalidMarker, m)
	}
	if w := at["week"]; w == 0 || w < -5 || w > 5 {
		return fmt.Errorf("%w: week %d not in -5..-1 or 1..5", ErrInvalidMarker, w)
	}
	if d := at["weekday"]; d < 1 || d > 7 {
		return fmt.Errorf("%w: weekday %d not in 1..7", ErrInvalidMarker, d)
	}
	return nil
}
