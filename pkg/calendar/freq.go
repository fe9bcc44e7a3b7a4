// Package calendar provides the date and time arithmetic a timeboard is
// built on: calendar frequencies, the periods they produce, calendar offsets,
// Easter dates, and timestamp parsing.
package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Unit is an elementary calendar unit.
type Unit int

// Elementary units, finest first.
const (
	Second Unit = iota
	Minute
	Hour
	Day
	Week
	Month
	Quarter
	Year
)

var unitCodes = map[Unit]string{
	Second:  "S",
	Minute:  "T",
	Hour:    "H",
	Day:     "D",
	Week:    "W",
	Month:   "M",
	Quarter: "Q",
	Year:    "A",
}

// String returns the unit code.
func (u Unit) String() string {
	if s, ok := unitCodes[u]; ok {
		return s
	}
	return fmt.Sprintf("Unit(%d)", int(u))
}

// Calendar errors.
var (
	ErrInvalidFreq    = errors.New("invalid frequency")
	ErrInvalidRange   = errors.New("range end precedes start")
	ErrTooManyPeriods = errors.New("too many periods in range")
	ErrInvalidOffset  = errors.New("invalid offset component")
	ErrInvalidTime    = errors.New("invalid time value")
)

// Freq is a calendar frequency such as "D", "8H", "W-MON" or "A-JAN".
//
// Anchor has a meaning only for Week (the weekday a week ends on), Quarter
// and Year (the month a quarter or year ends in).
type Freq struct {
	N      int
	Unit   Unit
	Anchor int
}

var weekdayCodes = []string{"MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"}

var monthCodes = []string{"JAN", "FEB", "MAR", "APR", "MAY", "JUN", "JUL", "AUG", "SEP", "OCT", "NOV", "DEC"}

// ParseFreq parses a frequency token. An optional positive multiplier may
// precede the unit code. Weeks end on Sunday and quarters and years end in
// December unless a suffix says otherwise.
func ParseFreq(token string) (Freq, error) {
	s := strings.TrimSpace(token)
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	n := 1
	if i > 0 {
		v, err := strconv.Atoi(s[:i])
		if err != nil || v < 1 {
			return Freq{}, fmt.Errorf("%w: %q", ErrInvalidFreq, token)
		}
		n = v
	}
	code, suffix, hasSuffix := strings.Cut(s[i:], "-")

	f := Freq{N: n}
	switch code {
	case "S", "s":
		f.Unit = Second
	case "T", "min":
		f.Unit = Minute
	case "H", "h":
		f.Unit = Hour
	case "D", "d":
		f.Unit = Day
	case "W", "w":
		f.Unit = Week
		f.Anchor = int(time.Sunday)
	case "M":
		f.Unit = Month
	case "Q", "q":
		f.Unit = Quarter
		f.Anchor = int(time.December)
	case "A", "Y", "a", "y":
		f.Unit = Year
		f.Anchor = int(time.December)
	default:
		return Freq{}, fmt.Errorf("%w: %q", ErrInvalidFreq, token)
	}

	if !hasSuffix {
		return f, nil
	}
	suffix = strings.ToUpper(suffix)
	switch f.Unit {
	case Week:
		idx := indexOf(weekdayCodes, suffix)
		if idx < 0 {
			return Freq{}, fmt.Errorf("%w: %q", ErrInvalidFreq, token)
		}
		f.Anchor = (idx + 1) % 7
	case Quarter, Year:
		idx := indexOf(monthCodes, suffix)
		if idx < 0 {
			return Freq{}, fmt.Errorf("%w: %q", ErrInvalidFreq, token)
		}
		f.Anchor = idx + 1
	default:
		return Freq{}, fmt.Errorf("%w: %q", ErrInvalidFreq, token)
	}
	return f, nil
}

// MustParseFreq is like ParseFreq but panics on error.
func MustParseFreq(token string) Freq {
	f, err := ParseFreq(token)
	if err != nil {
		panic(err)
	}
	return f
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

// String returns the canonical token of the frequency.
func (f Freq) String() string {
	var b strings.Builder
	if f.N > 1 {
		b.WriteString(strconv.Itoa(f.N))
	}
	b.WriteString(f.Unit.String())
	switch f.Unit {
	case Week:
		b.WriteString("-")
		b.WriteString(weekdayCodes[(f.Anchor+6)%7])
	case Quarter, Year:
		b.WriteString("-")
		b.WriteString(monthCodes[f.Anchor-1])
	}
	return b.String()
}

// Base returns the unmultiplied frequency.
func (f Freq) Base() Freq {
	f.N = 1
	return f
}

// IsMultiple reports whether the frequency has a multiplier above one.
func (f Freq) IsMultiple() bool {
	return f.N > 1
}

// deltaRef is the instant period lengths are measured from.
var deltaRef = time.Date(2016, time.July, 1, 0, 0, 0, 0, time.UTC)

// Delta returns the length of the period of f containing 1 July 2016.
// A marker envelope widened by Delta on both sides always holds the
// neighbouring periods.
func (f Freq) Delta() time.Duration {
	p := PeriodOf(deltaRef, f)
	return p.stop.Sub(p.start)
}

// Floor returns the start of the period of f containing t.
func (f Freq) Floor(t time.Time) time.Time {
	return PeriodOf(t, f).start
}

// IsSubperiod reports whether every period of src lies, by its start alone,
// within a single period of tgt.
//
// Unmultiplied frequencies follow calendar containment: seconds, minutes,
// hours and days fit in any coarser unit; weeks fit only in weeks with the
// same anchor; months fit in quarters and years; quarters fit in years
// whose ending month falls on a quarter boundary. A multiplied tgt of the
// same unit as src needs an exact multiple; a multiplied src must share
// the unit of tgt.
func IsSubperiod(src, tgt Freq) bool {
	if src.N == 1 && tgt.N == 1 {
		return isNaturalSubperiod(src, tgt)
	}
	if src.Unit == tgt.Unit && src.Anchor == tgt.Anchor {
		return tgt.N%src.N == 0
	}
	if src.N == 1 {
		return isNaturalSubperiod(src, tgt.Base())
	}
	return false
}

func isNaturalSubperiod(src, tgt Freq) bool {
	switch tgt.Unit {
	case Second, Minute, Hour, Day:
		return src.Unit <= tgt.Unit
	case Week:
		if src.Unit == Week {
			return src.Anchor == tgt.Anchor
		}
		return src.Unit <= Day
	case Month:
		return src.Unit <= Day || src.Unit == Month
	case Quarter:
		switch src.Unit {
		case Quarter:
			return src.Anchor%3 == tgt.Anchor%3
		case Month:
			return true
		}
		return src.Unit <= Day
	case Year:
		switch src.Unit {
		case Year:
			return src.Anchor == tgt.Anchor
		case Quarter:
			return src.Anchor%3 == tgt.Anchor%3
		case Month:
			return true
		}
		return src.Unit <= Day
	}
	return false
}
