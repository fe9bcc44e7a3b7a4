package calendar

import (
	"fmt"
	"time"
)

// Offset is a calendar offset. Years and months move the date first and
// clip the day to the end of the target month; weeks, days and the clock
// components are added afterwards.
type Offset struct {
	Years   int
	Months  int
	Weeks   int
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// OffsetKeys lists the names accepted by OffsetFromMap.
var OffsetKeys = []string{"years", "months", "weeks", "days", "hours", "minutes", "seconds"}

// OffsetFromMap builds an Offset from named components. Unknown names
// return ErrInvalidOffset.
func OffsetFromMap(m map[string]int) (Offset, error) {
	var o Offset
	for k, v := range m {
		switch k {
		case "years":
			o.Years = v
		case "months":
			o.Months = v
		case "weeks":
			o.Weeks = v
		case "days":
			o.Days = v
		case "hours":
			o.Hours = v
		case "minutes":
			o.Minutes = v
		case "seconds":
			o.Seconds = v
		default:
			return Offset{}, fmt.Errorf("%w: %q", ErrInvalidOffset, k)
		}
	}
	return o, nil
}

// AddOffset returns t moved by o.
func AddOffset(t time.Time, o Offset) time.Time {
	if o.Years != 0 || o.Months != 0 {
		y, m, d := t.Date()
		months := int(m) - 1 + o.Months + 12*o.Years
		y += floorDiv(months, 12)
		m = time.Month(months - 12*floorDiv(months, 12) + 1)
		if last := DaysIn(y, m); d > last {
			d = last
		}
		hh, mm, ss := t.Clock()
		t = time.Date(y, m, d, hh, mm, ss, t.Nanosecond(), t.Location())
	}
	if o.Weeks != 0 || o.Days != 0 {
		t = t.AddDate(0, 0, 7*o.Weeks+o.Days)
	}
	return t.Add(time.Duration(o.Hours)*time.Hour +
		time.Duration(o.Minutes)*time.Minute +
		time.Duration(o.Seconds)*time.Second)
}

// DaysIn returns the number of days in month m of year y.
func DaysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
