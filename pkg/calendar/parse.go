package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Timestamper is implemented by values that stand for a point in time,
// such as a workshift.
type Timestamper interface {
	ToTimestamp() time.Time
}

// ParseTime converts v to a time. It accepts time.Time, a Timestamper, or
// a string in any layout dateparse recognizes; strings without a zone are
// read as UTC.
func ParseTime(v any) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case *time.Time:
		if x == nil {
			return time.Time{}, fmt.Errorf("%w: nil", ErrInvalidTime)
		}
		return *x, nil
	case Timestamper:
		return x.ToTimestamp(), nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return time.Time{}, fmt.Errorf("%w: empty string", ErrInvalidTime)
		}
		t, err := dateparse.ParseIn(s, time.UTC)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q: %v", ErrInvalidTime, s, err)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %T", ErrInvalidTime, v)
}

// MustParseTime is like ParseTime but panics on error.
func MustParseTime(v any) time.Time {
	t, err := ParseTime(v)
	if err != nil {
		panic(err)
	}
	return t
}
