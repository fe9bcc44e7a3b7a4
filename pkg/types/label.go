package types

import (
	"fmt"
	"math"
	"reflect"
	"strings"
)

// Label is the opaque value attached to a workshift. The engine never
// interprets labels; selectors and worktime accounting do.
type Label = any

// Selector decides whether a label is on duty.
type Selector func(Label) bool

// Truthy is the default selector. Nil, false, zero numbers, NaN, empty
// strings and empty collections are off duty; everything else is on duty.
func Truthy(label Label) bool {
	switch v := label.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case int:
		return v != 0
	case int8:
		return v != 0
	case int16:
		return v != 0
	case int32:
		return v != 0
	case int64:
		return v != 0
	case uint:
		return v != 0
	case uint8:
		return v != 0
	case uint16:
		return v != 0
	case uint32:
		return v != 0
	case uint64:
		return v != 0
	case float32:
		return v != 0 && !math.IsNaN(float64(v))
	case float64:
		return v != 0 && !math.IsNaN(v)
	}
	rv := reflect.ValueOf(label)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

// OneOf returns a selector that puts on duty exactly the given labels.
// Numeric labels compare by value, so 1 and 1.0 match.
func OneOf(labels ...Label) Selector {
	return func(l Label) bool {
		for _, want := range labels {
			if LabelsEqual(l, want) {
				return true
			}
		}
		return false
	}
}

// LabelsEqual reports whether two labels are equal, comparing numbers by
// value regardless of their Go type.
func LabelsEqual(a, b Label) bool {
	if fa, ok := AsNumber(a); ok {
		if fb, ok := AsNumber(b); ok {
			return fa == fb
		}
		return false
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

// AsNumber converts a numeric label to float64. Booleans count as 0 and 1.
func AsNumber(label Label) (float64, bool) {
	switch v := label.(type) {
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

// Duty says which workshifts a query considers: those on duty, those off
// duty, or all of them.
type Duty int

// Duty values.
const (
	DutyOn Duty = iota
	DutyOff
	DutyAny
)

// String returns the duty name.
func (d Duty) String() string {
	switch d {
	case DutyOn:
		return "on"
	case DutyOff:
		return "off"
	case DutyAny:
		return "any"
	}
	return fmt.Sprintf("Duty(%d)", int(d))
}

// Valid reports whether d is one of the Duty constants.
func (d Duty) Valid() bool {
	return d >= DutyOn && d <= DutyAny
}

// ParseDuty parses "on", "off" or "any".
func ParseDuty(s string) (Duty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on":
		return DutyOn, nil
	case "off":
		return DutyOff, nil
	case "any":
		return DutyAny, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDuty, s)
}
