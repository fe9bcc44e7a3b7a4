package types

import (
	"errors"
	"fmt"
	"time"
)

// Configuration errors. They are reported while a timeboard is built.
var (
	ErrInvalidConfig      = errors.New("invalid timeboard config")
	ErrUnacceptablePeriod = errors.New("unacceptable period")
	ErrDuplicateAmendment = errors.New("duplicate amendment")
	ErrUndefinedDangle    = errors.New("pattern applied to a span with an undefined left dangle")
	ErrInvalidLayout      = errors.New("invalid layout")
	ErrInvalidMarker      = errors.New("invalid marker")
	ErrInvalidDuty        = errors.New("invalid duty")
)

// Boundary errors.
var (
	ErrOutOfBounds        = errors.New("out of bounds")
	ErrPartialOutOfBounds = errors.New("partially out of bounds")
	ErrVoidInterval       = errors.New("void interval")
	ErrInvalidClosed      = errors.New("invalid interval closure")
)

// Schedule registry errors.
var (
	ErrScheduleExists   = errors.New("schedule already exists")
	ErrScheduleNotFound = errors.New("schedule not found")
	ErrDefaultSchedule  = errors.New("the default schedule cannot be dropped")
)

// Worktime errors.
var (
	ErrNotNumeric = errors.New("label is not numeric")
)

// DuplicateAmendmentError is returned when two amendment keys fall within
// the same workshift.
type DuplicateAmendmentError struct {
	First     time.Time
	Second    time.Time
	Workshift int
}

func (e *DuplicateAmendmentError) Error() string {
	return fmt.Sprintf("%s: %s and %s both fall within workshift %d",
		ErrDuplicateAmendment, e.First.Format(time.RFC3339), e.Second.Format(time.RFC3339), e.Workshift)
}

// Unwrap returns ErrDuplicateAmendment.
func (e *DuplicateAmendmentError) Unwrap() error {
	return ErrDuplicateAmendment
}
