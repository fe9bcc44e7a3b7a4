package types

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/mesh-intelligence/timeboard/pkg/calendar"
)

// Ref names the instant a workshift is located by.
type Ref string

// Workshift reference instants.
const (
	RefStart Ref = "start"
	RefEnd   Ref = "end"
)

// WorktimeSource says where worktime comes from.
type WorktimeSource string

// Worktime sources.
const (
	// WorktimeDuration counts base units.
	WorktimeDuration WorktimeSource = "duration"
	// WorktimeLabels sums numeric labels.
	WorktimeLabels WorktimeSource = "labels"
)

// DefaultScheduleName is the name of the default schedule when
// Config.DefaultName is empty.
const DefaultScheduleName = "on_duty"

// Amendment overrides the label of the workshift containing At.
type Amendment struct {
	At    time.Time `json:"at" yaml:"at"`
	Label Label     `json:"label" yaml:"label"`
}

// Config holds the parameters of a timeboard.
type Config struct {
	BaseUnitFreq string      `json:"base_unit_freq" yaml:"base_unit_freq"`
	Start        time.Time   `json:"start" yaml:"start"`
	End          time.Time   `json:"end" yaml:"end"`
	Layout       *Organizer  `json:"-" yaml:"-"`
	Amendments   []Amendment `json:"amendments,omitempty" yaml:"amendments,omitempty"`

	// StrictAmendments rejects amendments outside the frame instead of
	// ignoring them.
	StrictAmendments bool `json:"strict_amendments,omitempty" yaml:"strict_amendments,omitempty"`

	WorkshiftRef    Ref            `json:"workshift_ref,omitempty" yaml:"workshift_ref,omitempty"`
	DefaultName     string         `json:"default_name,omitempty" yaml:"default_name,omitempty"`
	DefaultSelector Selector       `json:"-" yaml:"-"`
	DefaultLabel    Label          `json:"default_label,omitempty" yaml:"default_label,omitempty"`
	WorktimeSource  WorktimeSource `json:"worktime_source,omitempty" yaml:"worktime_source,omitempty"`

	Logger *slog.Logger `json:"-" yaml:"-"`
}

// Config validation errors.
var (
	ErrBaseUnitEmpty         = fmt.Errorf("%w: base unit frequency must not be empty", ErrInvalidConfig)
	ErrTimeRangeMissing      = fmt.Errorf("%w: start and end must be set", ErrInvalidConfig)
	ErrLayoutMissing         = fmt.Errorf("%w: layout must not be nil", ErrInvalidConfig)
	ErrInvalidWorkshiftRef   = fmt.Errorf("%w: workshift ref must be start or end", ErrInvalidConfig)
	ErrInvalidWorktimeSource = fmt.Errorf("%w: worktime source must be duration or labels", ErrInvalidConfig)
	ErrInvalidBaseUnitFreq   = fmt.Errorf("%w: invalid base unit frequency", ErrInvalidConfig)
)

// Validate checks that the Config is well-formed. It returns an error
// wrapping a sentinel from this package on failure. Validate does not build
// the frame, so an end before the start is reported by construction.
func (c Config) Validate() error {
	if c.BaseUnitFreq == "" {
		return ErrBaseUnitEmpty
	}
	if _, err := calendar.ParseFreq(c.BaseUnitFreq); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBaseUnitFreq, err)
	}
	if c.Start.IsZero() || c.End.IsZero() {
		return ErrTimeRangeMissing
	}
	if c.Layout == nil {
		return ErrLayoutMissing
	}
	switch c.WorkshiftRef {
	case "", RefStart, RefEnd:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidWorkshiftRef, c.WorkshiftRef)
	}
	switch c.WorktimeSource {
	case "", WorktimeDuration, WorktimeLabels:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidWorktimeSource, c.WorktimeSource)
	}
	return c.Layout.Validate()
}

// WithDefaults returns a copy of c with empty options set to their
// defaults.
func (c Config) WithDefaults() Config {
	if c.WorkshiftRef == "" {
		c.WorkshiftRef = RefStart
	}
	if c.WorktimeSource == "" {
		c.WorktimeSource = WorktimeDuration
	}
	if c.DefaultName == "" {
		c.DefaultName = DefaultScheduleName
	}
	if c.DefaultSelector == nil {
		c.DefaultSelector = Truthy
	}
	return c
}
