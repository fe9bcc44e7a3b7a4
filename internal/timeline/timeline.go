// Package timeline lays an organizer over a frame and produces the
// timeline: the sequence of workshifts with their labels. It also applies
// amendments and answers lookups from instants to workshifts.
package timeline

import (
	"fmt"
	"sort"
	"time"

	"github.com/mesh-intelligence/timeboard/internal/frame"
	"github.com/mesh-intelligence/timeboard/pkg/types"
)

// Timeline is the sequence of workshifts over a frame. Workshift i covers
// base units FirstUnit(i)..LastUnit(i).
type Timeline struct {
	frame  *frame.Frame
	ref    types.Ref
	labels []types.Label
	firsts []int
	wsOf   []int
}

// Build organizes the frame with org. Base units no pattern reaches keep
// defaultLabel. On failure every remembering pattern of org is restored to
// the cursor it had before Build.
func Build(f *frame.Frame, org *types.Organizer, defaultLabel types.Label, ref types.Ref) (*Timeline, error) {
	if ref == "" {
		ref = types.RefStart
	}
	patterns := org.RememberingPatterns()
	cursors := make([]int, len(patterns))
	for i, p := range patterns {
		cursors[i] = p.Cursor()
	}

	b := &builder{
		frame:  f,
		labels: make([]types.Label, f.Len()),
		joined: make([]bool, f.Len()),
	}
	for i := range b.labels {
		b.labels[i] = defaultLabel
	}
	if err := b.organize(org, f.Whole()); err != nil {
		for i, p := range patterns {
			p.Restore(cursors[i])
		}
		return nil, err
	}
	return b.timeline(ref), nil
}

type builder struct {
	frame  *frame.Frame
	labels []types.Label
	// joined[i] means base unit i continues the workshift of unit i-1.
	joined []bool
}

func (b *builder) organize(org *types.Organizer, span frame.Span) error {
	var spans []frame.Span
	var err error
	if org.Marker != nil {
		spans, err = b.frame.PartitionWithMarker(span, *org.Marker)
	} else {
		spans, err = b.frame.PartitionAtMarks(span, org.Marks)
	}
	if err != nil {
		return err
	}

	if org.StructureFrom != nil {
		if org.StructureFrom.Len() == 0 {
			return nil
		}
		for _, s := range spans {
			b.compound(s, org.StructureFrom.Next())
		}
		return nil
	}
	if len(org.Structure) == 0 {
		return nil
	}
	for i, s := range spans {
		if err := b.apply(org.Structure[i%len(org.Structure)], s); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) apply(el types.Element, s frame.Span) error {
	switch el.Kind {
	case types.ElementOrganizer:
		return b.organize(el.Organizer, s)
	case types.ElementPattern:
		if len(el.Pattern) == 0 {
			return nil
		}
		if s.SkipLeft == frame.Undefined {
			return b.undefinedDangle(s)
		}
		n := len(el.Pattern)
		for k := 0; k < s.Len(); k++ {
			b.labels[s.First+k] = el.Pattern[(s.SkipLeft+k)%n]
		}
		return nil
	case types.ElementRemembering:
		p := el.Remembering
		if p.Len() == 0 {
			return nil
		}
		if s.SkipLeft == frame.Undefined {
			return b.undefinedDangle(s)
		}
		p.Skip(s.SkipLeft)
		for k := 0; k < s.Len(); k++ {
			b.labels[s.First+k] = p.Next()
		}
		return nil
	case types.ElementScalar:
		b.compound(s, el.Label)
		return nil
	}
	return fmt.Errorf("%w: unknown element kind %d", types.ErrInvalidLayout, el.Kind)
}

// compound turns s into one workshift labelled l.
func (b *builder) compound(s frame.Span, l types.Label) {
	b.labels[s.First] = l
	b.joined[s.First] = false
	for k := s.First + 1; k <= s.Last; k++ {
		b.joined[k] = true
	}
}

func (b *builder) undefinedDangle(s frame.Span) error {
	return fmt.Errorf("%w: span %s .. %s", types.ErrUndefinedDangle,
		b.frame.Unit(s.First).Start(), b.frame.Unit(s.Last).End())
}

func (b *builder) timeline(ref types.Ref) *Timeline {
	tl := &Timeline{frame: b.frame, ref: ref, wsOf: make([]int, b.frame.Len())}
	for i := range b.labels {
		if i == 0 || !b.joined[i] {
			tl.firsts = append(tl.firsts, i)
			tl.labels = append(tl.labels, b.labels[i])
		}
		tl.wsOf[i] = len(tl.firsts) - 1
	}
	return tl
}

// Frame returns the frame the timeline is built on.
func (tl *Timeline) Frame() *frame.Frame { return tl.frame }

// Ref returns the instant workshifts are located by.
func (tl *Timeline) Ref() types.Ref { return tl.ref }

// Len returns the number of workshifts.
func (tl *Timeline) Len() int { return len(tl.firsts) }

// Label returns the label of workshift i.
func (tl *Timeline) Label(i int) types.Label { return tl.labels[i] }

// Labels returns a copy of all workshift labels.
func (tl *Timeline) Labels() []types.Label { return append([]types.Label(nil), tl.labels...) }

// FirstUnit returns the first base unit of workshift i.
func (tl *Timeline) FirstUnit(i int) int { return tl.firsts[i] }

// LastUnit returns the last base unit of workshift i.
func (tl *Timeline) LastUnit(i int) int {
	if i+1 < len(tl.firsts) {
		return tl.firsts[i+1] - 1
	}
	return tl.frame.Len() - 1
}

// Duration returns the number of base units in workshift i.
func (tl *Timeline) Duration(i int) int { return tl.LastUnit(i) - tl.FirstUnit(i) + 1 }

// Start returns the first instant of workshift i.
func (tl *Timeline) Start(i int) time.Time { return tl.frame.Unit(tl.FirstUnit(i)).Start() }

// End returns the last instant of workshift i.
func (tl *Timeline) End(i int) time.Time { return tl.frame.Unit(tl.LastUnit(i)).End() }

// RefTime returns the instant workshift i is located by.
func (tl *Timeline) RefTime(i int) time.Time {
	if tl.ref == types.RefEnd {
		return tl.End(i)
	}
	return tl.Start(i)
}

// Position returns the workshift containing t.
func (tl *Timeline) Position(t time.Time) (int, error) {
	unit, err := tl.frame.Locate(t)
	if err != nil {
		return 0, err
	}
	return tl.wsOf[unit], nil
}

// Side tells where an instant lies relative to the timeline.
type Side int

// Sides.
const (
	Inside Side = iota
	Before
	After
)

// RefAtOrAfter returns the first workshift whose reference instant is not
// earlier than t. The Side is not Inside when no workshift qualifies: Before
// when t precedes the timeline, After otherwise.
func (tl *Timeline) RefAtOrAfter(t time.Time) (int, Side) {
	if t.Before(tl.frame.Start()) {
		return 0, Before
	}
	if t.After(tl.frame.End()) {
		return 0, After
	}
	i := sort.Search(tl.Len(), func(i int) bool { return !tl.RefTime(i).Before(t) })
	if i == tl.Len() {
		return 0, After
	}
	return i, Inside
}

// RefAtOrBefore returns the last workshift whose reference instant is not
// later than t, with Side semantics as in RefAtOrAfter.
func (tl *Timeline) RefAtOrBefore(t time.Time) (int, Side) {
	if t.Before(tl.frame.Start()) {
		return 0, Before
	}
	if t.After(tl.frame.End()) {
		return 0, After
	}
	i := sort.Search(tl.Len(), func(i int) bool { return tl.RefTime(i).After(t) }) - 1
	if i < 0 {
		return 0, Before
	}
	return i, Inside
}

// Amend overrides workshift labels. Each amendment relabels the workshift
// containing its instant. Instants outside the frame are ignored unless
// strict is set. Two amendments within one workshift fail with a
// *types.DuplicateAmendmentError. Amend changes nothing on failure.
func (tl *Timeline) Amend(amendments []types.Amendment, strict bool) error {
	type change struct {
		pos   int
		label types.Label
	}
	seen := map[int]time.Time{}
	var changes []change
	for _, a := range amendments {
		pos, err := tl.Position(a.At)
		if err != nil {
			if strict {
				return fmt.Errorf("amendment at %s: %w", a.At, err)
			}
			continue
		}
		if prev, ok := seen[pos]; ok {
			return &types.DuplicateAmendmentError{First: prev, Second: a.At, Workshift: pos}
		}
		seen[pos] = a.At
		changes = append(changes, change{pos: pos, label: a.Label})
	}
	for _, c := range changes {
		tl.labels[c.pos] = c.label
	}
	return nil
}
