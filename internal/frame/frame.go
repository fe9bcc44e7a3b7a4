// Package frame holds the base units of a timeboard and partitions spans of
// them into sub-spans, either at explicit marks or by a marker. Dangles,
// the base units a sub-span would have had beyond the span edge, are
// measured so that patterns can be phase-aligned.
package frame

import (
	"fmt"
	"sort"
	"time"

	"github.com/mesh-intelligence/timeboard/internal/marker"
	"github.com/mesh-intelligence/timeboard/pkg/calendar"
	"github.com/mesh-intelligence/timeboard/pkg/types"
)

// Undefined marks a dangle that cannot be measured.
const Undefined = -1

// Frame is the ordered sequence of base units from the unit containing the
// start through the unit containing the end.
type Frame struct {
	freq   calendar.Freq
	units  []calendar.Period
	starts []time.Time
}

// New builds the frame of freq between start and end.
func New(freq calendar.Freq, start, end time.Time) (*Frame, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: frame ends at %s before it starts at %s",
			types.ErrVoidInterval, end, start)
	}
	units, err := calendar.Range(start, end, freq)
	if err != nil {
		return nil, fmt.Errorf("build frame: %w", err)
	}
	starts := make([]time.Time, len(units))
	for i, u := range units {
		starts[i] = u.Start()
	}
	return &Frame{freq: freq, units: units, starts: starts}, nil
}

// Freq returns the base unit frequency.
func (f *Frame) Freq() calendar.Freq { return f.freq }

// Len returns the number of base units.
func (f *Frame) Len() int { return len(f.units) }

// Unit returns the i-th base unit.
func (f *Frame) Unit(i int) calendar.Period { return f.units[i] }

// Start returns the start of the first base unit.
func (f *Frame) Start() time.Time { return f.units[0].Start() }

// End returns the last instant of the last base unit.
func (f *Frame) End() time.Time { return f.units[len(f.units)-1].End() }

// Locate returns the index of the base unit containing t.
func (f *Frame) Locate(t time.Time) (int, error) {
	if t.Before(f.Start()) || t.After(f.End()) {
		return 0, fmt.Errorf("%w: %s is outside the frame %s .. %s",
			types.ErrOutOfBounds, t, f.Start(), f.End())
	}
	return sort.Search(len(f.starts), func(i int) bool { return f.starts[i].After(t) }) - 1, nil
}

// Span is a run of base units First..Last, inclusive, with the dangles on
// both sides. A dangle of Undefined cannot be measured.
type Span struct {
	First     int
	Last      int
	SkipLeft  int
	SkipRight int
}

// Len returns the number of base units in the span.
func (s Span) Len() int { return s.Last - s.First + 1 }

// Whole returns the span of all base units with no dangles.
func (f *Frame) Whole() Span {
	return Span{First: 0, Last: len(f.units) - 1}
}

func (f *Frame) checkSpan(s Span) error {
	if s.First < 0 || s.Last >= len(f.units) || s.First > s.Last {
		return fmt.Errorf("%w: span %d..%d of a frame of %d units",
			types.ErrOutOfBounds, s.First, s.Last, len(f.units))
	}
	return nil
}

// PartitionAtMarks splits s before every base unit containing one of marks.
// Marks outside the span, or at its first unit, are ignored. The resulting
// spans have no dangles.
func (f *Frame) PartitionAtMarks(s Span, marks []time.Time) ([]Span, error) {
	if err := f.checkSpan(s); err != nil {
		return nil, err
	}
	return f.subspans(s, marks), nil
}

// PartitionWithMarker splits s at the marks of m. The marker frequency must
// be a natural superperiod of the base unit.
//
// Without At entries the marks are the starts of the marker periods, and
// the dangles are the base units of the first and last marker period that
// fall outside s. With At entries the dangles run to the nearest mark
// beyond each edge of s; where there is no such mark the dangle is
// Undefined.
func (f *Frame) PartitionWithMarker(s Span, m types.Marker) ([]Span, error) {
	each, err := m.Freq()
	if err != nil {
		return nil, err
	}
	if !calendar.IsSubperiod(f.freq, each) {
		return nil, fmt.Errorf("%w: base unit %s is not a subperiod of marker %s",
			types.ErrUnacceptablePeriod, f.freq, each)
	}
	if err := f.checkSpan(s); err != nil {
		return nil, err
	}
	spanStart := f.units[s.First].Start()
	spanEnd := f.units[s.Last].End()

	if len(m.At) == 0 {
		stencil, err := calendar.Range(spanStart, spanEnd, each)
		if err != nil {
			return nil, err
		}
		marks := make([]time.Time, len(stencil))
		for i, p := range stencil {
			marks[i] = p.Start()
		}
		spans := f.subspans(s, marks)
		spans[0].SkipLeft = f.unitsBefore(stencil[0].Start(), s)
		spans[len(spans)-1].SkipRight = f.unitsAfter(stencil[len(stencil)-1].End(), s)
		return spans, nil
	}

	delta := each.Delta()
	envelope, err := calendar.Range(spanStart.Add(-delta), spanEnd.Add(delta), each)
	if err != nil {
		return nil, err
	}
	raw, err := marker.Generate(m, envelope)
	if err != nil {
		return nil, err
	}
	for i, t := range raw {
		raw[i] = f.freq.Floor(t)
	}
	sort.Slice(raw, func(i, j int) bool { return raw[i].Before(raw[j]) })

	lo := sort.Search(len(raw), func(i int) bool { return raw[i].After(spanStart) }) - 1
	if lo < 0 {
		lo = 0
	}
	hi := sort.Search(len(raw), func(i int) bool { return !raw[i].Before(spanEnd) }) + 1
	if hi > len(raw) {
		hi = len(raw)
	}
	if lo >= hi {
		return []Span{{First: s.First, Last: s.Last, SkipLeft: Undefined, SkipRight: Undefined}}, nil
	}
	marks := raw[lo:hi]
	spans := f.subspans(s, marks)

	first, last := marks[0], marks[len(marks)-1]
	if first.After(spanStart) {
		spans[0].SkipLeft = Undefined
	} else {
		spans[0].SkipLeft = f.unitsBefore(first, s)
	}
	if last.Before(spanEnd) {
		spans[len(spans)-1].SkipRight = Undefined
	} else {
		spans[len(spans)-1].SkipRight = f.unitsAfter(last.Add(-time.Nanosecond), s)
	}
	return spans, nil
}

// subspans splits s before each base unit holding a mark.
func (f *Frame) subspans(s Span, marks []time.Time) []Span {
	var cuts []int
	seen := map[int]bool{}
	for _, t := range marks {
		pos, err := f.Locate(t)
		if err != nil || pos <= s.First || pos > s.Last || seen[pos] {
			continue
		}
		seen[pos] = true
		cuts = append(cuts, pos)
	}
	sort.Ints(cuts)

	spans := make([]Span, 0, len(cuts)+1)
	first := s.First
	for _, c := range cuts {
		spans = append(spans, Span{First: first, Last: c - 1})
		first = c
	}
	return append(spans, Span{First: first, Last: s.Last})
}

// unitsBefore counts the base units from the one containing bound up to,
// not including, the first unit of s.
func (f *Frame) unitsBefore(bound time.Time, s Span) int {
	start := f.units[s.First].Start()
	n := 0
	for p := calendar.PeriodOf(bound, f.freq); p.Start().Before(start); p = p.Next() {
		n++
	}
	return n
}

// unitsAfter counts the base units after the last unit of s whose start is
// not later than bound.
func (f *Frame) unitsAfter(bound time.Time, s Span) int {
	n := 0
	for p := f.units[s.Last].Next(); !p.Start().After(bound); p = p.Next() {
		n++
	}
	return n
}
