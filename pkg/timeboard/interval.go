package timeboard

import (
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/timeboard/internal/timeline"
	"github.com/mesh-intelligence/timeboard/pkg/calendar"
	"github.com/mesh-intelligence/timeboard/pkg/types"
)

// Interval is a contiguous run of workshifts first..last with an attached
// schedule. A void interval holds no workshifts; it only comes out of
// Overlap.
type Interval struct {
	tb          *Timeboard
	first, last int
	schedule    *Schedule
	void        bool
}

// IntervalOption adjusts how an interval is built.
type IntervalOption func(*intervalConfig)

type intervalConfig struct {
	schedule *Schedule
	closed   string
	noClip   bool
}

// WithSchedule attaches s to the interval instead of the default schedule.
func WithSchedule(s *Schedule) IntervalOption {
	return func(c *intervalConfig) { c.schedule = s }
}

// WithClosed selects which ends of the interval are kept: "11" keeps both,
// "01" drops the first workshift, "10" drops the last one and "00" drops
// both.
func WithClosed(closed string) IntervalOption {
	return func(c *intervalConfig) { c.closed = closed }
}

// NoClip makes an interval built from a period fail when the period
// extends beyond the timeboard. By default such an interval is clipped.
func NoClip() IntervalOption {
	return func(c *intervalConfig) { c.noClip = true }
}

func (tb *Timeboard) intervalConfig(opts []IntervalOption) (intervalConfig, bool, bool, error) {
	c := intervalConfig{schedule: tb.schedule, closed: "11"}
	for _, o := range opts {
		o(&c)
	}
	if c.schedule == nil {
		c.schedule = tb.schedule
	}
	switch c.closed {
	case "11":
		return c, false, false, nil
	case "01":
		return c, true, false, nil
	case "10":
		return c, false, true, nil
	case "00":
		return c, true, true, nil
	}
	return c, false, false, fmt.Errorf("%w: %q", types.ErrInvalidClosed, c.closed)
}

// location is a workshift position, or the side of the timeline a point
// falls on when no workshift qualifies.
type location struct {
	pos  int
	side timeline.Side
}

func (l location) inside() bool { return l.side == timeline.Inside }

// rank orders sides from the past to the future.
func (l location) rank() int {
	switch l.side {
	case timeline.Before:
		return 0
	case timeline.After:
		return 2
	}
	return 1
}

func (tb *Timeboard) locate(t time.Time) location {
	pos, err := tb.tl.Position(t)
	if err == nil {
		return location{pos: pos}
	}
	if t.Before(tb.Start()) {
		return location{side: timeline.Before}
	}
	return location{side: timeline.After}
}

func strip(locs [2]location, dropHead, dropTail bool) [2]location {
	if dropHead && locs[0].inside() {
		locs[0].pos++
	}
	if dropTail && locs[1].inside() {
		locs[1].pos--
	}
	return locs
}

// resolve turns a pair of locations into an interval or the boundary error
// that describes why it cannot be built.
func (tb *Timeboard) resolve(locs [2]location, sched *Schedule, ref string) (*Interval, error) {
	var ordered bool
	if locs[0].inside() && locs[1].inside() {
		ordered = locs[0].pos <= locs[1].pos
	} else {
		ordered = locs[0].rank() <= locs[1].rank()
	}
	if !ordered {
		return nil, fmt.Errorf("%w: reversed or empty interval %s within %s", types.ErrVoidInterval, ref, tb)
	}
	switch {
	case !locs[0].inside() && !locs[1].inside():
		if locs[0].side == locs[1].side {
			return nil, fmt.Errorf("%w: interval %s is completely outside %s", types.ErrOutOfBounds, ref, tb)
		}
		return nil, fmt.Errorf("%w: interval %s overlaps %s", types.ErrPartialOutOfBounds, ref, tb)
	case !locs[0].inside():
		return nil, fmt.Errorf("%w: the left bound of %s is outside %s", types.ErrPartialOutOfBounds, ref, tb)
	case !locs[1].inside():
		return nil, fmt.Errorf("%w: the right bound of %s is outside %s", types.ErrPartialOutOfBounds, ref, tb)
	}
	return &Interval{tb: tb, first: locs[0].pos, last: locs[1].pos, schedule: sched}, nil
}

// Interval returns the interval from the workshift containing a to the
// workshift containing b.
func (tb *Timeboard) Interval(a, b time.Time, opts ...IntervalOption) (*Interval, error) {
	c, dropHead, dropTail, err := tb.intervalConfig(opts)
	if err != nil {
		return nil, err
	}
	locs := strip([2]location{tb.locate(a), tb.locate(b)}, dropHead, dropTail)
	return tb.resolve(locs, c.schedule, fmt.Sprintf("(%s, %s)", a.Format(time.RFC3339), b.Format(time.RFC3339)))
}

// IntervalAt returns the interval of workshift positions first..last.
func (tb *Timeboard) IntervalAt(first, last int, opts ...IntervalOption) (*Interval, error) {
	c, dropHead, dropTail, err := tb.intervalConfig(opts)
	if err != nil {
		return nil, err
	}
	for _, loc := range []int{first, last} {
		if loc < 0 || loc >= tb.Len() {
			return nil, fmt.Errorf("%w: interval bound %d is outside %s", types.ErrOutOfBounds, loc, tb)
		}
	}
	locs := strip([2]location{{pos: first}, {pos: last}}, dropHead, dropTail)
	return tb.resolve(locs, c.schedule, fmt.Sprintf("(%d, %d)", first, last))
}

// IntervalOfLength returns the interval of n workshifts starting with the
// workshift containing t. A negative n counts back so that the interval
// ends with that workshift.
func (tb *Timeboard) IntervalOfLength(t time.Time, n int, opts ...IntervalOption) (*Interval, error) {
	c, dropHead, dropTail, err := tb.intervalConfig(opts)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: interval length cannot be zero", types.ErrVoidInterval)
	}
	ref := fmt.Sprintf("%s with length %d", t.Format(time.RFC3339), n)
	this := tb.locate(t)
	if !this.inside() {
		return tb.resolve([2]location{this, this}, c.schedule, ref)
	}
	sign := 1
	if n < 0 {
		sign = -1
	}
	other := this.pos + n - sign
	var locs [2]location
	switch {
	case other < 0:
		locs = [2]location{{side: timeline.Before}, this}
	case other >= tb.Len():
		locs = [2]location{this, {side: timeline.After}}
	case other < this.pos:
		locs = [2]location{{pos: other}, this}
	default:
		locs = [2]location{this, {pos: other}}
	}
	return tb.resolve(strip(locs, dropHead, dropTail), c.schedule, ref)
}

// IntervalOfPeriod returns the interval of the period of frequency f that
// contains t. See IntervalFromPeriod.
func (tb *Timeboard) IntervalOfPeriod(t time.Time, f calendar.Freq, opts ...IntervalOption) (*Interval, error) {
	return tb.IntervalFromPeriod(calendar.PeriodOf(t, f), opts...)
}

// IntervalFromPeriod returns the interval of the workshifts whose reference
// instants fall within p. A period reaching beyond the timeboard is
// clipped to it unless NoClip is given.
func (tb *Timeboard) IntervalFromPeriod(p calendar.Period, opts ...IntervalOption) (*Interval, error) {
	c, dropHead, dropTail, err := tb.intervalConfig(opts)
	if err != nil {
		return nil, err
	}
	var locs [2]location
	locs[0].pos, locs[0].side = tb.tl.RefAtOrAfter(p.Start())
	locs[1].pos, locs[1].side = tb.tl.RefAtOrBefore(p.End())
	if !c.noClip {
		if locs[0].side == timeline.Before && locs[1].side != timeline.Before {
			locs[0] = location{pos: 0}
			dropHead = false
		}
		if locs[1].side == timeline.After && locs[0].side != timeline.After {
			locs[1] = location{pos: tb.Len() - 1}
			dropTail = false
		}
	}
	return tb.resolve(strip(locs, dropHead, dropTail), c.schedule, "period "+p.String())
}

// FullInterval returns the interval of all workshifts.
func (tb *Timeboard) FullInterval(opts ...IntervalOption) (*Interval, error) {
	c, dropHead, dropTail, err := tb.intervalConfig(opts)
	if err != nil {
		return nil, err
	}
	locs := strip([2]location{{pos: 0}, {pos: tb.Len() - 1}}, dropHead, dropTail)
	return tb.resolve(locs, c.schedule, "of the whole timeline")
}

// Bounds returns the positions of the first and the last workshifts.
func (iv *Interval) Bounds() (first, last int) { return iv.first, iv.last }

// IsVoid reports whether the interval holds no workshifts.
func (iv *Interval) IsVoid() bool { return iv.void }

// Len returns the number of workshifts in the interval.
func (iv *Interval) Len() int {
	if iv.void {
		return 0
	}
	return iv.last - iv.first + 1
}

// Schedule returns the attached schedule.
func (iv *Interval) Schedule() *Schedule { return iv.schedule }

// WithSchedule returns a copy of the interval bound to s.
func (iv *Interval) WithSchedule(s *Schedule) *Interval {
	c := *iv
	c.schedule = s
	return &c
}

// Start returns when the first workshift starts. It is the zero time for a
// void interval.
func (iv *Interval) Start() time.Time {
	if iv.void {
		return time.Time{}
	}
	return iv.tb.tl.Start(iv.first)
}

// End returns when the last workshift ends. It is the zero time for a void
// interval.
func (iv *Interval) End() time.Time {
	if iv.void {
		return time.Time{}
	}
	return iv.tb.tl.End(iv.last)
}

// dutyBounds returns the range of the duty list of d that falls within the
// interval.
func (iv *Interval) dutyBounds(d types.Duty, s *Schedule) (lo, hi int, ok bool) {
	if iv.void {
		return 0, 0, false
	}
	return s.dutyRange(d, iv.first, iv.last)
}

// Workshifts returns the workshifts of the interval with duty d, in order.
func (iv *Interval) Workshifts(d types.Duty) []Workshift {
	lo, hi, ok := iv.dutyBounds(d, iv.schedule)
	if !ok {
		return nil
	}
	out := make([]Workshift, 0, hi-lo+1)
	for k := lo; k <= hi; k++ {
		out = append(out, Workshift{tb: iv.tb, loc: iv.schedule.dutyAt(d, k), schedule: iv.schedule})
	}
	return out
}

// Nth returns the n-th workshift with duty d, counting from zero. Negative
// n counts from the end, so -1 is the last one.
func (iv *Interval) Nth(n int, d types.Duty) (Workshift, error) {
	lo, hi, ok := iv.dutyBounds(d, iv.schedule)
	if !ok {
		return Workshift{}, fmt.Errorf("%w: duty %s not found in %s", types.ErrOutOfBounds, d, iv)
	}
	k := lo + n
	if n < 0 {
		k = hi + n + 1
	}
	if k < lo || k > hi {
		return Workshift{}, fmt.Errorf("%w: %s contains not enough %s-duty workshifts for n=%d",
			types.ErrOutOfBounds, iv, d, n)
	}
	return Workshift{tb: iv.tb, loc: iv.schedule.dutyAt(d, k), schedule: iv.schedule}, nil
}

// First is Nth(0, d).
func (iv *Interval) First(d types.Duty) (Workshift, error) { return iv.Nth(0, d) }

// Last is Nth(-1, d).
func (iv *Interval) Last(d types.Duty) (Workshift, error) { return iv.Nth(-1, d) }

// Count returns the number of workshifts with duty d.
func (iv *Interval) Count(d types.Duty) int { return iv.count(d, iv.schedule) }

func (iv *Interval) count(d types.Duty, s *Schedule) int {
	lo, hi, ok := iv.dutyBounds(d, s)
	if !ok {
		return 0
	}
	return hi - lo + 1
}

// Overlap returns the intersection of two intervals with the schedule of
// iv. The result is void when they do not intersect.
func (iv *Interval) Overlap(other *Interval) *Interval {
	out := &Interval{
		tb:       iv.tb,
		first:    max(iv.first, other.first),
		last:     min(iv.last, other.last),
		schedule: iv.schedule,
	}
	out.void = iv.void || other.void || out.first > out.last
	return out
}

// WhatPortionOf returns the share of the workshifts of other with duty d
// that also belong to iv. Both are evaluated with the schedule of iv.
func (iv *Interval) WhatPortionOf(other *Interval, d types.Duty) float64 {
	x := iv.Overlap(other).count(d, iv.schedule)
	if x == 0 {
		return 0
	}
	return float64(x) / float64(other.count(d, iv.schedule))
}

// TotalDuration returns the number of base units in the workshifts with
// duty d.
func (iv *Interval) TotalDuration(d types.Duty) int {
	total := 0
	for _, w := range iv.Workshifts(d) {
		total += w.Duration()
	}
	return total
}

// Worktime sums the work time of the workshifts with duty d.
func (iv *Interval) Worktime(d types.Duty) (float64, error) {
	if iv.tb.cfg.WorktimeSource != types.WorktimeLabels {
		return float64(iv.TotalDuration(d)), nil
	}
	var total float64
	for _, w := range iv.Workshifts(d) {
		v, err := iv.tb.worktimeOf(w.loc)
		if err != nil {
			return 0, err
		}
		total += v
	}
	return total, nil
}

// CountPeriods counts the calendar periods of frequency f covered by the
// interval, duty-wise.
//
// Each period overlapping the interval contributes the number of its
// workshifts with duty d that lie in the interval divided by the number of
// its workshifts with duty d; a period without such workshifts contributes
// zero. Workshifts belong to the period holding their reference instant.
// The result is zero when the interval has no workshifts with duty d.
//
// A period that reaches beyond the timeboard fails with
// ErrPartialOutOfBounds. A period holding no reference instant, a
// multiplied frequency, or one finer than the base unit fails with
// ErrUnacceptablePeriod.
func (iv *Interval) CountPeriods(f calendar.Freq, d types.Duty) (float64, error) {
	if f.IsMultiple() || f.Unit < iv.tb.freq.Unit {
		return 0, fmt.Errorf("%w: cannot count periods %s over base unit %s",
			types.ErrUnacceptablePeriod, f, iv.tb.freq)
	}
	first, err := iv.First(d)
	if err != nil {
		return 0, nil
	}
	last, err := iv.Last(d)
	if err != nil {
		return 0, nil
	}

	periods, err := calendar.Range(iv.Start(), iv.End(), f)
	if err != nil {
		return 0, fmt.Errorf("count periods %s: %w", f, err)
	}
	ivls := make([]*Interval, len(periods))
	for k, p := range periods {
		pi, err := iv.tb.IntervalFromPeriod(p, NoClip(), WithSchedule(iv.schedule))
		switch {
		case err == nil:
			ivls[k] = pi
		case errors.Is(err, types.ErrOutOfBounds):
		case errors.Is(err, types.ErrVoidInterval):
			return 0, fmt.Errorf("%w: periods %s are shorter than workshifts in %s",
				types.ErrUnacceptablePeriod, f, iv)
		default:
			return 0, fmt.Errorf("count periods %s: %w", f, err)
		}
	}

	from, to := periodIndex(periods, first.RefTime()), periodIndex(periods, last.RefTime())
	var result float64
	for k := from; k <= to; k++ {
		if k < 0 || ivls[k] == nil {
			continue
		}
		den := ivls[k].count(d, iv.schedule)
		if den == 0 {
			continue
		}
		result += float64(iv.Overlap(ivls[k]).count(d, iv.schedule)) / float64(den)
	}
	return result, nil
}

func periodIndex(periods []calendar.Period, t time.Time) int {
	for k, p := range periods {
		if p.Contains(t) {
			return k
		}
	}
	return -1
}

// String returns "Interval((2, 8)): 'D' at 2017-10-02 -> 'D' at 2017-10-08 [7]".
func (iv *Interval) String() string {
	sched := ""
	if iv.schedule != iv.tb.schedule {
		sched = ", " + iv.schedule.name
	}
	if iv.void {
		return fmt.Sprintf("Interval((%d, %d)%s): void [0]", iv.first, iv.last, sched)
	}
	a := Workshift{tb: iv.tb, loc: iv.first, schedule: iv.schedule}
	b := Workshift{tb: iv.tb, loc: iv.last, schedule: iv.schedule}
	return fmt.Sprintf("Interval((%d, %d)%s): %s -> %s [%d]", iv.first, iv.last, sched, a.compact(), b.compact(), iv.Len())
}
