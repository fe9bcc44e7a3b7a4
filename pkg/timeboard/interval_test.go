// Tests for interval construction, duty queries and period counting.
package timeboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/timeboard/pkg/calendar"
	"github.com/mesh-intelligence/timeboard/pkg/types"
)

func bounds(t *testing.T, ivl *Interval, err error) [2]int {
	t.Helper()
	require.NoError(t, err)
	first, last := ivl.Bounds()
	return [2]int{first, last}
}

func TestIntervalConstruction(t *testing.T) {
	tb := odd(t)
	week := calendar.MustParseFreq("W")
	month := calendar.MustParseFreq("M")

	tests := []struct {
		name string
		make func() (*Interval, error)
		want [2]int
	}{
		{"from two points", func() (*Interval, error) { return tb.Interval(day(2017, 10, 2), day(2017, 10, 8)) }, [2]int{2, 8}},
		{"from positions", func() (*Interval, error) { return tb.IntervalAt(2, 8) }, [2]int{2, 8}},
		{"by length", func() (*Interval, error) { return tb.IntervalOfLength(day(2017, 10, 2), 7) }, [2]int{2, 8}},
		{"by negative length", func() (*Interval, error) { return tb.IntervalOfLength(day(2017, 10, 8), -7) }, [2]int{2, 8}},
		{"by length one", func() (*Interval, error) { return tb.IntervalOfLength(day(2017, 10, 8), 1) }, [2]int{8, 8}},
		{"from period", func() (*Interval, error) { return tb.IntervalOfPeriod(day(2017, 10, 5), week) }, [2]int{2, 8}},
		{"from period value", func() (*Interval, error) {
			return tb.IntervalFromPeriod(calendar.PeriodOf(day(2017, 10, 5), week))
		}, [2]int{2, 8}},
		{"period clipped on the right", func() (*Interval, error) { return tb.IntervalOfPeriod(day(2017, 10, 1), month) }, [2]int{1, 15}},
		{"period clipped on the left", func() (*Interval, error) { return tb.IntervalOfPeriod(day(2017, 9, 30), month) }, [2]int{0, 0}},
		{"whole timeline", func() (*Interval, error) { return tb.FullInterval() }, [2]int{0, 15}},
		{"open head", func() (*Interval, error) {
			return tb.Interval(day(2017, 10, 2), day(2017, 10, 8), WithClosed("01"))
		}, [2]int{3, 8}},
		{"open tail", func() (*Interval, error) {
			return tb.Interval(day(2017, 10, 2), day(2017, 10, 8), WithClosed("10"))
		}, [2]int{2, 7}},
		{"open both ends", func() (*Interval, error) {
			return tb.IntervalOfPeriod(day(2017, 10, 5), week, WithClosed("00"))
		}, [2]int{3, 7}},
		{"clipped end is kept", func() (*Interval, error) {
			return tb.IntervalOfPeriod(day(2017, 10, 1), month, WithClosed("00"))
		}, [2]int{2, 15}},
		{"whole timeline open", func() (*Interval, error) { return tb.FullInterval(WithClosed("00")) }, [2]int{1, 14}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ivl, err := tt.make()
			assert.Equal(t, tt.want, bounds(t, ivl, err))
		})
	}
}

func TestIntervalConstruction_Errors(t *testing.T) {
	tb := odd(t)
	month := calendar.MustParseFreq("M")

	tests := []struct {
		name    string
		make    func() (*Interval, error)
		wantErr error
	}{
		{"reversed", func() (*Interval, error) { return tb.Interval(day(2017, 10, 8), day(2017, 10, 2)) }, types.ErrVoidInterval},
		{"reversed across the edge", func() (*Interval, error) { return tb.Interval(day(2017, 10, 3), day(2017, 9, 1)) }, types.ErrVoidInterval},
		{"stripped to nothing", func() (*Interval, error) {
			return tb.Interval(day(2017, 10, 2), day(2017, 10, 3), WithClosed("00"))
		}, types.ErrVoidInterval},
		{"zero length", func() (*Interval, error) { return tb.IntervalOfLength(day(2017, 10, 2), 0) }, types.ErrVoidInterval},
		{"completely before", func() (*Interval, error) { return tb.Interval(day(2017, 9, 1), day(2017, 9, 2)) }, types.ErrOutOfBounds},
		{"completely after", func() (*Interval, error) { return tb.Interval(day(2017, 11, 1), day(2017, 11, 2)) }, types.ErrOutOfBounds},
		{"left bound outside", func() (*Interval, error) { return tb.Interval(day(2017, 9, 1), day(2017, 10, 3)) }, types.ErrPartialOutOfBounds},
		{"right bound outside", func() (*Interval, error) { return tb.Interval(day(2017, 10, 3), day(2017, 11, 1)) }, types.ErrPartialOutOfBounds},
		{"both bounds outside", func() (*Interval, error) { return tb.Interval(day(2017, 9, 1), day(2017, 11, 1)) }, types.ErrPartialOutOfBounds},
		{"length beyond the end", func() (*Interval, error) { return tb.IntervalOfLength(day(2017, 10, 10), 10) }, types.ErrPartialOutOfBounds},
		{"length before the start", func() (*Interval, error) { return tb.IntervalOfLength(day(2017, 10, 2), -5) }, types.ErrPartialOutOfBounds},
		{"length from outside", func() (*Interval, error) { return tb.IntervalOfLength(day(2017, 9, 1), 3) }, types.ErrOutOfBounds},
		{"position outside", func() (*Interval, error) { return tb.IntervalAt(0, 16) }, types.ErrOutOfBounds},
		{"reversed positions", func() (*Interval, error) { return tb.IntervalAt(5, 4) }, types.ErrVoidInterval},
		{"period outside", func() (*Interval, error) { return tb.IntervalOfPeriod(day(2017, 11, 5), month) }, types.ErrOutOfBounds},
		{"period not clipped", func() (*Interval, error) { return tb.IntervalOfPeriod(day(2017, 10, 1), month, NoClip()) }, types.ErrPartialOutOfBounds},
		{"bad closure", func() (*Interval, error) { return tb.FullInterval(WithClosed("1")) }, types.ErrInvalidClosed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ivl, err := tt.make()
			assert.Nil(t, ivl)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestIntervalFromPeriod_NoReferenceInstant(t *testing.T) {
	org := &types.Organizer{Marker: &types.Marker{Each: "W"}, Structure: []types.Element{types.Scalar(1)}}
	tb := newBoard(t, types.Config{BaseUnitFreq: "D", Start: day(2017, 10, 2), End: day(2017, 10, 29), Layout: org})
	require.Equal(t, 4, tb.Len())

	_, err := tb.IntervalOfPeriod(day(2017, 10, 4), calendar.MustParseFreq("D"))
	assert.ErrorIs(t, err, types.ErrVoidInterval)

	ivl, err := tb.IntervalOfPeriod(day(2017, 10, 9), calendar.MustParseFreq("D"))
	assert.Equal(t, [2]int{1, 1}, bounds(t, ivl, err))
}

func TestIntervalString(t *testing.T) {
	tb := odd(t)
	ivl, err := tb.Interval(day(2017, 10, 2), day(2017, 10, 8))
	require.NoError(t, err)
	assert.Equal(t, "Interval((2, 8)): 'D' at 2017-10-02 -> 'D' at 2017-10-08 [7]", ivl.String())
	assert.Equal(t, 7, ivl.Len())
	assert.Equal(t, day(2017, 10, 2), ivl.Start())
	assert.Equal(t, day(2017, 10, 9).Add(-time.Nanosecond), ivl.End())

	full, err := tb.FullInterval()
	require.NoError(t, err)
	assert.Equal(t, "Interval((0, 15)): 'D' at 2017-09-30 -> 'D' at 2017-10-15 [16]", full.String())

	evens, err := tb.AddSchedule("evens", types.OneOf(0))
	require.NoError(t, err)
	assert.Equal(t, "Interval((2, 8), evens): 'D' at 2017-10-02 -> 'D' at 2017-10-08 [7]", ivl.WithSchedule(evens).String())
}

func TestIntervalDutyQueries(t *testing.T) {
	tb := odd(t)
	ivl, err := tb.Interval(day(2017, 10, 2), day(2017, 10, 8))
	require.NoError(t, err)

	nth := []struct {
		name string
		n    int
		duty types.Duty
		want int
	}{
		{"second on duty", 1, types.DutyOn, 5},
		{"second off duty", 1, types.DutyOff, 4},
		{"second of any", 1, types.DutyAny, 3},
		{"last on duty", -1, types.DutyOn, 7},
		{"last off duty", -1, types.DutyOff, 8},
		{"second to last of any", -2, types.DutyAny, 7},
	}
	for _, tt := range nth {
		t.Run(tt.name, func(t *testing.T) {
			ws, err := ivl.Nth(tt.n, tt.duty)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ws.Loc())
		})
	}

	_, err = ivl.Nth(10, types.DutyOn)
	assert.ErrorIs(t, err, types.ErrOutOfBounds)
	_, err = ivl.Nth(-5, types.DutyOn)
	assert.ErrorIs(t, err, types.ErrOutOfBounds)

	first, err := ivl.First(types.DutyOn)
	require.NoError(t, err)
	assert.Equal(t, 3, first.Loc())
	firstOff, err := ivl.First(types.DutyOff)
	require.NoError(t, err)
	assert.Equal(t, 2, firstOff.Loc())
	last, err := ivl.Last(types.DutyAny)
	require.NoError(t, err)
	assert.Equal(t, 8, last.Loc())

	assert.Equal(t, 3, ivl.Count(types.DutyOn))
	assert.Equal(t, 4, ivl.Count(types.DutyOff))
	assert.Equal(t, 7, ivl.Count(types.DutyAny))

	var offLocs []int
	for _, ws := range ivl.Workshifts(types.DutyOff) {
		offLocs = append(offLocs, ws.Loc())
	}
	assert.Equal(t, []int{2, 4, 6, 8}, offLocs)
	assert.Len(t, ivl.Workshifts(types.DutyAny), 7)

	evens, err := tb.AddSchedule("evens", types.OneOf(0))
	require.NoError(t, err)
	other := ivl.WithSchedule(evens)
	assert.Same(t, evens, other.Schedule())
	assert.Equal(t, 4, other.Count(types.DutyOn))
	assert.Equal(t, 3, ivl.Count(types.DutyOn))

	sched, err := tb.Interval(day(2017, 10, 2), day(2017, 10, 8), WithSchedule(evens))
	require.NoError(t, err)
	assert.Equal(t, 4, sched.Count(types.DutyOn))
}

func TestIntervalOverlap(t *testing.T) {
	tb := odd(t)
	a, err := tb.IntervalAt(2, 9)
	require.NoError(t, err)
	b, err := tb.IntervalAt(8, 11)
	require.NoError(t, err)
	c, err := tb.IntervalAt(10, 11)
	require.NoError(t, err)

	x := a.Overlap(b)
	assert.False(t, x.IsVoid())
	assert.Equal(t, [2]int{8, 9}, bounds(t, x, nil))

	void := a.Overlap(c)
	assert.True(t, void.IsVoid())
	assert.Equal(t, "Interval((10, 9)): void [0]", void.String())
	assert.Equal(t, 0, void.Len())
	assert.Equal(t, 0, void.Count(types.DutyAny))
	assert.Empty(t, void.Workshifts(types.DutyAny))
	assert.True(t, void.Start().IsZero())
	assert.True(t, void.End().IsZero())
	assert.Equal(t, 0, void.TotalDuration(types.DutyAny))
	_, err = void.First(types.DutyAny)
	assert.ErrorIs(t, err, types.ErrOutOfBounds)
	n, err := void.CountPeriods(calendar.MustParseFreq("D"), types.DutyAny)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.True(t, void.Overlap(a).IsVoid())
}

func TestWhatPortionOf(t *testing.T) {
	tb := daily(t, day(2017, 10, 2), day(2017, 10, 15), 1, 1, 1, 1, 1, 0, 0)
	week := calendar.MustParseFreq("W")
	week1, err := tb.IntervalOfPeriod(day(2017, 10, 2), week)
	require.NoError(t, err)
	week2, err := tb.IntervalOfPeriod(day(2017, 10, 9), week)
	require.NoError(t, err)
	ivl, err := tb.Interval(day(2017, 10, 5), day(2017, 10, 7))
	require.NoError(t, err)
	decade, err := tb.Interval(day(2017, 10, 2), day(2017, 10, 11))
	require.NoError(t, err)
	weekend, err := tb.Interval(day(2017, 10, 7), day(2017, 10, 8))
	require.NoError(t, err)

	tests := []struct {
		name  string
		part  *Interval
		whole *Interval
		duty  types.Duty
		want  float64
	}{
		{"working days", ivl, week1, types.DutyOn, 0.4},
		{"days off", ivl, week1, types.DutyOff, 0.5},
		{"all days", ivl, week1, types.DutyAny, 3.0 / 7.0},
		{"no overlap", ivl, week2, types.DutyAny, 0},
		{"covers the whole week", decade, week1, types.DutyOn, 1},
		{"no working days in the weekend", weekend, week1, types.DutyOn, 0},
		{"all days off in the weekend", weekend, week1, types.DutyOff, 1},
		{"period against itself", week1, week1, types.DutyOn, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.part.WhatPortionOf(tt.whole, tt.duty), 1e-12)
		})
	}
}

func TestTotalDurationAndWorktime(t *testing.T) {
	org := &types.Organizer{
		Marks:     []time.Time{day(2017, 10, 3), day(2017, 10, 7), day(2017, 10, 9)},
		Structure: []types.Element{types.Scalar(0), types.Scalar(1)},
	}
	tb := newBoard(t, types.Config{BaseUnitFreq: "D", Start: day(2017, 9, 30), End: day(2017, 10, 11), Layout: org})
	ivl, err := tb.FullInterval()
	require.NoError(t, err)
	assert.Equal(t, "Interval((0, 3)): 3x'D' at 2017-09-30 -> 3x'D' at 2017-10-09 [4]", ivl.String())
	assert.Equal(t, 7, ivl.TotalDuration(types.DutyOn))
	assert.Equal(t, 5, ivl.TotalDuration(types.DutyOff))
	assert.Equal(t, 12, ivl.TotalDuration(types.DutyAny))

	above4 := func(l types.Label) bool {
		v, ok := types.AsNumber(l)
		return ok && v > 4
	}
	tests := []struct {
		name   string
		source types.WorktimeSource
		want   [3]float64
	}{
		{"from duration", types.WorktimeDuration, [3]float64{2, 1, 3}},
		{"from labels", types.WorktimeLabels, [3]float64{16, 4, 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := newBoard(t, types.Config{
				BaseUnitFreq:    "D",
				Start:           day(2017, 9, 30),
				End:             day(2017, 10, 11),
				Layout:          types.PatternLayout(4, 8, 4, 8),
				DefaultSelector: above4,
				WorktimeSource:  tt.source,
			})
			ivl, err := tb.IntervalAt(1, 3)
			require.NoError(t, err)
			for i, d := range []types.Duty{types.DutyOn, types.DutyOff, types.DutyAny} {
				got, err := ivl.Worktime(d)
				require.NoError(t, err)
				assert.Equal(t, tt.want[i], got, d.String())
			}
		})
	}
}

func TestWorktime_NotNumeric(t *testing.T) {
	tb := newBoard(t, types.Config{
		BaseUnitFreq:   "D",
		Start:          day(2017, 10, 1),
		End:            day(2017, 10, 4),
		Layout:         types.PatternLayout(8, "x"),
		WorktimeSource: types.WorktimeLabels,
	})
	ivl, err := tb.FullInterval()
	require.NoError(t, err)
	_, err = ivl.Worktime(types.DutyOn)
	assert.ErrorIs(t, err, types.ErrNotNumeric)
}

// weekdays builds 28 Nov 2016 .. 2 May 2017 with five working days a week
// and the first ten days of January off.
func weekdays(t *testing.T) *Timeboard {
	t.Helper()
	var amendments []types.Amendment
	for d := 1; d <= 10; d++ {
		amendments = append(amendments, types.Amendment{At: day(2017, 1, d), Label: 0})
	}
	return newBoard(t, types.Config{
		BaseUnitFreq: "D",
		Start:        day(2016, 11, 28),
		End:          day(2017, 5, 2),
		Layout: &types.Organizer{
			Marker:    &types.Marker{Each: "W"},
			Structure: []types.Element{types.Labels(1, 1, 1, 1, 1, 0, 0)},
		},
		Amendments: amendments,
	})
}

func TestCountPeriods(t *testing.T) {
	tb := weekdays(t)
	month := calendar.MustParseFreq("M")

	tests := []struct {
		name string
		from time.Time
		to   time.Time
		freq calendar.Freq
		duty types.Duty
		want float64
	}{
		{"months on duty", day(2016, 12, 29), day(2017, 4, 1), month, types.DutyOn, 2.0/22 + 3},
		{"months off duty", day(2016, 12, 29), day(2017, 4, 1), month, types.DutyOff, 1.0/9 + 3 + 1.0/10},
		{"months of any duty", day(2016, 12, 29), day(2017, 4, 1), month, types.DutyAny, 3.0/31 + 3 + 1.0/30},
		{"whole months", day(2017, 2, 1), day(2017, 3, 31), month, types.DutyOn, 2},
		{"part of one month", day(2017, 2, 6), day(2017, 2, 10), month, types.DutyOn, 5.0 / 20},
		{"no duty in the interval", day(2016, 12, 31), day(2017, 1, 8), month, types.DutyOn, 0},
		{"no duty even for years", day(2016, 12, 31), day(2017, 1, 8), calendar.MustParseFreq("A"), types.DutyOn, 0},
		{"off duty near the start", day(2016, 11, 29), day(2016, 12, 1), month, types.DutyOff, 0},
		{"weeks", day(2017, 2, 6), day(2017, 2, 15), calendar.MustParseFreq("W"), types.DutyOn, 1 + 3.0/5},
		{"days", day(2017, 2, 6), day(2017, 2, 12), calendar.MustParseFreq("D"), types.DutyAny, 7},
		{"quarters", day(2017, 1, 1), day(2017, 3, 31), calendar.MustParseFreq("Q"), types.DutyOn, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ivl, err := tb.Interval(tt.from, tt.to)
			require.NoError(t, err)
			got, err := ivl.CountPeriods(tt.freq, tt.duty)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestCountPeriods_Errors(t *testing.T) {
	tb := weekdays(t)
	org := &types.Organizer{Marker: &types.Marker{Each: "W"}, Structure: []types.Element{types.Scalar(1)}}
	weekly := newBoard(t, types.Config{BaseUnitFreq: "D", Start: day(2017, 10, 2), End: day(2017, 10, 29), Layout: org})

	tests := []struct {
		name    string
		tb      *Timeboard
		from    time.Time
		to      time.Time
		freq    string
		wantErr error
	}{
		{"period reaches before the timeboard", tb, day(2016, 11, 29), day(2016, 12, 1), "M", types.ErrPartialOutOfBounds},
		{"period reaches after the timeboard", tb, day(2017, 4, 28), day(2017, 5, 2), "M", types.ErrPartialOutOfBounds},
		{"multiplied frequency", tb, day(2017, 2, 1), day(2017, 3, 31), "2M", types.ErrUnacceptablePeriod},
		{"finer than the base unit", tb, day(2017, 2, 1), day(2017, 3, 31), "H", types.ErrUnacceptablePeriod},
		{"shorter than workshifts", weekly, day(2017, 10, 2), day(2017, 10, 29), "D", types.ErrUnacceptablePeriod},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ivl, err := tt.tb.Interval(tt.from, tt.to)
			require.NoError(t, err)
			_, err = ivl.CountPeriods(calendar.MustParseFreq(tt.freq), types.DutyOn)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCountPeriods_Hourly(t *testing.T) {
	tb := newBoard(t, types.Config{
		BaseUnitFreq: "H",
		Start:        day(2017, 10, 1),
		End:          day(2017, 10, 8).Add(23*time.Hour + 59*time.Minute),
		Layout:       types.PatternLayout(0, 1),
	})
	ivl, err := tb.Interval(day(2017, 10, 1).Add(11*time.Hour), day(2017, 10, 2).Add(23*time.Hour+59*time.Minute))
	require.NoError(t, err)
	d := calendar.MustParseFreq("D")

	tests := []struct {
		duty types.Duty
		want float64
	}{
		{types.DutyAny, 13.0/24 + 1},
		{types.DutyOn, 7.0/12 + 1},
		{types.DutyOff, 6.0/12 + 1},
	}
	for _, tt := range tests {
		t.Run(tt.duty.String(), func(t *testing.T) {
			got, err := ivl.CountPeriods(d, tt.duty)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}

	_, err = ivl.CountPeriods(calendar.MustParseFreq("W"), types.DutyOn)
	assert.ErrorIs(t, err, types.ErrPartialOutOfBounds)
}
