package definition

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/timeboard/pkg/types"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

const weekly = `
base_unit_freq: D
start: 2017-10-02
end: 2017-10-15
default_name: business
layout:
  marker: {each: W}
  structure:
    - [1, 1, 1, 1, 1, 0, 0]
amendments:
  - {at: 2017-10-04, label: 0}
schedules:
  - {name: weekends, on: [0]}
`

func TestParse(t *testing.T) {
	d, err := Parse([]byte(weekly))
	require.NoError(t, err)

	cfg := d.Config
	assert.Equal(t, "D", cfg.BaseUnitFreq)
	assert.Equal(t, day(2017, 10, 2), cfg.Start)
	assert.Equal(t, day(2017, 10, 15), cfg.End)
	assert.Equal(t, "business", cfg.DefaultName)
	require.NotNil(t, cfg.Layout)
	require.NotNil(t, cfg.Layout.Marker)
	assert.Equal(t, "W", cfg.Layout.Marker.Each)
	require.Len(t, cfg.Layout.Structure, 1)
	assert.Equal(t, types.ElementPattern, cfg.Layout.Structure[0].Kind)
	assert.Equal(t, types.Pattern{1, 1, 1, 1, 1, 0, 0}, cfg.Layout.Structure[0].Pattern)
	assert.Equal(t, []types.Amendment{{At: day(2017, 10, 4), Label: 0}}, cfg.Amendments)
	assert.Equal(t, []ScheduleDef{{Name: "weekends", On: []types.Label{0}}}, d.Schedules)
}

func TestBuild(t *testing.T) {
	d, err := Parse([]byte(weekly))
	require.NoError(t, err)
	tb, err := d.Build(nil)
	require.NoError(t, err)

	assert.Equal(t, 14, tb.Len())
	assert.Equal(t, "business", tb.DefaultSchedule().Name())
	assert.Equal(t, []string{"business", "weekends"}, tb.Schedules())

	ivl, err := tb.FullInterval()
	require.NoError(t, err)
	assert.Equal(t, 9, ivl.Count(types.DutyOn))

	weekends, err := tb.Schedule("weekends")
	require.NoError(t, err)
	assert.Equal(t, 5, ivl.WithSchedule(weekends).Count(types.DutyOn))
}

func TestParse_Elements(t *testing.T) {
	src := `
base_unit_freq: H
start: 2017-10-01 00:00
end: 2017-10-03 23:00
default_on: [A, B]
patterns:
  crews: [A, B, X]
layout:
  marker:
    each: D
    at: [{hours: 8}]
  structure:
    - marks: [2017-10-01 16:00]
      structure:
        - {remember: crews}
        - off
    - [A]
`
	d, err := Parse([]byte(src))
	require.NoError(t, err)
	org := d.Config.Layout
	require.Len(t, org.Structure, 2)
	assert.Equal(t, []types.At{{"hours": 8}}, org.Marker.At)

	nested := org.Structure[0]
	require.Equal(t, types.ElementOrganizer, nested.Kind)
	assert.Equal(t, []time.Time{time.Date(2017, 10, 1, 16, 0, 0, 0, time.UTC)}, nested.Organizer.Marks)
	require.Len(t, nested.Organizer.Structure, 2)
	assert.Equal(t, types.ElementRemembering, nested.Organizer.Structure[0].Kind)
	assert.Equal(t, []types.Label{"A", "B", "X"}, nested.Organizer.Structure[0].Remembering.Labels())
	assert.Equal(t, types.Scalar("off"), nested.Organizer.Structure[1])
	assert.Equal(t, types.Labels("A"), org.Structure[1])

	sel := d.Config.DefaultSelector
	require.NotNil(t, sel)
	assert.True(t, sel("B"))
	assert.False(t, sel("X"))
}

func TestParse_SharedRememberingPattern(t *testing.T) {
	src := `
base_unit_freq: D
start: 2017-10-01
end: 2017-10-06
patterns:
  p: [1, 2, 3]
layout:
  marks: [2017-10-04]
  structure:
    - {remember: p}
    - {remember: p}
`
	d, err := Parse([]byte(src))
	require.NoError(t, err)
	s := d.Config.Layout.Structure
	require.Len(t, s, 2)
	assert.Same(t, s[0].Remembering, s[1].Remembering)

	tb, err := d.Build(nil)
	require.NoError(t, err)
	assert.Equal(t, []types.Label{1, 2, 3, 1, 2, 3}, tb.Labels())
}

func TestParse_LayoutForms(t *testing.T) {
	tests := []struct {
		name   string
		layout string
		want   types.ElementKind
	}{
		{"sequence is a plain pattern", "layout: [1, 0]", types.ElementPattern},
		{"remember is a remembering pattern", "layout: {remember: p}", types.ElementRemembering},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "base_unit_freq: D\nstart: 2017-10-01\nend: 2017-10-02\npatterns: {p: [1]}\n" + tt.layout + "\n"
			d, err := Parse([]byte(src))
			require.NoError(t, err)
			require.Len(t, d.Config.Layout.Structure, 1)
			assert.Equal(t, tt.want, d.Config.Layout.Structure[0].Kind)
		})
	}

	src := "base_unit_freq: D\nstart: 2017-10-01\nend: 2017-10-02\nlayout:\n  structure_from: p\npatterns: {p: [1]}\n"
	d, err := Parse([]byte(src))
	require.NoError(t, err)
	assert.NotNil(t, d.Config.Layout.StructureFrom)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"not yaml", "layout: [1, 0"},
		{"missing layout", "base_unit_freq: D\nstart: 2017-10-01\nend: 2017-10-02\n"},
		{"scalar layout", "base_unit_freq: D\nstart: 2017-10-01\nend: 2017-10-02\nlayout: 1\n"},
		{"unknown pattern", "base_unit_freq: D\nstart: 2017-10-01\nend: 2017-10-02\nlayout: {remember: nope}\n"},
		{"bad start", "base_unit_freq: D\nstart: someday\nend: 2017-10-02\nlayout: [1]\n"},
		{"unnamed schedule", "base_unit_freq: D\nstart: 2017-10-01\nend: 2017-10-02\nlayout: [1]\nschedules: [{on: [1]}]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			assert.Error(t, err)
		})
	}
}

func TestBuild_InvalidConfig(t *testing.T) {
	d, err := Parse([]byte("base_unit_freq: D\nstart: 2017-10-02\nend: 2017-10-01\nlayout: [1]\n"))
	require.NoError(t, err)
	_, err = d.Build(nil)
	assert.ErrorIs(t, err, types.ErrVoidInterval)

	d, err = Parse([]byte("base_unit_freq: D\nstart: 2017-10-01\nend: 2017-10-02\nlayout: [1]\nschedules: [{name: on_duty}]\n"))
	require.NoError(t, err)
	_, err = d.Build(nil)
	assert.ErrorIs(t, err, types.ErrScheduleExists)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weekly.yaml")
	require.NoError(t, os.WriteFile(path, []byte(weekly), 0o644))

	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "D", d.Config.BaseUnitFreq)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestExamples(t *testing.T) {
	tests := []struct {
		file     string
		schedule string
		wantOn   int
	}{
		{"office.yaml", "business_days", 256},
		{"crews.yaml", "crew_a", 46},
		{"variable.yaml", "on_duty", 130},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			d, err := Load(filepath.Join("..", "..", "examples", tt.file))
			require.NoError(t, err)
			tb, err := d.Build(nil)
			require.NoError(t, err)
			s, err := tb.Schedule(tt.schedule)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOn, s.Count(types.DutyOn))
		})
	}

	t.Run("labels carry hours", func(t *testing.T) {
		d, err := Load(filepath.Join("..", "..", "examples", "variable.yaml"))
		require.NoError(t, err)
		tb, err := d.Build(nil)
		require.NoError(t, err)
		ivl, err := tb.Interval(day(2024, 1, 1), day(2024, 1, 7))
		require.NoError(t, err)
		wt, err := ivl.Worktime(types.DutyOn)
		require.NoError(t, err)
		assert.Equal(t, 40.0, wt)
	})
}
