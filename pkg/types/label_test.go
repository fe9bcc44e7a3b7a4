package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruthy(t *testing.T) {
	tests := []struct {
		name  string
		label Label
		want  bool
	}{
		{"nil", nil, false},
		{"zero int", 0, false},
		{"one", 1, true},
		{"negative", -2, true},
		{"zero float", 0.0, false},
		{"nan", math.NaN(), false},
		{"fraction", 0.5, true},
		{"empty string", "", false},
		{"string", "A", true},
		{"string zero", "0", true},
		{"false", false, false},
		{"true", true, true},
		{"empty slice", []int{}, false},
		{"slice", []int{0}, true},
		{"struct", struct{}{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truthy(tt.label))
		})
	}
}

func TestOneOf(t *testing.T) {
	sel := OneOf("A", 2)
	assert.True(t, sel("A"))
	assert.True(t, sel(2.0))
	assert.True(t, sel(int64(2)))
	assert.False(t, sel("B"))
	assert.False(t, sel(nil))
	assert.False(t, sel([]int{2}))
}

func TestLabelsEqual(t *testing.T) {
	assert.True(t, LabelsEqual(1, 1.0))
	assert.True(t, LabelsEqual(nil, nil))
	assert.True(t, LabelsEqual(true, 1))
	assert.False(t, LabelsEqual("1", 1))
	assert.False(t, LabelsEqual(nil, 0))
	assert.False(t, LabelsEqual([]int{1}, []int{1}))
}

func TestParseDuty(t *testing.T) {
	for _, d := range []Duty{DutyOn, DutyOff, DutyAny} {
		got, err := ParseDuty(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, got)
		assert.True(t, got.Valid())
	}
	_, err := ParseDuty("same")
	assert.ErrorIs(t, err, ErrInvalidDuty)
	assert.False(t, Duty(7).Valid())
}

func TestRememberingPattern(t *testing.T) {
	p := NewRememberingPattern("a", "b", "c")
	assert.Equal(t, "a", p.Next())
	p.Skip(4)
	assert.Equal(t, 2, p.Cursor())
	assert.Equal(t, "c", p.Next())
	assert.Equal(t, "a", p.Next())
	p.Restore(1)
	assert.Equal(t, "b", p.Next())

	empty := NewRememberingPattern()
	assert.Nil(t, empty.Next())
	empty.Skip(3)
	assert.Equal(t, 0, empty.Cursor())
}
