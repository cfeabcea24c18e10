package sheet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAsDate(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  time.Time
	}{
		{"time drops clock", time.Date(2024, 1, 5, 13, 45, 0, 0, time.UTC), day(2024, 1, 5)},
		{"dotted text", "05.01.2024", day(2024, 1, 5)},
		{"dotted text with spaces", " 05.01.2024 ", day(2024, 1, 5)},
		{"iso text", "2024-01-05", day(2024, 1, 5)},
		{"slashed text", "05/01/2024", day(2024, 1, 5)},
		{"excel serial", 45292.0, day(2024, 1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AsDate(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}

	_, err := AsDate("not a date")
	assert.Error(t, err)
	_, err = AsDate(true)
	assert.Error(t, err)
}

func TestAsFloat(t *testing.T) {
	tests := []struct {
		input any
		want  float64
	}{
		{10.5, 10.5},
		{"10.5", 10.5},
		{"10,5", 10.5},
		{" 7 ", 7},
		{int64(3), 3},
	}
	for _, tt := range tests {
		got, err := AsFloat(tt.input)
		require.NoError(t, err, "input %v", tt.input)
		assert.Equal(t, tt.want, got)
	}

	_, err := AsFloat("heavy")
	assert.Error(t, err)
}

func TestAsString(t *testing.T) {
	assert.Nil(t, AsString(nil))
	assert.Nil(t, AsString("   "))

	s := AsString("delivered")
	require.NotNil(t, s)
	assert.Equal(t, "delivered", *s)

	n := AsString(12345.0)
	require.NotNil(t, n)
	assert.Equal(t, "12345", *n)

	d := AsString(day(2024, 3, 1))
	require.NotNil(t, d)
	assert.Equal(t, "2024-03-01", *d)
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(nil))
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty(" \t"))
	assert.False(t, IsEmpty("x"))
	assert.False(t, IsEmpty(0.0))
	assert.False(t, IsEmpty(false))
}
