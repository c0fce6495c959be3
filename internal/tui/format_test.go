package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil", nil, ""},
		{"string", "single", "single"},
		{"int", 100000, "100,000"},
		{"int64", int64(1234), "1,234"},
		{"float", 3.14159, "3.14"},
		{"true", true, "yes"},
		{"false", false, "no"},
		{"other", uint8(7), "7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.value))
		})
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"ab", 5, "ab   "},
		{"abcd", 5, "abcd "},
		{"abcdef", 5, "abc… "},
		{"abc", 1, "a"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fit(tt.in, tt.width), "fit(%q, %d)", tt.in, tt.width)
	}
}

func TestCenter(t *testing.T) {
	assert.Equal(t, "  ab  ", center("ab", 6))
	assert.Equal(t, " ab  ", center("ab", 5))
	assert.Equal(t, "abc… ", center("abcdef", 5))
}

func TestClip(t *testing.T) {
	assert.Equal(t, "cde", clip("abcdef", 2, 3))
	assert.Equal(t, "f  ", clip("abcdef", 5, 3))
	assert.Equal(t, "   ", clip("ab", 4, 3))
	assert.Empty(t, clip("abc", 0, 0))
}
