package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Duration
		expected string
	}{
		{name: "zero", input: 0, expected: "0m"},
		{name: "minutes only", input: 45 * time.Minute, expected: "45m"},
		{name: "exact hour", input: time.Hour, expected: "1h 0m"},
		{name: "hours and minutes", input: 90 * time.Minute, expected: "1h 30m"},
		{name: "seconds dropped", input: 2*time.Minute + 30*time.Second, expected: "2m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDuration(tt.input))
		})
	}
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "2h 0m", FormatMinutes(120))
	assert.Equal(t, "15m", FormatMinutes(15))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "0%", FormatPercent(0))
	assert.Equal(t, "67%", FormatPercent(4.0/6.0))
	assert.Equal(t, "100%", FormatPercent(1))
}

func TestPluralize(t *testing.T) {
	assert.Equal(t, "1 task", Pluralize(1, "task"))
	assert.Equal(t, "0 tasks", Pluralize(0, "task"))
	assert.Equal(t, "3 tasks", Pluralize(3, "task"))
}

func TestDisplayHelpers(t *testing.T) {
	assert.Equal(t, 4, GetDisplayWidth("日本"))
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab…", Truncate("abcdef", 3))
	assert.Equal(t, "", Truncate("abc", 0))
	assert.Equal(t, "ab  ", PadRight("ab", 4))
	assert.Equal(t, " ab ", CenterText("ab", 4))
	assert.Equal(t, "[█████░░░░░]", CreateProgressBar(50, 12))
	assert.Equal(t, MarkCompleted, StatusMark(true))
	assert.Equal(t, MarkPending, StatusMark(false))
	assert.Equal(t, ColorGreen, ScoreColor(80))
	assert.Equal(t, ColorYellow, ScoreColor(50))
	assert.Equal(t, ColorRed, ScoreColor(10))
	assert.Equal(t, "x", Colorize("x", ColorRed, false))
	assert.Equal(t, ColorRed+"x"+ColorReset, Colorize("x", ColorRed, true))
}
