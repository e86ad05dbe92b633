// Package duration computes elapsed time between two times of day.
package duration

import (
	"fmt"
	"math"
	"strconv"

	"github.com/penwyp/go-day-planner/internal/core/model"
)

// FallbackHours substitutes a degenerate range. The value only feeds
// display and scoring, so it must never block a flow.
const FallbackHours = 1.0

// Hours returns the elapsed hours from start to end on the same day,
// rounded to one decimal. End before start yields model.ErrInvalidRange.
func Hours(start, end model.Clock) (float64, error) {
	if !start.Valid() || !end.Valid() {
		return 0, fmt.Errorf("%w: %d-%d out of day", model.ErrInvalidRange, int(start), int(end))
	}
	if end < start {
		return 0, fmt.Errorf("%w: %s ends before %s", model.ErrInvalidRange, end, start)
	}
	return Round(float64(end-start) / model.MinutesPerHour), nil
}

// HoursOrFallback is Hours with FallbackHours substituted on error.
func HoursOrFallback(start, end model.Clock) float64 {
	h, err := Hours(start, end)
	if err != nil {
		return FallbackHours
	}
	return h
}

// TaskHours returns the planned length of a task.
func TaskHours(t model.Task) float64 {
	return HoursOrFallback(t.StartTime, t.EndTime)
}

// Round rounds to one decimal place.
func Round(h float64) float64 {
	return math.Round(h*10) / 10
}

// Format renders hours without a trailing ".0": 1.5 -> "1.5", 2 -> "2".
func Format(h float64) string {
	return strconv.FormatFloat(Round(h), 'f', -1, 64)
}
