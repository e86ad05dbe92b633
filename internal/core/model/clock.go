package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Clock is a time of day expressed as minutes since midnight.
// Valid values are 0..MinutesPerDay; MinutesPerDay renders as "24:00"
// and only makes sense as an end time.
type Clock int

const (
	MinutesPerHour = 60
	MinutesPerDay  = 24 * MinutesPerHour

	Midnight Clock = 0
	Noon     Clock = 12 * MinutesPerHour
	EndOfDay Clock = MinutesPerDay
)

// NewClock builds a Clock from an hour and minute.
func NewClock(hour, minute int) (Clock, error) {
	if hour < 0 || hour > 24 || minute < 0 || minute >= MinutesPerHour {
		return 0, fmt.Errorf("invalid time of day %02d:%02d", hour, minute)
	}
	c := Clock(hour*MinutesPerHour + minute)
	if c > EndOfDay {
		return 0, fmt.Errorf("invalid time of day %02d:%02d", hour, minute)
	}
	return c, nil
}

// MustClock is NewClock for constants and tests.
func MustClock(hour, minute int) Clock {
	c, err := NewClock(hour, minute)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseClock parses "HH:MM" (24h).
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	return NewClock(h, m)
}

func (c Clock) Hour() int   { return int(c) / MinutesPerHour }
func (c Clock) Minute() int { return int(c) % MinutesPerHour }

// Add shifts the clock by minutes, clamped to the day window.
func (c Clock) Add(minutes int) Clock {
	v := int(c) + minutes
	if v < 0 {
		return Midnight
	}
	if v > MinutesPerDay {
		return EndOfDay
	}
	return Clock(v)
}

// Valid reports whether c lies in the day window.
func (c Clock) Valid() bool {
	return c >= Midnight && c <= EndOfDay
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

func (c Clock) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("clock out of range: %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *Clock) UnmarshalText(b []byte) error {
	parsed, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
