package util

import (
	"fmt"
	"sync"
	"time"
)

// DayLayout is the layout of day keys
const DayLayout = "2006-01-02"

// TimeProvider tells the current time and day in the configured timezone.
// Its clock can be replaced in tests.
type TimeProvider struct {
	mu       sync.RWMutex
	location *time.Location
	clock    func() time.Time
}

var (
	globalTimeProvider *TimeProvider
	providerMu         sync.Mutex
)

// NewTimeProvider creates a provider for timezone ("" and "Local" mean the system zone)
func NewTimeProvider(timezone string) (*TimeProvider, error) {
	tp := &TimeProvider{clock: time.Now}
	if err := tp.SetTimezone(timezone); err != nil {
		return nil, err
	}
	return tp, nil
}

// InitializeTimeProvider replaces the global provider. On error the
// previous one stays in place.
func InitializeTimeProvider(timezone string) error {
	tp, err := NewTimeProvider(timezone)
	if err != nil {
		return err
	}
	providerMu.Lock()
	globalTimeProvider = tp
	providerMu.Unlock()
	return nil
}

// GetTimeProvider returns the global provider, defaulting to Local
func GetTimeProvider() *TimeProvider {
	providerMu.Lock()
	defer providerMu.Unlock()
	if globalTimeProvider == nil {
		globalTimeProvider = &TimeProvider{location: time.Local, clock: time.Now}
	}
	return globalTimeProvider
}

// SetTimezone updates the timezone for the time provider
func (tp *TimeProvider) SetTimezone(timezone string) error {
	loc := time.Local
	if timezone != "" && timezone != "Local" {
		l, err := time.LoadLocation(timezone)
		if err != nil {
			return fmt.Errorf("invalid timezone '%s': %w\nValid examples: Local, UTC, America/New_York, Asia/Shanghai, Europe/London", timezone, err)
		}
		loc = l
	}
	tp.mu.Lock()
	tp.location = loc
	tp.mu.Unlock()
	return nil
}

// SetClock replaces the time source; nil restores time.Now
func (tp *TimeProvider) SetClock(clock func() time.Time) {
	if clock == nil {
		clock = time.Now
	}
	tp.mu.Lock()
	tp.clock = clock
	tp.mu.Unlock()
}

// Now returns the current time in the configured timezone
func (tp *TimeProvider) Now() time.Time {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	return tp.clock().In(tp.location)
}

// Location returns the configured timezone
func (tp *TimeProvider) Location() *time.Location {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	return tp.location
}

// Today returns the current day key
func (tp *TimeProvider) Today() string {
	return tp.DayOf(tp.clock())
}

// DayOf returns the day key t falls on in the configured timezone
func (tp *TimeProvider) DayOf(t time.Time) string {
	return t.In(tp.Location()).Format(DayLayout)
}

// MinuteOfDay returns minutes since local midnight of t
func (tp *TimeProvider) MinuteOfDay(t time.Time) int {
	local := t.In(tp.Location())
	return local.Hour()*60 + local.Minute()
}
