package planner

import (
	"time"

	"github.com/penwyp/go-day-planner/internal/data/store"
	"github.com/penwyp/go-day-planner/internal/util"
)

// Config contains configuration for the controller
type Config struct {
	// Day key (YYYY-MM-DD) of the session; defaults to today
	Day string

	// Suspension point deadlines
	GenerateTimeout time.Duration
	AnalyzeTimeout  time.Duration

	// Deadline for background saves
	SaveTimeout time.Duration
}

// Validate fills defaults
func (c *Config) Validate() error {
	if c.Day == "" {
		c.Day = util.GetTimeProvider().Today()
	}
	if _, err := time.Parse(store.DayLayout, c.Day); err != nil {
		return err
	}
	if c.GenerateTimeout == 0 {
		c.GenerateTimeout = 5 * time.Second
	}
	if c.AnalyzeTimeout == 0 {
		c.AnalyzeTimeout = 5 * time.Second
	}
	if c.SaveTimeout == 0 {
		c.SaveTimeout = 3 * time.Second
	}
	return nil
}
