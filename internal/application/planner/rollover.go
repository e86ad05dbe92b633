package planner

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/penwyp/go-day-planner/internal/util"
)

// DefaultRolloverSchedule fires at local midnight.
const DefaultRolloverSchedule = "0 0 * * *"

// RolloverScheduler discards the session at the day boundary and restores
// whatever is stored for the new day.
type RolloverScheduler struct {
	cron *cron.Cron
	ctrl *Controller
	tp   *util.TimeProvider
}

// NewRolloverScheduler schedules rollovers in the time provider's timezone.
func NewRolloverScheduler(ctrl *Controller, tp *util.TimeProvider, schedule string) (*RolloverScheduler, error) {
	if schedule == "" {
		schedule = DefaultRolloverSchedule
	}
	rs := &RolloverScheduler{
		cron: cron.New(cron.WithLocation(tp.Location())),
		ctrl: ctrl,
		tp:   tp,
	}
	if _, err := rs.cron.AddFunc(schedule, rs.Tick); err != nil {
		return nil, fmt.Errorf("invalid rollover schedule %q: %w", schedule, err)
	}
	return rs, nil
}

// Tick rolls over when the calendar day differs from the session's day.
func (rs *RolloverScheduler) Tick() {
	today := rs.tp.Today()
	if rs.ctrl.Day() == today {
		return
	}
	if err := rs.ctrl.Rollover(today); err != nil {
		util.LogErrorf("planner: rollover failed: %v", err)
		return
	}
	if err := rs.ctrl.Restore(context.Background()); err != nil {
		util.LogErrorf("planner: restore after rollover failed: %v", err)
	}
}

func (rs *RolloverScheduler) Start() { rs.cron.Start() }

// Stop halts the schedule and waits for a running tick.
func (rs *RolloverScheduler) Stop() {
	<-rs.cron.Stop().Done()
}
