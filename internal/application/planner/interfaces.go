package planner

import (
	"github.com/penwyp/go-day-planner/internal/core/model"
)

// ReviewAnalyzer scores a day from a timeline snapshot and a narrative
type ReviewAnalyzer interface {
	Analyze(snapshot model.Timeline, narrative string) (model.ReviewReport, error)
}

// TimelineStore is the task list the controller drives
type TimelineStore interface {
	ReplaceAll(tasks []model.Task)
	ToggleStatus(id string) bool
	Snapshot() model.Timeline
}
