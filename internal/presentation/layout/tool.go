package layout

import (
	"github.com/penwyp/go-day-planner/internal/core/model"
)

// CurrentTask returns the first task whose range contains now.
func CurrentTask(tl model.Timeline, now model.Clock) (model.Task, bool) {
	for _, t := range tl {
		if t.Contains(now) {
			return t, true
		}
	}
	return model.Task{}, false
}

// NextTask returns the first pending task starting at or after now.
func NextTask(tl model.Timeline, now model.Clock) (model.Task, bool) {
	for _, t := range tl {
		if t.StartTime >= now && !t.IsCompleted() {
			return t, true
		}
	}
	return model.Task{}, false
}

func categoryIcon(c model.Category) string {
	switch c {
	case model.CategoryWork:
		return "💼"
	case model.CategoryHealth:
		return "💪"
	case model.CategoryGrowth:
		return "📚"
	default:
		return "🏠"
	}
}
