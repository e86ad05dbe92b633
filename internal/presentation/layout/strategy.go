// Package layout renders the interactive day screen.
package layout

import (
	"io"

	"github.com/penwyp/go-day-planner/internal/core/model"
)

// Screen is everything one frame of the day view shows.
type Screen struct {
	Day         string
	Now         model.Clock
	Tasks       model.Timeline
	Selected    int
	PlanState   string
	ReviewState string
	Review      *model.ReviewReport
	Message     string
	Color       bool
}

// LayoutStrategy defines the interface for different layout rendering strategies
type LayoutStrategy interface {
	Render(w io.Writer, screen Screen, sizer *Sizer) error
	GetName() string
}

// Layout styles
const (
	StyleFull = iota
	StyleMinimal
)

// GetLayoutStrategy returns the appropriate layout strategy based on the style
func GetLayoutStrategy(layoutStyle int) LayoutStrategy {
	strategies := map[int]LayoutStrategy{
		StyleFull:    &FullLayoutStrategy{},
		StyleMinimal: &MinimalLayoutStrategy{},
	}

	if strategy, exists := strategies[layoutStyle]; exists {
		return strategy
	}

	// Default to the full view if invalid style
	return &FullLayoutStrategy{}
}
