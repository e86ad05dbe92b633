package layout

import (
	"fmt"
	"io"
	"strings"
)

// MinimalLayoutStrategy prints a single status line
type MinimalLayoutStrategy struct {
	BaseStrategy
}

func (s *MinimalLayoutStrategy) GetName() string {
	return "Minimal Day View"
}

func (s *MinimalLayoutStrategy) Render(w io.Writer, screen Screen, sizer *Sizer) error {
	completed, total := screen.Tasks.Counts()
	parts := []string{
		"📅 " + screen.Day,
		fmt.Sprintf("✔ %d/%d", completed, total),
	}
	if cur, ok := CurrentTask(screen.Tasks, screen.Now); ok {
		parts = append(parts, "now: "+cur.Title)
	}
	if nt, ok := NextTask(screen.Tasks, screen.Now); ok {
		parts = append(parts, fmt.Sprintf("next: %s %s", nt.StartTime, nt.Title))
	}
	if screen.Review != nil {
		parts = append(parts, fmt.Sprintf("score: %d", screen.Review.Score))
	}

	_, err := fmt.Fprintln(w, strings.Join(parts, " | "))
	return err
}
