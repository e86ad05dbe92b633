package layout

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-day-planner/internal/util"
)

// KeyHelp is the footer shown in the full view
const KeyHelp = "1-9 toggle · ↑/↓ move · space toggle · q quit"

// header and footer rows around the task list
const (
	fullHeaderLines = 4
	fullFooterLines = 8
)

// FullLayoutStrategy draws a boxed task list with progress and review
type FullLayoutStrategy struct {
	BaseStrategy
}

func (s *FullLayoutStrategy) GetName() string {
	return "Full Day View"
}

func (s *FullLayoutStrategy) Render(w io.Writer, screen Screen, sizer *Sizer) error {
	width := sizer.GetMaxWidth()
	var lines []string

	lines = append(lines, s.TopBorder(width))
	lines = append(lines, s.SplitLine(
		"📅 "+screen.Day,
		fmt.Sprintf("plan: %s  review: %s", screen.PlanState, screen.ReviewState), width))
	lines = append(lines, s.Separator(width))

	if len(screen.Tasks) == 0 {
		lines = append(lines, s.BoxLine("No tasks yet. Describe your day to build a plan.", width))
	} else {
		start, end := visibleRange(len(screen.Tasks), screen.Selected, sizer.GetAvailableLines(fullHeaderLines, fullFooterLines))
		if end == start {
			end = start + 1
		}
		for i := start; i < end; i++ {
			t := screen.Tasks[i]
			color := ""
			if t.IsCompleted() {
				color = util.ColorGreen
			} else if i == screen.Selected {
				color = util.ColorCyan
			}
			lines = append(lines, s.BoxLineColored(s.TaskRow(i+1, t, i == screen.Selected), color, screen.Color, width))
		}
	}

	lines = append(lines, s.Separator(width))
	lines = append(lines, s.BoxLine(s.ProgressLine(screen.Tasks, sizer.GetProgressBarWidth()), width))

	now := "Now: free"
	if cur, ok := CurrentTask(screen.Tasks, screen.Now); ok {
		now = fmt.Sprintf("Now: %s (%s left)", cur.Title, util.FormatMinutes(int(cur.EndTime)-int(screen.Now)))
	}
	next := "Next: none"
	if nt, ok := NextTask(screen.Tasks, screen.Now); ok {
		next = fmt.Sprintf("Next: %s %s (in %s)", nt.StartTime, nt.Title, util.FormatMinutes(int(nt.StartTime)-int(screen.Now)))
	}
	lines = append(lines, s.SplitLine(now, next, width))

	if r := screen.Review; r != nil {
		lines = append(lines, s.BoxLineColored(fmt.Sprintf("Score %d/100", r.Score), util.ScoreColor(r.Score), screen.Color, width))
		for _, h := range r.Highlights {
			lines = append(lines, s.BoxLine("+ "+h, width))
		}
		for _, sg := range r.Suggestions {
			lines = append(lines, s.BoxLine("→ "+sg, width))
		}
	}
	if screen.Message != "" {
		lines = append(lines, s.BoxLineColored(screen.Message, util.ColorYellow, screen.Color, width))
	}
	lines = append(lines, s.BoxLine(util.CenterText(KeyHelp, width-4), width))
	lines = append(lines, s.BottomBorder(width))

	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}
