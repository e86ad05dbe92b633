package layout

import (
	"fmt"
	"strings"

	"github.com/penwyp/go-day-planner/internal/core/duration"
	"github.com/penwyp/go-day-planner/internal/core/model"
	"github.com/penwyp/go-day-planner/internal/util"
)

// BaseStrategy provides common functionality for all layout strategies
type BaseStrategy struct {
}

// TopBorder draws the rounded top edge
func (b *BaseStrategy) TopBorder(width int) string {
	return "╭" + strings.Repeat("─", width-2) + "╮"
}

// Separator draws an inner divider
func (b *BaseStrategy) Separator(width int) string {
	return "├" + strings.Repeat("─", width-2) + "┤"
}

// BottomBorder draws the rounded bottom edge
func (b *BaseStrategy) BottomBorder(width int) string {
	return "╰" + strings.Repeat("─", width-2) + "╯"
}

// BoxLine pads or truncates text to fit between the side borders
func (b *BaseStrategy) BoxLine(text string, width int) string {
	return b.BoxLineColored(text, "", false, width)
}

// BoxLineColored is BoxLine with the content wrapped in color
func (b *BaseStrategy) BoxLineColored(text, color string, enabled bool, width int) string {
	inner := width - 4
	if inner < 1 {
		inner = 1
	}
	content := util.PadRight(util.Truncate(text, inner), inner)
	return "│ " + util.Colorize(content, color, enabled) + " │"
}

// SplitLine places left and right text on one line
func (b *BaseStrategy) SplitLine(left, right string, width int) string {
	inner := width - 4
	gap := inner - util.GetDisplayWidth(left) - util.GetDisplayWidth(right)
	if gap < 1 {
		return b.BoxLine(left+" "+right, width)
	}
	return b.BoxLine(left+strings.Repeat(" ", gap)+right, width)
}

// TaskRow renders one task with its 1-based index and selection cursor
func (b *BaseStrategy) TaskRow(index int, t model.Task, selected bool) string {
	cursor := " "
	if selected {
		cursor = ">"
	}
	return fmt.Sprintf("%s %2d %s %s-%s %s %s (%sh)",
		cursor, index, util.StatusMark(t.IsCompleted()),
		t.StartTime, t.EndTime, categoryIcon(t.Category), t.Title,
		duration.Format(duration.TaskHours(t)))
}

// ProgressLine shows the completion bar and counts
func (b *BaseStrategy) ProgressLine(tl model.Timeline, barWidth int) string {
	completed, total := tl.Counts()
	ratio := tl.CompletionRatio()
	return fmt.Sprintf("Progress %s %d/%d (%s)",
		util.CreateProgressBar(ratio*100, barWidth), completed, total, util.FormatPercent(ratio))
}

// visibleRange returns the [start, end) slice of n rows that keeps selected in view
func visibleRange(n, selected, rows int) (int, int) {
	if rows <= 0 {
		return 0, 0
	}
	if n <= rows {
		return 0, n
	}
	start := selected - rows/2
	if start < 0 {
		start = 0
	}
	if start+rows > n {
		start = n - rows
	}
	return start, start + rows
}
