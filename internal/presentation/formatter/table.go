package formatter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/penwyp/go-day-planner/internal/core/duration"
	"github.com/penwyp/go-day-planner/internal/core/model"
	"github.com/penwyp/go-day-planner/internal/util"
)

type TableFormatter struct {
	headers []string
}

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{
		headers: []string{"#", "Time", "Task", "Category", "Hours", "Status"},
	}
}

func (f *TableFormatter) Format(w io.Writer, r DayReport) error {
	rows := make([][]string, 0, len(r.Tasks))
	var planned float64
	for i, t := range r.Tasks {
		h := duration.TaskHours(t)
		planned += h
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			t.StartTime.String() + "-" + t.EndTime.String(),
			t.Title,
			string(t.Category),
			duration.Format(h),
			util.StatusMark(t.IsCompleted()) + " " + string(t.Status),
		})
	}

	completed, total := r.Tasks.Counts()
	totalRow := []string{
		"", "Total", util.Pluralize(total, "task"), "",
		duration.Format(planned),
		fmt.Sprintf("%d/%d done", completed, total),
	}

	// Calculate optimal column widths based on content
	widths := f.calculateColumnWidths(append(rows, totalRow))

	var b strings.Builder
	fmt.Fprintf(&b, "Plan for %s\n", r.Day)
	f.printBorder(&b, widths, "top")
	f.printRow(&b, f.headers, widths)
	f.printBorder(&b, widths, "middle")
	for _, row := range rows {
		f.printRow(&b, row, widths)
	}
	f.printBorder(&b, widths, "middle")
	f.printRow(&b, totalRow, widths)
	f.printBorder(&b, widths, "bottom")

	if r.Review != nil {
		fmt.Fprintf(&b, "Score: %d/100  Completion: %s\n", r.Review.Score, util.FormatPercent(r.Review.CompletionRatio))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// calculateColumnWidths determines the display width of each column
func (f *TableFormatter) calculateColumnWidths(rows [][]string) []int {
	widths := make([]int, len(f.headers))
	for i, header := range f.headers {
		widths[i] = util.GetDisplayWidth(header)
	}
	for _, row := range rows {
		for i, value := range row {
			if w := util.GetDisplayWidth(value); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

// printBorder prints table borders (top, middle, bottom)
func (f *TableFormatter) printBorder(b *strings.Builder, widths []int, borderType string) {
	var left, middle, right string

	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	case "bottom":
		left, middle, right = "└", "┴", "┘"
	}

	b.WriteString(left)
	for i, width := range widths {
		b.WriteString(strings.Repeat("─", width+2)) // +2 for padding spaces
		if i < len(widths)-1 {
			b.WriteString(middle)
		}
	}
	b.WriteString(right)
	b.WriteString("\n")
}

// printRow prints a row; the index and hours columns are right-aligned
func (f *TableFormatter) printRow(b *strings.Builder, values []string, widths []int) {
	b.WriteString("│")
	for i, value := range values {
		pad := strings.Repeat(" ", widths[i]-util.GetDisplayWidth(value))
		if i == 0 || i == 4 {
			b.WriteString(" " + pad + value + " │")
		} else {
			b.WriteString(" " + value + pad + " │")
		}
	}
	b.WriteString("\n")
}

var _ Formatter = (*TableFormatter)(nil)

// taskHoursByCategory sums planned hours per category.
func taskHoursByCategory(tl model.Timeline) map[model.Category]float64 {
	out := make(map[model.Category]float64)
	for cat, tasks := range tl.ByCategory() {
		for _, t := range tasks {
			out[cat] += duration.TaskHours(t)
		}
	}
	return out
}
