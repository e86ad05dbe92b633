package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-day-planner/internal/core/duration"
	"github.com/penwyp/go-day-planner/internal/core/model"
	"github.com/penwyp/go-day-planner/internal/util"
)

// SummaryFormatter writes a plain-text day summary: plan breakdown then review.
type SummaryFormatter struct{}

// NewSummaryFormatter creates a new instance of SummaryFormatter.
func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{}
}

// Format writes the summary of r.
func (f *SummaryFormatter) Format(w io.Writer, r DayReport) error {
	var b strings.Builder
	rule := strings.Repeat("=", 60)

	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Day Summary: %s\n", r.Day)
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b)

	if len(r.Tasks) == 0 {
		fmt.Fprintln(&b, "No tasks planned")
	} else {
		completed, total := r.Tasks.Counts()
		fmt.Fprintf(&b, "Tasks: %d/%d completed (%s)\n", completed, total, util.FormatPercent(r.Tasks.CompletionRatio()))
		fmt.Fprintf(&b, "Span: %s-%s\n", r.Tasks[0].StartTime, lastEnd(r.Tasks))
		fmt.Fprintln(&b)

		fmt.Fprintln(&b, "Hours by Category:")
		hours := taskHoursByCategory(r.Tasks)
		for _, c := range model.Categories {
			if h, ok := hours[c]; ok {
				fmt.Fprintf(&b, "  %-8s %sh\n", c, duration.Format(h))
			}
		}
	}

	if r.Review != nil {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "Review:")
		fmt.Fprintln(&b, strings.Repeat("-", 60))
		fmt.Fprintf(&b, "  Score: %d/100\n", r.Review.Score)
		writeList(&b, "Highlights", r.Review.Highlights)
		writeList(&b, "Suggestions", r.Review.Suggestions)
	}

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, rule)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "  %s:\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "    - %s\n", item)
	}
}

func lastEnd(tl model.Timeline) model.Clock {
	end := tl[0].EndTime
	for _, t := range tl[1:] {
		if t.EndTime > end {
			end = t.EndTime
		}
	}
	return end
}
