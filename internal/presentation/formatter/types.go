// Package formatter renders a day's timeline and review for the CLI and API.
package formatter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/penwyp/go-day-planner/internal/core/model"
)

// DayReport is the read-only view every formatter renders.
type DayReport struct {
	Day       string              `json:"day"`
	PlanText  string              `json:"planText,omitempty"`
	Narrative string              `json:"narrative,omitempty"`
	Tasks     model.Timeline      `json:"tasks"`
	Review    *model.ReviewReport `json:"review,omitempty"`
}

// Formatter writes a DayReport to w.
type Formatter interface {
	Format(w io.Writer, r DayReport) error
}

// Output format names
const (
	FormatTable   = "table"
	FormatJSON    = "json"
	FormatCSV     = "csv"
	FormatICS     = "ics"
	FormatSummary = "summary"
)

// Formats lists the accepted names for --output.
var Formats = []string{FormatTable, FormatJSON, FormatCSV, FormatICS, FormatSummary}

// New returns the formatter for name. loc places tasks on the calendar for ics.
func New(name string, loc *time.Location) (Formatter, error) {
	switch strings.ToLower(name) {
	case "", FormatTable:
		return NewTableFormatter(), nil
	case FormatJSON:
		return NewJSONFormatter(), nil
	case FormatCSV:
		return NewCSVFormatter(), nil
	case FormatICS:
		return NewICSFormatter(loc), nil
	case FormatSummary:
		return NewSummaryFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want one of %s)", name, strings.Join(Formats, ", "))
	}
}
