package formatter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/penwyp/go-day-planner/internal/core/duration"
)

type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

func (f *CSVFormatter) Format(w io.Writer, r DayReport) error {
	cw := csv.NewWriter(w)

	headers := []string{"Day", "ID", "Start", "End", "Title", "Category", "Hours", "Status"}
	if err := cw.Write(headers); err != nil {
		return err
	}

	for _, t := range r.Tasks {
		record := []string{
			r.Day,
			t.ID,
			t.StartTime.String(),
			t.EndTime.String(),
			t.Title,
			string(t.Category),
			strconv.FormatFloat(duration.TaskHours(t), 'f', 1, 64),
			string(t.Status),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
