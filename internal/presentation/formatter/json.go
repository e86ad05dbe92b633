package formatter

import (
	"io"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-day-planner/internal/core/model"
)

type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

func (f *JSONFormatter) Format(w io.Writer, r DayReport) error {
	if r.Tasks == nil {
		r.Tasks = model.Timeline{}
	}
	data, err := sonic.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
