package formatter

import (
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/penwyp/go-day-planner/internal/core/model"
)

// ProductID identifies exported calendars.
const ProductID = "-//penwyp//go-day-planner//EN"

// ICSFormatter exports the timeline as an iCalendar feed, one VEVENT per task.
type ICSFormatter struct {
	loc *time.Location
	now func() time.Time
}

// NewICSFormatter places tasks on the day in loc (UTC when nil).
func NewICSFormatter(loc *time.Location) *ICSFormatter {
	if loc == nil {
		loc = time.UTC
	}
	return &ICSFormatter{loc: loc, now: time.Now}
}

func (f *ICSFormatter) Format(w io.Writer, r DayReport) error {
	day, err := time.ParseInLocation("2006-01-02", r.Day, f.loc)
	if err != nil {
		return fmt.Errorf("invalid day %q: %w", r.Day, err)
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(ProductID)

	stamp := f.now().UTC()
	for _, t := range r.Tasks {
		ev := cal.AddEvent(t.ID + "@" + r.Day + ".go-day-planner")
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(at(day, t.StartTime))
		ev.SetEndAt(at(day, t.EndTime))
		ev.SetSummary(t.Title)
		ev.SetProperty(ical.ComponentPropertyCategories, strings.ToUpper(string(t.Category)))
		ev.SetDescription(fmt.Sprintf("Status: %s", t.Status))
		if t.IsCompleted() {
			ev.SetProperty(ical.ComponentPropertyStatus, "CONFIRMED")
		} else {
			ev.SetProperty(ical.ComponentPropertyStatus, "TENTATIVE")
		}
	}

	_, err = io.WriteString(w, cal.Serialize())
	return err
}

// at places a clock on day; 24:00 becomes the next midnight.
func at(day time.Time, c model.Clock) time.Time {
	return day.Add(time.Duration(c) * time.Minute)
}
