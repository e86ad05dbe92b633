package model

// Window is a named part of the day used when describing insights.
type Window struct {
	Name  string
	Start Clock
	End   Clock
}

var (
	WindowNight     = Window{Name: "night", Start: MustClock(0, 0), End: MustClock(5, 0)}
	WindowMorning   = Window{Name: "morning", Start: MustClock(5, 0), End: MustClock(12, 0)}
	WindowAfternoon = Window{Name: "afternoon", Start: MustClock(12, 0), End: MustClock(17, 0)}
	WindowEvening   = Window{Name: "evening", Start: MustClock(17, 0), End: EndOfDay}
)

// Windows lists the day windows in chronological order.
var Windows = []Window{WindowNight, WindowMorning, WindowAfternoon, WindowEvening}

// WindowOf returns the window containing c.
func WindowOf(c Clock) Window {
	for _, w := range Windows {
		if c >= w.Start && c < w.End {
			return w
		}
	}
	return WindowEvening
}

func (w Window) String() string {
	return w.Name + " (" + w.Start.String() + "-" + w.End.String() + ")"
}
