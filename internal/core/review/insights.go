package review

import (
	"fmt"

	"github.com/penwyp/go-day-planner/internal/core/model"
	"github.com/penwyp/go-day-planner/internal/core/text"
)

type categoryStat struct {
	category  model.Category
	completed int
	total     int
}

func (s categoryStat) ratio() float64 {
	if s.total == 0 {
		return 0
	}
	return float64(s.completed) / float64(s.total)
}

type windowStat struct {
	window    model.Window
	completed int
	pending   int
}

func (ev evaluation) isDone(t model.Task) bool {
	return t.IsCompleted() && !ev.contradicted[t.ID]
}

// categoryStats returns per-category counts in model.Categories order,
// skipping categories without tasks.
func (ev evaluation) categoryStats() []categoryStat {
	var out []categoryStat
	for _, cat := range model.Categories {
		st := categoryStat{category: cat}
		for _, t := range ev.snapshot {
			if t.Category != cat {
				continue
			}
			st.total++
			if ev.isDone(t) {
				st.completed++
			}
		}
		if st.total > 0 {
			out = append(out, st)
		}
	}
	return out
}

func (ev evaluation) windowStats() []windowStat {
	out := make([]windowStat, 0, len(model.Windows))
	for _, w := range model.Windows {
		st := windowStat{window: w}
		for _, t := range ev.snapshot {
			if model.WindowOf(t.StartTime) != w {
				continue
			}
			if ev.isDone(t) {
				st.completed++
			} else {
				st.pending++
			}
		}
		out = append(out, st)
	}
	return out
}

// focus names the category with the most planned tasks and the window where
// most of them start, e.g. "2 work blocks in the morning". Ties go to the
// earlier category and window.
func (ev evaluation) focus() string {
	var top categoryStat
	for _, st := range ev.categoryStats() {
		if st.total > top.total {
			top = st
		}
	}
	if top.total == 0 {
		return ""
	}
	var window model.Window
	most := 0
	for _, w := range model.Windows {
		n := 0
		for _, t := range ev.snapshot {
			if t.Category == top.category && model.WindowOf(t.StartTime) == w {
				n++
			}
		}
		if n > most {
			window, most = w, n
		}
	}
	noun := "block"
	if top.total != 1 {
		noun = "blocks"
	}
	return fmt.Sprintf("%d %s %s in the %s", top.total, top.category, noun, window.Name)
}

func (ev evaluation) task(id string) (model.Task, bool) {
	return ev.snapshot.Find(id)
}

// collector keeps insights unique and capped.
type collector struct {
	items []string
	seen  map[string]bool
}

func newCollector() *collector {
	return &collector{items: []string{}, seen: make(map[string]bool)}
}

func (c *collector) add(s string) {
	if len(c.items) >= MaxInsights || s == "" || c.seen[s] {
		return
	}
	c.seen[s] = true
	c.items = append(c.items, s)
}

func (c *collector) full() bool { return len(c.items) >= MaxInsights }

func highlights(ev evaluation) []string {
	c := newCollector()

	if len(ev.snapshot) > 0 {
		if ev.effectiveRatio() == 1 {
			c.add(fmt.Sprintf("Every planned task was completed (%d of %d), including your %s.",
				len(ev.snapshot), len(ev.snapshot), ev.focus()))
		}

		var best *categoryStat
		for _, st := range ev.categoryStats() {
			if st.completed == 0 {
				continue
			}
			if best == nil || st.ratio() > best.ratio() {
				best = &st
			}
		}
		if best != nil {
			c.add(fmt.Sprintf("Strong follow-through on %s tasks: %d of %d done.", best.category, best.completed, best.total))
		}

		var bestWindow *windowStat
		for _, st := range ev.windowStats() {
			if st.completed == 0 {
				continue
			}
			if bestWindow == nil || st.completed > bestWindow.completed {
				bestWindow = &st
			}
		}
		if bestWindow != nil {
			c.add(fmt.Sprintf("Your %s was the most productive stretch with %d task(s) completed.",
				bestWindow.window.Name, bestWindow.completed))
		}
	}

	for _, sig := range ev.signals {
		if c.full() {
			break
		}
		switch sig.Kind {
		case model.SignalEarly:
			if t, ok := ev.task(sig.TaskID); ok {
				c.add(fmt.Sprintf("You got ahead of schedule on %q in the %s.", t.Title, model.WindowOf(t.StartTime).Name))
			} else if focus := ev.focus(); focus != "" {
				c.add(fmt.Sprintf("You got ahead of schedule around your %s.", focus))
			} else {
				c.add("You finished something ahead of schedule.")
			}
		case model.SignalExtra:
			c.add(fmt.Sprintf("You fit in unplanned work: %s.", text.Capitalize(sig.Clause)))
		}
	}

	focus := ev.focus()
	if ev.positive > ev.negative {
		if focus != "" {
			c.add(fmt.Sprintf("You felt upbeat about a day built around %s.", focus))
		} else {
			c.add("Your own account of the day was upbeat.")
		}
	}
	if len(c.items) == 0 {
		if focus != "" {
			c.add(fmt.Sprintf("You planned %s; reviewing them keeps the next plan honest.", focus))
		} else {
			c.add("You took the time to review your day, which keeps the next plan honest.")
		}
	}
	return c.items
}

func suggestions(ev evaluation) []string {
	c := newCollector()

	for _, sig := range ev.signals {
		if c.full() {
			break
		}
		t, matched := ev.task(sig.TaskID)
		switch sig.Kind {
		case model.SignalSkipped:
			if !matched {
				continue
			}
			if ev.contradicted[t.ID] {
				c.add(fmt.Sprintf("%q in the %s is marked done but you said it was skipped; keep the timeline in sync.",
					t.Title, model.WindowOf(t.StartTime).Name))
			} else {
				c.add(fmt.Sprintf("Re-plan %q: it was skipped in the %s.", t.Title, model.WindowOf(t.StartTime).Name))
			}
		case model.SignalDelay:
			if matched {
				c.add(fmt.Sprintf("Leave more buffer around %q in the %s; it ran late.", t.Title, model.WindowOf(t.StartTime).Name))
			}
		}
	}

	if len(ev.snapshot) > 0 {
		var worst *categoryStat
		for _, st := range ev.categoryStats() {
			if st.completed == st.total {
				continue
			}
			if worst == nil || st.ratio() < worst.ratio() {
				worst = &st
			}
		}
		if worst != nil {
			c.add(fmt.Sprintf("%s tasks lagged (%d of %d done); schedule fewer or shorter %s blocks.",
				text.Capitalize(string(worst.category)), worst.completed, worst.total, worst.category))
		}

		var heavy *windowStat
		for _, st := range ev.windowStats() {
			if st.pending == 0 {
				continue
			}
			if heavy == nil || st.pending > heavy.pending {
				heavy = &st
			}
		}
		if heavy != nil {
			c.add(fmt.Sprintf("Most unfinished work fell in the %s; protect that time or lighten it.", heavy.window.Name))
		}

		if overlaps := ev.snapshot.Overlaps(); len(overlaps) > 0 {
			o := overlaps[0]
			c.add(fmt.Sprintf("%q and %q overlap in the %s; stagger them next time.",
				o.First.Title, o.Second.Title, model.WindowOf(o.Second.StartTime).Name))
		}
	}

	focus := ev.focus()
	for _, sig := range ev.signals {
		if sig.TaskID == "" && (sig.Kind == model.SignalDelay || sig.Kind == model.SignalSkipped) {
			if focus != "" {
				c.add(fmt.Sprintf("Something slipped without a name; check your %s first and name it next time.", focus))
			} else {
				c.add("Name the task that slipped next time so the plan can adapt to it.")
			}
			break
		}
	}
	if ev.negative > ev.positive {
		if focus != "" {
			c.add(fmt.Sprintf("The day felt draining; plan a real break around your %s.", focus))
		} else {
			c.add("The day felt draining; plan a real break between your longest blocks.")
		}
	}
	if len(ev.snapshot) == 0 {
		c.add("Plan tomorrow with explicit times so the review can compare plan and day.")
	}
	return c.items
}
