package model

import (
	"fmt"
	"sort"
	"strings"
)

// Category classifies a task for display; it never drives scheduling.
type Category string

const (
	CategoryWork   Category = "work"
	CategoryLife   Category = "life"
	CategoryHealth Category = "health"
	CategoryGrowth Category = "growth"
)

// Categories lists the closed category set in display order.
var Categories = []Category{CategoryWork, CategoryLife, CategoryHealth, CategoryGrowth}

// ParseCategory maps a string onto the closed set.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c.Valid() {
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

func (c Category) Valid() bool {
	switch c {
	case CategoryWork, CategoryLife, CategoryHealth, CategoryGrowth:
		return true
	}
	return false
}

// TaskStatus is the completion state of a task.
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusCompleted TaskStatus = "completed"
)

// Toggled returns the opposite status.
func (s TaskStatus) Toggled() TaskStatus {
	if s == StatusCompleted {
		return StatusPending
	}
	return StatusCompleted
}

// Task is one scheduled activity of the day.
type Task struct {
	ID        string     `json:"id"`
	StartTime Clock      `json:"startTime"`
	EndTime   Clock      `json:"endTime"`
	Title     string     `json:"title"`
	Category  Category   `json:"category"`
	Status    TaskStatus `json:"status"`
}

// Validate checks the task invariants.
func (t Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("task has no id")
	}
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("task %s has an empty title", t.ID)
	}
	if !t.StartTime.Valid() || !t.EndTime.Valid() || t.StartTime >= t.EndTime {
		return fmt.Errorf("task %s has invalid range %s-%s", t.ID, t.StartTime, t.EndTime)
	}
	if !t.Category.Valid() {
		return fmt.Errorf("task %s has unknown category %q", t.ID, t.Category)
	}
	if t.Status != StatusPending && t.Status != StatusCompleted {
		return fmt.Errorf("task %s has unknown status %q", t.ID, t.Status)
	}
	return nil
}

func (t Task) IsCompleted() bool { return t.Status == StatusCompleted }

// Contains reports whether the clock falls inside [start, end).
func (t Task) Contains(c Clock) bool {
	return c >= t.StartTime && c < t.EndTime
}

// Timeline is the day's ordered task sequence.
type Timeline []Task

// SortTimeline orders tasks by start time keeping input order for ties.
func SortTimeline(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].StartTime < tasks[j].StartTime
	})
}

// Clone returns an independent copy.
func (tl Timeline) Clone() Timeline {
	if tl == nil {
		return nil
	}
	out := make(Timeline, len(tl))
	copy(out, tl)
	return out
}

// Counts returns completed and total task counts.
func (tl Timeline) Counts() (completed, total int) {
	for _, t := range tl {
		if t.IsCompleted() {
			completed++
		}
	}
	return completed, len(tl)
}

// CompletionRatio is completed/total, zero for an empty timeline.
func (tl Timeline) CompletionRatio() float64 {
	completed, total := tl.Counts()
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total)
}

// Find returns the task with the given id.
func (tl Timeline) Find(id string) (Task, bool) {
	for _, t := range tl {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// ByCategory groups tasks per category, preserving timeline order.
func (tl Timeline) ByCategory() map[Category][]Task {
	groups := make(map[Category][]Task)
	for _, t := range tl {
		groups[t.Category] = append(groups[t.Category], t)
	}
	return groups
}

// Overlap is a pair of tasks whose ranges intersect.
type Overlap struct {
	First  Task
	Second Task
}

// Overlaps lists intersecting task pairs in timeline order.
func (tl Timeline) Overlaps() []Overlap {
	var out []Overlap
	for i := 0; i < len(tl); i++ {
		for j := i + 1; j < len(tl); j++ {
			if tl[j].StartTime >= tl[i].EndTime {
				break
			}
			out = append(out, Overlap{First: tl[i], Second: tl[j]})
		}
	}
	return out
}

// Validate checks every task and the chronological ordering.
func (tl Timeline) Validate() error {
	seen := make(map[string]struct{}, len(tl))
	for i, t := range tl {
		if err := t.Validate(); err != nil {
			return err
		}
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("duplicate task id %s", t.ID)
		}
		seen[t.ID] = struct{}{}
		if i > 0 && tl[i-1].StartTime > t.StartTime {
			return fmt.Errorf("timeline not ordered at task %s", t.ID)
		}
	}
	return nil
}
