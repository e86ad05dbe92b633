// Package fixtures writes day records and inbox transcripts for tests.
package fixtures

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-day-planner/internal/core/model"
	"github.com/penwyp/go-day-planner/internal/data/store"
)

// TestDataGenerator generates on-disk test data under a data directory
type TestDataGenerator struct {
	baseDir string
}

// NewTestDataGenerator creates a generator rooted at the planner data directory
func NewTestDataGenerator(baseDir string) *TestDataGenerator {
	return &TestDataGenerator{
		baseDir: baseDir,
	}
}

// SampleTasks returns a typical day: one task per category, the first one done.
func SampleTasks() []model.Task {
	return []model.Task{
		{ID: "gym", Title: "Gym", Category: model.CategoryHealth, Status: model.StatusCompleted,
			StartTime: model.MustClock(7, 0), EndTime: model.MustClock(8, 0)},
		{ID: "standup", Title: "Team standup", Category: model.CategoryWork, Status: model.StatusPending,
			StartTime: model.MustClock(9, 0), EndTime: model.MustClock(9, 30)},
		{ID: "course", Title: "Online course", Category: model.CategoryGrowth, Status: model.StatusPending,
			StartTime: model.MustClock(18, 0), EndTime: model.MustClock(19, 30)},
		{ID: "dinner", Title: "Dinner with family", Category: model.CategoryLife, Status: model.StatusPending,
			StartTime: model.MustClock(19, 30), EndTime: model.MustClock(20, 30)},
	}
}

// GenerateDay writes a stored day in the layout of the json storage driver
func (g *TestDataGenerator) GenerateDay(day, planText string, tasks []model.Task) error {
	dir := filepath.Join(g.baseDir, "days")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	rec := store.DayRecord{
		Day:       day,
		PlanText:  planText,
		Tasks:     tasks,
		UpdatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	data, err := sonic.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal day %s: %w", day, err)
	}
	return os.WriteFile(filepath.Join(dir, day+".json"), data, 0644)
}

// GenerateTranscript drops a transcript into inboxDir the way a speech tool
// should: written under a temporary name, then renamed into place.
func (g *TestDataGenerator) GenerateTranscript(inboxDir, name, text string) error {
	if err := os.MkdirAll(inboxDir, 0755); err != nil {
		return err
	}
	tmp := filepath.Join(inboxDir, "."+name+".partial")
	if err := os.WriteFile(tmp, []byte(text+"\n"), 0644); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Join(inboxDir, name+".txt"))
}
