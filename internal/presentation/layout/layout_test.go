package layout

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-day-planner/internal/core/model"
	"github.com/penwyp/go-day-planner/internal/util"
)

func sampleScreen() Screen {
	return Screen{
		Day: "2024-01-15",
		Now: model.MustClock(9, 30),
		Tasks: model.Timeline{
			{ID: "a", StartTime: model.MustClock(9, 0), EndTime: model.MustClock(10, 0),
				Title: "Team sync", Category: model.CategoryWork, Status: model.StatusCompleted},
			{ID: "b", StartTime: model.MustClock(10, 0), EndTime: model.MustClock(12, 0),
				Title: "Write the report", Category: model.CategoryWork, Status: model.StatusPending},
			{ID: "c", StartTime: model.MustClock(18, 0), EndTime: model.MustClock(19, 0),
				Title: "Gym", Category: model.CategoryHealth, Status: model.StatusPending},
		},
		Selected:    1,
		PlanState:   "presenting",
		ReviewState: "capturing",
	}
}

func TestGetLayoutStrategy(t *testing.T) {
	tests := []struct {
		name        string
		layoutStyle int
		want        LayoutStrategy
	}{
		{name: "full", layoutStyle: StyleFull, want: &FullLayoutStrategy{}},
		{name: "minimal", layoutStyle: StyleMinimal, want: &MinimalLayoutStrategy{}},
		{name: "unknown defaults to full", layoutStyle: 99, want: &FullLayoutStrategy{}},
		{name: "negative defaults to full", layoutStyle: -1, want: &FullLayoutStrategy{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetLayoutStrategy(tt.layoutStyle)
			assert.IsType(t, tt.want, got)
			assert.NotEmpty(t, got.GetName())
		})
	}
}

func TestSizer(t *testing.T) {
	tests := []struct {
		name      string
		width     int
		height    int
		wantMax   int
		wantLines int
	}{
		{name: "standard", width: 80, height: 24, wantMax: 72, wantLines: 16},
		{name: "narrow falls back", width: 40, height: 10, wantMax: DefaultWidth, wantLines: 2},
		{name: "very wide is capped", width: 300, height: 5, wantMax: 120, wantLines: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSizer(tt.width, tt.height)
			assert.Equal(t, tt.wantMax, s.GetMaxWidth())
			assert.Equal(t, tt.wantLines, s.GetAvailableLines(5, 3))
			assert.GreaterOrEqual(t, s.GetProgressBarWidth(), 12)
			assert.Less(t, s.GetProgressBarWidth(), s.GetMaxWidth())
		})
	}
}

func TestSizer_PadString(t *testing.T) {
	s := NewSizer(80, 24)
	assert.Equal(t, "ab  ", s.PadString("ab", 4, true))
	assert.Equal(t, "  ab", s.PadString("ab", 4, false))
	assert.Equal(t, "💼  ", s.PadString("💼", 4, true))
	assert.Equal(t, "abcdef", s.PadString("abcdef", 4, true))
}

func TestFullLayoutStrategy_Render(t *testing.T) {
	var buf bytes.Buffer
	sizer := NewSizer(80, 30)
	screen := sampleScreen()
	screen.Review = &model.ReviewReport{Score: 72, Highlights: []string{"Team sync done"}, Suggestions: []string{"Start the report earlier"}}
	screen.Message = "Toggled Write the report"

	require.NoError(t, (&FullLayoutStrategy{}).Render(&buf, screen, sizer))
	out := buf.String()

	for _, want := range []string{
		"📅 2024-01-15", "plan: presenting  review: capturing",
		"   1 ✔ 09:00-10:00 💼 Team sync (1h)",
		">  2 ○ 10:00-12:00 💼 Write the report (2h)",
		"💪 Gym",
		"1/3 (33%)",
		"Now: Team sync (30m left)", "Next: 10:00 Write the report (in 30m)",
		"Score 72/100", "+ Team sync done", "→ Start the report earlier",
		"Toggled Write the report", KeyHelp,
	} {
		assert.Contains(t, out, want)
	}

	width := sizer.GetMaxWidth()
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		assert.Equal(t, width, util.GetDisplayWidth(line), "line %q", line)
	}
}

func TestFullLayoutStrategy_EmptyAndColor(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&FullLayoutStrategy{}).Render(&buf, Screen{Day: "2024-01-15", Color: true}, NewSizer(80, 30)))
	out := buf.String()
	assert.Contains(t, out, "No tasks yet")
	assert.Contains(t, out, "Next: none")
	assert.Contains(t, out, "Now: free")

	buf.Reset()
	screen := sampleScreen()
	screen.Color = true
	require.NoError(t, (&FullLayoutStrategy{}).Render(&buf, screen, NewSizer(80, 30)))
	assert.Contains(t, buf.String(), util.ColorGreen)
}

func TestFullLayoutStrategy_ScrollsToSelection(t *testing.T) {
	var tasks model.Timeline
	for i := 0; i < 20; i++ {
		start := model.MustClock(i, 0)
		tasks = append(tasks, model.Task{ID: string(rune('a' + i)), StartTime: start, EndTime: start.Add(30),
			Title: "Task " + string(rune('A'+i)), Category: model.CategoryLife, Status: model.StatusPending})
	}
	screen := Screen{Day: "2024-01-15", Tasks: tasks, Selected: 19}

	var buf bytes.Buffer
	// 20 rows leave 8 for tasks
	require.NoError(t, (&FullLayoutStrategy{}).Render(&buf, screen, NewSizer(80, 20)))
	out := buf.String()
	assert.Contains(t, out, "Task T")
	assert.Contains(t, out, "Task M")
	assert.NotContains(t, out, "Task L ")
}

func TestMinimalLayoutStrategy_Render(t *testing.T) {
	var buf bytes.Buffer
	screen := sampleScreen()
	screen.Review = &model.ReviewReport{Score: 55}
	require.NoError(t, (&MinimalLayoutStrategy{}).Render(&buf, screen, NewSizer(80, 24)))
	assert.Equal(t, "📅 2024-01-15 | ✔ 1/3 | now: Team sync | next: 10:00 Write the report | score: 55\n", buf.String())
}

func TestVisibleRange(t *testing.T) {
	tests := []struct {
		n, selected, rows int
		wantStart, wantEnd int
	}{
		{n: 5, selected: 0, rows: 10, wantStart: 0, wantEnd: 5},
		{n: 20, selected: 0, rows: 8, wantStart: 0, wantEnd: 8},
		{n: 20, selected: 10, rows: 8, wantStart: 6, wantEnd: 14},
		{n: 20, selected: 19, rows: 8, wantStart: 12, wantEnd: 20},
		{n: 20, selected: 3, rows: 0, wantStart: 0, wantEnd: 0},
	}
	for _, tt := range tests {
		start, end := visibleRange(tt.n, tt.selected, tt.rows)
		assert.Equal(t, tt.wantStart, start)
		assert.Equal(t, tt.wantEnd, end)
	}
}

func TestCurrentAndNextTask(t *testing.T) {
	tl := sampleScreen().Tasks
	cur, ok := CurrentTask(tl, model.MustClock(10, 30))
	require.True(t, ok)
	assert.Equal(t, "b", cur.ID)

	_, ok = CurrentTask(tl, model.MustClock(13, 0))
	assert.False(t, ok)

	next, ok := NextTask(tl, model.MustClock(8, 0))
	require.True(t, ok)
	assert.Equal(t, "b", next.ID, "completed tasks are skipped")

	_, ok = NextTask(tl, model.MustClock(20, 0))
	assert.False(t, ok)
}
