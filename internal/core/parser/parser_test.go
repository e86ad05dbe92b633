package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-day-planner/internal/core/model"
)

type wantTask struct {
	start, end string
	title      string
	category   model.Category
}

func newTestParser() *RuleParser {
	return NewRuleParser(Options{NewID: SequentialIDs("t")})
}

func TestRuleParser_Parse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []wantTask
	}{
		{
			name:  "explicit start then chained duration",
			input: "9am team sync for one hour, then two hours writing the report",
			want: []wantTask{
				{"09:00", "10:00", "Team sync", model.CategoryWork},
				{"10:00", "12:00", "Writing the report", model.CategoryWork},
			},
		},
		{
			name:  "range with inherited meridiem and colon time",
			input: "Gym from 7 to 8am, standup at 9:30 for 15 minutes",
			want: []wantTask{
				{"07:00", "08:00", "Gym", model.CategoryHealth},
				{"09:30", "09:45", "Standup", model.CategoryWork},
			},
		},
		{
			name:  "noon with half an hour",
			input: "Lunch at noon for half an hour",
			want: []wantTask{
				{"12:00", "12:30", "Lunch", model.CategoryLife},
			},
		},
		{
			name:  "bare afternoon hour without context",
			input: "call mom at 3",
			want: []wantTask{
				{"15:00", "16:00", "Call mom", model.CategoryLife},
			},
		},
		{
			name:  "end clamped to end of day",
			input: "Movie at 11pm for 3 hours",
			want: []wantTask{
				{"23:00", "24:00", "Movie", model.CategoryLife},
			},
		},
		{
			name:  "range past midnight clamped to end of day",
			input: "Deploy the release from 10pm to 2am",
			want: []wantTask{
				{"22:00", "24:00", "Deploy the release", model.CategoryWork},
			},
		},
		{
			name:  "pm range with filler",
			input: "I'll be at the gym from 6 to 7pm",
			want: []wantTask{
				{"18:00", "19:00", "Gym", model.CategoryHealth},
			},
		},
		{
			name:  "output sorted by start",
			input: "Dinner at 7pm. Gym at 6am",
			want: []wantTask{
				{"06:00", "07:00", "Gym", model.CategoryHealth},
				{"19:00", "20:00", "Dinner", model.CategoryLife},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := newTestParser().Parse(context.Background(), tt.input)
			require.NoError(t, err)
			require.Len(t, tasks, len(tt.want))
			for i, w := range tt.want {
				assert.Equal(t, w.start, tasks[i].StartTime.String(), "start of task %d", i)
				assert.Equal(t, w.end, tasks[i].EndTime.String(), "end of task %d", i)
				assert.Equal(t, w.title, tasks[i].Title)
				assert.Equal(t, w.category, tasks[i].Category)
				assert.Equal(t, model.StatusPending, tasks[i].Status)
			}
		})
	}
}

func TestRuleParser_WellFormedTasks(t *testing.T) {
	input := "Morning run at 7am for 30 minutes. Emails until 10am, then a meeting with the client. " +
		"Lunch at 12:30. Read a book in the evening"
	tasks, err := newTestParser().Parse(context.Background(), input)
	require.NoError(t, err)
	require.NotEmpty(t, tasks)

	ids := make(map[string]bool)
	for i, task := range tasks {
		assert.Less(t, task.StartTime, task.EndTime)
		assert.NotEmpty(t, task.Title)
		assert.True(t, task.Category.Valid())
		assert.False(t, ids[task.ID], "duplicate id %s", task.ID)
		ids[task.ID] = true
		if i > 0 {
			assert.LessOrEqual(t, tasks[i-1].StartTime, task.StartTime)
		}
	}
	assert.NoError(t, model.Timeline(tasks).Validate())
}

func TestRuleParser_NoSchedulableContent(t *testing.T) {
	for _, input := range []string{"", "   ", "what a lovely day"} {
		_, err := newTestParser().Parse(context.Background(), input)
		assert.ErrorIs(t, err, model.ErrNoSchedulableContent, "input %q", input)
	}
}

func TestRuleParser_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestParser().Parse(ctx, "gym at 7am")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRuleParser_DefaultIDs(t *testing.T) {
	tasks, err := NewRuleParser(Options{}).Parse(context.Background(), "gym at 7am, standup at 9am")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.NotEqual(t, tasks[0].ID, tasks[1].ID)
	assert.Len(t, tasks[0].ID, 36)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		clause string
		want   model.Category
		cued   bool
	}{
		{"writing the report", model.CategoryWork, true},
		{"writing my blog", model.CategoryGrowth, true},
		{"reading a book", model.CategoryGrowth, true},
		{"morning run", model.CategoryHealth, true},
		{"grocery shopping", model.CategoryLife, true},
		{"something vague", model.CategoryWork, false},
	}
	for _, tt := range tests {
		t.Run(tt.clause, func(t *testing.T) {
			got, cued := Classify(tt.clause)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.cued, cued)
		})
	}
}

func TestFindDuration(t *testing.T) {
	tests := []struct {
		clause string
		want   int
	}{
		{"for an hour", 60},
		{"two hours writing", 120},
		{"for 45 minutes", 45},
		{"1.5 hours", 90},
		{"an hour and a half", 90},
		{"a quarter of an hour", 15},
		{"1 hour 30 minutes", 90},
		{"30m", 30},
		{"9am team sync", 0},
	}
	for _, tt := range tests {
		t.Run(tt.clause, func(t *testing.T) {
			got, _ := findDuration(tt.clause)
			assert.Equal(t, tt.want, got)
		})
	}
}
