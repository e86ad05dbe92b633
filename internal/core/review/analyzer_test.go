package review

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-day-planner/internal/core/model"
)

func mk(id string, sh, eh int, title string, cat model.Category, done bool) model.Task {
	status := model.StatusPending
	if done {
		status = model.StatusCompleted
	}
	return model.Task{
		ID:        id,
		StartTime: model.MustClock(sh, 0),
		EndTime:   model.MustClock(eh, 0),
		Title:     title,
		Category:  cat,
		Status:    status,
	}
}

func plannedDay(completed int) model.Timeline {
	tl := model.Timeline{
		mk("sync", 9, 10, "Team sync", model.CategoryWork, false),
		mk("report", 10, 12, "Writing the report", model.CategoryWork, false),
		mk("gym", 13, 14, "Gym", model.CategoryHealth, false),
		mk("read", 20, 21, "Read a book", model.CategoryGrowth, false),
	}
	for i := 0; i < completed; i++ {
		tl[i].Status = model.StatusCompleted
	}
	return tl
}

func TestAnalyze_InsufficientInput(t *testing.T) {
	a := NewAnalyzer(DefaultWeights())
	_, err := a.Analyze(nil, "")
	assert.ErrorIs(t, err, model.ErrInsufficientInput)
	_, err = a.Analyze(model.Timeline{}, "   \n")
	assert.ErrorIs(t, err, model.ErrInsufficientInput)
}

func TestAnalyze_Deterministic(t *testing.T) {
	a := NewAnalyzer(DefaultWeights())
	narrative := "Team sync ran late. I skipped the gym, but I also managed a walk. Felt productive overall."
	first, err := a.Analyze(plannedDay(2), narrative)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := a.Analyze(plannedDay(2), narrative)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestAnalyze_MonotonicInCompletion(t *testing.T) {
	a := NewAnalyzer(DefaultWeights())
	narratives := []string{
		"",
		"Felt productive. The gym ran late.",
		"I skipped the gym and was tired.",
		"Great day, finished the report early.",
	}
	for _, narrative := range narratives {
		t.Run(fmt.Sprintf("%q", narrative), func(t *testing.T) {
			prev := -1
			for k := 0; k <= 4; k++ {
				report, err := a.Analyze(plannedDay(k), narrative)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, report.Score, prev, "score dropped at %d completed", k)
				assert.GreaterOrEqual(t, report.Score, 0)
				assert.LessOrEqual(t, report.Score, 100)
				prev = report.Score
			}
		})
	}
}

func TestAnalyze_Counts(t *testing.T) {
	a := NewAnalyzer(DefaultWeights())
	report, err := a.Analyze(plannedDay(3), "")
	require.NoError(t, err)
	assert.Equal(t, 3, report.CompletedCount)
	assert.Equal(t, 4, report.TotalCount)
	assert.InDelta(t, 0.75, report.CompletionRatio, 1e-9)
	// 70*0.75 + 30*0.5
	assert.Equal(t, 68, report.Score)
}

func TestAnalyze_NarrativeOnly(t *testing.T) {
	a := NewAnalyzer(DefaultWeights())
	report, err := a.Analyze(nil, "great productive day")
	require.NoError(t, err)
	assert.Equal(t, 0, report.TotalCount)
	// one positive cue: sentiment 2/3 stands in for completion too
	assert.Equal(t, 67, report.Score)
	assert.Contains(t, report.Highlights, "Your own account of the day was upbeat.")
	assert.Contains(t, report.Suggestions, "Plan tomorrow with explicit times so the review can compare plan and day.")
}

func TestAnalyze_DelayMatchedToTask(t *testing.T) {
	a := NewAnalyzer(DefaultWeights())
	report, err := a.Analyze(plannedDay(0), "The report took longer than planned")
	require.NoError(t, err)

	require.Len(t, report.Signals, 1)
	assert.Equal(t, model.SignalDelay, report.Signals[0].Kind)
	assert.Equal(t, "report", report.Signals[0].TaskID)
	assert.Equal(t, `Leave more buffer around "Writing the report" in the morning; it ran late.`, report.Suggestions[0])
	// 0 + 30*0.5 - 3
	assert.Equal(t, 12, report.Score)
}

func TestAnalyze_SkipContradictsCompletion(t *testing.T) {
	a := NewAnalyzer(DefaultWeights())
	tl := model.Timeline{mk("gym", 7, 8, "Gym", model.CategoryHealth, true)}

	report, err := a.Analyze(tl, "I skipped the gym")
	require.NoError(t, err)
	require.Len(t, report.Signals, 1)
	assert.Equal(t, "gym", report.Signals[0].TaskID)
	assert.Equal(t, 1, report.CompletedCount)
	// narrative wins: the completion term counts the task as not done
	assert.Equal(t, 15, report.Score)
	assert.True(t, strings.Contains(report.Suggestions[0], "marked done"))
}

func TestAnalyze_Negation(t *testing.T) {
	a := NewAnalyzer(DefaultWeights())
	report, err := a.Analyze(plannedDay(1), "I was not late for the team sync")
	require.NoError(t, err)
	for _, sig := range report.Signals {
		assert.NotEqual(t, model.SignalDelay, sig.Kind)
	}
	require.NotEmpty(t, report.Signals)
	assert.Equal(t, model.SignalPositive, report.Signals[0].Kind)
}

func TestAnalyze_ExtraBonusCapped(t *testing.T) {
	a := NewAnalyzer(DefaultWeights())
	base, err := a.Analyze(plannedDay(2), "")
	require.NoError(t, err)
	extra, err := a.Analyze(plannedDay(2),
		"Squeezed in a walk. Bonus call with mom. Unplanned cleanup. Extra reading.")
	require.NoError(t, err)
	assert.Equal(t, base.Score+10, extra.Score)
}

func TestAnalyze_InsightsReferenceSnapshot(t *testing.T) {
	tests := []struct {
		name      string
		snapshot  model.Timeline
		narrative string
	}{
		{name: "half done with a delay", snapshot: plannedDay(2), narrative: "Ran late in the afternoon. Tired."},
		{name: "all pending flat narrative", snapshot: plannedDay(0), narrative: "It was a day."},
		{name: "all pending upbeat narrative", snapshot: plannedDay(0), narrative: "Great day, I felt productive."},
		{name: "all pending draining narrative", snapshot: plannedDay(0), narrative: "Exhausted and stressed, a bad day."},
		{name: "unnamed slip and early finish", snapshot: plannedDay(1), narrative: "Something ran late. Something else finished early."},
		{name: "skip on a completed task", snapshot: plannedDay(4), narrative: "I skipped the gym."},
		{name: "all done", snapshot: plannedDay(4), narrative: "Done."},
	}

	a := NewAnalyzer(DefaultWeights())
	terms := []string{"work", "health", "growth", "life", "morning", "afternoon", "evening", "night"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := a.Analyze(tt.snapshot, tt.narrative)
			require.NoError(t, err)

			require.NotEmpty(t, report.Highlights)
			assert.LessOrEqual(t, len(report.Highlights), MaxInsights)
			assert.LessOrEqual(t, len(report.Suggestions), MaxInsights)

			for _, line := range append(report.Highlights, report.Suggestions...) {
				lower := strings.ToLower(line)
				found := false
				for _, term := range terms {
					if strings.Contains(lower, term) {
						found = true
						break
					}
				}
				assert.True(t, found, "insight %q references neither a category nor a window", line)
			}
		})
	}
}

func TestAnalyze_FallbackHighlightNamesFocus(t *testing.T) {
	a := NewAnalyzer(DefaultWeights())

	report, err := a.Analyze(plannedDay(0), "It was a day.")
	require.NoError(t, err)
	assert.Equal(t, []string{"You planned 2 work blocks in the morning; reviewing them keeps the next plan honest."}, report.Highlights)

	report, err = a.Analyze(plannedDay(0), "Great day, I felt productive.")
	require.NoError(t, err)
	assert.Contains(t, report.Highlights, "You felt upbeat about a day built around 2 work blocks in the morning.")
}

func TestWeights_Validate(t *testing.T) {
	w := Weights{CompletionWeight: 60, NarrativeWeight: 40}
	require.NoError(t, w.Validate())
	assert.Equal(t, 60.0, w.CompletionWeight)
	assert.Equal(t, 3.0, w.DelayPenalty)
	assert.Equal(t, 10.0, w.ExtraCap)

	bad := Weights{CompletionWeight: -1}
	assert.Error(t, bad.Validate())
}

func TestNewAnalyzer_NegativeWeightsFallBackToDefaults(t *testing.T) {
	a := NewAnalyzer(Weights{CompletionWeight: -1, NarrativeWeight: 30})
	assert.Equal(t, DefaultWeights(), a.Weights())

	low, err := a.Analyze(plannedDay(1), "")
	require.NoError(t, err)
	high, err := a.Analyze(plannedDay(3), "")
	require.NoError(t, err)
	assert.Greater(t, high.Score, low.Score)
}
