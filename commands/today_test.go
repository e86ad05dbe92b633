package commands

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-day-planner/internal/application/planner"
	"github.com/penwyp/go-day-planner/internal/core/parser"
	"github.com/penwyp/go-day-planner/internal/core/review"
	"github.com/penwyp/go-day-planner/internal/core/timeline"
	"github.com/penwyp/go-day-planner/internal/presentation/display"
	"github.com/penwyp/go-day-planner/internal/presentation/interaction"
	"github.com/penwyp/go-day-planner/internal/presentation/layout"
)

type recordingRenderer struct {
	screens []layout.Screen
}

func (r *recordingRenderer) Render(screen layout.Screen, sizer *layout.Sizer) (bool, error) {
	r.screens = append(r.screens, screen)
	return true, nil
}

func (r *recordingRenderer) last() layout.Screen {
	return r.screens[len(r.screens)-1]
}

func newTestDayView(t *testing.T, r renderer) *dayView {
	t.Helper()
	ctrl, err := planner.NewController(
		&planner.Config{Day: "2024-01-15"},
		parser.NewRuleParser(parser.Options{NewID: parser.SequentialIDs("t")}),
		timeline.NewStore(),
		review.NewAnalyzer(review.DefaultWeights()),
		nil,
	)
	require.NoError(t, err)
	require.NoError(t, ctrl.SetPlanText(testPlan))
	require.NoError(t, ctrl.Generate(context.Background()))

	return &dayView{
		ctrl:    ctrl,
		display: r,
		nav:     interaction.NewNavigator(),
		sizer:   func() *layout.Sizer { return layout.NewSizer(80, 24) },
		now:     func() time.Time { return time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC) },
		refresh: time.Hour,
	}
}

func keys(events ...interaction.KeyEvent) <-chan interaction.KeyEvent {
	ch := make(chan interaction.KeyEvent, len(events))
	for _, ev := range events {
		ch <- ev
	}
	close(ch)
	return ch
}

func TestDayView_ToggleAndQuit(t *testing.T) {
	r := &recordingRenderer{}
	v := newTestDayView(t, r)

	err := v.run(context.Background(), keys(
		interaction.KeyEvent{Key: '2', Type: interaction.KeyChar},
		interaction.KeyEvent{Type: interaction.KeyUp},
		interaction.KeyEvent{Key: ' ', Type: interaction.KeyChar},
		interaction.KeyEvent{Key: 'q', Type: interaction.KeyChar},
		interaction.KeyEvent{Key: '1', Type: interaction.KeyChar},
	))
	require.NoError(t, err)

	// initial frame plus one per key before quit
	require.Len(t, r.screens, 4)
	first := r.screens[0]
	assert.Equal(t, "2024-01-15", first.Day)
	assert.Equal(t, "09:30", first.Now.String())
	assert.Equal(t, string(planner.PlanPresenting), first.PlanState)

	last := r.last()
	assert.Equal(t, 0, last.Selected)
	require.Len(t, last.Tasks, 2)
	assert.True(t, last.Tasks[0].IsCompleted())
	assert.True(t, last.Tasks[1].IsCompleted())
	assert.True(t, strings.HasPrefix(last.Message, "Completed "), last.Message)

	completed, total := v.ctrl.View().CompletedCount, v.ctrl.View().TotalCount
	assert.Equal(t, 2, completed)
	assert.Equal(t, 2, total)
}

func TestDayView_ToggleTwiceReopens(t *testing.T) {
	r := &recordingRenderer{}
	v := newTestDayView(t, r)

	err := v.run(context.Background(), keys(
		interaction.KeyEvent{Type: interaction.KeyEnter},
		interaction.KeyEvent{Type: interaction.KeyEnter},
	))
	require.NoError(t, err)

	assert.False(t, r.last().Tasks[0].IsCompleted())
	assert.True(t, strings.HasPrefix(r.last().Message, "Reopened "), r.last().Message)
}

func TestDayView_StopsOnContextCancel(t *testing.T) {
	r := &recordingRenderer{}
	v := newTestDayView(t, r)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, v.run(ctx, make(chan interaction.KeyEvent)))
	assert.Len(t, r.screens, 1)
}

func TestDayView_RendersThroughTerminalDisplay(t *testing.T) {
	var out strings.Builder
	td := display.NewTerminalDisplay(&out, &display.DisplayConfig{LayoutStyle: layout.StyleMinimal})
	v := newTestDayView(t, td)

	require.NoError(t, v.run(context.Background(), keys(
		interaction.KeyEvent{Key: '1', Type: interaction.KeyChar},
	)))
	assert.Contains(t, out.String(), "2024-01-15")
}
