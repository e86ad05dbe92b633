package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/penwyp/go-day-planner/internal/application/planner"
	"github.com/penwyp/go-day-planner/internal/core/model"
	"github.com/penwyp/go-day-planner/internal/presentation/display"
	"github.com/penwyp/go-day-planner/internal/presentation/interaction"
	"github.com/penwyp/go-day-planner/internal/presentation/layout"
	"github.com/penwyp/go-day-planner/internal/util"
)

var (
	todayLayout  string
	todayRefresh time.Duration

	todayCmd = &cobra.Command{
		Use:   "today",
		Short: "Interactive view of the day's timeline",
		Long: `Show the day's timeline full screen and tick tasks off from the keyboard.

Keys:
  1-9          toggle that task
  ↑/↓ or j/k   move the selection
  space/enter  toggle the selected task
  r            redraw
  q, esc       quit

Examples:
  go-day-planner today
  go-day-planner today --layout minimal`,
		Args: cobra.NoArgs,
		RunE: runToday,
	}
)

func init() {
	todayCmd.Flags().StringVar(&todayLayout, "layout", "full",
		"Screen layout (full, minimal)")
	todayCmd.Flags().DurationVar(&todayRefresh, "refresh", 30*time.Second,
		"Redraw interval for the current-task line")

	rootCmd.AddCommand(todayCmd)
}

func runToday(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("today needs an interactive terminal, use show and toggle instead")
	}
	style, err := layoutStyle(todayLayout)
	if err != nil {
		return err
	}
	if todayRefresh < time.Second {
		return fmt.Errorf("refresh must be at least 1s")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	kr, err := interaction.NewKeyboardReader()
	if err != nil {
		return fmt.Errorf("failed to read keyboard: %w", err)
	}
	defer kr.Close()

	td := display.NewTerminalDisplay(cmd.OutOrStdout(), &display.DisplayConfig{LayoutStyle: style, AltScreen: true})
	td.EnterAlternateScreen()
	defer td.ExitAlternateScreen()

	tp := util.GetTimeProvider()
	v := &dayView{
		ctrl:    a.ctrl,
		display: td,
		nav:     interaction.NewNavigator(),
		sizer:   layout.TerminalSizer,
		now:     tp.Now,
		refresh: todayRefresh,
		color:   true,
	}
	return v.run(ctx, kr.Events())
}

func layoutStyle(name string) (int, error) {
	switch strings.ToLower(name) {
	case "", "full":
		return layout.StyleFull, nil
	case "minimal":
		return layout.StyleMinimal, nil
	default:
		return 0, fmt.Errorf("unknown layout %q (want full or minimal)", name)
	}
}

// renderer is the part of TerminalDisplay the day view needs.
type renderer interface {
	Render(screen layout.Screen, sizer *layout.Sizer) (bool, error)
}

// dayView runs the keyboard loop of the today command.
type dayView struct {
	ctrl    *planner.Controller
	display renderer
	nav     *interaction.Navigator
	sizer   func() *layout.Sizer
	now     func() time.Time
	refresh time.Duration
	color   bool
	message string
}

// run draws until quit, key source end or ctx cancellation.
func (v *dayView) run(ctx context.Context, keys <-chan interaction.KeyEvent) error {
	ticker := time.NewTicker(v.refresh)
	defer ticker.Stop()

	if err := v.draw(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		case ev, ok := <-keys:
			if !ok {
				return nil
			}
			if v.handle(ctx, ev) {
				return nil
			}
		}
		if err := v.draw(); err != nil {
			return err
		}
	}
}

// handle applies one key and reports whether the view should close.
func (v *dayView) handle(ctx context.Context, ev interaction.KeyEvent) bool {
	action := v.nav.Handle(ev)
	switch action.Type {
	case interaction.ActionQuit:
		return true
	case interaction.ActionToggle:
		tasks := v.ctrl.View().Tasks
		if action.Index >= len(tasks) {
			return false
		}
		t := tasks[action.Index]
		if !v.ctrl.Toggle(ctx, t.ID) {
			v.message = "Task no longer exists"
			return false
		}
		if t.IsCompleted() {
			v.message = "Reopened " + t.Title
		} else {
			v.message = "Completed " + t.Title
		}
	case interaction.ActionRefresh:
		v.message = ""
	}
	return false
}

func (v *dayView) draw() error {
	view := v.ctrl.View()
	v.nav.SetCount(len(view.Tasks))
	now := v.now()
	_, err := v.display.Render(layout.Screen{
		Day:         view.Day,
		Now:         model.MustClock(now.Hour(), now.Minute()),
		Tasks:       view.Tasks,
		Selected:    v.nav.Selected(),
		PlanState:   string(view.PlanState),
		ReviewState: string(view.ReviewState),
		Review:      view.Report,
		Message:     v.message,
		Color:       v.color,
	}, v.sizer())
	return err
}
