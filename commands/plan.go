package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-day-planner/internal/application/planner"
	"github.com/penwyp/go-day-planner/internal/core/model"
	"github.com/penwyp/go-day-planner/internal/util"
)

var (
	planFile   string
	planListen int
	planSource string
	planOutput string

	planCmd = &cobra.Command{
		Use:   "plan [text...]",
		Short: "Turn a description of your day into a timeline",
		Long: `Parse a plan into time-ordered tasks and store it as the day's timeline.

The plan can be given as arguments, read from a file, or spoken: with
--listen N the command waits for N transcripts, either files dropped into the
inbox directory by a speech-to-text tool or lines on stdin (--source stdin).
Regenerating replaces the previous timeline and discards any review.

Examples:
  go-day-planner plan "9am team sync for one hour, then two hours writing the report"
  go-day-planner plan --file ~/notes/today.txt --output summary
  go-day-planner plan --listen 1 --source stdin`,
		RunE: runPlan,
	}
)

func init() {
	planCmd.Flags().StringVarP(&planFile, "file", "f", "",
		"Read the plan from a file (- for stdin)")
	planCmd.Flags().IntVarP(&planListen, "listen", "l", 0,
		"Number of utterances to capture before generating")
	planCmd.Flags().StringVar(&planSource, "source", sourceInbox,
		"Utterance source for --listen (inbox, stdin)")
	planCmd.Flags().StringVarP(&planOutput, "output", "o", "table",
		"Output format (table, json, csv, ics, summary)")

	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	if planListen < 0 {
		return fmt.Errorf("listen must be zero or positive")
	}
	text, err := inputText(args, planFile, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if text == "" && planListen == 0 {
		return fmt.Errorf("%w: pass text, --file or --listen", planner.ErrEmptyPlanText)
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	// A stored plan is edited, not appended to
	if err := a.ctrl.Edit(); err != nil {
		return err
	}
	if err := a.ctrl.SetPlanText(text); err != nil {
		return err
	}

	if planListen > 0 {
		c, closeFn, err := a.capturer(planSource, cmd.InOrStdin())
		if err != nil {
			return err
		}
		defer closeFn()
		if planSource != sourceStdin {
			fmt.Fprintf(cmd.ErrOrStderr(), "Listening for %s in %s\n",
				util.Pluralize(planListen, "utterance"), a.cfg.InboxDir)
		}
		if err := listen(ctx, cmd.ErrOrStderr(), c, planListen, a.ctrl.CapturePlan); err != nil {
			return err
		}
	}

	if err := a.ctrl.Generate(ctx); err != nil {
		if errors.Is(err, model.ErrNoSchedulableContent) {
			return fmt.Errorf("%w: mention at least one time, like \"9am\" or \"at 14:30\"", err)
		}
		return err
	}
	return a.render(cmd.OutOrStdout(), planOutput)
}
