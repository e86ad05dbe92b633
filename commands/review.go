package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-day-planner/internal/application/planner"
	"github.com/penwyp/go-day-planner/internal/util"
)

var (
	reviewFile   string
	reviewListen int
	reviewSource string
	reviewRetry  bool
	reviewOutput string

	reviewCmd = &cobra.Command{
		Use:   "review [narrative...]",
		Short: "Score how the day went against the plan",
		Long: `Compare your account of the day with the timeline and print a score
from 0 to 100 with highlights and suggestions.

The narrative can be given as arguments, read from a file, or spoken with
--listen N. A scored day is left alone unless --retry is given; --retry
without a new narrative re-scores the stored one against the current
task statuses.

Examples:
  go-day-planner review "Team sync went well but the report took longer than planned"
  go-day-planner review --listen 1 --source stdin
  go-day-planner review --retry`,
		RunE: runReview,
	}
)

func init() {
	reviewCmd.Flags().StringVarP(&reviewFile, "file", "f", "",
		"Read the narrative from a file (- for stdin)")
	reviewCmd.Flags().IntVarP(&reviewListen, "listen", "l", 0,
		"Number of utterances to capture before analyzing")
	reviewCmd.Flags().StringVar(&reviewSource, "source", sourceInbox,
		"Utterance source for --listen (inbox, stdin)")
	reviewCmd.Flags().BoolVar(&reviewRetry, "retry", false,
		"Discard the stored review and analyze again")
	reviewCmd.Flags().StringVarP(&reviewOutput, "output", "o", "summary",
		"Output format (table, json, csv, ics, summary)")

	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	if reviewListen < 0 {
		return fmt.Errorf("listen must be zero or positive")
	}
	text, err := inputText(args, reviewFile, cmd.InOrStdin())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	hasInput := text != "" || reviewListen > 0
	if a.ctrl.View().ReviewState == planner.ReviewResult {
		switch {
		case reviewRetry:
			if err := a.ctrl.Retry(ctx); err != nil {
				return err
			}
		case !hasInput:
			return a.render(cmd.OutOrStdout(), reviewOutput)
		default:
			return fmt.Errorf("%w: %s is already reviewed, pass --retry to review again",
				planner.ErrInvalidTransition, a.ctrl.Day())
		}
	}

	if text != "" {
		if err := a.ctrl.SetNarrative(text); err != nil {
			return err
		}
	}
	if reviewListen > 0 {
		c, closeFn, err := a.capturer(reviewSource, cmd.InOrStdin())
		if err != nil {
			return err
		}
		defer closeFn()
		if reviewSource != sourceStdin {
			fmt.Fprintf(cmd.ErrOrStderr(), "Listening for %s in %s\n",
				util.Pluralize(reviewListen, "utterance"), a.cfg.InboxDir)
		}
		if err := listen(ctx, cmd.ErrOrStderr(), c, reviewListen, a.ctrl.CaptureNarrative); err != nil {
			return err
		}
	}

	if err := a.ctrl.Analyze(ctx); err != nil {
		if errors.Is(err, planner.ErrEmptyNarrative) {
			return fmt.Errorf("%w: pass a narrative, --file or --listen", err)
		}
		return err
	}
	return a.render(cmd.OutOrStdout(), reviewOutput)
}
