package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-day-planner/internal/core/model"
)

var (
	toggleOutput string

	toggleCmd = &cobra.Command{
		Use:   "toggle <id|#index>...",
		Short: "Mark tasks done, or undone when already done",
		Long: `Flip the completion status of one or more tasks.

Tasks are named by id or by their 1-based position in the timeline
prefixed with '#'. Toggling a task twice restores it.

Examples:
  go-day-planner toggle '#1' '#3'
  go-day-planner toggle 3f2c9a1e-8d7b-4c55-9f0e-2a1b3c4d5e6f`,
		Args: cobra.MinimumNArgs(1),
		RunE: runToggle,
	}
)

func init() {
	toggleCmd.Flags().StringVarP(&toggleOutput, "output", "o", "table",
		"Output format (table, json, csv, ics, summary)")

	rootCmd.AddCommand(toggleCmd)
}

func runToggle(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	var errs []error
	for _, ref := range args {
		id, err := resolveTaskRef(a.timeline.Snapshot(), ref)
		if err == nil && !a.ctrl.Toggle(cmd.Context(), id) {
			err = fmt.Errorf("%w: %s", model.ErrUnknownTaskID, ref)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.render(cmd.OutOrStdout(), toggleOutput); err != nil {
		return err
	}
	return errors.Join(errs...)
}

// resolveTaskRef maps "#n" to the id of the n-th task; anything else is an id.
func resolveTaskRef(tl model.Timeline, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if !strings.HasPrefix(ref, "#") {
		return ref, nil
	}
	n, err := strconv.Atoi(ref[1:])
	if err != nil || n < 1 || n > len(tl) {
		return "", fmt.Errorf("%w: %s (timeline has %d tasks)", model.ErrUnknownTaskID, ref, len(tl))
	}
	return tl[n-1].ID, nil
}
