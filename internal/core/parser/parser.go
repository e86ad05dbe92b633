// Package parser turns free-form plan text into a day timeline.
package parser

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/penwyp/go-day-planner/internal/core/model"
	"github.com/penwyp/go-day-planner/internal/core/text"
	"github.com/penwyp/go-day-planner/internal/util"
)

// DefaultTaskDuration is used when a clause has a start but no end or duration.
const DefaultTaskDuration = 60

// ScheduleParser converts plan text into tasks sorted by start time.
// Implementations may be slow or remote; they must honour ctx.
type ScheduleParser interface {
	Parse(ctx context.Context, raw string) ([]model.Task, error)
}

// Options tunes a RuleParser.
type Options struct {
	// DefaultDuration in minutes for clauses without end or duration.
	DefaultDuration int
	// NewID generates task identifiers.
	NewID func() string
}

// RuleParser is the built-in deterministic parser. It reads clauses in order,
// chaining clauses without a start time onto the end of the previous task.
type RuleParser struct {
	defaultDuration int
	newID           func() string
}

// NewRuleParser creates a parser with the given options; zero fields get defaults.
func NewRuleParser(opts Options) *RuleParser {
	if opts.DefaultDuration <= 0 {
		opts.DefaultDuration = DefaultTaskDuration
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &RuleParser{defaultDuration: opts.DefaultDuration, newID: opts.NewID}
}

var andSplit = regexp.MustCompile(`\s+and\s+`)

// Parse implements ScheduleParser.
func (p *RuleParser) Parse(ctx context.Context, raw string) ([]model.Task, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, model.ErrNoSchedulableContent
	}

	var (
		tasks     []model.Task
		cursor    model.Clock
		hasCursor bool
	)
	for _, clause := range p.clauses(raw) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		task, ok := p.taskFrom(clause, cursor, hasCursor)
		if !ok {
			util.LogDebugf("parser: skipping clause %q", clause)
			continue
		}
		tasks = append(tasks, task)
		cursor, hasCursor = task.EndTime, true
	}

	if len(tasks) == 0 {
		return nil, model.ErrNoSchedulableContent
	}
	model.SortTimeline(tasks)
	util.LogDebugf("parser: %d tasks from %d bytes of text", len(tasks), len(raw))
	return tasks, nil
}

// clauses segments the text, splits "and"-joined clauses that each carry their
// own clock time, and folds time-only fragments into the following clause.
func (p *RuleParser) clauses(raw string) []string {
	var pieces []string
	for _, seg := range text.Segment(raw) {
		pieces = append(pieces, splitOnAnd(seg)...)
	}

	out := make([]string, 0, len(pieces))
	pending := ""
	for i, piece := range pieces {
		if pending != "" {
			piece = pending + " " + piece
			pending = ""
		}
		if i < len(pieces)-1 && isTimeOnly(piece) {
			pending = piece
			continue
		}
		out = append(out, piece)
	}
	if pending != "" {
		out = append(out, pending)
	}
	return out
}

func splitOnAnd(seg string) []string {
	parts := andSplit.Split(seg, -1)
	if len(parts) == 1 {
		return parts
	}
	var out []string
	acc := parts[0]
	for _, part := range parts[1:] {
		if hasClockTime(acc) && hasClockTime(part) {
			out = append(out, acc)
			acc = part
			continue
		}
		acc += " and " + part
	}
	return append(out, acc)
}

func hasClockTime(clause string) bool {
	return findAnchor(clause, 0, false).explicit
}

// isTimeOnly reports whether a fragment carries timing but no activity,
// like "at 9am" in "at 9am, team sync".
func isTimeOnly(clause string) bool {
	a := findAnchor(clause, 0, false)
	minutes, durSpans := findDuration(clause)
	if !a.hasStart && !a.hasEnd && minutes == 0 {
		return false
	}
	return cleanTitle(clause, append(a.spans, durSpans...)) == ""
}

func (p *RuleParser) taskFrom(clause string, cursor model.Clock, hasCursor bool) (model.Task, bool) {
	anchor := findAnchor(clause, cursor, hasCursor)
	minutes, durSpans := findDuration(clause)
	cleaned := cleanTitle(clause, append(anchor.spans, durSpans...))
	category, cued := Classify(cleaned)

	start := anchor.start
	switch {
	case anchor.hasStart:
	case anchor.hasEnd && hasCursor:
		start = cursor
	case hasCursor && (minutes > 0 || cued):
		start = cursor
	default:
		return model.Task{}, false
	}
	if cleaned == "" && !anchor.explicit && minutes == 0 {
		return model.Task{}, false
	}
	if start >= model.EndOfDay {
		return model.Task{}, false
	}

	var end model.Clock
	switch {
	case anchor.hasEnd && anchor.end > start:
		end = anchor.end
	case minutes > 0:
		end = start.Add(minutes)
	default:
		end = start.Add(p.defaultDuration)
	}
	if end <= start {
		return model.Task{}, false
	}

	task := model.Task{
		ID:        p.newID(),
		StartTime: start,
		EndTime:   end,
		Title:     displayTitle(cleaned, category),
		Category:  category,
		Status:    model.StatusPending,
	}
	if err := task.Validate(); err != nil {
		util.LogWarnf("parser: dropping clause %q: %v", clause, err)
		return model.Task{}, false
	}
	return task, true
}

// SequentialIDs returns an id generator yielding prefix-1, prefix-2, ...
func SequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}
