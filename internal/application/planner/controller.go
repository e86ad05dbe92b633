// Package planner drives the planning and review flows of one day.
package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/penwyp/go-day-planner/internal/core/model"
	"github.com/penwyp/go-day-planner/internal/core/parser"
	"github.com/penwyp/go-day-planner/internal/data/capture"
	"github.com/penwyp/go-day-planner/internal/data/store"
	"github.com/penwyp/go-day-planner/internal/util"
)

// Controller coordinates parser, timeline and analyzer over one Session.
// Long-running steps run without the lock held, so toggles and reads proceed
// while a plan is generated or a review analyzed.
type Controller struct {
	config *Config

	parser   parser.ScheduleParser
	timeline TimelineStore
	analyzer ReviewAnalyzer
	repo     store.Repository // optional

	mu           sync.Mutex
	session      Session
	epoch        int // bumped on rollover; stale results are dropped
	cancelGen    context.CancelFunc
	cancelReview context.CancelFunc

	saveMu sync.Mutex
}

// NewController creates a controller. repo may be nil for an in-memory session.
func NewController(config *Config, p parser.ScheduleParser, tl TimelineStore, a ReviewAnalyzer, repo store.Repository) (*Controller, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if p == nil || tl == nil || a == nil {
		return nil, errors.New("planner: parser, timeline and analyzer are required")
	}
	return &Controller{
		config:   config,
		parser:   p,
		timeline: tl,
		analyzer: a,
		repo:     repo,
		session:  newSession(config.Day),
	}, nil
}

// View returns an immutable projection of the session.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	tasks := c.timeline.Snapshot()
	completed, total := tasks.Counts()
	v := View{
		Day:             c.session.Day,
		PlanState:       c.session.PlanState,
		PlanText:        c.session.PlanText,
		LastPlanError:   c.session.LastPlanError,
		Tasks:           tasks,
		CompletedCount:  completed,
		TotalCount:      total,
		CompletionRatio: tasks.CompletionRatio(),
		ReviewState:     c.session.ReviewState,
		Narrative:       c.session.Narrative,
		LastReviewError: c.session.LastReviewError,
		Report:          cloneReport(c.session.Report),
	}
	if !c.session.GeneratedAt.IsZero() {
		at := c.session.GeneratedAt
		v.GeneratedAt = &at
	}
	if v.Tasks == nil {
		v.Tasks = model.Timeline{}
	}
	return v
}

// Day returns the day key of the current session.
func (c *Controller) Day() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Day
}

// --- planning flow ---

func (c *Controller) planEditableLocked() error {
	switch c.session.PlanState {
	case PlanGenerating:
		return ErrOperationInFlight
	case PlanPresenting:
		return ErrInvalidTransition
	}
	return nil
}

// SetPlanText replaces the typed plan text.
func (c *Controller) SetPlanText(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.planEditableLocked(); err != nil {
		return err
	}
	c.session.PlanText = text
	return nil
}

// AppendPlanText adds an utterance to the plan text with a single space.
func (c *Controller) AppendPlanText(utterance string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.planEditableLocked(); err != nil {
		return err
	}
	c.session.PlanText = appendUtterance(c.session.PlanText, utterance)
	return nil
}

// CapturePlan records one utterance and appends it to the plan text.
func (c *Controller) CapturePlan(ctx context.Context, capturer capture.Capturer) (string, error) {
	c.mu.Lock()
	err := c.planEditableLocked()
	c.mu.Unlock()
	if err != nil {
		return "", err
	}

	utterance, err := capturer.CaptureUtterance(ctx)
	if err != nil {
		return "", fmt.Errorf("capture plan: %w", err)
	}
	if err := c.AppendPlanText(utterance); err != nil {
		return "", err
	}
	return utterance, nil
}

// Generate parses the plan text into the timeline. On failure the session
// returns to capturing with LastPlanError set and the previous tasks intact.
func (c *Controller) Generate(ctx context.Context) error {
	c.mu.Lock()
	switch c.session.PlanState {
	case PlanGenerating:
		c.mu.Unlock()
		return ErrOperationInFlight
	case PlanPresenting:
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	text := strings.TrimSpace(c.session.PlanText)
	if text == "" {
		c.mu.Unlock()
		return ErrEmptyPlanText
	}
	genCtx, cancel := context.WithTimeout(ctx, c.config.GenerateTimeout)
	c.session.PlanState = PlanGenerating
	c.session.LastPlanError = ""
	c.cancelGen = cancel
	epoch, day := c.epoch, c.session.Day
	c.mu.Unlock()

	util.LogInfof("planner: generating plan for %s", day)
	tasks, err := runWithContext(genCtx, func(ctx context.Context) ([]model.Task, error) {
		return c.parser.Parse(ctx, text)
	})
	cancel()

	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		util.LogDebugf("planner: dropping generation result for %s after rollover", day)
		return fmt.Errorf("generate plan: %w", context.Canceled)
	}
	c.cancelGen = nil
	if err == nil {
		// Replaced under the controller lock so View never sees new tasks
		// with a stale state. Store listeners must not call the controller.
		c.timeline.ReplaceAll(tasks)
	}
	if err != nil {
		c.session.PlanState = PlanCapturing
		c.session.LastPlanError = describePlanError(err)
		c.mu.Unlock()
		util.LogWarnf("planner: generation failed: %v", err)
		return fmt.Errorf("generate plan: %w", err)
	}
	c.session.PlanState = PlanPresenting
	c.session.GeneratedAt = util.GetTimeProvider().Now()
	c.session.Report = nil
	c.session.ReviewState = ReviewCapturing
	c.session.LastReviewError = ""
	c.mu.Unlock()

	util.LogInfof("planner: generated %d tasks", len(tasks))
	c.persist(ctx)
	return nil
}

// CancelGeneration aborts an in-flight generation. It reports whether one was running.
func (c *Controller) CancelGeneration() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancelGen == nil {
		return false
	}
	c.cancelGen()
	return true
}

// Edit returns from presenting to capturing keeping tasks and text.
func (c *Controller) Edit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.session.PlanState {
	case PlanGenerating:
		return ErrOperationInFlight
	case PlanPresenting:
		c.session.PlanState = PlanCapturing
	}
	return nil
}

// Toggle flips a task's completion. Unknown ids are ignored and report false.
func (c *Controller) Toggle(ctx context.Context, id string) bool {
	if !c.timeline.ToggleStatus(id) {
		util.LogDebugf("planner: toggle ignored: %v: %s", model.ErrUnknownTaskID, id)
		return false
	}
	c.persist(ctx)
	return true
}

// --- review flow ---

func (c *Controller) narrativeEditableLocked() error {
	switch c.session.ReviewState {
	case ReviewAnalyzing:
		return ErrOperationInFlight
	case ReviewResult:
		return ErrInvalidTransition
	}
	return nil
}

// SetNarrative replaces the review narrative.
func (c *Controller) SetNarrative(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.narrativeEditableLocked(); err != nil {
		return err
	}
	c.session.Narrative = text
	return nil
}

// AppendNarrative adds an utterance to the narrative with a single space.
func (c *Controller) AppendNarrative(utterance string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.narrativeEditableLocked(); err != nil {
		return err
	}
	c.session.Narrative = appendUtterance(c.session.Narrative, utterance)
	return nil
}

// CaptureNarrative records one utterance and appends it to the narrative.
func (c *Controller) CaptureNarrative(ctx context.Context, capturer capture.Capturer) (string, error) {
	c.mu.Lock()
	err := c.narrativeEditableLocked()
	c.mu.Unlock()
	if err != nil {
		return "", err
	}

	utterance, err := capturer.CaptureUtterance(ctx)
	if err != nil {
		return "", fmt.Errorf("capture narrative: %w", err)
	}
	if err := c.AppendNarrative(utterance); err != nil {
		return "", err
	}
	return utterance, nil
}

// Analyze reviews the current timeline snapshot against the narrative.
func (c *Controller) Analyze(ctx context.Context) error {
	c.mu.Lock()
	switch c.session.ReviewState {
	case ReviewAnalyzing:
		c.mu.Unlock()
		return ErrOperationInFlight
	case ReviewResult:
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	narrative := strings.TrimSpace(c.session.Narrative)
	if narrative == "" {
		c.mu.Unlock()
		return ErrEmptyNarrative
	}
	anCtx, cancel := context.WithTimeout(ctx, c.config.AnalyzeTimeout)
	c.session.ReviewState = ReviewAnalyzing
	c.session.LastReviewError = ""
	c.cancelReview = cancel
	epoch := c.epoch
	c.mu.Unlock()

	snapshot := c.timeline.Snapshot()
	report, err := runWithContext(anCtx, func(context.Context) (model.ReviewReport, error) {
		return c.analyzer.Analyze(snapshot, narrative)
	})
	cancel()

	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		return fmt.Errorf("analyze review: %w", context.Canceled)
	}
	c.cancelReview = nil
	if err != nil {
		c.session.ReviewState = ReviewCapturing
		c.session.LastReviewError = describeReviewError(err)
		c.mu.Unlock()
		util.LogWarnf("planner: analysis failed: %v", err)
		return fmt.Errorf("analyze review: %w", err)
	}
	c.session.ReviewState = ReviewResult
	c.session.Report = &report
	c.mu.Unlock()

	util.LogInfof("planner: review scored %d", report.Score)
	c.persist(ctx)
	return nil
}

// Retry discards the report and returns to narrative capture.
func (c *Controller) Retry(ctx context.Context) error {
	c.mu.Lock()
	if c.session.ReviewState != ReviewResult {
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	c.session.ReviewState = ReviewCapturing
	c.session.Report = nil
	c.mu.Unlock()

	c.persist(ctx)
	return nil
}

// --- session lifecycle ---

// Rollover discards the session and starts an empty one for day.
func (c *Controller) Rollover(day string) error {
	if _, err := time.Parse(store.DayLayout, day); err != nil {
		return fmt.Errorf("rollover: %w", err)
	}
	c.mu.Lock()
	if c.cancelGen != nil {
		c.cancelGen()
	}
	if c.cancelReview != nil {
		c.cancelReview()
	}
	previous := c.session.Day
	c.session = newSession(day)
	c.epoch++
	c.cancelGen, c.cancelReview = nil, nil
	c.timeline.ReplaceAll(nil)
	c.mu.Unlock()

	util.LogInfof("planner: rolled over from %s to %s", previous, day)
	return nil
}

// Restore reloads the session of the current day from the repository.
// A missing record leaves the empty session in place.
func (c *Controller) Restore(ctx context.Context) error {
	if c.repo == nil {
		return nil
	}
	day := c.Day()
	rec, err := c.repo.Load(ctx, day)
	if errors.Is(err, store.ErrNotFound) {
		util.LogDebugf("planner: no stored session for %s", day)
		return nil
	}
	if err != nil {
		return fmt.Errorf("restore %s: %w", day, err)
	}

	c.timeline.ReplaceAll(rec.Tasks)

	c.mu.Lock()
	defer c.mu.Unlock()
	s := newSession(day)
	s.PlanText = rec.PlanText
	s.Narrative = rec.Narrative
	if len(rec.Tasks) > 0 {
		s.PlanState = PlanPresenting
		s.GeneratedAt = rec.UpdatedAt
	}
	if rec.Report != nil {
		s.ReviewState = ReviewResult
		s.Report = cloneReport(rec.Report)
	}
	c.session = s
	util.LogInfof("planner: restored %s with %d tasks", day, len(rec.Tasks))
	return nil
}

// persist saves the current session. Saves are serialized and each one
// reads the latest state, so the last save always wins with fresh data.
func (c *Controller) persist(ctx context.Context) {
	if c.repo == nil {
		return
	}
	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	c.mu.Lock()
	rec := &store.DayRecord{
		Day:       c.session.Day,
		PlanText:  c.session.PlanText,
		Narrative: c.session.Narrative,
		Report:    cloneReport(c.session.Report),
		UpdatedAt: util.GetTimeProvider().Now(),
	}
	c.mu.Unlock()
	rec.Tasks = c.timeline.Snapshot()

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.config.SaveTimeout)
	defer cancel()
	if err := c.repo.Save(saveCtx, rec); err != nil {
		util.LogErrorf("planner: failed to save %s: %v", rec.Day, err)
	}
}

// runWithContext runs fn in a goroutine and gives up when ctx ends, even if
// fn ignores ctx.
func runWithContext[T any](ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	type result struct {
		val T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		done <- result{v, err}
	}()
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case r := <-done:
		return r.val, r.err
	}
}

func appendUtterance(existing, utterance string) string {
	utterance = strings.TrimSpace(utterance)
	if utterance == "" {
		return existing
	}
	existing = strings.TrimRight(existing, " \t\n")
	if existing == "" {
		return utterance
	}
	return existing + " " + utterance
}

func describePlanError(err error) string {
	switch {
	case errors.Is(err, model.ErrNoSchedulableContent):
		return "No times found. Try something like \"9am team sync for an hour\"."
	case errors.Is(err, context.DeadlineExceeded):
		return "Planning took too long. Please try again."
	case errors.Is(err, context.Canceled):
		return "Planning was cancelled."
	default:
		return err.Error()
	}
}

func describeReviewError(err error) string {
	switch {
	case errors.Is(err, model.ErrInsufficientInput):
		return "Tell me how the day went, or plan a day first."
	case errors.Is(err, context.DeadlineExceeded):
		return "The review took too long. Please try again."
	case errors.Is(err, context.Canceled):
		return "The review was cancelled."
	default:
		return err.Error()
	}
}
