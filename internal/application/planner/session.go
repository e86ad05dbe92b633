package planner

import (
	"errors"
	"time"

	"github.com/penwyp/go-day-planner/internal/core/model"
)

// PlanState is the planning flow state.
type PlanState string

const (
	PlanCapturing  PlanState = "capturing"
	PlanGenerating PlanState = "generating"
	PlanPresenting PlanState = "presenting"
)

// ReviewState is the review flow state.
type ReviewState string

const (
	ReviewCapturing ReviewState = "capturing"
	ReviewAnalyzing ReviewState = "analyzing"
	ReviewResult    ReviewState = "result"
)

var (
	// ErrOperationInFlight rejects a re-trigger while generation or analysis runs.
	ErrOperationInFlight = errors.New("operation already in progress")
	// ErrEmptyPlanText guards generation.
	ErrEmptyPlanText = errors.New("plan text is empty")
	// ErrEmptyNarrative guards analysis.
	ErrEmptyNarrative = errors.New("review narrative is empty")
	// ErrInvalidTransition is returned for actions the current state does not allow.
	ErrInvalidTransition = errors.New("action not allowed in current state")
)

// Session is the per-day context the controller owns. It is created empty,
// replaced on generation and discarded on rollover.
type Session struct {
	Day             string
	PlanText        string
	PlanState       PlanState
	LastPlanError   string
	Narrative       string
	ReviewState     ReviewState
	LastReviewError string
	Report          *model.ReviewReport
	GeneratedAt     time.Time
}

func newSession(day string) Session {
	return Session{Day: day, PlanState: PlanCapturing, ReviewState: ReviewCapturing}
}

// View is the read-only projection handed to presentation layers.
type View struct {
	Day             string              `json:"day"`
	PlanState       PlanState           `json:"planState"`
	PlanText        string              `json:"planText"`
	LastPlanError   string              `json:"lastPlanError,omitempty"`
	Tasks           model.Timeline      `json:"tasks"`
	CompletedCount  int                 `json:"completedCount"`
	TotalCount      int                 `json:"totalCount"`
	CompletionRatio float64             `json:"completionRatio"`
	ReviewState     ReviewState         `json:"reviewState"`
	Narrative       string              `json:"narrative"`
	LastReviewError string              `json:"lastReviewError,omitempty"`
	Report          *model.ReviewReport `json:"report,omitempty"`
	GeneratedAt     *time.Time          `json:"generatedAt,omitempty"`
}

func cloneReport(r *model.ReviewReport) *model.ReviewReport {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Highlights = append([]string(nil), r.Highlights...)
	cp.Suggestions = append([]string(nil), r.Suggestions...)
	cp.Signals = append([]model.Signal(nil), r.Signals...)
	return &cp
}
