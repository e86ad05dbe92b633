package model

// SignalKind is the kind of statement detected in a review narrative.
type SignalKind string

const (
	SignalDelay    SignalKind = "delay"
	SignalEarly    SignalKind = "early"
	SignalSkipped  SignalKind = "skipped"
	SignalExtra    SignalKind = "extra"
	SignalPositive SignalKind = "positive"
	SignalNegative SignalKind = "negative"
)

// Negative reports whether the signal counts against the plan.
func (k SignalKind) Negative() bool {
	return k == SignalDelay || k == SignalSkipped || k == SignalNegative
}

// Signal is one narrative statement, optionally tied to a planned task.
type Signal struct {
	Kind   SignalKind `json:"kind"`
	TaskID string     `json:"taskId,omitempty"`
	Clause string     `json:"clause"`
}

// ReviewReport compares the planned timeline with the reported day.
// It is recomputed for each analysis and never merged across attempts.
type ReviewReport struct {
	CompletedCount  int      `json:"completedCount"`
	TotalCount      int      `json:"totalCount"`
	CompletionRatio float64  `json:"completionRatio"`
	Score           int      `json:"score"`
	Highlights      []string `json:"highlights"`
	Suggestions     []string `json:"suggestions"`
	Signals         []Signal `json:"signals,omitempty"`
}
