// Package review compares a planned day with the user's account of it.
package review

import (
	"fmt"
	"math"
	"strings"

	"github.com/penwyp/go-day-planner/internal/core/model"
	"github.com/penwyp/go-day-planner/internal/util"
)

// MaxInsights caps highlights and suggestions independently.
const MaxInsights = 3

// Weights are the scoring parameters. Penalties and bonuses are in score points.
type Weights struct {
	CompletionWeight float64 `yaml:"completion_weight" json:"completionWeight"`
	NarrativeWeight  float64 `yaml:"narrative_weight" json:"narrativeWeight"`
	DelayPenalty     float64 `yaml:"delay_penalty" json:"delayPenalty"`
	SkipPenalty      float64 `yaml:"skip_penalty" json:"skipPenalty"`
	UnmatchedPenalty float64 `yaml:"unmatched_penalty" json:"unmatchedPenalty"`
	EarlyBonus       float64 `yaml:"early_bonus" json:"earlyBonus"`
	ExtraBonus       float64 `yaml:"extra_bonus" json:"extraBonus"`
	ExtraCap         float64 `yaml:"extra_cap" json:"extraCap"`
}

// DefaultWeights returns the stock scoring parameters.
func DefaultWeights() Weights {
	return Weights{
		CompletionWeight: 70,
		NarrativeWeight:  30,
		DelayPenalty:     3,
		SkipPenalty:      2,
		UnmatchedPenalty: 3,
		EarlyBonus:       3,
		ExtraBonus:       4,
		ExtraCap:         10,
	}
}

// Validate fills zero weights with defaults.
func (w *Weights) Validate() error {
	d := DefaultWeights()
	if w.CompletionWeight < 0 || w.NarrativeWeight < 0 {
		return fmt.Errorf("review weights must not be negative")
	}
	if w.CompletionWeight == 0 && w.NarrativeWeight == 0 {
		w.CompletionWeight, w.NarrativeWeight = d.CompletionWeight, d.NarrativeWeight
	}
	if w.DelayPenalty == 0 {
		w.DelayPenalty = d.DelayPenalty
	}
	if w.SkipPenalty == 0 {
		w.SkipPenalty = d.SkipPenalty
	}
	if w.UnmatchedPenalty == 0 {
		w.UnmatchedPenalty = d.UnmatchedPenalty
	}
	if w.EarlyBonus == 0 {
		w.EarlyBonus = d.EarlyBonus
	}
	if w.ExtraBonus == 0 {
		w.ExtraBonus = d.ExtraBonus
	}
	if w.ExtraCap == 0 {
		w.ExtraCap = d.ExtraCap
	}
	return nil
}

// Analyzer scores a day. It is stateless and safe for concurrent use.
type Analyzer struct {
	weights Weights
}

// NewAnalyzer creates an analyzer with the given weights. Weights that fail
// validation are replaced by DefaultWeights.
func NewAnalyzer(w Weights) *Analyzer {
	if err := w.Validate(); err != nil {
		util.LogWarnf("review: %v, using default weights", err)
		w = DefaultWeights()
	}
	return &Analyzer{weights: w}
}

// Weights returns the parameters in use.
func (a *Analyzer) Weights() Weights { return a.weights }

// evaluation is the intermediate state shared by scoring and insights.
type evaluation struct {
	snapshot     model.Timeline
	signals      []model.Signal
	contradicted map[string]bool // completed tasks the narrative says were skipped
	positive     int
	negative     int
}

// Analyze produces the review report. It fails with ErrInsufficientInput
// when there are neither tasks nor narrative.
func (a *Analyzer) Analyze(snapshot model.Timeline, narrative string) (model.ReviewReport, error) {
	narrative = strings.TrimSpace(narrative)
	if len(snapshot) == 0 && narrative == "" {
		return model.ReviewReport{}, model.ErrInsufficientInput
	}

	ev := a.evaluate(snapshot, narrative)
	completed, total := snapshot.Counts()
	report := model.ReviewReport{
		CompletedCount:  completed,
		TotalCount:      total,
		CompletionRatio: snapshot.CompletionRatio(),
		Score:           a.score(ev),
		Signals:         ev.signals,
	}
	report.Highlights = highlights(ev)
	report.Suggestions = suggestions(ev)

	util.LogDebugf("review: score=%d completed=%d/%d signals=%d", report.Score, completed, total, len(ev.signals))
	return report, nil
}

func (a *Analyzer) evaluate(snapshot model.Timeline, narrative string) evaluation {
	ev := evaluation{
		snapshot:     snapshot.Clone(),
		contradicted: make(map[string]bool),
	}
	for _, d := range detectSignals(narrative) {
		sig := model.Signal{Kind: d.kind, Clause: d.clause}
		switch d.kind {
		case model.SignalDelay, model.SignalEarly, model.SignalSkipped:
			if t, ok := matchTask(d.clause, ev.snapshot); ok {
				sig.TaskID = t.ID
				if d.kind == model.SignalSkipped && t.IsCompleted() {
					ev.contradicted[t.ID] = true
				}
			}
		case model.SignalPositive:
			ev.positive++
		case model.SignalNegative:
			ev.negative++
		}
		ev.signals = append(ev.signals, sig)
	}
	return ev
}

// sentiment is a smoothed share of positive cues; 0.5 without any cue.
func (ev evaluation) sentiment() float64 {
	return float64(ev.positive+1) / float64(ev.positive+ev.negative+2)
}

// effectiveRatio counts completed tasks the narrative did not contradict.
func (ev evaluation) effectiveRatio() float64 {
	if len(ev.snapshot) == 0 {
		return 0
	}
	done := 0
	for _, t := range ev.snapshot {
		if t.IsCompleted() && !ev.contradicted[t.ID] {
			done++
		}
	}
	return float64(done) / float64(len(ev.snapshot))
}

func (a *Analyzer) score(ev evaluation) int {
	w := a.weights
	sentiment := ev.sentiment()

	completion := ev.effectiveRatio()
	if len(ev.snapshot) == 0 {
		completion = sentiment
	}
	total := w.CompletionWeight*completion + w.NarrativeWeight*sentiment
	// Normalize so the base spans 0..100 for any weight pair.
	if sum := w.CompletionWeight + w.NarrativeWeight; sum > 0 {
		total = total * 100 / sum
	}

	extra := 0.0
	for _, sig := range ev.signals {
		switch sig.Kind {
		case model.SignalDelay:
			if sig.TaskID == "" {
				total -= w.UnmatchedPenalty
			} else {
				total -= w.DelayPenalty
			}
		case model.SignalSkipped:
			switch {
			case sig.TaskID == "":
				total -= w.UnmatchedPenalty
			case !ev.contradicted[sig.TaskID]:
				total -= w.SkipPenalty
			}
		case model.SignalEarly:
			total += w.EarlyBonus
		case model.SignalExtra:
			extra += w.ExtraBonus
		}
	}
	total += math.Min(extra, w.ExtraCap)

	return int(math.Round(math.Max(0, math.Min(100, total))))
}
