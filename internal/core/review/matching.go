package review

import (
	"regexp"
	"strconv"

	"github.com/penwyp/go-day-planner/internal/core/model"
	"github.com/penwyp/go-day-planner/internal/core/parser"
	"github.com/penwyp/go-day-planner/internal/core/text"
)

// minTitleOverlap is the share of a task title's content words a clause must
// mention to be tied to that task.
const minTitleOverlap = 0.5

var mentionPattern = regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b|\b(\d{1,2}):(\d{2})\b|\bat\s+(\d{1,2})\b`)

// matchTask ties a narrative clause to a planned task. Title words win over
// category cues, which win over clock mentions; ties go to the earliest task.
func matchTask(clause string, snapshot model.Timeline) (model.Task, bool) {
	if len(snapshot) == 0 {
		return model.Task{}, false
	}
	if t, ok := matchByTitle(clause, snapshot); ok {
		return t, true
	}
	if cat, cued := parser.Classify(clause); cued {
		for _, t := range snapshot {
			if t.Category == cat {
				return t, true
			}
		}
	}
	return matchByClock(clause, snapshot)
}

func matchByTitle(clause string, snapshot model.Timeline) (model.Task, bool) {
	clauseStems := text.ContentStems(clause)
	if len(clauseStems) == 0 {
		return model.Task{}, false
	}
	var (
		best      model.Task
		bestScore float64
	)
	for _, t := range snapshot {
		titleStems := text.ContentStems(t.Title)
		if len(titleStems) == 0 {
			continue
		}
		hits := 0
		for _, ts := range titleStems {
			if stemMentioned(ts, clauseStems) {
				hits++
			}
		}
		score := float64(hits) / float64(len(titleStems))
		if score >= minTitleOverlap && score > bestScore {
			best, bestScore = t, score
		}
	}
	return best, bestScore > 0
}

// stemMentioned accepts equal stems or a shared four-letter prefix, which
// absorbs what the crude stemmer misses ("presentation" / "presenting").
func stemMentioned(stem string, among []string) bool {
	for _, s := range among {
		if s == stem {
			return true
		}
		if len(s) >= 4 && len(stem) >= 4 && s[:4] == stem[:4] {
			return true
		}
	}
	return false
}

func matchByClock(clause string, snapshot model.Timeline) (model.Task, bool) {
	for _, c := range clockMentions(clause) {
		for _, t := range snapshot {
			if t.Contains(c) {
				return t, true
			}
		}
	}
	return model.Task{}, false
}

// clockMentions lists every reading of the times written in the clause.
func clockMentions(clause string) []model.Clock {
	var out []model.Clock
	for _, m := range mentionPattern.FindAllStringSubmatch(clause, -1) {
		switch {
		case m[1] != "":
			h, _ := strconv.Atoi(m[1])
			minute, _ := strconv.Atoi(m[2])
			if h < 1 || h > 12 || minute > 59 {
				continue
			}
			if m[3] == "pm" && h < 12 {
				h += 12
			}
			if m[3] == "am" && h == 12 {
				h = 0
			}
			out = append(out, model.Clock(h*60+minute))
		case m[4] != "":
			h, _ := strconv.Atoi(m[4])
			minute, _ := strconv.Atoi(m[5])
			if c, err := model.NewClock(h, minute); err == nil {
				out = append(out, c)
			}
		case m[6] != "":
			h, _ := strconv.Atoi(m[6])
			if h >= 1 && h <= 11 {
				out = append(out, model.Clock(h*60), model.Clock((h+12)*60))
			} else if c, err := model.NewClock(h, 0); err == nil {
				out = append(out, c)
			}
		}
	}
	return out
}
