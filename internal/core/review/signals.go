package review

import (
	"strings"

	"github.com/penwyp/go-day-planner/internal/core/model"
	"github.com/penwyp/go-day-planner/internal/core/text"
)

// cue lexicons, longest phrases first within each kind.
var cues = []struct {
	kind    model.SignalKind
	phrases []string
}{
	{model.SignalSkipped, []string{
		"didn't get to", "did not get to", "didn't get around to", "never got to", "never got around to",
		"didn't make it", "did not make it", "didn't have time", "did not have time", "no time for",
		"didn't finish", "did not finish", "didn't get it done", "didn't do", "did not do", "didn't go", "did not go", "gave up on", "blew off",
		"couldn't", "could not", "skipped", "skip", "missed", "forgot", "cancelled", "canceled",
		"dropped", "bailed",
	}},
	{model.SignalDelay, []string{
		"took longer", "longer than planned", "longer than expected", "ran over", "ran late",
		"running late", "pushed back", "fell behind", "overslept", "slept in", "started late",
		"late", "delayed", "delay", "behind", "overran", "postponed", "procrastinated",
	}},
	{model.SignalEarly, []string{
		"ahead of schedule", "finished early", "done early", "wrapped up early", "shorter than",
		"quicker than", "faster than", "ahead", "early",
	}},
	{model.SignalExtra, []string{
		"on top of that", "squeezed in", "managed to fit", "unplanned", "spontaneous", "bonus",
		"extra", "also did", "also went", "also managed", "also fit",
	}},
	{model.SignalPositive, []string{
		"went well", "got a lot done", "great", "good", "productive", "focused", "happy",
		"proud", "finished", "completed", "accomplished", "energized", "smooth", "enjoyed",
		"progress", "efficient", "nailed", "satisfied", "calm", "done",
	}},
	{model.SignalNegative, []string{
		"wasted", "tired", "distracted", "bad", "stressed", "exhausted", "frustrated",
		"unproductive", "lazy", "overwhelmed", "sick", "anxious", "struggled", "interrupted",
		"slow", "drained", "messy", "chaotic",
	}},
}

var negators = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "wasn't": {}, "weren't": {}, "isn't": {}, "without": {},
	"didn't": {}, "hardly": {}, "barely": {}, "wasnt": {}, "didnt": {},
}

// flipped maps a negated cue onto what it expresses instead; kinds absent
// from the map are dropped when negated.
var flipped = map[model.SignalKind]model.SignalKind{
	model.SignalDelay:    model.SignalPositive,
	model.SignalSkipped:  model.SignalPositive,
	model.SignalPositive: model.SignalNegative,
	model.SignalNegative: model.SignalPositive,
}

// detected is one signal before task matching.
type detected struct {
	kind   model.SignalKind
	clause string
}

// detectSignals finds at most one signal of each kind per clause, in
// narrative order.
func detectSignals(narrative string) []detected {
	var out []detected
	for _, clause := range text.Segment(narrative) {
		seen := make(map[model.SignalKind]bool)
		for _, group := range cues {
			kind, ok := matchCue(clause, group.phrases, group.kind)
			if !ok || seen[kind] {
				continue
			}
			seen[kind] = true
			out = append(out, detected{kind: kind, clause: clause})
		}
	}
	return out
}

// matchCue returns the kind expressed by the first cue phrase found in the
// clause, after negation.
func matchCue(clause string, phrases []string, kind model.SignalKind) (model.SignalKind, bool) {
	for _, phrase := range phrases {
		idx := text.IndexPhrase(clause, phrase)
		if idx < 0 {
			continue
		}
		if !negated(clause[:idx]) {
			return kind, true
		}
		// Negated skip cues like "didn't skip" carry their own negator.
		if f, ok := flipped[kind]; ok {
			return f, true
		}
		return "", false
	}
	return "", false
}

// negated reports whether one of the two words before a cue negates it.
func negated(prefix string) bool {
	words := strings.Fields(prefix)
	for i := len(words) - 1; i >= 0 && i >= len(words)-2; i-- {
		if _, ok := negators[strings.Trim(words[i], ".,;:!?")]; ok {
			return true
		}
	}
	return false
}
