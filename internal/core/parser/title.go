package parser

import (
	"regexp"
	"sort"
	"strings"

	"github.com/penwyp/go-day-planner/internal/core/model"
	"github.com/penwyp/go-day-planner/internal/core/text"
)

var (
	leadingFiller = map[string]struct{}{
		"then": {}, "and": {}, "also": {}, "after": {}, "that": {}, "afterwards": {}, "next": {},
		"later": {}, "finally": {}, "first": {}, "i": {}, "i'll": {}, "i'm": {}, "i'd": {},
		"we": {}, "we'll": {}, "will": {}, "want": {}, "to": {}, "need": {}, "plan": {},
		"planning": {}, "going": {}, "gonna": {}, "have": {}, "got": {}, "should": {},
		"must": {}, "spend": {}, "spending": {}, "with": {}, "a": {}, "an": {}, "for": {},
		"at": {}, "from": {}, "on": {}, "of": {}, "around": {}, "about": {}, "until": {},
		"till": {}, "by": {}, "do": {}, "some": {}, "maybe": {}, "probably": {}, "like": {},
		"'ll": {}, "is": {}, "it's": {}, "there's": {}, "be": {}, "starting": {}, "the": {},
	}
	trailingFiller = map[string]struct{}{
		"for": {}, "at": {}, "from": {}, "on": {}, "to": {}, "until": {}, "till": {}, "by": {},
		"and": {}, "then": {}, "around": {}, "about": {}, "in": {}, "the": {}, "of": {},
		"with": {}, "starting": {}, "i": {}, "will": {}, "a": {}, "an": {}, "or": {}, "so": {},
	}
	titlePunct = regexp.MustCompile(`[^a-z0-9'&/+ -]+`)
)

// cleanTitle removes consumed time and duration spans and surrounding filler.
func cleanTitle(clause string, spans []span) string {
	sorted := append([]span(nil), spans...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].start > sorted[j].start })
	s := clause
	for _, sp := range sorted {
		if sp.start < 0 || sp.end > len(s) || sp.start >= sp.end {
			continue
		}
		s = s[:sp.start] + " " + s[sp.end:]
	}
	s = titlePunct.ReplaceAllString(s, " ")
	words := strings.Fields(s)

	for len(words) > 0 {
		if _, ok := leadingFiller[words[0]]; !ok && !isDanglingNumber(words[0]) {
			break
		}
		words = words[1:]
	}
	for len(words) > 0 {
		last := words[len(words)-1]
		if _, ok := trailingFiller[last]; !ok && !isDanglingNumber(last) && last != "-" {
			break
		}
		words = words[:len(words)-1]
	}
	return strings.Trim(strings.Join(words, " "), " -/&+")
}

func isDanglingNumber(w string) bool {
	return isBareDigits(w) || w == "-"
}

var fallbackTitles = map[model.Category]string{
	model.CategoryWork:   "Focused work",
	model.CategoryLife:   "Personal time",
	model.CategoryHealth: "Exercise",
	model.CategoryGrowth: "Learning",
}

// displayTitle capitalizes a cleaned title, falling back to a category label.
func displayTitle(cleaned string, category model.Category) string {
	if cleaned == "" {
		return fallbackTitles[category]
	}
	return text.Capitalize(cleaned)
}
