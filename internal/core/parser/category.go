package parser

import (
	"github.com/penwyp/go-day-planner/internal/core/model"
	"github.com/penwyp/go-day-planner/internal/core/text"
)

// categoryCues are the keywords that pull a clause into a category.
// Cues are compared by stem, so plural and -ing forms match too.
var categoryCues = map[model.Category][]string{
	model.CategoryWork: {
		"work", "meeting", "meet", "sync", "standup", "team", "report", "email", "emails",
		"inbox", "client", "customer", "project", "code", "coding", "review", "deploy",
		"presentation", "slides", "deck", "call", "interview", "office", "boss", "manager",
		"colleague", "deadline", "planning", "plan", "budget", "proposal", "spreadsheet",
		"invoice", "pr", "bug", "bugs", "design", "demo", "retro", "sprint", "ticket",
		"document", "docs", "memo", "pitch", "roadmap", "okr", "task", "tasks", "admin",
	},
	model.CategoryHealth: {
		"gym", "run", "running", "jog", "workout", "exercise", "yoga", "swim", "walk",
		"bike", "cycling", "stretch", "stretching", "meditate", "meditation", "doctor",
		"dentist", "therapy", "physio", "sleep", "nap", "rest", "pilates", "hike", "lift",
		"training", "cardio", "tennis", "football", "soccer", "basketball", "climb",
		"medicine", "checkup", "steps", "breathe", "breathing",
	},
	model.CategoryGrowth: {
		"read", "reading", "book", "books", "study", "learn", "learning", "course",
		"class", "lecture", "practice", "language", "spanish", "french", "german",
		"japanese", "piano", "guitar", "journal", "journaling", "research", "tutorial",
		"podcast", "side", "skill", "skills", "homework", "lesson", "lessons", "chess",
		"duolingo", "write", "writing", "blog", "essay",
	},
	model.CategoryLife: {
		"lunch", "dinner", "breakfast", "brunch", "cook", "cooking", "groceries", "grocery",
		"shopping", "shop", "clean", "cleaning", "laundry", "family", "kids", "kid", "friend",
		"friends", "date", "partner", "mom", "dad", "parents", "call", "errand", "errands",
		"chores", "dishes", "movie", "tv", "game", "games", "party", "relax", "coffee",
		"bank", "pharmacy", "haircut", "pick", "dog", "cat", "garden", "home", "house",
		"shower", "commute", "travel", "eat",
	},
}

// weakGrowthCues only count when no work cue is present: "writing the report"
// is work, "writing my blog" is growth.
var weakGrowthCues = map[string]struct{}{
	text.Stem("write"): {}, text.Stem("writing"): {},
}

// tieOrder decides ties between equally matched categories.
var tieOrder = []model.Category{
	model.CategoryWork, model.CategoryHealth, model.CategoryGrowth, model.CategoryLife,
}

var cueStems = buildCueStems()

func buildCueStems() map[model.Category]map[string]struct{} {
	out := make(map[model.Category]map[string]struct{}, len(categoryCues))
	for cat, words := range categoryCues {
		set := make(map[string]struct{}, len(words))
		for _, w := range words {
			set[text.Stem(w)] = struct{}{}
		}
		out[cat] = set
	}
	return out
}

// Classify picks the category of a clause. ok is false when no cue matched,
// in which case the category is work.
func Classify(clause string) (model.Category, bool) {
	stems := make([]string, 0, 8)
	for _, w := range text.Words(clause) {
		stems = append(stems, text.Stem(w))
	}

	scores := make(map[model.Category]int, len(tieOrder))
	for _, st := range stems {
		for _, cat := range tieOrder {
			if _, hit := cueStems[cat][st]; hit {
				scores[cat]++
			}
		}
	}
	if scores[model.CategoryWork] > 0 {
		for _, st := range stems {
			if _, weak := weakGrowthCues[st]; weak && scores[model.CategoryGrowth] > 0 {
				scores[model.CategoryGrowth]--
			}
		}
	}

	best, bestScore := model.CategoryWork, 0
	for _, cat := range tieOrder {
		if scores[cat] > bestScore {
			best, bestScore = cat, scores[cat]
		}
	}
	return best, bestScore > 0
}
