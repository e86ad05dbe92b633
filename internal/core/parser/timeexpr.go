package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/penwyp/go-day-planner/internal/core/model"
	"github.com/penwyp/go-day-planner/internal/core/text"
)

// clockToken is one written time of day before meridiem resolution.
type clockToken struct {
	hour     int
	minute   int
	meridiem string // "am", "pm" or ""
	named    string // "noon", "midnight" or ""
}

func (t clockToken) bare() bool {
	return t.meridiem == "" && t.named == "" && t.hour >= 1 && t.hour <= 11
}

// span is a byte range of the clause consumed by an expression.
type span struct{ start, end int }

const clockAtom = `(\d{1,2}(?:[:.]\d{2})?\s*(?:am|pm)|\d{1,2}:\d{2}|\d{1,2}\s*o'?clock|noon|midday|midnight|\d{1,2})`

var (
	rangePattern = regexp.MustCompile(`(?:\b(from|between|at)\s+)?\b` + clockAtom + `\s*(?:-|\bto\b|\buntil\b|\btill\b|\band\b)\s*` + clockAtom + `\b`)
	clockPattern = regexp.MustCompile(`(?:\b(at|around|about|from|starting|until|till|to|by)\s+|@\s*)?\b` + clockAtom + `\b`)
	atomPattern  = regexp.MustCompile(`^(\d{1,2})(?:[:.](\d{2}))?\s*(am|pm|o'?clock)?$`)
	unitAfter    = regexp.MustCompile(`^\s*(?:hours?|hrs?|h|minutes?|mins?|m)\b`)

	durationPattern = regexp.MustCompile(`\b(?:for\s+)?(?:` +
		`(half\s+an?\s+hour|a\s+half\s+hour|half\s+hour)` +
		`|((?:a\s+)?quarter\s+(?:of\s+)?an?\s+hour)` +
		`|(\d+(?:\.\d+)?)\s*(hours?|hrs?|h|minutes?|mins?|m)` +
		`|(` + text.NumberWordPattern + `)\s+(hours?|hrs?|minutes?|mins?)` +
		`)\b(\s+and\s+a\s+half)?`)

	periodPattern = regexp.MustCompile(`\b(?:(?:in|during)\s+the\s+|this\s+|at\s+)?(early\s+morning|morning|lunchtime|afternoon|evening|tonight|night)\b`)
)

var periodAnchors = map[string]model.Clock{
	"early morning": model.MustClock(7, 0),
	"morning":       model.MustClock(9, 0),
	"lunchtime":     model.MustClock(12, 0),
	"afternoon":     model.MustClock(14, 0),
	"evening":       model.MustClock(18, 0),
	"tonight":       model.MustClock(20, 0),
	"night":         model.MustClock(20, 0),
}

func parseAtom(s string) (clockToken, bool) {
	s = strings.TrimSpace(s)
	switch s {
	case "noon", "midday":
		return clockToken{hour: 12, named: "noon"}, true
	case "midnight":
		return clockToken{hour: 0, named: "midnight"}, true
	}
	m := atomPattern.FindStringSubmatch(s)
	if m == nil {
		return clockToken{}, false
	}
	h, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if h > 24 || minute > 59 {
		return clockToken{}, false
	}
	tok := clockToken{hour: h, minute: minute}
	if m[3] == "am" || m[3] == "pm" {
		if h == 0 || h > 12 {
			// "14pm" and friends: keep the 24h reading.
			return tok, true
		}
		tok.meridiem = m[3]
	}
	return tok, true
}

func isBareDigits(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// candidates lists the clocks a token could mean, earliest first.
func (t clockToken) candidates(asEnd bool) []model.Clock {
	switch {
	case t.named == "noon":
		return []model.Clock{model.Noon}
	case t.named == "midnight":
		if asEnd {
			return []model.Clock{model.EndOfDay}
		}
		return []model.Clock{model.Midnight}
	case t.meridiem == "am":
		h := t.hour
		if h == 12 {
			h = 0
		}
		return []model.Clock{model.Clock(h*60 + t.minute)}
	case t.meridiem == "pm":
		h := t.hour
		if h < 12 {
			h += 12
		}
		return []model.Clock{model.Clock(h*60 + t.minute)}
	case t.bare():
		return []model.Clock{model.Clock(t.hour*60 + t.minute), model.Clock((t.hour+12)*60 + t.minute)}
	default:
		c := model.Clock(t.hour*60 + t.minute)
		if c > model.EndOfDay {
			return nil
		}
		return []model.Clock{c}
	}
}

// resolveStart picks the reading of a start time. With a cursor the first
// reading not before it wins; without one, bare hours up to 6 are afternoon.
func resolveStart(t clockToken, cursor model.Clock, hasCursor bool) (model.Clock, bool) {
	cands := t.candidates(false)
	if len(cands) == 0 {
		return 0, false
	}
	if len(cands) == 1 {
		return cands[0], cands[0] < model.EndOfDay
	}
	if hasCursor {
		for _, c := range cands {
			if c >= cursor {
				return c, true
			}
		}
		return cands[len(cands)-1], true
	}
	if t.hour <= 6 {
		return cands[1], true
	}
	return cands[0], true
}

// resolveAfter picks the earliest reading strictly after start. A morning end
// after a start from noon on runs past midnight and is clamped to 24:00.
func resolveAfter(t clockToken, start model.Clock) (model.Clock, bool) {
	cands := t.candidates(true)
	for _, c := range cands {
		if c > start && c <= model.EndOfDay {
			return c, true
		}
	}
	if len(cands) > 0 && cands[0] < model.Noon && start >= model.Noon {
		return model.EndOfDay, true
	}
	return 0, false
}

// timeAnchor is what a clause says about when it happens.
type timeAnchor struct {
	start    model.Clock
	hasStart bool
	end      model.Clock
	hasEnd   bool
	explicit bool // an explicit clock time was written
	period   bool // start came from a day period like "afternoon"
	spans    []span
}

// findAnchor extracts start/end times from a normalized clause.
func findAnchor(clause string, cursor model.Clock, hasCursor bool) timeAnchor {
	var a timeAnchor

	if m := rangePattern.FindStringSubmatchIndex(clause); m != nil && rangeAccepted(clause, m) {
		marker := groupText(clause, m, 1)
		t1, ok1 := parseAtom(groupText(clause, m, 2))
		t2, ok2 := parseAtom(groupText(clause, m, 3))
		connector := clause[m[5]:m[6]]
		if ok1 && ok2 && (!strings.Contains(connector, "and") || marker == "between") {
			if t1.meridiem == "" && t1.named == "" && t2.meridiem != "" && t1.bare() {
				t1 = inheritMeridiem(t1, t2)
			}
			if start, ok := resolveStart(t1, cursor, hasCursor); ok {
				if end, ok := resolveAfter(t2, start); ok {
					a.start, a.hasStart = start, true
					a.end, a.hasEnd = end, true
					a.explicit = true
					a.spans = append(a.spans, span{m[0], m[1]})
					return a
				}
			}
		}
	}

	for _, m := range clockPattern.FindAllStringSubmatchIndex(clause, -1) {
		marker := groupText(clause, m, 1)
		atom := groupText(clause, m, 2)
		at := clause[m[0]:m[1]]
		if isBareDigits(atom) && marker == "" && !strings.HasPrefix(at, "@") {
			continue
		}
		if unitAfter.MatchString(clause[m[1]:]) {
			continue
		}
		tok, ok := parseAtom(atom)
		if !ok {
			continue
		}
		switch marker {
		case "until", "till", "to", "by":
			if a.hasEnd {
				continue
			}
			// "to" only reads as an end time when the atom is unmistakably a clock.
			if marker == "to" && isBareDigits(atom) {
				continue
			}
			a.hasEnd = true
			a.end = resolveEndToken(tok, a, cursor, hasCursor)
			a.explicit = true
			a.spans = append(a.spans, span{m[0], m[1]})
		default:
			if a.hasStart {
				continue
			}
			start, ok := resolveStart(tok, cursor, hasCursor)
			if !ok {
				continue
			}
			a.start, a.hasStart = start, true
			a.explicit = true
			a.spans = append(a.spans, span{m[0], m[1]})
		}
	}

	// An end written before its start ("until 5 starting at 3") is resolved
	// against the start once both are known.
	if a.hasStart && a.hasEnd && a.end <= a.start {
		a.hasEnd = false
	}

	if !a.hasStart {
		if m := periodPattern.FindStringSubmatchIndex(clause); m != nil {
			anchor := periodAnchors[groupText(clause, m, 1)]
			if !hasCursor || anchor >= cursor {
				a.start, a.hasStart = anchor, true
				a.period = true
			}
			a.spans = append(a.spans, span{m[0], m[1]})
		}
	}
	return a
}

func resolveEndToken(tok clockToken, a timeAnchor, cursor model.Clock, hasCursor bool) model.Clock {
	after := cursor
	if a.hasStart {
		after = a.start
	}
	if hasCursor || a.hasStart {
		if end, ok := resolveAfter(tok, after); ok {
			return end
		}
	}
	cands := tok.candidates(true)
	if len(cands) == 0 {
		return 0
	}
	return cands[len(cands)-1]
}

func inheritMeridiem(t1, t2 clockToken) clockToken {
	withSame := t1
	withSame.meridiem = t2.meridiem
	end := t2.candidates(true)
	start := withSame.candidates(false)
	if len(end) == 1 && len(start) == 1 && start[0] < end[0] {
		return withSame
	}
	other := t1
	if t2.meridiem == "pm" {
		other.meridiem = "am"
	} else {
		other.meridiem = "pm"
	}
	return other
}

// rangeAccepted rejects ranges that are really durations ("2-3 hours") and
// bare number pairs without any clock hint.
func rangeAccepted(clause string, m []int) bool {
	if unitAfter.MatchString(clause[m[1]:]) {
		return false
	}
	marker := groupText(clause, m, 1)
	first := groupText(clause, m, 2)
	second := groupText(clause, m, 3)
	if isBareDigits(first) && isBareDigits(second) && marker == "" {
		connector := strings.TrimSpace(clause[m[5]:m[6]])
		return connector == "-"
	}
	return true
}

func groupText(s string, m []int, group int) string {
	i := 2 * group
	if i+1 >= len(m) || m[i] < 0 {
		return ""
	}
	return s[m[i]:m[i+1]]
}

// findDuration sums every duration phrase of the clause, in minutes.
func findDuration(clause string) (int, []span) {
	total := 0.0
	var spans []span
	for _, m := range durationPattern.FindAllStringSubmatchIndex(clause, -1) {
		minutes := 0.0
		hours := false
		switch {
		case m[2] >= 0:
			minutes = 30
		case m[4] >= 0:
			minutes = 15
		case m[6] >= 0:
			v, err := strconv.ParseFloat(groupText(clause, m, 3), 64)
			if err != nil {
				continue
			}
			hours = strings.HasPrefix(groupText(clause, m, 4), "h")
			minutes = v
			if hours {
				minutes = v * 60
			}
		case m[10] >= 0:
			n, ok := text.NumberWord(text.Normalize(groupText(clause, m, 5)))
			if !ok {
				continue
			}
			hours = strings.HasPrefix(groupText(clause, m, 6), "h")
			minutes = float64(n)
			if hours {
				minutes = float64(n) * 60
			}
		}
		if m[14] >= 0 && hours {
			minutes += 30
		}
		total += minutes
		spans = append(spans, span{m[0], m[1]})
	}
	return int(total + 0.5), spans
}
