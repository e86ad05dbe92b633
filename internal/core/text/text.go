// Package text holds the small natural-language toolkit shared by the
// schedule parser and the review analyzer.
package text

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	wordPattern  = regexp.MustCompile(`[a-z0-9]+(?:['’][a-z]+)?`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// Normalize lowercases, folds typographic quotes and collapses whitespace.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer("’", "'", "‘", "'", "–", "-", "—", "-").Replace(s)
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}

// Words splits s into lowercase word tokens.
func Words(s string) []string {
	return wordPattern.FindAllString(Normalize(s), -1)
}

// Stem strips common English suffixes so "writing", "writes" and "write"
// compare equal. It is intentionally crude.
func Stem(w string) string {
	w = strings.TrimSuffix(w, "'s")
	switch {
	case len(w) > 4 && strings.HasSuffix(w, "ies"):
		w = strings.TrimSuffix(w, "ies") + "y"
	case len(w) > 3 && strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") && !strings.HasSuffix(w, "us"):
		w = strings.TrimSuffix(w, "s")
	}
	switch {
	case len(w) > 5 && strings.HasSuffix(w, "ing"):
		w = undouble(strings.TrimSuffix(w, "ing"))
	case len(w) > 4 && strings.HasSuffix(w, "ed"):
		w = undouble(strings.TrimSuffix(w, "ed"))
	}
	return strings.TrimSuffix(w, "e")
}

func undouble(w string) string {
	if n := len(w); n > 2 && w[n-1] == w[n-2] && w[n-1] != 's' && w[n-1] != 'l' {
		return w[:n-1]
	}
	return w
}

// ContentStems returns the stems of s without stopwords, deduplicated in
// first-seen order.
func ContentStems(s string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, w := range Words(s) {
		if IsStopword(w) {
			continue
		}
		st := Stem(w)
		if st == "" {
			continue
		}
		if _, ok := seen[st]; ok {
			continue
		}
		seen[st] = struct{}{}
		out = append(out, st)
	}
	return out
}

// Capitalize upper-cases the first letter.
func Capitalize(s string) string {
	for i, r := range s {
		return string(unicode.ToUpper(r)) + s[i+len(string(r)):]
	}
	return s
}

// ContainsPhrase reports whether phrase occurs in s on word boundaries.
// Both arguments are expected to be normalized.
func ContainsPhrase(s, phrase string) bool {
	return IndexPhrase(s, phrase) >= 0
}

// IndexPhrase returns the byte offset of phrase in s on word boundaries.
func IndexPhrase(s, phrase string) int {
	from := 0
	for {
		i := strings.Index(s[from:], phrase)
		if i < 0 {
			return -1
		}
		i += from
		end := i + len(phrase)
		if (i == 0 || !isWordByte(s[i-1])) && (end == len(s) || !isWordByte(s[end])) {
			return i
		}
		from = i + 1
	}
}

func isWordByte(b byte) bool {
	return b == '\'' || b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {}, "of": {}, "to": {},
	"in": {}, "on": {}, "at": {}, "for": {}, "with": {}, "from": {}, "by": {},
	"i": {}, "i'll": {}, "i'm": {}, "i've": {}, "my": {}, "me": {}, "we": {}, "our": {},
	"it": {}, "its": {}, "is": {}, "was": {}, "were": {}, "be": {}, "been": {}, "am": {},
	"pm": {}, "then": {}, "that": {}, "this": {}, "some": {}, "up": {}, "out": {},
	"will": {}, "would": {}, "do": {}, "did": {}, "done": {}, "have": {}, "had": {},
	"so": {}, "too": {}, "very": {}, "just": {}, "about": {}, "after": {}, "before": {},
	"until": {}, "till": {}, "hour": {}, "hours": {}, "minute": {}, "minutes": {},
	"min": {}, "mins": {}, "hr": {}, "hrs": {}, "time": {}, "today": {}, "got": {},
}

// IsStopword reports whether w carries no topical meaning.
func IsStopword(w string) bool {
	_, ok := stopwords[w]
	return ok
}

var numberWords = map[string]int{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6,
	"seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11, "twelve": 12,
	"fifteen": 15, "twenty": 20, "thirty": 30, "forty": 40, "forty-five": 45,
	"fifty": 50, "sixty": 60, "ninety": 90, "a": 1, "an": 1, "a couple of": 2,
	"a couple": 2, "couple of": 2, "a few": 3, "few": 3,
}

// NumberWord returns the value of a spelled-out number.
func NumberWord(w string) (int, bool) {
	n, ok := numberWords[strings.TrimSpace(w)]
	return n, ok
}

// NumberWordPattern matches the spelled-out numbers NumberWord understands,
// longest alternatives first.
const NumberWordPattern = `a\s+couple(?:\s+of)?|couple\s+of|a\s+few|few|forty-five|fifteen|twenty|thirty|forty|fifty|sixty|ninety|eleven|twelve|zero|one|two|three|four|five|six|seven|eight|nine|ten|an|a`
