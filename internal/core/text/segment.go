package text

import (
	"regexp"
	"strings"
)

var (
	meridiemDots = strings.NewReplacer("a.m.", "am", "p.m.", "pm", "a.m", "am", "p.m", "pm")

	// Clause boundaries: sentence punctuation, newlines, commas and semicolons
	// outside numbers, and the usual sequencing connectors.
	boundaryPattern = regexp.MustCompile(
		`(?:[;!?\n]+|,(?:\s|$)|\.(?:\s|$)|\s+(?:and\s+then|after\s+that|afterwards|followed\s+by|after\s+which|later\s+on|and\s+later)\s+|\s+then\s+)`)
)

// Segment splits free text into normalized clauses. Empty clauses are dropped.
func Segment(s string) []string {
	s = meridiemDots.Replace(strings.ToLower(s))
	parts := boundaryPattern.Split(s, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(Normalize(p), " .,:-")
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
