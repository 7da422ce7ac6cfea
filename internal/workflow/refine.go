package workflow

import (
	"strings"
	"unicode/utf8"
)

// RefineHeading prefixes refined text.
const RefineHeading = "### Keyword Analysis"

const minRefinedLineLength = 5

// Refine drops lines of minRefinedLineLength characters or fewer and
// prefixes the remainder with RefineHeading. Lines split on "\n" only; a
// trailing "\r" stays part of the line and counts toward its length.
func Refine(text string) string {
	var kept []string
	for line := range strings.Lines(text) {
		line = strings.TrimSuffix(line, "\n")
		if utf8.RuneCountInString(line) > minRefinedLineLength {
			kept = append(kept, line)
		}
	}
	return RefineHeading + "\n" + strings.Join(kept, "\n")
}
