// Package sentences splits generated prose into individual sentences.
package sentences

import (
	"regexp"
	"strings"
	"unicode"
)

// listMarker matches bullets and "1." / "1)" numbering at the start of a unit
var listMarker = regexp.MustCompile(`^(?:[-*•·]|\d{1,3}[.)])(?:\s+|$)`)

// Extract splits text into sentences. Lines are split first; within a line a
// sentence ends at '.', '?' or '!' followed by whitespace, and the punctuation
// stays with the sentence. Units are trimmed and empty units are dropped.
func Extract(text string) []string {
	var out []string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, unit := range splitLine(line) {
			unit = stripMarkers(unit)
			if unit != "" {
				out = append(out, unit)
			}
		}
	}

	return out
}

func splitLine(line string) []string {
	runes := []rune(line)

	var units []string
	start := 0
	for i := 0; i < len(runes)-1; i++ {
		if isTerminal(runes[i]) && unicode.IsSpace(runes[i+1]) {
			units = append(units, strings.TrimSpace(string(runes[start:i+1])))
			start = i + 1
		}
	}
	units = append(units, strings.TrimSpace(string(runes[start:])))

	return units
}

func isTerminal(r rune) bool {
	return r == '.' || r == '?' || r == '!'
}

// stripMarkers removes leading list markers; "1." on its own strips to empty
func stripMarkers(unit string) string {
	unit = strings.TrimSpace(unit)
	for {
		loc := listMarker.FindStringIndex(unit)
		if loc == nil {
			return unit
		}
		unit = strings.TrimSpace(unit[loc[1]:])
	}
}
