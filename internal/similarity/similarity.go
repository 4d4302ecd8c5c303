// Package similarity scores how closely two titles resemble each other.
package similarity

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Similarity returns a score from 0.0 (completely different) to 1.0 (identical
// ignoring case) based on the Levenshtein distance between a and b.
// An empty string scores 0 against any non-empty string; two empty strings score 1.
func Similarity(a, b string) float64 {
	ra, rb := fold(a), fold(b)

	if len(ra) == 0 && len(rb) == 0 {
		return 1.0
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0.0
	}

	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}

	return 1.0 - float64(levenshtein(ra, rb))/float64(maxLen)
}

// Distance returns the case-insensitive Levenshtein distance between a and b,
// counted in characters rather than bytes.
func Distance(a, b string) int {
	return levenshtein(fold(a), fold(b))
}

// fold normalizes s to NFC and applies Unicode case folding so that composed
// and decomposed Hangul, or "Ä" and "ä", compare equal.
func fold(s string) []rune {
	return []rune(cases.Fold().String(norm.NFC.String(s)))
}

// levenshtein keeps two rows of the edit matrix, sized by the shorter input.
func levenshtein(s1, s2 []rune) int {
	if len(s1) < len(s2) {
		s1, s2 = s2, s1
	}
	if len(s2) == 0 {
		return len(s1)
	}

	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(s2)]
}
