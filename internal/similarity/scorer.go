// Package similarity scores a submitted dictation answer against the
// expected sentence as a normalized edit-distance percentage.
package similarity

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/antzucaro/matchr"
)

// nonWordOrSpace matches everything that is not a word character or
// whitespace; punctuation never counts against the learner.
var nonWordOrSpace = regexp.MustCompile(`[^\w\s]`)

// Normalize lowercases s, strips punctuation, and trims surrounding
// whitespace. Two sentences that normalize equal score 100.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = nonWordOrSpace.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Score returns the similarity between the expected and the submitted
// sentence as an integer percentage in [0,100]. It is symmetric in its
// arguments and deterministic.
func Score(expected, actual string) int {
	a := Normalize(expected)
	b := Normalize(actual)

	if a == b {
		return 100
	}

	distance := matchr.Levenshtein(a, b)
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}

	return int(math.Round(float64(maxLen-distance) / float64(maxLen) * 100))
}
