package related

import (
	"strings"
	"unicode"
)

var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "in": true, "into": true,
	"is": true, "it": true, "its": true, "of": true, "on": true, "or": true,
	"that": true, "the": true, "this": true, "to": true, "with": true,
	"which": true, "can": true, "all": true, "your": true, "you": true,
}

// tokenSet splits text into its distinct significant words.
func tokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, field := range strings.Fields(strings.ToLower(text)) {
		word := strings.TrimFunc(field, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if word == "" || stopWords[word] {
			continue
		}
		set[word] = true
	}
	return set
}

// jaccard is |a ∩ b| / |a ∪ b|, zero when both sets are empty.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	shared := intersect(a, b)
	union := len(a) + len(b) - shared
	return float64(shared) / float64(union)
}
