package spam

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Similarity is the normalized edit similarity of the trimmed strings:
// 1 - levenshtein(a, b) / max(len(a), len(b)), counted in runes. It is
// case-sensitive and symmetric; two empty strings are identical.
func Similarity(a, b string) float64 {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}
