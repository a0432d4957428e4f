package tokenizer

import (
	"regexp"
	"strings"
	"unicode"
)

// reWord matches whitespace/punctuation delimited words the way a treebank tokenizer would:
// contractions and hyphenated compounds stay whole, so they fail the alphabetic test below.
var reWord = regexp.MustCompile(`[\pL\pN]+(?:['’\-][\pL\pN]+)*`)

// Words returns the lowercase tokens of text that consist only of letters.
func Words(text string) []string {
	raw := reWord.FindAllString(text, -1)
	out := make([]string, 0, len(raw))
	for _, w := range raw {
		if !IsAlpha(w) {
			continue
		}
		out = append(out, strings.ToLower(w))
	}
	return out
}

// IsAlpha reports whether s is non-empty and made of letters only.
func IsAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
