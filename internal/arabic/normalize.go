// Package arabic normalizes Arabic source text for downstream pattern matching.
package arabic

import (
	"regexp"
	"strings"
)

// Combining diacritics (tashkil and Quranic annotation marks) plus the
// standalone superscript alef. Tatweel is handled separately because it is
// a base character, not a combining mark.
var (
	diacritics = regexp.MustCompile(`[\x{064B}-\x{065F}\x{0670}\x{06D6}-\x{06ED}]`)
	whitespace = regexp.MustCompile(`\s+`)
)

const tatweel = "ـ"

// Normalize strips diacritics and tatweel and canonicalizes whitespace.
// It is total: any input, including the empty string, yields a valid result,
// and the function is idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	text = diacritics.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, tatweel, "")
	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
