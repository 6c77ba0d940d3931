// Package isnad recovers narration chains (isnad) from normalized hadith text.
//
// A hadith opens with a chain of transmitters ("X narrated to us, from Y, ...")
// followed by the attributed statement itself. The heuristics here isolate the
// chain prefix and decompose it into the ordered transmitter names. All input
// is expected to be pre-normalized (see the arabic package): diacritics and
// tatweel stripped, whitespace collapsed.
package isnad

import (
	"regexp"
	"strings"
)

// terminatorPhrases mark the transition from the chain to the attributed
// statement. Ordered by priority, but the earliest occurrence by position
// wins regardless of list order.
var terminatorPhrases = []string{
	"يقول",
	"قال رسول الله",
	"سمعت رسول الله",
	"قال النبي",
	"يقول النبي",
	"حدثني رسول الله",
	"صلى الله عليه وسلم",
	"رسول الله قال",
	"فقال رسول الله",
}

// stopNames are honorific or subject phrases referring to the narrated figure
// rather than a transmitter; candidate names containing any of them are dropped.
var stopNames = []string{
	"رسول الله",
	"النبي",
	"صلى الله عليه وسلم",
	"قال رسول الله",
}

// leadIns are the narration verbs that introduce the next transmitter in a
// chain. Normalized (diacritic-free) forms, matched at word boundaries.
var leadIns = regexp.MustCompile(
	`(?:^|[\s،:])(حدثنا|حدثني|أخبرنا|أخبرني|أنبأنا|قال|سمعت|سمع|يقول|عن)\s+`,
)

// nameDelimiters end a transmitter name span.
var nameDelimiters = regexp.MustCompile(`[،:\n"]`)

// nonArabic matches every rune outside the Arabic letter block and whitespace;
// such runes are stripped from candidate names. U+200F is the right-to-left
// mark occasionally embedded in scraped text.
var (
	nonArabic     = regexp.MustCompile(`[^\x{0621}-\x{064A}\s]`)
	nameSpaceRuns = regexp.MustCompile(`[\s\x{200F}]+`)
)

// IsolateChain returns the prefix of text preceding the earliest occurrence of
// any terminator phrase, or the whole text if no phrase occurs.
func IsolateChain(text string) string {
	cut := -1
	for _, phrase := range terminatorPhrases {
		if idx := strings.Index(text, phrase); idx >= 0 && (cut < 0 || idx < cut) {
			cut = idx
		}
	}
	if cut < 0 {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(text[:cut])
}

// ExtractTransmitters returns the transmitter names cited in chainText, in
// narration order. A name span starts after a lead-in verb and runs until the
// next delimiter or the next lead-in, whichever comes first.
func ExtractTransmitters(chainText string) []string {
	matches := leadIns.FindAllStringSubmatchIndex(chainText, -1)
	if matches == nil {
		return nil
	}

	names := make([]string, 0, len(matches))
	for i, m := range matches {
		span := chainText[m[1]:] // from just past the lead-in and its trailing space
		end := len(span)
		if i+1 < len(matches) {
			end = matches[i+1][2] - m[1] // stop before the next lead-in token
		}
		if end < 0 {
			continue
		}
		span = span[:end]
		if loc := nameDelimiters.FindStringIndex(span); loc != nil {
			span = span[:loc[0]]
		}
		if name := cleanName(span); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func cleanName(raw string) string {
	name := nonArabic.ReplaceAllString(raw, "")
	name = strings.TrimSpace(nameSpaceRuns.ReplaceAllString(name, " "))
	if len([]rune(name)) <= 1 {
		return ""
	}
	for _, stop := range stopNames {
		if strings.Contains(name, stop) {
			return ""
		}
	}
	return name
}
