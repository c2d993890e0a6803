// Package normalize canonicalizes subtitle and transcript text for comparison.
//
// It strips markup, sound descriptions, and speaker labels so the Aligner
// compares dialogue to dialogue rather than formatting to formatting.
package normalize

import (
	"regexp"
	"strings"
)

var (
	htmlTagPattern     = regexp.MustCompile(`<[^>]*>`)
	bracketSpanPattern = regexp.MustCompile(`\[[^\]]*\]`)
	parenSpanPattern   = regexp.MustCompile(`\([^)]*\)`)
	asteriskSpanPattern = regexp.MustCompile(`\*[^*]*\*`)
	webvttCuePattern   = regexp.MustCompile(`(?m)^(?:NOTE|STYLE|REGION|WEBVTT)\b.*$`)
	speakerLabelPattern = regexp.MustCompile(`(?m)^[A-Z][A-Z0-9 _-]{1,30}:.*$`)
	musicalSymbolPattern = regexp.MustCompile(`[\x{266A}\x{266B}\x{2605}\x{2606}~]`)
	whitespacePattern  = regexp.MustCompile(`\s+`)
)

// Text reduces raw subtitle or transcript text to a lowercase, markup-free
// comparison string. It is a pure function: calling it twice on its own
// output returns the same string (idempotent).
func Text(input string) string {
	s := input
	s = htmlTagPattern.ReplaceAllString(s, "")
	s = bracketSpanPattern.ReplaceAllString(s, "")
	s = parenSpanPattern.ReplaceAllString(s, "")
	s = asteriskSpanPattern.ReplaceAllString(s, "")
	s = webvttCuePattern.ReplaceAllString(s, "")
	s = speakerLabelPattern.ReplaceAllString(s, "")
	s = musicalSymbolPattern.ReplaceAllString(s, "")
	s = strings.ToLower(s)
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// IsSoundDescriptionOnly reports whether cue text, once stripped of bracketed
// sound descriptions, parenthesized asides, musical symbols, and speaker-label
// lines, is empty. A line that starts with a speaker label is removed whole,
// dialogue included, so "MAN: get down" counts as sound description only.
// Used by the SDH cleaner to decide which cues to drop from the corrected
// output.
func IsSoundDescriptionOnly(cueText string) bool {
	s := cueText
	s = bracketSpanPattern.ReplaceAllString(s, "")
	s = parenSpanPattern.ReplaceAllString(s, "")
	s = speakerLabelPattern.ReplaceAllString(s, "")
	s = musicalSymbolPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " ")) == ""
}
