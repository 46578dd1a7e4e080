package tilt

import (
	"regexp"
	"unicode"
)

// Extract output bounds. Signals outside this range come from a misbehaving
// source and are clamped by the store before they touch a score.
const (
	MinMagnitude = -15
	MaxMagnitude = 20
)

var repeatedPunctuation = regexp.MustCompile(`[!?]{3,}`)

// Extract converts a chat message or transcribed utterance into a signed tilt
// magnitude in [MinMagnitude, MaxMagnitude]. Positive values indicate
// frustration, negative values indicate calming content.
//
// Keyword rules contribute count*weight per pattern. Two late heuristics
// (all-caps shouting +5, repeated !/? punctuation +3) apply only when the
// keyword total is non-negative, so emphatic-but-positive messages are not
// penalized for emphasis alone.
func Extract(text string) int {
	raw := 0

	for _, rule := range tiltRules {
		raw += len(rule.Pattern.FindAllString(text, -1)) * rule.Weight
	}
	for _, rule := range calmRules {
		raw -= len(rule.Pattern.FindAllString(text, -1)) * rule.Weight
	}

	if raw >= 0 && len(text) > 5 && isShouting(text) {
		raw += 5
	}
	if raw >= 0 && repeatedPunctuation.MatchString(text) {
		raw += 3
	}

	if raw < MinMagnitude {
		return MinMagnitude
	}
	if raw > MaxMagnitude {
		return MaxMagnitude
	}
	return raw
}

// isShouting reports whether text contains at least one letter and no
// lowercase letters.
func isShouting(text string) bool {
	hasLetter := false
	for _, r := range text {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}
