// Package speech normalizes transcribed utterances before analysis.
//
// Speech-to-text output garbles gaming vocabulary ("see us" for "cs", "is he"
// for "ez"); the correction table rewrites known misrecognitions so the
// keyword extractor sees the terms players actually said. Username correction
// is deliberately not handled here; it belongs to the platform layer that
// knows session membership.
package speech

import (
	"regexp"
	"strings"
)

type correction struct {
	pattern     *regexp.Regexp
	replacement string
}

func fix(pattern, replacement string) correction {
	return correction{
		pattern:     regexp.MustCompile(`\b` + pattern + `\b`),
		replacement: replacement,
	}
}

// corrections are applied in order; longer phrases come before their
// prefixes so "just have have" wins over "just have".
var corrections = []correction{
	fix(`see us`, "cs"),
	fix(`a dc`, "adc"),
	fix(`is he`, "ez"),
	fix(`easy`, "ez"),
	fix(`just have have`, "just ff"),
	fix(`just have`, "just ff"),
	fix(`ff fifteen`, "ff at 15"),
	fix(`medium`, "mid lane"),
	fix(`middle lane`, "mid lane"),
	fix(`middle`, "mid"),
	fix(`top playing`, "top lane"),
	fix(`bottom lane`, "bot lane"),
	fix(`bottom`, "bot lane"),
	fix(`supporting role`, "support"),
	fix(`supporting`, "support"),
	fix(`in the jungle`, "jungle"),
	fix(`report him`, "report"),
	fix(`he'?s feeding`, "feeding"),
	fix(`she'?s feeding`, "feeding"),
	fix(`they'?re feeding`, "feeding"),
	fix(`i'?m feeding`, "feeding"),
	fix(`in ting`, "inting"),
	fix(`gank me`, "gank"),
	fix(`rage quitting`, "rage quit"),
	fix(`spawn killing`, "spawn kill"),
	fix(`wall hacking`, "wall hack"),
}

// CorrectTranscript lowercases a transcript and rewrites known
// speech-recognition mistakes for gaming terms.
func CorrectTranscript(text string) string {
	corrected := strings.ToLower(text)
	for _, c := range corrections {
		corrected = c.pattern.ReplaceAllString(corrected, c.replacement)
	}
	return corrected
}
