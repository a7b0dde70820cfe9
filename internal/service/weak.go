package service

import (
	"strings"
	"unicode/utf8"
)

// weakLengthLimit is the trimmed length at which a hedging answer still
// counts as substantive.
const weakLengthLimit = 150

// hedgingPhrases mark refusal or non-answer openings.
var hedgingPhrases = []string{
	"i don't know", "i do not know", "i don't have information",
	"i cannot find", "i'm not sure", "i don't see", "no information available",
	"i don't have access", "i cannot provide", "i'm unable to", "sorry, i don't have",
	"i don't have any information", "i cannot help", "i'm sorry, but i don't",
	"i don't have specific information", "i cannot locate", "i don't find",
}

// substantiveMarkers signal the answer engages with document content even
// when it hedges. Any one of them suppresses the weak classification
// regardless of length.
var substantiveMarkers = []string{
	"however", "although", "but", "based on", "according to", "the document",
}

// IsWeakResponse reports whether an answer is a short non-answer worth
// retrying: it contains a hedging phrase, its trimmed length is under the
// limit and it carries no substantive marker. Long answers that merely
// mention uncertainty in passing are not weak.
func IsWeakResponse(response string) bool {
	lower := strings.ToLower(response)

	hedges := false
	for _, phrase := range hedgingPhrases {
		if strings.Contains(lower, phrase) {
			hedges = true
			break
		}
	}
	if !hedges {
		return false
	}

	if utf8.RuneCountInString(strings.TrimSpace(response)) >= weakLengthLimit {
		return false
	}

	for _, marker := range substantiveMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	return true
}
