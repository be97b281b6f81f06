package matching

import (
	"regexp"
	"strings"
)

// Package-level compiled regex patterns for performance
var (
	punctuationRunRegex = regexp.MustCompile(`[-_/.,()]+`)
	multipleSpacesRegex = regexp.MustCompile(`\s+`)
)

// Normalize upper-cases text, turns runs of - _ / . , ( ) into a single space and
// collapses whitespace. It never fails; empty input yields an empty string.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ToUpper(text)
	text = punctuationRunRegex.ReplaceAllString(text, " ")
	return collapseSpaces(text)
}

func collapseSpaces(text string) string {
	return strings.TrimSpace(multipleSpacesRegex.ReplaceAllString(text, " "))
}
