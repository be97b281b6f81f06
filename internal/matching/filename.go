package matching

import (
	"path"
	"regexp"
	"strings"
)

// minCleanedLength is the shortest cleaned filename worth scoring
const minCleanedLength = 3

const monthNames = `JANUARY|FEBRUARY|MARCH|APRIL|MAY|JUNE|JULY|AUGUST|SEPTEMBER|OCTOBER|NOVEMBER|DECEMBER`
const monthAbbreviations = `JAN|FEB|MAR|APR|JUN|JUL|AUG|SEPT|SEP|OCT|NOV|DEC`

// dateRegexes run on the upper-cased stem before punctuation is collapsed
var dateRegexes = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{1,2}[-/._]\d{1,2}[-/._]\d{2,4}\b`),
	regexp.MustCompile(`\b\d{4}[-/._]\d{1,2}[-/._]\d{1,2}\b`),
}

// noiseRegexes run in order on the normalized stem
var noiseRegexes = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{1,2} \d{1,2} (20)?\d{2}\b`),
	regexp.MustCompile(`\b20\d{2} \d{1,2} \d{1,2}\b`),
	regexp.MustCompile(`(?i)\b(` + monthNames + `|` + monthAbbreviations + `)'?(20)?\d{2}\b`),
	regexp.MustCompile(`(?i)\b(` + monthNames + `)\b`),
	regexp.MustCompile(`(?i)\b(` + monthAbbreviations + `)\b`),
	regexp.MustCompile(`\b20\d{2}\b`),
	regexp.MustCompile(`(?i)\b(STATEMENT|STOCK|SALES|REPORT)\b`),
	regexp.MustCompile(`(?i)\b(IMG|IMAGE|SCAN|SCANNED|PHOTO|DOC)\b`),
	regexp.MustCompile(`\b\d+\b`),
}

// CleanFilename strips the directory and extension from a statement filename,
// normalizes it and removes dates, month names, years, report keywords and bare numbers.
// A result shorter than three characters cannot identify a stockist.
func CleanFilename(name string) string {
	name = filenameStem(name)
	for _, re := range noiseRegexes {
		name = re.ReplaceAllString(name, " ")
	}
	return collapseSpaces(name)
}

// filenameStem is the normalized base name with extension and full dates removed.
// Numbers and noise words survive so stockist codes such as 1042 or ST-045 stay visible.
func filenameStem(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "." || name == "/" {
		return ""
	}
	name = strings.TrimSuffix(name, path.Ext(name))
	name = strings.ToUpper(name)

	for _, re := range dateRegexes {
		name = re.ReplaceAllString(name, " ")
	}
	return Normalize(name)
}

// FilenameTokens returns the whitespace tokens of a cleaned filename. Cleaned names
// below the minimum length yield an empty set.
func (v Vocabulary) FilenameTokens(cleaned string) TokenSet {
	if len(cleaned) < minCleanedLength {
		return TokenSet{}
	}
	return NewTokenSet(strings.Fields(cleaned)...)
}
