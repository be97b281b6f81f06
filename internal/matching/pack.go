package matching

import (
	"regexp"
	"strings"
)

var (
	packPunctuationRegex = regexp.MustCompile(`[-_/,()]+`)
	packMultiplierRegex  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*[X*]\s*(\d+(?:\.\d+)?)`)
	packLeadingRegex     = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([A-Z]*)`)
	leadingNumberRegex   = regexp.MustCompile(`^\d+(?:\.\d+)?`)
)

// packUnits folds unit spellings onto the signature unit
var packUnits = map[string]string{
	"ML": "ML", "MG": "MG", "KG": "KG",
	"G": "G", "GM": "G", "GMS": "G", "GRAM": "G", "GRAMS": "G",
}

// normalizeKeepDecimals behaves like Normalize but keeps a decimal point between two digits,
// so 0.5ML stays one token
func normalizeKeepDecimals(text string) string {
	if text == "" {
		return ""
	}
	text = packPunctuationRegex.ReplaceAllString(strings.ToUpper(text), " ")

	runes := []rune(text)
	for i, r := range runes {
		if r != '.' {
			continue
		}
		if i > 0 && i < len(runes)-1 && isDigit(runes[i-1]) && isDigit(runes[i+1]) {
			continue
		}
		runes[i] = ' '
	}
	return collapseSpaces(string(runes))
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// NormalizePack turns a pack string into a comparable signature.
// "2x15s" becomes "15", "15's" becomes "15" and "100 gm" becomes "100G".
// Strings without a leading quantity are returned unchanged; the result is idempotent.
func NormalizePack(pack string) string {
	normalized := normalizeKeepDecimals(pack)
	if normalized == "" {
		return ""
	}

	if m := packMultiplierRegex.FindStringSubmatch(normalized); m != nil {
		return m[2]
	}

	if m := packLeadingRegex.FindStringSubmatch(normalized); m != nil {
		// letters that are not a known unit (CAP, S, TAB) leave the unit empty
		return m[1] + packUnits[m[2]]
	}

	return pack
}

// PackSimilarity compares two pack signatures: 1.0 when equal, 0.7 when only the
// leading quantity agrees, 0 otherwise or when either side is empty.
func PackSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	na := leadingNumberRegex.FindString(a)
	nb := leadingNumberRegex.FindString(b)
	if na != "" && na == nb {
		return 0.7
	}
	return 0
}
