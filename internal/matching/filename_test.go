package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{"empty", "", ""},
		{"month glued to year and keyword", "Dhanvantri_Jan2024_Statement.pdf", "DHANVANTRI"},
		{"day-month-year date", "ST045 stock report 12-03-2024.xlsx", "ST045"},
		{"year-month-day date", "2024-03-31 Shree Medical.pdf", "SHREE MEDICAL"},
		{"full month and year", "reports/March 2024 - Sai Agencies.PDF", "SAI AGENCIES"},
		{"abbreviated month and bare number", "Sept-23 Balaji.pdf", "BALAJI"},
		{"short year glued to month", "balaji dec23.jpg", "BALAJI"},
		{"camera name with digits", "IMG_01.jpg", ""},
		{"windows path", `C:\scans\Om Sai Sales 2023.csv`, "OM SAI"},
		{"keeps codes with digits", "ST045.pdf", "ST045"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanFilename(tt.filename))
		})
	}
}

func TestFilenameTokens(t *testing.T) {
	vocab := DefaultVocabulary()

	t.Run("splits cleaned text", func(t *testing.T) {
		assert.Equal(t, []string{"MEDICAL", "SHREE"}, vocab.FilenameTokens("SHREE MEDICAL").Sorted())
	})

	t.Run("too short yields empty set", func(t *testing.T) {
		assert.Equal(t, 0, vocab.FilenameTokens("AB").Len())
		assert.Equal(t, 0, vocab.FilenameTokens("").Len())
	})
}
