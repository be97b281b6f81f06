package cli

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scanify/backend/internal/domain"
)

const (
	stockistsCSV = "stockist_code,stockist_name,city\n" +
		"ST001,Shree Balaji Medical Agencies,Nagpur\n" +
		"ST045,DHANVANTARI ENTERPRISES,Pune\n"
	productsCSV = "product_code,product_name,pack,pts\n" +
		"P001,AMINORICH CAP,15CAP,120\n" +
		"P002,DOLO 650 TAB,15'S,25.5\n"
)

// masterFlags writes the master files and returns the flags pointing at them
func masterFlags(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()
	stockists := filepath.Join(dir, "stockists.csv")
	products := filepath.Join(dir, "products.csv")
	require.NoError(t, os.WriteFile(stockists, []byte(stockistsCSV), 0o600))
	require.NoError(t, os.WriteFile(products, []byte(productsCSV), 0o600))
	return []string{"--stockists", stockists, "--products", products}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMatchFileCommand(t *testing.T) {
	t.Run("prints json results", func(t *testing.T) {
		args := append([]string{"match-file", "--json", "Dhanvantri_Jan2024_Statement.pdf", "IMG_01.jpg"}, masterFlags(t)...)
		out, err := execute(t, args...)
		require.NoError(t, err)

		var results []domain.MatchResult
		require.NoError(t, json.Unmarshal([]byte(out), &results))
		require.Len(t, results, 2)
		assert.Equal(t, "ST045", results[0].Code)
		assert.Equal(t, domain.ReasonTooShort, results[1].Reason)
	})

	t.Run("prints a table", func(t *testing.T) {
		args := append([]string{"match-file", "Balaji Nagpur.pdf"}, masterFlags(t)...)
		out, err := execute(t, args...)
		require.NoError(t, err)
		assert.Contains(t, out, "ST001")
		assert.Contains(t, out, string(domain.StrategyCity))
	})

	t.Run("requires a filename", func(t *testing.T) {
		_, err := execute(t, append([]string{"match-file"}, masterFlags(t)...)...)
		assert.Error(t, err)
	})
}

func TestMatchProductCommand(t *testing.T) {
	args := append([]string{"match-product", "--name", "Dolo 650 Tablets", "--pack", "1x15", "--json"}, masterFlags(t)...)
	out, err := execute(t, args...)
	require.NoError(t, err)

	var result domain.MatchResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Accepted)
	assert.Equal(t, "P002", result.Code)

	_, err = execute(t, append([]string{"match-product"}, masterFlags(t)...)...)
	assert.Error(t, err, "name is required")
}

func TestSuggestCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "march.zip")
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range []string{"ST045_march.pdf", "Shree Balaji.pdf"} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte("%PDF"))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	out, err := execute(t, append([]string{"suggest", path}, masterFlags(t)...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "ST045_march.pdf")
	assert.Contains(t, out, "Shree Balaji.pdf")
	assert.Contains(t, out, "%)")
}

func TestImportCommandWithoutExtractor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.zip")
	var buf bytes.Buffer
	require.NoError(t, zip.NewWriter(&buf).Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	t.Setenv("SCANIFY_GEMINI_API_KEY", "")
	_, err := execute(t, append([]string{"import", "--month", "2025-03", path}, masterFlags(t)...)...)
	assert.ErrorIs(t, err, domain.ErrExtractorUnavailable)
}
