package master

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadStockists(t *testing.T) {
	t.Run("yaml under key", func(t *testing.T) {
		path := writeFile(t, "stockists.yaml", `
stockists:
  - code: ST045
    name: DHANVANTARI ENTERPRISES
    city: Pune
  - code: ST046
    name: Old Stockist
    status: Inactive
`)
		got, err := LoadStockists(path)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "ST045", got[0].Code)
		assert.Equal(t, "Pune", got[0].City)
	})

	t.Run("bare yaml list", func(t *testing.T) {
		path := writeFile(t, "stockists.yml", "- code: A\n  name: Alpha\n")
		got, err := LoadStockists(path)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("csv with aliases and BOM", func(t *testing.T) {
		path := writeFile(t, "stockists.csv", "\ufeffStockist_Code,Stockist_Name,City\nST001,Shree Balaji Medical Agencies,Nagpur\n")
		got, err := LoadStockists(path)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "ST001", got[0].Code)
		assert.Equal(t, "Nagpur", got[0].City)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := writeFile(t, "stockists.json", "[]")
		_, err := LoadStockists(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadStockists(filepath.Join(t.TempDir(), "none.csv"))
		assert.Error(t, err)
	})
}

func TestLoadProducts(t *testing.T) {
	t.Run("csv with prices", func(t *testing.T) {
		path := writeFile(t, "products.csv", "product_code,product_name,pack,pts,ptr,mrp\nP001,AMINORICH CAP,15CAP,\"1,120.50\",130,150\nP002,DOLO 650 TAB,15'S,,,\n")
		got, err := LoadProducts(path)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, 1120.50, got[0].PTS)
		assert.Equal(t, 0.0, got[1].MRP)
	})

	t.Run("bad number reports line", func(t *testing.T) {
		path := writeFile(t, "products.csv", "code,name,pts\nP001,A,abc\n")
		_, err := LoadProducts(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 2")
	})

	t.Run("yaml", func(t *testing.T) {
		path := writeFile(t, "products.yaml", "products:\n  - code: P001\n    name: AMINORICH CAP\n    pack: 15CAP\n    pts: 120\n    pack_conversion: '1x15'\n")
		got, err := LoadProducts(path)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 120.0, got[0].PTS)
		assert.Equal(t, "1x15", got[0].PackConversion)
	})
}

func TestFileRepository(t *testing.T) {
	stockists := writeFile(t, "stockists.csv", "code,name,status\nA,Alpha,Active\nB,Beta,Inactive\nC,Gamma,\n")
	products := writeFile(t, "products.csv", "code,name,status\nP1,One,Discontinued\nP2,Two,Active\n")
	repo := NewFileRepository(stockists, products)

	gotStockists, err := repo.ActiveStockists(context.Background())
	require.NoError(t, err)
	assert.Len(t, gotStockists, 2)

	gotProducts, err := repo.ActiveProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, gotProducts, 1)
	assert.Equal(t, "P2", gotProducts[0].Code)
}

func TestMasterQueries(t *testing.T) {
	query, args := activeStockistsQuery()
	assert.True(t, strings.HasPrefix(query, "SELECT stockist_code, stockist_name"))
	assert.Contains(t, query, "FROM stockist_master WHERE status = $1 ORDER BY stockist_code")
	assert.Equal(t, []interface{}{"Active"}, args)

	query, args = activeProductsQuery()
	assert.Contains(t, query, "FROM product_master WHERE status = $1 ORDER BY product_code")
	assert.Equal(t, []interface{}{"Active"}, args)
}
