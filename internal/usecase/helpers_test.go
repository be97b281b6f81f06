package usecase

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scanify/backend/internal/domain"
	"github.com/scanify/backend/internal/matching"
)

var testStockists = []domain.Stockist{
	{Code: "ST001", Name: "Shree Balaji Medical Agencies", City: "Nagpur", Status: domain.StatusActive},
	{Code: "ST045", Name: "DHANVANTARI ENTERPRISES", City: "Pune", Status: domain.StatusActive},
	{Code: "ST102", Name: "Sai Pharma Distributors", City: "Mumbai", Status: domain.StatusActive},
}

var testProducts = []domain.Product{
	{Code: "P001", Name: "AMINORICH CAP", Pack: "15CAP", PTS: 120, Status: domain.StatusActive},
	{Code: "P002", Name: "DOLO 650 TAB", Pack: "15'S", PTS: 25.5, Status: domain.StatusActive},
	{Code: "P003", Name: "BETADINE GARGLE", Pack: "100ML", PTS: 80, Status: domain.StatusActive},
}

// fakeMaster is an in-memory domain.MasterRepository
type fakeMaster struct {
	stockists []domain.Stockist
	products  []domain.Product
	err       error
	loads     int
}

func (f *fakeMaster) ActiveStockists(context.Context) ([]domain.Stockist, error) {
	f.loads++
	return f.stockists, f.err
}

func (f *fakeMaster) ActiveProducts(context.Context) ([]domain.Product, error) {
	f.loads++
	return f.products, f.err
}

// fakeExtractor returns canned rows per document name
type fakeExtractor struct {
	rows  map[string][]domain.ExtractedItem
	err   error
	calls []string
}

func (f *fakeExtractor) Extract(_ context.Context, doc domain.Document, catalog []domain.Product) ([]domain.ExtractedItem, error) {
	f.calls = append(f.calls, doc.Name)
	if f.err != nil {
		return nil, f.err
	}
	if len(catalog) == 0 {
		return nil, errors.New("catalog not passed to extractor")
	}
	return f.rows[doc.Name], nil
}

type archiveFile struct {
	name string
	body string
}

func buildArchive(t *testing.T, files ...archiveFile) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, f := range files {
		fw, err := w.Create(f.name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(f.body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func newTestMatchingService(master domain.MasterRepository) *MatchingService {
	return NewMatchingService(master, matching.DefaultStockistConfig(), matching.DefaultProductConfig(), nil)
}
