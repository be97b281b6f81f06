package master

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/scanify/backend/internal/domain"
)

// FileRepository serves master data from YAML or CSV files. Files are read on every
// call so edits are picked up by the next batch.
type FileRepository struct {
	stockistsPath string
	productsPath  string
}

// NewFileRepository creates a repository over the given files
func NewFileRepository(stockistsPath, productsPath string) *FileRepository {
	return &FileRepository{stockistsPath: stockistsPath, productsPath: productsPath}
}

// ActiveStockists returns the active stockists in file order
func (r *FileRepository) ActiveStockists(_ context.Context) ([]domain.Stockist, error) {
	all, err := LoadStockists(r.stockistsPath)
	if err != nil {
		return nil, err
	}
	active := all[:0]
	for _, s := range all {
		if s.IsActive() {
			active = append(active, s)
		}
	}
	return active, nil
}

// ActiveProducts returns the active products in file order
func (r *FileRepository) ActiveProducts(_ context.Context) ([]domain.Product, error) {
	all, err := LoadProducts(r.productsPath)
	if err != nil {
		return nil, err
	}
	active := all[:0]
	for _, p := range all {
		if p.IsActive() {
			active = append(active, p)
		}
	}
	return active, nil
}

// LoadStockists reads stockists from a .yaml, .yml or .csv file
func LoadStockists(path string) ([]domain.Stockist, error) {
	var out []domain.Stockist
	err := load(path, "stockists", &out, func(row csvRow) error {
		out = append(out, domain.Stockist{
			Code:   row.get("stockist_code", "code"),
			Name:   row.get("stockist_name", "name"),
			City:   row.get("city"),
			HQ:     row.get("hq"),
			Status: row.get("status"),
		})
		return nil
	})
	return out, err
}

// LoadProducts reads products from a .yaml, .yml or .csv file
func LoadProducts(path string) ([]domain.Product, error) {
	var out []domain.Product
	err := load(path, "products", &out, func(row csvRow) error {
		p := domain.Product{
			Code:           row.get("product_code", "code"),
			Name:           row.get("product_name", "name"),
			Pack:           row.get("pack"),
			PackConversion: row.get("pack_conversion"),
			Division:       row.get("division"),
			Group:          row.get("product_group", "group"),
			Status:         row.get("status"),
		}
		var err error
		if p.PTS, err = row.float("pts"); err != nil {
			return err
		}
		if p.PTR, err = row.float("ptr"); err != nil {
			return err
		}
		if p.MRP, err = row.float("mrp"); err != nil {
			return err
		}
		out = append(out, p)
		return nil
	})
	return out, err
}

// load decodes YAML into dest, either as a bare list or under key, or walks CSV rows
func load(path, key string, dest any, onRow func(csvRow) error) error {
	if path == "" {
		return fmt.Errorf("no %s file configured", key)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s file: %w", key, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := io.ReadAll(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		return decodeYAML(data, key, dest)
	case ".csv":
		return readCSV(f, onRow)
	default:
		return fmt.Errorf("unsupported %s file format %q", key, filepath.Ext(path))
	}
}

func decodeYAML(data []byte, key string, dest any) error {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("decode yaml: %w", err)
	}
	if len(root.Content) == 0 {
		return nil
	}

	doc := root.Content[0]
	if doc.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(doc.Content); i += 2 {
			if doc.Content[i].Value == key {
				return doc.Content[i+1].Decode(dest)
			}
		}
		return fmt.Errorf("yaml document has no %q list", key)
	}
	return doc.Decode(dest)
}

// csvRow maps lower-cased header names to the values of one record
type csvRow struct {
	line   int
	values map[string]string
}

func (r csvRow) get(names ...string) string {
	for _, n := range names {
		if v, ok := r.values[n]; ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func (r csvRow) float(name string) (float64, error) {
	v := r.get(name)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("line %d: %s %q is not a number", r.line, name, v)
	}
	return f, nil
}

func readCSV(rd io.Reader, onRow func(csvRow) error) error {
	reader := csv.NewReader(rd)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read csv header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}

	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		line++
		if err != nil {
			return fmt.Errorf("read csv line %d: %w", line, err)
		}

		row := csvRow{line: line, values: make(map[string]string, len(header))}
		for i, h := range header {
			if i < len(record) {
				row.values[h] = record[i]
			}
		}
		if err := onRow(row); err != nil {
			return err
		}
	}
}
