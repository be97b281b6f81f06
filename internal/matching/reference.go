package matching

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/scanify/backend/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// preparedStockist caches everything the filename matcher derives from a stockist
type preparedStockist struct {
	record      domain.Stockist
	code        string
	normalized  string
	filtered    []string
	filteredSet TokenSet
	wholeText   string
	city        string
	cityWords   TokenSet
}

// StockistSet is a read-only snapshot of stockists prepared for filename matching
type StockistSet struct {
	records []preparedStockist
}

// Len returns the number of usable stockists
func (s *StockistSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.records)
}

// Stockists returns the usable stockists in reference order
func (s *StockistSet) Stockists() []domain.Stockist {
	out := make([]domain.Stockist, 0, s.Len())
	for _, r := range s.records {
		out = append(out, r.record)
	}
	return out
}

// preparedProduct caches everything the product matcher derives from a catalog entry
type preparedProduct struct {
	record     domain.Product
	normalized string
	tokens     TokenSet
	pack       string
}

// ProductCatalog is a read-only snapshot of products prepared for matching
type ProductCatalog struct {
	records []preparedProduct
	byCode  map[string]int
}

// Len returns the number of usable products
func (c *ProductCatalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.records)
}

// Products returns the usable products in catalog order
func (c *ProductCatalog) Products() []domain.Product {
	out := make([]domain.Product, 0, c.Len())
	for _, r := range c.records {
		out = append(out, r.record)
	}
	return out
}

// Lookup returns the product with the given code
func (c *ProductCatalog) Lookup(code string) (domain.Product, bool) {
	if c == nil {
		return domain.Product{}, false
	}
	i, ok := c.byCode[code]
	if !ok {
		return domain.Product{}, false
	}
	return c.records[i].record, true
}

// checkRecord validates struct tags and that the name survives normalization
func checkRecord(record any, name string) error {
	if err := validate.Struct(record); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidRecord, err)
	}
	if Normalize(name) == "" {
		return fmt.Errorf("%w: name %q has no usable characters", domain.ErrInvalidRecord, name)
	}
	return nil
}

// prepareStockists validates and preprocesses stockists, skipping bad or duplicate
// records with a note. It fails only when nothing usable remains.
func prepareStockists(stockists []domain.Stockist, vocab Vocabulary, sink DiagnosticSink) (*StockistSet, error) {
	set := &StockistSet{records: make([]preparedStockist, 0, len(stockists))}
	seen := make(map[string]bool, len(stockists))

	for _, s := range stockists {
		if err := checkRecord(s, s.Name); err != nil {
			sink.Skipped(RecordNote{Matcher: MatcherStockist, Code: s.Code, Reason: err.Error()})
			continue
		}
		code := Normalize(s.Code)
		if code == "" {
			err := fmt.Errorf("%w: code %q has no usable characters", domain.ErrInvalidRecord, s.Code)
			sink.Skipped(RecordNote{Matcher: MatcherStockist, Code: s.Code, Reason: err.Error()})
			continue
		}
		if seen[code] {
			sink.Skipped(RecordNote{Matcher: MatcherStockist, Code: s.Code, Reason: "duplicate code"})
			continue
		}
		seen[code] = true

		normalized := Normalize(s.Name)
		filtered := vocab.significantWords(normalized, 3)
		wholeText := strings.Join(filtered, " ")
		if len(filtered) == 0 {
			filtered = longWords(normalized)
			wholeText = normalized
		}

		set.records = append(set.records, preparedStockist{
			record:      s,
			code:        code,
			normalized:  normalized,
			filtered:    filtered,
			filteredSet: NewTokenSet(filtered...),
			wholeText:   wholeText,
			city:        Normalize(s.City),
			cityWords:   NewTokenSet(vocab.significantWords(normalized, 4)...),
		})
	}

	if len(set.records) == 0 {
		return nil, fmt.Errorf("%w: no usable stockists in %d records", domain.ErrEmptyReferenceSet, len(stockists))
	}
	return set, nil
}

// prepareCatalog validates and preprocesses products in catalog order
func prepareCatalog(products []domain.Product, vocab Vocabulary, sink DiagnosticSink) (*ProductCatalog, error) {
	catalog := &ProductCatalog{
		records: make([]preparedProduct, 0, len(products)),
		byCode:  make(map[string]int, len(products)),
	}

	for _, p := range products {
		if err := checkRecord(p, p.Name); err != nil {
			sink.Skipped(RecordNote{Matcher: MatcherProduct, Code: p.Code, Reason: err.Error()})
			continue
		}
		if _, dup := catalog.byCode[p.Code]; dup {
			sink.Skipped(RecordNote{Matcher: MatcherProduct, Code: p.Code, Reason: "duplicate code"})
			continue
		}

		catalog.byCode[p.Code] = len(catalog.records)
		catalog.records = append(catalog.records, preparedProduct{
			record:     p,
			normalized: Normalize(p.Name),
			tokens:     vocab.NameTokens(p.Name),
			pack:       NormalizePack(p.Pack),
		})
	}

	if len(catalog.records) == 0 {
		return nil, fmt.Errorf("%w: no usable products in %d records", domain.ErrEmptyReferenceSet, len(products))
	}
	return catalog, nil
}
