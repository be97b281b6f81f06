package domain

import "time"

// Statement extraction and batch status values
const (
	ExtractionPending   = "Pending"
	ExtractionCompleted = "Completed"
	ExtractionFailed    = "Failed"

	FileSuccess = "Success"
	FileFailed  = "Failed"
	FileSkipped = "Skipped"

	BatchCompleted          = "Completed"
	BatchPartiallyCompleted = "Partially Completed"
	BatchFailed             = "Failed"
)

// Document is a statement file handed to the extractor
type Document struct {
	Name     string
	MIMEType string
	Data     []byte
}

// ExtractedItem is one product row read from a statement by the extractor
type ExtractedItem struct {
	Name        string  `json:"product_name"`
	Pack        string  `json:"pack"`
	ProductCode string  `json:"product_code,omitempty"`
	OpeningQty  float64 `json:"opening_qty"`
	PurchaseQty float64 `json:"purchase_qty"`
	SalesQty    float64 `json:"sales_qty"`
	FreeQty     float64 `json:"free_qty"`
	ReturnQty   float64 `json:"return_qty"`
	MiscOutQty  float64 `json:"misc_out_qty"`
}

// StatementItem is a matched product line of a stockist statement
type StatementItem struct {
	ProductCode  string  `json:"productCode" db:"product_code"`
	ProductName  string  `json:"productName" db:"product_name"`
	Pack         string  `json:"pack" db:"pack"`
	OpeningQty   float64 `json:"openingQty" db:"opening_qty"`
	PurchaseQty  float64 `json:"purchaseQty" db:"purchase_qty"`
	SalesQty     float64 `json:"salesQty" db:"sales_qty"`
	FreeQty      float64 `json:"freeQty" db:"free_qty"`
	ReturnQty    float64 `json:"returnQty" db:"return_qty"`
	MiscOutQty   float64 `json:"miscOutQty" db:"misc_out_qty"`
	ClosingQty   float64 `json:"closingQty" db:"closing_qty"`
	PTS          float64 `json:"pts" db:"pts"`
	ClosingValue float64 `json:"closingValue" db:"closing_value"`
	MatchScore   float64 `json:"matchScore" db:"match_score"`
}

// Statement is a monthly stock and sales statement submitted by a stockist
type Statement struct {
	ID                 string          `json:"id" db:"id"`
	StockistCode       string          `json:"stockistCode" db:"stockist_code"`
	Month              string          `json:"month" db:"statement_month"`
	SourceFile         string          `json:"sourceFile" db:"source_file"`
	ExtractionStatus   string          `json:"extractionStatus" db:"extraction_status"`
	ExtractionNotes    string          `json:"extractionNotes,omitempty" db:"extraction_notes"`
	TotalOpeningValue  float64         `json:"totalOpeningValue" db:"total_opening_value"`
	TotalPurchaseValue float64         `json:"totalPurchaseValue" db:"total_purchase_value"`
	TotalSalesValue    float64         `json:"totalSalesValue" db:"total_sales_value"`
	TotalFreeValue     float64         `json:"totalFreeValue" db:"total_free_value"`
	TotalClosingValue  float64         `json:"totalClosingValue" db:"total_closing_value"`
	Items              []StatementItem `json:"items" db:"-"`
	CreatedAt          time.Time       `json:"createdAt" db:"created_at"`
}

// CalculateTotals computes closing quantities and values for every line and the statement totals.
// Closing = Opening + Purchase - Sales - Free - Return - MiscOut; values are priced at PTS.
func (s *Statement) CalculateTotals() {
	var opening, purchase, sales, free, closing float64

	for i := range s.Items {
		item := &s.Items[i]
		if item.ProductCode == "" {
			continue
		}

		item.ClosingQty = item.OpeningQty + item.PurchaseQty - item.SalesQty -
			item.FreeQty - item.ReturnQty - item.MiscOutQty
		item.ClosingValue = item.ClosingQty * item.PTS

		opening += item.OpeningQty * item.PTS
		purchase += item.PurchaseQty * item.PTS
		sales += item.SalesQty * item.PTS
		free += item.FreeQty * item.PTS
		closing += item.ClosingValue
	}

	s.TotalOpeningValue = opening
	s.TotalPurchaseValue = purchase
	s.TotalSalesValue = sales
	s.TotalFreeValue = free
	s.TotalClosingValue = closing
}

// FileOutcome records what happened to one file of a bulk import
type FileOutcome struct {
	File           string  `json:"file"`
	Status         string  `json:"status"`
	Message        string  `json:"message,omitempty"`
	Stockist       string  `json:"stockist,omitempty"`
	StockistScore  float64 `json:"stockistScore,omitempty"`
	Statement      string  `json:"statement,omitempty"`
	ItemsExtracted int     `json:"itemsExtracted"`
	ItemsUnmatched int     `json:"itemsUnmatched"`
}

// UnmatchedItem is an extracted row that did not resolve to a catalog product
type UnmatchedItem struct {
	File      string  `json:"file"`
	Name      string  `json:"name"`
	Pack      string  `json:"pack,omitempty"`
	BestName  string  `json:"bestName,omitempty"`
	BestScore float64 `json:"bestScore"`
}

// BatchReport summarises a bulk statement import
type BatchReport struct {
	ID           string          `json:"id"`
	Month        string          `json:"month"`
	Status       string          `json:"status"`
	TotalFiles   int             `json:"totalFiles"`
	SuccessCount int             `json:"successCount"`
	FailedCount  int             `json:"failedCount"`
	SkippedCount int             `json:"skippedCount"`
	Files        []FileOutcome   `json:"files"`
	Unmatched    []UnmatchedItem `json:"unmatched,omitempty"`
	StartedAt    time.Time       `json:"startedAt"`
	FinishedAt   time.Time       `json:"finishedAt"`
}

// Suggestion lists likely stockists for one file of an archive
type Suggestion struct {
	Filename        string      `json:"filename"`
	MatchedStockist string      `json:"matchedStockist,omitempty"`
	TopCandidates   []Candidate `json:"topCandidates"`
}
