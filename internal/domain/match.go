package domain

// MatchStrategy names the tier that produced an accepted match
type MatchStrategy string

const (
	StrategyExact MatchStrategy = "exact"
	StrategyFuzzy MatchStrategy = "fuzzy"
	StrategyCity  MatchStrategy = "city"
)

// Rejection reasons carried by a MatchResult that was not accepted
const (
	ReasonNoMatch  = "no_match"
	ReasonTooShort = "too_short"
	ReasonNoName   = "no_name"
)

// ProductQuery is an extracted product description to resolve against the catalog
type ProductQuery struct {
	Name string `json:"name"`
	Pack string `json:"pack,omitempty"`
}

// Candidate is a scored reference record reported for diagnostics
type Candidate struct {
	Code  string  `json:"code"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// MatchResult represents the outcome of resolving one query against a reference list.
// Accepted implies Score >= the matcher threshold and a non-empty Code.
type MatchResult struct {
	Query         string        `json:"query"`
	Accepted      bool          `json:"accepted"`
	Code          string        `json:"code,omitempty"`
	Name          string        `json:"name,omitempty"`
	Score         float64       `json:"score"`
	Strategy      MatchStrategy `json:"strategy,omitempty"`
	Reason        string        `json:"reason,omitempty"`
	Skipped       bool          `json:"skipped,omitempty"`
	TopCandidates []Candidate   `json:"topCandidates,omitempty"`
}
