package matching

import (
	"sync"

	"go.uber.org/zap"

	"github.com/scanify/backend/internal/domain"
)

// Matcher names reported in diagnostics
const (
	MatcherStockist = "stockist"
	MatcherProduct  = "product"
)

// Rejection describes a query that did not reach the acceptance threshold
type Rejection struct {
	Matcher    string
	Query      string
	Cleaned    string
	Pack       string
	Reason     string
	BestCode   string
	BestName   string
	BestScore  float64
	Candidates []domain.Candidate
}

// RecordNote describes a reference record or query that was skipped
type RecordNote struct {
	Matcher string
	Code    string
	Query   string
	Reason  string
}

// DiagnosticSink receives near-miss and skip diagnostics from the matchers.
// Implementations must be safe for concurrent use.
type DiagnosticSink interface {
	Rejected(Rejection)
	Skipped(RecordNote)
}

// NopSink discards all diagnostics
type NopSink struct{}

func (NopSink) Rejected(Rejection)  {}
func (NopSink) Skipped(RecordNote) {}

// ZapSink writes diagnostics as structured log entries
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink creates a sink logging through the given logger
func NewZapSink(logger *zap.Logger) *ZapSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapSink{logger: logger.Named("matching")}
}

func (s *ZapSink) Rejected(r Rejection) {
	fields := []zap.Field{
		zap.String("matcher", r.Matcher),
		zap.String("query", r.Query),
		zap.String("reason", r.Reason),
		zap.Float64("best_score", r.BestScore),
	}
	if r.Cleaned != "" {
		fields = append(fields, zap.String("cleaned", r.Cleaned))
	}
	if r.Pack != "" {
		fields = append(fields, zap.String("pack", r.Pack))
	}
	if r.BestName != "" {
		fields = append(fields, zap.String("best_code", r.BestCode), zap.String("best_name", r.BestName))
	}
	if len(r.Candidates) > 0 {
		fields = append(fields, zap.Any("candidates", r.Candidates))
	}
	s.logger.Warn("no confident match", fields...)
}

func (s *ZapSink) Skipped(n RecordNote) {
	s.logger.Info("skipped",
		zap.String("matcher", n.Matcher),
		zap.String("code", n.Code),
		zap.String("query", n.Query),
		zap.String("reason", n.Reason),
	)
}

// Collector keeps diagnostics in memory
type Collector struct {
	mu         sync.Mutex
	rejections []Rejection
	notes      []RecordNote
}

// NewCollector creates an empty collector
func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Rejected(r Rejection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rejections = append(c.rejections, r)
}

func (c *Collector) Skipped(n RecordNote) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notes = append(c.notes, n)
}

// Rejections returns a copy of the collected rejections
func (c *Collector) Rejections() []Rejection {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Rejection, len(c.rejections))
	copy(out, c.rejections)
	return out
}

// Notes returns a copy of the collected skip notes
func (c *Collector) Notes() []RecordNote {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]RecordNote, len(c.notes))
	copy(out, c.notes)
	return out
}

// Reset drops everything collected so far
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rejections = nil
	c.notes = nil
}

// MultiSink fans diagnostics out to several sinks
type MultiSink []DiagnosticSink

func (m MultiSink) Rejected(r Rejection) {
	for _, s := range m {
		s.Rejected(r)
	}
}

func (m MultiSink) Skipped(n RecordNote) {
	for _, s := range m {
		s.Skipped(n)
	}
}
