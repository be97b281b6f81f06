package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/scanify/backend/internal/domain"
)

const namespace = "scanify"

var (
	// MatchesTotal counts match decisions by matcher and outcome
	MatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "matching",
			Name:      "results_total",
			Help:      "Match decisions by matcher and outcome.",
		},
		[]string{"matcher", "outcome"},
	)

	// MatchScore observes the best score of each decision
	MatchScore = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "matching",
			Name:      "score",
			Help:      "Best candidate score per match decision.",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		},
		[]string{"matcher"},
	)

	// ImportFilesTotal counts bulk import files by status
	ImportFilesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "files_total",
			Help:      "Bulk import files by final status.",
		},
		[]string{"status"},
	)

	// ExtractionDuration observes extraction calls including retries
	ExtractionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "extraction_duration_seconds",
			Help:      "Time spent extracting one statement file.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 8),
		},
	)

	// ExtractionCacheTotal counts extraction cache lookups by result
	ExtractionCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "extraction_cache_total",
			Help:      "Extraction cache lookups by result.",
		},
		[]string{"result"},
	)
)

// Outcome labels
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeSkipped  = "skipped"
)

// ObserveMatch records one match decision
func ObserveMatch(matcher string, result domain.MatchResult) {
	outcome := OutcomeRejected
	switch {
	case result.Skipped:
		MatchesTotal.WithLabelValues(matcher, OutcomeSkipped).Inc()
		return
	case result.Accepted:
		outcome = OutcomeAccepted
	}
	MatchesTotal.WithLabelValues(matcher, outcome).Inc()
	MatchScore.WithLabelValues(matcher).Observe(result.Score)
}
