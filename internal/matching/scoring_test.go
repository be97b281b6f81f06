package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scanify/backend/internal/domain"
)

func TestBestOf(t *testing.T) {
	t.Run("first candidate is always taken", func(t *testing.T) {
		var b bestOf
		assert.True(t, b.offer(scoredCandidate{code: "A", score: 0}))
		assert.Equal(t, "A", b.best.code)
	})

	t.Run("ties keep the first seen", func(t *testing.T) {
		var b bestOf
		b.offer(scoredCandidate{code: "A", score: 0.55})
		assert.False(t, b.offer(scoredCandidate{code: "B", score: 0.55}))
		assert.Equal(t, "A", b.best.code)
	})

	t.Run("strictly greater replaces", func(t *testing.T) {
		var b bestOf
		b.offer(scoredCandidate{code: "A", score: 0.55})
		assert.True(t, b.offer(scoredCandidate{code: "B", score: 0.56}))
		assert.Equal(t, "B", b.best.code)
	})
}

func TestDecide(t *testing.T) {
	best := func(score float64) bestOf {
		var b bestOf
		b.offer(scoredCandidate{code: "P1", name: "ONE", score: score})
		return b
	}

	t.Run("threshold is inclusive", func(t *testing.T) {
		result := decide("q", best(0.55), 0.55, domain.StrategyFuzzy)
		assert.True(t, result.Accepted)
		assert.Equal(t, "P1", result.Code)
		assert.Equal(t, 0.55, result.Score)
	})

	t.Run("below threshold is rejected with the best score", func(t *testing.T) {
		result := decide("q", best(0.54), 0.55, domain.StrategyFuzzy)
		assert.False(t, result.Accepted)
		assert.Empty(t, result.Code)
		assert.Equal(t, 0.54, result.Score)
		assert.Equal(t, domain.ReasonNoMatch, result.Reason)
	})

	t.Run("nothing offered", func(t *testing.T) {
		result := decide("q", bestOf{}, 0.55, domain.StrategyFuzzy)
		assert.False(t, result.Accepted)
		assert.Equal(t, 0.0, result.Score)
	})

	t.Run("scores above one are clamped", func(t *testing.T) {
		result := decide("q", best(1.25), 0.4, domain.StrategyFuzzy)
		assert.True(t, result.Accepted)
		assert.Equal(t, 1.0, result.Score)
	})
}

func TestTopCandidates(t *testing.T) {
	scored := []scoredCandidate{
		{code: "A", score: 0.2},
		{code: "B", score: 0.9},
		{code: "C", score: 0.5},
		{code: "D", score: 0.9},
	}

	t.Run("orders by score keeping reference order on ties", func(t *testing.T) {
		top := topCandidates(scored, 3)
		codes := []string{top[0].Code, top[1].Code, top[2].Code}
		assert.Equal(t, []string{"B", "D", "C"}, codes)
	})

	t.Run("n larger than list", func(t *testing.T) {
		assert.Len(t, topCandidates(scored, 10), 4)
	})

	t.Run("does not reorder input", func(t *testing.T) {
		topCandidates(scored, 2)
		assert.Equal(t, "A", scored[0].code)
	})
}
