package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scanify/backend/internal/domain"
)

func testStockists() []domain.Stockist {
	return []domain.Stockist{
		{Code: "ST001", Name: "Shree Balaji Medical Agencies", City: "Nagpur"},
		{Code: "ST045", Name: "DHANVANTARI ENTERPRISES", City: "Pune"},
		{Code: "ST102", Name: "Sai Pharma Distributors", City: "Mumbai"},
	}
}

func newTestStockistMatcher(t *testing.T, cfg StockistConfig) (*StockistMatcher, *StockistSet) {
	t.Helper()
	m := NewStockistMatcher(cfg)
	set, err := m.Prepare(testStockists())
	require.NoError(t, err)
	return m, set
}

func TestNewStockistMatcher(t *testing.T) {
	t.Run("uses defaults when zero", func(t *testing.T) {
		m := NewStockistMatcher(StockistConfig{})
		assert.Equal(t, DefaultStockistThreshold, m.Threshold())
		assert.Equal(t, DefaultStockistWeights(), m.cfg.Weights)
		assert.Equal(t, DefaultStockistTopN, m.cfg.TopN)
	})

	t.Run("keeps provided threshold", func(t *testing.T) {
		m := NewStockistMatcher(StockistConfig{Threshold: 0.6})
		assert.Equal(t, 0.6, m.Threshold())
	})
}

func TestStockistMatcherMatch(t *testing.T) {
	collector := NewCollector()
	m, set := newTestStockistMatcher(t, StockistConfig{Sink: collector})

	t.Run("fuzzy match through spelling and stop words", func(t *testing.T) {
		result, err := m.Match("Dhanvantri_Jan2024_Statement.pdf", set)
		require.NoError(t, err)

		assert.True(t, result.Accepted)
		assert.Equal(t, "ST045", result.Code)
		assert.Equal(t, domain.StrategyFuzzy, result.Strategy)
		// 0.4 * 20/21 whole-name similarity + 0.2 * 0.2 spelling bonus
		assert.InDelta(t, 0.4*20.0/21.0+0.04, result.Score, 1e-9)
	})

	t.Run("exact code short-circuits", func(t *testing.T) {
		for _, name := range []string{"st045_march.pdf", "zzz qqq ST045 totally unrelated.csv"} {
			result, err := m.Match(name, set)
			require.NoError(t, err)
			assert.True(t, result.Accepted, name)
			assert.Equal(t, "ST045", result.Code)
			assert.Equal(t, 1.0, result.Score)
			assert.Equal(t, domain.StrategyExact, result.Strategy)
		}
	})

	t.Run("exact code made of digits or separated words", func(t *testing.T) {
		m := NewStockistMatcher(StockistConfig{})
		set, err := m.Prepare([]domain.Stockist{
			{Code: "1042", Name: "Shree Balaji Medical Agencies"},
			{Code: "ST-045", Name: "DHANVANTARI ENTERPRISES"},
			{Code: "MH 12", Name: "Sai Pharma Distributors"},
		})
		require.NoError(t, err)

		cases := []struct {
			filename string
			code     string
		}{
			{"1042_statement.pdf", "1042"},
			{"ST-045_statement.pdf", "ST-045"},
			{"MH 12.csv", "MH 12"},
			{"IMG_1042_01-03-2024.jpg", "1042"},
		}
		for _, tc := range cases {
			t.Run(tc.filename, func(t *testing.T) {
				result, err := m.Match(tc.filename, set)
				require.NoError(t, err)
				assert.True(t, result.Accepted)
				assert.Equal(t, tc.code, result.Code)
				assert.Equal(t, 1.0, result.Score)
				assert.Equal(t, domain.StrategyExact, result.Strategy)
			})
		}
	})

	t.Run("digits inside a longer number are not a code", func(t *testing.T) {
		m := NewStockistMatcher(StockistConfig{})
		set, err := m.Prepare([]domain.Stockist{{Code: "1042", Name: "Shree Balaji Medical Agencies"}})
		require.NoError(t, err)

		result, err := m.Match("510420.pdf", set)
		require.NoError(t, err)
		assert.False(t, result.Accepted)
		assert.Equal(t, domain.ReasonTooShort, result.Reason)
	})

	t.Run("too short after cleaning", func(t *testing.T) {
		collector.Reset()
		result, err := m.Match("IMG_01.jpg", set)
		require.NoError(t, err)

		assert.False(t, result.Accepted)
		assert.Equal(t, domain.ReasonTooShort, result.Reason)
		assert.Empty(t, result.TopCandidates)

		rejections := collector.Rejections()
		require.Len(t, rejections, 1)
		assert.Equal(t, domain.ReasonTooShort, rejections[0].Reason)
		assert.Empty(t, rejections[0].Candidates)
	})

	t.Run("city with a distinctive name word", func(t *testing.T) {
		result, err := m.Match("Balaji Nagpur.pdf", set)
		require.NoError(t, err)

		assert.True(t, result.Accepted)
		assert.Equal(t, "ST001", result.Code)
		assert.Equal(t, domain.StrategyCity, result.Strategy)
		assert.Equal(t, DefaultCityScore, result.Score)
	})

	t.Run("city alone is not enough", func(t *testing.T) {
		result, err := m.Match("Nagpur Medicos.pdf", set)
		require.NoError(t, err)
		assert.False(t, result.Accepted)
	})

	t.Run("rejection reports top candidates by name similarity", func(t *testing.T) {
		collector.Reset()
		result, err := m.Match("Completely Unrelated Name.pdf", set)
		require.NoError(t, err)

		assert.False(t, result.Accepted)
		assert.Equal(t, domain.ReasonNoMatch, result.Reason)
		require.Len(t, result.TopCandidates, 3)
		for i := 1; i < len(result.TopCandidates); i++ {
			assert.GreaterOrEqual(t, result.TopCandidates[i-1].Score, result.TopCandidates[i].Score)
		}

		rejections := collector.Rejections()
		require.Len(t, rejections, 1)
		assert.Equal(t, MatcherStockist, rejections[0].Matcher)
		assert.Equal(t, "COMPLETELY UNRELATED NAME", rejections[0].Cleaned)
		assert.Equal(t, result.TopCandidates, rejections[0].Candidates)
	})

	t.Run("empty set is an error", func(t *testing.T) {
		_, err := m.Match("Dhanvantri.pdf", nil)
		assert.ErrorIs(t, err, domain.ErrEmptyReferenceSet)
	})
}

func TestStockistMatcherPrepare(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		_, err := NewStockistMatcher(StockistConfig{}).Prepare(nil)
		assert.ErrorIs(t, err, domain.ErrEmptyReferenceSet)
	})

	t.Run("malformed records are skipped with a note", func(t *testing.T) {
		collector := NewCollector()
		m := NewStockistMatcher(StockistConfig{Sink: collector})

		set, err := m.Prepare([]domain.Stockist{
			{Code: "", Name: "No Code Traders"},
			{Code: "X1", Name: "--"},
			{Code: "ST045", Name: "Dhanvantari Enterprises"},
			{Code: "st045", Name: "Duplicate"},
		})
		require.NoError(t, err)

		assert.Equal(t, 1, set.Len())
		assert.Equal(t, "ST045", set.Stockists()[0].Code)
		assert.Len(t, collector.Notes(), 3)
	})

	t.Run("code without usable characters is skipped", func(t *testing.T) {
		collector := NewCollector()
		m := NewStockistMatcher(StockistConfig{Sink: collector})

		set, err := m.Prepare([]domain.Stockist{
			{Code: "-", Name: "Junk Record"},
			{Code: ".", Name: "Another Junk Record"},
			{Code: "ST045", Name: "DHANVANTARI ENTERPRISES"},
			{Code: "ST102", Name: "Sai Pharma Distributors", City: "Mumbai"},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, set.Len())

		notes := collector.Notes()
		require.Len(t, notes, 2)
		assert.Equal(t, "-", notes[0].Code)
		assert.Contains(t, notes[0].Reason, "no usable characters")

		result, err := m.Match("Sai_Medicals_Statement.pdf", set)
		require.NoError(t, err)
		assert.NotEqual(t, domain.StrategyExact, result.Strategy)
		assert.NotEqual(t, "-", result.Code)
		assert.Less(t, result.Score, 1.0)
	})

	t.Run("only malformed records", func(t *testing.T) {
		_, err := NewStockistMatcher(StockistConfig{}).Prepare([]domain.Stockist{{Name: "No Code"}})
		assert.ErrorIs(t, err, domain.ErrEmptyReferenceSet)
	})
}

func TestStockistMatcherSuggest(t *testing.T) {
	m, set := newTestStockistMatcher(t, StockistConfig{})

	t.Run("ranks by name similarity", func(t *testing.T) {
		suggestions, err := m.Suggest("Dhanvantri.pdf", set, 2)
		require.NoError(t, err)
		require.Len(t, suggestions, 2)
		assert.Equal(t, "ST045", suggestions[0].Code)
	})

	t.Run("default count is capped by set size", func(t *testing.T) {
		suggestions, err := m.Suggest("Dhanvantri.pdf", set, 0)
		require.NoError(t, err)
		assert.Len(t, suggestions, 3)
	})

	t.Run("too short yields nothing", func(t *testing.T) {
		suggestions, err := m.Suggest("01.pdf", set, 5)
		require.NoError(t, err)
		assert.Empty(t, suggestions)
	})
}

func TestStockistMatcherDeterminism(t *testing.T) {
	m, set := newTestStockistMatcher(t, StockistConfig{})

	for _, name := range []string{"Dhanvantri_Jan2024_Statement.pdf", "Balaji Nagpur.pdf", "Sai Agencies.pdf", "unknown.pdf"} {
		first, err := m.Match(name, set)
		require.NoError(t, err)
		for i := 0; i < 10; i++ {
			again, err := m.Match(name, set)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	}
}

func TestStockistMatcherThresholdMonotonicity(t *testing.T) {
	filenames := []string{
		"Dhanvantri_Jan2024_Statement.pdf",
		"Balaji Nagpur.pdf",
		"Sai Agencies.pdf",
		"Shree Balaji.pdf",
		"Completely Unrelated Name.pdf",
	}
	thresholds := []float64{0.1, 0.3, 0.4, 0.5, 0.7, 0.9, 1.0}

	for _, name := range filenames {
		var previous *bool
		for _, threshold := range thresholds {
			m, set := newTestStockistMatcher(t, StockistConfig{Threshold: threshold})
			result, err := m.Match(name, set)
			require.NoError(t, err)

			if previous != nil && !*previous {
				assert.False(t, result.Accepted, "%s accepted at %.2f after rejection at a lower threshold", name, threshold)
			}
			accepted := result.Accepted
			previous = &accepted
		}
	}
}
