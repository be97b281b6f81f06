package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatementCalculateTotals(t *testing.T) {
	s := &Statement{
		Items: []StatementItem{
			{ProductCode: "P001", OpeningQty: 10, PurchaseQty: 20, SalesQty: 12, FreeQty: 2, ReturnQty: 1, MiscOutQty: 1, PTS: 100},
			{ProductCode: "P002", OpeningQty: 5, SalesQty: 5, PTS: 10},
			{ProductCode: "", OpeningQty: 99, PTS: 1000},
		},
	}

	s.CalculateTotals()

	t.Run("closing quantity and value per line", func(t *testing.T) {
		assert.Equal(t, 14.0, s.Items[0].ClosingQty)
		assert.Equal(t, 1400.0, s.Items[0].ClosingValue)
		assert.Equal(t, 0.0, s.Items[1].ClosingQty)
	})

	t.Run("unmatched lines are ignored", func(t *testing.T) {
		assert.Equal(t, 0.0, s.Items[2].ClosingQty)
		assert.Equal(t, 0.0, s.Items[2].ClosingValue)
	})

	t.Run("totals priced at PTS", func(t *testing.T) {
		assert.Equal(t, 1050.0, s.TotalOpeningValue)
		assert.Equal(t, 2000.0, s.TotalPurchaseValue)
		assert.Equal(t, 1250.0, s.TotalSalesValue)
		assert.Equal(t, 200.0, s.TotalFreeValue)
		assert.Equal(t, 1400.0, s.TotalClosingValue)
	})

	t.Run("recalculation is stable", func(t *testing.T) {
		s.CalculateTotals()
		assert.Equal(t, 1400.0, s.TotalClosingValue)
	})
}

func TestIsActive(t *testing.T) {
	assert.True(t, Stockist{}.IsActive())
	assert.True(t, Stockist{Status: StatusActive}.IsActive())
	assert.False(t, Stockist{Status: "Inactive"}.IsActive())
	assert.True(t, Product{Status: StatusActive}.IsActive())
	assert.False(t, Product{Status: "Discontinued"}.IsActive())
}
