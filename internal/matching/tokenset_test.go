package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenSetJaccard(t *testing.T) {
	sets := []TokenSet{
		{},
		NewTokenSet("DOLO"),
		NewTokenSet("DOLO", "TAB"),
		NewTokenSet("DOLO", "650", "TAB"),
		NewTokenSet("CROCIN", "TAB"),
		NewTokenSet("BETADINE", "GARGLE"),
	}

	t.Run("symmetric", func(t *testing.T) {
		for _, a := range sets {
			for _, b := range sets {
				assert.Equal(t, a.Jaccard(b), b.Jaccard(a), "%v vs %v", a, b)
			}
		}
	})

	t.Run("values", func(t *testing.T) {
		assert.Equal(t, 1.0, sets[2].Jaccard(sets[2]))
		assert.InDelta(t, 2.0/3.0, sets[2].Jaccard(sets[3]), 1e-12)
		assert.InDelta(t, 1.0/3.0, sets[2].Jaccard(sets[4]), 1e-12)
		assert.Equal(t, 0.0, sets[2].Jaccard(sets[5]))
	})

	t.Run("empty side is zero", func(t *testing.T) {
		assert.Equal(t, 0.0, sets[0].Jaccard(sets[1]))
		assert.Equal(t, 0.0, sets[0].Jaccard(sets[0]))
	})
}

func TestTokenSet(t *testing.T) {
	s := NewTokenSet("B", "A", "", "B")

	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has("A"))
	assert.False(t, s.Has(""))
	assert.Equal(t, "{A B}", s.String())
	assert.True(t, s.Equal(NewTokenSet("A", "B")))
	assert.False(t, s.Equal(NewTokenSet("A", "C")))
	assert.Equal(t, []string{"A"}, s.Intersect(NewTokenSet("A", "C")))
}
