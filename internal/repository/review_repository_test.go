package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAverageRating(t *testing.T) {
	t.Run("empty set clears the cache", func(t *testing.T) {
		avg, count := AverageRating(nil)
		assert.Equal(t, 0.0, avg)
		assert.Equal(t, 0, count)
	})

	t.Run("rounds to one decimal", func(t *testing.T) {
		avg, count := AverageRating([]int{5, 4, 4}) // 4.333...
		assert.Equal(t, 4.3, avg)
		assert.Equal(t, 3, count)
	})

	t.Run("rounds half up", func(t *testing.T) {
		avg, _ := AverageRating([]int{4, 5}) // 4.5 exactly
		assert.Equal(t, 4.5, avg)

		avg, _ = AverageRating([]int{3, 4, 4, 4}) // 3.75 -> 3.8
		assert.Equal(t, 3.8, avg)
	})

	t.Run("single review", func(t *testing.T) {
		avg, count := AverageRating([]int{2})
		assert.Equal(t, 2.0, avg)
		assert.Equal(t, 1, count)
	})
}

func TestHoldingStatusClause(t *testing.T) {
	clause, args := holdingStatusClause()
	assert.Equal(t, "(?,?)", clause)
	assert.Equal(t, []any{"pending", "confirmed"}, args)
}
