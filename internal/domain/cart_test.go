package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// Cart.Total Tests
// ============================================================================

func TestTotal_SingleLine(t *testing.T) {
	c := &Cart{
		Lines: []CartLine{
			{Product: Product{ID: 1, Price: 1999}, Quantity: 2},
		},
	}
	assert.Equal(t, int64(3998), c.Total())
}

func TestTotal_MultipleLines(t *testing.T) {
	c := &Cart{
		Lines: []CartLine{
			{Product: Product{ID: 1, Price: 1000}, Quantity: 2},
			{Product: Product{ID: 2, Price: 500}, Quantity: 3},
			{Product: Product{ID: 3, Price: 2500}, Quantity: 1},
		},
	}
	// 2000 + 1500 + 2500 = 6000
	assert.Equal(t, int64(6000), c.Total())
}

func TestTotal_EmptyCart(t *testing.T) {
	c := &Cart{}
	assert.Equal(t, int64(0), c.Total())
}

func TestTotal_ZeroPrice(t *testing.T) {
	c := &Cart{
		Lines: []CartLine{
			{Product: Product{ID: 1, Price: 0}, Quantity: 5},
		},
	}
	assert.Equal(t, int64(0), c.Total())
}

// ============================================================================
// Cart.TotalItems Tests
// ============================================================================

func TestTotalItems_SumsQuantitiesNotLines(t *testing.T) {
	c := &Cart{
		Lines: []CartLine{
			{Product: Product{ID: 1}, Quantity: 2},
			{Product: Product{ID: 2}, Quantity: 3},
			{Product: Product{ID: 3}, Quantity: 1},
		},
	}
	assert.Equal(t, 6, c.TotalItems())
}

func TestTotalItems_EmptyCart(t *testing.T) {
	c := &Cart{}
	assert.Equal(t, 0, c.TotalItems())
}

// ============================================================================
// Cart.FindLine Tests
// ============================================================================

func TestFindLine_Found(t *testing.T) {
	c := &Cart{
		Lines: []CartLine{
			{Product: Product{ID: 10}},
			{Product: Product{ID: 20}},
		},
	}
	assert.Equal(t, 0, c.FindLine(10))
	assert.Equal(t, 1, c.FindLine(20))
}

func TestFindLine_NotFound(t *testing.T) {
	c := &Cart{
		Lines: []CartLine{{Product: Product{ID: 10}}},
	}
	assert.Equal(t, -1, c.FindLine(999))
}

func TestFindLine_EmptyCart(t *testing.T) {
	c := &Cart{}
	assert.Equal(t, -1, c.FindLine(1))
}

// ============================================================================
// CartLine / Clone Tests
// ============================================================================

func TestCartLine_Subtotal(t *testing.T) {
	line := CartLine{Product: Product{Price: 9999}, Quantity: 3}
	assert.Equal(t, int64(29997), line.Subtotal())
}

func TestClone_Independent(t *testing.T) {
	c := &Cart{
		Lines: []CartLine{{Product: Product{ID: 1, Price: 100}, Quantity: 1}},
	}

	clone := c.Clone()
	clone.Lines[0].Quantity = 99

	assert.Equal(t, 1, c.Lines[0].Quantity)
}

func TestClone_EmptyCartHasNilLines(t *testing.T) {
	c := &Cart{}
	clone := c.Clone()
	assert.Empty(t, clone.Lines)
}
