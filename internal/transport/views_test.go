package transport

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
)

func TestNewMeta(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		page, size int
		total      int64
		wantPages  int64
		prev, next bool
	}{
		{"empty", 1, 20, 0, 0, false, false},
		{"single page", 1, 20, 20, 1, false, false},
		{"first of many", 1, 20, 41, 3, false, true},
		{"middle", 2, 20, 41, 3, true, true},
		{"last", 3, 20, 41, 3, true, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := NewMeta(tt.page, tt.size, tt.total)
			assert.Equal(t, tt.wantPages, m.TotalPages)
			assert.Equal(t, tt.prev, m.HasPrev)
			assert.Equal(t, tt.next, m.HasNext)
		})
	}
}

func TestCartView(t *testing.T) {
	t.Parallel()

	items := []models.CartItem{
		{ID: 1, Quantity: 2, Product: &models.Product{ID: 5, Name: "Pen", Price: decimal.RequireFromString("1.5")}},
	}
	v := Cart(models.Cart{ID: 3}, items, decimal.RequireFromString("3"))

	assert.Equal(t, uint(3), v.ID)
	assert.Equal(t, "3.00", v.TotalCost)
	require.Len(t, v.Items, 1)
	assert.Equal(t, "1.50", v.Items[0].Product.Price)
	assert.Equal(t, "3.00", v.Items[0].LineTotal)

	empty := Cart(models.Cart{ID: 4}, nil, decimal.Zero)
	assert.NotNil(t, empty.Items)
	assert.Equal(t, "0.00", empty.TotalCost)
}

func TestOrderViewUsesSnapshotPrice(t *testing.T) {
	t.Parallel()

	o := models.Order{ID: 9, Items: []models.OrderItem{{
		ProductID: 5,
		Quantity:  3,
		Price:     decimal.RequireFromString("2.00"),
		Product:   &models.Product{Name: "Pen", Price: decimal.RequireFromString("7.00")},
	}}}
	v := Order(o, decimal.RequireFromString("6"))

	require.Len(t, v.Items, 1)
	assert.Equal(t, "Pen", v.Items[0].ProductName)
	assert.Equal(t, "2.00", v.Items[0].Price)
	assert.Equal(t, "6.00", v.Items[0].LineTotal)
	assert.Equal(t, "6.00", v.Total)
}
