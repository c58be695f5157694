package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Skotchmaster/storefront/internal/models"
)

func TestCartTotal(t *testing.T) {
	t.Parallel()

	d := decimal.RequireFromString
	tests := []struct {
		name  string
		items []models.CartItem
		want  string
	}{
		{"empty", nil, "0"},
		{"two lines", []models.CartItem{
			{Quantity: 2, Product: &models.Product{Price: d("10.00")}},
			{Quantity: 1, Product: &models.Product{Price: d("5.00")}},
		}, "25.00"},
		{"cents do not drift", []models.CartItem{
			{Quantity: 3, Product: &models.Product{Price: d("0.10")}},
			{Quantity: 1, Product: &models.Product{Price: d("0.20")}},
		}, "0.50"},
		{"missing product skipped", []models.CartItem{
			{Quantity: 4},
			{Quantity: 1, Product: &models.Product{Price: d("1.99")}},
		}, "1.99"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := CartTotal(tt.items)
			assert.True(t, got.Equal(d(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestOrderTotalUsesSnapshotPrice(t *testing.T) {
	t.Parallel()

	items := []models.OrderItem{
		{Quantity: 2, Price: decimal.RequireFromString("10.00"), Product: &models.Product{Price: decimal.RequireFromString("99.00")}},
		{Quantity: 1, Price: decimal.RequireFromString("5.00")},
	}
	assert.Equal(t, "25.00", OrderTotal(items).StringFixed(2))
}
