package service

import (
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/models"
)

// CartTotal sums price × quantity over items with a loaded product.
func CartTotal(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		if it.Product == nil {
			continue
		}
		total = total.Add(it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// OrderTotal uses the snapshot prices stored on the order lines.
func OrderTotal(items []models.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}
