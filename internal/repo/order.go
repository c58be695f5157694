package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/storefront/internal/models"
)

// Checkout turns the user's cart into an order and empties the cart in one
// transaction. The cart row is locked so parallel checkouts serialize.
func (r *GormRepo) Checkout(ctx context.Context, userID uint) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEmptyCart
			}
			return err
		}

		var items []models.CartItem
		if err := tx.Preload("Product").
			Where("cart_id = ?", cart.ID).
			Order("id ASC").
			Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		cartID := cart.ID
		order = models.Order{UserID: userID, CartID: &cartID}
		if err := tx.Omit("User", "Cart", "Items").Create(&order).Error; err != nil {
			return err
		}

		lines := make([]models.OrderItem, 0, len(items))
		copied := make([]uint, 0, len(items))
		for _, it := range items {
			if it.Product == nil {
				return fmt.Errorf("cart item %d: product %d missing", it.ID, it.ProductID)
			}
			lines = append(lines, models.OrderItem{
				OrderID:   order.ID,
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				Price:     it.Product.Price,
			})
			copied = append(copied, it.ID)
		}
		if err := tx.Omit("Product").Create(&lines).Error; err != nil {
			return err
		}

		// Only the rows that became order lines; anything added meanwhile stays.
		if err := tx.Where("cart_id = ? AND id IN ?", cart.ID, copied).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		for i := range lines {
			lines[i].Product = items[i].Product
		}
		order.Items = lines
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id ASC") }).
		Preload("Items.Product")
}

func (r *GormRepo) ListOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := withItems(r.DB.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder scopes the lookup to the owner; a foreign order is not found.
func (r *GormRepo) GetOrder(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := withItems(r.DB.WithContext(ctx)).
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}
