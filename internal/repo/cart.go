package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/storefront/internal/models"
)

// getOrCreateCart relies on the unique index on carts.user_id, so two
// concurrent callers end up reading the same row.
func getOrCreateCart(tx *gorm.DB, userID uint) (*models.Cart, error) {
	fresh := models.Cart{UserID: userID}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&fresh).Error; err != nil {
		return nil, err
	}

	var cart models.Cart
	if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *GormRepo) GetOrCreateCart(ctx context.Context, userID uint) (*models.Cart, error) {
	return getOrCreateCart(r.DB.WithContext(ctx), userID)
}

// AddToCart inserts the item with quantity 1 or bumps the existing row in a
// single statement. created reports whether the row is new.
func (r *GormRepo) AddToCart(ctx context.Context, userID, productID uint) (*models.CartItem, bool, error) {
	var item models.CartItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prod models.Product
		if err := tx.Select("id").First(&prod, productID).Error; err != nil {
			return err
		}

		cart, err := getOrCreateCart(tx, userID)
		if err != nil {
			return err
		}
		// Same lock as Checkout: an add never lands between its read and delete.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&models.Cart{}, cart.ID).Error; err != nil {
			return err
		}

		row := models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: 1}
		if err := tx.Omit("Product").Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity": gorm.Expr("cart_items.quantity + ?", 1),
			}),
		}).Create(&row).Error; err != nil {
			return err
		}

		return tx.Preload("Product").
			Where("cart_id = ? AND product_id = ?", cart.ID, productID).
			First(&item).Error
	})
	if err != nil {
		return nil, false, err
	}
	return &item, item.Quantity == 1, nil
}

func (r *GormRepo) GetCartItems(ctx context.Context, cartID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.DB.WithContext(ctx).
		Preload("Product").
		Where("cart_id = ?", cartID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
