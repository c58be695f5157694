package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
)

type CartService struct {
	Repo   *repo.GormRepo
	Events Publisher
}

type CartContents struct {
	Cart  models.Cart
	Items []models.CartItem
	Total decimal.Decimal
}

// AddToCart adds one unit of the product; created is true for a new line.
func (s *CartService) AddToCart(ctx context.Context, userID, productID uint) (*models.CartItem, bool, error) {
	item, created, err := s.Repo.AddToCart(ctx, userID, productID)
	if err != nil {
		return nil, false, notFound(err, "product")
	}

	publish(ctx, s.Events, TopicCartEvents, userID, map[string]any{
		"type":      "cart_item_added",
		"userID":    userID,
		"productID": productID,
		"quantity":  item.Quantity,
	})
	return item, created, nil
}

func (s *CartService) GetCart(ctx context.Context, userID uint) (*CartContents, error) {
	cart, err := s.Repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := s.Repo.GetCartItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	return &CartContents{Cart: *cart, Items: items, Total: CartTotal(items)}, nil
}
