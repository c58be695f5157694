package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type OrderService struct {
	Repo   *repo.GormRepo
	Events Publisher
}

// Checkout converts the cart into an order. ErrEmptyCart when there is
// nothing to buy.
func (s *OrderService) Checkout(ctx context.Context, userID uint) (*models.Order, error) {
	order, err := s.Repo.Checkout(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrEmptyCart) {
			return nil, fmt.Errorf("user %d: %w", userID, ErrEmptyCart)
		}
		return nil, err
	}

	lines := make([]map[string]any, 0, len(order.Items))
	for _, it := range order.Items {
		lines = append(lines, map[string]any{
			"productID": it.ProductID,
			"quantity":  it.Quantity,
			"price":     transport.Money(it.Price),
		})
	}
	publish(ctx, s.Events, TopicOrderEvents, userID, map[string]any{
		"type":    "order_created",
		"userID":  userID,
		"orderID": order.ID,
		"total":   transport.Money(OrderTotal(order.Items)),
		"items":   lines,
	})
	return order, nil
}

func (s *OrderService) History(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.Repo.ListOrders(ctx, userID)
}

// Detail hides orders of other users behind ErrNotFound.
func (s *OrderService) Detail(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, userID, orderID)
	if err != nil {
		return nil, notFound(err, "order")
	}
	return order, nil
}
