package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/flash"
	"github.com/Skotchmaster/storefront/internal/identity"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type CartHTTP struct {
	Svc    *service.CartService
	Orders *service.OrderService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_cart")

	id, _ := identity.FromContext(ctx)
	contents, err := h.Svc.GetCart(ctx, id.UserID)
	if err != nil {
		l.Error("get_cart_error", "status", 500, "user_id", id.UserID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load cart")
	}

	return render(c, http.StatusOK, echo.Map{
		"cart": transport.Cart(contents.Cart, contents.Items, contents.Total),
	})
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_to_cart")

	id, _ := identity.FromContext(ctx)
	productID, ok := parseID(c.Param("product_id"))
	if !ok {
		flash.Error(c, "Товар не найден.")
		return seeOther(c, "/")
	}

	item, created, err := h.Svc.AddToCart(ctx, id.UserID, productID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("add_to_cart_error", "status", 404, "product_id", productID)
			flash.Error(c, "Товар не найден.")
			return seeOther(c, "/")
		}
		l.Error("add_to_cart_error", "status", 500, "product_id", productID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot add to cart")
	}

	name := ""
	if item.Product != nil {
		name = item.Product.Name
	}
	if created {
		flash.Success(c, fmt.Sprintf("Товар \"%s\" добавлен в корзину.", name))
	} else {
		flash.Success(c, fmt.Sprintf("Количество товара \"%s\" увеличено на 1.", name))
	}

	l.Info("add_to_cart_success", "product_id", productID, "quantity", item.Quantity)
	return seeOther(c, "/cart/")
}

func (h *CartHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.checkout")

	id, _ := identity.FromContext(ctx)
	order, err := h.Orders.Checkout(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			l.Info("checkout_rejected", "reason", "empty cart", "user_id", id.UserID)
			flash.Error(c, "Корзина пуста.")
			return seeOther(c, "/cart/")
		}
		l.Error("checkout_error", "status", 500, "user_id", id.UserID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "checkout failed")
	}

	l.Info("checkout_success", "order_id", order.ID, "items", len(order.Items))
	flash.Success(c, fmt.Sprintf("Ваш заказ №%d успешно оформлен!", order.ID))
	return seeOther(c, "/order-history/")
}
