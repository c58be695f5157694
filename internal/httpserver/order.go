package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/flash"
	"github.com/Skotchmaster/storefront/internal/identity"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) History(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.history")

	id, _ := identity.FromContext(ctx)
	orders, err := h.Svc.History(ctx, id.UserID)
	if err != nil {
		l.Error("order_history_error", "status", 500, "user_id", id.UserID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load orders")
	}

	views := make([]transport.OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, transport.Order(o, service.OrderTotal(o.Items)))
	}
	return render(c, http.StatusOK, echo.Map{"orders": views})
}

func (h *OrderHTTP) Detail(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.detail")

	id, _ := identity.FromContext(ctx)
	orderID, ok := parseID(c.Param("id"))
	if !ok {
		flash.Error(c, "Заказ не найден.")
		return seeOther(c, "/order-history/")
	}

	order, err := h.Svc.Detail(ctx, id.UserID, orderID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("order_detail_error", "status", 404, "order_id", orderID, "user_id", id.UserID)
			flash.Error(c, "Заказ не найден.")
			return seeOther(c, "/order-history/")
		}
		l.Error("order_detail_error", "status", 500, "order_id", orderID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load order")
	}

	return render(c, http.StatusOK, echo.Map{
		"order": transport.Order(*order, service.OrderTotal(order.Items)),
	})
}
