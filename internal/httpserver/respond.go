package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/flash"
	"github.com/Skotchmaster/storefront/internal/identity"
	"github.com/Skotchmaster/storefront/internal/middleware/csrf"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/util"
)

// render writes a page view-model with the shared page context: pending
// flash messages, the current user and the csrf token when present.
func render(c echo.Context, status int, data echo.Map) error {
	data["messages"] = flash.Pop(c)

	if id, ok := identity.FromContext(c.Request().Context()); ok {
		data["user"] = echo.Map{
			"id":       id.UserID,
			"username": id.Username,
			"is_admin": id.IsAdmin(),
		}
	} else {
		data["user"] = nil
	}

	if tok, ok := c.Get(csrf.ContextKey).(string); ok {
		data["csrf_token"] = tok
	}
	return c.JSON(status, data)
}

func seeOther(c echo.Context, to string) error {
	return c.Redirect(http.StatusSeeOther, to)
}

func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func pageParams(c echo.Context) (page, size, offset, limit int) {
	page = util.ParseIntDefault(c.QueryParam("page"), 1)
	size = util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	page, size = util.Normalize(page, size)
	offset, limit = util.Calculate(page, size)
	return page, size, offset, limit
}

// safeNext accepts only local absolute paths.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

// apiError maps service errors onto JSON HTTP errors for the admin API.
func apiError(l *slog.Logger, event string, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", 400, "reason", "validation failed", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", 404, "reason", "not found", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrConflict):
		l.Warn(event, "status", 409, "reason", "conflict", "error", err)
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		l.Error(event, "status", 500, "reason", "internal error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
