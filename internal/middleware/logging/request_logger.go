package loggingmw

import (
	"log/slog"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/identity"
	"github.com/Skotchmaster/storefront/internal/logging"
)

// RequestLogger stores a request-scoped logger in the context and writes one
// http_request line once the final status is known.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			l := base.With("method", req.Method, "route", c.Path(), "remote_ip", c.RealIP())
			if rid := requestID(c); rid != "" {
				l = l.With("request_id", rid)
				c.Response().Header().Set(echo.HeaderXRequestID, rid)
			}
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				// commit the error response so the logged status is the one sent
				c.Error(err)
			}

			res := c.Response()
			attrs := []any{
				"url", c.Request().URL.Path,
				"status", res.Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"bytes", res.Size,
			}
			if id, ok := identity.FromContext(c.Request().Context()); ok {
				attrs = append(attrs, "user_id", id.UserID)
			}
			if err != nil {
				attrs = append(attrs, "error", err.Error())
			}
			l.Log(c.Request().Context(), levelFor(c.Request().URL.Path, res.Status), "http_request", attrs...)
			return nil
		}
	}
}

func requestID(c echo.Context) string {
	if rid := c.Request().Header.Get(echo.HeaderXRequestID); rid != "" {
		return rid
	}
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

// Health probes are only interesting when they fail.
func levelFor(path string, status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	case strings.HasPrefix(path, "/health/"):
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}
