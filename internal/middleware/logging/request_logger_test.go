package loggingmw

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/identity"
	"github.com/Skotchmaster/storefront/internal/logging"
)

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestRequestLoggerInjectsLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogger(logging.NewWithWriter(&buf, "info")))
	e.GET("/product/:id", func(c echo.Context) error {
		logging.FromContext(c.Request().Context()).Info("inside_handler")
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/product/7", nil)
	req.Header.Set(echo.HeaderXRequestID, "rid-1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rid-1", rec.Header().Get(echo.HeaderXRequestID))

	lines := logLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "inside_handler", lines[0]["msg"])
	assert.Equal(t, "rid-1", lines[0]["request_id"])
	assert.Equal(t, "/product/:id", lines[0]["route"])

	assert.Equal(t, "http_request", lines[1]["msg"])
	assert.EqualValues(t, 200, lines[1]["status"])
	assert.Equal(t, "/product/7", lines[1]["url"])
	assert.NotContains(t, lines[1], "user_id")
}

func TestRequestLoggerHandlesErrors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogger(logging.NewWithWriter(&buf, "info")))
	e.GET("/order/:id", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "nope")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/order/1", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	lines := logLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "WARN", lines[0]["level"])
	assert.EqualValues(t, 404, lines[0]["status"])
	assert.Contains(t, lines[0]["error"], "nope")
}

func TestRequestLoggerRecordsUser(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogger(logging.NewWithWriter(&buf, "info")))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := identity.IntoContext(c.Request().Context(), identity.Identity{UserID: 42, Role: "user"})
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})
	e.GET("/cart", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/cart", nil))

	lines := logLines(t, &buf)
	require.Len(t, lines, 1)
	assert.EqualValues(t, 42, lines[0]["user_id"])
}

func TestLevelFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelDebug, levelFor("/health/live", 200))
	assert.Equal(t, slog.LevelError, levelFor("/health/ready", 503))
	assert.Equal(t, slog.LevelInfo, levelFor("/cart", 303))
	assert.Equal(t, slog.LevelWarn, levelFor("/cart/add/9", 403))
	assert.Equal(t, slog.LevelError, levelFor("/", 500))
}
