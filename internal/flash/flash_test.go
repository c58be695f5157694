package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddThenPop(t *testing.T) {
	t.Parallel()
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/cart/checkout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	Error(c, "Корзина пуста.")
	Success(c, "second")

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	last := cookies[len(cookies)-1]
	assert.Equal(t, CookieName, last.Name)

	req2 := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req2.AddCookie(last)
	rec2 := httptest.NewRecorder()
	c2 := e.NewContext(req2, rec2)

	msgs := Pop(c2)
	require.Len(t, msgs, 2)
	assert.Equal(t, Message{Level: LevelError, Text: "Корзина пуста."}, msgs[0])
	assert.Equal(t, LevelSuccess, msgs[1].Level)

	cleared := rec2.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)
}

func TestPopWithoutCookie(t *testing.T) {
	t.Parallel()
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Empty(t, Pop(c))
	assert.NotNil(t, Pop(c))
}

func TestPopIgnoresGarbage(t *testing.T) {
	t.Parallel()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "%%%"})
	c := e.NewContext(req, httptest.NewRecorder())
	assert.Empty(t, Pop(c))
}
