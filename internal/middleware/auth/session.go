package auth

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/identity"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/tokens"
)

type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*tokens.Pair, error)
}

// Session resolves the cookie session into an identity.Identity. An expired
// access token is renewed with the refresh cookie when possible.
type Session struct {
	JWTSecret []byte
	Refresher Refresher
	Cookies   tokens.Cookies
	LoginPath string
}

// Load never rejects a request; it only attaches the identity when one is found.
func (m *Session) Load(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if id, ok := m.resolve(c); ok {
			ctx := identity.IntoContext(c.Request().Context(), id)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Set("user_id", id.UserID)
			c.Set("role", id.Role)
		}
		return next(c)
	}
}

// RequireLogin sends anonymous visitors to the login page.
func (m *Session) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := identity.FromContext(c.Request().Context()); !ok {
			return c.Redirect(http.StatusSeeOther, m.loginURL(c))
		}
		return next(c)
	}
}

func (m *Session) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := identity.FromContext(c.Request().Context())
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}
		if !id.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return next(c)
	}
}

func (m *Session) resolve(c echo.Context) (identity.Identity, bool) {
	l := logging.FromContext(c.Request().Context()).With("middleware", "auth.session")

	access := cookieValue(c, tokens.AccessCookie)
	if access != "" {
		claims, err := tokens.AccessClaimsFromToken(access, m.JWTSecret)
		if err == nil {
			if id, ok := fromClaims(claims); ok {
				return id, true
			}
		}
		if err != nil && !errors.Is(err, jwt.ErrTokenExpired) {
			l.Warn("access_token_rejected", "reason", "invalid token", "error", err)
			m.clear(c)
			return identity.Identity{}, false
		}
	}

	refresh := cookieValue(c, tokens.RefreshCookie)
	if refresh == "" || m.Refresher == nil {
		return identity.Identity{}, false
	}

	pair, err := m.Refresher.Refresh(c.Request().Context(), refresh)
	if err != nil {
		l.Info("session_refresh_failed", "error", err)
		m.clear(c)
		return identity.Identity{}, false
	}
	for _, ck := range m.Cookies.Session(pair) {
		c.SetCookie(ck)
	}

	claims, err := tokens.AccessClaimsFromToken(pair.AccessToken, m.JWTSecret)
	if err != nil {
		m.clear(c)
		return identity.Identity{}, false
	}
	return fromClaims(claims)
}

func (m *Session) clear(c echo.Context) {
	for _, ck := range m.Cookies.Clear() {
		c.SetCookie(ck)
	}
}

func (m *Session) loginURL(c echo.Context) string {
	path := m.LoginPath
	if path == "" {
		path = "/login/"
	}
	req := c.Request()
	if req.Method != http.MethodGet {
		return path
	}
	return path + "?next=" + url.QueryEscape(req.URL.RequestURI())
}

func fromClaims(claims *tokens.AccessClaims) (identity.Identity, bool) {
	uid, err := claims.UserID()
	if err != nil {
		return identity.Identity{}, false
	}
	return identity.Identity{UserID: uid, Username: claims.Name, Role: claims.Role}, true
}

func cookieValue(c echo.Context, name string) string {
	ck, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return ck.Value
}
