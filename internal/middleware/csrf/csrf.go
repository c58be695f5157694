// Package csrf protects form posts with a double-submit cookie: the token is
// issued in a readable cookie and every unsafe request must send it back in
// a header or a form field.
package csrf

import (
	"crypto/rand"
	"crypto/subtle"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// ContextKey holds the current token for handlers that render forms.
const ContextKey = "csrf_token"

type Config struct {
	CookieName string
	HeaderName string
	FormField  string
	Secure     bool
	MaxAge     time.Duration

	// EnforceSameOrigin also requires Origin (or Referer) to match the host.
	EnforceSameOrigin bool
	SkipPaths         []string
}

func DefaultConfig() Config {
	return Config{
		CookieName:        "XSRF-TOKEN",
		HeaderName:        "X-CSRF-Token",
		FormField:         "csrf_token",
		MaxAge:            24 * time.Hour,
		EnforceSameOrigin: true,
	}
}

func (cfg Config) withDefaults() Config {
	def := DefaultConfig()
	if cfg.CookieName == "" {
		cfg.CookieName = def.CookieName
	}
	if cfg.HeaderName == "" {
		cfg.HeaderName = def.HeaderName
	}
	if cfg.FormField == "" {
		cfg.FormField = def.FormField
	}
	if cfg.MaxAge == 0 {
		cfg.MaxAge = def.MaxAge
	}
	return cfg
}

type guard struct {
	cfg  Config
	skip map[string]bool
}

func Middleware(cfg Config) echo.MiddlewareFunc {
	g := &guard{cfg: cfg.withDefaults(), skip: map[string]bool{}}
	for _, p := range cfg.SkipPaths {
		g.skip[p] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if g.skip[c.Request().URL.Path] {
				return next(c)
			}

			token := g.issue(c)
			if isSafe(c.Request().Method) {
				c.Response().Header().Set(g.cfg.HeaderName, token)
				return next(c)
			}
			if err := g.verify(c, token); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// issue reuses the cookie token or mints a new one, and refreshes the cookie.
func (g *guard) issue(c echo.Context) string {
	token := ""
	if ck, err := c.Cookie(g.cfg.CookieName); err == nil {
		token = ck.Value
	}
	if token == "" {
		token = rand.Text()
	}

	c.SetCookie(&http.Cookie{
		Name:     g.cfg.CookieName,
		Value:    token,
		Path:     "/",
		Secure:   g.cfg.Secure,
		MaxAge:   int(g.cfg.MaxAge.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
	c.Set(ContextKey, token)
	return token
}

func (g *guard) verify(c echo.Context, token string) error {
	if g.cfg.EnforceSameOrigin && !sameOrigin(c) {
		return echo.NewHTTPError(http.StatusForbidden, "invalid origin")
	}

	sent := c.Request().Header.Get(g.cfg.HeaderName)
	if sent == "" {
		sent = c.FormValue(g.cfg.FormField)
	}
	if !secureCompare(token, sent) {
		return echo.NewHTTPError(http.StatusForbidden, "invalid CSRF token")
	}
	return nil
}

func isSafe(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func secureCompare(a, b string) bool {
	if a == "" || len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func sameOrigin(c echo.Context) bool {
	req := c.Request()
	origin := req.Header.Get(echo.HeaderOrigin)
	if origin == "" {
		origin = req.Referer()
	}
	if origin == "" {
		return false
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Scheme, c.Scheme()) && strings.EqualFold(u.Host, req.Host)
}
