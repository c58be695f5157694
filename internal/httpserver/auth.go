package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/tokens"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type AuthHTTP struct {
	Svc     *service.AuthService
	Cookies tokens.Cookies
}

func (h *AuthHTTP) RegisterForm(c echo.Context) error {
	return renderForm(c, http.StatusOK, map[string]string{"username": ""}, nil)
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, pair, err := h.Svc.Register(ctx, req)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			l.Info("register_rejected", "status", 422, "fields", len(verr.Fields))
			return renderForm(c, http.StatusUnprocessableEntity, map[string]string{"username": req.Username}, verr.Fields)
		}
		l.Error("register_error", "status", 500, "reason", "cannot create user", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create user")
	}

	h.setSession(c, pair)
	l.Info("register_success", "user_id", user.ID)
	return seeOther(c, "/")
}

func (h *AuthHTTP) LoginForm(c echo.Context) error {
	return renderForm(c, http.StatusOK, map[string]string{"username": "", "next": c.QueryParam("next")}, nil)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	next := c.QueryParam("next")
	if next == "" {
		next = c.FormValue("next")
	}

	user, pair, err := h.Svc.Login(ctx, req)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			l.Warn("login_failed", "status", 422, "reason", "invalid username or password")
			return renderForm(c, http.StatusUnprocessableEntity, map[string]string{"username": req.Username, "next": next}, verr.Fields)
		}
		l.Error("login_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}

	h.setSession(c, pair)
	l.Info("login_success", "user_id", user.ID)
	return seeOther(c, safeNext(next))
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	if ck, err := c.Cookie(tokens.RefreshCookie); err == nil {
		if err := h.Svc.Logout(ctx, ck.Value); err != nil {
			l.Error("logout_error", "status", 500, "reason", "cannot revoke refresh token", "error", err)
		}
	}
	for _, ck := range h.Cookies.Clear() {
		c.SetCookie(ck)
	}
	return seeOther(c, "/")
}

func (h *AuthHTTP) setSession(c echo.Context, pair *tokens.Pair) {
	for _, ck := range h.Cookies.Session(pair) {
		c.SetCookie(ck)
	}
}

func renderForm(c echo.Context, status int, values map[string]string, errs map[string][]string) error {
	if errs == nil {
		errs = map[string][]string{}
	}
	return render(c, status, echo.Map{
		"form": transport.FormView{Values: values, Errors: errs},
	})
}
