package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/db"
	authmw "github.com/Skotchmaster/storefront/internal/middleware/auth"
	"github.com/Skotchmaster/storefront/internal/middleware/csrf"
	loggingmw "github.com/Skotchmaster/storefront/internal/middleware/logging"
)

type Deps struct {
	DB     *gorm.DB
	Logger *slog.Logger

	Catalog *CatalogHTTP
	Cart    *CartHTTP
	Orders  *OrderHTTP
	Auth    *AuthHTTP
	Admin   *AdminHTTP

	Session *authmw.Session
	// CSRF is nil when protection is disabled.
	CSRF *csrf.Config
}

func Register(e *echo.Echo, d *Deps) {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(d.Session.Load)

	var forms []echo.MiddlewareFunc
	if d.CSRF != nil {
		forms = append(forms, csrf.Middleware(*d.CSRF))
	}

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.DB == nil {
			return c.NoContent(http.StatusOK)
		}
		if err := db.Ping(c.Request().Context(), d.DB); err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
		}
		return c.NoContent(http.StatusOK)
	})

	e.GET("/", d.Catalog.Index, forms...)
	e.GET("/product/:id", d.Catalog.GetProduct, forms...)
	e.GET("/categories", d.Catalog.ListCategories)
	e.GET("/categories/:id", d.Catalog.ProductsByCategory)
	e.GET("/brands", d.Catalog.ListBrands)
	e.GET("/brands/:id", d.Catalog.ProductsByBrand)
	e.GET("/search", d.Catalog.Search)

	e.GET("/register", d.Auth.RegisterForm, forms...)
	e.POST("/register", d.Auth.Register, forms...)
	e.GET("/login", d.Auth.LoginForm, forms...)
	e.POST("/login", d.Auth.Login, forms...)
	e.GET("/logout", d.Auth.Logout)

	protected := append([]echo.MiddlewareFunc{d.Session.RequireLogin}, forms...)

	cart := e.Group("/cart", protected...)
	cart.GET("", d.Cart.GetCart)
	cart.POST("/add/:product_id", d.Cart.AddToCart)
	cart.POST("/checkout", d.Cart.Checkout)

	e.GET("/order-history", d.Orders.History, protected...)
	e.GET("/order/:id", d.Orders.Detail, protected...)

	adminMW := append([]echo.MiddlewareFunc{d.Session.RequireAdmin}, forms...)
	admin := e.Group("/admin", adminMW...)
	admin.POST("/categories", d.Admin.CreateCategory)
	admin.POST("/brands", d.Admin.CreateBrand)
	admin.POST("/products", d.Admin.CreateProduct)
	admin.PATCH("/products/:id", d.Admin.PatchProduct)
	admin.DELETE("/products/:id", d.Admin.DeleteProduct)
}
