package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) Index(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.index")

	page, size, offset, limit := pageParams(c)
	total, items, err := h.Svc.GetProducts(ctx, offset, limit)
	if err != nil {
		l.Error("get_products_error", "status", 500, "reason", "cannot list products", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list products")
	}

	return render(c, http.StatusOK, echo.Map{
		"products": transport.Products(items),
		"meta":     transport.NewMeta(page, size, total),
	})
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_product")

	id, ok := parseID(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	p, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("get_product_error", "status", 404, "product_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("get_product_error", "status", 500, "reason", "cannot load product", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load product")
	}

	return render(c, http.StatusOK, echo.Map{"product": transport.Product(*p)})
}

func (h *CatalogHTTP) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list_categories")

	cats, err := h.Svc.GetCategories(ctx)
	if err != nil {
		l.Error("list_categories_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list categories")
	}
	return render(c, http.StatusOK, echo.Map{"categories": transport.Categories(cats)})
}

func (h *CatalogHTTP) ProductsByCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.products_by_category")

	id, ok := parseID(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "category not found")
	}

	page, size, offset, limit := pageParams(c)
	cat, total, items, err := h.Svc.ProductsByCategory(ctx, id, offset, limit)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("products_by_category_error", "status", 404, "category_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "category not found")
		}
		l.Error("products_by_category_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list products")
	}

	return render(c, http.StatusOK, echo.Map{
		"category": transport.Category(*cat),
		"products": transport.Products(items),
		"meta":     transport.NewMeta(page, size, total),
	})
}

func (h *CatalogHTTP) ListBrands(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list_brands")

	brands, err := h.Svc.GetBrands(ctx)
	if err != nil {
		l.Error("list_brands_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list brands")
	}
	return render(c, http.StatusOK, echo.Map{"brands": transport.Brands(brands)})
}

func (h *CatalogHTTP) ProductsByBrand(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.products_by_brand")

	id, ok := parseID(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "brand not found")
	}

	page, size, offset, limit := pageParams(c)
	brand, total, items, err := h.Svc.ProductsByBrand(ctx, id, offset, limit)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("products_by_brand_error", "status", 404, "brand_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "brand not found")
		}
		l.Error("products_by_brand_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list products")
	}

	return render(c, http.StatusOK, echo.Map{
		"brand":    transport.Brand(*brand),
		"products": transport.Products(items),
		"meta":     transport.NewMeta(page, size, total),
	})
}

func (h *CatalogHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.search")

	q := strings.TrimSpace(c.QueryParam("q"))
	page, size, offset, limit := pageParams(c)

	total, items, err := h.Svc.SearchProducts(ctx, q, offset, limit)
	if err != nil {
		l.Error("search_error", "status", 500, "query", q, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}

	return render(c, http.StatusOK, echo.Map{
		"query":    q,
		"products": transport.Products(items),
		"meta":     transport.NewMeta(page, size, total),
	})
}
