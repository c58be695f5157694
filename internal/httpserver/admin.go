package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type AdminHTTP struct {
	Svc *service.CatalogService
}

func (h *AdminHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.create_category")

	var req transport.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("category_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	cat, err := h.Svc.CreateCategory(ctx, req)
	if err != nil {
		return apiError(l, "category_create_error", err)
	}
	l.Info("create_category_success", "category_id", cat.ID)
	return c.JSON(http.StatusCreated, transport.Category(*cat))
}

func (h *AdminHTTP) CreateBrand(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.create_brand")

	var req transport.CreateBrandRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("brand_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	brand, err := h.Svc.CreateBrand(ctx, req)
	if err != nil {
		return apiError(l, "brand_create_error", err)
	}
	l.Info("create_brand_success", "brand_id", brand.ID)
	return c.JSON(http.StatusCreated, transport.Brand(*brand))
}

func (h *AdminHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.create_product")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	prod, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		return apiError(l, "product_create_error", err)
	}
	l.Info("create_product_success", "product_id", prod.ID)
	return c.JSON(http.StatusCreated, transport.Product(*prod))
}

func (h *AdminHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.patch_product")

	id, ok := parseID(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a positive integer")
	}

	var req transport.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_patch_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	prod, err := h.Svc.PatchProduct(ctx, id, req)
	if err != nil {
		return apiError(l, "product_patch_error", err)
	}
	l.Info("patch_product_success", "product_id", prod.ID)
	return c.JSON(http.StatusOK, transport.Product(*prod))
}

func (h *AdminHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_product")

	id, ok := parseID(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a positive integer")
	}

	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		return apiError(l, "product_delete_error", err)
	}
	l.Info("delete_product_success", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}
