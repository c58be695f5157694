package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/search"
	"github.com/Skotchmaster/storefront/internal/transport"
)

const maxNameLen = 100

// decimal(10,2) upper bound
var maxPrice = decimal.RequireFromString("99999999.99")

type CatalogService struct {
	Repo   *repo.GormRepo
	Search search.Engine
	Events Publisher
}

func (s *CatalogService) GetProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	return s.Repo.GetProducts(ctx, offset, limit)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	return p, nil
}

func (s *CatalogService) GetCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.GetCategories(ctx)
}

func (s *CatalogService) GetBrands(ctx context.Context) ([]models.Brand, error) {
	return s.Repo.GetBrands(ctx)
}

func (s *CatalogService) ProductsByCategory(ctx context.Context, id uint, offset, limit int) (*models.Category, int64, []models.Product, error) {
	cat, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return nil, 0, nil, notFound(err, "category")
	}
	total, items, err := s.Repo.ProductsByCategory(ctx, id, offset, limit)
	if err != nil {
		return nil, 0, nil, err
	}
	return cat, total, items, nil
}

func (s *CatalogService) ProductsByBrand(ctx context.Context, id uint, offset, limit int) (*models.Brand, int64, []models.Product, error) {
	brand, err := s.Repo.GetBrand(ctx, id)
	if err != nil {
		return nil, 0, nil, notFound(err, "brand")
	}
	total, items, err := s.Repo.ProductsByBrand(ctx, id, offset, limit)
	if err != nil {
		return nil, 0, nil, err
	}
	return brand, total, items, nil
}

// SearchProducts falls back to the database when the search engine fails.
func (s *CatalogService) SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return 0, []models.Product{}, nil
	}

	var (
		total int64
		ids   []uint
		err   error
	)
	if s.Search != nil {
		total, ids, err = s.Search.Search(ctx, q, offset, limit)
		if err != nil {
			logging.FromContext(ctx).Warn("search_engine_failed", "reason", "falling back to database", "error", err)
		}
	}
	if s.Search == nil || err != nil {
		total, ids, err = s.Repo.SearchProductIDs(ctx, q, offset, limit)
		if err != nil {
			return 0, nil, err
		}
	}

	items, err := s.Repo.ProductsByIDs(ctx, ids)
	if err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, req transport.CreateCategoryRequest) (*models.Category, error) {
	name, err := validName(req.Name)
	if err != nil {
		return nil, err
	}
	return s.Repo.CreateCategory(ctx, &models.Category{Name: name, Description: req.Description})
}

func (s *CatalogService) CreateBrand(ctx context.Context, req transport.CreateBrandRequest) (*models.Brand, error) {
	name, err := validName(req.Name)
	if err != nil {
		return nil, err
	}
	return s.Repo.CreateBrand(ctx, &models.Brand{Name: name, Description: req.Description})
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	name, err := validName(req.Name)
	if err != nil {
		return nil, err
	}
	if err := validPrice(req.Price); err != nil {
		return nil, err
	}
	if req.CategoryID == 0 {
		return nil, fmt.Errorf("category_id is required: %w", ErrValidation)
	}
	if err := s.checkRefs(ctx, &req.CategoryID, req.BrandID); err != nil {
		return nil, err
	}

	prod, err := s.Repo.CreateProduct(ctx, &models.Product{
		CategoryID:  req.CategoryID,
		BrandID:     req.BrandID,
		Name:        name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
	})
	if err != nil {
		return nil, err
	}

	s.index(ctx, *prod)
	publish(ctx, s.Events, TopicProductEvents, prod.ID, map[string]any{
		"type":      "product_created",
		"productID": prod.ID,
		"name":      prod.Name,
		"price":     transport.Money(prod.Price),
	})
	return prod, nil
}

func (s *CatalogService) PatchProduct(ctx context.Context, id uint, req transport.PatchProductRequest) (*models.Product, error) {
	if req.Name != nil {
		name, err := validName(*req.Name)
		if err != nil {
			return nil, err
		}
		req.Name = &name
	}
	if req.Price != nil {
		if err := validPrice(*req.Price); err != nil {
			return nil, err
		}
	}
	if err := s.checkRefs(ctx, req.CategoryID, req.BrandID); err != nil {
		return nil, err
	}

	prod, err := s.Repo.PatchProduct(ctx, id, req)
	if err != nil {
		return nil, notFound(err, "product")
	}

	s.index(ctx, *prod)
	publish(ctx, s.Events, TopicProductEvents, prod.ID, map[string]any{
		"type":      "product_updated",
		"productID": prod.ID,
		"name":      prod.Name,
		"price":     transport.Money(prod.Price),
	})
	return prod, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, repo.ErrProductInUse) || errors.Is(err, gorm.ErrForeignKeyViolated) {
			return fmt.Errorf("product %d has orders: %w", id, ErrConflict)
		}
		return notFound(err, "product")
	}

	if s.Search != nil {
		if err := s.Search.Delete(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_delete_failed", "product_id", id, "error", err)
		}
	}
	publish(ctx, s.Events, TopicProductEvents, id, map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})
	return nil
}

func (s *CatalogService) checkRefs(ctx context.Context, categoryID, brandID *uint) error {
	if categoryID != nil {
		if _, err := s.Repo.GetCategory(ctx, *categoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("category %d does not exist: %w", *categoryID, ErrValidation)
			}
			return err
		}
	}
	if brandID != nil {
		if _, err := s.Repo.GetBrand(ctx, *brandID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("brand %d does not exist: %w", *brandID, ErrValidation)
			}
			return err
		}
	}
	return nil
}

func (s *CatalogService) index(ctx context.Context, p models.Product) {
	if s.Search == nil {
		return
	}
	if err := s.Search.Index(ctx, search.DocumentFrom(p)); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "product_id", p.ID, "error", err)
	}
}

func validName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("name is required: %w", ErrValidation)
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "", fmt.Errorf("name longer than %d characters: %w", maxNameLen, ErrValidation)
	}
	return name, nil
}

func validPrice(p decimal.Decimal) error {
	switch {
	case p.IsNegative():
		return fmt.Errorf("price cannot be negative: %w", ErrValidation)
	case !p.Equal(p.Round(2)):
		return fmt.Errorf("price has more than two decimal places: %w", ErrValidation)
	case p.GreaterThan(maxPrice):
		return fmt.Errorf("price exceeds %s: %w", maxPrice, ErrValidation)
	}
	return nil
}
