package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/transport"
)

func withRefs(db *gorm.DB) *gorm.DB {
	return db.Preload("Category").Preload("Brand")
}

func (r *GormRepo) listProducts(ctx context.Context, filter func(*gorm.DB) *gorm.DB, offset, limit int) (int64, []models.Product, error) {
	var total int64
	if err := filter(r.DB.WithContext(ctx).Model(&models.Product{})).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Product, 0, limit)
	if err := withRefs(filter(r.DB.WithContext(ctx).Model(&models.Product{}))).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) GetProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	return r.listProducts(ctx, func(db *gorm.DB) *gorm.DB { return db }, offset, limit)
}

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := withRefs(r.DB.WithContext(ctx)).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ProductsByIDs keeps the order of ids and skips unknown ones.
func (r *GormRepo) ProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var found []models.Product
	if err := withRefs(r.DB.WithContext(ctx)).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	out := make([]models.Product, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *GormRepo) GetCategories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if err := r.DB.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

func (r *GormRepo) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var cat models.Category
	if err := r.DB.WithContext(ctx).First(&cat, id).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *GormRepo) GetBrands(ctx context.Context) ([]models.Brand, error) {
	var brands []models.Brand
	if err := r.DB.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&brands).Error; err != nil {
		return nil, err
	}
	return brands, nil
}

func (r *GormRepo) GetBrand(ctx context.Context, id uint) (*models.Brand, error) {
	var brand models.Brand
	if err := r.DB.WithContext(ctx).First(&brand, id).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *GormRepo) ProductsByCategory(ctx context.Context, categoryID uint, offset, limit int) (int64, []models.Product, error) {
	return r.listProducts(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("category_id = ?", categoryID)
	}, offset, limit)
}

func (r *GormRepo) ProductsByBrand(ctx context.Context, brandID uint, offset, limit int) (int64, []models.Product, error) {
	return r.listProducts(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("brand_id = ?", brandID)
	}, offset, limit)
}

func (r *GormRepo) SearchProductIDs(ctx context.Context, q string, offset, limit int) (int64, []uint, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
	where := func(db *gorm.DB) *gorm.DB {
		return db.Model(&models.Product{}).Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := where(r.DB.WithContext(ctx)).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	ids := make([]uint, 0, limit)
	if err := where(r.DB.WithContext(ctx)).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Pluck("id", &ids).Error; err != nil {
		return 0, nil, err
	}
	return total, ids, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, cat *models.Category) (*models.Category, error) {
	if err := r.DB.WithContext(ctx).Create(cat).Error; err != nil {
		return nil, err
	}
	return cat, nil
}

func (r *GormRepo) CreateBrand(ctx context.Context, brand *models.Brand) (*models.Brand, error) {
	if err := r.DB.WithContext(ctx).Create(brand).Error; err != nil {
		return nil, err
	}
	return brand, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) (*models.Product, error) {
	if err := r.DB.WithContext(ctx).Omit("Category", "Brand").Create(prod).Error; err != nil {
		return nil, err
	}
	return r.GetProduct(ctx, prod.ID)
}

func (r *GormRepo) PatchProduct(ctx context.Context, id uint, req transport.PatchProductRequest) (*models.Product, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prod models.Product
		if err := tx.First(&prod, id).Error; err != nil {
			return err
		}

		if req.Name != nil {
			prod.Name = *req.Name
		}
		if req.Description != nil {
			prod.Description = *req.Description
		}
		if req.Price != nil {
			prod.Price = *req.Price
		}
		if req.Image != nil {
			prod.Image = req.Image
		}
		if req.CategoryID != nil {
			prod.CategoryID = *req.CategoryID
		}
		if req.BrandID != nil {
			prod.BrandID = req.BrandID
		}
		if req.ClearBrand {
			prod.BrandID = nil
		}

		return tx.Omit("Category", "Brand").Save(&prod).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetProduct(ctx, id)
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&models.OrderItem{}).Where("product_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return ErrProductInUse
		}

		res := tx.Delete(&models.Product{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
