// Package search finds products by free text. Elastic is used when a
// cluster is configured; Database falls back to LIKE queries.
package search

import (
	"context"

	"github.com/Skotchmaster/storefront/internal/models"
)

type Document struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CategoryID  uint   `json:"category_id"`
	BrandID     *uint  `json:"brand_id,omitempty"`
	Price       string `json:"price"`
}

func DocumentFrom(p models.Product) Document {
	return Document{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		BrandID:     p.BrandID,
		Price:       p.Price.StringFixed(2),
	}
}

// Engine returns matching product ids in relevance order.
type Engine interface {
	Search(ctx context.Context, query string, from, size int) (int64, []uint, error)
	Index(ctx context.Context, doc Document) error
	Delete(ctx context.Context, id uint) error
}
