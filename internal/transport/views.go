package transport

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/models"
)

type CategoryView struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type BrandView struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type ProductView struct {
	ID          uint          `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Price       string        `json:"price"`
	Image       *string       `json:"image"`
	Category    *CategoryView `json:"category,omitempty"`
	Brand       *BrandView    `json:"brand,omitempty"`
}

type CartItemView struct {
	ID        uint        `json:"id"`
	Product   ProductView `json:"product"`
	Quantity  uint        `json:"quantity"`
	LineTotal string      `json:"line_total"`
}

type CartView struct {
	ID        uint           `json:"id"`
	Items     []CartItemView `json:"items"`
	TotalCost string         `json:"total_cost"`
}

type OrderItemView struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    uint   `json:"quantity"`
	Price       string `json:"price"`
	LineTotal   string `json:"line_total"`
}

type OrderView struct {
	ID        uint            `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Items     []OrderItemView `json:"items"`
	Total     string          `json:"total"`
}

type Meta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

type FormView struct {
	Values map[string]string   `json:"values"`
	Errors map[string][]string `json:"errors"`
}

func Money(d decimal.Decimal) string { return d.StringFixed(2) }

func Category(c models.Category) CategoryView {
	return CategoryView{ID: c.ID, Name: c.Name, Description: c.Description}
}

func Categories(cs []models.Category) []CategoryView {
	out := make([]CategoryView, 0, len(cs))
	for _, c := range cs {
		out = append(out, Category(c))
	}
	return out
}

func Brand(b models.Brand) BrandView {
	return BrandView{ID: b.ID, Name: b.Name, Description: b.Description}
}

func Brands(bs []models.Brand) []BrandView {
	out := make([]BrandView, 0, len(bs))
	for _, b := range bs {
		out = append(out, Brand(b))
	}
	return out
}

func Product(p models.Product) ProductView {
	v := ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       Money(p.Price),
		Image:       p.Image,
	}
	if p.Category != nil {
		c := Category(*p.Category)
		v.Category = &c
	}
	if p.Brand != nil {
		b := Brand(*p.Brand)
		v.Brand = &b
	}
	return v
}

func Products(ps []models.Product) []ProductView {
	out := make([]ProductView, 0, len(ps))
	for _, p := range ps {
		out = append(out, Product(p))
	}
	return out
}

func Cart(cart models.Cart, items []models.CartItem, total decimal.Decimal) CartView {
	v := CartView{ID: cart.ID, Items: make([]CartItemView, 0, len(items)), TotalCost: Money(total)}
	for _, it := range items {
		iv := CartItemView{ID: it.ID, Quantity: it.Quantity}
		if it.Product != nil {
			iv.Product = Product(*it.Product)
			iv.LineTotal = Money(it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
		v.Items = append(v.Items, iv)
	}
	return v
}

func Order(o models.Order, total decimal.Decimal) OrderView {
	v := OrderView{ID: o.ID, CreatedAt: o.CreatedAt, Items: make([]OrderItemView, 0, len(o.Items)), Total: Money(total)}
	for _, it := range o.Items {
		iv := OrderItemView{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     Money(it.Price),
			LineTotal: Money(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))),
		}
		if it.Product != nil {
			iv.ProductName = it.Product.Name
		}
		v.Items = append(v.Items, iv)
	}
	return v
}

func NewMeta(page, size int, total int64) Meta {
	pages := int64(0)
	if size > 0 {
		pages = (total + int64(size) - 1) / int64(size)
	}
	return Meta{
		Page:       page,
		Size:       size,
		Total:      total,
		TotalPages: pages,
		HasPrev:    page > 1,
		HasNext:    int64(page) < pages,
	}
}
