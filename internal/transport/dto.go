package transport

import "github.com/shopspring/decimal"

type CreateCategoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type CreateBrandRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type CreateProductRequest struct {
	CategoryID  uint            `json:"category_id"`
	BrandID     *uint           `json:"brand_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       *string         `json:"image"`
}

type PatchProductRequest struct {
	CategoryID  *uint            `json:"category_id"`
	BrandID     *uint            `json:"brand_id"`
	ClearBrand  bool             `json:"clear_brand"`
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Image       *string          `json:"image"`
}

type RegisterRequest struct {
	Username  string `json:"username"  form:"username"`
	Password1 string `json:"password1" form:"password1"`
	Password2 string `json:"password2" form:"password2"`
}

type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}
