package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"            json:"id"`
	Username     string    `gorm:"size:150;uniqueIndex;not null"       json:"username"`
	PasswordHash string    `gorm:"not null"                            json:"-"`
	Role         string    `gorm:"size:16;not null;default:user"       json:"role"`
	CreatedAt    time.Time `gorm:"autoCreateTime"                      json:"created_at"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"                          json:"id"`
	UserID    uint   `gorm:"index;not null"                      json:"user_id"`
	User      *User  `gorm:"constraint:OnDelete:CASCADE"         json:"-"`
	JTI       string `gorm:"size:64;uniqueIndex;not null"        json:"jti"`
	TokenHash string `gorm:"size:64;uniqueIndex;not null"        json:"-"`
	ExpiresAt int64  `gorm:"not null"                            json:"expires_at"`
	Revoked   bool   `gorm:"not null;default:false"              json:"revoked"`
}

type Category struct {
	ID          uint    `gorm:"primaryKey;autoIncrement"            json:"id"`
	Name        string  `gorm:"size:100;not null;check:name <> ''"  json:"name"`
	Description *string `gorm:"type:text"                           json:"description"`
}

type Brand struct {
	ID          uint    `gorm:"primaryKey;autoIncrement"            json:"id"`
	Name        string  `gorm:"size:100;not null;check:name <> ''"  json:"name"`
	Description *string `gorm:"type:text"                           json:"description"`
}

// Product prices are fixed-point with two decimals.
type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"                       json:"id"`
	CategoryID  uint            `gorm:"index;not null"                                 json:"category_id"`
	Category    *Category       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"  json:"category,omitempty"`
	BrandID     *uint           `gorm:"index"                                          json:"brand_id"`
	Brand       *Brand          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"brand,omitempty"`
	Name        string          `gorm:"size:100;not null"                              json:"name"`
	Description string          `gorm:"type:text;not null"                             json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null;check:price >= 0"   json:"price"`
	Image       *string         `gorm:"size:255"                                       json:"image"`
}

// Cart is created lazily, one per user, and reused after checkout.
type Cart struct {
	ID        uint       `gorm:"primaryKey"                        json:"id"`
	UserID    uint       `gorm:"uniqueIndex;not null"              json:"user_id"`
	User      *User      `gorm:"constraint:OnDelete:CASCADE"       json:"-"`
	Items     []CartItem `gorm:"constraint:OnDelete:CASCADE"       json:"items,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime"                    json:"created_at"`
}

type CartItem struct {
	ID        uint     `gorm:"primaryKey"                                   json:"id"`
	CartID    uint     `gorm:"uniqueIndex:idx_cart_product;not null"        json:"cart_id"`
	ProductID uint     `gorm:"uniqueIndex:idx_cart_product;not null"        json:"product_id"`
	Product   *Product `gorm:"constraint:OnDelete:CASCADE"                  json:"product,omitempty"`
	Quantity  uint     `gorm:"not null;default:1;check:quantity > 0"        json:"quantity"`
}

// Order and its items are written once at checkout; the "<-:create"
// permission keeps gorm from ever updating them.
type Order struct {
	ID        uint        `gorm:"primaryKey"                        json:"id"`
	UserID    uint        `gorm:"index;not null;<-:create"          json:"user_id"`
	User      *User       `gorm:"constraint:OnDelete:CASCADE"       json:"-"`
	CartID    *uint       `gorm:"index"                             json:"cart_id"`
	Cart      *Cart       `gorm:"constraint:OnDelete:SET NULL"      json:"-"`
	CreatedAt time.Time   `gorm:"autoCreateTime;index;<-:create"    json:"created_at"`
	Items     []OrderItem `gorm:"constraint:OnDelete:CASCADE"       json:"items"`
}

type OrderItem struct {
	ID        uint            `gorm:"primaryKey"                                      json:"id"`
	OrderID   uint            `gorm:"index;not null;<-:create"                        json:"order_id"`
	ProductID uint            `gorm:"index;not null;<-:create"                        json:"product_id"`
	Product   *Product        `gorm:"constraint:OnDelete:RESTRICT"                    json:"product,omitempty"`
	Quantity  uint            `gorm:"not null;check:quantity > 0;<-:create"           json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null;<-:create"           json:"price"`
}

// All lists every model in migration order.
func All() []any {
	return []any{
		&User{},
		&RefreshToken{},
		&Category{},
		&Brand{},
		&Product{},
		&Cart{},
		&CartItem{},
		&Order{},
		&OrderItem{},
	}
}
