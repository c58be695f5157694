package repo

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrProductInUse       = errors.New("product is referenced by orders")
	ErrUserAlreadyExist   = errors.New("user already exist")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenRevoked       = errors.New("token expired or revoked")
)

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}
