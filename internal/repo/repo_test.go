package repo

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/db/dbtest"
	"github.com/Skotchmaster/storefront/internal/models"
)

type fixture struct {
	repo  *GormRepo
	db    *gorm.DB
	cat   models.Category
	brand models.Brand
	p1    models.Product
	p2    models.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	gdb := dbtest.Open(t)
	f := &fixture{repo: New(gdb), db: gdb}

	f.cat = models.Category{Name: "Electronics"}
	require.NoError(t, gdb.Create(&f.cat).Error)
	f.brand = models.Brand{Name: "Acme"}
	require.NoError(t, gdb.Create(&f.brand).Error)

	f.p1 = models.Product{CategoryID: f.cat.ID, BrandID: &f.brand.ID, Name: "Phone", Description: "smart phone", Price: decimal.RequireFromString("10.00")}
	require.NoError(t, gdb.Create(&f.p1).Error)
	f.p2 = models.Product{CategoryID: f.cat.ID, Name: "Cable", Description: "usb cable", Price: decimal.RequireFromString("5.00")}
	require.NoError(t, gdb.Create(&f.p2).Error)
	return f
}

func (f *fixture) user(t *testing.T, name string) models.User {
	t.Helper()
	u := models.User{Username: name, PasswordHash: "x", Role: models.RoleUser}
	require.NoError(t, f.db.Create(&u).Error)
	return u
}

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func (f *fixture) count(t *testing.T, model any, where string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Where(where, args...).Count(&n).Error)
	return n
}
