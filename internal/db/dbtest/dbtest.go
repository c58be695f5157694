// Package dbtest opens throwaway databases for tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/db"
)

// Open returns a migrated in-memory sqlite database closed with the test.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	ctx := context.Background()
	gdb, err := db.Open(ctx, "sqlite:file::memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx, gdb))

	t.Cleanup(func() { _ = db.Close(gdb) })
	return gdb
}
