package crm_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"crm-backend/internal/crm"
)

// newTestDB opens a throwaway sqlite store with the CRM schema applied. The
// driver supports SAVEPOINT, so nested transaction scopes behave as they do
// on MySQL.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "crm.db")
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, crm.EnsureSchema(gdb))
	return gdb
}

func mustCreateProduct(t *testing.T, e *crm.Engine, name, price string, stock int) crm.Product {
	t.Helper()
	p, err := e.CreateProduct(context.Background(), name, price, stock)
	require.NoError(t, err)
	return p
}

func mustCreateCustomer(t *testing.T, e *crm.Engine, name, email, phone string) crm.Customer {
	t.Helper()
	c, _, err := e.CreateCustomer(context.Background(), crm.CustomerInput{Name: name, Email: email, Phone: phone})
	require.NoError(t, err)
	return c
}
