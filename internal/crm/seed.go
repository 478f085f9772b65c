package crm

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SeedSampleData inserts a small demo dataset. Seeding is idempotent:
// customers are matched by email and products by name, and only missing
// rows are created.
func SeedSampleData(ctx context.Context, db *gorm.DB) error {
	customers := []Customer{
		{Name: "Alice", Email: "alice@example.com", Phone: "+1234567890"},
		{Name: "Bob", Email: "bob@example.com", Phone: "123-456-7890"},
		{Name: "Carol", Email: "carol@example.com"},
	}
	for i := range customers {
		if err := db.WithContext(ctx).
			Where("email = ?", customers[i].Email).
			FirstOrCreate(&customers[i]).Error; err != nil {
			return err
		}
	}

	products := []Product{
		{Name: "Laptop", Price: decimal.RequireFromString("999.99"), Stock: 10},
		{Name: "Mouse", Price: decimal.RequireFromString("25.50"), Stock: 100},
		{Name: "Keyboard", Price: decimal.RequireFromString("75.00"), Stock: 40},
	}
	for i := range products {
		if err := db.WithContext(ctx).
			Where("name = ?", products[i].Name).
			FirstOrCreate(&products[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
