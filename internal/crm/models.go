package crm

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Customer is a contact that can own orders. Email is unique across the
// store; comparisons are case-insensitive.
type Customer struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:255;not null"`
	Email     string    `gorm:"size:255;not null;uniqueIndex"`
	Phone     string    `gorm:"size:20"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// Product is a catalog item with a positive two-decimal price and a
// non-negative stock level.
type Product struct {
	ID        uint            `gorm:"primaryKey"`
	Name      string          `gorm:"size:255;not null"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Stock     int             `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Order links one customer to at least one distinct product. TotalAmount is
// derived from the linked products' prices at creation time and the product
// set is fixed once created.
type Order struct {
	ID          uint `gorm:"primaryKey"`
	CustomerID  uint `gorm:"not null;index"`
	Customer    Customer
	Products    []Product       `gorm:"many2many:order_products"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	OrderDate   time.Time       `gorm:"index"`
	CreatedAt   time.Time
}

// EnsureSchema applies the required database schema.
func EnsureSchema(db *gorm.DB) error {
	return db.AutoMigrate(&Customer{}, &Product{}, &Order{})
}
