package crm

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Queries serves read-only projections over the store. Nothing here mutates.
type Queries struct {
	db *gorm.DB
}

func NewQueries(db *gorm.DB) *Queries {
	return &Queries{db: db}
}

// CustomerCount returns the number of stored customers.
func (q *Queries) CustomerCount(ctx context.Context) (int64, error) {
	var n int64
	if err := q.db.WithContext(ctx).Model(&Customer{}).Count(&n).Error; err != nil {
		return 0, unexpected(err)
	}
	return n, nil
}

// OrderCount returns the number of stored orders.
func (q *Queries) OrderCount(ctx context.Context) (int64, error) {
	var n int64
	if err := q.db.WithContext(ctx).Model(&Order{}).Count(&n).Error; err != nil {
		return 0, unexpected(err)
	}
	return n, nil
}

// TotalRevenue sums every order's total amount. It reports 0.00, never
// null, when no orders exist.
func (q *Queries) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	var revenue decimal.Decimal
	row := q.db.WithContext(ctx).Model(&Order{}).
		Select("ROUND(COALESCE(SUM(total_amount), 0), 2)").
		Row()
	if err := row.Scan(&revenue); err != nil {
		return decimal.Zero, unexpected(err)
	}
	return revenue, nil
}

// Summary bundles the scalar aggregates consumed by the periodic report
// collaborator.
type Summary struct {
	Customers int64
	Orders    int64
	Revenue   decimal.Decimal
}

// Report collects all three aggregates in one call.
func (q *Queries) Report(ctx context.Context) (Summary, error) {
	customers, err := q.CustomerCount(ctx)
	if err != nil {
		return Summary{}, err
	}
	orders, err := q.OrderCount(ctx)
	if err != nil {
		return Summary{}, err
	}
	revenue, err := q.TotalRevenue(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summary{Customers: customers, Orders: orders, Revenue: revenue}, nil
}

// CustomerFilter narrows customer listings. All set fields compose with AND.
// SortBy accepts a whitelisted key, optionally prefixed with "-" for
// descending order; unset means primary-key order.
type CustomerFilter struct {
	Name        string
	Email       string
	PhonePrefix string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	SortBy      string
}

// ProductFilter narrows product listings. LowStock selects products below
// LowStockThreshold.
type ProductFilter struct {
	Name     string
	PriceMin *decimal.Decimal
	PriceMax *decimal.Decimal
	StockMin *int
	StockMax *int
	LowStock bool
	SortBy   string
}

// OrderFilter narrows order listings. ProductID of zero means no product-id
// filter.
type OrderFilter struct {
	AmountMin    *decimal.Decimal
	AmountMax    *decimal.Decimal
	DateFrom     *time.Time
	DateTo       *time.Time
	CustomerName string
	ProductName  string
	ProductID    uint
	SortBy       string
}

var (
	customerSortColumns = map[string]string{
		"name":       "name",
		"email":      "email",
		"created_at": "created_at",
	}
	productSortColumns = map[string]string{
		"name":  "name",
		"price": "price",
		"stock": "stock",
	}
	orderSortColumns = map[string]string{
		"total_amount": "orders.total_amount",
		"order_date":   "orders.order_date",
	}
)

// ListCustomers returns customers matching the filter.
func (q *Queries) ListCustomers(ctx context.Context, f CustomerFilter) ([]Customer, error) {
	tx := q.db.WithContext(ctx).Model(&Customer{})
	if f.Name != "" {
		tx = tx.Where("name LIKE ?", contains(f.Name))
	}
	if f.Email != "" {
		tx = tx.Where("email LIKE ?", contains(f.Email))
	}
	if f.PhonePrefix != "" {
		tx = tx.Where("phone LIKE ?", f.PhonePrefix+"%")
	}
	if f.CreatedFrom != nil {
		tx = tx.Where("created_at >= ?", *f.CreatedFrom)
	}
	if f.CreatedTo != nil {
		tx = tx.Where("created_at <= ?", *f.CreatedTo)
	}

	var customers []Customer
	if err := tx.Order(sortClause(customerSortColumns, f.SortBy, "id")).
		Find(&customers).Error; err != nil {
		return nil, unexpected(err)
	}
	return customers, nil
}

// ListProducts returns products matching the filter.
func (q *Queries) ListProducts(ctx context.Context, f ProductFilter) ([]Product, error) {
	tx := q.db.WithContext(ctx).Model(&Product{})
	if f.Name != "" {
		tx = tx.Where("name LIKE ?", contains(f.Name))
	}
	if f.PriceMin != nil {
		tx = tx.Where("price >= ?", *f.PriceMin)
	}
	if f.PriceMax != nil {
		tx = tx.Where("price <= ?", *f.PriceMax)
	}
	if f.StockMin != nil {
		tx = tx.Where("stock >= ?", *f.StockMin)
	}
	if f.StockMax != nil {
		tx = tx.Where("stock <= ?", *f.StockMax)
	}
	if f.LowStock {
		tx = tx.Where("stock < ?", LowStockThreshold)
	}

	var products []Product
	if err := tx.Order(sortClause(productSortColumns, f.SortBy, "id")).
		Find(&products).Error; err != nil {
		return nil, unexpected(err)
	}
	return products, nil
}

// ListOrders returns orders matching the filter, with customer and products
// preloaded. Filters touching linked products join through the link table
// and de-duplicate the result.
func (q *Queries) ListOrders(ctx context.Context, f OrderFilter) ([]Order, error) {
	tx := q.db.WithContext(ctx).Model(&Order{})
	if f.AmountMin != nil {
		tx = tx.Where("orders.total_amount >= ?", *f.AmountMin)
	}
	if f.AmountMax != nil {
		tx = tx.Where("orders.total_amount <= ?", *f.AmountMax)
	}
	if f.DateFrom != nil {
		tx = tx.Where("orders.order_date >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		tx = tx.Where("orders.order_date <= ?", *f.DateTo)
	}
	if f.CustomerName != "" {
		tx = tx.Joins("JOIN customers ON customers.id = orders.customer_id").
			Where("customers.name LIKE ?", contains(f.CustomerName))
	}
	if f.ProductName != "" || f.ProductID != 0 {
		tx = tx.Joins("JOIN order_products ON order_products.order_id = orders.id").
			Joins("JOIN products ON products.id = order_products.product_id").
			Distinct("orders.*")
		if f.ProductName != "" {
			tx = tx.Where("products.name LIKE ?", contains(f.ProductName))
		}
		if f.ProductID != 0 {
			tx = tx.Where("products.id = ?", f.ProductID)
		}
	}

	var orders []Order
	if err := tx.Preload("Customer").Preload("Products").
		Order(sortClause(orderSortColumns, f.SortBy, "orders.id")).
		Find(&orders).Error; err != nil {
		return nil, unexpected(err)
	}
	return orders, nil
}

func contains(s string) string {
	return "%" + s + "%"
}

// sortClause maps a caller-supplied sort key to a whitelisted column,
// falling back to the primary key. A "-" prefix sorts descending.
func sortClause(columns map[string]string, key, fallback string) string {
	desc := strings.HasPrefix(key, "-")
	col, ok := columns[strings.TrimPrefix(key, "-")]
	if !ok {
		return fallback + " ASC"
	}
	if desc {
		return col + " DESC"
	}
	return col + " ASC"
}
