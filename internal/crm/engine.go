package crm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	// LowStockThreshold marks products eligible for restocking.
	LowStockThreshold = 10
	// RestockAmount is added to each low-stock product per reconciliation run.
	RestockAmount = 10
)

// Quantize rounds a monetary amount to two decimal places using banker's
// rounding (round half to even). Every derived total goes through this.
func Quantize(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(2)
}

// Engine executes CRM mutations against a transactional store. Every
// operation runs inside a single transaction, or nested savepoint scopes for
// bulk operations, so partial writes are never observable.
type Engine struct {
	db *gorm.DB
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// CreateCustomer validates and persists one customer atomically. Any
// validation failure leaves the store untouched.
func (e *Engine) CreateCustomer(ctx context.Context, in CustomerInput) (Customer, string, error) {
	var created Customer
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := insertCustomer(tx, in)
		if err != nil {
			return err
		}
		created = c
		return nil
	})
	if err != nil {
		return Customer{}, "", err
	}
	return created, "Customer created successfully", nil
}

func insertCustomer(tx *gorm.DB, in CustomerInput) (Customer, error) {
	if err := ValidateCustomer(tx, in); err != nil {
		return Customer{}, err
	}
	customer := Customer{Name: in.Name, Email: in.Email, Phone: in.Phone}
	if err := tx.Create(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost the uniqueness race to a concurrent writer
			return Customer{}, newError(KindDuplicateEmail, "email", "email already exists: %s", in.Email)
		}
		return Customer{}, unexpected(err)
	}
	return customer, nil
}

// BulkCreateCustomers processes inputs strictly in the given order, each
// inside its own savepoint. A failing input rolls back only its own scope;
// earlier successes stay committed and the batch never aborts as a whole.
// Per-item errors are tagged "[i] ..." so callers can correlate them back to
// the input. The returned error is non-nil only when the store fails the
// batch wrapper itself.
func (e *Engine) BulkCreateCustomers(ctx context.Context, inputs []CustomerInput) ([]Customer, []string, error) {
	created := make([]Customer, 0, len(inputs))
	var itemErrs []string

	err := e.db.WithContext(ctx).Transaction(func(outer *gorm.DB) error {
		for i, in := range inputs {
			var customer Customer
			err := outer.Transaction(func(tx *gorm.DB) error {
				c, err := insertCustomer(tx, in)
				if err != nil {
					return err
				}
				customer = c
				return nil
			})
			if err != nil {
				itemErrs = append(itemErrs, fmt.Sprintf("[%d] %s", i, err.Error()))
				continue
			}
			created = append(created, customer)
		}
		return nil
	})
	if err != nil {
		return nil, nil, unexpected(err)
	}
	return created, itemErrs, nil
}

// CreateProduct parses the caller-supplied price representation, validates,
// and persists. A price like "9.999" is rejected, never silently rounded.
func (e *Engine) CreateProduct(ctx context.Context, name, price string, stock int) (Product, error) {
	if name == "" {
		return Product{}, newError(KindInvalidField, "name", "name is required")
	}
	parsed, err := decimal.NewFromString(price)
	if err != nil {
		return Product{}, newError(KindInvalidPrice, "price", "price must be a valid decimal number")
	}
	if err := ValidateProduct(parsed, stock); err != nil {
		return Product{}, err
	}

	product := Product{Name: name, Price: parsed, Stock: stock}
	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&product).Error
	})
	if err != nil {
		return Product{}, unexpected(err)
	}
	return product, nil
}

// CreateOrder links one customer to a distinct set of products and records
// the quantized sum of their current prices. The order row and all of its
// link rows commit together or not at all. Duplicate ids in the request
// collapse to a single link. OrderDate defaults to the current time.
func (e *Engine) CreateOrder(ctx context.Context, customerID uint, productIDs []uint, orderDate *time.Time) (Order, error) {
	var created Order
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer, products, err := ValidateOrder(tx, customerID, productIDs)
		if err != nil {
			return err
		}

		total := decimal.Zero
		for _, p := range products {
			total = total.Add(p.Price)
		}

		when := time.Now()
		if orderDate != nil {
			when = *orderDate
		}

		order := Order{
			CustomerID:  customer.ID,
			Customer:    *customer,
			Products:    products,
			TotalAmount: Quantize(total),
			OrderDate:   when,
		}
		// Omit stops gorm from upserting the resolved products; only the
		// order row and its link rows are written.
		if err := tx.Omit("Products.*", "Customer").Create(&order).Error; err != nil {
			return unexpected(err)
		}
		created = order
		return nil
	})
	if err != nil {
		return Order{}, err
	}
	return created, nil
}

// RestockResult reports the outcome of a low-stock reconciliation run.
type RestockResult struct {
	Updated []Product
	Success bool
	Message string
}

// UpdateLowStock adds RestockAmount to every product with stock below
// LowStockThreshold. The scan and all updates run as one atomic unit, so
// concurrent readers never observe a half-updated batch. Running it when
// nothing is below threshold is a successful no-op.
func (e *Engine) UpdateLowStock(ctx context.Context) (RestockResult, error) {
	var result RestockResult
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var low []Product
		if err := tx.Where("stock < ?", LowStockThreshold).
			Order("id ASC").
			Find(&low).Error; err != nil {
			return unexpected(err)
		}

		if len(low) == 0 {
			result = RestockResult{Success: true, Message: "No products below stock threshold"}
			return nil
		}

		ids := make([]uint, len(low))
		for i := range low {
			ids[i] = low[i].ID
			// increment in place rather than writing back the value read
			// above, so a concurrent stock change is never overwritten
			if err := tx.Model(&low[i]).
				Update("stock", gorm.Expr("stock + ?", RestockAmount)).Error; err != nil {
				return unexpected(err)
			}
		}
		if err := tx.Where("id IN ?", ids).Order("id ASC").Find(&low).Error; err != nil {
			return unexpected(err)
		}
		result = RestockResult{
			Updated: low,
			Success: true,
			Message: fmt.Sprintf("Restocked %d product(s)", len(low)),
		}
		return nil
	})
	if err != nil {
		return RestockResult{}, err
	}
	return result, nil
}
