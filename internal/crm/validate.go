package crm

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Phone numbers must look like +1234567890 (7-15 digits) or 123-456-7890.
var phonePattern = regexp.MustCompile(`^(\+\d{7,15}|\d{3}-\d{3}-\d{4})$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// optionality is expressed with the omitempty tag, so empty passes here
	if err := v.RegisterValidation("crm_phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// CustomerInput is the caller-supplied shape for customer creation.
type CustomerInput struct {
	Name  string `validate:"required"`
	Email string `validate:"required,email"`
	Phone string `validate:"omitempty,crm_phone"`
}

// ValidateCustomer checks field invariants and probes for an existing
// customer with the same email, case-insensitively. The probe runs on tx so
// that bulk items observe rows written earlier in the same batch.
func ValidateCustomer(tx *gorm.DB, in CustomerInput) error {
	if err := validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return classifyFieldError(fieldErrs[0])
		}
		return unexpected(err)
	}
	var count int64
	if err := tx.Model(&Customer{}).
		Where("LOWER(email) = LOWER(?)", in.Email).
		Count(&count).Error; err != nil {
		return unexpected(err)
	}
	if count > 0 {
		return newError(KindDuplicateEmail, "email", "email already exists: %s", in.Email)
	}
	return nil
}

func classifyFieldError(fe validator.FieldError) *Error {
	field := strings.ToLower(fe.Field())
	if fe.Tag() == "crm_phone" {
		return newError(KindInvalidPhone, field, "phone must be like +1234567890 or 123-456-7890")
	}
	return newError(KindInvalidField, field, "%s is missing or malformed", field)
}

// ValidateProduct checks the price and stock invariants. Prices carry at
// most two decimal places; anything finer is rejected rather than rounded.
func ValidateProduct(price decimal.Decimal, stock int) error {
	if !price.IsPositive() {
		return newError(KindInvalidPrice, "price", "price must be greater than zero")
	}
	if !price.Equal(price.Round(2)) {
		return newError(KindInvalidPrice, "price", "price cannot have more than 2 decimal places")
	}
	if stock < 0 {
		return newError(KindInvalidStock, "stock", "stock cannot be negative")
	}
	return nil
}

// ValidateOrder resolves the order's customer and its distinct products.
// Every distinct requested product id must resolve to an existing row.
func ValidateOrder(tx *gorm.DB, customerID uint, productIDs []uint) (*Customer, []Product, error) {
	var customer Customer
	if err := tx.First(&customer, customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, newError(KindCustomerNotFound, "customer_id", "invalid customer ID: %d", customerID)
		}
		return nil, nil, unexpected(err)
	}

	if len(productIDs) == 0 {
		return nil, nil, newError(KindEmptyProductList, "product_ids", "at least one product must be selected")
	}

	distinct := dedupeIDs(productIDs)
	var products []Product
	if err := tx.Where("id IN ?", distinct).Order("id ASC").Find(&products).Error; err != nil {
		return nil, nil, unexpected(err)
	}
	if len(products) != len(distinct) {
		return nil, nil, newError(KindProductNotFound, "product_ids", "one or more product IDs are invalid")
	}
	return &customer, products, nil
}

func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
