package crm

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failures the engine reports.
type ErrorKind int

const (
	KindUnexpected ErrorKind = iota
	KindDuplicateEmail
	KindInvalidPhone
	KindInvalidField
	KindInvalidPrice
	KindInvalidStock
	KindCustomerNotFound
	KindProductNotFound
	KindEmptyProductList
)

func (k ErrorKind) String() string {
	switch k {
	case KindDuplicateEmail:
		return "DuplicateEmail"
	case KindInvalidPhone:
		return "InvalidPhone"
	case KindInvalidField:
		return "InvalidField"
	case KindInvalidPrice:
		return "InvalidPrice"
	case KindInvalidStock:
		return "InvalidStock"
	case KindCustomerNotFound:
		return "CustomerNotFound"
	case KindProductNotFound:
		return "ProductNotFound"
	case KindEmptyProductList:
		return "EmptyProductList"
	default:
		return "Unexpected"
	}
}

// Error is a structured engine failure. Field names the offending input
// field where one applies; Err holds the wrapped cause for KindUnexpected.
type Error struct {
	Kind    ErrorKind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf classifies any error returned by this package. Errors that did not
// originate here count as KindUnexpected.
func KindOf(err error) ErrorKind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnexpected
}

func newError(kind ErrorKind, field, format string, args ...any) *Error {
	return &Error{Kind: kind, Field: field, Message: fmt.Sprintf(format, args...)}
}

func unexpected(err error) *Error {
	return &Error{Kind: KindUnexpected, Message: "unexpected error: " + err.Error(), Err: err}
}
