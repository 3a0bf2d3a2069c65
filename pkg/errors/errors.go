package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrEmptyCart         = errors.New("transaction has no line items")
	ErrMissingPhone      = errors.New("customer phone is required")
	ErrInvalidPhone      = errors.New("invalid phone number")
	ErrInvalidCardNumber = errors.New("invalid card number")
	ErrNoOpenRental      = errors.New("no open rental record for product")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeProductNotFound  = "PRODUCT_NOT_FOUND"
	ErrCodeCustomerNotFound = "CUSTOMER_NOT_FOUND"
	ErrCodeEmptyCart        = "EMPTY_CART"
	ErrCodeNoOpenRental     = "NO_OPEN_RENTAL"
	ErrCodeDatabaseError    = "DATABASE_ERROR"
	ErrCodeCacheError       = "CACHE_ERROR"
	ErrCodePartialFailure   = "PARTIAL_FAILURE"
)

// Wrap common errors with business context

func WrapValidation(message string, err error) *BusinessError {
	return NewBusinessError(ErrCodeValidation, message, err)
}

func WrapProductNotFound(productID string) *BusinessError {
	return NewBusinessError(
		ErrCodeProductNotFound,
		fmt.Sprintf("Product with ID %s not found", productID),
		ErrProductNotFound,
	)
}

func WrapCustomerNotFound(phone string) *BusinessError {
	return NewBusinessError(
		ErrCodeCustomerNotFound,
		fmt.Sprintf("Customer with phone %s not found", phone),
		ErrCustomerNotFound,
	)
}

func WrapEmptyCart() *BusinessError {
	return NewBusinessError(
		ErrCodeEmptyCart,
		"Transaction must contain at least one line item",
		ErrEmptyCart,
	)
}

func WrapNoOpenRental(productID string) *BusinessError {
	return NewBusinessError(
		ErrCodeNoOpenRental,
		fmt.Sprintf("No open rental record for product %s", productID),
		ErrNoOpenRental,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}

// WrapPartialFailure flags a transaction that was persisted but whose
// inventory or ledger side effects did not all apply. The record is kept for
// reconciliation; it is never retried automatically since a retry could
// double-apply stock movements.
func WrapPartialFailure(transactionID string, err error) *BusinessError {
	return NewBusinessError(
		ErrCodePartialFailure,
		fmt.Sprintf("Transaction %s committed but side effects failed", transactionID),
		err,
	)
}
