package repository

import (
	"context"
	"time"

	"github.com/Khawar13/web-pos/internal/domain"
)

// ProductRepository defines the interface for product catalog data operations
type ProductRepository interface {
	// Create creates a new product
	Create(ctx context.Context, product *domain.Product) error

	// GetByProductID retrieves a product by its product ID
	GetByProductID(ctx context.Context, productID string) (*domain.Product, error)

	// Update updates a product
	Update(ctx context.Context, product *domain.Product) error

	// List retrieves active products matching the filter
	List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error)

	// AdjustQuantity applies a signed stock delta in a single conditional
	// update, clamping the resulting quantity at zero
	AdjustQuantity(ctx context.Context, productID string, delta int) (*domain.Product, error)
}

// CustomerRepository defines the interface for customer ledger data operations
type CustomerRepository interface {
	// Create creates a new customer
	Create(ctx context.Context, customer *domain.Customer) error

	// GetByPhone retrieves a customer by phone number
	GetByPhone(ctx context.Context, phone string) (*domain.Customer, error)

	// AppendRental appends a rental record to the customer's ledger
	AppendRental(ctx context.Context, customerID string, record *domain.RentalRecord) error

	// OutstandingRentals retrieves the customer's open rental records
	OutstandingRentals(ctx context.Context, customerID string) ([]*domain.RentalRecord, error)

	// MarkRentalReturned closes the oldest open rental record for a product.
	// One record per call
	MarkRentalReturned(ctx context.Context, customerID, productID string, returnedAt time.Time) error

	// ListOverdueRentals retrieves every open rental record past due as of
	// the given time, across all customers
	ListOverdueRentals(ctx context.Context, asOf time.Time) ([]*domain.RentalRecord, error)
}

// CouponRepository defines the interface for coupon registry lookups
type CouponRepository interface {
	// FindActiveByCode retrieves an active coupon by code
	FindActiveByCode(ctx context.Context, code string) (*domain.Coupon, error)
}

// TransactionRepository defines the interface for the append-only transaction store
type TransactionRepository interface {
	// Create persists a transaction and its line items
	Create(ctx context.Context, transaction *domain.Transaction) error

	// GetByTransactionID retrieves a transaction with its line items
	GetByTransactionID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindByDateRange retrieves transactions created within [start, end),
	// line items included
	FindByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Transaction, error)
}
