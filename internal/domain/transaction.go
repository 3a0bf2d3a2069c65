package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction types
const (
	TransactionTypeSale   = "sale"
	TransactionTypeRental = "rental"
	TransactionTypeReturn = "return"
)

// Payment methods and statuses
const (
	PaymentMethodCash   = "cash"
	PaymentMethodCard   = "card"
	PaymentMethodMobile = "mobile"
	PaymentMethodCredit = "credit"

	PaymentStatusCompleted = "completed"
	PaymentStatusPending   = "pending"
	PaymentStatusRefunded  = "refunded"
	PaymentStatusCancelled = "cancelled"
)

// Transaction is immutable once created. Corrections are new transactions.
// For returns the total is signed: negative means a refund owed to the
// customer, positive means a late-fee charge owed by the customer.
type Transaction struct {
	ID            uuid.UUID          `json:"id" db:"id"`
	TransactionID string             `json:"transaction_id" db:"transaction_id"`
	Type          string             `json:"type" db:"type"`
	Items         []*TransactionItem `json:"items"`
	CustomerID    string             `json:"customer_id,omitempty" db:"customer_id"`
	CustomerPhone string             `json:"customer_phone,omitempty" db:"customer_phone"`
	Subtotal      decimal.Decimal    `json:"subtotal" db:"subtotal"`
	Tax           decimal.Decimal    `json:"tax" db:"tax"`
	TaxRate       decimal.Decimal    `json:"tax_rate" db:"tax_rate"`
	Discount      decimal.Decimal    `json:"discount" db:"discount"`
	Total         decimal.Decimal    `json:"total" db:"total"`
	LateFees      decimal.Decimal    `json:"late_fees" db:"late_fees"`
	PaymentMethod string             `json:"payment_method" db:"payment_method"`
	PaymentStatus string             `json:"payment_status" db:"payment_status"`
	CashierID     string             `json:"cashier_id" db:"cashier_id"`
	CouponCode    string             `json:"coupon_code,omitempty" db:"coupon_code"`
	CreatedAt     time.Time          `json:"created_at" db:"created_at"`
}

type TransactionItem struct {
	ID            uuid.UUID           `json:"id" db:"id"`
	TransactionID string              `json:"transaction_id" db:"transaction_id"`
	ProductID     string              `json:"product_id" db:"product_id"`
	ProductName   string              `json:"product_name" db:"product_name"`
	Quantity      int                 `json:"quantity" db:"quantity"`
	UnitPrice     decimal.Decimal     `json:"unit_price" db:"unit_price"`
	Subtotal      decimal.Decimal     `json:"subtotal" db:"subtotal"`
	Discount      decimal.Decimal     `json:"discount" db:"discount"`
	DaysLate      *int                `json:"days_late,omitempty" db:"days_late"`
	LateFee       decimal.NullDecimal `json:"late_fee,omitempty" db:"late_fee"`
}

// Domain events emitted by transaction processing. Notifications are returned
// to the caller for dispatch instead of going through a listener registry.
const (
	EventSaleCompleted   = "sale_completed"
	EventRentalCompleted = "rental_completed"
	EventReturnCompleted = "return_completed"
	EventLowStock        = "low_stock"
)

type Notification struct {
	Event     string      `json:"event"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// DTOs for requests and responses

type CartLineRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type SaleRequest struct {
	Items         []CartLineRequest `json:"items" validate:"required,min=1,dive"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=cash card mobile credit"`
	CashierID     string            `json:"cashier_id" validate:"required"`
	CouponCode    string            `json:"coupon_code,omitempty"`
	CustomerID    string            `json:"customer_id,omitempty"`
	CardNumber    string            `json:"card_number,omitempty"`
}

type RentalRequest struct {
	Items         []CartLineRequest `json:"items" validate:"required,min=1,dive"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=cash card mobile credit"`
	CashierID     string            `json:"cashier_id" validate:"required"`
	CustomerPhone string            `json:"customer_phone" validate:"required"`
	CardNumber    string            `json:"card_number,omitempty"`
}

type ReturnLineRequest struct {
	ProductID         string          `json:"product_id" validate:"required"`
	ProductName       string          `json:"product_name"`
	Quantity          int             `json:"quantity" validate:"required,gt=0"`
	DaysLate          int             `json:"days_late" validate:"gte=0"`
	OriginalUnitPrice decimal.Decimal `json:"original_unit_price"`
}

type ReturnRequest struct {
	Items          []ReturnLineRequest `json:"items" validate:"required,min=1,dive"`
	PaymentMethod  string              `json:"payment_method" validate:"required,oneof=cash card mobile credit"`
	CashierID      string              `json:"cashier_id" validate:"required"`
	CustomerPhone  string              `json:"customer_phone" validate:"required"`
	IsRentalReturn bool                `json:"is_rental_return"`
}

type TransactionResponse struct {
	Transaction   *Transaction   `json:"transaction"`
	Notifications []Notification `json:"notifications,omitempty"`
}
