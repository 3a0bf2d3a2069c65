package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer is looked up by phone number, which acts as the natural key at the
// counter. The rental ledger is append-only except for closing records.
type Customer struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	CustomerID    string          `json:"customer_id" db:"customer_id"`
	Name          string          `json:"name" db:"name"`
	Email         string          `json:"email" db:"email"`
	Phone         string          `json:"phone" db:"phone"`
	Address       string          `json:"address" db:"address"`
	LoyaltyPoints int             `json:"loyalty_points" db:"loyalty_points"`
	Rentals       []*RentalRecord `json:"rentals,omitempty"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// RentalRecord is one rental event: created when a rental transaction is
// processed, closed (never deleted) when the item comes back.
type RentalRecord struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	CustomerID    string          `json:"customer_id" db:"customer_id"`
	ProductID     string          `json:"product_id" db:"product_id"`
	ProductName   string          `json:"product_name" db:"product_name"`
	Quantity      int             `json:"quantity" db:"quantity"`
	RentedAt      time.Time       `json:"rented_at" db:"rented_at"`
	DueDate       time.Time       `json:"due_date" db:"due_date"`
	ReturnedAt    *time.Time      `json:"returned_at,omitempty" db:"returned_at"`
	IsReturned    bool            `json:"is_returned" db:"is_returned"`
	LateFeePerDay decimal.Decimal `json:"late_fee_per_day" db:"late_fee_per_day"`
}

// OutstandingRental is the counter-facing projection of an open ledger entry.
type OutstandingRental struct {
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	Quantity      int             `json:"quantity"`
	DaysLate      int             `json:"days_late"`
	DueDate       time.Time       `json:"due_date"`
	LateFeePerDay decimal.Decimal `json:"late_fee_per_day"`
}
