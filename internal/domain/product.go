package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product categories
const (
	CategorySale   = "sale"
	CategoryRental = "rental"
)

// Product represents an item in the shared inventory
type Product struct {
	ID                uuid.UUID           `json:"id" db:"id"`
	ProductID         string              `json:"product_id" db:"product_id"`
	Name              string              `json:"name" db:"name"`
	Description       string              `json:"description" db:"description"`
	Price             decimal.Decimal     `json:"price" db:"price"`
	Cost              decimal.Decimal     `json:"cost" db:"cost"`
	Quantity          int                 `json:"quantity" db:"quantity"`
	Category          string              `json:"category" db:"category"`
	Barcode           string              `json:"barcode" db:"barcode"`
	IsActive          bool                `json:"is_active" db:"is_active"`
	IsRentable        bool                `json:"is_rentable" db:"is_rentable"`
	RentalPricePerDay decimal.NullDecimal `json:"rental_price_per_day" db:"rental_price_per_day"`
	CreatedAt         time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at" db:"updated_at"`
}

// RentalUnitPrice returns the per-day rental price, falling back to the sale
// price when the rental price is missing. Rentable products are expected to
// carry one, but a missing price must not break rental processing.
func (p *Product) RentalUnitPrice() decimal.Decimal {
	if p.RentalPricePerDay.Valid && !p.RentalPricePerDay.Decimal.IsZero() {
		return p.RentalPricePerDay.Decimal
	}
	return p.Price
}

// DTOs for requests and responses

type CreateProductRequest struct {
	Name              string              `json:"name" validate:"required"`
	Description       string              `json:"description"`
	Price             decimal.Decimal     `json:"price" validate:"required"`
	Cost              decimal.Decimal     `json:"cost"`
	Quantity          int                 `json:"quantity" validate:"gte=0"`
	Category          string              `json:"category" validate:"omitempty,oneof=sale rental"`
	Barcode           string              `json:"barcode"`
	IsRentable        bool                `json:"is_rentable"`
	RentalPricePerDay decimal.NullDecimal `json:"rental_price_per_day"`
}

// ProductFilter narrows product listings. Zero value means "all active".
type ProductFilter struct {
	Category      string
	Search        string
	RentableOnly  bool
	LowStockOnly  bool
	IncludeZeroes bool
}
