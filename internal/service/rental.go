package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Khawar13/web-pos/internal/config"
	"github.com/Khawar13/web-pos/internal/domain"
	"github.com/Khawar13/web-pos/internal/repository"
	customError "github.com/Khawar13/web-pos/pkg/errors"
	"github.com/Khawar13/web-pos/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RentalService manages the per-customer rental ledger: due dates, open
// records and late-fee math. One RentalRecord is one rental event, not a
// per-unit counter, so due dates stay attached to the event.
type RentalService struct {
	customerRepo repository.CustomerRepository
	config       *config.Config
}

func NewRentalService(customerRepo repository.CustomerRepository, config *config.Config) *RentalService {
	return &RentalService{
		customerRepo: customerRepo,
		config:       config,
	}
}

// CreateRental appends an open rental record to the customer's ledger.
// Due date is rentedAt plus the rental period; the daily late fee derives
// from the product's sale price, not its rental price.
func (s *RentalService) CreateRental(ctx context.Context, customerID string, product *domain.Product, quantity int, rentedAt time.Time) (*domain.RentalRecord, error) {
	record := &domain.RentalRecord{
		ID:            uuid.New(),
		CustomerID:    customerID,
		ProductID:     product.ProductID,
		ProductName:   product.Name,
		Quantity:      quantity,
		RentedAt:      rentedAt,
		DueDate:       utils.DueDate(rentedAt, s.config.Business.RentalPeriodDays),
		IsReturned:    false,
		LateFeePerDay: utils.LateFeePerDay(product.Price, s.config.GetLateFeeRate()),
	}

	if err := s.customerRepo.AppendRental(ctx, customerID, record); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return record, nil
}

// Outstanding projects the customer's open rental records with days late
// computed against now.
func (s *RentalService) Outstanding(ctx context.Context, customerID string, now time.Time) ([]*domain.OutstandingRental, error) {
	records, err := s.customerRepo.OutstandingRentals(ctx, customerID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	outstanding := make([]*domain.OutstandingRental, 0, len(records))
	for _, r := range records {
		outstanding = append(outstanding, &domain.OutstandingRental{
			ProductID:     r.ProductID,
			ProductName:   r.ProductName,
			Quantity:      r.Quantity,
			DaysLate:      utils.DaysLate(now, r.DueDate),
			DueDate:       r.DueDate,
			LateFeePerDay: r.LateFeePerDay,
		})
	}

	return outstanding, nil
}

// OutstandingByPhone resolves the customer by phone and projects their open
// rentals. An unknown phone is a hard not-found here, unlike the degrading
// lookups inside transaction processing.
func (s *RentalService) OutstandingByPhone(ctx context.Context, phone string, now time.Time) ([]*domain.OutstandingRental, error) {
	customer, err := s.customerRepo.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapCustomerNotFound(phone)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	return s.Outstanding(ctx, customer.CustomerID, now)
}

// MarkReturned closes the oldest open rental record for the product. Callers
// returning several rental events of the same product call once per event.
func (s *RentalService) MarkReturned(ctx context.Context, customerID, productID string, now time.Time) error {
	err := s.customerRepo.MarkRentalReturned(ctx, customerID, productID, now)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return customError.WrapNoOpenRental(productID)
		}
		return customError.WrapDatabaseError(err)
	}

	return nil
}

// LateFee calculates the fee for returning a rental quantityReturned units
// late: lateFeePerDay x daysLate x quantity.
func LateFee(lateFeePerDay decimal.Decimal, daysLate, quantityReturned int) decimal.Decimal {
	return lateFeePerDay.
		Mul(decimal.NewFromInt(int64(daysLate))).
		Mul(decimal.NewFromInt(int64(quantityReturned)))
}
