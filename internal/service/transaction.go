package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Khawar13/web-pos/internal/config"
	"github.com/Khawar13/web-pos/internal/domain"
	"github.com/Khawar13/web-pos/internal/repository"
	customError "github.com/Khawar13/web-pos/pkg/errors"
	"github.com/Khawar13/web-pos/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionService orchestrates sale, rental and return processing against
// the product catalog, the customer ledger, the coupon registry and the
// append-only transaction store. Each flow persists the transaction record
// first and applies inventory/ledger side effects afterwards; a side-effect
// failure leaves the committed record flagged for reconciliation instead of
// rolling back.
//
// Domain notifications are returned to the caller for dispatch rather than
// pushed through a process-wide listener registry.
type TransactionService struct {
	productRepo     repository.ProductRepository
	customerRepo    repository.CustomerRepository
	transactionRepo repository.TransactionRepository
	coupons         *CouponService
	rentals         *RentalService
	inventory       *InventoryService
	config          *config.Config
}

func NewTransactionService(
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	transactionRepo repository.TransactionRepository,
	coupons *CouponService,
	rentals *RentalService,
	inventory *InventoryService,
	config *config.Config,
) *TransactionService {
	return &TransactionService{
		productRepo:     productRepo,
		customerRepo:    customerRepo,
		transactionRepo: transactionRepo,
		coupons:         coupons,
		rentals:         rentals,
		inventory:       inventory,
		config:          config,
	}
}

// ProcessSale executes a sale: coupon validation (degrading to no discount on
// an invalid code), totals at the store tax rate, persistence, then stock
// decrements. Stock sufficiency is the caller's concern at cart-build time.
func (s *TransactionService) ProcessSale(ctx context.Context, request *domain.SaleRequest) (*domain.Transaction, []domain.Notification, error) {
	if err := s.validatePayment(request.PaymentMethod, request.CardNumber); err != nil {
		return nil, nil, err
	}
	if len(request.Items) == 0 {
		return nil, nil, customError.WrapEmptyCart()
	}

	discountRate := decimal.Zero
	if request.CouponCode != "" {
		rate, ok, err := s.coupons.Validate(ctx, request.CouponCode)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			discountRate = rate
		}
	}

	now := time.Now()
	items, subtotals, products, err := s.resolveCartLines(ctx, request.Items)
	if err != nil {
		return nil, nil, err
	}

	totals := ComputeTotals(subtotals, discountRate, s.config.GetTaxRate())

	transaction := &domain.Transaction{
		ID:            uuid.New(),
		TransactionID: fmt.Sprintf("TXN-%d", now.UnixMilli()),
		Type:          domain.TransactionTypeSale,
		Items:         items,
		CustomerID:    request.CustomerID,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		TaxRate:       s.config.GetTaxRate(),
		Discount:      totals.DiscountAmount,
		Total:         totals.Total,
		LateFees:      decimal.Zero,
		PaymentMethod: request.PaymentMethod,
		PaymentStatus: domain.PaymentStatusCompleted,
		CashierID:     request.CashierID,
		CouponCode:    request.CouponCode,
		CreatedAt:     now,
	}

	if err := s.transactionRepo.Create(ctx, transaction); err != nil {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	// The record is durable from here on. Stock mutations that fail below do
	// not undo it; they surface as a partial failure for reconciliation.
	notifications := []domain.Notification{s.notify(
		domain.EventSaleCompleted,
		fmt.Sprintf("Sale completed: $%s", totals.Total.StringFixed(2)),
		transaction,
	)}

	var sideEffects []error
	for i, item := range items {
		adjusted, err := s.inventory.Adjust(ctx, item.ProductID, -item.Quantity)
		if err != nil {
			sideEffects = append(sideEffects, err)
			continue
		}
		notifications = s.appendLowStock(notifications, adjusted, products[i])
	}

	if len(sideEffects) > 0 {
		return transaction, notifications, customError.WrapPartialFailure(transaction.TransactionID, errors.Join(sideEffects...))
	}

	return transaction, notifications, nil
}

// ProcessRental executes a rental: find-or-create customer by phone, one due
// date for every line, totals at the store tax rate with no discount, then
// ledger appends and stock decrements. Rentals do not accept coupons.
func (s *TransactionService) ProcessRental(ctx context.Context, request *domain.RentalRequest) (*domain.Transaction, []domain.Notification, error) {
	if err := s.validatePayment(request.PaymentMethod, request.CardNumber); err != nil {
		return nil, nil, err
	}
	if len(request.Items) == 0 {
		return nil, nil, customError.WrapEmptyCart()
	}
	if err := s.validatePhone(request.CustomerPhone); err != nil {
		return nil, nil, err
	}

	customer, err := s.findOrCreateCustomer(ctx, request.CustomerPhone)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	items := make([]*domain.TransactionItem, 0, len(request.Items))
	subtotals := make([]decimal.Decimal, 0, len(request.Items))
	products := make([]*domain.Product, 0, len(request.Items))

	for _, line := range request.Items {
		product, err := s.getProduct(ctx, line.ProductID)
		if err != nil {
			return nil, nil, err
		}

		unitPrice := product.RentalUnitPrice()
		subtotal := unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))

		items = append(items, &domain.TransactionItem{
			ID:          uuid.New(),
			ProductID:   product.ProductID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   unitPrice,
			Subtotal:    subtotal,
			Discount:    decimal.Zero,
		})
		subtotals = append(subtotals, subtotal)
		products = append(products, product)
	}

	totals := ComputeTotals(subtotals, decimal.Zero, s.config.GetTaxRate())

	transaction := &domain.Transaction{
		ID:            uuid.New(),
		TransactionID: fmt.Sprintf("RNT-%d", now.UnixMilli()),
		Type:          domain.TransactionTypeRental,
		Items:         items,
		CustomerID:    customer.CustomerID,
		CustomerPhone: request.CustomerPhone,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		TaxRate:       s.config.GetTaxRate(),
		Discount:      decimal.Zero,
		Total:         totals.Total,
		LateFees:      decimal.Zero,
		PaymentMethod: request.PaymentMethod,
		PaymentStatus: domain.PaymentStatusCompleted,
		CashierID:     request.CashierID,
		CreatedAt:     now,
	}

	if err := s.transactionRepo.Create(ctx, transaction); err != nil {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	notifications := []domain.Notification{s.notify(
		domain.EventRentalCompleted,
		fmt.Sprintf("Rental completed: $%s", totals.Total.StringFixed(2)),
		transaction,
	)}

	var sideEffects []error
	for i, item := range items {
		if _, err := s.rentals.CreateRental(ctx, customer.CustomerID, products[i], item.Quantity, now); err != nil {
			sideEffects = append(sideEffects, err)
		}

		adjusted, err := s.inventory.Adjust(ctx, item.ProductID, -item.Quantity)
		if err != nil {
			sideEffects = append(sideEffects, err)
			continue
		}
		notifications = s.appendLowStock(notifications, adjusted, products[i])
	}

	if len(sideEffects) > 0 {
		return transaction, notifications, customError.WrapPartialFailure(transaction.TransactionID, errors.Join(sideEffects...))
	}

	return transaction, notifications, nil
}

// ProcessReturn executes a return. A rental return charges late fees only
// (the rental price itself is never refunded) and closes ledger records; an
// unsatisfactory-item return refunds the purchase price, so its total is
// negative. Both restore stock, and neither is taxed.
func (s *TransactionService) ProcessReturn(ctx context.Context, request *domain.ReturnRequest) (*domain.Transaction, []domain.Notification, error) {
	if err := s.validatePayment(request.PaymentMethod, ""); err != nil {
		return nil, nil, err
	}
	if len(request.Items) == 0 {
		return nil, nil, customError.WrapEmptyCart()
	}
	if err := s.validatePhone(request.CustomerPhone); err != nil {
		return nil, nil, err
	}

	// An unknown phone degrades to a customer-less return; rental records can
	// only be closed when the customer is known.
	customer, err := s.customerRepo.GetByPhone(ctx, request.CustomerPhone)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	now := time.Now()
	lateFeeRate := s.config.GetLateFeeRate()
	items := make([]*domain.TransactionItem, 0, len(request.Items))
	subtotals := make([]decimal.Decimal, 0, len(request.Items))
	lateFees := decimal.Zero

	for _, line := range request.Items {
		daysLate := line.DaysLate
		qty := decimal.NewFromInt(int64(line.Quantity))

		item := &domain.TransactionItem{
			ID:          uuid.New(),
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.OriginalUnitPrice,
			Discount:    decimal.Zero,
			DaysLate:    &daysLate,
		}

		if request.IsRentalReturn {
			// The customer only rented the item; there is no purchase price
			// to refund, just the accumulated late fee.
			item.Subtotal = decimal.Zero
			fee := line.OriginalUnitPrice.Mul(lateFeeRate).
				Mul(decimal.NewFromInt(int64(daysLate))).Mul(qty)
			item.LateFee = decimal.NewNullDecimal(fee)
			lateFees = lateFees.Add(fee)
		} else {
			item.Subtotal = line.OriginalUnitPrice.Mul(qty)
		}

		items = append(items, item)
		subtotals = append(subtotals, item.Subtotal)
	}

	totals := ComputeReturnTotals(subtotals)

	total := totals.Subtotal.Neg() // refund owed to the customer
	if request.IsRentalReturn {
		total = lateFees // charge owed by the customer
	}

	transaction := &domain.Transaction{
		ID:            uuid.New(),
		TransactionID: fmt.Sprintf("RTN-%d", now.UnixMilli()),
		Type:          domain.TransactionTypeReturn,
		Items:         items,
		CustomerPhone: request.CustomerPhone,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		TaxRate:       decimal.Zero,
		Discount:      decimal.Zero,
		Total:         total,
		LateFees:      lateFees,
		PaymentMethod: request.PaymentMethod,
		PaymentStatus: domain.PaymentStatusCompleted,
		CashierID:     request.CashierID,
		CreatedAt:     now,
	}
	if customer != nil {
		transaction.CustomerID = customer.CustomerID
	}

	if err := s.transactionRepo.Create(ctx, transaction); err != nil {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	notifications := []domain.Notification{s.notify(
		domain.EventReturnCompleted,
		"Return processed",
		transaction,
	)}

	var sideEffects []error
	for _, item := range items {
		if _, err := s.inventory.Adjust(ctx, item.ProductID, item.Quantity); err != nil {
			sideEffects = append(sideEffects, err)
		}

		if request.IsRentalReturn && customer != nil {
			if err := s.rentals.MarkReturned(ctx, customer.CustomerID, item.ProductID, now); err != nil {
				sideEffects = append(sideEffects, err)
			}
		}
	}

	if len(sideEffects) > 0 {
		return transaction, notifications, customError.WrapPartialFailure(transaction.TransactionID, errors.Join(sideEffects...))
	}

	return transaction, notifications, nil
}

// GetTransaction retrieves a persisted transaction with its line items
func (s *TransactionService) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	transaction, err := s.transactionRepo.GetByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return transaction, nil
}

func (s *TransactionService) resolveCartLines(ctx context.Context, lines []domain.CartLineRequest) ([]*domain.TransactionItem, []decimal.Decimal, []*domain.Product, error) {
	items := make([]*domain.TransactionItem, 0, len(lines))
	subtotals := make([]decimal.Decimal, 0, len(lines))
	products := make([]*domain.Product, 0, len(lines))

	for _, line := range lines {
		product, err := s.getProduct(ctx, line.ProductID)
		if err != nil {
			return nil, nil, nil, err
		}

		subtotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		items = append(items, &domain.TransactionItem{
			ID:          uuid.New(),
			ProductID:   product.ProductID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   product.Price,
			Subtotal:    subtotal,
			Discount:    decimal.Zero,
		})
		subtotals = append(subtotals, subtotal)
		products = append(products, product)
	}

	return items, subtotals, products, nil
}

// getProduct resolves a cart line's product; an unknown product is a hard
// rejection of the whole transaction, before anything is persisted.
func (s *TransactionService) getProduct(ctx context.Context, productID string) (*domain.Product, error) {
	product, err := s.productRepo.GetByProductID(ctx, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapProductNotFound(productID)
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return product, nil
}

func (s *TransactionService) findOrCreateCustomer(ctx context.Context, phone string) (*domain.Customer, error) {
	customer, err := s.customerRepo.GetByPhone(ctx, phone)
	if err == nil {
		return customer, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapDatabaseError(err)
	}

	customer = &domain.Customer{
		ID:         uuid.New(),
		CustomerID: fmt.Sprintf("CUST-%d", time.Now().UnixMilli()),
		Name:       "Customer",
		Phone:      phone,
		CreatedAt:  time.Now(),
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return customer, nil
}

func (s *TransactionService) validatePayment(method, cardNumber string) error {
	if method == domain.PaymentMethodCard && cardNumber != "" && !utils.IsValidCardNumber(cardNumber) {
		return customError.WrapValidation("card number must be 16 digits", customError.ErrInvalidCardNumber)
	}
	return nil
}

func (s *TransactionService) validatePhone(phone string) error {
	if phone == "" {
		return customError.WrapValidation("customer phone is required", customError.ErrMissingPhone)
	}
	if !utils.IsValidPhone(phone) {
		return customError.WrapValidation("phone number must be 10 digits", customError.ErrInvalidPhone)
	}
	return nil
}

func (s *TransactionService) notify(event, message string, data interface{}) domain.Notification {
	return domain.Notification{
		Event:     event,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

func (s *TransactionService) appendLowStock(notifications []domain.Notification, adjusted, product *domain.Product) []domain.Notification {
	if adjusted == nil || adjusted.Quantity > s.config.Business.LowStockThreshold {
		return notifications
	}
	return append(notifications, s.notify(
		domain.EventLowStock,
		fmt.Sprintf("Low stock alert: %s", product.Name),
		adjusted,
	))
}
