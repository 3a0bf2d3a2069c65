package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/Khawar13/web-pos/internal/domain"
	customError "github.com/Khawar13/web-pos/pkg/errors"
	"github.com/Khawar13/web-pos/tests/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type processorMocks struct {
	products     *mocks.MockProductRepository
	customers    *mocks.MockCustomerRepository
	transactions *mocks.MockTransactionRepository
	coupons      *mocks.MockCouponRepository
}

func newProcessor() (*TransactionService, *processorMocks) {
	m := &processorMocks{
		products:     &mocks.MockProductRepository{},
		customers:    &mocks.MockCustomerRepository{},
		transactions: &mocks.MockTransactionRepository{},
		coupons:      &mocks.MockCouponRepository{},
	}

	cfg := testConfig()
	service := NewTransactionService(
		m.products,
		m.customers,
		m.transactions,
		NewCouponService(m.coupons, cfg),
		NewRentalService(m.customers, cfg),
		NewInventoryService(m.products),
		cfg,
	)

	return service, m
}

func stubProduct(productID string, price float64, quantity int) *domain.Product {
	return &domain.Product{
		ProductID: productID,
		Name:      "Widget " + productID,
		Price:     decimal.NewFromFloat(price),
		Quantity:  quantity,
		IsActive:  true,
	}
}

func TestProcessSale_NoCoupon(t *testing.T) {
	service, m := newProcessor()

	product := stubProduct("PRD-1", 1.0, 50)
	m.products.On("GetByProductID", mock.Anything, "PRD-1").Return(product, nil)

	var persisted *domain.Transaction
	m.transactions.On("Create", mock.Anything, mock.AnythingOfType("*domain.Transaction")).
		Run(func(args mock.Arguments) {
			persisted = args.Get(1).(*domain.Transaction)
		}).
		Return(nil)
	m.products.On("AdjustQuantity", mock.Anything, "PRD-1", -2).Return(stubProduct("PRD-1", 1.0, 48), nil)

	transaction, notifications, err := service.ProcessSale(context.Background(), &domain.SaleRequest{
		Items:         []domain.CartLineRequest{{ProductID: "PRD-1", Quantity: 2}},
		PaymentMethod: domain.PaymentMethodCash,
		CashierID:     "EMP-1",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.TransactionTypeSale, transaction.Type)
	assert.True(t, transaction.Subtotal.Equal(decimal.NewFromFloat(2.00)), "subtotal: %v", transaction.Subtotal)
	assert.True(t, transaction.Tax.Equal(decimal.NewFromFloat(0.12)), "tax: %v", transaction.Tax)
	assert.True(t, transaction.Total.Equal(decimal.NewFromFloat(2.12)), "total: %v", transaction.Total)
	assert.True(t, transaction.Discount.IsZero())

	// figures returned to the caller are exactly the figures persisted
	require.NotNil(t, persisted)
	assert.Equal(t, transaction, persisted)

	// summing persisted line items reproduces the computed subtotal
	lineSum := decimal.Zero
	for _, item := range persisted.Items {
		lineSum = lineSum.Add(item.Subtotal)
	}
	assert.True(t, lineSum.Equal(persisted.Subtotal))

	require.NotEmpty(t, notifications)
	assert.Equal(t, domain.EventSaleCompleted, notifications[0].Event)

	m.transactions.AssertExpectations(t)
	m.products.AssertExpectations(t)
}

func TestProcessSale_WithCoupon(t *testing.T) {
	service, m := newProcessor()

	product := stubProduct("PRD-1", 1.0, 50)
	m.products.On("GetByProductID", mock.Anything, "PRD-1").Return(product, nil)
	m.coupons.On("FindActiveByCode", mock.Anything, "C042").Return(&domain.Coupon{
		Code:            "C042",
		DiscountPercent: decimal.NewFromInt(10),
		IsActive:        true,
	}, nil)
	m.transactions.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.products.On("AdjustQuantity", mock.Anything, "PRD-1", -2).Return(stubProduct("PRD-1", 1.0, 48), nil)

	transaction, _, err := service.ProcessSale(context.Background(), &domain.SaleRequest{
		Items:         []domain.CartLineRequest{{ProductID: "PRD-1", Quantity: 2}},
		PaymentMethod: domain.PaymentMethodCash,
		CashierID:     "EMP-1",
		CouponCode:    "C042",
	})

	require.NoError(t, err)
	assert.True(t, transaction.Discount.Equal(decimal.NewFromFloat(0.20)), "discount: %v", transaction.Discount)
	assert.True(t, transaction.Tax.Equal(decimal.NewFromFloat(0.108)), "tax: %v", transaction.Tax)
	assert.True(t, transaction.Total.Equal(decimal.NewFromFloat(1.908)), "total: %v", transaction.Total)
}

func TestProcessSale_InvalidCouponDegrades(t *testing.T) {
	service, m := newProcessor()

	product := stubProduct("PRD-1", 1.0, 50)
	m.products.On("GetByProductID", mock.Anything, "PRD-1").Return(product, nil)
	m.coupons.On("FindActiveByCode", mock.Anything, "C150").Return(nil, sql.ErrNoRows)
	m.transactions.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.products.On("AdjustQuantity", mock.Anything, "PRD-1", -2).Return(stubProduct("PRD-1", 1.0, 48), nil)

	transaction, _, err := service.ProcessSale(context.Background(), &domain.SaleRequest{
		Items:         []domain.CartLineRequest{{ProductID: "PRD-1", Quantity: 2}},
		PaymentMethod: domain.PaymentMethodCash,
		CashierID:     "EMP-1",
		CouponCode:    "C150",
	})

	// the sale goes through at full price instead of failing
	require.NoError(t, err)
	assert.True(t, transaction.Discount.IsZero())
	assert.True(t, transaction.Total.Equal(decimal.NewFromFloat(2.12)), "total: %v", transaction.Total)
}

func TestProcessSale_EmptyCartRejected(t *testing.T) {
	service, m := newProcessor()

	_, _, err := service.ProcessSale(context.Background(), &domain.SaleRequest{
		PaymentMethod: domain.PaymentMethodCash,
		CashierID:     "EMP-1",
	})

	var businessErr *customError.BusinessError
	require.True(t, errors.As(err, &businessErr))
	assert.Equal(t, customError.ErrCodeEmptyCart, businessErr.Code)

	m.transactions.AssertNotCalled(t, "Create")
}

func TestProcessSale_UnknownProductIsHardReject(t *testing.T) {
	service, m := newProcessor()

	m.products.On("GetByProductID", mock.Anything, "PRD-404").Return(nil, sql.ErrNoRows)

	_, _, err := service.ProcessSale(context.Background(), &domain.SaleRequest{
		Items:         []domain.CartLineRequest{{ProductID: "PRD-404", Quantity: 1}},
		PaymentMethod: domain.PaymentMethodCash,
		CashierID:     "EMP-1",
	})

	var businessErr *customError.BusinessError
	require.True(t, errors.As(err, &businessErr))
	assert.Equal(t, customError.ErrCodeProductNotFound, businessErr.Code)

	// nothing persisted, nothing adjusted
	m.transactions.AssertNotCalled(t, "Create")
	m.products.AssertNotCalled(t, "AdjustQuantity")
}

func TestProcessSale_InvalidCardNumber(t *testing.T) {
	service, _ := newProcessor()

	_, _, err := service.ProcessSale(context.Background(), &domain.SaleRequest{
		Items:         []domain.CartLineRequest{{ProductID: "PRD-1", Quantity: 1}},
		PaymentMethod: domain.PaymentMethodCard,
		CashierID:     "EMP-1",
		CardNumber:    "1234",
	})

	var businessErr *customError.BusinessError
	require.True(t, errors.As(err, &businessErr))
	assert.Equal(t, customError.ErrCodeValidation, businessErr.Code)
}

func TestProcessSale_LowStockNotification(t *testing.T) {
	service, m := newProcessor()

	product := stubProduct("PRD-1", 1.0, 12)
	m.products.On("GetByProductID", mock.Anything, "PRD-1").Return(product, nil)
	m.transactions.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.products.On("AdjustQuantity", mock.Anything, "PRD-1", -4).Return(stubProduct("PRD-1", 1.0, 8), nil)

	_, notifications, err := service.ProcessSale(context.Background(), &domain.SaleRequest{
		Items:         []domain.CartLineRequest{{ProductID: "PRD-1", Quantity: 4}},
		PaymentMethod: domain.PaymentMethodCash,
		CashierID:     "EMP-1",
	})

	require.NoError(t, err)
	require.Len(t, notifications, 2)
	assert.Equal(t, domain.EventLowStock, notifications[1].Event)
}

func TestProcessSale_PartialFailureAfterPersistence(t *testing.T) {
	service, m := newProcessor()

	product := stubProduct("PRD-1", 1.0, 50)
	m.products.On("GetByProductID", mock.Anything, "PRD-1").Return(product, nil)
	m.transactions.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.products.On("AdjustQuantity", mock.Anything, "PRD-1", -2).Return(nil, errors.New("connection reset"))

	transaction, _, err := service.ProcessSale(context.Background(), &domain.SaleRequest{
		Items:         []domain.CartLineRequest{{ProductID: "PRD-1", Quantity: 2}},
		PaymentMethod: domain.PaymentMethodCash,
		CashierID:     "EMP-1",
	})

	// the committed record is returned alongside the error, never rolled back
	require.NotNil(t, transaction)
	var businessErr *customError.BusinessError
	require.True(t, errors.As(err, &businessErr))
	assert.Equal(t, customError.ErrCodePartialFailure, businessErr.Code)
}

func TestProcessRental(t *testing.T) {
	service, m := newProcessor()

	product := stubProduct("PRD-1", 30.0, 5)
	product.IsRentable = true
	product.RentalPricePerDay = decimal.NewNullDecimal(decimal.NewFromFloat(5.0))

	customer := &domain.Customer{CustomerID: "CUST-1", Phone: "5551234567"}

	m.customers.On("GetByPhone", mock.Anything, "5551234567").Return(customer, nil)
	m.products.On("GetByProductID", mock.Anything, "PRD-1").Return(product, nil)
	m.transactions.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.customers.On("AppendRental", mock.Anything, "CUST-1", mock.MatchedBy(func(r *domain.RentalRecord) bool {
		return r.ProductID == "PRD-1" &&
			r.DueDate.Equal(r.RentedAt.AddDate(0, 0, 14)) &&
			r.LateFeePerDay.Equal(decimal.NewFromFloat(3.0)) // 10% of the sale price, not the rental price
	})).Return(nil)
	m.products.On("AdjustQuantity", mock.Anything, "PRD-1", -1).Return(stubProduct("PRD-1", 30.0, 4), nil)

	transaction, notifications, err := service.ProcessRental(context.Background(), &domain.RentalRequest{
		Items:         []domain.CartLineRequest{{ProductID: "PRD-1", Quantity: 1}},
		PaymentMethod: domain.PaymentMethodCash,
		CashierID:     "EMP-1",
		CustomerPhone: "5551234567",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.TransactionTypeRental, transaction.Type)
	assert.Equal(t, "CUST-1", transaction.CustomerID)
	// line priced at the per-day rental price: 5.00 * 1.06 = 5.30
	assert.True(t, transaction.Subtotal.Equal(decimal.NewFromFloat(5.0)), "subtotal: %v", transaction.Subtotal)
	assert.True(t, transaction.Total.Equal(decimal.NewFromFloat(5.3)), "total: %v", transaction.Total)
	assert.True(t, transaction.Discount.IsZero(), "rentals do not accept coupons")

	require.NotEmpty(t, notifications)
	assert.Equal(t, domain.EventRentalCompleted, notifications[0].Event)

	m.customers.AssertExpectations(t)
	m.products.AssertExpectations(t)
}

func TestProcessRental_CreatesMissingCustomer(t *testing.T) {
	service, m := newProcessor()

	product := stubProduct("PRD-1", 30.0, 5)
	product.IsRentable = true
	product.RentalPricePerDay = decimal.NewNullDecimal(decimal.NewFromFloat(5.0))

	m.customers.On("GetByPhone", mock.Anything, "5559876543").Return(nil, sql.ErrNoRows)
	m.customers.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Customer) bool {
		return c.Phone == "5559876543" && c.CustomerID != ""
	})).Return(nil)
	m.products.On("GetByProductID", mock.Anything, "PRD-1").Return(product, nil)
	m.transactions.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.customers.On("AppendRental", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.products.On("AdjustQuantity", mock.Anything, "PRD-1", -1).Return(stubProduct("PRD-1", 30.0, 4), nil)

	_, _, err := service.ProcessRental(context.Background(), &domain.RentalRequest{
		Items:         []domain.CartLineRequest{{ProductID: "PRD-1", Quantity: 1}},
		PaymentMethod: domain.PaymentMethodCash,
		CashierID:     "EMP-1",
		CustomerPhone: "5559876543",
	})

	require.NoError(t, err)
	m.customers.AssertExpectations(t)
}

func TestProcessRental_FallsBackToSalePrice(t *testing.T) {
	service, m := newProcessor()

	// rentable product without a rental price must not break processing
	product := stubProduct("PRD-1", 30.0, 5)
	product.IsRentable = true

	customer := &domain.Customer{CustomerID: "CUST-1", Phone: "5551234567"}

	m.customers.On("GetByPhone", mock.Anything, "5551234567").Return(customer, nil)
	m.products.On("GetByProductID", mock.Anything, "PRD-1").Return(product, nil)
	m.transactions.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.customers.On("AppendRental", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.products.On("AdjustQuantity", mock.Anything, "PRD-1", -1).Return(stubProduct("PRD-1", 30.0, 4), nil)

	transaction, _, err := service.ProcessRental(context.Background(), &domain.RentalRequest{
		Items:         []domain.CartLineRequest{{ProductID: "PRD-1", Quantity: 1}},
		PaymentMethod: domain.PaymentMethodCash,
		CashierID:     "EMP-1",
		CustomerPhone: "5551234567",
	})

	require.NoError(t, err)
	assert.True(t, transaction.Subtotal.Equal(decimal.NewFromFloat(30.0)), "subtotal: %v", transaction.Subtotal)
}

func TestProcessRental_MissingPhone(t *testing.T) {
	service, _ := newProcessor()

	_, _, err := service.ProcessRental(context.Background(), &domain.RentalRequest{
		Items:         []domain.CartLineRequest{{ProductID: "PRD-1", Quantity: 1}},
		PaymentMethod: domain.PaymentMethodCash,
		CashierID:     "EMP-1",
	})

	var businessErr *customError.BusinessError
	require.True(t, errors.As(err, &businessErr))
	assert.Equal(t, customError.ErrCodeValidation, businessErr.Code)
}

func TestProcessReturn_RentalReturnChargesLateFees(t *testing.T) {
	service, m := newProcessor()

	customer := &domain.Customer{CustomerID: "CUST-1", Phone: "5551234567"}
	m.customers.On("GetByPhone", mock.Anything, "5551234567").Return(customer, nil)

	var persisted *domain.Transaction
	m.transactions.On("Create", mock.Anything, mock.AnythingOfType("*domain.Transaction")).
		Run(func(args mock.Arguments) {
			persisted = args.Get(1).(*domain.Transaction)
		}).
		Return(nil)
	m.products.On("AdjustQuantity", mock.Anything, "PRD-1", 1).Return(stubProduct("PRD-1", 30.0, 6), nil)
	m.customers.On("MarkRentalReturned", mock.Anything, "CUST-1", "PRD-1", mock.Anything).Return(nil)

	// $30/day item, 16 days past due: 30 * 0.10 * 16 * 1 = 48.00
	transaction, notifications, err := service.ProcessReturn(context.Background(), &domain.ReturnRequest{
		Items: []domain.ReturnLineRequest{{
			ProductID:         "PRD-1",
			ProductName:       "Power drill",
			Quantity:          1,
			DaysLate:          16,
			OriginalUnitPrice: decimal.NewFromFloat(30.0),
		}},
		PaymentMethod:  domain.PaymentMethodCash,
		CashierID:      "EMP-1",
		CustomerPhone:  "5551234567",
		IsRentalReturn: true,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.TransactionTypeReturn, transaction.Type)
	// no refund of the rental price: the line subtotal is forced to zero
	assert.True(t, transaction.Subtotal.IsZero(), "subtotal: %v", transaction.Subtotal)
	assert.True(t, transaction.Tax.IsZero())
	assert.True(t, transaction.LateFees.Equal(decimal.NewFromFloat(48.0)), "late fees: %v", transaction.LateFees)
	// a charge owed by the customer, so the total is positive
	assert.True(t, transaction.Total.Equal(decimal.NewFromFloat(48.0)), "total: %v", transaction.Total)

	require.NotNil(t, persisted)
	require.Len(t, persisted.Items, 1)
	assert.True(t, persisted.Items[0].LateFee.Valid)
	assert.True(t, persisted.Items[0].LateFee.Decimal.Equal(decimal.NewFromFloat(48.0)))

	require.NotEmpty(t, notifications)
	assert.Equal(t, domain.EventReturnCompleted, notifications[0].Event)

	m.customers.AssertExpectations(t)
	m.products.AssertExpectations(t)
}

func TestProcessReturn_UnsatisfactoryItemRefunds(t *testing.T) {
	service, m := newProcessor()

	customer := &domain.Customer{CustomerID: "CUST-1", Phone: "5551234567"}
	m.customers.On("GetByPhone", mock.Anything, "5551234567").Return(customer, nil)
	m.transactions.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.products.On("AdjustQuantity", mock.Anything, "PRD-9", 1).Return(stubProduct("PRD-9", 15.0, 3), nil)

	transaction, _, err := service.ProcessReturn(context.Background(), &domain.ReturnRequest{
		Items: []domain.ReturnLineRequest{{
			ProductID:         "PRD-9",
			ProductName:       "Garden hose",
			Quantity:          1,
			OriginalUnitPrice: decimal.NewFromFloat(15.0),
		}},
		PaymentMethod: domain.PaymentMethodCash,
		CashierID:     "EMP-1",
		CustomerPhone: "5551234567",
	})

	require.NoError(t, err)
	// a refund owed to the customer: total is negative, never taxed
	assert.True(t, transaction.Total.Equal(decimal.NewFromFloat(-15.0)), "total: %v", transaction.Total)
	assert.True(t, transaction.Tax.IsZero())
	assert.True(t, transaction.LateFees.IsZero())

	// no rental-ledger interaction for an unsatisfactory-item return
	m.customers.AssertNotCalled(t, "MarkRentalReturned")
}

func TestProcessReturn_UnknownCustomerDegrades(t *testing.T) {
	service, m := newProcessor()

	m.customers.On("GetByPhone", mock.Anything, "5550000000").Return(nil, sql.ErrNoRows)
	m.transactions.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.products.On("AdjustQuantity", mock.Anything, "PRD-9", 2).Return(stubProduct("PRD-9", 15.0, 5), nil)

	transaction, _, err := service.ProcessReturn(context.Background(), &domain.ReturnRequest{
		Items: []domain.ReturnLineRequest{{
			ProductID:         "PRD-9",
			ProductName:       "Garden hose",
			Quantity:          2,
			OriginalUnitPrice: decimal.NewFromFloat(15.0),
		}},
		PaymentMethod: domain.PaymentMethodCash,
		CashierID:     "EMP-1",
		CustomerPhone: "5550000000",
	})

	require.NoError(t, err)
	assert.Empty(t, transaction.CustomerID)
	assert.True(t, transaction.Total.Equal(decimal.NewFromFloat(-30.0)), "total: %v", transaction.Total)
}

func TestProcessReturn_MissingPhone(t *testing.T) {
	service, m := newProcessor()

	_, _, err := service.ProcessReturn(context.Background(), &domain.ReturnRequest{
		Items: []domain.ReturnLineRequest{{
			ProductID:         "PRD-9",
			Quantity:          1,
			OriginalUnitPrice: decimal.NewFromFloat(15.0),
		}},
		PaymentMethod: domain.PaymentMethodCash,
		CashierID:     "EMP-1",
	})

	var businessErr *customError.BusinessError
	require.True(t, errors.As(err, &businessErr))
	assert.Equal(t, customError.ErrCodeValidation, businessErr.Code)

	m.transactions.AssertNotCalled(t, "Create")
}
