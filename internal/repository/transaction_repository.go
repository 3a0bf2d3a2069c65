package repository

import (
	"context"
	"time"

	"github.com/Khawar13/web-pos/internal/domain"

	"github.com/jmoiron/sqlx"
)

type transactionRepository struct {
	db *sqlx.DB
}

func NewTransactionRepository(db *sqlx.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, transaction *domain.Transaction) error {
	txQuery := `
		INSERT INTO transactions (id, transaction_id, type, customer_id, customer_phone, subtotal, tax, tax_rate, discount, total, late_fees, payment_method, payment_status, cashier_id, coupon_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	itemQuery := `
		INSERT INTO transaction_items (id, transaction_id, product_id, product_name, quantity, unit_price, subtotal, discount, days_late, late_fee)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, txQuery,
		transaction.ID,
		transaction.TransactionID,
		transaction.Type,
		transaction.CustomerID,
		transaction.CustomerPhone,
		transaction.Subtotal,
		transaction.Tax,
		transaction.TaxRate,
		transaction.Discount,
		transaction.Total,
		transaction.LateFees,
		transaction.PaymentMethod,
		transaction.PaymentStatus,
		transaction.CashierID,
		transaction.CouponCode,
		transaction.CreatedAt,
	)
	if err != nil {
		return err
	}

	for _, item := range transaction.Items {
		_, err = tx.ExecContext(ctx, itemQuery,
			item.ID,
			transaction.TransactionID,
			item.ProductID,
			item.ProductName,
			item.Quantity,
			item.UnitPrice,
			item.Subtotal,
			item.Discount,
			item.DaysLate,
			item.LateFee,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *transactionRepository) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `
		SELECT id, transaction_id, type, customer_id, customer_phone, subtotal, tax, tax_rate, discount, total, late_fees, payment_method, payment_status, cashier_id, coupon_code, created_at
		FROM transactions
		WHERE transaction_id = $1
	`

	var transaction domain.Transaction
	err := r.db.GetContext(ctx, &transaction, query, transactionID)
	if err != nil {
		return nil, err
	}

	items, err := r.itemsFor(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	transaction.Items = items

	return &transaction, nil
}

func (r *transactionRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Transaction, error) {
	query := `
		SELECT id, transaction_id, type, customer_id, customer_phone, subtotal, tax, tax_rate, discount, total, late_fees, payment_method, payment_status, cashier_id, coupon_code, created_at
		FROM transactions
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at
	`

	var transactions []*domain.Transaction
	err := r.db.SelectContext(ctx, &transactions, query, start, end)
	if err != nil {
		return nil, err
	}

	if len(transactions) == 0 {
		return transactions, nil
	}

	itemQuery := `
		SELECT i.id, i.transaction_id, i.product_id, i.product_name, i.quantity, i.unit_price, i.subtotal, i.discount, i.days_late, i.late_fee
		FROM transaction_items i
		JOIN transactions t ON t.transaction_id = i.transaction_id
		WHERE t.created_at >= $1 AND t.created_at < $2
	`

	var items []*domain.TransactionItem
	if err := r.db.SelectContext(ctx, &items, itemQuery, start, end); err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.Transaction, len(transactions))
	for _, t := range transactions {
		byID[t.TransactionID] = t
	}
	for _, item := range items {
		if t, ok := byID[item.TransactionID]; ok {
			t.Items = append(t.Items, item)
		}
	}

	return transactions, nil
}

func (r *transactionRepository) itemsFor(ctx context.Context, transactionID string) ([]*domain.TransactionItem, error) {
	query := `
		SELECT id, transaction_id, product_id, product_name, quantity, unit_price, subtotal, discount, days_late, late_fee
		FROM transaction_items
		WHERE transaction_id = $1
		ORDER BY id
	`

	var items []*domain.TransactionItem
	err := r.db.SelectContext(ctx, &items, query, transactionID)
	if err != nil {
		return nil, err
	}

	return items, nil
}
