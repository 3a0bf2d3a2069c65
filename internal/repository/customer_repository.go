package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Khawar13/web-pos/internal/domain"

	"github.com/jmoiron/sqlx"
)

type customerRepository struct {
	db *sqlx.DB
}

func NewCustomerRepository(db *sqlx.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	query := `
		INSERT INTO customers (id, customer_id, name, email, phone, address, loyalty_points, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		customer.ID,
		customer.CustomerID,
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.Address,
		customer.LoyaltyPoints,
		customer.CreatedAt,
	)

	return err
}

func (r *customerRepository) GetByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	query := `
		SELECT id, customer_id, name, email, phone, address, loyalty_points, created_at
		FROM customers
		WHERE phone = $1
	`

	var customer domain.Customer
	err := r.db.GetContext(ctx, &customer, query, phone)
	if err != nil {
		return nil, err
	}

	return &customer, nil
}

func (r *customerRepository) AppendRental(ctx context.Context, customerID string, record *domain.RentalRecord) error {
	query := `
		INSERT INTO rental_records (id, customer_id, product_id, product_name, quantity, rented_at, due_date, returned_at, is_returned, late_fee_per_day)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		customerID,
		record.ProductID,
		record.ProductName,
		record.Quantity,
		record.RentedAt,
		record.DueDate,
		record.ReturnedAt,
		record.IsReturned,
		record.LateFeePerDay,
	)

	return err
}

func (r *customerRepository) OutstandingRentals(ctx context.Context, customerID string) ([]*domain.RentalRecord, error) {
	query := `
		SELECT id, customer_id, product_id, product_name, quantity, rented_at, due_date, returned_at, is_returned, late_fee_per_day
		FROM rental_records
		WHERE customer_id = $1 AND is_returned = false
		ORDER BY rented_at, id
	`

	var records []*domain.RentalRecord
	err := r.db.SelectContext(ctx, &records, query, customerID)
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *customerRepository) MarkRentalReturned(ctx context.Context, customerID, productID string, returnedAt time.Time) error {
	// Closes the oldest open record for the product. One rental event per
	// call; a customer who rented the same product twice needs two calls.
	query := `
		UPDATE rental_records
		SET is_returned = true, returned_at = $3
		WHERE id = (
			SELECT id FROM rental_records
			WHERE customer_id = $1 AND product_id = $2 AND is_returned = false
			ORDER BY rented_at, id
			LIMIT 1
		)
	`

	result, err := r.db.ExecContext(ctx, query, customerID, productID, returnedAt)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *customerRepository) ListOverdueRentals(ctx context.Context, asOf time.Time) ([]*domain.RentalRecord, error) {
	query := `
		SELECT id, customer_id, product_id, product_name, quantity, rented_at, due_date, returned_at, is_returned, late_fee_per_day
		FROM rental_records
		WHERE is_returned = false AND due_date < $1
		ORDER BY due_date, customer_id
	`

	var records []*domain.RentalRecord
	err := r.db.SelectContext(ctx, &records, query, asOf)
	if err != nil {
		return nil, err
	}

	return records, nil
}
