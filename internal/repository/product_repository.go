package repository

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/Khawar13/web-pos/internal/domain"

	"github.com/jmoiron/sqlx"
)

type productRepository struct {
	db                *sqlx.DB
	lowStockThreshold int
}

func NewProductRepository(db *sqlx.DB, lowStockThreshold int) ProductRepository {
	return &productRepository{db: db, lowStockThreshold: lowStockThreshold}
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, product_id, name, description, price, cost, quantity, category, barcode, is_active, is_rentable, rental_price_per_day, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.ExecContext(ctx, query,
		product.ID,
		product.ProductID,
		product.Name,
		product.Description,
		product.Price,
		product.Cost,
		product.Quantity,
		product.Category,
		product.Barcode,
		product.IsActive,
		product.IsRentable,
		product.RentalPricePerDay,
		product.CreatedAt,
		product.UpdatedAt,
	)

	return err
}

func (r *productRepository) GetByProductID(ctx context.Context, productID string) (*domain.Product, error) {
	query := `
		SELECT id, product_id, name, description, price, cost, quantity, category, barcode, is_active, is_rentable, rental_price_per_day, created_at, updated_at
		FROM products
		WHERE product_id = $1
	`

	var product domain.Product
	err := r.db.GetContext(ctx, &product, query, productID)
	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, cost = $5, quantity = $6, category = $7, barcode = $8, is_active = $9, is_rentable = $10, rental_price_per_day = $11, updated_at = $12
		WHERE product_id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		product.ProductID,
		product.Name,
		product.Description,
		product.Price,
		product.Cost,
		product.Quantity,
		product.Category,
		product.Barcode,
		product.IsActive,
		product.IsRentable,
		product.RentalPricePerDay,
		time.Now(),
	)

	return err
}

func (r *productRepository) List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	query := `
		SELECT id, product_id, name, description, price, cost, quantity, category, barcode, is_active, is_rentable, rental_price_per_day, created_at, updated_at
		FROM products
		WHERE is_active = true
	`
	args := []interface{}{}

	if filter.Category != "" {
		args = append(args, filter.Category)
		query += ` AND category = $` + strconv.Itoa(len(args))
	}

	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%", filter.Search)
		query += ` AND (LOWER(name) LIKE $` + strconv.Itoa(len(args)-1) +
			` OR barcode = $` + strconv.Itoa(len(args)) +
			` OR product_id = $` + strconv.Itoa(len(args)) + `)`
	}

	if filter.RentableOnly {
		query += ` AND is_rentable = true`
	}

	if filter.LowStockOnly {
		args = append(args, r.lowStockThreshold)
		query += ` AND quantity <= $` + strconv.Itoa(len(args))
		if !filter.IncludeZeroes {
			query += ` AND quantity > 0`
		}
	}

	query += ` ORDER BY category, name`

	var products []*domain.Product
	err := r.db.SelectContext(ctx, &products, query, args...)
	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepository) AdjustQuantity(ctx context.Context, productID string, delta int) (*domain.Product, error) {
	// Single conditional update so concurrent adjustments cannot interleave
	// a read with a stale write. The clamp mirrors the catalog contract:
	// over-consumption floors at zero rather than failing.
	query := `
		UPDATE products
		SET quantity = GREATEST(0, quantity + $2), updated_at = $3
		WHERE product_id = $1
		RETURNING id, product_id, name, description, price, cost, quantity, category, barcode, is_active, is_rentable, rental_price_per_day, created_at, updated_at
	`

	var product domain.Product
	err := r.db.GetContext(ctx, &product, query, productID, delta, time.Now())
	if err != nil {
		return nil, err
	}

	return &product, nil
}
