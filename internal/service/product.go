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

	"github.com/google/uuid"
)

// ProductService handles catalog operations outside the transaction flows:
// listing, search, creation and direct stock updates.
type ProductService struct {
	productRepo repository.ProductRepository
	config      *config.Config
}

func NewProductService(productRepo repository.ProductRepository, config *config.Config) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		config:      config,
	}
}

func (s *ProductService) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	product, err := s.productRepo.GetByProductID(ctx, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapProductNotFound(productID)
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return product, nil
}

func (s *ProductService) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	products, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return products, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, request *domain.CreateProductRequest) (*domain.Product, error) {
	now := time.Now()
	product := &domain.Product{
		ID:                uuid.New(),
		ProductID:         fmt.Sprintf("PRD-%d", now.UnixMilli()),
		Name:              request.Name,
		Description:       request.Description,
		Price:             request.Price,
		Cost:              request.Cost,
		Quantity:          request.Quantity,
		Category:          request.Category,
		Barcode:           request.Barcode,
		IsActive:          true,
		IsRentable:        request.IsRentable,
		RentalPricePerDay: request.RentalPricePerDay,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return product, nil
}

// UpdateStock applies a direct stock correction (receiving, shrinkage) and
// reports a low-stock notification when the result crosses the threshold.
func (s *ProductService) UpdateStock(ctx context.Context, productID string, delta int) (*domain.Product, []domain.Notification, error) {
	product, err := s.productRepo.AdjustQuantity(ctx, productID, delta)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, customError.WrapProductNotFound(productID)
		}
		return nil, nil, customError.WrapDatabaseError(err)
	}

	var notifications []domain.Notification
	if product.Quantity <= s.config.Business.LowStockThreshold {
		notifications = append(notifications, domain.Notification{
			Event:     domain.EventLowStock,
			Message:   fmt.Sprintf("Low stock alert: %s", product.Name),
			Data:      product,
			Timestamp: time.Now(),
		})
	}

	return product, notifications, nil
}
