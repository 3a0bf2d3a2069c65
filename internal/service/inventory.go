package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Khawar13/web-pos/internal/domain"
	"github.com/Khawar13/web-pos/internal/repository"
	customError "github.com/Khawar13/web-pos/pkg/errors"
)

// InventoryService applies signed quantity deltas to the product catalog.
// The adjustment is a single conditional update at the storage layer, so it
// never reports insufficient stock: over-consumption clamps at zero. Stock
// sufficiency is checked by callers before processing, not here.
type InventoryService struct {
	productRepo repository.ProductRepository
}

func NewInventoryService(productRepo repository.ProductRepository) *InventoryService {
	return &InventoryService{productRepo: productRepo}
}

// Adjust applies the delta and returns the product as stored afterwards.
func (s *InventoryService) Adjust(ctx context.Context, productID string, delta int) (*domain.Product, error) {
	product, err := s.productRepo.AdjustQuantity(ctx, productID, delta)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapProductNotFound(productID)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	return product, nil
}
