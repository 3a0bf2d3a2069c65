package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/Khawar13/web-pos/internal/domain"
	"github.com/Khawar13/web-pos/internal/repository"

	"github.com/redis/go-redis/v9"
)

const productCacheKeyPrefix = "product:"

// ProductCaching is a read-through cache in front of the product repository.
// Catalog rows are read far more often than they change (every cart line
// resolves one), so lookups are served from redis and invalidated whenever a
// write goes through. Redis failures are logged, never returned: the catalog
// stays authoritative.
type ProductCaching struct {
	repository.ProductRepository

	Redis *redis.Client
	TTL   time.Duration
}

func NewProductCaching(repo repository.ProductRepository, redis *redis.Client, ttl time.Duration) *ProductCaching {
	return &ProductCaching{
		ProductRepository: repo,
		Redis:             redis,
		TTL:               ttl,
	}
}

func (c *ProductCaching) GetByProductID(ctx context.Context, productID string) (*domain.Product, error) {
	key := productCacheKeyPrefix + productID

	val, err := c.Redis.Get(ctx, key).Result()
	switch {
	case err == redis.Nil:
		// cache miss, fall through to the repository
	case err != nil:
		log.Printf("can't get product from redis: %v", err)
	default:
		var product domain.Product
		if err := json.Unmarshal([]byte(val), &product); err != nil {
			log.Printf("can't decode cached product %s: %v", productID, err)
			break
		}
		return &product, nil
	}

	product, err := c.ProductRepository.GetByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(product); err == nil {
		if err := c.Redis.Set(ctx, key, data, c.TTL).Err(); err != nil {
			log.Printf("can't cache product %s: %v", productID, err)
		}
	}

	return product, nil
}

func (c *ProductCaching) AdjustQuantity(ctx context.Context, productID string, delta int) (*domain.Product, error) {
	product, err := c.ProductRepository.AdjustQuantity(ctx, productID, delta)
	if err != nil {
		return nil, err
	}

	c.invalidate(ctx, productID)
	return product, nil
}

func (c *ProductCaching) Update(ctx context.Context, product *domain.Product) error {
	if err := c.ProductRepository.Update(ctx, product); err != nil {
		return err
	}

	c.invalidate(ctx, product.ProductID)
	return nil
}

func (c *ProductCaching) invalidate(ctx context.Context, productID string) {
	if err := c.Redis.Del(ctx, productCacheKeyPrefix+productID).Err(); err != nil {
		log.Printf("can't invalidate cached product %s: %v", productID, err)
	}
}
