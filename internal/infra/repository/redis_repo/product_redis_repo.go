package redis_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// IProductStockCache 商品庫存快取, DB 才是真相來源
type IProductStockCache interface {
	// SetProductStock 寫入庫存快取
	SetProductStock(ctx context.Context, productID string, stock int) error

	// GetProductStock 取得庫存快取
	// 錯誤:
	//   - ErrStockCacheMiss: 快取不存在
	GetProductStock(ctx context.Context, productID string) (int, error)

	// DeleteProductStock 失效快取
	DeleteProductStock(ctx context.Context, productIDs ...string) error
}

var ErrStockCacheMiss = errors.New("product stock cache miss")

/*
結構:
product:{商品ID}:stock -> 100
ttl 到期後由 DB 重新載入
*/
type ProductRedisRepo struct {
	productCache *redis.Client
	ttl          time.Duration
}

func NewProductRedisRepo(productCache *redis.Client, ttl time.Duration) *ProductRedisRepo {
	return &ProductRedisRepo{productCache: productCache, ttl: ttl}
}

func generateProductStockKey(productID string) string {
	return fmt.Sprintf("product:%s:stock", productID)
}

func (s *ProductRedisRepo) SetProductStock(ctx context.Context, productID string, stock int) error {
	return s.productCache.Set(ctx, generateProductStockKey(productID), stock, s.ttl).Err()
}

func (s *ProductRedisRepo) GetProductStock(ctx context.Context, productID string) (int, error) {
	stock, err := s.productCache.Get(ctx, generateProductStockKey(productID)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, ErrStockCacheMiss
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get product stock %s: %w", productID, err)
	}
	return stock, nil
}

func (s *ProductRedisRepo) DeleteProductStock(ctx context.Context, productIDs ...string) error {
	if len(productIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		keys = append(keys, generateProductStockKey(id))
	}
	return s.productCache.Del(ctx, keys...).Err()
}

var _ IProductStockCache = (*ProductRedisRepo)(nil)
