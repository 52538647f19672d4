package redis_decorator

import (
	"context"
	"errors"
	"reflect"

	"github.com/RoyceAzure/lab/cafe_erp/internal/domain/model"
	"github.com/RoyceAzure/lab/cafe_erp/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/cafe_erp/internal/infra/repository/redis_repo"
	"github.com/rs/zerolog"
)

/*
cache-aside
讀: 先讀 redis, miss 時讀 DB 並回填
寫: 先寫 DB, 成功後失效 redis
redis 失效失敗只記 log, 由 ttl 兜底
*/
type CacheAsideProductRepo struct {
	db.IProductRepository
	redis  redis_repo.IProductStockCache
	logger zerolog.Logger
}

func NewCacheAsideProductRepo(dbRepo db.IProductRepository, redis redis_repo.IProductStockCache, logger zerolog.Logger) *CacheAsideProductRepo {
	v1 := reflect.ValueOf(dbRepo)
	if !v1.IsValid() || (v1.Kind() == reflect.Ptr && v1.IsNil()) {
		panic("NewCacheAsideProductRepo: db repository implementation cannot be nil")
	}
	v2 := reflect.ValueOf(redis)
	if !v2.IsValid() || (v2.Kind() == reflect.Ptr && v2.IsNil()) {
		panic("NewCacheAsideProductRepo: redis repository implementation cannot be nil")
	}

	return &CacheAsideProductRepo{
		IProductRepository: dbRepo,
		redis:              redis,
		logger:             logger.With().Str("component", "product_stock_cache").Logger(),
	}
}

func (p *CacheAsideProductRepo) GetProductStock(ctx context.Context, productID string) (int, error) {
	stock, err := p.redis.GetProductStock(ctx, productID)
	if err == nil {
		return stock, nil
	}
	if !errors.Is(err, redis_repo.ErrStockCacheMiss) {
		p.logger.Warn().Err(err).Str("product_id", productID).Msg("read stock cache failed, fallback to db")
	}

	stock, err = p.IProductRepository.GetProductStock(ctx, productID)
	if err != nil {
		return 0, err
	}
	if err := p.redis.SetProductStock(ctx, productID, stock); err != nil {
		p.logger.Warn().Err(err).Str("product_id", productID).Msg("fill stock cache failed")
	}
	return stock, nil
}

func (p *CacheAsideProductRepo) SaveProduct(ctx context.Context, product *model.Product) error {
	if err := p.IProductRepository.SaveProduct(ctx, product); err != nil {
		return err
	}
	p.InvalidateStock(ctx, product.ID)
	return nil
}

func (p *CacheAsideProductRepo) CreateProduct(ctx context.Context, product *model.Product) error {
	if err := p.IProductRepository.CreateProduct(ctx, product); err != nil {
		return err
	}
	p.InvalidateStock(ctx, product.ID)
	return nil
}

func (p *CacheAsideProductRepo) HardDeleteProduct(ctx context.Context, productID string) error {
	if err := p.IProductRepository.HardDeleteProduct(ctx, productID); err != nil {
		return err
	}
	p.InvalidateStock(ctx, productID)
	return nil
}

func (p *CacheAsideProductRepo) AddProductStock(ctx context.Context, productID string, quantity int) (int, error) {
	stock, err := p.IProductRepository.AddProductStock(ctx, productID, quantity)
	if err != nil {
		return 0, err
	}
	p.InvalidateStock(ctx, productID)
	return stock, nil
}

func (p *CacheAsideProductRepo) DeductProductStock(ctx context.Context, productID string, quantity int) (int, error) {
	stock, err := p.IProductRepository.DeductProductStock(ctx, productID, quantity)
	if err != nil {
		return 0, err
	}
	p.InvalidateStock(ctx, productID)
	return stock, nil
}

// InvalidateStock 交易 commit 後由上層呼叫
func (p *CacheAsideProductRepo) InvalidateStock(ctx context.Context, productIDs ...string) {
	if err := p.redis.DeleteProductStock(ctx, productIDs...); err != nil {
		p.logger.Warn().Err(err).Strs("product_ids", productIDs).Msg("invalidate stock cache failed")
	}
}

var _ db.IProductRepository = (*CacheAsideProductRepo)(nil)
