package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/RoyceAzure/lab/cafe_erp/internal/domain/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrProductNotFound 商品不存在
	ErrProductNotFound = errors.New("product not found")
	// ErrProductStockNotEnough 商品庫存不足
	ErrProductStockNotEnough = errors.New("product stock not enough")
	// ErrInvalidStockQuantity 異動數量必須為正
	ErrInvalidStockQuantity = errors.New("stock quantity must be positive")
)

/*
DB 為庫存唯一真相來源
redis 只做 cache-aside, 異動後由上層失效
*/
type ProductDBRepo struct {
	db *DbDao
}

func NewProductDBRepo(db *DbDao) *ProductDBRepo {
	return &ProductDBRepo{db: db}
}

func (s *ProductDBRepo) CreateProduct(ctx context.Context, product *model.Product) error {
	return s.db.WithContext(ctx).Create(product).Error
}

// SaveProduct upsert, created_at 不覆蓋
func (s *ProductDBRepo) SaveProduct(ctx context.Context, product *model.Product) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(product).Error
}

func (s *ProductDBRepo) GetProductByID(ctx context.Context, productID string) (*model.Product, error) {
	var productFromDB model.Product
	err := s.db.WithContext(ctx).Where("id = ?", productID).First(&productFromDB).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
		}
		return nil, err
	}
	return &productFromDB, nil
}

func (s *ProductDBRepo) GetProductsByIDs(ctx context.Context, productIDs []string) ([]model.Product, error) {
	var products []model.Product
	if len(productIDs) == 0 {
		return products, nil
	}
	err := s.db.WithContext(ctx).Where("id IN ?", productIDs).Find(&products).Error
	return products, err
}

func (s *ProductDBRepo) GetAllProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := s.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&products).Error
	return products, err
}

// GetLowStockProducts stock < min_stock
func (s *ProductDBRepo) GetLowStockProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := s.db.WithContext(ctx).Where("stock < min_stock").Order("stock ASC, id ASC").Find(&products).Error
	return products, err
}

func (s *ProductDBRepo) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Product{}).Count(&count).Error
	return count, err
}

// HardDeleteProduct 不存在時不報錯
func (s *ProductDBRepo) HardDeleteProduct(ctx context.Context, productID string) error {
	return s.db.WithContext(ctx).Where("id = ?", productID).Delete(&model.Product{}).Error
}

func (s *ProductDBRepo) GetProductStock(ctx context.Context, productID string) (int, error) {
	var stocks []int
	err := s.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", productID).
		Pluck("stock", &stocks).Error
	if err != nil {
		return 0, err
	}
	if len(stocks) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	return stocks[0], nil
}

// AddProductStock 回補庫存, 不設上限
func (s *ProductDBRepo) AddProductStock(ctx context.Context, productID string, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, ErrInvalidStockQuantity
	}

	res := s.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", productID).
		Update("stock", gorm.Expr("stock + ?", quantity))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	return s.GetProductStock(ctx, productID)
}

// DeductProductStock 單一條件式 UPDATE, 檢查與扣減不可分割
// 庫存不足時不做任何異動
func (s *ProductDBRepo) DeductProductStock(ctx context.Context, productID string, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, ErrInvalidStockQuantity
	}

	res := s.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return 0, res.Error
	}

	if res.RowsAffected == 0 {
		// 區分商品不存在與庫存不足
		current, err := s.GetProductStock(ctx, productID)
		if err != nil {
			return 0, err
		}
		return current, fmt.Errorf("%w: product %s has %d, need %d", ErrProductStockNotEnough, productID, current, quantity)
	}
	return s.GetProductStock(ctx, productID)
}
