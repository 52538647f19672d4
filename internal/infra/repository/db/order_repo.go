package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/RoyceAzure/lab/cafe_erp/internal/domain/model"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrDuplicateOrderID = errors.New("duplicate order id")
)

type OrderRepo struct {
	db *DbDao
}

func NewOrderRepo(db *DbDao) *OrderRepo {
	return &OrderRepo{db: db}
}

// Create - 建立訂單, 訂單不可覆蓋
func (r *OrderRepo) CreateOrder(ctx context.Context, order *model.Order) error {
	err := r.db.WithContext(ctx).Create(order).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s", ErrDuplicateOrderID, order.ID)
	}
	return err
}

// Read - 根據 ID 取得訂單
func (r *OrderRepo) GetOrderByID(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
		}
		return nil, err
	}
	return &order, nil
}

// Read - 取得所有訂單, 新到舊
func (r *OrderRepo) GetAllOrders(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).Order("placed_at_ms DESC").Find(&orders).Error
	return orders, err
}

// Read - [fromMs, toMs) 區間內的訂單, 舊到新
func (r *OrderRepo) GetOrdersByTimeRange(ctx context.Context, fromMs, toMs int64) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Where("placed_at_ms >= ? AND placed_at_ms < ?", fromMs, toMs).
		Order("placed_at_ms ASC").
		Find(&orders).Error
	return orders, err
}

// Update - 條件式狀態轉換, 回傳是否真的有轉換
// 狀態已不是 from 時回傳 false, 不視為錯誤
func (r *OrderRepo) UpdateOrderStatus(ctx context.Context, id string, from, to model.OrderStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
