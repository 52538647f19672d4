package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RoyceAzure/lab/cafe_erp/internal/domain/model"
	"github.com/RoyceAzure/lab/cafe_erp/internal/infra/repository/db"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const publishTimeout = 5 * time.Second

type IOrderService interface {
	CompleteOrder(ctx context.Context, items []model.OrderItem, paymentMethod model.PaymentMethod) (*model.Order, error)
	CancelOrder(ctx context.Context, orderID string) (*model.Order, error)
	GetOrder(ctx context.Context, orderID string) (*model.Order, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]model.Order, error)
}

// OrderEventPublisher commit 後的事件出口
type OrderEventPublisher interface {
	PublishOrderEvent(ctx context.Context, evt model.OrderEvent) error
}

// StockCacheInvalidator 庫存快取失效
type StockCacheInvalidator interface {
	InvalidateStock(ctx context.Context, productIDs ...string)
}

type OrderServiceOption func(*OrderService)

func WithOrderClock(now func() time.Time) OrderServiceOption {
	return func(o *OrderService) {
		o.now = now
	}
}

func WithOrderIDGenerator(newID func() string) OrderServiceOption {
	return func(o *OrderService) {
		o.newID = newID
	}
}

// WithStockCache 不設定時不做快取失效
func WithStockCache(cache StockCacheInvalidator) OrderServiceOption {
	return func(o *OrderService) {
		o.stockCache = cache
	}
}

/*
訂單交易核心
寫入訂單與扣庫存在同一個交易, 任何一步失敗整筆回滾
快取失效與事件發送只在 commit 後執行, 失敗不影響已成立的訂單
*/
type OrderService struct {
	store      db.UnifiedDB
	publisher  OrderEventPublisher
	stockCache StockCacheInvalidator
	logger     zerolog.Logger
	now        func() time.Time
	newID      func() string
}

func NewOrderService(store db.UnifiedDB, publisher OrderEventPublisher, logger zerolog.Logger, opts ...OrderServiceOption) *OrderService {
	o := &OrderService{
		store:     store,
		publisher: publisher,
		logger:    logger.With().Str("component", "order_service").Logger(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// CompleteOrder 購物車結帳
// 稅率每次重新讀取設定, 員工為 id 最小的打卡中員工
func (o *OrderService) CompleteOrder(ctx context.Context, items []model.OrderItem, paymentMethod model.PaymentMethod) (*model.Order, error) {
	const op = "CompleteOrder"

	if err := validateOrderItems(items); err != nil {
		return nil, newError(KindValidation, op, err)
	}
	if !paymentMethod.IsValid() {
		return nil, newError(KindValidation, op, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, paymentMethod))
	}

	cfg, err := o.store.GetOrCreateStoreConfig(ctx, model.DefaultStoreConfig())
	if err != nil {
		return nil, newError(KindPersistence, op, fmt.Errorf("read store config: %w", err))
	}
	staffLabel, err := activeStaffLabel(ctx, o.store)
	if err != nil {
		return nil, newError(KindPersistence, op, fmt.Errorf("read active staff: %w", err))
	}

	lines := make([]model.OrderItem, len(items))
	copy(lines, items)
	totals := CalculateOrderTotals(lines, cfg.TaxRate)

	order := &model.Order{
		ID:            o.newID(),
		Items:         lines,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		Total:         totals.Total,
		Profit:        totals.Profit,
		Timestamp:     o.now().UnixMilli(),
		PaymentMethod: paymentMethod,
		StaffID:       staffLabel,
		Status:        model.OrderStatusCompleted,
	}

	err = o.store.ExecTx(ctx, func(tx db.UnifiedDB) error {
		// 寫入前先確認商品都存在
		if err := ensureProductsExist(ctx, tx, lines); err != nil {
			return err
		}

		if err := tx.CreateOrder(ctx, order); err != nil {
			return newError(KindPersistence, op, fmt.Errorf("insert order %s: %w", order.ID, err))
		}

		for _, item := range lines {
			if _, err := tx.DeductProductStock(ctx, item.ProductID, item.Quantity); err != nil {
				switch {
				case errors.Is(err, db.ErrProductStockNotEnough):
					return newError(KindStockConflict, op, fmt.Errorf("%w: %s: %w", ErrInsufficientStock, item.Name, err))
				case errors.Is(err, db.ErrProductNotFound):
					return newError(KindValidation, op, fmt.Errorf("%w: %w", ErrUnknownProduct, err))
				default:
					return newError(KindPersistence, op, fmt.Errorf("deduct stock of %s: %w", item.ProductID, err))
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, asServiceError(op, err)
	}

	o.logger.Info().
		Str("order_id", order.ID).
		Str("total", order.Total.StringFixed(2)).
		Str("payment_method", string(order.PaymentMethod)).
		Str("staff", order.StaffID).
		Msg("order completed")

	o.afterCommit(ctx, model.OrderCompletedEvent, order)
	return order, nil
}

// CancelOrder 冪等, 已取消的訂單直接回傳
// 已刪除的商品略過回補並記錄 warning
func (o *OrderService) CancelOrder(ctx context.Context, orderID string) (*model.Order, error) {
	const op = "CancelOrder"
	if orderID == "" {
		return nil, newError(KindValidation, op, fmt.Errorf("%w: empty order id", ErrOrderNotExist))
	}

	var (
		result          *model.Order
		changed         bool
		missingProducts []string
	)
	err := o.store.ExecTx(ctx, func(tx db.UnifiedDB) error {
		order, err := getOrder(ctx, tx, op, orderID)
		if err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(model.OrderStatusCancelled) {
			result = order
			return nil
		}

		flipped, err := tx.UpdateOrderStatus(ctx, orderID, model.OrderStatusCompleted, model.OrderStatusCancelled)
		if err != nil {
			return newError(KindPersistence, op, fmt.Errorf("update order status: %w", err))
		}
		if !flipped {
			// 狀態已被改變, 以目前狀態為準
			result, err = getOrder(ctx, tx, op, orderID)
			return err
		}

		for _, item := range order.Items {
			if item.Quantity <= 0 {
				continue
			}
			if _, err := tx.AddProductStock(ctx, item.ProductID, item.Quantity); err != nil {
				if errors.Is(err, db.ErrProductNotFound) {
					missingProducts = append(missingProducts, item.ProductID)
					continue
				}
				return newError(KindPersistence, op, fmt.Errorf("restore stock of %s: %w", item.ProductID, err))
			}
		}

		order.Status = model.OrderStatusCancelled
		result = order
		changed = true
		return nil
	})
	if err != nil {
		return nil, asServiceError(op, err)
	}

	if !changed {
		o.logger.Debug().Str("order_id", orderID).Msg("order already cancelled")
		return result, nil
	}

	if len(missingProducts) > 0 {
		o.logger.Warn().
			Str("order_id", orderID).
			Strs("product_ids", missingProducts).
			Msg("cancelled order references deleted products, stock not restored")
	}
	o.logger.Info().Str("order_id", orderID).Msg("order cancelled")

	o.afterCommit(ctx, model.OrderCancelledEvent, result)
	return result, nil
}

func (o *OrderService) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	return getOrder(ctx, o.store, "GetOrder", orderID)
}

// OrderFilter 零值代表不過濾
// Query 不分大小寫比對訂單ID或員工標籤的子字串
type OrderFilter struct {
	PaymentMethod model.PaymentMethod
	Query         string
}

func (f OrderFilter) match(order *model.Order) bool {
	if f.PaymentMethod != "" && order.PaymentMethod != f.PaymentMethod {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(order.ID), q) ||
		strings.Contains(strings.ToLower(order.StaffID), q)
}

// ListOrders 新到舊
func (o *OrderService) ListOrders(ctx context.Context, filter OrderFilter) ([]model.Order, error) {
	const op = "ListOrders"
	if filter.PaymentMethod != "" && !filter.PaymentMethod.IsValid() {
		return nil, newError(KindValidation, op, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, filter.PaymentMethod))
	}

	orders, err := o.store.GetAllOrders(ctx)
	if err != nil {
		return nil, newError(KindPersistence, op, err)
	}

	filtered := make([]model.Order, 0, len(orders))
	for i := range orders {
		if filter.match(&orders[i]) {
			filtered = append(filtered, orders[i])
		}
	}
	return filtered, nil
}

func (o *OrderService) afterCommit(ctx context.Context, name model.OrderEventName, order *model.Order) {
	if o.stockCache != nil {
		o.stockCache.InvalidateStock(ctx, productIDsOf(order.Items)...)
	}

	if o.publisher == nil {
		return
	}
	// 請求結束不應中斷已 commit 訂單的事件
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	evt := model.NewOrderEvent(uuid.NewString(), name, order, o.now())
	if err := o.publisher.PublishOrderEvent(pubCtx, evt); err != nil {
		o.logger.Warn().Err(err).
			Str("order_id", order.ID).
			Str("event", string(name)).
			Msg("publish order event failed")
	}
}

func getOrder(ctx context.Context, repo db.IOrderRepository, op, orderID string) (*model.Order, error) {
	order, err := repo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, db.ErrOrderNotFound) {
			return nil, newError(KindNotFound, op, fmt.Errorf("%w: %s", ErrOrderNotExist, orderID))
		}
		return nil, newError(KindPersistence, op, err)
	}
	return order, nil
}

func ensureProductsExist(ctx context.Context, repo db.IProductRepository, items []model.OrderItem) error {
	ids := productIDsOf(items)
	products, err := repo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return newError(KindPersistence, "CompleteOrder", fmt.Errorf("load products: %w", err))
	}
	if len(products) == len(ids) {
		return nil
	}

	found := make(map[string]struct{}, len(products))
	for _, p := range products {
		found[p.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return newError(KindValidation, "CompleteOrder", fmt.Errorf("%w: %s", ErrUnknownProduct, id))
		}
	}
	return nil
}

var _ IOrderService = (*OrderService)(nil)
