package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/RoyceAzure/lab/cafe_erp/internal/domain/model"
	"github.com/RoyceAzure/lab/cafe_erp/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/cafe_erp/internal/infra/repository/redis_repo"
	"github.com/rs/zerolog"
)

type ICartService interface {
	GetCart(ctx context.Context, terminalID string) (*CartSummary, error)
	AddItem(ctx context.Context, terminalID, productID string, quantity int) (*CartSummary, error)
	UpdateQuantity(ctx context.Context, terminalID, productID string, delta int) (*CartSummary, error)
	RemoveItem(ctx context.Context, terminalID, productID string) (*CartSummary, error)
	Clear(ctx context.Context, terminalID string) error
	Checkout(ctx context.Context, terminalID string, paymentMethod model.PaymentMethod) (*model.Order, error)
}

// CartSummary 購物車與以目前稅率試算的金額
type CartSummary struct {
	model.Cart
	TaxRate string `json:"taxRate"`
	OrderTotals
}

/*
購物車只存在 redis
加入時以目前庫存做樂觀檢查, 真正的保證在結帳時的條件式扣庫存
*/
type CartService struct {
	carts        redis_repo.ICartRepository
	productRepo  db.IProductRepository
	orderService IOrderService
	configs      IStoreConfigService
	logger       zerolog.Logger
}

func NewCartService(carts redis_repo.ICartRepository, productRepo db.IProductRepository, orderService IOrderService, configs IStoreConfigService, logger zerolog.Logger) *CartService {
	return &CartService{
		carts:        carts,
		productRepo:  productRepo,
		orderService: orderService,
		configs:      configs,
		logger:       logger.With().Str("component", "cart_service").Logger(),
	}
}

func (c *CartService) GetCart(ctx context.Context, terminalID string) (*CartSummary, error) {
	if err := validateTerminal(terminalID); err != nil {
		return nil, newError(KindValidation, "GetCart", err)
	}
	return c.summary(ctx, "GetCart", terminalID)
}

// AddItem 第一次加入時記錄商品名稱與價格快照
func (c *CartService) AddItem(ctx context.Context, terminalID, productID string, quantity int) (*CartSummary, error) {
	const op = "AddItem"
	if err := validateTerminal(terminalID); err != nil {
		return nil, newError(KindValidation, op, err)
	}
	if quantity <= 0 {
		return nil, newError(KindValidation, op, fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity))
	}

	product, err := c.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		return nil, translateProductErr(op, productID, err)
	}
	if err := c.checkStock(ctx, op, terminalID, product.ID, product.Name, quantity); err != nil {
		return nil, err
	}

	if _, err := c.carts.AddItem(ctx, terminalID, model.NewOrderItem(product, quantity)); err != nil {
		return nil, newError(KindPersistence, op, err)
	}
	return c.summary(ctx, op, terminalID)
}

// UpdateQuantity delta 可為負, 結果 <= 0 時移除該行
func (c *CartService) UpdateQuantity(ctx context.Context, terminalID, productID string, delta int) (*CartSummary, error) {
	const op = "UpdateQuantity"
	if err := validateTerminal(terminalID); err != nil {
		return nil, newError(KindValidation, op, err)
	}
	if delta == 0 {
		return c.summary(ctx, op, terminalID)
	}

	if delta > 0 {
		if err := c.checkStock(ctx, op, terminalID, productID, productID, delta); err != nil {
			return nil, err
		}
	}

	if _, err := c.carts.Delta(ctx, terminalID, productID, delta); err != nil {
		if errors.Is(err, redis_repo.ErrCartItemNotFound) {
			return nil, newError(KindNotFound, op, fmt.Errorf("%w: %s", ErrCartItemNotExist, productID))
		}
		return nil, newError(KindPersistence, op, err)
	}
	return c.summary(ctx, op, terminalID)
}

func (c *CartService) RemoveItem(ctx context.Context, terminalID, productID string) (*CartSummary, error) {
	const op = "RemoveItem"
	if err := validateTerminal(terminalID); err != nil {
		return nil, newError(KindValidation, op, err)
	}
	if err := c.carts.Delete(ctx, terminalID, productID); err != nil {
		if errors.Is(err, redis_repo.ErrCartItemNotFound) {
			return nil, newError(KindNotFound, op, fmt.Errorf("%w: %s", ErrCartItemNotExist, productID))
		}
		return nil, newError(KindPersistence, op, err)
	}
	return c.summary(ctx, op, terminalID)
}

func (c *CartService) Clear(ctx context.Context, terminalID string) error {
	if err := validateTerminal(terminalID); err != nil {
		return newError(KindValidation, "Clear", err)
	}
	if err := c.carts.Clear(ctx, terminalID); err != nil {
		return newError(KindPersistence, "Clear", err)
	}
	return nil
}

// Checkout 成功後才清空購物車, 失敗時購物車保留
func (c *CartService) Checkout(ctx context.Context, terminalID string, paymentMethod model.PaymentMethod) (*model.Order, error) {
	const op = "Checkout"
	if err := validateTerminal(terminalID); err != nil {
		return nil, newError(KindValidation, op, err)
	}

	cart, err := c.carts.Get(ctx, terminalID)
	if err != nil {
		return nil, newError(KindPersistence, op, err)
	}
	if cart.IsEmpty() {
		return nil, newError(KindValidation, op, ErrEmptyCart)
	}

	order, err := c.orderService.CompleteOrder(ctx, cart.Items, paymentMethod)
	if err != nil {
		return nil, err
	}

	if err := c.carts.Clear(ctx, terminalID); err != nil {
		c.logger.Warn().Err(err).Str("terminal_id", terminalID).Str("order_id", order.ID).Msg("clear cart after checkout failed")
	}
	return order, nil
}

// checkStock 購物車內數量加上本次數量不可超過目前庫存
func (c *CartService) checkStock(ctx context.Context, op, terminalID, productID, name string, adding int) error {
	cart, err := c.carts.Get(ctx, terminalID)
	if err != nil {
		return newError(KindPersistence, op, err)
	}
	stock, err := c.productRepo.GetProductStock(ctx, productID)
	if err != nil {
		return translateProductErr(op, productID, err)
	}

	want := cart.QuantityOf(productID) + adding
	if want > stock {
		return newError(KindStockConflict, op, fmt.Errorf("%w: %s has %d, cart wants %d", ErrInsufficientStock, name, stock, want))
	}
	return nil
}

func (c *CartService) summary(ctx context.Context, op, terminalID string) (*CartSummary, error) {
	cart, err := c.carts.Get(ctx, terminalID)
	if err != nil {
		return nil, newError(KindPersistence, op, err)
	}
	cfg, err := c.configs.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	return &CartSummary{
		Cart:        *cart,
		TaxRate:     cfg.TaxRate.String(),
		OrderTotals: CalculateOrderTotals(cart.Items, cfg.TaxRate),
	}, nil
}

func validateTerminal(terminalID string) error {
	if strings.TrimSpace(terminalID) == "" {
		return ErrInvalidTerminal
	}
	if strings.ContainsAny(terminalID, ": ") {
		return fmt.Errorf("%w: %q", ErrInvalidTerminal, terminalID)
	}
	return nil
}

var _ ICartService = (*CartService)(nil)
