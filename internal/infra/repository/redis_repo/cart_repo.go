package redis_repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/RoyceAzure/lab/cafe_erp/internal/domain/model"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

type CartRepoError error

var ErrCartItemNotFound CartRepoError = errors.New("cart item not found")

// ICartRepository 櫃台購物車
type ICartRepository interface {
	Get(ctx context.Context, terminalID string) (*model.Cart, error)
	AddItem(ctx context.Context, terminalID string, item model.OrderItem) (int, error)
	Delta(ctx context.Context, terminalID string, productID string, deltaQuantity int) (int, error)
	Delete(ctx context.Context, terminalID string, productID string) error
	Clear(ctx context.Context, terminalID string) error
}

/*
結構:
cart:{櫃台}:lines     list, 商品加入順序
cart:{櫃台}:items     hash, 商品ID -> 數量
cart:{櫃台}:snapshots hash, 商品ID -> 加入當下的名稱與價格
*/
type CartRepo struct {
	CartCache *redis.Client
}

func NewCartRepo(cartCache *redis.Client) *CartRepo {
	return &CartRepo{CartCache: cartCache}
}

func generateCartLinesKey(terminalID string) string {
	return fmt.Sprintf("cart:%s:lines", terminalID)
}

func generateCartItemKey(terminalID string) string {
	return fmt.Sprintf("cart:%s:items", terminalID)
}

func generateCartSnapshotKey(terminalID string) string {
	return fmt.Sprintf("cart:%s:snapshots", terminalID)
}

func cartKeys(terminalID string) []string {
	return []string{
		generateCartLinesKey(terminalID),
		generateCartItemKey(terminalID),
		generateCartSnapshotKey(terminalID),
	}
}

type itemSnapshot struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Cost  decimal.Decimal `json:"cost"`
}

// 已存在只加數量, 快照維持第一次加入的值
var addItemScript = redis.NewScript(`
	local lines = KEYS[1]
	local items = KEYS[2]
	local snapshots = KEYS[3]
	local product_id = ARGV[1]
	local quantity = tonumber(ARGV[2])

	if redis.call('HEXISTS', items, product_id) == 1 then
		return redis.call('HINCRBY', items, product_id, quantity)
	end

	redis.call('RPUSH', lines, product_id)
	redis.call('HSET', snapshots, product_id, ARGV[3])
	redis.call('HSET', items, product_id, quantity)
	return quantity
`)

// 結果 <= 0 時整行移除, -1 代表商品不在購物車
var deltaScript = redis.NewScript(`
	local lines = KEYS[1]
	local items = KEYS[2]
	local snapshots = KEYS[3]
	local product_id = ARGV[1]
	local delta = tonumber(ARGV[2])

	local current = redis.call('HGET', items, product_id)
	if not current then
		return -1
	end

	local new_qty = tonumber(current) + delta
	if new_qty <= 0 then
		redis.call('HDEL', items, product_id)
		redis.call('HDEL', snapshots, product_id)
		redis.call('LREM', lines, 0, product_id)
		return 0
	end

	redis.call('HSET', items, product_id, new_qty)
	return new_qty
`)

var deleteScript = redis.NewScript(`
	local removed = redis.call('HDEL', KEYS[2], ARGV[1])
	redis.call('HDEL', KEYS[3], ARGV[1])
	redis.call('LREM', KEYS[1], 0, ARGV[1])
	return removed
`)

// Get 不存在的購物車回傳空購物車
func (r *CartRepo) Get(ctx context.Context, terminalID string) (*model.Cart, error) {
	productIDs, err := r.CartCache.LRange(ctx, generateCartLinesKey(terminalID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get cart lines: %w", err)
	}
	items, err := r.CartCache.HGetAll(ctx, generateCartItemKey(terminalID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}
	snapshots, err := r.CartCache.HGetAll(ctx, generateCartSnapshotKey(terminalID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get cart snapshots: %w", err)
	}

	cart := &model.Cart{
		TerminalID: terminalID,
		Items:      make([]model.OrderItem, 0, len(productIDs)),
	}
	for _, productID := range productIDs {
		quantityStr, ok := items[productID]
		if !ok {
			continue
		}
		quantity, err := strconv.Atoi(quantityStr)
		if err != nil {
			return nil, fmt.Errorf("invalid quantity for product %s: %w", productID, err)
		}
		if quantity <= 0 {
			continue
		}

		var snap itemSnapshot
		if err := json.Unmarshal([]byte(snapshots[productID]), &snap); err != nil {
			return nil, fmt.Errorf("invalid snapshot for product %s: %w", productID, err)
		}
		cart.Items = append(cart.Items, model.OrderItem{
			ProductID: productID,
			Name:      snap.Name,
			Price:     snap.Price,
			Cost:      snap.Cost,
			Quantity:  quantity,
		})
	}
	return cart, nil
}

// AddItem 加入商品, 回傳加入後數量
func (r *CartRepo) AddItem(ctx context.Context, terminalID string, item model.OrderItem) (int, error) {
	snap, err := json.Marshal(itemSnapshot{Name: item.Name, Price: item.Price, Cost: item.Cost})
	if err != nil {
		return 0, err
	}

	result, err := addItemScript.Run(ctx, r.CartCache, cartKeys(terminalID), item.ProductID, item.Quantity, string(snap)).Int()
	if err != nil {
		return 0, fmt.Errorf("failed to add item to cart: %w", err)
	}
	return result, nil
}

// Delta 數量增減, 回傳增減後數量, 0 代表已移除
func (r *CartRepo) Delta(ctx context.Context, terminalID string, productID string, deltaQuantity int) (int, error) {
	result, err := deltaScript.Run(ctx, r.CartCache, cartKeys(terminalID), productID, deltaQuantity).Int()
	if err != nil {
		return 0, fmt.Errorf("failed to update cart item: %w", err)
	}
	if result == -1 {
		return 0, fmt.Errorf("%w: product %s", ErrCartItemNotFound, productID)
	}
	return result, nil
}

// Delete 從購物車中刪除指定商品
func (r *CartRepo) Delete(ctx context.Context, terminalID string, productID string) error {
	removed, err := deleteScript.Run(ctx, r.CartCache, cartKeys(terminalID), productID).Int()
	if err != nil {
		return fmt.Errorf("failed to delete item from cart: %w", err)
	}
	if removed == 0 {
		return fmt.Errorf("%w: product %s", ErrCartItemNotFound, productID)
	}
	return nil
}

// Clear 清空購物車
func (r *CartRepo) Clear(ctx context.Context, terminalID string) error {
	if err := r.CartCache.Del(ctx, cartKeys(terminalID)...).Err(); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

var _ ICartRepository = (*CartRepo)(nil)
