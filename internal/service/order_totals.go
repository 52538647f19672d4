package service

import (
	"fmt"

	"github.com/RoyceAzure/lab/cafe_erp/internal/domain/model"
	"github.com/shopspring/decimal"
)

// 與 numeric(18,6) 欄位一致, 存入後讀回不變
const amountScale = 6

type OrderTotals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
	Profit   decimal.Decimal `json:"profit"`
}

// CalculateOrderTotals 以快照價格計算
// profit = total - 成本, 稅額計入 profit
func CalculateOrderTotals(items []model.OrderItem, taxRate decimal.Decimal) OrderTotals {
	subtotal := decimal.Zero
	cost := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
		cost = cost.Add(item.LineCost())
	}

	tax := subtotal.Mul(taxRate).Round(amountScale)
	total := subtotal.Add(tax)
	return OrderTotals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    total,
		Profit:   total.Sub(cost),
	}
}

func validateOrderItems(items []model.OrderItem) error {
	if len(items) == 0 {
		return ErrEmptyCart
	}
	for _, item := range items {
		if item.ProductID == "" {
			return fmt.Errorf("%w: empty product id", ErrUnknownProduct)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: product %s quantity %d", ErrInvalidQuantity, item.ProductID, item.Quantity)
		}
		if item.Price.IsNegative() || item.Cost.IsNegative() {
			return fmt.Errorf("%w: product %s has negative price or cost", ErrInvalidProduct, item.ProductID)
		}
	}
	return nil
}

func productIDsOf(items []model.OrderItem) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}
