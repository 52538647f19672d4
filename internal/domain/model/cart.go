package model

import "github.com/shopspring/decimal"

// Cart 櫃台購物車, 只存在 redis
type Cart struct {
	TerminalID string      `json:"terminalId"`
	Items      []OrderItem `json:"items"`
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) QuantityOf(productID string) int {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return item.Quantity
		}
	}
	return 0
}

// ItemsSubtotal 快照價格乘數量的合計, 不含稅
func (c *Cart) ItemsSubtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range c.Items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	return subtotal
}
