package dto

import (
	"github.com/RoyceAzure/lab/cafe_erp/internal/domain/model"
	"github.com/shopspring/decimal"
)

type SaveProductRequest struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Cost     decimal.Decimal `json:"cost"`
	Category string          `json:"category"`
	Stock    int             `json:"stock"`
	MinStock int             `json:"minStock"`
	Image    string          `json:"image"`
}

// ToModel 類別合法性由服務層驗證
func (r SaveProductRequest) ToModel() *model.Product {
	return &model.Product{
		ID:       r.ID,
		Name:     r.Name,
		Price:    r.Price,
		Cost:     r.Cost,
		Category: model.Category(r.Category),
		Stock:    r.Stock,
		MinStock: r.MinStock,
		Image:    r.Image,
	}
}

type StockResponse struct {
	ProductID string `json:"productId"`
	Stock     int    `json:"stock"`
}

// CompleteOrderRequest 明細帶價格快照, 與購物車內容相同
type CompleteOrderRequest struct {
	Items         []model.OrderItem `json:"items"`
	PaymentMethod string            `json:"paymentMethod"`
}

type AddCartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Delta int `json:"delta"`
}

type CheckoutRequest struct {
	PaymentMethod string `json:"paymentMethod"`
}

type SaveStaffRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

func (r SaveStaffRequest) ToModel() *model.Staff {
	return &model.Staff{ID: r.ID, Name: r.Name, Role: model.StaffRole(r.Role)}
}

type ActiveStaffResponse struct {
	Label string `json:"label"`
}

type SaveConfigRequest struct {
	Name     string          `json:"name"`
	Currency string          `json:"currency"`
	TaxRate  decimal.Decimal `json:"taxRate"`
}

func (r SaveConfigRequest) ToModel() *model.StoreConfig {
	return &model.StoreConfig{Name: r.Name, Currency: r.Currency, TaxRate: r.TaxRate}
}

type InsightsResponse struct {
	Text string `json:"text"`
}

type MenuSuggestionsResponse struct {
	Items []string `json:"items"`
}
