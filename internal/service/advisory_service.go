package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/RoyceAzure/lab/cafe_erp/internal/domain/model"
	"github.com/RoyceAzure/lab/cafe_erp/internal/infra/advisor"
	"github.com/RoyceAzure/lab/cafe_erp/internal/infra/repository/db"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const FallbackInsights = "AI Consultant is currently offline."

var FallbackMenuSuggestions = []string{
	"Salted Caramel Cold Foam",
	"Truffle Mushroom Melt",
	"Matcha Pistachio Cheesecake",
}

type IAdvisoryService interface {
	Insights(ctx context.Context) (string, error)
	MenuSuggestions(ctx context.Context) ([]string, error)
}

// TextGenerator 外部文字生成服務
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, format advisor.ResponseFormat) (string, error)
	GenerateList(ctx context.Context, prompt string) ([]string, error)
}

type advisoryContext struct {
	Financials struct {
		TotalRevenue decimal.Decimal `json:"totalRevenue"`
		TotalProfit  decimal.Decimal `json:"totalProfit"`
		Margin       decimal.Decimal `json:"margin"`
	} `json:"financials"`
	Inventory struct {
		LowStockCount int      `json:"lowStockCount"`
		LowStockItems []string `json:"lowStockItems"`
	} `json:"inventory"`
	Velocity int `json:"velocity"`
}

/*
外部顧問, 任何失敗都回傳固定 fallback, 不回錯誤
交易核心不依賴此服務
*/
type AdvisoryService struct {
	orderRepo   db.IOrderRepository
	productRepo db.IProductRepository
	generator   TextGenerator
	logger      zerolog.Logger
}

func NewAdvisoryService(orderRepo db.IOrderRepository, productRepo db.IProductRepository, generator TextGenerator, logger zerolog.Logger) *AdvisoryService {
	return &AdvisoryService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		generator:   generator,
		logger:      logger.With().Str("component", "advisory_service").Logger(),
	}
}

func (a *AdvisoryService) Insights(ctx context.Context) (string, error) {
	prompt, err := a.insightsPrompt(ctx)
	if err != nil {
		a.logger.Warn().Err(err).Msg("build advisory context failed")
		return FallbackInsights, nil
	}

	text, err := a.generator.Generate(ctx, prompt, advisor.FormatText)
	if err != nil {
		a.logger.Warn().Err(err).Msg("advisor insights unavailable, using fallback")
		return FallbackInsights, nil
	}
	return text, nil
}

func (a *AdvisoryService) MenuSuggestions(ctx context.Context) ([]string, error) {
	fallback := append([]string(nil), FallbackMenuSuggestions...)

	products, err := a.productRepo.GetAllProducts(ctx)
	if err != nil {
		a.logger.Warn().Err(err).Msg("load menu failed")
		return fallback, nil
	}
	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Name)
	}
	prompt := fmt.Sprintf(`Current menu: %s.
Suggest 3 high-margin seasonal additions.
Format: Return ONLY a JSON array of strings.`, strings.Join(names, ", "))

	list, err := a.generator.GenerateList(ctx, prompt)
	if err != nil {
		a.logger.Warn().Err(err).Msg("advisor menu suggestions unavailable, using fallback")
		return fallback, nil
	}
	return list, nil
}

func (a *AdvisoryService) insightsPrompt(ctx context.Context) (string, error) {
	orders, err := a.orderRepo.GetAllOrders(ctx)
	if err != nil {
		return "", err
	}
	lowStock, err := a.productRepo.GetLowStockProducts(ctx)
	if err != nil {
		return "", err
	}

	var c advisoryContext
	c.Financials.TotalRevenue = decimal.Zero
	c.Financials.TotalProfit = decimal.Zero
	for _, o := range orders {
		if o.Status != model.OrderStatusCompleted {
			continue
		}
		c.Financials.TotalRevenue = c.Financials.TotalRevenue.Add(o.Total)
		c.Financials.TotalProfit = c.Financials.TotalProfit.Add(o.Profit)
		c.Velocity++
	}
	c.Financials.Margin = decimal.Zero
	if !c.Financials.TotalRevenue.IsZero() {
		c.Financials.Margin = c.Financials.TotalProfit.Div(c.Financials.TotalRevenue).Round(4)
	}
	c.Inventory.LowStockItems = make([]string, 0, len(lowStock))
	for _, p := range lowStock {
		c.Inventory.LowStockItems = append(c.Inventory.LowStockItems, p.Name)
	}
	c.Inventory.LowStockCount = len(lowStock)

	raw, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`Analyze this Cafe's performance: %s.
Provide 3 high-impact executive recommendations focusing on:
1. Profit margin improvement.
2. Inventory optimization for the low stock items.
3. Revenue growth strategy.
Use Markdown, keep it extremely concise but punchy.`, raw), nil
}

var _ IAdvisoryService = (*AdvisoryService)(nil)
