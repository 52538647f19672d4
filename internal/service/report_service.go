package service

import (
	"context"
	"sort"
	"time"

	"github.com/RoyceAzure/lab/cafe_erp/internal/domain/model"
	"github.com/RoyceAzure/lab/cafe_erp/internal/infra/repository/db"
	"github.com/shopspring/decimal"
)

type IReportService interface {
	SalesReport(ctx context.Context, from, to time.Time) (*SalesReport, error)
	Dashboard(ctx context.Context) (*Dashboard, error)
}

type ItemSales struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type HourlySales struct {
	Hour    int             `json:"hour"`
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

type SalesReport struct {
	From              time.Time                               `json:"from"`
	To                time.Time                               `json:"to"`
	OrderCount        int                                     `json:"orderCount"`
	CancelledCount    int                                     `json:"cancelledCount"`
	Revenue           decimal.Decimal                         `json:"revenue"`
	Tax               decimal.Decimal                         `json:"tax"`
	Profit            decimal.Decimal                         `json:"profit"`
	MarginPercent     decimal.Decimal                         `json:"marginPercent"`
	AverageOrderValue decimal.Decimal                         `json:"averageOrderValue"`
	ByPaymentMethod   map[model.PaymentMethod]decimal.Decimal `json:"byPaymentMethod"`
	ItemSales         []ItemSales                             `json:"itemSales"`
	HourlySales       []HourlySales                           `json:"hourlySales"`
}

type Dashboard struct {
	TodayRevenue      decimal.Decimal `json:"todayRevenue"`
	TodayOrders       int             `json:"todayOrders"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
	YesterdayRevenue  decimal.Decimal `json:"yesterdayRevenue"`
	RevenueChangePct  decimal.Decimal `json:"revenueChangePct"`
	LowStock          []model.Product `json:"lowStock"`
}

type ReportServiceOption func(*ReportService)

func WithReportLocation(loc *time.Location) ReportServiceOption {
	return func(r *ReportService) {
		r.loc = loc
	}
}

func WithReportClock(now func() time.Time) ReportServiceOption {
	return func(r *ReportService) {
		r.now = now
	}
}

// ReportService 只統計 completed 訂單, 時段以店舖所在時區切分
type ReportService struct {
	orderRepo   db.IOrderRepository
	productRepo db.IProductRepository
	loc         *time.Location
	now         func() time.Time
}

func NewReportService(orderRepo db.IOrderRepository, productRepo db.IProductRepository, opts ...ReportServiceOption) *ReportService {
	r := &ReportService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		loc:         time.Local,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SalesReport [from, to)
func (r *ReportService) SalesReport(ctx context.Context, from, to time.Time) (*SalesReport, error) {
	orders, err := r.orderRepo.GetOrdersByTimeRange(ctx, from.UnixMilli(), to.UnixMilli())
	if err != nil {
		return nil, newError(KindPersistence, "SalesReport", err)
	}

	report := &SalesReport{
		From:            from,
		To:              to,
		Revenue:         decimal.Zero,
		Tax:             decimal.Zero,
		Profit:          decimal.Zero,
		ByPaymentMethod: make(map[model.PaymentMethod]decimal.Decimal),
		HourlySales:     make([]HourlySales, 24),
	}
	for h := range report.HourlySales {
		report.HourlySales[h] = HourlySales{Hour: h, Revenue: decimal.Zero}
	}

	items := make(map[string]*ItemSales)
	for _, o := range orders {
		if o.Status != model.OrderStatusCompleted {
			report.CancelledCount++
			continue
		}
		report.OrderCount++
		report.Revenue = report.Revenue.Add(o.Total)
		report.Tax = report.Tax.Add(o.Tax)
		report.Profit = report.Profit.Add(o.Profit)
		report.ByPaymentMethod[o.PaymentMethod] = report.ByPaymentMethod[o.PaymentMethod].Add(o.Total)

		hour := time.UnixMilli(o.Timestamp).In(r.loc).Hour()
		report.HourlySales[hour].Orders++
		report.HourlySales[hour].Revenue = report.HourlySales[hour].Revenue.Add(o.Total)

		for _, item := range o.Items {
			sales, ok := items[item.ProductID]
			if !ok {
				sales = &ItemSales{ProductID: item.ProductID, Name: item.Name, Revenue: decimal.Zero}
				items[item.ProductID] = sales
			}
			sales.Quantity += item.Quantity
			sales.Revenue = sales.Revenue.Add(item.LineTotal())
		}
	}

	report.MarginPercent = percentOf(report.Profit, report.Revenue)
	report.AverageOrderValue = averageOf(report.Revenue, report.OrderCount)

	report.ItemSales = make([]ItemSales, 0, len(items))
	for _, sales := range items {
		report.ItemSales = append(report.ItemSales, *sales)
	}
	sort.Slice(report.ItemSales, func(i, j int) bool {
		a, b := report.ItemSales[i], report.ItemSales[j]
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		return a.Name < b.Name
	})
	return report, nil
}

// Dashboard 今日與昨日營收比較, 昨日為 0 時變化率為 0
func (r *ReportService) Dashboard(ctx context.Context) (*Dashboard, error) {
	now := r.now().In(r.loc)
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, r.loc)
	startOfTomorrow := startOfToday.AddDate(0, 0, 1)
	startOfYesterday := startOfToday.AddDate(0, 0, -1)

	today, err := r.SalesReport(ctx, startOfToday, startOfTomorrow)
	if err != nil {
		return nil, err
	}
	yesterday, err := r.SalesReport(ctx, startOfYesterday, startOfToday)
	if err != nil {
		return nil, err
	}
	lowStock, err := r.productRepo.GetLowStockProducts(ctx)
	if err != nil {
		return nil, newError(KindPersistence, "Dashboard", err)
	}

	change := decimal.Zero
	if !yesterday.Revenue.IsZero() {
		change = today.Revenue.Sub(yesterday.Revenue).Div(yesterday.Revenue).Mul(decimal.NewFromInt(100)).Round(2)
	}

	return &Dashboard{
		TodayRevenue:      today.Revenue,
		TodayOrders:       today.OrderCount,
		AverageOrderValue: today.AverageOrderValue,
		YesterdayRevenue:  yesterday.Revenue,
		RevenueChangePct:  change,
		LowStock:          lowStock,
	}, nil
}

func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100)).Round(2)
}

func averageOf(sum decimal.Decimal, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(int64(n))).Round(2)
}

var _ IReportService = (*ReportService)(nil)
