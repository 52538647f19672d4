package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/RoyceAzure/lab/cafe_erp/internal/domain/model"
	"github.com/shopspring/decimal"
)

type IReceiptService interface {
	BuildReceipt(ctx context.Context, orderID string) (*Receipt, error)
	Render(receipt *Receipt) (string, error)
}

type ReceiptLine struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
	Amount    string `json:"amount"`
}

// Receipt 金額皆為顯示用字串, 兩位小數
type Receipt struct {
	StoreName     string        `json:"storeName"`
	Currency      string        `json:"currency"`
	BillNo        string        `json:"billNo"`
	IssuedAt      string        `json:"issuedAt"`
	Staff         string        `json:"staff"`
	PaymentMethod string        `json:"paymentMethod"`
	Status        string        `json:"status"`
	Lines         []ReceiptLine `json:"lines"`
	Subtotal      string        `json:"subtotal"`
	HalfTaxRate   string        `json:"halfTaxRate"`
	CGST          string        `json:"cgst"`
	SGST          string        `json:"sgst"`
	Tax           string        `json:"tax"`
	Total         string        `json:"total"`
}

const receiptWidth = 40

var receiptTemplate = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"center": func(s string) string {
		n := len([]rune(s))
		if n >= receiptWidth {
			return s
		}
		return strings.Repeat(" ", (receiptWidth-n)/2) + s
	},
	"row": func(left, right string) string {
		gap := receiptWidth - len([]rune(left)) - len([]rune(right))
		if gap < 1 {
			gap = 1
		}
		return left + strings.Repeat(" ", gap) + right
	},
	"rule": func() string { return strings.Repeat("-", receiptWidth) },
}).Parse(`{{center .StoreName}}
{{center "TAX INVOICE"}}
{{rule}}
{{row "Bill No:" (printf "#%s" .BillNo)}}
{{row "Date:" .IssuedAt}}
{{row "Staff:" .Staff}}
{{row "Payment:" .PaymentMethod}}
{{- if eq .Status "cancelled"}}
{{center "*** CANCELLED ***"}}
{{- end}}
{{rule}}
{{- range .Lines}}
{{.Name}}
{{row (printf "  %d x %s%s" .Quantity $.Currency .UnitPrice) (printf "%s%s" $.Currency .Amount)}}
{{- end}}
{{rule}}
{{row "Subtotal" (printf "%s%s" .Currency .Subtotal)}}
{{row (printf "CGST (%s%%)" .HalfTaxRate) (printf "%s%s" .Currency .CGST)}}
{{row (printf "SGST (%s%%)" .HalfTaxRate) (printf "%s%s" .Currency .SGST)}}
{{row "TOTAL" (printf "%s%s" .Currency .Total)}}
{{rule}}
{{center "Thank you!"}}
`))

// ReceiptService 收據, 稅額平分為 CGST 與 SGST
type ReceiptService struct {
	orders  IOrderService
	configs IStoreConfigService
	loc     *time.Location
}

func NewReceiptService(orders IOrderService, configs IStoreConfigService, loc *time.Location) *ReceiptService {
	if loc == nil {
		loc = time.Local
	}
	return &ReceiptService{orders: orders, configs: configs, loc: loc}
}

func (r *ReceiptService) BuildReceipt(ctx context.Context, orderID string) (*Receipt, error) {
	order, err := r.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	cfg, err := r.configs.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	return newReceipt(order, cfg, r.loc), nil
}

func (r *ReceiptService) Render(receipt *Receipt) (string, error) {
	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, receipt); err != nil {
		return "", fmt.Errorf("render receipt %s: %w", receipt.BillNo, err)
	}
	return buf.String(), nil
}

func newReceipt(order *model.Order, cfg *model.StoreConfig, loc *time.Location) *Receipt {
	two := decimal.NewFromInt(2)
	// 先取兩位再相減, 兩半相加必等於稅額
	tax := order.Tax.Round(2)
	cgst := order.Tax.Div(two).Round(2)
	sgst := tax.Sub(cgst)
	// 稅率標示以訂單本身金額推回, 設定之後改過也不影響舊收據
	halfRate := cfg.TaxRate.Div(two)
	if !order.Subtotal.IsZero() {
		halfRate = order.Tax.Div(order.Subtotal).Div(two)
	}

	lines := make([]ReceiptLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, ReceiptLine{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.Price.StringFixed(2),
			Amount:    item.LineTotal().StringFixed(2),
		})
	}

	return &Receipt{
		StoreName:     cfg.Name,
		Currency:      cfg.Currency,
		BillNo:        strings.ToUpper(order.ID),
		IssuedAt:      time.UnixMilli(order.Timestamp).In(loc).Format("02 Jan 2006, 15:04"),
		Staff:         order.StaffID,
		PaymentMethod: strings.ToUpper(string(order.PaymentMethod)),
		Status:        string(order.Status),
		Lines:         lines,
		Subtotal:      order.Subtotal.StringFixed(2),
		HalfTaxRate:   halfRate.Mul(decimal.NewFromInt(100)).Round(2).String(),
		CGST:          cgst.StringFixed(2),
		SGST:          sgst.StringFixed(2),
		Tax:           tax.StringFixed(2),
		Total:         order.Total.StringFixed(2),
	}
}

var _ IReceiptService = (*ReceiptService)(nil)
