package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/cafe_erp/internal/api/dto"
	"github.com/RoyceAzure/lab/cafe_erp/internal/api/response"
	"github.com/RoyceAzure/lab/cafe_erp/internal/domain/model"
	"github.com/RoyceAzure/lab/cafe_erp/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type OrderHandler struct {
	orders   service.IOrderService
	receipts service.IReceiptService
	logger   zerolog.Logger
}

func NewOrderHandler(orders service.IOrderService, receipts service.IReceiptService, logger zerolog.Logger) *OrderHandler {
	if orders == nil || receipts == nil {
		panic("order and receipt service cannot be nil")
	}
	return &OrderHandler{orders: orders, receipts: receipts, logger: logger}
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	// ?paymentMethod=cash&q=rahul
	filter := service.OrderFilter{
		PaymentMethod: model.PaymentMethod(r.URL.Query().Get("paymentMethod")),
		Query:         r.URL.Query().Get("q"),
	}
	orders, err := h.orders.ListOrders(r.Context(), filter)
	if err != nil {
		response.ServiceErrorJSON(w, &h.logger, err)
		return
	}
	response.SuccessJSON(w, orders)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.ServiceErrorJSON(w, &h.logger, err)
		return
	}
	response.SuccessJSON(w, order)
}

func (h *OrderHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req dto.CompleteOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	order, err := h.orders.CompleteOrder(r.Context(), req.Items, model.PaymentMethod(req.PaymentMethod))
	if err != nil {
		response.ServiceErrorJSON(w, &h.logger, err)
		return
	}
	response.CreatedJSON(w, order)
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.CancelOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.ServiceErrorJSON(w, &h.logger, err)
		return
	}
	response.SuccessJSON(w, order)
}

// Receipt ?format=text 回傳可直接列印的純文字
func (h *OrderHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.receipts.BuildReceipt(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.ServiceErrorJSON(w, &h.logger, err)
		return
	}
	if r.URL.Query().Get("format") != "text" {
		response.SuccessJSON(w, receipt)
		return
	}

	text, err := h.receipts.Render(receipt)
	if err != nil {
		response.ServiceErrorJSON(w, &h.logger, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}
