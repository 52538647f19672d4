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

type CartHandler struct {
	carts  service.ICartService
	logger zerolog.Logger
}

func NewCartHandler(carts service.ICartService, logger zerolog.Logger) *CartHandler {
	if carts == nil {
		panic("cart service cannot be nil")
	}
	return &CartHandler{carts: carts, logger: logger}
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	summary, err := h.carts.GetCart(r.Context(), chi.URLParam(r, "terminal"))
	if err != nil {
		response.ServiceErrorJSON(w, &h.logger, err)
		return
	}
	response.SuccessJSON(w, summary)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req dto.AddCartItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	summary, err := h.carts.AddItem(r.Context(), chi.URLParam(r, "terminal"), req.ProductID, req.Quantity)
	if err != nil {
		response.ServiceErrorJSON(w, &h.logger, err)
		return
	}
	response.SuccessJSON(w, summary)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateCartItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	summary, err := h.carts.UpdateQuantity(r.Context(), chi.URLParam(r, "terminal"), chi.URLParam(r, "productID"), req.Delta)
	if err != nil {
		response.ServiceErrorJSON(w, &h.logger, err)
		return
	}
	response.SuccessJSON(w, summary)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	summary, err := h.carts.RemoveItem(r.Context(), chi.URLParam(r, "terminal"), chi.URLParam(r, "productID"))
	if err != nil {
		response.ServiceErrorJSON(w, &h.logger, err)
		return
	}
	response.SuccessJSON(w, summary)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Clear(r.Context(), chi.URLParam(r, "terminal")); err != nil {
		response.ServiceErrorJSON(w, &h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req dto.CheckoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	order, err := h.carts.Checkout(r.Context(), chi.URLParam(r, "terminal"), model.PaymentMethod(req.PaymentMethod))
	if err != nil {
		response.ServiceErrorJSON(w, &h.logger, err)
		return
	}
	response.CreatedJSON(w, order)
}
