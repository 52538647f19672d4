package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/cafe_erp/internal/api/dto"
	"github.com/RoyceAzure/lab/cafe_erp/internal/api/response"
	"github.com/RoyceAzure/lab/cafe_erp/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type ProductHandler struct {
	catalog service.ICatalogService
	logger  zerolog.Logger
}

func NewProductHandler(catalog service.ICatalogService, logger zerolog.Logger) *ProductHandler {
	if catalog == nil {
		panic("catalog service cannot be nil")
	}
	return &ProductHandler{catalog: catalog, logger: logger}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		response.ServiceErrorJSON(w, &h.logger, err)
		return
	}
	response.SuccessJSON(w, products)
}

func (h *ProductHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.LowStockProducts(r.Context())
	if err != nil {
		response.ServiceErrorJSON(w, &h.logger, err)
		return
	}
	response.SuccessJSON(w, products)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.ServiceErrorJSON(w, &h.logger, err)
		return
	}
	response.SuccessJSON(w, product)
}

func (h *ProductHandler) Stock(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	stock, err := h.catalog.GetStock(r.Context(), id)
	if err != nil {
		response.ServiceErrorJSON(w, &h.logger, err)
		return
	}
	response.SuccessJSON(w, dto.StockResponse{ProductID: id, Stock: stock})
}

// Save 新增或整筆覆蓋, id 為空時產生新 id
func (h *ProductHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req dto.SaveProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	product, err := h.catalog.SaveProduct(r.Context(), req.ToModel())
	if err != nil {
		response.ServiceErrorJSON(w, &h.logger, err)
		return
	}
	response.SuccessJSON(w, product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.ServiceErrorJSON(w, &h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
