package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/cafe_erp/internal/api/dto"
	"github.com/RoyceAzure/lab/cafe_erp/internal/api/response"
	"github.com/RoyceAzure/lab/cafe_erp/internal/service"
)

// AdviceHandler 顧問服務一律有回應, 失敗時為固定文字
type AdviceHandler struct {
	advisory service.IAdvisoryService
}

func NewAdviceHandler(advisory service.IAdvisoryService) *AdviceHandler {
	if advisory == nil {
		panic("advisory service cannot be nil")
	}
	return &AdviceHandler{advisory: advisory}
}

func (h *AdviceHandler) Insights(w http.ResponseWriter, r *http.Request) {
	text, _ := h.advisory.Insights(r.Context())
	response.SuccessJSON(w, dto.InsightsResponse{Text: text})
}

func (h *AdviceHandler) MenuSuggestions(w http.ResponseWriter, r *http.Request) {
	items, _ := h.advisory.MenuSuggestions(r.Context())
	response.SuccessJSON(w, dto.MenuSuggestionsResponse{Items: items})
}
