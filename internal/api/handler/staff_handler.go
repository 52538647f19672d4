package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/cafe_erp/internal/api/dto"
	"github.com/RoyceAzure/lab/cafe_erp/internal/api/response"
	"github.com/RoyceAzure/lab/cafe_erp/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type StaffHandler struct {
	staff  service.IStaffService
	logger zerolog.Logger
}

func NewStaffHandler(staff service.IStaffService, logger zerolog.Logger) *StaffHandler {
	if staff == nil {
		panic("staff service cannot be nil")
	}
	return &StaffHandler{staff: staff, logger: logger}
}

func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request) {
	staff, err := h.staff.ListStaff(r.Context())
	if err != nil {
		response.ServiceErrorJSON(w, &h.logger, err)
		return
	}
	response.SuccessJSON(w, staff)
}

func (h *StaffHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req dto.SaveStaffRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	staff, err := h.staff.SaveStaff(r.Context(), req.ToModel())
	if err != nil {
		response.ServiceErrorJSON(w, &h.logger, err)
		return
	}
	response.SuccessJSON(w, staff)
}

func (h *StaffHandler) ToggleClock(w http.ResponseWriter, r *http.Request) {
	staff, err := h.staff.ToggleClock(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.ServiceErrorJSON(w, &h.logger, err)
		return
	}
	response.SuccessJSON(w, staff)
}

func (h *StaffHandler) Active(w http.ResponseWriter, r *http.Request) {
	label, err := h.staff.ActiveStaffLabel(r.Context())
	if err != nil {
		response.ServiceErrorJSON(w, &h.logger, err)
		return
	}
	response.SuccessJSON(w, dto.ActiveStaffResponse{Label: label})
}
