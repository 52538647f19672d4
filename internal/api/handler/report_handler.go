package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/RoyceAzure/lab/cafe_erp/internal/api/response"
	"github.com/RoyceAzure/lab/cafe_erp/internal/service"
	"github.com/rs/zerolog"
)

type ReportHandler struct {
	reports service.IReportService
	loc     *time.Location
	now     func() time.Time
	logger  zerolog.Logger
}

func NewReportHandler(reports service.IReportService, loc *time.Location, logger zerolog.Logger) *ReportHandler {
	if reports == nil {
		panic("report service cannot be nil")
	}
	if loc == nil {
		loc = time.Local
	}
	return &ReportHandler{reports: reports, loc: loc, now: time.Now, logger: logger}
}

// Sales from/to 為 RFC3339, 未帶時為今天
func (h *ReportHandler) Sales(w http.ResponseWriter, r *http.Request) {
	now := h.now().In(h.loc)
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, h.loc)
	to := from.AddDate(0, 0, 1)

	q := r.URL.Query()
	var err error
	if v := q.Get("from"); v != "" {
		if from, err = time.Parse(time.RFC3339, v); err != nil {
			response.ErrorJSON(w, http.StatusBadRequest, response.CodeBadRequest, fmt.Sprintf("invalid from: %v", err))
			return
		}
	}
	if v := q.Get("to"); v != "" {
		if to, err = time.Parse(time.RFC3339, v); err != nil {
			response.ErrorJSON(w, http.StatusBadRequest, response.CodeBadRequest, fmt.Sprintf("invalid to: %v", err))
			return
		}
	}
	if !to.After(from) {
		response.ErrorJSON(w, http.StatusBadRequest, response.CodeBadRequest, "to must be after from")
		return
	}

	report, err := h.reports.SalesReport(r.Context(), from, to)
	if err != nil {
		response.ServiceErrorJSON(w, &h.logger, err)
		return
	}
	response.SuccessJSON(w, report)
}

func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.reports.Dashboard(r.Context())
	if err != nil {
		response.ServiceErrorJSON(w, &h.logger, err)
		return
	}
	response.SuccessJSON(w, dashboard)
}
