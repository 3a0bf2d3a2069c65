package handler

import (
	"net/http"
	"time"

	"github.com/Khawar13/web-pos/internal/service"
	"github.com/Khawar13/web-pos/pkg/response"
)

type ReportHandler struct {
	service *service.ReportService
}

func NewReportHandler(service *service.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

func (h *ReportHandler) SalesReport(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	start, err := time.Parse("2006-01-02", query.Get("start"))
	if err != nil {
		response.BadRequest(w, "start must be a date (YYYY-MM-DD)", err)
		return
	}
	end, err := time.Parse("2006-01-02", query.Get("end"))
	if err != nil {
		response.BadRequest(w, "end must be a date (YYYY-MM-DD)", err)
		return
	}

	// The range is half-open; make "end" inclusive of that day.
	report, err := h.service.SalesReport(r.Context(), start, end.AddDate(0, 0, 1))
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, report)
}

func (h *ReportHandler) DailySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.DailySummary(r.Context())
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, summary)
}

func (h *ReportHandler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.DashboardStats(r.Context())
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, stats)
}
