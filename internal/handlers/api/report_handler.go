package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/showroomhq/commission-service/internal/services/report"
	"go.uber.org/zap"
)

// ReportHandler serves report generation and retrieval
type ReportHandler struct {
	reports *report.Service
	logger  *zap.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports *report.Service, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, logger: logger}
}

// Run handles POST /api/v1/reports/run. Generation never hard-fails on the
// order source; the response's source field tells the caller whether live
// data was used.
func (h *ReportHandler) Run(w http.ResponseWriter, r *http.Request) {
	result, err := h.reports.Generate(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// List handles GET /api/v1/reports
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reports.List(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"reports": reports})
}

// Get handles GET /api/v1/reports/{id}
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	rpt, err := h.reports.Get(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, rpt)
}

// Stats handles GET /api/v1/dashboard/stats
func (h *ReportHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reports.GetStats(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
