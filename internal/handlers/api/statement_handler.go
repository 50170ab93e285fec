package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/showroomhq/commission-service/internal/domain"
	"github.com/showroomhq/commission-service/internal/services/report"
	"github.com/showroomhq/commission-service/internal/services/statement"
	"go.uber.org/zap"
)

// StatementHandler serves vendor commission statements as PDF
type StatementHandler struct {
	reports *report.Service
	logger  *zap.Logger
}

// NewStatementHandler creates a new statement handler
func NewStatementHandler(reports *report.Service, logger *zap.Logger) *StatementHandler {
	return &StatementHandler{reports: reports, logger: logger}
}

// Get handles GET /api/v1/statements/{vendor}?report={id}
func (h *StatementHandler) Get(w http.ResponseWriter, r *http.Request) {
	vendorName := mux.Vars(r)["vendor"]
	reportID := r.URL.Query().Get("report")
	if reportID == "" {
		respondError(w, h.logger, domain.NewDomainError(domain.ErrorCodeValidationMissingField, "report query parameter is required"))
		return
	}

	rpt, err := h.reports.Get(r.Context(), reportID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	row := rpt.RowFor(vendorName)
	if row == nil {
		respondError(w, h.logger, domain.ErrRowNotFound(reportID, vendorName))
		return
	}

	pdf, err := statement.Render(row)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	filename := fmt.Sprintf("statement-%s.pdf", strings.ReplaceAll(vendorName, " ", "-"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		h.logger.Warn("failed to write statement response", zap.Error(err))
	}
}
