package api

import (
	"encoding/json"
	"net/http"

	"github.com/showroomhq/commission-service/internal/domain"
	"github.com/showroomhq/commission-service/internal/services/reconcile"
	"go.uber.org/zap"
)

// ReconcileHandler serves purchase order creation
type ReconcileHandler struct {
	reconcile *reconcile.Service
	logger    *zap.Logger
}

// NewReconcileHandler creates a new reconcile handler
func NewReconcileHandler(svc *reconcile.Service, logger *zap.Logger) *ReconcileHandler {
	return &ReconcileHandler{reconcile: svc, logger: logger}
}

type createPORequest struct {
	ReportID   string `json:"reportId"`
	VendorName string `json:"vendorName"`
}

// Create handles POST /api/v1/purchase-orders. Creating a PO for an
// already-settled row is not an error; the existing PO id is returned.
func (h *ReconcileHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPORequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, domain.WrapError(domain.ErrorCodeValidationFailed, "invalid request body", err))
		return
	}
	if req.ReportID == "" || req.VendorName == "" {
		respondError(w, h.logger, domain.NewDomainError(domain.ErrorCodeValidationMissingField, "reportId and vendorName are required"))
		return
	}

	result, err := h.reconcile.CreateForVendor(r.Context(), req.ReportID, req.VendorName)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	status := http.StatusCreated
	if result.AlreadySettled {
		status = http.StatusOK
	}
	respondJSON(w, status, result)
}

type batchPORequest struct {
	ReportID string `json:"reportId"`
}

// CreateBatch handles POST /api/v1/purchase-orders/batch
func (h *ReconcileHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var req batchPORequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, domain.WrapError(domain.ErrorCodeValidationFailed, "invalid request body", err))
		return
	}
	if req.ReportID == "" {
		respondError(w, h.logger, domain.NewDomainError(domain.ErrorCodeValidationMissingField, "reportId is required"))
		return
	}

	result, err := h.reconcile.CreateBatch(r.Context(), req.ReportID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
