package api

import (
	"encoding/json"
	"net/http"

	"github.com/showroomhq/commission-service/internal/domain"
	"github.com/showroomhq/commission-service/internal/services/vendor"
	"go.uber.org/zap"
)

// maxImportBytes caps CSV uploads at 5 MiB
const maxImportBytes = 5 << 20

// VendorHandler serves vendor rate management
type VendorHandler struct {
	vendors *vendor.Service
	logger  *zap.Logger
}

// NewVendorHandler creates a new vendor handler
func NewVendorHandler(vendors *vendor.Service, logger *zap.Logger) *VendorHandler {
	return &VendorHandler{vendors: vendors, logger: logger}
}

// Import handles POST /api/v1/vendors/import. Accepts either a multipart
// form with a "file" field or a raw CSV body.
func (h *VendorHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	src := r.Body
	if err := r.ParseMultipartForm(maxImportBytes); err == nil {
		file, _, ferr := r.FormFile("file")
		if ferr == nil {
			defer file.Close()
			src = file
		}
	}

	result, err := h.vendors.ImportCSV(r.Context(), src)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// List handles GET /api/v1/vendors
func (h *VendorHandler) List(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.vendors.List(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"vendors": vendors})
}

type linkRequest struct {
	VendorName    string `json:"vendorName"`
	XeroContactID string `json:"xeroContactId"`
}

// Link handles POST /api/v1/vendors/link
func (h *VendorHandler) Link(w http.ResponseWriter, r *http.Request) {
	var req linkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, domain.WrapError(domain.ErrorCodeValidationFailed, "invalid request body", err))
		return
	}

	if err := h.vendors.LinkContact(r.Context(), req.VendorName, req.XeroContactID); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"linked": true})
}
