package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/showroomhq/commission-service/internal/adapters/xero"
	"github.com/showroomhq/commission-service/internal/domain"
	"go.uber.org/zap"
)

// stateCookie carries the OAuth state between the connect redirect and the
// callback so the callback can reject forged requests.
const stateCookie = "xero_oauth_state"

// XeroHandler serves the Xero connection lifecycle and contact lookups
type XeroHandler struct {
	xero   *xero.Client
	logger *zap.Logger
}

// NewXeroHandler creates a new Xero handler
func NewXeroHandler(client *xero.Client, logger *zap.Logger) *XeroHandler {
	return &XeroHandler{xero: client, logger: logger}
}

// Connect handles GET /api/v1/xero/connect and redirects to the Xero consent
// page.
func (h *XeroHandler) Connect(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.xero.AuthorizeURL(state), http.StatusFound)
}

// Callback handles GET /api/v1/xero/callback
func (h *XeroHandler) Callback(w http.ResponseWriter, r *http.Request) {
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		respondError(w, h.logger, domain.NewDomainError(domain.ErrorCodeAccountingAuthRequired, "authorization was denied").
			WithDetail("error", errParam))
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		respondError(w, h.logger, domain.NewDomainError(domain.ErrorCodeValidationMissingField, "code query parameter is required"))
		return
	}

	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		respondError(w, h.logger, domain.NewDomainError(domain.ErrorCodeValidationFailed, "oauth state mismatch"))
		return
	}

	if err := h.xero.ExchangeCode(r.Context(), code); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"connected": true})
}

// Status handles GET /api/v1/xero/status
func (h *XeroHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.xero.Status(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, status)
}

// SearchContacts handles GET /api/v1/xero/contacts?q=
func (h *XeroHandler) SearchContacts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, h.logger, domain.NewDomainError(domain.ErrorCodeValidationMissingField, "q query parameter is required"))
		return
	}

	contacts, err := h.xero.SearchContacts(r.Context(), query)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"contacts": contacts})
}

type createContactRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreateContact handles POST /api/v1/xero/contacts
func (h *XeroHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var req createContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, domain.WrapError(domain.ErrorCodeValidationFailed, "invalid request body", err))
		return
	}
	if req.Name == "" {
		respondError(w, h.logger, domain.NewDomainError(domain.ErrorCodeValidationMissingField, "name is required"))
		return
	}

	contact, err := h.xero.CreateContact(r.Context(), req.Name, req.Email)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, contact)
}
