package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/showroomhq/commission-service/pkg/middleware"
	"github.com/showroomhq/commission-service/pkg/observability"
)

// Handlers bundles everything the router mounts
type Handlers struct {
	Reports    *ReportHandler
	Vendors    *VendorHandler
	Reconcile  *ReconcileHandler
	Statements *StatementHandler
	Xero       *XeroHandler
}

// NewRouter builds the HTTP route table. The rate limiter is optional; pass
// nil to mount routes without it.
func NewRouter(h Handlers, limiter *middleware.RateLimiter) *mux.Router {
	r := mux.NewRouter()
	r.Use(observability.HTTPMiddleware)
	if limiter != nil {
		r.Use(limiter.Middleware)
	}

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.Handle("/metrics", observability.MetricsHandler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/reports/run", h.Reports.Run).Methods(http.MethodPost)
	api.HandleFunc("/reports", h.Reports.List).Methods(http.MethodGet)
	api.HandleFunc("/reports/{id}", h.Reports.Get).Methods(http.MethodGet)
	api.HandleFunc("/dashboard/stats", h.Reports.Stats).Methods(http.MethodGet)

	api.HandleFunc("/vendors/import", h.Vendors.Import).Methods(http.MethodPost)
	api.HandleFunc("/vendors", h.Vendors.List).Methods(http.MethodGet)
	api.HandleFunc("/vendors/link", h.Vendors.Link).Methods(http.MethodPost)

	api.HandleFunc("/purchase-orders", h.Reconcile.Create).Methods(http.MethodPost)
	api.HandleFunc("/purchase-orders/batch", h.Reconcile.CreateBatch).Methods(http.MethodPost)

	api.HandleFunc("/statements/{vendor}", h.Statements.Get).Methods(http.MethodGet)

	api.HandleFunc("/xero/connect", h.Xero.Connect).Methods(http.MethodGet)
	api.HandleFunc("/xero/callback", h.Xero.Callback).Methods(http.MethodGet)
	api.HandleFunc("/xero/status", h.Xero.Status).Methods(http.MethodGet)
	api.HandleFunc("/xero/contacts", h.Xero.SearchContacts).Methods(http.MethodGet)
	api.HandleFunc("/xero/contacts", h.Xero.CreateContact).Methods(http.MethodPost)

	return r
}
