package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/showroomhq/commission-service/internal/adapters/logger"
	"github.com/showroomhq/commission-service/internal/domain/models"
	"github.com/showroomhq/commission-service/internal/domain/ports"
	"github.com/showroomhq/commission-service/internal/services/reconcile"
	"github.com/showroomhq/commission-service/internal/services/report"
	"github.com/showroomhq/commission-service/internal/services/vendor"
	"github.com/showroomhq/commission-service/internal/testutil/fixtures"
	"github.com/showroomhq/commission-service/internal/testutil/mocks"
)

type routerDeps struct {
	reports    *mocks.MockReportRepository
	vendors    *mocks.MockVendorRepository
	source     *mocks.MockOrderSource
	sample     *mocks.MockOrderSource
	accounting *mocks.MockAccountingGateway
}

func newTestRouter(t *testing.T) (http.Handler, *routerDeps) {
	t.Helper()
	deps := &routerDeps{
		reports:    &mocks.MockReportRepository{},
		vendors:    &mocks.MockVendorRepository{},
		source:     &mocks.MockOrderSource{},
		sample:     &mocks.MockOrderSource{},
		accounting: &mocks.MockAccountingGateway{},
	}

	zl := zaptest.NewLogger(t)
	lp := logger.NewZap(zl)
	db := mocks.StubDB{}

	reportSvc := report.NewService(db, deps.reports, deps.vendors, deps.source, deps.sample, lp)
	vendorSvc := vendor.NewService(deps.vendors, lp)
	reconcileSvc := reconcile.NewService(db, deps.reports, deps.vendors, deps.accounting, lp)

	router := NewRouter(Handlers{
		Reports:    NewReportHandler(reportSvc, zl),
		Vendors:    NewVendorHandler(vendorSvc, zl),
		Reconcile:  NewReconcileHandler(reconcileSvc, zl),
		Statements: NewStatementHandler(reportSvc, zl),
	}, nil)
	return router, deps
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reqBody *strings.Reader
	if body == "" {
		reqBody = strings.NewReader("")
	} else {
		reqBody = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reqBody)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestRunReport(t *testing.T) {
	router, deps := newTestRouter(t)

	deps.source.On("Configured").Return(false)
	deps.sample.On("Configured").Return(false)
	deps.vendors.On("List", mock.Anything, nil).Return([]*models.Vendor{}, nil)
	deps.reports.On("Create", mock.Anything, nil, mock.Anything).Return(nil)

	rec := do(t, router, http.MethodPost, "/api/v1/reports/run", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var result models.GenerationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.NotEmpty(t, result.ReportID)
	assert.Equal(t, models.SourceInlineFallback, result.Source)
}

func TestGetReport_NotFound(t *testing.T) {
	router, deps := newTestRouter(t)

	deps.reports.On("GetByID", mock.Anything, nil, "missing").Return(nil, nil)

	rec := do(t, router, http.MethodGet, "/api/v1/reports/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "REPORT_NOT_FOUND")
}

func TestCreatePurchaseOrder_UnlinkedVendorIs400(t *testing.T) {
	router, deps := newTestRouter(t)

	deps.vendors.On("GetByName", mock.Anything, nil, "Brand C").
		Return(fixtures.NewVendor("Brand C").Build(), nil)

	rec := do(t, router, http.MethodPost, "/api/v1/purchase-orders",
		`{"reportId":"rpt-1","vendorName":"Brand C"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VENDOR_NOT_LINKED")
}

func TestCreatePurchaseOrder_MissingFields(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/v1/purchase-orders", `{"reportId":"rpt-1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_MISSING_FIELD")
}

func TestCreatePurchaseOrder_Created(t *testing.T) {
	router, deps := newTestRouter(t)

	deps.vendors.On("GetByName", mock.Anything, nil, "Brand A").
		Return(fixtures.NewVendor("Brand A").WithXeroContact("contact-a").Build(), nil)
	deps.reports.On("GetByID", mock.Anything, nil, "rpt-1").Return(&models.Report{
		ID:          "rpt-1",
		PeriodStart: time.Date(2026, 7, 29, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		Rows: []models.ReportRow{
			{Vendor: "Brand A", NetPayable: decimal.RequireFromString("42.50")},
		},
	}, nil)
	deps.accounting.On("CreatePurchaseOrders", mock.Anything, mock.Anything).
		Return([]ports.PurchaseOrder{{ID: "PO-1", ContactID: "contact-a"}}, nil)
	deps.reports.On("SetRowPoID", mock.Anything, nil, "rpt-1", "Brand A", "PO-1").Return(nil)

	rec := do(t, router, http.MethodPost, "/api/v1/purchase-orders",
		`{"reportId":"rpt-1","vendorName":"Brand A"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"PO-1"`)
}

func TestVendorImport(t *testing.T) {
	router, deps := newTestRouter(t)

	deps.vendors.On("Upsert", mock.Anything, nil, mock.Anything).Return(nil)
	deps.vendors.On("Count", mock.Anything, nil).Return(int64(2), nil)

	csv := "Supplier / Brand,Commission Rate\nBrand A,20%\nBrand B,15\n"
	req := httptest.NewRequest(http.MethodPost, "/api/v1/vendors/import", strings.NewReader(csv))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"imported":2`)
}

func TestLinkVendor_Unknown(t *testing.T) {
	router, deps := newTestRouter(t)

	deps.vendors.On("GetByName", mock.Anything, nil, "Nobody").Return(nil, nil)

	rec := do(t, router, http.MethodPost, "/api/v1/vendors/link",
		`{"vendorName":"Nobody","xeroContactId":"c1"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "VENDOR_NOT_FOUND")
}

func TestStatement(t *testing.T) {
	router, deps := newTestRouter(t)

	deps.reports.On("GetByID", mock.Anything, nil, "rpt-1").Return(&models.Report{
		ID: "rpt-1",
		Rows: []models.ReportRow{
			{Vendor: "Brand A", Currency: "AUD", NetPayable: decimal.RequireFromString("10")},
		},
	}, nil)

	rec := do(t, router, http.MethodGet, "/api/v1/statements/Brand%20A?report=rpt-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF", rec.Body.String()[:4])
}

func TestStatement_MissingReportParam(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/v1/statements/Brand%20A", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
