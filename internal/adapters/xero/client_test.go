package xero

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/showroomhq/commission-service/internal/adapters/logger"
	"github.com/showroomhq/commission-service/internal/domain"
	"github.com/showroomhq/commission-service/internal/domain/models"
	"github.com/showroomhq/commission-service/internal/domain/ports"
	"github.com/showroomhq/commission-service/internal/testutil/mocks"
)

// routingHTTP dispatches requests to canned handlers by URL substring and
// records every request it saw.
type routingHTTP struct {
	routes   map[string]func(*http.Request) *http.Response
	requests []*http.Request
	bodies   []string
}

func (r *routingHTTP) Do(req *http.Request) (*http.Response, error) {
	body := ""
	if req.Body != nil {
		raw, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		body = string(raw)
	}
	r.requests = append(r.requests, req)
	r.bodies = append(r.bodies, body)

	for substr, handler := range r.routes {
		if strings.Contains(req.URL.String(), substr) {
			return handler(req), nil
		}
	}
	return jsonResponse(http.StatusNotFound, `{}`), nil
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func connectedIntegration(expiresAt time.Time) *models.Integration {
	return &models.Integration{
		Provider: Provider,
		TokenSet: &models.TokenSet{
			AccessToken:  "live-token",
			RefreshToken: "refresh-token",
			ExpiresAt:    expiresAt,
		},
		TenantID:   "tenant-1",
		TenantName: "Showroom Pty Ltd",
	}
}

func newTestClient(t *testing.T, http *routingHTTP, integrations *mocks.MockIntegrationRepository) *Client {
	t.Helper()
	cfg := DefaultConfig()
	cfg.ClientID = "client-id"
	cfg.ClientSecret = "client-secret"
	cfg.RedirectURI = "https://app.example.com/api/v1/xero/callback"
	return NewClient(cfg, integrations, http, logger.NewZap(zaptest.NewLogger(t)))
}

func TestCreatePurchaseOrders_PayloadShape(t *testing.T) {
	integrations := &mocks.MockIntegrationRepository{}
	integrations.On("Get", mock.Anything, nil, Provider).
		Return(connectedIntegration(time.Now().Add(time.Hour)), nil)

	httpStub := &routingHTTP{routes: map[string]func(*http.Request) *http.Response{
		"/PurchaseOrders": func(*http.Request) *http.Response {
			return jsonResponse(http.StatusOK, `{"PurchaseOrders":[
				{"PurchaseOrderID":"po-uuid-1","PurchaseOrderNumber":"PO-0042",
				 "Contact":{"ContactID":"contact-a","Name":"Brand A"}}
			]}`)
		},
	}}
	client := newTestClient(t, httpStub, integrations)

	pos, err := client.CreatePurchaseOrders(context.Background(), []ports.PurchaseOrderRequest{{
		ContactID:   "contact-a",
		Vendor:      "Brand A",
		Reference:   "Showroom commission 2026-07-29→2026-08-28",
		Description: "Commission payable for Brand A",
		UnitAmount:  decimal.RequireFromString("42.50"),
		Date:        time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC),
	}})
	require.NoError(t, err)

	require.Len(t, pos, 1)
	assert.Equal(t, "po-uuid-1", pos[0].ID)
	assert.Equal(t, "PO-0042", pos[0].Number)
	assert.Equal(t, "contact-a", pos[0].ContactID)
	assert.Equal(t, "Brand A", pos[0].ContactName)

	require.Len(t, httpStub.requests, 1)
	req := httpStub.requests[0]
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "Bearer live-token", req.Header.Get("Authorization"))
	assert.Equal(t, "tenant-1", req.Header.Get("Xero-Tenant-Id"))

	var payload map[string][]map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(httpStub.bodies[0]), &payload))
	require.Len(t, payload["PurchaseOrders"], 1)
	po := payload["PurchaseOrders"][0]
	assert.Equal(t, "DRAFT", po["Status"])
	assert.Equal(t, "2026-08-28", po["Date"])

	lines := po["LineItems"].([]interface{})
	require.Len(t, lines, 1)
	line := lines[0].(map[string]interface{})
	assert.Equal(t, "300", line["AccountCode"])
	assert.Equal(t, "INPUT", line["TaxType"])
	assert.Equal(t, "1", line["Quantity"])
	assert.Equal(t, "42.5", line["UnitAmount"])
}

func TestCreatePurchaseOrders_EmptyBatchIsNoop(t *testing.T) {
	integrations := &mocks.MockIntegrationRepository{}
	httpStub := &routingHTTP{}
	client := newTestClient(t, httpStub, integrations)

	pos, err := client.CreatePurchaseOrders(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, pos)
	assert.Empty(t, httpStub.requests)
}

func TestCreatePurchaseOrders_NotConnected(t *testing.T) {
	integrations := &mocks.MockIntegrationRepository{}
	integrations.On("Get", mock.Anything, nil, Provider).Return(nil, nil)
	client := newTestClient(t, &routingHTTP{}, integrations)

	_, err := client.CreatePurchaseOrders(context.Background(), []ports.PurchaseOrderRequest{{ContactID: "c"}})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrorCodeAccountingAuthRequired))
}

func TestCreatePurchaseOrders_RefreshesExpiredToken(t *testing.T) {
	integrations := &mocks.MockIntegrationRepository{}
	integrations.On("Get", mock.Anything, nil, Provider).
		Return(connectedIntegration(time.Now().Add(-time.Minute)), nil)

	var saved *models.Integration
	integrations.On("Save", mock.Anything, nil, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(2).(*models.Integration)
	}).Return(nil)

	httpStub := &routingHTTP{routes: map[string]func(*http.Request) *http.Response{
		"identity.xero.com/connect/token": func(*http.Request) *http.Response {
			return jsonResponse(http.StatusOK, `{"access_token":"fresh-token","refresh_token":"fresh-refresh","expires_in":1800}`)
		},
		"/PurchaseOrders": func(*http.Request) *http.Response {
			return jsonResponse(http.StatusOK, `{"PurchaseOrders":[{"PurchaseOrderID":"po-1","Contact":{"ContactID":"c"}}]}`)
		},
	}}
	client := newTestClient(t, httpStub, integrations)

	_, err := client.CreatePurchaseOrders(context.Background(), []ports.PurchaseOrderRequest{{ContactID: "c"}})
	require.NoError(t, err)

	// The rotated token set was persisted before the API call.
	require.NotNil(t, saved)
	assert.Equal(t, "fresh-token", saved.TokenSet.AccessToken)
	assert.Equal(t, "fresh-refresh", saved.TokenSet.RefreshToken)

	// The refresh request authenticated with client credentials.
	require.Len(t, httpStub.requests, 2)
	user, pass, ok := httpStub.requests[0].BasicAuth()
	require.True(t, ok)
	assert.Equal(t, "client-id", user)
	assert.Equal(t, "client-secret", pass)
	assert.Contains(t, httpStub.bodies[0], "grant_type=refresh_token")

	// The PO call used the fresh token.
	assert.Equal(t, "Bearer fresh-token", httpStub.requests[1].Header.Get("Authorization"))
}

func TestCreatePurchaseOrders_APIFailureCarriesBody(t *testing.T) {
	integrations := &mocks.MockIntegrationRepository{}
	integrations.On("Get", mock.Anything, nil, Provider).
		Return(connectedIntegration(time.Now().Add(time.Hour)), nil)

	httpStub := &routingHTTP{routes: map[string]func(*http.Request) *http.Response{
		"/PurchaseOrders": func(*http.Request) *http.Response {
			return jsonResponse(http.StatusBadRequest, `{"Message":"Invalid AccountCode"}`)
		},
	}}
	client := newTestClient(t, httpStub, integrations)

	_, err := client.CreatePurchaseOrders(context.Background(), []ports.PurchaseOrderRequest{{ContactID: "c"}})
	require.Error(t, err)

	var derr *domain.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.ErrorCodeAccountingAPIFailure, derr.Code)
	assert.Equal(t, "/PurchaseOrders", derr.Details["path"])
	assert.Contains(t, derr.Details["body"], "Invalid AccountCode")
}

func TestSearchContacts(t *testing.T) {
	integrations := &mocks.MockIntegrationRepository{}
	integrations.On("Get", mock.Anything, nil, Provider).
		Return(connectedIntegration(time.Now().Add(time.Hour)), nil)

	httpStub := &routingHTTP{routes: map[string]func(*http.Request) *http.Response{
		"/Contacts": func(*http.Request) *http.Response {
			return jsonResponse(http.StatusOK, `{"Contacts":[
				{"ContactID":"c1","Name":"Brand A Pty Ltd","EmailAddress":"a@example.com"}
			]}`)
		},
	}}
	client := newTestClient(t, httpStub, integrations)

	contacts, err := client.SearchContacts(context.Background(), "Brand A & Co")
	require.NoError(t, err)

	require.Len(t, contacts, 1)
	assert.Equal(t, "c1", contacts[0].ID)
	assert.Equal(t, "a@example.com", contacts[0].Email)

	require.Len(t, httpStub.requests, 1)
	assert.Equal(t, "searchTerm=Brand+A+%26+Co", httpStub.requests[0].URL.RawQuery)
}

func TestStatus(t *testing.T) {
	t.Run("connected", func(t *testing.T) {
		integrations := &mocks.MockIntegrationRepository{}
		integrations.On("Get", mock.Anything, nil, Provider).
			Return(connectedIntegration(time.Now().Add(time.Hour)), nil)
		client := newTestClient(t, &routingHTTP{}, integrations)

		status, err := client.Status(context.Background())
		require.NoError(t, err)
		assert.True(t, status.Connected)
		assert.Equal(t, "tenant-1", status.TenantID)
		assert.Equal(t, "Showroom Pty Ltd", status.TenantName)
	})

	t.Run("never connected", func(t *testing.T) {
		integrations := &mocks.MockIntegrationRepository{}
		integrations.On("Get", mock.Anything, nil, Provider).Return(nil, nil)
		client := newTestClient(t, &routingHTTP{}, integrations)

		status, err := client.Status(context.Background())
		require.NoError(t, err)
		assert.False(t, status.Connected)
	})
}
