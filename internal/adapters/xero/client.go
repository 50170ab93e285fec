package xero

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"github.com/showroomhq/commission-service/internal/domain"
	"github.com/showroomhq/commission-service/internal/domain/ports"
)

const accountingBaseURL = "https://api.xero.com/api.xro/2.0"

// Purchase orders are created as drafts against a fixed expense account
// and tax type; finance reviews and approves them in Xero.
const (
	poStatus      = "DRAFT"
	poAccountCode = "300"
	poTaxType     = "INPUT"
)

// Config contains configuration for the Xero client
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Timeout      time.Duration
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{Timeout: 30 * time.Second}
}

// Client talks to the Xero accounting API. It implements
// ports.AccountingGateway. Calls are at-least-once: the client never
// retries a write internally.
type Client struct {
	config       *Config
	integrations ports.IntegrationRepository
	httpClient   ports.HTTPClient
	logger       ports.Logger
}

// NewClient creates a new Xero client
func NewClient(
	config *Config,
	integrations ports.IntegrationRepository,
	httpClient ports.HTTPClient,
	logger ports.Logger,
) *Client {
	return &Client{
		config:       config,
		integrations: integrations,
		httpClient:   httpClient,
		logger:       logger,
	}
}

// Wire shapes for the accounting API.

type xeroContact struct {
	ContactID    string `json:"ContactID,omitempty"`
	Name         string `json:"Name,omitempty"`
	EmailAddress string `json:"EmailAddress,omitempty"`
}

type xeroLineItem struct {
	Description string          `json:"Description"`
	Quantity    decimal.Decimal `json:"Quantity"`
	UnitAmount  decimal.Decimal `json:"UnitAmount"`
	AccountCode string          `json:"AccountCode"`
	TaxType     string          `json:"TaxType"`
}

type xeroPurchaseOrder struct {
	PurchaseOrderID     string         `json:"PurchaseOrderID,omitempty"`
	PurchaseOrderNumber string         `json:"PurchaseOrderNumber,omitempty"`
	Date                string         `json:"Date,omitempty"`
	Status              string         `json:"Status,omitempty"`
	Reference           string         `json:"Reference,omitempty"`
	Contact             xeroContact    `json:"Contact"`
	LineItems           []xeroLineItem `json:"LineItems,omitempty"`
}

type purchaseOrdersEnvelope struct {
	PurchaseOrders []xeroPurchaseOrder `json:"PurchaseOrders"`
}

// CreatePurchaseOrders submits all draft POs in one batch call.
//
// The response carries no client-side correlation token; each created PO is
// identified only by its contact. Callers own the mapping from contact back
// to report row.
func (c *Client) CreatePurchaseOrders(ctx context.Context, reqs []ports.PurchaseOrderRequest) ([]ports.PurchaseOrder, error) {
	if len(reqs) == 0 {
		return nil, nil
	}

	sess, err := c.getSession(ctx)
	if err != nil {
		return nil, err
	}

	payload := purchaseOrdersEnvelope{}
	for _, r := range reqs {
		payload.PurchaseOrders = append(payload.PurchaseOrders, xeroPurchaseOrder{
			Date:      r.Date.Format("2006-01-02"),
			Status:    poStatus,
			Reference: r.Reference,
			Contact:   xeroContact{ContactID: r.ContactID},
			LineItems: []xeroLineItem{{
				Description: r.Description,
				Quantity:    decimal.NewFromInt(1),
				UnitAmount:  r.UnitAmount,
				AccountCode: poAccountCode,
				TaxType:     poTaxType,
			}},
		})
	}

	var out purchaseOrdersEnvelope
	if err := c.do(ctx, sess, http.MethodPut, "/PurchaseOrders", payload, &out); err != nil {
		return nil, err
	}

	pos := make([]ports.PurchaseOrder, 0, len(out.PurchaseOrders))
	for _, po := range out.PurchaseOrders {
		pos = append(pos, ports.PurchaseOrder{
			ID:          po.PurchaseOrderID,
			Number:      po.PurchaseOrderNumber,
			ContactID:   po.Contact.ContactID,
			ContactName: po.Contact.Name,
		})
	}
	return pos, nil
}

type contactsEnvelope struct {
	Contacts []xeroContact `json:"Contacts"`
}

// SearchContacts finds contacts whose name contains the query.
func (c *Client) SearchContacts(ctx context.Context, query string) ([]ports.Contact, error) {
	sess, err := c.getSession(ctx)
	if err != nil {
		return nil, err
	}

	path := "/Contacts?searchTerm=" + url.QueryEscape(query)
	var out contactsEnvelope
	if err := c.do(ctx, sess, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}

	contacts := make([]ports.Contact, 0, len(out.Contacts))
	for _, ct := range out.Contacts {
		contacts = append(contacts, ports.Contact{ID: ct.ContactID, Name: ct.Name, Email: ct.EmailAddress})
	}
	return contacts, nil
}

// CreateContact creates a contact for a vendor.
func (c *Client) CreateContact(ctx context.Context, name, email string) (*ports.Contact, error) {
	sess, err := c.getSession(ctx)
	if err != nil {
		return nil, err
	}

	payload := contactsEnvelope{Contacts: []xeroContact{{Name: name, EmailAddress: email}}}
	var out contactsEnvelope
	if err := c.do(ctx, sess, http.MethodPut, "/Contacts", payload, &out); err != nil {
		return nil, err
	}
	if len(out.Contacts) == 0 {
		return nil, domain.NewDomainError(domain.ErrorCodeAccountingAPIFailure, "contact creation returned no contact")
	}
	ct := out.Contacts[0]
	return &ports.Contact{ID: ct.ContactID, Name: ct.Name, Email: ct.EmailAddress}, nil
}

// Status reports the connection state without making a write.
func (c *Client) Status(ctx context.Context) (*ports.AccountingStatus, error) {
	integ, err := c.integrations.Get(ctx, nil, Provider)
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeDatabaseError, "load integration", err)
	}
	if !integ.Connected() {
		return &ports.AccountingStatus{Connected: false}, nil
	}
	return &ports.AccountingStatus{
		Connected:  true,
		TenantID:   integ.TenantID,
		TenantName: integ.TenantName,
	}, nil
}

// do executes one authenticated accounting API call.
func (c *Client) do(ctx context.Context, sess *session, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, accountingBaseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+sess.accessToken)
	req.Header.Set("Xero-Tenant-Id", sess.tenantID)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WrapError(domain.ErrorCodeAccountingAPIFailure, "xero request", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.WrapError(domain.ErrorCodeAccountingAPIFailure, "read xero response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.NewDomainError(domain.ErrorCodeAccountingAPIFailure,
			fmt.Sprintf("xero returned %d", resp.StatusCode)).
			WithDetail("path", path).
			WithDetail("body", string(respBody))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return domain.WrapError(domain.ErrorCodeAccountingAPIFailure, "decode xero response", err)
		}
	}
	return nil
}
