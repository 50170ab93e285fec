package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderRequest describes one draft PO to raise against a vendor's
// accounting contact. Each PO carries exactly one line item: quantity 1,
// unit amount = the row's net payable.
type PurchaseOrderRequest struct {
	ContactID   string
	Vendor      string // vendor name, used in the line description
	Reference   string // e.g. "Showroom commission 2026-07-01→2026-07-31"
	Description string
	UnitAmount  decimal.Decimal
	Date        time.Time
}

// PurchaseOrder is the accounting system's record of a created PO.
//
// The response carries no client-side correlation token, only the contact
// it was raised against. Callers matching POs back to report rows by
// contact name must resolve the name through the vendor link table first;
// see reconcile.Service.
type PurchaseOrder struct {
	ID          string
	Number      string
	ContactID   string
	ContactName string
}

// Contact is an accounting-system contact a vendor can be linked to.
type Contact struct {
	ID    string
	Name  string
	Email string
}

// AccountingStatus reports whether the accounting integration is usable.
type AccountingStatus struct {
	Connected  bool
	TenantID   string
	TenantName string
}

// AccountingGateway is the port to the external accounting system (Xero).
// All calls are at-least-once: the gateway never retries internally, and a
// caller must not retry an ambiguous outcome without re-reading row state.
type AccountingGateway interface {
	// CreatePurchaseOrders submits draft POs in one batch call and returns
	// the created records in response order.
	CreatePurchaseOrders(ctx context.Context, reqs []PurchaseOrderRequest) ([]PurchaseOrder, error)

	// SearchContacts finds contacts whose name contains the query.
	SearchContacts(ctx context.Context, query string) ([]Contact, error)

	// CreateContact creates a contact for a vendor.
	CreateContact(ctx context.Context, name, email string) (*Contact, error)

	// Status reports the connection state without making a write.
	Status(ctx context.Context) (*AccountingStatus, error)
}
