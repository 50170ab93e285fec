package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// VendorAggregate is the in-memory per-vendor rollup produced by one
// aggregation pass. OrderIDs is the set of distinct orders that touched the
// vendor with a line item; refund-only appearances do not count.
type VendorAggregate struct {
	Vendor   string
	Currency string
	OrderIDs map[string]struct{}
	Units    int64
	Gross    decimal.Decimal
	Refunds  decimal.Decimal
	Shipping decimal.Decimal
	Fees     decimal.Decimal // reserved, always zero in this version
}

// NewVendorAggregate returns a zeroed aggregate for a vendor.
func NewVendorAggregate(vendor, currency string) *VendorAggregate {
	return &VendorAggregate{
		Vendor:   vendor,
		Currency: currency,
		OrderIDs: make(map[string]struct{}),
		Gross:    decimal.Zero,
		Refunds:  decimal.Zero,
		Shipping: decimal.Zero,
		Fees:     decimal.Zero,
	}
}

// Orders is the distinct order count for this vendor.
func (a *VendorAggregate) Orders() int {
	return len(a.OrderIDs)
}

// RowState describes where a report row sits in the PO reconciliation
// lifecycle. Transitions are one-directional: Unlinked -> Pending -> Settled.
type RowState string

const (
	// RowUnlinked: the vendor has no accounting contact, no PO can be raised.
	RowUnlinked RowState = "unlinked"
	// RowPending: the vendor is linked but no PO has been created yet.
	RowPending RowState = "pending"
	// RowSettled: a PO exists; its external id is recorded on the row.
	RowSettled RowState = "settled"
)

// ReportRow is one vendor's line in a report. Immutable once computed,
// except for XeroPoID which the reconciler writes exactly once.
type ReportRow struct {
	Vendor        string
	Currency      string
	Orders        int32
	Units         int64
	Gross         decimal.Decimal
	Refunds       decimal.Decimal
	Shipping      decimal.Decimal
	Fees          decimal.Decimal
	CommissionPct decimal.Decimal
	CommissionAmt decimal.Decimal
	NetPayable    decimal.Decimal

	XeroPoID *string
}

// State derives the row's reconciliation state. Whether the vendor is
// linked comes from the vendor table, not the row itself.
func (r *ReportRow) State(vendorLinked bool) RowState {
	if r.IsSettled() {
		return RowSettled
	}
	if vendorLinked {
		return RowPending
	}
	return RowUnlinked
}

// IsSettled reports whether a PO id has been written back to the row.
func (r *ReportRow) IsSettled() bool {
	return r.XeroPoID != nil && *r.XeroPoID != ""
}

// Report is one immutable snapshot of per-vendor commissions for a period.
// A new aggregation run always creates a new report; old reports are never
// recomputed. Vendor names are unique across rows.
type Report struct {
	ID          string
	PeriodStart time.Time
	PeriodEnd   time.Time
	Rows        []ReportRow
	CreatedAt   time.Time
}

// RowFor finds the row for a vendor, or nil if the vendor is not in the
// report.
func (r *Report) RowFor(vendor string) *ReportRow {
	for i := range r.Rows {
		if r.Rows[i].Vendor == vendor {
			return &r.Rows[i]
		}
	}
	return nil
}

// ReportSource tags where a report's order data came from.
type ReportSource string

const (
	SourceLive           ReportSource = "live"
	SourceSample         ReportSource = "sample"
	SourceInlineFallback ReportSource = "inline-fallback"
)

// GenerationResult is the caller-facing outcome of one report run.
type GenerationResult struct {
	ReportID string       `json:"reportId"`
	RowCount int          `json:"rowCount"`
	Source   ReportSource `json:"source"`
}
