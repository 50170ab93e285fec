package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is one sales order as returned by the order source, validated into
// a strict shape at the ingestion boundary. Orders are immutable inputs to
// aggregation; the service never writes them back.
type Order struct {
	ID            string
	Name          string // display number, e.g. "#1042"
	CreatedAt     time.Time
	CurrencyCode  string
	LineItems     []LineItem
	ShippingLines []ShippingCharge
	Refunds       []Refund
}

// LineItem is a single sellable line within an order. Vendor is the
// supplier/brand name; an absent or empty vendor is normalized to
// UnknownVendor at the boundary.
type LineItem struct {
	ID              string
	Vendor          string
	SKU             string
	Quantity        int32
	DiscountedTotal decimal.Decimal // in the order's currency, after discounts
}

// ShippingCharge is one shipping line charged to the customer.
type ShippingCharge struct {
	Amount decimal.Decimal
}

// Refund groups the refund line items issued against an order.
type Refund struct {
	CreatedAt time.Time
	LineItems []RefundLineItem
}

// RefundLineItem carries the refunded subtotal plus the vendor and SKU of
// the original line item being refunded. Vendor attribution always follows
// the refunded line item, not the refund itself.
type RefundLineItem struct {
	Subtotal decimal.Decimal
	Vendor   string
	SKU      string
}

// UnknownVendor is the bucket for line items with no vendor set.
const UnknownVendor = "Unknown"

// ShippingTotal sums all shipping lines on the order.
func (o *Order) ShippingTotal() decimal.Decimal {
	total := decimal.Zero
	for _, s := range o.ShippingLines {
		total = total.Add(s.Amount)
	}
	return total
}

// VendorName normalizes an empty vendor to UnknownVendor.
func VendorName(vendor string) string {
	if vendor == "" {
		return UnknownVendor
	}
	return vendor
}
