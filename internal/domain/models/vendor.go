package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Vendor is a supplier/brand owed a commission-based payment. Name is the
// unique key; line items reference vendors by this exact name.
type Vendor struct {
	Name          string
	CommissionPct decimal.Decimal // e.g. 10 means 10%
	Email         string
	Website       string

	// XeroContactID links the vendor to a Xero contact. Empty means the
	// vendor cannot receive purchase orders yet.
	XeroContactID string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsLinked reports whether the vendor has an accounting contact attached.
func (v *Vendor) IsLinked() bool {
	return v.XeroContactID != ""
}

// RateTable indexes vendors by name for the commission join.
type RateTable map[string]*Vendor

// NewRateTable builds a lookup table from a vendor list.
func NewRateTable(vendors []*Vendor) RateTable {
	table := make(RateTable, len(vendors))
	for _, v := range vendors {
		table[v.Name] = v
	}
	return table
}

// CommissionPctFor returns the vendor's commission rate, or zero for a
// vendor missing from the table.
func (t RateTable) CommissionPctFor(name string) decimal.Decimal {
	if v, ok := t[name]; ok {
		return v.CommissionPct
	}
	return decimal.Zero
}
