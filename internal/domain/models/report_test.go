package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReportRow_State(t *testing.T) {
	poID := "PO-1"

	tests := []struct {
		name         string
		row          ReportRow
		vendorLinked bool
		want         RowState
	}{
		{"no link no po", ReportRow{}, false, RowUnlinked},
		{"linked no po", ReportRow{}, true, RowPending},
		{"linked with po", ReportRow{XeroPoID: &poID}, true, RowSettled},
		// A settled row stays settled even if the vendor link is later
		// removed: the PO already exists.
		{"unlinked with po", ReportRow{XeroPoID: &poID}, false, RowSettled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.row.State(tt.vendorLinked))
		})
	}
}

func TestReportRow_IsSettled(t *testing.T) {
	empty := ""
	poID := "PO-1"

	assert.False(t, (&ReportRow{}).IsSettled())
	assert.False(t, (&ReportRow{XeroPoID: &empty}).IsSettled())
	assert.True(t, (&ReportRow{XeroPoID: &poID}).IsSettled())
}

func TestReport_RowFor(t *testing.T) {
	rpt := &Report{Rows: []ReportRow{{Vendor: "A"}, {Vendor: "B"}}}

	row := rpt.RowFor("B")
	assert.NotNil(t, row)
	assert.Equal(t, "B", row.Vendor)
	assert.Nil(t, rpt.RowFor("C"))

	// RowFor returns a pointer into the report, so state written through
	// it is visible on the report itself.
	poID := "PO-9"
	row.XeroPoID = &poID
	assert.True(t, rpt.Rows[1].IsSettled())
}

func TestTokenSet_Expired(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	ts := &TokenSet{ExpiresAt: now.Add(time.Hour)}
	assert.False(t, ts.Expired(now))

	ts = &TokenSet{ExpiresAt: now.Add(-time.Minute)}
	assert.True(t, ts.Expired(now))

	// Inside the skew margin counts as expired.
	ts = &TokenSet{ExpiresAt: now.Add(10 * time.Second)}
	assert.True(t, ts.Expired(now))
}

func TestIntegration_Connected(t *testing.T) {
	var nilIntegration *Integration
	assert.False(t, nilIntegration.Connected())
	assert.False(t, (&Integration{}).Connected())
	assert.False(t, (&Integration{TokenSet: &TokenSet{}}).Connected())
	assert.True(t, (&Integration{TokenSet: &TokenSet{}, TenantID: "t"}).Connected())
}

func TestVendorName(t *testing.T) {
	assert.Equal(t, UnknownVendor, VendorName(""))
	assert.Equal(t, "Brand A", VendorName("Brand A"))
}
