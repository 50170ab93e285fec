package statement

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/showroomhq/commission-service/internal/domain/models"
)

func TestRender(t *testing.T) {
	row := &models.ReportRow{
		Vendor:        "Brand A",
		Currency:      "AUD",
		Orders:        3,
		Units:         5,
		Gross:         decimal.RequireFromString("480.00"),
		Refunds:       decimal.RequireFromString("75.00"),
		Shipping:      decimal.RequireFromString("24.45"),
		Fees:          decimal.Zero,
		CommissionPct: decimal.RequireFromString("20"),
		CommissionAmt: decimal.RequireFromString("96.00"),
		NetPayable:    decimal.RequireFromString("105.45"),
	}

	pdf, err := Render(row)
	require.NoError(t, err)

	assert.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestRender_ZeroRow(t *testing.T) {
	row := &models.ReportRow{
		Vendor:   "Unknown",
		Currency: "AUD",
	}

	pdf, err := Render(row)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
}
