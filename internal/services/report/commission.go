package report

import (
	"github.com/shopspring/decimal"
	"github.com/showroomhq/commission-service/internal/domain/models"
)

var hundred = decimal.NewFromInt(100)

// ComputeRow applies a vendor's commission rate to an aggregate:
//
//	commissionAmt    = gross × pct / 100
//	refundCommission = refunds × pct / 100
//	netPayable       = commissionAmt − refundCommission − fees + shipping
//
// A vendor missing from the rate table gets pct 0, and therefore zero
// commission. Deterministic: same aggregate and rate always produce the
// same row.
func ComputeRow(agg *models.VendorAggregate, commissionPct decimal.Decimal) models.ReportRow {
	commissionAmt := agg.Gross.Mul(commissionPct).Div(hundred)
	refundCommission := agg.Refunds.Mul(commissionPct).Div(hundred)
	netPayable := commissionAmt.Sub(refundCommission).Sub(agg.Fees).Add(agg.Shipping)

	return models.ReportRow{
		Vendor:        agg.Vendor,
		Currency:      agg.Currency,
		Orders:        int32(agg.Orders()),
		Units:         agg.Units,
		Gross:         agg.Gross,
		Refunds:       agg.Refunds,
		Shipping:      agg.Shipping,
		Fees:          agg.Fees,
		CommissionPct: commissionPct,
		CommissionAmt: commissionAmt,
		NetPayable:    netPayable,
	}
}
