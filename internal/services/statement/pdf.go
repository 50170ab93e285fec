package statement

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/showroomhq/commission-service/internal/domain/models"
)

// Render produces a one-page PDF sales summary for a single report row.
// The layout mirrors the statement sent to vendors: order/unit counts,
// the gross/refund/shipping breakdown, and the net payable figure.
func Render(row *models.ReportRow) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(17, 17, 17)
	pdf.AddPage()

	pdf.SetFont("Times", "B", 18)
	pdf.CellFormat(0, 10, fmt.Sprintf("Sales Summary - %s", row.Vendor), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	money := func(d interface{ StringFixed(int32) string }) string {
		return fmt.Sprintf("%s %s", d.StringFixed(2), row.Currency)
	}

	pdf.SetFont("Times", "", 12)
	pdf.CellFormat(0, 7, fmt.Sprintf("Orders: %d", row.Orders), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Units: %d", row.Units), "", 1, "L", false, 0, "")
	pdf.Ln(3)
	pdf.CellFormat(0, 7, fmt.Sprintf("Gross: %s", money(row.Gross)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Refunds: %s", money(row.Refunds)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Shipping: %s", money(row.Shipping)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Payment fees: %s (disabled)", money(row.Fees)), "", 1, "L", false, 0, "")
	pdf.Ln(5)
	pdf.CellFormat(0, 7, fmt.Sprintf("Commission (%s%%): %s", row.CommissionPct.String(), money(row.CommissionAmt)),
		"", 1, "L", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Times", "B", 14)
	pdf.CellFormat(0, 9, fmt.Sprintf("Net payable: %s", money(row.NetPayable)), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render statement pdf: %w", err)
	}
	return buf.Bytes(), nil
}
