package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/showroomhq/commission-service/internal/domain/models"
	"github.com/showroomhq/commission-service/internal/domain/ports"
)

// ReportRepository implements ports.ReportRepository on PostgreSQL.
// Reports are insert-only; the single mutation is the PO id write-back.
type ReportRepository struct {
	db ports.DBPort
}

// NewReportRepository creates a new report repository
func NewReportRepository(db ports.DBPort) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) exec(tx ports.DBTX) ports.DBTX {
	if tx != nil {
		return tx
	}
	return r.db.GetDB()
}

// Create persists a new report snapshot with all its rows
func (r *ReportRepository) Create(ctx context.Context, tx ports.DBTX, report *models.Report) error {
	id, err := uuid.Parse(report.ID)
	if err != nil {
		return fmt.Errorf("invalid report ID: %w", err)
	}

	q := r.exec(tx)
	_, err = q.Exec(ctx, `
		INSERT INTO reports (id, period_start, period_end, created_at)
		VALUES ($1, $2, $3, $4)`,
		id, report.PeriodStart, report.PeriodEnd, report.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}

	for i := range report.Rows {
		if err := r.insertRow(ctx, q, id, &report.Rows[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *ReportRepository) insertRow(ctx context.Context, q ports.DBTX, reportID uuid.UUID, row *models.ReportRow) error {
	nums := make([]pgtype.Numeric, 0, 7)
	for _, d := range []decimal.Decimal{
		row.Gross, row.Refunds, row.Shipping, row.Fees,
		row.CommissionPct, row.CommissionAmt, row.NetPayable,
	} {
		n, err := decimalToNumeric(d)
		if err != nil {
			return fmt.Errorf("convert row amount for %s: %w", row.Vendor, err)
		}
		nums = append(nums, n)
	}

	var poID pgtype.Text
	if row.XeroPoID != nil {
		poID = nullText(*row.XeroPoID)
	}

	_, err := q.Exec(ctx, `
		INSERT INTO report_rows (
			report_id, vendor, currency, orders, units,
			gross, refunds, shipping, fees,
			commission_pct, commission_amt, net_payable, xero_po_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		reportID, row.Vendor, row.Currency, row.Orders, row.Units,
		nums[0], nums[1], nums[2], nums[3], nums[4], nums[5], nums[6], poID)
	if err != nil {
		return fmt.Errorf("insert report row for %s: %w", row.Vendor, err)
	}
	return nil
}

// GetByID retrieves a report with its rows, nil if absent
func (r *ReportRepository) GetByID(ctx context.Context, db ports.DBTX, id string) (*models.Report, error) {
	reportID, err := uuid.Parse(id)
	if err != nil {
		// Not a UUID, cannot exist.
		return nil, nil
	}

	q := r.exec(db)
	var report models.Report
	err = q.QueryRow(ctx, `
		SELECT id, period_start, period_end, created_at FROM reports WHERE id = $1`,
		reportID).Scan(&reportID, &report.PeriodStart, &report.PeriodEnd, &report.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	report.ID = reportID.String()

	report.Rows, err = r.queryRows(ctx, q, reportID)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *ReportRepository) queryRows(ctx context.Context, q ports.DBTX, reportID uuid.UUID) ([]models.ReportRow, error) {
	rows, err := q.Query(ctx, `
		SELECT vendor, currency, orders, units,
		       gross, refunds, shipping, fees,
		       commission_pct, commission_amt, net_payable, xero_po_id
		FROM report_rows WHERE report_id = $1 ORDER BY vendor`, reportID)
	if err != nil {
		return nil, fmt.Errorf("query report rows: %w", err)
	}
	defer rows.Close()

	var out []models.ReportRow
	for rows.Next() {
		var (
			row  models.ReportRow
			nums [7]pgtype.Numeric
			poID pgtype.Text
		)
		if err := rows.Scan(&row.Vendor, &row.Currency, &row.Orders, &row.Units,
			&nums[0], &nums[1], &nums[2], &nums[3], &nums[4], &nums[5], &nums[6], &poID); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}

		dsts := []*decimal.Decimal{
			&row.Gross, &row.Refunds, &row.Shipping, &row.Fees,
			&row.CommissionPct, &row.CommissionAmt, &row.NetPayable,
		}
		for i, dst := range dsts {
			d, err := numericToDecimal(nums[i])
			if err != nil {
				return nil, fmt.Errorf("convert row amount: %w", err)
			}
			*dst = d
		}
		if poID.Valid {
			v := poID.String
			row.XeroPoID = &v
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// List returns report headers (no rows) newest first
func (r *ReportRepository) List(ctx context.Context, db ports.DBTX) ([]*models.Report, error) {
	rows, err := r.exec(db).Query(ctx, `
		SELECT id, period_start, period_end, created_at
		FROM reports ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []*models.Report
	for rows.Next() {
		var (
			report models.Report
			id     uuid.UUID
		)
		if err := rows.Scan(&id, &report.PeriodStart, &report.PeriodEnd, &report.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		report.ID = id.String()
		out = append(out, &report)
	}
	return out, rows.Err()
}

// ListWithRows returns all reports including rows, newest first
func (r *ReportRepository) ListWithRows(ctx context.Context, db ports.DBTX) ([]*models.Report, error) {
	reports, err := r.List(ctx, db)
	if err != nil {
		return nil, err
	}
	q := r.exec(db)
	for _, report := range reports {
		id, err := uuid.Parse(report.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid stored report id %q: %w", report.ID, err)
		}
		report.Rows, err = r.queryRows(ctx, q, id)
		if err != nil {
			return nil, err
		}
	}
	return reports, nil
}

// SetRowPoID writes the external PO id onto the row identified by report id
// + vendor name. The xero_po_id IS NULL guard means a settled row is never
// overwritten, which is what makes reconciliation re-runs idempotent.
func (r *ReportRepository) SetRowPoID(ctx context.Context, tx ports.DBTX, reportID, vendor, poID string) error {
	id, err := uuid.Parse(reportID)
	if err != nil {
		return fmt.Errorf("invalid report ID: %w", err)
	}

	tag, err := r.exec(tx).Exec(ctx, `
		UPDATE report_rows SET xero_po_id = $3
		WHERE report_id = $1 AND vendor = $2 AND xero_po_id IS NULL`,
		id, vendor, poID)
	if err != nil {
		return fmt.Errorf("set row po id: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no unsettled row for vendor %q in report %s", vendor, reportID)
	}
	return nil
}
