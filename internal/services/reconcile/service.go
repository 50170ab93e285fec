package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/showroomhq/commission-service/internal/domain"
	"github.com/showroomhq/commission-service/internal/domain/models"
	"github.com/showroomhq/commission-service/internal/domain/ports"
	"github.com/showroomhq/commission-service/pkg/observability"
)

// Service reconciles report rows against the accounting system: it raises
// draft purchase orders for payable rows and records the returned PO ids.
//
// Row lifecycle: unlinked -> pending -> settled, one-directional. A row is
// settled once its PO id is written back; settled rows are never selected
// again, which is what keeps re-runs from creating duplicate POs. PO
// creation itself is at-least-once against the accounting system, so a
// caller must re-read row state before retrying an ambiguous outcome.
type Service struct {
	db         ports.DBPort
	reports    ports.ReportRepository
	vendors    ports.VendorRepository
	accounting ports.AccountingGateway
	logger     ports.Logger
}

// NewService creates a new reconciliation service
func NewService(
	db ports.DBPort,
	reports ports.ReportRepository,
	vendors ports.VendorRepository,
	accounting ports.AccountingGateway,
	logger ports.Logger,
) *Service {
	return &Service{
		db:         db,
		reports:    reports,
		vendors:    vendors,
		accounting: accounting,
		logger:     logger,
	}
}

// CreateResult is the outcome of a single-row PO creation.
type CreateResult struct {
	PoID     string `json:"id"`
	PoNumber string `json:"number,omitempty"`

	// AlreadySettled is set when the row already carried a PO id and no
	// new PO was raised.
	AlreadySettled bool `json:"alreadySettled,omitempty"`
}

// CreateForVendor raises one draft PO for the named vendor's row in the
// given report and writes the returned PO id back onto that row.
//
// Fails with VENDOR_NOT_LINKED when the vendor has no accounting contact,
// and REPORT_NOT_FOUND / REPORT_ROW_NOT_FOUND when the report or row is
// missing; none of these change any state. A row that is already settled
// returns its existing PO id without touching the accounting system.
func (s *Service) CreateForVendor(ctx context.Context, reportID, vendorName string) (*CreateResult, error) {
	vendor, err := s.vendors.GetByName(ctx, nil, vendorName)
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeDatabaseError, "get vendor", err)
	}
	if vendor == nil || !vendor.IsLinked() {
		return nil, domain.ErrVendorNotLinked(reportID, vendorName)
	}

	rpt, err := s.reports.GetByID(ctx, nil, reportID)
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeDatabaseError, "get report", err)
	}
	if rpt == nil {
		return nil, domain.ErrReportNotFound(reportID)
	}

	row := rpt.RowFor(vendorName)
	if row == nil {
		return nil, domain.ErrRowNotFound(reportID, vendorName)
	}
	if row.IsSettled() {
		return &CreateResult{PoID: *row.XeroPoID, AlreadySettled: true}, nil
	}

	pos, err := s.accounting.CreatePurchaseOrders(ctx, []ports.PurchaseOrderRequest{
		buildRequest(rpt, row, vendor),
	})
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeAccountingAPIFailure, "create purchase order", err).
			WithDetail("report_id", reportID).
			WithDetail("vendor", vendorName)
	}
	if len(pos) == 0 {
		return nil, domain.NewDomainError(domain.ErrorCodeAccountingAPIFailure, "accounting system returned no purchase order").
			WithDetail("report_id", reportID).
			WithDetail("vendor", vendorName)
	}
	po := pos[0]

	if err := s.reports.SetRowPoID(ctx, nil, reportID, vendorName, po.ID); err != nil {
		// The PO exists but the write-back failed. Surface with full
		// context: retrying blindly would raise a second PO.
		return nil, domain.WrapError(domain.ErrorCodeDatabaseError, "record purchase order id", err).
			WithDetail("report_id", reportID).
			WithDetail("vendor", vendorName).
			WithDetail("po_id", po.ID)
	}

	s.logger.Info("purchase order created",
		ports.String("report_id", reportID),
		ports.String("vendor", vendorName),
		ports.String("po_id", po.ID))
	observability.RecordPurchaseOrdersCreated(1)

	return &CreateResult{PoID: po.ID, PoNumber: po.Number}, nil
}

// BatchResult is the outcome of a batch PO creation.
type BatchResult struct {
	Created int `json:"created"`

	// Skipped counts rows left alone: vendors with no contact link plus
	// rows already settled. Skipping unlinked rows is the intended
	// partial-success policy, not a failure.
	Skipped int `json:"skipped"`
}

// CreateBatch raises draft POs for every pending row of a report in one
// accounting call. Pending means the vendor is linked and the row has no PO
// id yet, so re-running a fully settled report creates nothing. Returned PO
// ids are written back in a single database transaction: either every
// created PO is recorded or none is.
func (s *Service) CreateBatch(ctx context.Context, reportID string) (*BatchResult, error) {
	rpt, err := s.reports.GetByID(ctx, nil, reportID)
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeDatabaseError, "get report", err)
	}
	if rpt == nil {
		return nil, domain.ErrReportNotFound(reportID)
	}

	vendorList, err := s.vendors.List(ctx, nil)
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeDatabaseError, "list vendors", err)
	}
	byName := models.NewRateTable(vendorList)

	// Contact id -> vendor name, for matching returned POs back to rows.
	// Resolving through our own link table avoids trusting the display
	// name the accounting system echoes back; the name fallback below
	// still carries the documented ambiguity when two vendors share a
	// contact name.
	vendorByContact := make(map[string]string)

	var reqs []ports.PurchaseOrderRequest
	result := &BatchResult{}

	for i := range rpt.Rows {
		row := &rpt.Rows[i]
		vendor, ok := byName[row.Vendor]
		if !ok || !vendor.IsLinked() || row.IsSettled() {
			result.Skipped++
			continue
		}
		vendorByContact[vendor.XeroContactID] = vendor.Name
		reqs = append(reqs, buildRequest(rpt, row, vendor))
	}

	if len(reqs) == 0 {
		return result, nil
	}

	pos, err := s.accounting.CreatePurchaseOrders(ctx, reqs)
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeAccountingAPIFailure, "create purchase orders", err).
			WithDetail("report_id", reportID)
	}

	err = s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, po := range pos {
			vendorName := vendorByContact[po.ContactID]
			if vendorName == "" {
				vendorName = po.ContactName
			}
			if vendorName == "" {
				return fmt.Errorf("purchase order %s has no resolvable vendor", po.ID)
			}
			if err := s.reports.SetRowPoID(ctx, tx, reportID, vendorName, po.ID); err != nil {
				return fmt.Errorf("record po id for %s: %w", vendorName, err)
			}
		}
		return nil
	})
	if err != nil {
		// All-or-none: the transaction rolled back, so no subset of the
		// created POs was silently recorded.
		return nil, domain.WrapError(domain.ErrorCodeDatabaseError, "record purchase order ids", err).
			WithDetail("report_id", reportID).
			WithDetail("po_count", len(pos))
	}

	result.Created = len(pos)
	s.logger.Info("purchase order batch created",
		ports.String("report_id", reportID),
		ports.Int("created", result.Created),
		ports.Int("skipped", result.Skipped))
	observability.RecordPurchaseOrdersCreated(result.Created)

	return result, nil
}

// buildRequest assembles the PO payload for one report row: one line item,
// quantity 1, unit amount = the row's net payable.
func buildRequest(rpt *models.Report, row *models.ReportRow, vendor *models.Vendor) ports.PurchaseOrderRequest {
	return ports.PurchaseOrderRequest{
		ContactID: vendor.XeroContactID,
		Vendor:    row.Vendor,
		Reference: fmt.Sprintf("Showroom commission %s→%s",
			rpt.PeriodStart.Format("2006-01-02"), rpt.PeriodEnd.Format("2006-01-02")),
		Description: fmt.Sprintf("Commission payable for %s", row.Vendor),
		UnitAmount:  row.NetPayable,
		Date:        time.Now().UTC(),
	}
}
