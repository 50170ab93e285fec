package report

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/showroomhq/commission-service/internal/domain"
	"github.com/showroomhq/commission-service/internal/domain/models"
	"github.com/showroomhq/commission-service/internal/domain/ports"
	"github.com/showroomhq/commission-service/pkg/observability"
)

// Window is the fixed look-back for each aggregation run.
const Window = 30 * 24 * time.Hour

// Service assembles commission reports: fetch an order window, aggregate
// per vendor, apply commission rates, persist the snapshot.
type Service struct {
	db      ports.DBPort
	reports ports.ReportRepository
	vendors ports.VendorRepository
	source  ports.OrderSource
	sample  ports.OrderSource
	logger  ports.Logger
}

// NewService creates a new report service. source is the live order source;
// sample is the local dataset used when the live source is unconfigured or
// unreachable.
func NewService(
	db ports.DBPort,
	reports ports.ReportRepository,
	vendors ports.VendorRepository,
	source ports.OrderSource,
	sample ports.OrderSource,
	logger ports.Logger,
) *Service {
	return &Service{
		db:      db,
		reports: reports,
		vendors: vendors,
		source:  source,
		sample:  sample,
		logger:  logger,
	}
}

// Generate runs one aggregation over [now−30d, now) and persists a new
// report snapshot. Generation never hard-fails on the order source: an
// unreachable source degrades to the sample dataset, and failing that to a
// static inline order, with the result tagged accordingly. Each run is an
// independent computation producing an independent report; concurrent runs
// do not interfere.
func (s *Service) Generate(ctx context.Context) (*models.GenerationResult, error) {
	end := time.Now().UTC()
	start := end.Add(-Window)

	orders, source := s.fetchOrders(ctx, start, end)

	aggregates := AggregateOrders(orders)

	vendorList, err := s.vendors.List(ctx, nil)
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeDatabaseError, "list vendors", err)
	}
	rates := models.NewRateTable(vendorList)

	rows := make([]models.ReportRow, 0, len(aggregates))
	for _, agg := range aggregates {
		rows = append(rows, ComputeRow(agg, rates.CommissionPctFor(agg.Vendor)))
	}

	rpt := &models.Report{
		ID:          uuid.New().String(),
		PeriodStart: start,
		PeriodEnd:   end,
		Rows:        rows,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.reports.Create(ctx, nil, rpt); err != nil {
		return nil, domain.WrapError(domain.ErrorCodeDatabaseError, "persist report", err)
	}

	s.logger.Info("report generated",
		ports.String("report_id", rpt.ID),
		ports.Int("rows", len(rows)),
		ports.String("source", string(source)))
	observability.RecordReportGenerated(string(source), len(rows))

	return &models.GenerationResult{
		ReportID: rpt.ID,
		RowCount: len(rows),
		Source:   source,
	}, nil
}

// fetchOrders resolves the order batch for the window, degrading from live
// to sample to the inline dataset. Fallbacks are logged as degraded mode,
// never treated as silent success.
func (s *Service) fetchOrders(ctx context.Context, start, end time.Time) ([]models.Order, models.ReportSource) {
	if s.source != nil && s.source.Configured() {
		orders, err := s.source.FetchOrders(ctx, start, end)
		if err == nil {
			return orders, models.SourceLive
		}
		s.logger.Warn("order source unavailable, degrading to sample dataset",
			ports.Err(domain.WrapError(domain.ErrorCodeSourceUnavailable, "fetch orders", err)))
		observability.RecordSourceFallback("live")
	}

	if s.sample != nil && s.sample.Configured() {
		orders, err := s.sample.FetchOrders(ctx, start, end)
		if err == nil {
			return orders, models.SourceSample
		}
		s.logger.Warn("sample dataset unavailable, degrading to inline fallback",
			ports.Err(err))
		observability.RecordSourceFallback("sample")
	}

	return InlineFallbackOrders(), models.SourceInlineFallback
}

// InlineFallbackOrders is the static last-resort dataset: a single order so
// report generation always has something to fold.
func InlineFallbackOrders() []models.Order {
	return []models.Order{
		{
			ID:           "gid://shopify/Order/FALLBACK",
			Name:         "#FALLBACK",
			CreatedAt:    time.Now().UTC(),
			CurrencyCode: "AUD",
			LineItems: []models.LineItem{
				{
					ID:              "li1",
					Vendor:          "Brand A",
					SKU:             "A-TEE",
					Quantity:        1,
					DiscountedTotal: decimal.NewFromInt(50),
				},
			},
			ShippingLines: []models.ShippingCharge{
				{Amount: decimal.NewFromInt(5)},
			},
		},
	}
}

// Get returns one report with its rows.
func (s *Service) Get(ctx context.Context, id string) (*models.Report, error) {
	rpt, err := s.reports.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if rpt == nil {
		return nil, domain.ErrReportNotFound(id)
	}
	return rpt, nil
}

// List returns report headers, newest first.
func (s *Service) List(ctx context.Context) ([]*models.Report, error) {
	return s.reports.List(ctx, nil)
}

// Stats summarizes report activity for the dashboard. Revenue and
// commission figures come from the latest report only, so overlapping
// 30-day windows are never summed together.
type Stats struct {
	TotalReports           int              `json:"totalReports"`
	ReportsThisMonth       int              `json:"reportsThisMonth"`
	LatestReportRevenue    decimal.Decimal  `json:"latestReportRevenue"`
	LatestReportCommission decimal.Decimal  `json:"latestReportCommission"`
	LatestReportVendors    int              `json:"latestReportVendors"`
	LatestReportPeriod     *StatsPeriod     `json:"latestReportPeriod"`
	LastReportDays         *int             `json:"lastReportDays,omitempty"`
	AvgVendorsPerReport    float64          `json:"avgVendorsPerReport"`
}

// StatsPeriod is the window of the latest report.
type StatsPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// GetStats computes dashboard statistics over all stored reports.
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	reports, err := s.reports.ListWithRows(ctx, nil)
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeDatabaseError, "list reports", err)
	}

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	stats := &Stats{
		TotalReports:           len(reports),
		LatestReportRevenue:    decimal.Zero,
		LatestReportCommission: decimal.Zero,
	}

	totalVendorRows := 0
	for _, rpt := range reports {
		totalVendorRows += len(rpt.Rows)
		if !rpt.CreatedAt.Before(monthStart) {
			stats.ReportsThisMonth++
		}
	}

	if len(reports) > 0 {
		latest := reports[0]
		stats.LatestReportVendors = len(latest.Rows)
		for i := range latest.Rows {
			stats.LatestReportRevenue = stats.LatestReportRevenue.Add(latest.Rows[i].Gross)
			stats.LatestReportCommission = stats.LatestReportCommission.Add(latest.Rows[i].CommissionAmt)
		}
		stats.LatestReportPeriod = &StatsPeriod{Start: latest.PeriodStart, End: latest.PeriodEnd}

		days := int(now.Sub(latest.CreatedAt).Hours() / 24)
		stats.LastReportDays = &days

		avg := float64(totalVendorRows) / float64(len(reports))
		stats.AvgVendorsPerReport = math.Round(avg*10) / 10
	}

	return stats, nil
}
