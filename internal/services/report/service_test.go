package report

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/showroomhq/commission-service/internal/adapters/logger"
	"github.com/showroomhq/commission-service/internal/domain"
	"github.com/showroomhq/commission-service/internal/domain/models"
	"github.com/showroomhq/commission-service/internal/testutil/fixtures"
	"github.com/showroomhq/commission-service/internal/testutil/mocks"
)

type serviceDeps struct {
	reports *mocks.MockReportRepository
	vendors *mocks.MockVendorRepository
	source  *mocks.MockOrderSource
	sample  *mocks.MockOrderSource
}

func newTestService(t *testing.T) (*Service, *serviceDeps) {
	t.Helper()
	deps := &serviceDeps{
		reports: &mocks.MockReportRepository{},
		vendors: &mocks.MockVendorRepository{},
		source:  &mocks.MockOrderSource{},
		sample:  &mocks.MockOrderSource{},
	}
	svc := NewService(mocks.StubDB{}, deps.reports, deps.vendors, deps.source, deps.sample,
		logger.NewZap(zaptest.NewLogger(t)))
	return svc, deps
}

func TestGenerate_LiveSource(t *testing.T) {
	svc, deps := newTestService(t)

	orders := []models.Order{
		fixtures.NewOrder("1").WithLineItem("Brand A", 1, "100.00").WithShipping("10.00").Build(),
	}
	deps.source.On("Configured").Return(true)
	deps.source.On("FetchOrders", mock.Anything, mock.Anything, mock.Anything).Return(orders, nil)
	deps.vendors.On("List", mock.Anything, nil).Return([]*models.Vendor{
		fixtures.NewVendor("Brand A").WithCommissionPct("20").Build(),
	}, nil)

	var persisted *models.Report
	deps.reports.On("Create", mock.Anything, nil, mock.Anything).Run(func(args mock.Arguments) {
		persisted = args.Get(2).(*models.Report)
	}).Return(nil)

	result, err := svc.Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.SourceLive, result.Source)
	assert.Equal(t, 1, result.RowCount)
	require.NotNil(t, persisted)
	require.Len(t, persisted.Rows, 1)
	row := persisted.Rows[0]
	assert.Equal(t, "Brand A", row.Vendor)
	assert.True(t, row.CommissionAmt.Equal(decimal.RequireFromString("20")))
	// commission 20 + shipping 10
	assert.True(t, row.NetPayable.Equal(decimal.RequireFromString("30")))
	assert.Equal(t, result.ReportID, persisted.ID)

	// 30-day window
	assert.WithinDuration(t, persisted.PeriodStart.Add(Window), persisted.PeriodEnd, time.Second)
}

func TestGenerate_FallsBackToSample(t *testing.T) {
	svc, deps := newTestService(t)

	deps.source.On("Configured").Return(true)
	deps.source.On("FetchOrders", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))
	deps.sample.On("Configured").Return(true)
	deps.sample.On("FetchOrders", mock.Anything, mock.Anything, mock.Anything).Return([]models.Order{
		fixtures.NewOrder("1").WithLineItem("Brand B", 2, "60.00").Build(),
	}, nil)
	deps.vendors.On("List", mock.Anything, nil).Return([]*models.Vendor{}, nil)
	deps.reports.On("Create", mock.Anything, nil, mock.Anything).Return(nil)

	result, err := svc.Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.SourceSample, result.Source)
	assert.Equal(t, 1, result.RowCount)
}

func TestGenerate_SkipsUnconfiguredSource(t *testing.T) {
	svc, deps := newTestService(t)

	deps.source.On("Configured").Return(false)
	deps.sample.On("Configured").Return(true)
	deps.sample.On("FetchOrders", mock.Anything, mock.Anything, mock.Anything).
		Return([]models.Order{}, nil)
	deps.vendors.On("List", mock.Anything, nil).Return([]*models.Vendor{}, nil)
	deps.reports.On("Create", mock.Anything, nil, mock.Anything).Return(nil)

	result, err := svc.Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.SourceSample, result.Source)
	deps.source.AssertNotCalled(t, "FetchOrders", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerate_InlineFallbackNeverEmpty(t *testing.T) {
	svc, deps := newTestService(t)

	deps.source.On("Configured").Return(true)
	deps.source.On("FetchOrders", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("dns failure"))
	deps.sample.On("Configured").Return(false)
	deps.vendors.On("List", mock.Anything, nil).Return([]*models.Vendor{}, nil)

	var persisted *models.Report
	deps.reports.On("Create", mock.Anything, nil, mock.Anything).Run(func(args mock.Arguments) {
		persisted = args.Get(2).(*models.Report)
	}).Return(nil)

	result, err := svc.Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.SourceInlineFallback, result.Source)
	require.NotNil(t, persisted)
	assert.NotEmpty(t, persisted.Rows, "a degraded run still produces a usable report")
}

func TestGenerate_PersistFailure(t *testing.T) {
	svc, deps := newTestService(t)

	deps.source.On("Configured").Return(false)
	deps.sample.On("Configured").Return(false)
	deps.vendors.On("List", mock.Anything, nil).Return([]*models.Vendor{}, nil)
	deps.reports.On("Create", mock.Anything, nil, mock.Anything).Return(errors.New("disk full"))

	_, err := svc.Generate(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrorCodeDatabaseError))
}

func TestGenerate_ConcurrentRunsIndependent(t *testing.T) {
	svc, deps := newTestService(t)

	deps.source.On("Configured").Return(false)
	deps.sample.On("Configured").Return(false)
	deps.vendors.On("List", mock.Anything, nil).Return([]*models.Vendor{}, nil)
	deps.reports.On("Create", mock.Anything, nil, mock.Anything).Return(nil)

	const runs = 8
	ids := make([]string, runs)
	var wg sync.WaitGroup
	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := svc.Generate(context.Background())
			if assert.NoError(t, err) {
				ids[i] = result.ReportID
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]struct{}, runs)
	for _, id := range ids {
		assert.NotContains(t, seen, id, "each run must create its own report")
		seen[id] = struct{}{}
	}
}

func TestGet_NotFound(t *testing.T) {
	svc, deps := newTestService(t)
	deps.reports.On("GetByID", mock.Anything, nil, "missing").Return(nil, nil)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrorCodeReportNotFound))
}

func TestGetStats(t *testing.T) {
	svc, deps := newTestService(t)

	now := time.Now().UTC()
	latest := &models.Report{
		ID:          "r2",
		PeriodStart: now.Add(-Window),
		PeriodEnd:   now,
		CreatedAt:   now.Add(-48 * time.Hour),
		Rows: []models.ReportRow{
			{Vendor: "A", Gross: decimal.RequireFromString("100"), CommissionAmt: decimal.RequireFromString("10")},
			{Vendor: "B", Gross: decimal.RequireFromString("50"), CommissionAmt: decimal.RequireFromString("5")},
		},
	}
	older := &models.Report{
		ID:        "r1",
		CreatedAt: now.Add(-60 * 24 * time.Hour),
		Rows: []models.ReportRow{
			{Vendor: "A", Gross: decimal.RequireFromString("30"), CommissionAmt: decimal.RequireFromString("3")},
		},
	}
	deps.reports.On("ListWithRows", mock.Anything, nil).Return([]*models.Report{latest, older}, nil)

	stats, err := svc.GetStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalReports)
	assert.Equal(t, 2, stats.LatestReportVendors)
	assert.True(t, stats.LatestReportRevenue.Equal(decimal.RequireFromString("150")))
	assert.True(t, stats.LatestReportCommission.Equal(decimal.RequireFromString("15")))
	require.NotNil(t, stats.LastReportDays)
	assert.Equal(t, 2, *stats.LastReportDays)
	assert.InDelta(t, 1.5, stats.AvgVendorsPerReport, 0.001)
}

func TestGetStats_NoReports(t *testing.T) {
	svc, deps := newTestService(t)
	deps.reports.On("ListWithRows", mock.Anything, nil).Return([]*models.Report{}, nil)

	stats, err := svc.GetStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, stats.TotalReports)
	assert.Nil(t, stats.LastReportDays)
	assert.True(t, stats.LatestReportRevenue.IsZero())
}
