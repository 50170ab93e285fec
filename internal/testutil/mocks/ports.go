// Package mocks provides shared mock implementations for testing.
package mocks

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/mock"

	"github.com/showroomhq/commission-service/internal/domain/models"
	"github.com/showroomhq/commission-service/internal/domain/ports"
)

// StubDB satisfies ports.DBPort without a real pool. Transactions run the
// callback with a nil tx, which repository mocks ignore.
type StubDB struct{}

func (StubDB) GetDB() *pgxpool.Pool { return nil }

func (StubDB) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	return fn(ctx, nil)
}

func (StubDB) WithReadOnlyTransaction(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	return fn(ctx, nil)
}

// MockVendorRepository mocks ports.VendorRepository.
type MockVendorRepository struct {
	mock.Mock
}

func (m *MockVendorRepository) Upsert(ctx context.Context, tx ports.DBTX, vendor *models.Vendor) error {
	args := m.Called(ctx, tx, vendor)
	return args.Error(0)
}

func (m *MockVendorRepository) GetByName(ctx context.Context, db ports.DBTX, name string) (*models.Vendor, error) {
	args := m.Called(ctx, db, name)
	if v := args.Get(0); v != nil {
		return v.(*models.Vendor), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockVendorRepository) List(ctx context.Context, db ports.DBTX) ([]*models.Vendor, error) {
	args := m.Called(ctx, db)
	if v := args.Get(0); v != nil {
		return v.([]*models.Vendor), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockVendorRepository) LinkContact(ctx context.Context, tx ports.DBTX, name, contactID string) error {
	args := m.Called(ctx, tx, name, contactID)
	return args.Error(0)
}

func (m *MockVendorRepository) Count(ctx context.Context, db ports.DBTX) (int64, error) {
	args := m.Called(ctx, db)
	return args.Get(0).(int64), args.Error(1)
}

// MockReportRepository mocks ports.ReportRepository.
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Create(ctx context.Context, tx ports.DBTX, report *models.Report) error {
	args := m.Called(ctx, tx, report)
	return args.Error(0)
}

func (m *MockReportRepository) GetByID(ctx context.Context, db ports.DBTX, id string) (*models.Report, error) {
	args := m.Called(ctx, db, id)
	if v := args.Get(0); v != nil {
		return v.(*models.Report), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReportRepository) List(ctx context.Context, db ports.DBTX) ([]*models.Report, error) {
	args := m.Called(ctx, db)
	if v := args.Get(0); v != nil {
		return v.([]*models.Report), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReportRepository) ListWithRows(ctx context.Context, db ports.DBTX) ([]*models.Report, error) {
	args := m.Called(ctx, db)
	if v := args.Get(0); v != nil {
		return v.([]*models.Report), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReportRepository) SetRowPoID(ctx context.Context, tx ports.DBTX, reportID, vendor, poID string) error {
	args := m.Called(ctx, tx, reportID, vendor, poID)
	return args.Error(0)
}

// MockIntegrationRepository mocks ports.IntegrationRepository.
type MockIntegrationRepository struct {
	mock.Mock
}

func (m *MockIntegrationRepository) Get(ctx context.Context, db ports.DBTX, provider string) (*models.Integration, error) {
	args := m.Called(ctx, db, provider)
	if v := args.Get(0); v != nil {
		return v.(*models.Integration), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIntegrationRepository) Save(ctx context.Context, tx ports.DBTX, integration *models.Integration) error {
	args := m.Called(ctx, tx, integration)
	return args.Error(0)
}

// MockOrderSource mocks ports.OrderSource.
type MockOrderSource struct {
	mock.Mock
}

func (m *MockOrderSource) FetchOrders(ctx context.Context, start, end time.Time) ([]models.Order, error) {
	args := m.Called(ctx, start, end)
	if v := args.Get(0); v != nil {
		return v.([]models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderSource) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}

// MockAccountingGateway mocks ports.AccountingGateway.
type MockAccountingGateway struct {
	mock.Mock
}

func (m *MockAccountingGateway) CreatePurchaseOrders(ctx context.Context, reqs []ports.PurchaseOrderRequest) ([]ports.PurchaseOrder, error) {
	args := m.Called(ctx, reqs)
	if v := args.Get(0); v != nil {
		return v.([]ports.PurchaseOrder), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountingGateway) SearchContacts(ctx context.Context, query string) ([]ports.Contact, error) {
	args := m.Called(ctx, query)
	if v := args.Get(0); v != nil {
		return v.([]ports.Contact), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountingGateway) CreateContact(ctx context.Context, name, email string) (*ports.Contact, error) {
	args := m.Called(ctx, name, email)
	if v := args.Get(0); v != nil {
		return v.(*ports.Contact), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountingGateway) Status(ctx context.Context) (*ports.AccountingStatus, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.(*ports.AccountingStatus), args.Error(1)
	}
	return nil, args.Error(1)
}
