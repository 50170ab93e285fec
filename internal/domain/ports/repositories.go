package ports

import (
	"context"

	"github.com/showroomhq/commission-service/internal/domain/models"
)

// VendorRepository defines the interface for vendor persistence
type VendorRepository interface {
	// Upsert inserts or updates a vendor keyed by name
	Upsert(ctx context.Context, tx DBTX, vendor *models.Vendor) error

	// GetByName retrieves a vendor by its unique name
	GetByName(ctx context.Context, db DBTX, name string) (*models.Vendor, error)

	// List returns all vendors ordered by name
	List(ctx context.Context, db DBTX) ([]*models.Vendor, error)

	// LinkContact sets the Xero contact id on a vendor
	LinkContact(ctx context.Context, tx DBTX, name, contactID string) error

	// Count returns the total number of vendors
	Count(ctx context.Context, db DBTX) (int64, error)
}

// ReportRepository defines the interface for report persistence.
// Reports are insert-only snapshots; the single permitted mutation is
// writing a PO id onto one row.
type ReportRepository interface {
	// Create persists a new report snapshot with all its rows
	Create(ctx context.Context, tx DBTX, report *models.Report) error

	// GetByID retrieves a report with its rows
	GetByID(ctx context.Context, db DBTX, id string) (*models.Report, error)

	// List returns report headers (no rows) newest first
	List(ctx context.Context, db DBTX) ([]*models.Report, error)

	// ListWithRows returns all reports including rows, newest first
	ListWithRows(ctx context.Context, db DBTX) ([]*models.Report, error)

	// SetRowPoID writes the external PO id onto the row identified by
	// report id + vendor name. It only overwrites a NULL po id, so a
	// settled row is never re-written.
	SetRowPoID(ctx context.Context, tx DBTX, reportID, vendor, poID string) error
}

// IntegrationRepository defines the interface for integration state
// persistence (OAuth tokens, tenant selection)
type IntegrationRepository interface {
	// Get retrieves the integration row for a provider, nil if absent
	Get(ctx context.Context, db DBTX, provider string) (*models.Integration, error)

	// Save upserts the integration row for a provider
	Save(ctx context.Context, tx DBTX, integration *models.Integration) error
}
