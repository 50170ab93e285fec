package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/showroomhq/commission-service/internal/domain/models"
	"github.com/showroomhq/commission-service/internal/domain/ports"
)

// VendorRepository implements ports.VendorRepository on PostgreSQL
type VendorRepository struct {
	db ports.DBPort
}

// NewVendorRepository creates a new vendor repository
func NewVendorRepository(db ports.DBPort) *VendorRepository {
	return &VendorRepository{db: db}
}

func (r *VendorRepository) exec(tx ports.DBTX) ports.DBTX {
	if tx != nil {
		return tx
	}
	return r.db.GetDB()
}

// Upsert inserts or updates a vendor keyed by name. An existing contact
// link is preserved: CSV re-imports must not unlink vendors.
func (r *VendorRepository) Upsert(ctx context.Context, tx ports.DBTX, vendor *models.Vendor) error {
	pct, err := decimalToNumeric(vendor.CommissionPct)
	if err != nil {
		return fmt.Errorf("convert commission pct: %w", err)
	}

	_, err = r.exec(tx).Exec(ctx, `
		INSERT INTO vendors (name, commission_pct, email, website, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		ON CONFLICT (name) DO UPDATE SET
			commission_pct = EXCLUDED.commission_pct,
			email          = EXCLUDED.email,
			website        = EXCLUDED.website,
			updated_at     = now()`,
		vendor.Name, pct, nullText(vendor.Email), nullText(vendor.Website))
	if err != nil {
		return fmt.Errorf("upsert vendor: %w", err)
	}
	return nil
}

// GetByName retrieves a vendor by its unique name, nil if absent
func (r *VendorRepository) GetByName(ctx context.Context, db ports.DBTX, name string) (*models.Vendor, error) {
	row := r.exec(db).QueryRow(ctx, `
		SELECT name, commission_pct, email, website, xero_contact_id, created_at, updated_at
		FROM vendors WHERE name = $1`, name)

	vendor, err := scanVendor(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get vendor by name: %w", err)
	}
	return vendor, nil
}

// List returns all vendors ordered by name
func (r *VendorRepository) List(ctx context.Context, db ports.DBTX) ([]*models.Vendor, error) {
	rows, err := r.exec(db).Query(ctx, `
		SELECT name, commission_pct, email, website, xero_contact_id, created_at, updated_at
		FROM vendors ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()

	var vendors []*models.Vendor
	for rows.Next() {
		vendor, err := scanVendor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		vendors = append(vendors, vendor)
	}
	return vendors, rows.Err()
}

// LinkContact sets the Xero contact id on a vendor
func (r *VendorRepository) LinkContact(ctx context.Context, tx ports.DBTX, name, contactID string) error {
	tag, err := r.exec(tx).Exec(ctx, `
		UPDATE vendors SET xero_contact_id = $2, updated_at = now() WHERE name = $1`,
		name, contactID)
	if err != nil {
		return fmt.Errorf("link vendor contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("vendor %q not found", name)
	}
	return nil
}

// Count returns the total number of vendors
func (r *VendorRepository) Count(ctx context.Context, db ports.DBTX) (int64, error) {
	var count int64
	if err := r.exec(db).QueryRow(ctx, `SELECT count(*) FROM vendors`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count vendors: %w", err)
	}
	return count, nil
}

func scanVendor(row pgx.Row) (*models.Vendor, error) {
	var (
		v       models.Vendor
		pct     pgtype.Numeric
		email   pgtype.Text
		website pgtype.Text
		contact pgtype.Text
	)
	if err := row.Scan(&v.Name, &pct, &email, &website, &contact, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}

	commissionPct, err := numericToDecimal(pct)
	if err != nil {
		return nil, fmt.Errorf("convert commission pct: %w", err)
	}
	v.CommissionPct = commissionPct
	v.Email = textOrEmpty(email)
	v.Website = textOrEmpty(website)
	v.XeroContactID = textOrEmpty(contact)
	return &v, nil
}
