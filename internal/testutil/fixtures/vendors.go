package fixtures

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/showroomhq/commission-service/internal/domain/models"
)

// VendorBuilder provides fluent API for building test vendors.
type VendorBuilder struct {
	vendor *models.Vendor
}

// NewVendor creates a new vendor builder with sensible defaults.
func NewVendor(name string) *VendorBuilder {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	return &VendorBuilder{
		vendor: &models.Vendor{
			Name:          name,
			CommissionPct: decimal.NewFromInt(10),
			Email:         "accounts@example.com",
			CreatedAt:     now,
			UpdatedAt:     now,
		},
	}
}

func (b *VendorBuilder) WithCommissionPct(pct string) *VendorBuilder {
	b.vendor.CommissionPct = decimal.RequireFromString(pct)
	return b
}

func (b *VendorBuilder) WithEmail(email string) *VendorBuilder {
	b.vendor.Email = email
	return b
}

func (b *VendorBuilder) WithXeroContact(contactID string) *VendorBuilder {
	b.vendor.XeroContactID = contactID
	return b
}

// Build returns the constructed vendor.
func (b *VendorBuilder) Build() *models.Vendor {
	return b.vendor
}
