package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/showroomhq/commission-service/internal/domain/models"
	"github.com/showroomhq/commission-service/internal/domain/ports"
)

// IntegrationRepository implements ports.IntegrationRepository on PostgreSQL
type IntegrationRepository struct {
	db ports.DBPort
}

// NewIntegrationRepository creates a new integration repository
func NewIntegrationRepository(db ports.DBPort) *IntegrationRepository {
	return &IntegrationRepository{db: db}
}

func (r *IntegrationRepository) exec(tx ports.DBTX) ports.DBTX {
	if tx != nil {
		return tx
	}
	return r.db.GetDB()
}

// Get retrieves the integration row for a provider, nil if absent
func (r *IntegrationRepository) Get(ctx context.Context, db ports.DBTX, provider string) (*models.Integration, error) {
	var (
		integ    models.Integration
		tokenRaw []byte
		tenantID pgtype.Text
		tenant   pgtype.Text
	)
	err := r.exec(db).QueryRow(ctx, `
		SELECT provider, token_set, tenant_id, tenant_name, updated_at
		FROM integrations WHERE provider = $1`, provider).
		Scan(&integ.Provider, &tokenRaw, &tenantID, &tenant, &integ.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get integration: %w", err)
	}

	if len(tokenRaw) > 0 {
		var ts models.TokenSet
		if err := json.Unmarshal(tokenRaw, &ts); err != nil {
			return nil, fmt.Errorf("decode token set: %w", err)
		}
		integ.TokenSet = &ts
	}
	integ.TenantID = textOrEmpty(tenantID)
	integ.TenantName = textOrEmpty(tenant)
	return &integ, nil
}

// Save upserts the integration row for a provider
func (r *IntegrationRepository) Save(ctx context.Context, tx ports.DBTX, integration *models.Integration) error {
	var tokenRaw []byte
	if integration.TokenSet != nil {
		var err error
		tokenRaw, err = json.Marshal(integration.TokenSet)
		if err != nil {
			return fmt.Errorf("encode token set: %w", err)
		}
	}

	_, err := r.exec(tx).Exec(ctx, `
		INSERT INTO integrations (provider, token_set, tenant_id, tenant_name, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (provider) DO UPDATE SET
			token_set   = EXCLUDED.token_set,
			tenant_id   = EXCLUDED.tenant_id,
			tenant_name = EXCLUDED.tenant_name,
			updated_at  = now()`,
		integration.Provider, tokenRaw, nullText(integration.TenantID), nullText(integration.TenantName))
	if err != nil {
		return fmt.Errorf("save integration: %w", err)
	}
	return nil
}
