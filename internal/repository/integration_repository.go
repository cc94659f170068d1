package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"adscribe/internal/models"
)

type integrationRepository struct {
	db *sql.DB
}

// NewIntegrationRepository creates a new integration repository
func NewIntegrationRepository(db *sql.DB) IntegrationRepository {
	return &integrationRepository{db: db}
}

// Upsert creates or replaces the integration for a (tenant, platform) pair
func (r *integrationRepository) Upsert(ctx context.Context, integration *models.Integration) error {
	if integration.ID == "" {
		integration.ID = uuid.NewString()
	}

	query := `
		INSERT INTO integrations (id, tenant_id, platform, access_token_enc, ad_account_id, page_id, active)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		ON CONFLICT (tenant_id, platform) DO UPDATE
		SET access_token_enc = EXCLUDED.access_token_enc,
		    ad_account_id = EXCLUDED.ad_account_id,
		    page_id = EXCLUDED.page_id,
		    active = TRUE,
		    updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		integration.ID,
		integration.TenantID,
		integration.Platform,
		integration.AccessTokenEnc,
		integration.AdAccountID,
		integration.PageID,
	).Scan(&integration.ID, &integration.CreatedAt, &integration.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert integration: %w", err)
	}

	integration.Active = true
	return nil
}

// GetActive retrieves the active integration for a (tenant, platform) pair
func (r *integrationRepository) GetActive(ctx context.Context, tenantID string, p models.Platform) (*models.Integration, error) {
	query := `
		SELECT id, tenant_id, platform, access_token_enc, ad_account_id, page_id, active, created_at, updated_at
		FROM integrations
		WHERE tenant_id = $1 AND platform = $2 AND active = TRUE
	`

	integration := &models.Integration{}
	err := r.db.QueryRowContext(ctx, query, tenantID, p).Scan(
		&integration.ID,
		&integration.TenantID,
		&integration.Platform,
		&integration.AccessTokenEnc,
		&integration.AdAccountID,
		&integration.PageID,
		&integration.Active,
		&integration.CreatedAt,
		&integration.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get integration: %w", err)
	}

	return integration, nil
}

// Deactivate soft-disconnects the integration for a (tenant, platform) pair
func (r *integrationRepository) Deactivate(ctx context.Context, tenantID string, p models.Platform) error {
	query := `
		UPDATE integrations
		SET active = FALSE, updated_at = NOW()
		WHERE tenant_id = $1 AND platform = $2 AND active = TRUE
	`

	result, err := r.db.ExecContext(ctx, query, tenantID, p)
	if err != nil {
		return fmt.Errorf("failed to deactivate integration: %w", err)
	}

	return requireRow(result)
}
