package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"adscribe/internal/models"
)

type tenantRepository struct {
	db *sql.DB
}

// NewTenantRepository creates a new tenant repository
func NewTenantRepository(db *sql.DB) TenantRepository {
	return &tenantRepository{db: db}
}

// Create creates a new tenant
func (r *tenantRepository) Create(ctx context.Context, tenant *models.Tenant) error {
	if tenant.ID == "" {
		tenant.ID = uuid.NewString()
	}
	if tenant.Plan == "" {
		tenant.Plan = "free"
	}

	query := `
		INSERT INTO tenants (id, shop_domain, name, api_key_hash, plan)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		tenant.ID,
		tenant.ShopDomain,
		tenant.Name,
		tenant.APIKeyHash,
		tenant.Plan,
	).Scan(&tenant.CreatedAt, &tenant.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create tenant: %w", err)
	}

	return nil
}

// GetByID retrieves a tenant by ID
func (r *tenantRepository) GetByID(ctx context.Context, id string) (*models.Tenant, error) {
	return r.getBy(ctx, "id", id)
}

// GetByShopDomain retrieves a tenant by its shop domain
func (r *tenantRepository) GetByShopDomain(ctx context.Context, domain string) (*models.Tenant, error) {
	return r.getBy(ctx, "shop_domain", domain)
}

// GetByAPIKeyHash retrieves a tenant by the hash of its API key
func (r *tenantRepository) GetByAPIKeyHash(ctx context.Context, hash string) (*models.Tenant, error) {
	return r.getBy(ctx, "api_key_hash", hash)
}

func (r *tenantRepository) getBy(ctx context.Context, column, value string) (*models.Tenant, error) {
	query := fmt.Sprintf(`
		SELECT id, shop_domain, name, api_key_hash, plan, created_at, updated_at
		FROM tenants
		WHERE %s = $1
	`, column)

	tenant := &models.Tenant{}
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&tenant.ID,
		&tenant.ShopDomain,
		&tenant.Name,
		&tenant.APIKeyHash,
		&tenant.Plan,
		&tenant.CreatedAt,
		&tenant.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	return tenant, nil
}
