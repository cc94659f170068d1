package repository

import (
	"context"
	"database/sql"
	"time"

	"adscribe/internal/models"
)

// TenantRepository defines tenant data access operations
type TenantRepository interface {
	Create(ctx context.Context, tenant *models.Tenant) error
	GetByID(ctx context.Context, id string) (*models.Tenant, error)
	GetByShopDomain(ctx context.Context, domain string) (*models.Tenant, error)
	GetByAPIKeyHash(ctx context.Context, hash string) (*models.Tenant, error)
}

// DraftRepository defines ad draft data access operations.
// Every query is scoped by tenant ID; no method may read or write a
// draft row without it.
type DraftRepository interface {
	Create(ctx context.Context, draft *models.AdDraft) error
	GetByID(ctx context.Context, tenantID, id string) (*models.AdDraft, error)
	List(ctx context.Context, tenantID string, filters DraftFilters) ([]*models.AdDraft, int, error)
	UpdateCopy(ctx context.Context, tenantID, id, title, copy string) error
	Delete(ctx context.Context, tenantID, id string) error

	// MarkSubmitting claims the draft for an in-flight submission.
	// The update is conditional on the current status so that two
	// concurrent submissions cannot both claim the same draft.
	// Returns false when the draft was not claimable.
	MarkSubmitting(ctx context.Context, tenantID, id string) (bool, error)

	// CommitSubmitted persists the terminal success state: status,
	// all three platform IDs and submitted_at in a single update.
	CommitSubmitted(ctx context.Context, tenantID, id string, result SubmitOutcome) error

	// CommitFailed persists the terminal failure state and increments
	// retry_count by exactly one.
	CommitFailed(ctx context.Context, tenantID, id, errorMessage string, errorCode *string) error
}

// SubmitOutcome carries the platform identifiers persisted on success
type SubmitOutcome struct {
	AdID        string
	AdSetID     string
	CreativeID  string
	SubmittedAt time.Time
}

// DraftFilters defines filters for listing drafts
type DraftFilters struct {
	Page     int
	PageSize int
	Status   *models.DraftStatus
}

// IntegrationRepository defines platform integration data access operations
type IntegrationRepository interface {
	Upsert(ctx context.Context, integration *models.Integration) error
	GetActive(ctx context.Context, tenantID string, p models.Platform) (*models.Integration, error)
	Deactivate(ctx context.Context, tenantID string, p models.Platform) error
}

// DB is a wrapper around *sql.DB to allow passing in transaction
type DB interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}
