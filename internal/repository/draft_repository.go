package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"adscribe/internal/models"
)

type draftRepository struct {
	db *sql.DB
}

// NewDraftRepository creates a new ad draft repository
func NewDraftRepository(db *sql.DB) DraftRepository {
	return &draftRepository{db: db}
}

const draftColumns = `
	id, tenant_id, ad_title, ad_copy, image_urls, selected_image_url,
	campaign_id, product_handle, status, platform_ad_id, platform_adset_id,
	platform_creative_id, error_message, error_code, retry_count,
	created_at, updated_at, submitted_at
`

// Create creates a new ad draft
func (r *draftRepository) Create(ctx context.Context, draft *models.AdDraft) error {
	if draft.ID == "" {
		draft.ID = uuid.NewString()
	}
	if draft.Status == "" {
		draft.Status = models.DraftStatusDraft
	}

	query := `
		INSERT INTO ad_drafts (id, tenant_id, ad_title, ad_copy, image_urls, selected_image_url, campaign_id, product_handle, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		draft.ID,
		draft.TenantID,
		draft.Title,
		draft.Copy,
		pq.Array(draft.ImageURLs),
		draft.SelectedImageURL,
		draft.CampaignID,
		draft.ProductHandle,
		draft.Status,
	).Scan(&draft.CreatedAt, &draft.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create draft: %w", err)
	}

	return nil
}

// GetByID retrieves a draft by ID, scoped to the tenant
func (r *draftRepository) GetByID(ctx context.Context, tenantID, id string) (*models.AdDraft, error) {
	query := `
		SELECT ` + draftColumns + `
		FROM ad_drafts
		WHERE id = $1 AND tenant_id = $2
	`

	draft, err := scanDraft(r.db.QueryRowContext(ctx, query, id, tenantID))
	if err == sql.ErrNoRows {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}

	return draft, nil
}

// List retrieves a tenant's drafts with filters and pagination
func (r *draftRepository) List(ctx context.Context, tenantID string, filters DraftFilters) ([]*models.AdDraft, int, error) {
	queryBuilder := strings.Builder{}
	queryBuilder.WriteString(`
		SELECT ` + draftColumns + `
		FROM ad_drafts
		WHERE tenant_id = $1
	`)

	args := []interface{}{tenantID}
	argPos := 2

	if filters.Status != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND status = $%d", argPos))
		args = append(args, *filters.Status)
		argPos++
	}

	// Order by creation time DESC for stable pagination
	queryBuilder.WriteString(" ORDER BY created_at DESC, id DESC")

	limit := filters.PageSize
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	offset := (filters.Page - 1) * limit
	if offset < 0 {
		offset = 0
	}

	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1))
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	drafts := []*models.AdDraft{}
	for rows.Next() {
		draft, err := scanDraft(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan draft: %w", err)
		}
		drafts = append(drafts, draft)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list drafts: %w", err)
	}

	// Get total count with the same tenant scope and filters
	countQuery := "SELECT COUNT(*) FROM ad_drafts WHERE tenant_id = $1"
	countArgs := []interface{}{tenantID}

	if filters.Status != nil {
		countQuery += " AND status = $2"
		countArgs = append(countArgs, *filters.Status)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count drafts: %w", err)
	}

	return drafts, total, nil
}

// UpdateCopy replaces the generated title and copy on a draft
func (r *draftRepository) UpdateCopy(ctx context.Context, tenantID, id, title, copy string) error {
	query := `
		UPDATE ad_drafts
		SET ad_title = $3, ad_copy = $4, updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2
	`

	result, err := r.db.ExecContext(ctx, query, id, tenantID, title, copy)
	if err != nil {
		return fmt.Errorf("failed to update draft copy: %w", err)
	}

	return requireRow(result)
}

// Delete removes a draft, scoped to the tenant
func (r *draftRepository) Delete(ctx context.Context, tenantID, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM ad_drafts WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}

	return requireRow(result)
}

// MarkSubmitting claims the draft for submission. The status condition
// makes the claim atomic: a draft that is already submitting or
// submitted is not claimable.
func (r *draftRepository) MarkSubmitting(ctx context.Context, tenantID, id string) (bool, error) {
	query := `
		UPDATE ad_drafts
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2 AND status IN ($4, $5)
	`

	result, err := r.db.ExecContext(ctx, query, id, tenantID,
		models.DraftStatusSubmitting, models.DraftStatusDraft, models.DraftStatusFailed)
	if err != nil {
		return false, fmt.Errorf("failed to mark draft submitting: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return affected == 1, nil
}

// CommitSubmitted persists the terminal success state in one update so
// a submitted draft is never visible with a missing platform ID.
func (r *draftRepository) CommitSubmitted(ctx context.Context, tenantID, id string, result SubmitOutcome) error {
	query := `
		UPDATE ad_drafts
		SET status = $3, platform_ad_id = $4, platform_adset_id = $5,
		    platform_creative_id = $6, submitted_at = $7,
		    error_message = NULL, error_code = NULL, updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2
	`

	submittedAt := result.SubmittedAt
	if submittedAt.IsZero() {
		submittedAt = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx, query, id, tenantID,
		models.DraftStatusSubmitted, result.AdID, result.AdSetID, result.CreativeID, submittedAt)
	if err != nil {
		return fmt.Errorf("failed to commit submitted draft: %w", err)
	}

	return requireRow(res)
}

// CommitFailed persists the terminal failure state, incrementing
// retry_count by exactly one.
func (r *draftRepository) CommitFailed(ctx context.Context, tenantID, id, errorMessage string, errorCode *string) error {
	query := `
		UPDATE ad_drafts
		SET status = $3, error_message = $4, error_code = $5,
		    retry_count = retry_count + 1, updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2
	`

	res, err := r.db.ExecContext(ctx, query, id, tenantID,
		models.DraftStatusFailed, errorMessage, errorCode)
	if err != nil {
		return fmt.Errorf("failed to commit failed draft: %w", err)
	}

	return requireRow(res)
}

// scanner abstracts *sql.Row and *sql.Rows for scanDraft
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanDraft reads one draft row
func scanDraft(row scanner) (*models.AdDraft, error) {
	draft := &models.AdDraft{}
	err := row.Scan(
		&draft.ID,
		&draft.TenantID,
		&draft.Title,
		&draft.Copy,
		pq.Array(&draft.ImageURLs),
		&draft.SelectedImageURL,
		&draft.CampaignID,
		&draft.ProductHandle,
		&draft.Status,
		&draft.PlatformAdID,
		&draft.PlatformAdSetID,
		&draft.PlatformCreativeID,
		&draft.ErrorMessage,
		&draft.ErrorCode,
		&draft.RetryCount,
		&draft.CreatedAt,
		&draft.UpdatedAt,
		&draft.SubmittedAt,
	)
	if err != nil {
		return nil, err
	}
	return draft, nil
}

// requireRow converts a zero-row update into sql.ErrNoRows
func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
