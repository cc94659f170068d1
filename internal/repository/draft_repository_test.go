package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adscribe/internal/models"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func draftRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "tenant_id", "ad_title", "ad_copy", "image_urls", "selected_image_url",
		"campaign_id", "product_handle", "status", "platform_ad_id", "platform_adset_id",
		"platform_creative_id", "error_message", "error_code", "retry_count",
		"created_at", "updated_at", "submitted_at",
	}).AddRow(
		"draft-1", "tenant-1", "Summer Sale", "Everything 20% off.",
		`{"https://cdn.example.com/sale.jpg"}`, nil,
		"camp-1", "summer-tee", "draft", nil, nil,
		nil, nil, nil, 0,
		now, now, nil,
	)
}

func TestDraftGetByIDScopedToTenant(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDraftRepository(db)

	mock.ExpectQuery("(?s)SELECT (.+) FROM ad_drafts.+WHERE id = \\$1 AND tenant_id = \\$2").
		WithArgs("draft-1", "tenant-1").
		WillReturnRows(draftRows())

	draft, err := repo.GetByID(context.Background(), "tenant-1", "draft-1")
	require.NoError(t, err)
	assert.Equal(t, "draft-1", draft.ID)
	assert.Equal(t, "tenant-1", draft.TenantID)
	assert.Equal(t, []string{"https://cdn.example.com/sale.jpg"}, draft.ImageURLs)
	assert.Equal(t, models.DraftStatusDraft, draft.Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDraftGetByIDForeignTenant(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDraftRepository(db)

	// Same draft id, different tenant scope: no rows
	mock.ExpectQuery("(?s)SELECT (.+) FROM ad_drafts.+WHERE id = \\$1 AND tenant_id = \\$2").
		WithArgs("draft-1", "tenant-2").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "tenant-2", "draft-1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestMarkSubmittingClaims(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDraftRepository(db)

	mock.ExpectExec("(?s)UPDATE ad_drafts.+SET status = \\$3, updated_at = NOW\\(\\).+status IN \\(\\$4, \\$5\\)").
		WithArgs("draft-1", "tenant-1", "submitting", "draft", "failed").
		WillReturnResult(sqlmock.NewResult(0, 1))

	claimed, err := repo.MarkSubmitting(context.Background(), "tenant-1", "draft-1")
	require.NoError(t, err)
	assert.True(t, claimed)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkSubmittingLosesClaim(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDraftRepository(db)

	// Another submission already moved the draft out of a claimable
	// status; the conditional update matches zero rows.
	mock.ExpectExec("(?s)UPDATE ad_drafts.+SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))

	claimed, err := repo.MarkSubmitting(context.Background(), "tenant-1", "draft-1")
	require.NoError(t, err)
	assert.False(t, claimed)
}

func TestCommitSubmittedIsSingleUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDraftRepository(db)

	submittedAt := time.Now().UTC()

	// Status, all three platform IDs and submitted_at land in one
	// statement, with any previous failure fields cleared.
	mock.ExpectExec("(?s)UPDATE ad_drafts.+SET status = \\$3, platform_ad_id = \\$4, platform_adset_id = \\$5,.+platform_creative_id = \\$6, submitted_at = \\$7,.+error_message = NULL, error_code = NULL").
		WithArgs("draft-1", "tenant-1", "submitted", "ad-1", "adset-1", "creative-1", submittedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.CommitSubmitted(context.Background(), "tenant-1", "draft-1", SubmitOutcome{
		AdID:        "ad-1",
		AdSetID:     "adset-1",
		CreativeID:  "creative-1",
		SubmittedAt: submittedAt,
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitFailedIncrementsRetryCount(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDraftRepository(db)

	code := "190"
	mock.ExpectExec("(?s)UPDATE ad_drafts.+SET status = \\$3, error_message = \\$4, error_code = \\$5,.+retry_count = retry_count \\+ 1").
		WithArgs("draft-1", "tenant-1", "failed", "Invalid OAuth access token.", "190").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.CommitFailed(context.Background(), "tenant-1", "draft-1", "Invalid OAuth access token.", &code)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitFailedMissingDraft(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDraftRepository(db)

	mock.ExpectExec("(?s)UPDATE ad_drafts.+SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.CommitFailed(context.Background(), "tenant-1", "gone", "boom", nil)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestListFiltersByStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDraftRepository(db)

	status := models.DraftStatusFailed
	mock.ExpectQuery("(?s)SELECT (.+) FROM ad_drafts.+WHERE tenant_id = \\$1.+AND status = \\$2 ORDER BY created_at DESC").
		WithArgs("tenant-1", "failed", 20, 0).
		WillReturnRows(draftRows())

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM ad_drafts WHERE tenant_id = \\$1 AND status = \\$2").
		WithArgs("tenant-1", status).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	drafts, total, err := repo.List(context.Background(), "tenant-1", DraftFilters{
		Page:     1,
		PageSize: 20,
		Status:   &status,
	})

	require.NoError(t, err)
	assert.Len(t, drafts, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDraftReturnsTimestamps(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDraftRepository(db)

	now := time.Now()
	mock.ExpectQuery("INSERT INTO ad_drafts").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	draft := &models.AdDraft{
		TenantID:   "tenant-1",
		Title:      "Summer Sale",
		Copy:       "Everything 20% off.",
		ImageURLs:  []string{"https://cdn.example.com/sale.jpg"},
		CampaignID: "camp-1",
	}

	err := repo.Create(context.Background(), draft)
	require.NoError(t, err)
	assert.NotEmpty(t, draft.ID)
	assert.Equal(t, models.DraftStatusDraft, draft.Status)
	assert.Equal(t, now, draft.CreatedAt)
}
